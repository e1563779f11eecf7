package user

import (
	"context"
	"time"

	userDatamodel "github.com/frahmantamala/hr-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/hr-admin/internal/journal"
)

// Role is the single stored source of truth for a user's kind.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleDirecteur   Role = "DIRECTEUR"
	RoleRH          Role = "RH"
	RoleResponsable Role = "RESPONSABLE"
	RoleNone        Role = ""
)

// ParseRole maps unknown values to RoleNone.
func ParseRole(s string) Role {
	switch r := Role(s); r {
	case RoleAdmin, RoleDirecteur, RoleRH, RoleResponsable:
		return r
	}
	return RoleNone
}

type User struct {
	ID           int64      `json:"id"`
	Nom          string     `json:"nom"`
	Prenom       string     `json:"prenom"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Permissions  []string   `json:"permissions"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) DisplayName() string {
	return u.Nom + " " + u.Prenom
}

func (u *User) ToResponse() UserResponse {
	permissions := u.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	return UserResponse{
		ID:          u.ID,
		Nom:         u.Nom,
		Prenom:      u.Prenom,
		Email:       u.Email,
		Username:    u.Username,
		Role:        string(u.Role),
		Permissions: permissions,
		LastLogin:   u.LastLogin,
	}
}

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*User, error)
	// GetByID and GetByUsername return errors.ErrUserNotFound when nothing matches.
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByRole(ctx context.Context, role Role) ([]*User, error)
	// Update writes the profile fields only.
	Update(ctx context.Context, u *User) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
	GetLastLogin(ctx context.Context, id int64) (*time.Time, error)
}

// TxRunner runs fn with repositories bound to one database transaction.
// Returning an error from fn rolls back every write made through them.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(users RepositoryAPI, entries journal.RepositoryAPI) error) error
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Nom:          u.Nom,
		Prenom:       u.Prenom,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Nom:          u.Nom,
		Prenom:       u.Prenom,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         ParseRole(u.Role),
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		Permissions:  []string{},
	}
}

func FromDataModelWithPermissions(u *userDatamodel.User, permissions []string) *User {
	domainUser := FromDataModel(u)
	if permissions != nil {
		domainUser.Permissions = permissions
	}
	return domainUser
}
