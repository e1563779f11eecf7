package user

import (
	"time"

	"github.com/frahmantamala/hr-admin/internal/core/common/validation"
)

// UpdateUserDTO carries a partial profile edit; nil fields are left unchanged.
// Role and permissions are not editable through this path.
type UpdateUserDTO struct {
	Nom      *string `json:"nom"`
	Prenom   *string `json:"prenom"`
	Email    *string `json:"email"`
	Username *string `json:"username"`
}

func (d UpdateUserDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("nom", d.Nom).NotBlank().MaxLength(100)
	validator.Field("prenom", d.Prenom).NotBlank().MaxLength(100)
	validator.Field("email", d.Email).NotBlank().MaxLength(255).Email()
	validator.Field("username", d.Username).NotBlank().MaxLength(50).Username()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Apply copies the present fields onto u.
func (d UpdateUserDTO) Apply(u *User) {
	if d.Nom != nil {
		u.Nom = *d.Nom
	}
	if d.Prenom != nil {
		u.Prenom = *d.Prenom
	}
	if d.Email != nil {
		u.Email = *d.Email
	}
	if d.Username != nil {
		u.Username = *d.Username
	}
}

// UserResponse is the read-facing projection; it never carries credentials.
type UserResponse struct {
	ID          int64      `json:"id"`
	Nom         string     `json:"nom"`
	Prenom      string     `json:"prenom"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	Permissions []string   `json:"permissions"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ResetPasswordResponse struct {
	Message     string `json:"message"`
	NewPassword string `json:"newPassword,omitempty"`
}
