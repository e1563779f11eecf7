package postgres

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/frahmantamala/hr-admin/internal"
	"github.com/frahmantamala/hr-admin/internal/auth"
	userDatamodel "github.com/frahmantamala/hr-admin/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(ctx context.Context, username string) (*auth.Credentials, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).
		Select("id", "password_hash").
		Where("username = ?", username).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &auth.Credentials{UserID: row.ID, PasswordHash: row.PasswordHash}, nil
}

func (r *Repository) GetUserWithPermissions(ctx context.Context, userID int64) (*auth.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).
		Select("id", "nom", "prenom", "username", "role").
		Where("id = ?", userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	var permissions []string
	err = r.db.WithContext(ctx).
		Table("permissions p").
		Select("p.name").
		Joins("JOIN user_permissions up ON p.id = up.permission_id").
		Where("up.user_id = ?", userID).
		Order("p.name ASC").
		Pluck("p.name", &permissions).Error
	if err != nil {
		return nil, err
	}

	return &auth.User{
		ID:          row.ID,
		Username:    row.Username,
		DisplayName: row.Nom + " " + row.Prenom,
		Role:        row.Role,
		Permissions: permissions,
	}, nil
}

func (r *Repository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("last_login", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
