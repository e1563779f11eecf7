package postgres

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/frahmantamala/hr-admin/internal"
	userDatamodel "github.com/frahmantamala/hr-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/hr-admin/internal/journal"
	journalPostgres "github.com/frahmantamala/hr-admin/internal/journal/postgres"
	"github.com/frahmantamala/hr-admin/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*user.User, error) {
	var rows []*userDatamodel.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withPermissions(ctx, rows)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) GetByRole(ctx context.Context, role user.Role) ([]*user.User, error) {
	var rows []*userDatamodel.User
	if err := r.db.WithContext(ctx).Where("role = ?", string(role)).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withPermissions(ctx, rows)
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	result := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"nom":        u.Nom,
			"prenom":     u.Prenom,
			"email":      u.Email,
			"username":   u.Username,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperrors.ErrUsernameTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	result := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Delete removes the user and its permission grants. Journal rows are kept.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ?", id).Delete(&userDatamodel.UserPermission{}).Error; err != nil {
		return err
	}
	result := db.Where("id = ?", id).Delete(&userDatamodel.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetLastLogin(ctx context.Context, id int64) (*time.Time, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Select("id", "last_login").Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return row.LastLogin, nil
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	var row userDatamodel.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	users, err := r.withPermissions(ctx, []*userDatamodel.User{&row})
	if err != nil {
		return nil, err
	}
	return users[0], nil
}

type permissionRow struct {
	UserID int64
	Name   string
}

func (r *UserRepository) withPermissions(ctx context.Context, rows []*userDatamodel.User) ([]*user.User, error) {
	users := make([]*user.User, 0, len(rows))
	if len(rows) == 0 {
		return users, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	var grants []permissionRow
	err := r.db.WithContext(ctx).
		Table("user_permissions up").
		Select("up.user_id AS user_id, p.name AS name").
		Joins("JOIN permissions p ON p.id = up.permission_id").
		Where("up.user_id IN ?", ids).
		Order("p.name ASC").
		Scan(&grants).Error
	if err != nil {
		return nil, err
	}

	byUser := make(map[int64][]string, len(rows))
	for _, g := range grants {
		byUser[g.UserID] = append(byUser[g.UserID], g.Name)
	}
	for _, row := range rows {
		users = append(users, user.FromDataModelWithPermissions(row, byUser[row.ID]))
	}
	return users, nil
}

// TxRunner binds the user and journal repositories to one gorm transaction.
type TxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (t *TxRunner) WithinTransaction(ctx context.Context, fn func(users user.RepositoryAPI, entries journal.RepositoryAPI) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewUserRepository(tx), journalPostgres.NewJournalRepository(tx))
	})
}
