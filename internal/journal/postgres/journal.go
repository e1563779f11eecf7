package postgres

import (
	"context"
	"time"

	journalDatamodel "github.com/frahmantamala/hr-admin/internal/core/datamodel/journal"
	"github.com/frahmantamala/hr-admin/internal/journal"
	"gorm.io/gorm"
)

const newestFirst = "occurred_at DESC, id DESC"

type JournalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) journal.RepositoryAPI {
	return &JournalRepository{db: db}
}

func (r *JournalRepository) Create(ctx context.Context, entry *journal.Entry) error {
	model := journal.ToDataModel(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	entry.ID = model.ID
	return nil
}

func (r *JournalRepository) ListByUser(ctx context.Context, userID int64) ([]*journal.Entry, error) {
	var rows []*journalDatamodel.JournalAction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(newestFirst).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toEntries(rows), nil
}

func (r *JournalRepository) ListByUserSince(ctx context.Context, userID int64, since time.Time) ([]*journal.Entry, error) {
	var rows []*journalDatamodel.JournalAction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND occurred_at > ?", userID, since).
		Order(newestFirst).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toEntries(rows), nil
}

func (r *JournalRepository) ExistsSince(ctx context.Context, userID int64, action, description string, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&journalDatamodel.JournalAction{}).
		Where("user_id = ? AND action = ? AND description = ? AND occurred_at > ?", userID, action, description, since).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func toEntries(rows []*journalDatamodel.JournalAction) []*journal.Entry {
	entries := make([]*journal.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, journal.FromDataModel(row))
	}
	return entries
}
