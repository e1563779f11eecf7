package journal

import (
	"context"
	"time"

	journalDatamodel "github.com/frahmantamala/hr-admin/internal/core/datamodel/journal"
)

// Action categories written by the directory endpoints.
const (
	ActionConsultation  = "Consultation"
	ActionModification  = "Modification"
	ActionSuppression   = "Suppression"
	ActionPasswordReset = "Réinitialisation_MDP"
)

const (
	EventEntryRecorded = "journal.entry_recorded"
	EventEntrySkipped  = "journal.entry_skipped"
)

// Actor is the user an entry is recorded against. Name is stored with the
// entry so history stays readable after the user is deleted.
type Actor struct {
	ID   int64
	Name string
}

type Entry struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ActorName   string    `json:"actor_name"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type RepositoryAPI interface {
	Create(ctx context.Context, entry *Entry) error
	// ListByUser and ListByUserSince order by timestamp, most recent first.
	ListByUser(ctx context.Context, userID int64) ([]*Entry, error)
	ListByUserSince(ctx context.Context, userID int64, since time.Time) ([]*Entry, error)
	ExistsSince(ctx context.Context, userID int64, action, description string, since time.Time) (bool, error)
}

// UserLookup resolves the stored last login of a user. It returns
// errors.ErrUserNotFound for unknown ids and nil for a user who never logged in.
type UserLookup interface {
	GetLastLogin(ctx context.Context, userID int64) (*time.Time, error)
}

// Throttle decides whether a conditional entry should be written.
type Throttle interface {
	ShouldRecord(ctx context.Context, actor Actor, action, description string) (bool, error)
}

// ClaimReleaser is implemented by throttles whose ShouldRecord claims a slot
// up front. Release frees the slot when the entry could not be written.
type ClaimReleaser interface {
	Release(ctx context.Context, actor Actor, action, description string) error
}

func ToDataModel(e *Entry) *journalDatamodel.JournalAction {
	return &journalDatamodel.JournalAction{
		ID:          e.ID,
		UserID:      e.UserID,
		ActorName:   e.ActorName,
		Action:      e.Action,
		Description: e.Description,
		OccurredAt:  e.Timestamp,
	}
}

func FromDataModel(a *journalDatamodel.JournalAction) *Entry {
	return &Entry{
		ID:          a.ID,
		UserID:      a.UserID,
		ActorName:   a.ActorName,
		Action:      a.Action,
		Description: a.Description,
		Timestamp:   a.OccurredAt,
	}
}
