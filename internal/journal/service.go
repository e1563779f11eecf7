package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/hr-admin/internal"
	"github.com/frahmantamala/hr-admin/internal/core/events"
	"github.com/google/uuid"
)

type Service struct {
	repo      RepositoryAPI
	users     UserLookup
	throttle  Throttle
	publisher events.Publisher
	now       func() time.Time
	logger    *slog.Logger
}

type Option func(*Service)

// WithThrottle enables the deduplication policy of RecordIfNeeded.
func WithThrottle(t Throttle) Option {
	return func(s *Service) { s.throttle = t }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo RepositoryAPI, users UserLookup, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:   repo,
		users:  users,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithRepository returns a copy writing through repo, typically a transaction-scoped one.
func (s *Service) WithRepository(repo RepositoryAPI) *Service {
	cp := *s
	cp.repo = repo
	return &cp
}

// Record always appends an entry.
func (s *Service) Record(ctx context.Context, actor Actor, action, description string) (*Entry, error) {
	if actor.ID <= 0 {
		return nil, errors.NewInternalError("journal entry requires an actor", nil)
	}

	entry := &Entry{
		UserID:      actor.ID,
		ActorName:   actor.Name,
		Action:      action,
		Description: description,
		Timestamp:   s.now().UTC(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to record journal entry", "user_id", actor.ID, "action", action, "error", err)
		return nil, fmt.Errorf("record journal entry: %w", err)
	}

	s.logger.InfoContext(ctx, "journal entry recorded", "entry_id", entry.ID, "user_id", actor.ID, "action", action)
	s.publish(ctx, EventEntryRecorded, actor.ID, action)
	return entry, nil
}

// RecordIfNeeded appends unless the throttle reports an identical recent entry.
// A throttle failure falls back to recording.
func (s *Service) RecordIfNeeded(ctx context.Context, actor Actor, action, description string) (bool, error) {
	claimed := false
	if s.throttle != nil {
		should, err := s.throttle.ShouldRecord(ctx, actor, action, description)
		if err != nil {
			s.logger.WarnContext(ctx, "journal throttle unavailable, recording anyway", "user_id", actor.ID, "action", action, "error", err)
			should = true
		} else {
			claimed = should
		}
		if !should {
			s.logger.DebugContext(ctx, "journal entry skipped by dedup window", "user_id", actor.ID, "action", action)
			s.publish(ctx, EventEntrySkipped, actor.ID, action)
			return false, nil
		}
	}

	if _, err := s.Record(ctx, actor, action, description); err != nil {
		if claimed {
			s.releaseClaim(ctx, actor, action, description)
		}
		return false, err
	}
	return true, nil
}

// releaseClaim lets the next identical call retry an entry that failed to write.
func (s *Service) releaseClaim(ctx context.Context, actor Actor, action, description string) {
	releaser, ok := s.throttle.(ClaimReleaser)
	if !ok {
		return
	}
	if err := releaser.Release(ctx, actor, action, description); err != nil {
		s.logger.WarnContext(ctx, "failed to release journal dedup claim", "user_id", actor.ID, "action", action, "error", err)
	}
}

// EntriesForUser returns an empty list for an unknown user.
func (s *Service) EntriesForUser(ctx context.Context, userID int64) ([]*Entry, error) {
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list journal entries", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	if entries == nil {
		entries = []*Entry{}
	}
	return entries, nil
}

// EntriesSinceLastLogin returns entries strictly after the user's last login,
// or all entries when the user never logged in.
func (s *Service) EntriesSinceLastLogin(ctx context.Context, userID int64) ([]*Entry, error) {
	lastLogin, err := s.users.GetLastLogin(ctx, userID)
	if err != nil {
		return nil, err
	}
	if lastLogin == nil {
		return s.EntriesForUser(ctx, userID)
	}

	entries, err := s.repo.ListByUserSince(ctx, userID, lastLogin.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list journal entries since last login", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list journal entries since last login: %w", err)
	}
	if entries == nil {
		entries = []*Entry{}
	}
	return entries, nil
}

func (s *Service) publish(ctx context.Context, eventType string, userID int64, action string) {
	if s.publisher == nil {
		return
	}
	event := events.BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: s.now().UTC(),
		Data: map[string]interface{}{
			"user_id": userID,
			"action":  action,
		},
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "journal event not delivered", "event_type", eventType, "error", err)
	}
}
