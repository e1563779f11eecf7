package journal

import (
	"context"
	"time"
)

// StoreThrottle skips an entry when the journal already holds the same
// (actor, action, description) within the window.
type StoreThrottle struct {
	repo   RepositoryAPI
	window time.Duration
	now    func() time.Time
}

func NewStoreThrottle(repo RepositoryAPI, window time.Duration, now func() time.Time) *StoreThrottle {
	if now == nil {
		now = time.Now
	}
	return &StoreThrottle{repo: repo, window: window, now: now}
}

func (t *StoreThrottle) ShouldRecord(ctx context.Context, actor Actor, action, description string) (bool, error) {
	if t.window <= 0 {
		return true, nil
	}
	exists, err := t.repo.ExistsSince(ctx, actor.ID, action, description, t.now().UTC().Add(-t.window))
	if err != nil {
		return false, err
	}
	return !exists, nil
}
