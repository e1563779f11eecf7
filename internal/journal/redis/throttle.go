package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/frahmantamala/hr-admin/internal/journal"
	"github.com/redis/go-redis/v9"
)

// Throttle implements journal.Throttle with one expiring key per
// (actor, action, description). Key format: journal:dedup:<actor>:<action>:<digest>
type Throttle struct {
	client *redis.Client
	window time.Duration
}

func NewThrottle(client *redis.Client, window time.Duration) *Throttle {
	return &Throttle{client: client, window: window}
}

// ShouldRecord claims the key for the window; it reports false while a claim is live.
func (t *Throttle) ShouldRecord(ctx context.Context, actor journal.Actor, action, description string) (bool, error) {
	if t.window <= 0 {
		return true, nil
	}
	claimed, err := t.client.SetNX(ctx, t.key(actor.ID, action, description), "1", t.window).Result()
	if err != nil {
		return false, fmt.Errorf("journal throttle: %w", err)
	}
	return claimed, nil
}

// Release drops the claim taken by ShouldRecord.
func (t *Throttle) Release(ctx context.Context, actor journal.Actor, action, description string) error {
	if t.window <= 0 {
		return nil
	}
	if err := t.client.Del(ctx, t.key(actor.ID, action, description)).Err(); err != nil {
		return fmt.Errorf("journal throttle release: %w", err)
	}
	return nil
}

func (t *Throttle) key(actorID int64, action, description string) string {
	sum := sha256.Sum256([]byte(description))
	return fmt.Sprintf("journal:dedup:%d:%s:%s", actorID, action, hex.EncodeToString(sum[:8]))
}
