// Package cache fronts the hourly dashboard with a short-lived redis entry
// so a crowd refreshing the screen does not hammer the store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gatekeeper/internal/photo/models"
	"gatekeeper/internal/platform/redis"
	"gatekeeper/pkg/domain"
)

const keyPrefix = "gatekeeper:dashboard:"

// Dashboard caches per-room dashboard results. A nil client disables caching
// entirely; every method degrades to a miss.
type Dashboard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDashboard constructs a Dashboard cache.
func NewDashboard(client *redis.Client, ttl time.Duration) *Dashboard {
	return &Dashboard{client: client, ttl: ttl}
}

// Get returns the cached dashboard for a room, or false on a miss. Redis
// failures count as misses; the dashboard never fails because the cache did.
func (c *Dashboard) Get(ctx context.Context, roomID domain.RoomID) ([]*models.Submission, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key(roomID)).Bytes()
	if err != nil {
		return nil, false
	}
	var out []*models.Submission
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

// Set stores the dashboard for a room, best-effort.
func (c *Dashboard) Set(ctx context.Context, roomID domain.RoomID, submissions []*models.Submission) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(submissions)
	if err != nil {
		return
	}
	c.client.Set(ctx, key(roomID), raw, c.ttl)
}

// Invalidate drops a room's cached dashboard, so a fresh submission shows up
// without waiting out the TTL.
func (c *Dashboard) Invalidate(ctx context.Context, roomID domain.RoomID) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, key(roomID))
}

func key(roomID domain.RoomID) string {
	return fmt.Sprintf("%s%d", keyPrefix, roomID.Int64())
}
