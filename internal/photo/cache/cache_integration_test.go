//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatekeeper/internal/photo/cache"
	"gatekeeper/internal/photo/models"
	platformredis "gatekeeper/internal/platform/redis"
	"gatekeeper/pkg/domain"
	"gatekeeper/pkg/testutil/containers"
)

func TestDashboardCacheAgainstRedis(t *testing.T) {
	ctx := context.Background()
	rc := containers.GetManager().GetRedis(t)
	require.NoError(t, rc.FlushAll(ctx))

	client := &platformredis.Client{Client: rc.Client}
	dash := cache.NewDashboard(client, time.Second)

	roomID := domain.RoomID(1)
	entries := []*models.Submission{
		{ID: 1, VisitorID: 7, RoomID: roomID, ImageURL: "/static/submissions/a.jpg", Score: 90, CreatedAt: time.Now().UTC().Truncate(time.Second)},
		{ID: 2, VisitorID: 8, RoomID: roomID, ImageURL: "/static/submissions/b.jpg", Score: 60, CreatedAt: time.Now().UTC().Truncate(time.Second)},
	}

	dash.Set(ctx, roomID, entries)

	got, hit := dash.Get(ctx, roomID)
	require.True(t, hit)
	require.Len(t, got, 2)
	assert.Equal(t, entries[0].ImageURL, got[0].ImageURL)
	assert.Equal(t, entries[0].Score, got[0].Score)

	t.Run("invalidate drops the entry", func(t *testing.T) {
		dash.Invalidate(ctx, roomID)
		_, hit := dash.Get(ctx, roomID)
		assert.False(t, hit)
	})

	t.Run("entries expire with the ttl", func(t *testing.T) {
		dash.Set(ctx, roomID, entries)
		assert.Eventually(t, func() bool {
			_, hit := dash.Get(ctx, roomID)
			return !hit
		}, 5*time.Second, 100*time.Millisecond)
	})
}
