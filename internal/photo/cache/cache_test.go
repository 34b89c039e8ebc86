package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"gatekeeper/internal/photo/models"
	"gatekeeper/internal/platform/redis"
	"gatekeeper/pkg/domain"
)

type DashboardCacheSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	cache *Dashboard
	ctx   context.Context
}

func TestDashboardCacheSuite(t *testing.T) {
	suite.Run(t, new(DashboardCacheSuite))
}

func (s *DashboardCacheSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	client := goredis.NewClient(&goredis.Options{Addr: s.mini.Addr()})
	s.cache = NewDashboard(&redis.Client{Client: client}, 30*time.Second)
	s.ctx = context.Background()
}

func (s *DashboardCacheSuite) entries() []*models.Submission {
	return []*models.Submission{
		{ID: 1, VisitorID: 1, RoomID: 2, ImageURL: "/static/submissions/a.jpg", Score: 90, CreatedAt: time.Now().UTC().Truncate(time.Second)},
		{ID: 2, VisitorID: 1, RoomID: 2, ImageURL: "/static/submissions/b.jpg", Score: 60, CreatedAt: time.Now().UTC().Truncate(time.Second)},
	}
}

func (s *DashboardCacheSuite) TestRoundTrip() {
	roomID := domain.RoomID(2)

	_, ok := s.cache.Get(s.ctx, roomID)
	s.False(ok, "cold cache misses")

	want := s.entries()
	s.cache.Set(s.ctx, roomID, want)

	got, ok := s.cache.Get(s.ctx, roomID)
	s.Require().True(ok)
	s.Require().Len(got, 2)
	s.Equal(want[0].ImageURL, got[0].ImageURL)
	s.Equal(want[0].Score, got[0].Score)
}

func (s *DashboardCacheSuite) TestEntriesExpire() {
	roomID := domain.RoomID(2)
	s.cache.Set(s.ctx, roomID, s.entries())

	s.mini.FastForward(31 * time.Second)

	_, ok := s.cache.Get(s.ctx, roomID)
	s.False(ok)
}

func (s *DashboardCacheSuite) TestInvalidate() {
	roomID := domain.RoomID(2)
	s.cache.Set(s.ctx, roomID, s.entries())
	s.cache.Invalidate(s.ctx, roomID)

	_, ok := s.cache.Get(s.ctx, roomID)
	s.False(ok)
}

func (s *DashboardCacheSuite) TestRoomsDoNotCollide() {
	s.cache.Set(s.ctx, domain.RoomID(2), s.entries())

	_, ok := s.cache.Get(s.ctx, domain.RoomID(3))
	s.False(ok)
}

func (s *DashboardCacheSuite) TestNilCacheDegradesToMiss() {
	var disabled *Dashboard

	_, ok := disabled.Get(s.ctx, domain.RoomID(2))
	s.False(ok)
	disabled.Set(s.ctx, domain.RoomID(2), s.entries())
	disabled.Invalidate(s.ctx, domain.RoomID(2))
}
