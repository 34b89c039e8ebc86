package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"gatekeeper/internal/room/models"
	"gatekeeper/pkg/domain"
)

type RoomStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestRoomStoreSuite(t *testing.T) {
	suite.Run(t, new(RoomStoreSuite))
}

func (s *RoomStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *RoomStoreSuite) TestCreateAndList() {
	room, err := models.NewRoom("Main Hall", "the big one")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, room))
	s.Equal(domain.RoomID(1), room.ID)

	found, err := s.store.FindByID(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal("Main Hall", found.Name)

	_, err = s.store.FindByID(s.ctx, domain.RoomID(99))
	s.ErrorIs(err, ErrNotFound)

	rooms, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(rooms, 1)
}

func (s *RoomStoreSuite) TestSeed() {
	s.Require().NoError(Seed(s.ctx, s.store))

	rooms, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 3)
	s.Equal("Ancient Egypt Gallery", rooms[0].Name)
	s.Equal("Royal Mummies Hall", rooms[1].Name)
	s.Equal("Grand Entrance", rooms[2].Name)

	s.Run("seeding is idempotent", func() {
		s.Require().NoError(Seed(s.ctx, s.store))
		count, err := s.store.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(3, count)
	})

	s.Run("a populated store is left alone", func() {
		st := NewInMemory()
		room, err := models.NewRoom("Custom Wing", "")
		s.Require().NoError(err)
		s.Require().NoError(st.Create(s.ctx, room))

		s.Require().NoError(Seed(s.ctx, st))
		count, err := st.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, count)
	})
}
