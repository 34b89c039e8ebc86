package store

import (
	"context"
	"sort"
	"sync"

	"gatekeeper/internal/room/models"
	"gatekeeper/pkg/domain"
)

// InMemory is the map-backed room store for development and tests.
type InMemory struct {
	mu     sync.RWMutex
	nextID domain.RoomID
	rooms  map[domain.RoomID]*models.Room
}

// NewInMemory constructs an empty InMemory store.
func NewInMemory() *InMemory {
	return &InMemory{rooms: make(map[domain.RoomID]*models.Room)}
}

func (s *InMemory) Create(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	room.ID = s.nextID
	clone := *room
	s.rooms[room.ID] = &clone
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.RoomID) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *room
	return &clone, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		clone := *room
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms), nil
}
