// Package store persists exhibition rooms.
package store

import (
	"context"

	"gatekeeper/internal/room/models"
	"gatekeeper/pkg/domain"
	"gatekeeper/pkg/platform/sentinel"
)

// ErrNotFound signals that no room matched the lookup.
var ErrNotFound = sentinel.ErrNotFound

// Store is the room persistence contract.
type Store interface {
	Create(ctx context.Context, room *models.Room) error
	FindByID(ctx context.Context, id domain.RoomID) (*models.Room, error)
	List(ctx context.Context) ([]*models.Room, error)
	Count(ctx context.Context) (int, error)
}

// defaultRooms are seeded on first start so the museum isn't empty.
var defaultRooms = []struct{ name, description string }{
	{"Ancient Egypt Gallery", ""},
	{"Royal Mummies Hall", ""},
	{"Grand Entrance", ""},
}

// Seed creates the default galleries when the store holds no rooms.
func Seed(ctx context.Context, st Store) error {
	count, err := st.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, def := range defaultRooms {
		room, err := models.NewRoom(def.name, def.description)
		if err != nil {
			return err
		}
		if err := st.Create(ctx, room); err != nil {
			return err
		}
	}
	return nil
}
