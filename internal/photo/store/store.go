// Package store persists photo submissions.
package store

import (
	"context"
	"time"

	"gatekeeper/internal/photo/models"
	"gatekeeper/pkg/domain"
	"gatekeeper/pkg/platform/sentinel"
)

// ErrNotFound signals that no submission matched the lookup.
var ErrNotFound = sentinel.ErrNotFound

// Store is the submission persistence contract.
type Store interface {
	Create(ctx context.Context, submission *models.Submission) error
	// TopByRoomSince returns the highest-scored submissions for a room
	// created at or after the cutoff, best first.
	TopByRoomSince(ctx context.Context, roomID domain.RoomID, since time.Time, limit int) ([]*models.Submission, error)
}
