package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"gatekeeper/internal/photo/models"
	"gatekeeper/pkg/domain"
)

// InMemory is the slice-backed submission store for development and tests.
type InMemory struct {
	mu          sync.RWMutex
	nextID      domain.SubmissionID
	submissions []*models.Submission
}

// NewInMemory constructs an empty InMemory store.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Create(_ context.Context, submission *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	submission.ID = s.nextID
	clone := *submission
	s.submissions = append(s.submissions, &clone)
	return nil
}

func (s *InMemory) TopByRoomSince(_ context.Context, roomID domain.RoomID, since time.Time, limit int) ([]*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Submission
	for _, sub := range s.submissions {
		if sub.RoomID == roomID && !sub.CreatedAt.Before(since) {
			clone := *sub
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
