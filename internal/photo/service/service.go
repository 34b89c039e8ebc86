// Package service runs the photo competition: accepting uploads and serving
// the best-of-the-hour dashboard.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"gatekeeper/internal/photo/cache"
	"gatekeeper/internal/photo/metrics"
	"gatekeeper/internal/photo/models"
	"gatekeeper/internal/photo/store"
	roommodels "gatekeeper/internal/room/models"
	visitormodels "gatekeeper/internal/visitor/models"
	"gatekeeper/pkg/domain"
	dErrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/platform/sentinel"
	"gatekeeper/pkg/requestcontext"
)

// Dashboard shape: the top entries of the trailing hour.
const (
	dashboardWindow = time.Hour
	dashboardLimit  = 3
)

// Demo scoring range; stands in for the judging flow.
const (
	scoreMin = 10
	scoreMax = 100
)

// VisitorFinder checks that the submitting visitor exists.
type VisitorFinder interface {
	FindByID(ctx context.Context, id domain.VisitorID) (*visitormodels.Visitor, error)
}

// RoomFinder checks that the target room exists.
type RoomFinder interface {
	FindByID(ctx context.Context, id domain.RoomID) (*roommodels.Room, error)
}

// FileStore persists the uploaded image bytes and returns the public URL.
type FileStore interface {
	Save(originalFilename string, contents io.Reader) (string, error)
}

// Tx bounds a submit in one atomic unit: the visitor and room checks and the
// insert all run against the same snapshot.
type Tx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// noopTx backs the in-memory stores, which need no transaction.
type noopTx struct{}

func (noopTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Service orchestrates photo submissions and the dashboard.
type Service struct {
	submissions store.Store
	visitors    VisitorFinder
	rooms       RoomFinder
	files       FileStore
	cache       *cache.Dashboard
	tx          Tx
	logger      *slog.Logger
	metrics     *metrics.Metrics
	score       func() int
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithCache(c *cache.Dashboard) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithTxRunner makes submits transactional over a SQL-backed store set.
func WithTxRunner(tx Tx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

// WithScorer overrides the demo scorer, for tests.
func WithScorer(score func() int) Option {
	return func(s *Service) {
		s.score = score
	}
}

// New constructs a photo Service.
func New(submissions store.Store, visitors VisitorFinder, rooms RoomFinder, files FileStore, opts ...Option) *Service {
	s := &Service{
		submissions: submissions,
		visitors:    visitors,
		rooms:       rooms,
		files:       files,
		tx:          noopTx{},
		score: func() int {
			return scoreMin + rand.IntN(scoreMax-scoreMin+1)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit stores the uploaded image and enters it into the room's
// competition with a demo score.
func (s *Service) Submit(ctx context.Context, visitorID domain.VisitorID, roomID domain.RoomID, originalFilename string, contents io.Reader) (*models.Submission, error) {
	var submission *models.Submission
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.visitors.FindByID(txCtx, visitorID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "visitor not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load visitor")
		}
		if _, err := s.rooms.FindByID(txCtx, roomID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "room not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load room")
		}

		imageURL, err := s.files.Save(originalFilename, contents)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store image")
		}

		sub, err := models.NewSubmission(visitorID, roomID, imageURL, s.score(), requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		if err := s.submissions.Create(txCtx, sub); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record submission")
		}
		submission = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, roomID)
	s.metrics.IncrementSubmission()
	if s.logger != nil {
		s.logger.InfoContext(ctx, "photo submitted",
			"submission_id", submission.ID,
			"visitor_id", visitorID,
			"room_id", roomID,
			"score", submission.Score,
		)
	}
	return submission, nil
}

// Dashboard returns the top submissions of the trailing hour for a room.
func (s *Service) Dashboard(ctx context.Context, roomID domain.RoomID) ([]*models.Submission, error) {
	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "room not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load room")
	}

	if cached, ok := s.cache.Get(ctx, roomID); ok {
		s.metrics.IncrementDashboardRead(true)
		return cached, nil
	}

	since := requestcontext.Now(ctx).Add(-dashboardWindow)
	top, err := s.submissions.TopByRoomSince(ctx, roomID, since, dashboardLimit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load dashboard")
	}

	s.cache.Set(ctx, roomID, top)
	s.metrics.IncrementDashboardRead(false)
	return top, nil
}
