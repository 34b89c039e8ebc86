package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gatekeeper/internal/gate/events"
	"gatekeeper/internal/visitor/models"
	"gatekeeper/internal/visitor/store"
)

// countingStore wraps the in-memory store to observe cache effectiveness.
type countingStore struct {
	*store.InMemory
	mu      sync.Mutex
	lookups int
}

func (c *countingStore) FindByToken(ctx context.Context, token string) (*models.Visitor, models.TokenKind, error) {
	c.mu.Lock()
	c.lookups++
	c.mu.Unlock()
	return c.InMemory.FindByToken(ctx, token)
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturingPublisher) Emit(event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturingPublisher) all() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}

type GateServiceSuite struct {
	suite.Suite
	store     *countingStore
	publisher *capturingPublisher
	service   *Service
	ctx       context.Context
}

func TestGateServiceSuite(t *testing.T) {
	suite.Run(t, new(GateServiceSuite))
}

func (s *GateServiceSuite) SetupTest() {
	s.store = &countingStore{InMemory: store.NewInMemory()}
	s.publisher = &capturingPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(s.store,
		WithLogger(logger),
		WithPublisher(s.publisher),
	)
	s.ctx = context.Background()
}

func (s *GateServiceSuite) enroll(email, deviceToken, cardToken string) *models.Visitor {
	v, err := models.NewVisitor(email, "Ann", "", time.Now())
	s.Require().NoError(err)
	if deviceToken != "" {
		v.SetToken(models.TokenKindDevice, deviceToken)
	}
	s.Require().NoError(s.store.Create(s.ctx, v))
	if cardToken != "" {
		_, err := s.store.BindToken(s.ctx, v.ID, models.TokenKindCard, cardToken)
		s.Require().NoError(err)
	}
	return v
}

func (s *GateServiceSuite) TestScan() {
	s.enroll("ann@example.com", "D1", "C1")

	s.Run("grants a device token", func() {
		res, err := s.service.Scan(s.ctx, "D1")
		s.Require().NoError(err)
		s.Equal(AccessGranted, res.Decision)
		s.Equal("Ann", res.UserName)
		s.Equal("Welcome, Ann! Enjoy your visit.", res.WelcomeMessage)
	})

	s.Run("grants a card token of the same account", func() {
		res, err := s.service.Scan(s.ctx, "C1")
		s.Require().NoError(err)
		s.Equal(AccessGranted, res.Decision)
		s.Equal("Ann", res.UserName)
	})

	s.Run("denies an unknown token without detail", func() {
		res, err := s.service.Scan(s.ctx, "nope")
		s.Require().NoError(err)
		s.Equal(AccessDenied, res.Decision)
		s.Empty(res.UserName)
		s.Empty(res.WelcomeMessage)
	})

	s.Run("denies an empty token the same way", func() {
		res, err := s.service.Scan(s.ctx, "  ")
		s.Require().NoError(err)
		s.Equal(AccessDenied, res.Decision)
	})
}

func (s *GateServiceSuite) TestScanFallsBackToEmailLocalPart() {
	v, err := models.NewVisitor("guest@example.com", "", "", time.Now())
	s.Require().NoError(err)
	v.SetToken(models.TokenKindDevice, "D9")
	s.Require().NoError(s.store.Create(s.ctx, v))

	res, err := s.service.Scan(s.ctx, "D9")
	s.Require().NoError(err)
	s.Equal("Guest", res.UserName)
}

func (s *GateServiceSuite) TestGrantsAreCached() {
	s.enroll("ann@example.com", "D1", "")

	_, err := s.service.Scan(s.ctx, "D1")
	s.Require().NoError(err)
	_, err = s.service.Scan(s.ctx, "D1")
	s.Require().NoError(err)

	s.Equal(1, s.store.lookups, "second grant is served from cache")
}

func (s *GateServiceSuite) TestDenialsAreNotCached() {
	res, err := s.service.Scan(s.ctx, "D1")
	s.Require().NoError(err)
	s.Equal(AccessDenied, res.Decision)

	// The token gains an owner after the first denial; the next scan must
	// see it.
	s.enroll("late@example.com", "D1", "")

	res, err = s.service.Scan(s.ctx, "D1")
	s.Require().NoError(err)
	s.Equal(AccessGranted, res.Decision)
}

func (s *GateServiceSuite) TestScanEmitsEntryEvents() {
	v := s.enroll("ann@example.com", "D1", "")

	_, err := s.service.Scan(s.ctx, "D1")
	s.Require().NoError(err)
	_, err = s.service.Scan(s.ctx, "nope")
	s.Require().NoError(err)

	got := s.publisher.all()
	s.Require().Len(got, 2)
	s.Equal(events.DecisionGranted, got[0].Decision)
	s.Equal(v.ID.Int64(), got[0].VisitorID)
	s.Equal("device", got[0].TokenKind)
	s.Equal(events.DecisionDenied, got[1].Decision)
	s.Zero(got[1].VisitorID)
}
