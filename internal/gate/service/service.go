// Package service answers the single question the turnstile asks: does this
// token belong to anyone. Lookups are read-only and cacheable, because a
// token, once bound, never moves to another account.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"gatekeeper/internal/gate/events"
	"gatekeeper/internal/gate/metrics"
	"gatekeeper/internal/visitor/models"
	"gatekeeper/internal/visitor/store"
	dErrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/requestcontext"
)

var tracer = otel.Tracer("gate")

// Grant cache TTLs. Only grants are cached: a token can gain an owner at any
// moment, so a negative result must always re-check the store, while a
// positive one is permanent by the binding invariant. The TTL just bounds
// staleness of the greeting name after a profile edit.
const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Decision is the scan outcome surfaced to the gate hardware.
type Decision string

const (
	AccessGranted Decision = "ACCESS_GRANTED"
	AccessDenied  Decision = "ACCESS_DENIED"
)

// Result is the outcome of a gate scan.
type Result struct {
	Decision       Decision
	UserName       string
	WelcomeMessage string
}

// Store is the read path the gate depends on.
type Store interface {
	FindByToken(ctx context.Context, token string) (*models.Visitor, models.TokenKind, error)
}

// Publisher records entry events off the hot path.
type Publisher interface {
	Emit(event events.Event)
}

type cachedGrant struct {
	visitorID int64
	name      string
	kind      models.TokenKind
}

// Service resolves scanned tokens to access decisions.
type Service struct {
	store     Store
	cache     *gocache.Cache
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher Publisher
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

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// New constructs a gate Service.
func New(st Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		cache: gocache.New(cacheTTL, cacheCleanup),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan resolves a scanned token to a decision. A missing match is a normal
// denial, not an error; errors are reserved for storage failures.
func (s *Service) Scan(ctx context.Context, scannedToken string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Gate.Service.Scan")
	defer span.End()
	start := time.Now()

	scannedToken = strings.TrimSpace(scannedToken)
	if scannedToken == "" {
		// Indistinguishable from an unregistered token on purpose.
		return s.deny(ctx, start, false), nil
	}

	if cached, ok := s.cache.Get(scannedToken); ok {
		grant := cached.(cachedGrant)
		span.SetAttributes(attribute.Bool("gate.cache_hit", true))
		return s.grant(ctx, start, grant, true), nil
	}

	visitor, kind, err := s.store.FindByToken(ctx, scannedToken)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		return s.deny(ctx, start, false), nil
	default:
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve token")
	}

	grant := cachedGrant{
		visitorID: visitor.ID.Int64(),
		name:      visitor.DisplayName(),
		kind:      kind,
	}
	s.cache.Set(scannedToken, grant, gocache.DefaultExpiration)
	return s.grant(ctx, start, grant, false), nil
}

func (s *Service) grant(ctx context.Context, start time.Time, grant cachedGrant, cacheHit bool) *Result {
	s.metrics.IncrementScan(string(AccessGranted), cacheHit)
	s.metrics.ObserveScanLatency(start)
	s.emit(ctx, events.Event{
		Decision:  events.DecisionGranted,
		VisitorID: grant.visitorID,
		TokenKind: grant.kind.String(),
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "access granted",
			"visitor_id", grant.visitorID,
			"token_kind", grant.kind,
			"cache_hit", cacheHit,
			"reader_id", requestcontext.ReaderID(ctx),
		)
	}
	return &Result{
		Decision:       AccessGranted,
		UserName:       grant.name,
		WelcomeMessage: fmt.Sprintf("Welcome, %s! Enjoy your visit.", grant.name),
	}
}

func (s *Service) deny(ctx context.Context, start time.Time, cacheHit bool) *Result {
	s.metrics.IncrementScan(string(AccessDenied), cacheHit)
	s.metrics.ObserveScanLatency(start)
	s.emit(ctx, events.Event{Decision: events.DecisionDenied})
	return &Result{Decision: AccessDenied}
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	event.ReaderID = requestcontext.ReaderID(ctx)
	s.publisher.Emit(event)
}
