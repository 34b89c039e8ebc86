// Package service implements identity resolution: the atomic
// login-or-register flow, card linking, and profile management.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/mssola/useragent"

	"gatekeeper/internal/visitor/metrics"
	"gatekeeper/internal/visitor/models"
	"gatekeeper/internal/visitor/store"
	"gatekeeper/pkg/domain"
	dErrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/requestcontext"
)

// createRetries bounds the find-or-create loop. A lost duplicate-email race
// means the row now exists, so a single retry lands on the login path.
const createRetries = 2

// Store is the identity persistence the service depends on.
type Store interface {
	Create(ctx context.Context, visitor *models.Visitor) error
	FindByID(ctx context.Context, id domain.VisitorID) (*models.Visitor, error)
	FindByEmail(ctx context.Context, email string) (*models.Visitor, error)
	BindToken(ctx context.Context, id domain.VisitorID, kind models.TokenKind, token string) (*models.Visitor, error)
	UpdateProfile(ctx context.Context, id domain.VisitorID, name, gender string) (*models.Visitor, error)
	List(ctx context.Context) ([]*models.Visitor, error)
}

// Service orchestrates visitor identity operations.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
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

// New constructs a Service.
func New(st Store, opts ...Option) *Service {
	s := &Service{store: st}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolution is the outcome of a login-or-register call.
type Resolution struct {
	Visitor   *models.Visitor
	IsNewUser bool
}

// LoginOrRegister resolves an email to exactly one visitor account, creating
// it when absent. A lost creation race degrades to a login, never to an
// error, so the caller cannot observe a duplicate-email failure. When a
// device token accompanies the call it is bound under the same permanence
// rules as any other token.
func (s *Service) LoginOrRegister(ctx context.Context, email, name, gender, deviceToken string) (*Resolution, error) {
	start := time.Now()

	email = strings.ToLower(strings.TrimSpace(email))
	if !govalidator.IsEmail(email) {
		return nil, dErrors.New(dErrors.CodeValidation, "a valid email is required")
	}
	deviceToken = strings.TrimSpace(deviceToken)

	var res *Resolution
	var err error
	for attempt := 0; attempt < createRetries; attempt++ {
		res, err = s.resolve(ctx, email, name, gender, deviceToken)
		if err == nil || !errors.Is(err, store.ErrDuplicateEmail) {
			break
		}
		// Someone else registered this email between our lookup and
		// insert; the row exists now, so retry onto the login path.
	}
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			// Both attempts lost the race; treat it as transient.
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve account")
		}
		return nil, err
	}

	s.metrics.IncrementResolution(res.IsNewUser)
	s.metrics.ObserveResolveLatency(start)
	s.logResolved(ctx, res)
	return res, nil
}

func (s *Service) resolve(ctx context.Context, email, name, gender, deviceToken string) (*Resolution, error) {
	existing, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if deviceToken != "" {
			existing, err = s.bind(ctx, existing.ID, models.TokenKindDevice, deviceToken)
			if err != nil {
				return nil, err
			}
		}
		return &Resolution{Visitor: existing}, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account")
	}

	visitor, err := models.NewVisitor(email, name, gender, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}
	if deviceToken != "" {
		visitor.SetToken(models.TokenKindDevice, deviceToken)
	}

	if err := s.store.Create(ctx, visitor); err != nil {
		if errors.Is(err, store.ErrTokenAlreadyBound) {
			s.metrics.IncrementBinding(models.TokenKindDevice.String(), "taken")
			return nil, dErrors.New(dErrors.CodeConflict, "device is already in use")
		}
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register account")
	}
	if deviceToken != "" {
		s.metrics.IncrementBinding(models.TokenKindDevice.String(), "bound")
	}
	return &Resolution{Visitor: visitor, IsNewUser: true}, nil
}

// LinkCard permanently binds a souvenir card to an account. Replays of the
// same card are no-ops; any other outcome is a conflict the caller must
// surface, because bound tokens are never overwritten.
func (s *Service) LinkCard(ctx context.Context, id domain.VisitorID, cardToken string) (*models.Visitor, error) {
	cardToken = strings.TrimSpace(cardToken)
	if cardToken == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "card token is required")
	}

	visitor, err := s.bind(ctx, id, models.TokenKindCard, cardToken)
	if err != nil {
		return nil, err
	}
	s.log(ctx, "card linked", "visitor_id", visitor.ID, "enrollment", visitor.Enrollment())
	return visitor, nil
}

// bind runs a token binding through the store and translates the structured
// store errors into API-facing domain errors. Both the registration and the
// link-card paths funnel through here.
func (s *Service) bind(ctx context.Context, id domain.VisitorID, kind models.TokenKind, token string) (*models.Visitor, error) {
	visitor, err := s.store.BindToken(ctx, id, kind, token)
	switch {
	case err == nil:
		s.metrics.IncrementBinding(kind.String(), "bound")
		return visitor, nil
	case errors.Is(err, store.ErrNotFound):
		return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
	case errors.Is(err, store.ErrTokenConflict):
		s.metrics.IncrementBinding(kind.String(), "conflict")
		return nil, dErrors.New(dErrors.CodeConflict, "a different "+kind.String()+" is already linked to this account")
	case errors.Is(err, store.ErrTokenAlreadyBound):
		// The value may belong to another account or to this account's
		// other binding; the store cannot tell them apart, so neither
		// does the message.
		s.metrics.IncrementBinding(kind.String(), "taken")
		return nil, dErrors.New(dErrors.CodeConflict, kind.String()+" is already in use")
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to link "+kind.String())
	}
}

// Get returns a visitor by ID.
func (s *Service) Get(ctx context.Context, id domain.VisitorID) (*models.Visitor, error) {
	visitor, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return visitor, nil
}

// UpdateProfile replaces the mutable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, id domain.VisitorID, name, gender string) (*models.Visitor, error) {
	visitor, err := s.store.UpdateProfile(ctx, id, strings.TrimSpace(name), strings.TrimSpace(gender))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update profile")
	}
	return visitor, nil
}

// List returns all visitor accounts, for the staff console.
func (s *Service) List(ctx context.Context) ([]*models.Visitor, error) {
	visitors, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list accounts")
	}
	return visitors, nil
}

func (s *Service) logResolved(ctx context.Context, res *Resolution) {
	attrs := []any{
		"visitor_id", res.Visitor.ID,
		"is_new_user", res.IsNewUser,
		"enrollment", res.Visitor.Enrollment(),
	}
	if ua := requestcontext.UserAgent(ctx); ua != "" {
		parsed := useragent.New(ua)
		platform := parsed.Platform()
		if name, _ := parsed.Browser(); parsed.Mobile() && name != "" {
			platform = name
		}
		if platform != "" {
			attrs = append(attrs, "platform", platform)
		}
	}
	s.log(ctx, "account resolved", attrs...)
}

func (s *Service) log(ctx context.Context, msg string, attrs ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attrs = append(attrs, "request_id", requestID)
	}
	s.logger.InfoContext(ctx, msg, attrs...)
}
