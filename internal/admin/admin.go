// Package admin issues the staff session tokens that guard the /admin
// endpoints. There is a single shared staff credential; sessions are
// stateless HS256 JWTs checked by the middleware.
package admin

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	dErrors "gatekeeper/pkg/domain-errors"
	adminmw "gatekeeper/pkg/platform/middleware/admin"
	"gatekeeper/pkg/requestcontext"
)

// sessionTTL bounds how long an issued staff token stays valid.
const sessionTTL = 8 * time.Hour

// Session is an issued staff token and its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Service authenticates staff against the configured password hash and
// mints session tokens.
type Service struct {
	passwordHash string
	signingKey   string
}

// NewService constructs the staff auth service. The hash is a bcrypt hash
// of the shared staff password.
func NewService(passwordHash, signingKey string) *Service {
	return &Service{passwordHash: passwordHash, signingKey: signingKey}
}

// Login verifies the password and returns a signed staff session.
func (s *Service) Login(ctx context.Context, password string) (*Session, error) {
	if s.passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "staff login is not configured")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify credentials")
	}

	now := requestcontext.Now(ctx)
	expiresAt := now.Add(sessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   adminmw.Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte(s.signingKey))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign session token")
	}
	return &Session{Token: signed, ExpiresAt: expiresAt}, nil
}
