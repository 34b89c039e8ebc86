// Package store persists visitor identity records and enforces the
// uniqueness contract: unique email, and a single token namespace shared by
// device and card tokens so a value can never exist in both columns.
package store

import (
	"context"
	"fmt"

	"gatekeeper/internal/visitor/models"
	"gatekeeper/pkg/domain"
	"gatekeeper/pkg/platform/sentinel"
)

var (
	// ErrNotFound keeps storage-specific 404s consistent across
	// implementations.
	ErrNotFound = sentinel.ErrNotFound

	// ErrDuplicateEmail means the natural key is already registered. It is
	// never surfaced to callers; the resolver folds it into the login path.
	ErrDuplicateEmail = fmt.Errorf("email already registered: %w", sentinel.ErrAlreadyUsed)

	// ErrTokenAlreadyBound means another account holds the token value, in
	// either column.
	ErrTokenAlreadyBound = fmt.Errorf("token bound to another account: %w", sentinel.ErrAlreadyUsed)

	// ErrTokenConflict means the account already carries a different value
	// in the targeted column. Bound tokens are permanent; only same-value
	// replays succeed.
	ErrTokenConflict = fmt.Errorf("account already bound to a different token: %w", sentinel.ErrInvalidState)
)

// Store is the durable identity table plus its three indexed lookup paths.
// Create and BindToken are atomic with the uniqueness checks they depend on,
// including under concurrent writers.
type Store interface {
	// Create persists a new record and assigns its ID. Tokens already set
	// on the record are bound in the same atomic unit: either the whole
	// creation succeeds or nothing is persisted.
	// Errors: ErrDuplicateEmail, ErrTokenAlreadyBound.
	Create(ctx context.Context, visitor *models.Visitor) error

	FindByID(ctx context.Context, id domain.VisitorID) (*models.Visitor, error)
	FindByEmail(ctx context.Context, email string) (*models.Visitor, error)

	// FindByToken searches the unified token namespace; at most one record
	// can match. Errors: ErrNotFound.
	FindByToken(ctx context.Context, token string) (*models.Visitor, models.TokenKind, error)

	// BindToken is the single code path for both device and card bindings.
	// Same-value replays return the record unchanged.
	// Errors: ErrNotFound, ErrTokenAlreadyBound, ErrTokenConflict.
	BindToken(ctx context.Context, id domain.VisitorID, kind models.TokenKind, token string) (*models.Visitor, error)

	// UpdateProfile mutates the descriptive attributes only.
	// Errors: ErrNotFound.
	UpdateProfile(ctx context.Context, id domain.VisitorID, name, gender string) (*models.Visitor, error)

	// List returns all records ordered by ID. Staff-facing.
	List(ctx context.Context) ([]*models.Visitor, error)
}
