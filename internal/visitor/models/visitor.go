// Package models defines the visitor identity record and its token-binding
// state machine.
package models

import (
	"strings"
	"time"

	"gatekeeper/pkg/domain"
	dErrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/email"
)

// TokenKind discriminates the two interchangeable gate tokens. A token value
// is unique across both kinds, so the pair (kind, value) never needs to be
// disambiguated at scan time.
type TokenKind string

const (
	// TokenKindDevice is the software token emitted by the mobile app via
	// host-card-emulation.
	TokenKindDevice TokenKind = "device"
	// TokenKindCard is the hardware UID printed on a souvenir card.
	TokenKindCard TokenKind = "card"
)

// IsValid checks the kind against the supported enum values.
func (k TokenKind) IsValid() bool {
	return k == TokenKindDevice || k == TokenKindCard
}

// String returns the string representation of the kind.
func (k TokenKind) String() string { return string(k) }

// EnrollmentState is the token-binding view of a visitor record. Transitions
// only ever add a token; nothing removes or replaces a bound one.
type EnrollmentState string

const (
	Unenrolled     EnrollmentState = "unenrolled"
	DeviceEnrolled EnrollmentState = "device_enrolled"
	CardEnrolled   EnrollmentState = "card_enrolled"
	FullyEnrolled  EnrollmentState = "fully_enrolled"
)

// Visitor is the sole entity of the identity subsystem. Email is the natural
// key; the two token fields are set-once (empty string means unset).
type Visitor struct {
	ID       domain.VisitorID
	Email    string
	Name     string
	Gender   string
	JoinedAt time.Time

	// DeviceToken and CardToken are opaque bearer strings. Trust is
	// established by store membership, not by any property of the value.
	DeviceToken string
	CardToken   string
}

// NewVisitor constructs an unsaved visitor record, validating invariants the
// store relies on. The ID is assigned by the store at creation.
func NewVisitor(email, name, gender string, joinedAt time.Time) (*Visitor, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email is required")
	}
	return &Visitor{
		Email:    email,
		Name:     strings.TrimSpace(name),
		Gender:   strings.TrimSpace(gender),
		JoinedAt: joinedAt,
	}, nil
}

// Token returns the bound value for the given kind, empty when unset.
func (v *Visitor) Token(kind TokenKind) string {
	if kind == TokenKindCard {
		return v.CardToken
	}
	return v.DeviceToken
}

// SetToken records a binding. Callers must have run CheckBind first; this
// does no conflict checking of its own.
func (v *Visitor) SetToken(kind TokenKind, token string) {
	if kind == TokenKindCard {
		v.CardToken = token
		return
	}
	v.DeviceToken = token
}

// BindOutcome classifies what binding a token value to this record would do.
type BindOutcome int

const (
	// BindNew means the column is free and the value may be bound.
	BindNew BindOutcome = iota
	// BindNoop means the exact value is already bound (idempotent replay).
	BindNoop
	// BindConflict means a different value is permanently bound.
	BindConflict
)

// CheckBind evaluates token permanence for a prospective binding: set-once,
// same value is a no-op, different value is a conflict.
func (v *Visitor) CheckBind(kind TokenKind, token string) BindOutcome {
	switch current := v.Token(kind); current {
	case "":
		return BindNew
	case token:
		return BindNoop
	default:
		return BindConflict
	}
}

// Enrollment derives the state-machine position from the bound tokens.
func (v *Visitor) Enrollment() EnrollmentState {
	switch {
	case v.DeviceToken != "" && v.CardToken != "":
		return FullyEnrolled
	case v.DeviceToken != "":
		return DeviceEnrolled
	case v.CardToken != "":
		return CardEnrolled
	default:
		return Unenrolled
	}
}

// CanAuthenticate reports whether the record can ever match a gate scan.
func (v *Visitor) CanAuthenticate() bool {
	return v.Enrollment() != Unenrolled
}

// DisplayName is what the gate greets the visitor with: the profile name
// when present, otherwise a name derived from the email address.
func (v *Visitor) DisplayName() string {
	if v.Name != "" {
		return v.Name
	}
	return email.DisplayName(v.Email)
}

// Clone returns a copy so the in-memory store never hands out aliased
// records.
func (v *Visitor) Clone() *Visitor {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}
