package handler

import (
	"strings"

	"gatekeeper/pkg/domain"
	dErrors "gatekeeper/pkg/domain-errors"
)

// LoginOrRegisterRequest is the HTTP request body for
// POST /visitors/login-or-register.
type LoginOrRegisterRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	DeviceToken string `json:"deviceToken"`
}

// Validate implements the Validatable interface for
// httputil.DecodeAndPrepare. Email format is validated by the service, which
// owns normalization.
func (r *LoginOrRegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	r.DeviceToken = strings.TrimSpace(r.DeviceToken)
	if r.DeviceToken == "" {
		return dErrors.New(dErrors.CodeValidation, "deviceToken is required")
	}
	return nil
}

// LinkCardRequest is the HTTP request body for POST /visitors/link-card.
type LinkCardRequest struct {
	AccountID int64  `json:"accountId"`
	CardUID   string `json:"cardUid"`

	parsedID domain.VisitorID
}

// Validate implements the Validatable interface.
func (r *LinkCardRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	id, err := domain.ParseVisitorID(r.AccountID)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "accountId must be a positive integer")
	}
	r.parsedID = id
	r.CardUID = strings.TrimSpace(r.CardUID)
	if r.CardUID == "" {
		return dErrors.New(dErrors.CodeValidation, "cardUid is required")
	}
	return nil
}

// ParsedAccountID returns the validated account ID.
func (r *LinkCardRequest) ParsedAccountID() domain.VisitorID {
	return r.parsedID
}

// UpdateProfileRequest is the HTTP request body for PATCH /visitors/{id}.
type UpdateProfileRequest struct {
	Name   *string `json:"name"`
	Gender *string `json:"gender"`
}

// Validate implements the Validatable interface.
func (r *UpdateProfileRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Name == nil && r.Gender == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one of name or gender is required")
	}
	return nil
}
