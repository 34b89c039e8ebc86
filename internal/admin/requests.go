package admin

import (
	dErrors "gatekeeper/pkg/domain-errors"
)

// LoginRequest is the HTTP request DTO for POST /admin/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// Validate implements httputil.Validatable.
func (r *LoginRequest) Validate() error {
	if r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}
