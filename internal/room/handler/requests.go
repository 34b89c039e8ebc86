package handler

import (
	"strings"

	dErrors "gatekeeper/pkg/domain-errors"
)

// CreateRoomRequest is the HTTP request body for POST /admin/rooms.
type CreateRoomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate implements the Validatable interface.
func (r *CreateRoomRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}
