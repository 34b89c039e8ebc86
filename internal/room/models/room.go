// Package models defines the exhibition rooms photo submissions are scoped
// to.
package models

import (
	"strings"

	"gatekeeper/pkg/domain"
	dErrors "gatekeeper/pkg/domain-errors"
)

// Room is an exhibition space visitors submit photos from.
type Room struct {
	ID          domain.RoomID
	Name        string
	Description string
}

// NewRoom constructs an unsaved room. The ID is assigned by the store.
func NewRoom(name, description string) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "room name is required")
	}
	return &Room{Name: name, Description: strings.TrimSpace(description)}, nil
}
