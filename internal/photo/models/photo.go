// Package models defines the photo competition submission record.
package models

import (
	"time"

	"gatekeeper/pkg/domain"
	dErrors "gatekeeper/pkg/domain-errors"
)

// Submission is one photo entered into the hourly competition.
type Submission struct {
	ID        domain.SubmissionID
	VisitorID domain.VisitorID
	RoomID    domain.RoomID
	ImageURL  string
	Score     int
	IsWinner  bool
	CreatedAt time.Time
}

// NewSubmission constructs an unsaved submission. The ID is assigned by the
// store.
func NewSubmission(visitorID domain.VisitorID, roomID domain.RoomID, imageURL string, score int, createdAt time.Time) (*Submission, error) {
	if visitorID.IsNil() || roomID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "submission needs a visitor and a room")
	}
	if imageURL == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "submission needs a stored image")
	}
	return &Submission{
		VisitorID: visitorID,
		RoomID:    roomID,
		ImageURL:  imageURL,
		Score:     score,
		CreatedAt: createdAt,
	}, nil
}
