package handler

import (
	"time"

	"gatekeeper/internal/photo/models"
)

// SubmissionResponse is the wire representation of a photo submission.
type SubmissionResponse struct {
	ID        int64     `json:"id"`
	VisitorID int64     `json:"visitor_id"`
	RoomID    int64     `json:"room_id"`
	ImageURL  string    `json:"image_url"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// FromSubmission converts a submission to its wire representation.
func FromSubmission(sub *models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:        sub.ID.Int64(),
		VisitorID: sub.VisitorID.Int64(),
		RoomID:    sub.RoomID.Int64(),
		ImageURL:  sub.ImageURL,
		Score:     sub.Score,
		CreatedAt: sub.CreatedAt,
	}
}

// UploadResponse is the HTTP response for POST /upload-photo.
type UploadResponse struct {
	Status string             `json:"status"`
	Photo  SubmissionResponse `json:"photo"`
}

// DashboardResponse is the HTTP response for GET /rooms/{id}/dashboard.
type DashboardResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
}
