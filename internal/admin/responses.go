package admin

import "time"

// LoginResponse carries the staff session token for subsequent
// Authorization: Bearer headers.
type LoginResponse struct {
	Status    string    `json:"status"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
