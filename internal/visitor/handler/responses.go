package handler

import (
	"time"

	"gatekeeper/internal/visitor/models"
)

// UserResponse is the wire representation of a visitor account.
type UserResponse struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Gender      string    `json:"gender"`
	JoinedAt    time.Time `json:"joined_at"`
	DeviceToken string    `json:"deviceToken"`
	CardToken   string    `json:"cardToken"`
}

// FromVisitor converts a visitor record to its wire representation.
func FromVisitor(v *models.Visitor) UserResponse {
	return UserResponse{
		ID:          v.ID.Int64(),
		Email:       v.Email,
		Name:        v.Name,
		Gender:      v.Gender,
		JoinedAt:    v.JoinedAt,
		DeviceToken: v.DeviceToken,
		CardToken:   v.CardToken,
	}
}

// LoginOrRegisterResponse is the HTTP response for
// POST /visitors/login-or-register.
type LoginOrRegisterResponse struct {
	Status    string       `json:"status"`
	Message   string       `json:"message"`
	User      UserResponse `json:"user"`
	IsNewUser bool         `json:"is_new_user"`
}

// LinkCardResponse is the HTTP response for POST /visitors/link-card.
type LinkCardResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	AccountID int64  `json:"accountId"`
	CardUID   string `json:"cardUid"`
}

// ListResponse is the HTTP response for the staff visitor listing.
type ListResponse struct {
	Visitors []UserResponse `json:"visitors"`
	Count    int            `json:"count"`
}
