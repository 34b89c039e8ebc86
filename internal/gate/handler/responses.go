package handler

import "gatekeeper/internal/gate/service"

// ScanResponse is the HTTP response for POST /gate/scan. The user fields are
// present only on a grant.
type ScanResponse struct {
	Status         string `json:"status"`
	UserName       string `json:"user_name,omitempty"`
	WelcomeMessage string `json:"welcome_message,omitempty"`
}

// FromResult converts a scan result to its wire representation.
func FromResult(result *service.Result) ScanResponse {
	return ScanResponse{
		Status:         string(result.Decision),
		UserName:       result.UserName,
		WelcomeMessage: result.WelcomeMessage,
	}
}
