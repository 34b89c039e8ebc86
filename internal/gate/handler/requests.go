package handler

import (
	"strings"

	dErrors "gatekeeper/pkg/domain-errors"
)

// ScanRequest is the HTTP request body for POST /gate/scan.
type ScanRequest struct {
	ScannedToken string `json:"scannedToken"`
}

// Validate implements the Validatable interface. An empty token is accepted
// here: the gate contract denies it like any unregistered token instead of
// rejecting the request.
func (r *ScanRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.ScannedToken = strings.TrimSpace(r.ScannedToken)
	return nil
}
