// Package handler exposes the gate scan endpoint consumed by the turnstile
// readers.
package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gatekeeper/internal/gate/service"
	"gatekeeper/pkg/platform/httputil"
	"gatekeeper/pkg/requestcontext"
)

// Service defines the scan operation the handler depends on.
type Service interface {
	Scan(ctx context.Context, scannedToken string) (*service.Result, error)
}

// Handler wires the gate endpoint to the gate service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a gate handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the gate endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/gate/scan", h.HandleScan)
}

// HandleScan handles POST /gate/scan. Denials are normal responses; only
// storage failures produce an error status.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ScanRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Scan(ctx, req.ScannedToken)
	if err != nil {
		h.logger.ErrorContext(ctx, "gate scan failed",
			"request_id", requestID,
			"reader_id", requestcontext.ReaderID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "gate scan resolved",
		"request_id", requestID,
		"reader_id", requestcontext.ReaderID(ctx),
		"decision", result.Decision,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}
