package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatekeeper/pkg/platform/httputil"
	"gatekeeper/pkg/requestcontext"
)

// Handler exposes the staff login endpoint.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs the staff auth handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the login endpoint. It stays outside the staff-guarded
// group since it is what issues the tokens.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/login", h.HandleLogin)
}

// HandleLogin handles POST /admin/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	session, err := h.service.Login(ctx, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "staff login rejected",
			"request_id", requestID,
			"client_ip", requestcontext.ClientIP(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "staff login succeeded",
		"request_id", requestID,
		"client_ip", requestcontext.ClientIP(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, LoginResponse{
		Status:    "success",
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}
