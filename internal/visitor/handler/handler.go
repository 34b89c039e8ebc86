// Package handler exposes the visitor identity HTTP surface: the
// login-or-register flow the mobile app drives, card linking at the souvenir
// desk, and the staff-facing account listing.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gatekeeper/internal/visitor/models"
	"gatekeeper/internal/visitor/service"
	"gatekeeper/pkg/domain"
	dErrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/platform/httputil"
	"gatekeeper/pkg/requestcontext"
)

// Service defines the identity operations the handler depends on.
type Service interface {
	LoginOrRegister(ctx context.Context, email, name, gender, deviceToken string) (*service.Resolution, error)
	LinkCard(ctx context.Context, id domain.VisitorID, cardToken string) (*models.Visitor, error)
	Get(ctx context.Context, id domain.VisitorID) (*models.Visitor, error)
	UpdateProfile(ctx context.Context, id domain.VisitorID, name, gender string) (*models.Visitor, error)
	List(ctx context.Context) ([]*models.Visitor, error)
}

// Handler wires visitor identity endpoints to the identity service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a visitor handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public visitor endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/visitors/login-or-register", h.HandleLoginOrRegister)
	r.Post("/visitors/link-card", h.HandleLinkCard)
	r.Get("/visitors/{id}", h.HandleGetProfile)
	r.Patch("/visitors/{id}", h.HandleUpdateProfile)
}

// RegisterAdmin mounts the staff-only endpoints; the caller wraps the router
// in the staff-auth middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/visitors", h.HandleList)
}

// HandleLoginOrRegister handles POST /visitors/login-or-register.
func (h *Handler) HandleLoginOrRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[LoginOrRegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.LoginOrRegister(ctx, req.Email, req.Name, req.Gender, req.DeviceToken)
	if err != nil {
		h.logger.ErrorContext(ctx, "login-or-register failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "visitor resolved",
		"request_id", requestID,
		"visitor_id", res.Visitor.ID,
		"is_new_user", res.IsNewUser,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	message := "login successful"
	httpStatus := http.StatusOK
	if res.IsNewUser {
		message = "account created"
		httpStatus = http.StatusCreated
	}
	httputil.WriteJSON(w, httpStatus, LoginOrRegisterResponse{
		Status:    "success",
		Message:   message,
		User:      FromVisitor(res.Visitor),
		IsNewUser: res.IsNewUser,
	})
}

// HandleLinkCard handles POST /visitors/link-card.
func (h *Handler) HandleLinkCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LinkCardRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	visitor, err := h.service.LinkCard(ctx, req.ParsedAccountID(), req.CardUID)
	if err != nil {
		h.logger.ErrorContext(ctx, "link-card failed",
			"request_id", requestID,
			"account_id", req.AccountID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LinkCardResponse{
		Status:    "success",
		Message:   "card linked",
		AccountID: visitor.ID.Int64(),
		CardUID:   visitor.CardToken,
	})
}

// HandleGetProfile handles GET /visitors/{id}.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseVisitorIDString(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "id must be a positive integer"))
		return
	}

	visitor, err := h.service.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromVisitor(visitor))
}

// HandleUpdateProfile handles PATCH /visitors/{id}. Absent fields keep their
// stored values; token columns are not reachable from here.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := domain.ParseVisitorIDString(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "id must be a positive integer"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	current, err := h.service.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	name, gender := current.Name, current.Gender
	if req.Name != nil {
		name = *req.Name
	}
	if req.Gender != nil {
		gender = *req.Gender
	}

	visitor, err := h.service.UpdateProfile(ctx, id, name, gender)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromVisitor(visitor))
}

// HandleList handles GET /admin/visitors.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	visitors, err := h.service.List(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]UserResponse, 0, len(visitors))
	for _, v := range visitors {
		out = append(out, FromVisitor(v))
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Visitors: out, Count: len(out)})
}
