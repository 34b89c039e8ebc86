// Package handler exposes the photo competition endpoints: multipart uploads
// and the per-room hourly dashboard.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatekeeper/internal/photo/service"
	"gatekeeper/pkg/domain"
	dErrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/platform/httputil"
	"gatekeeper/pkg/requestcontext"
)

// maxUploadBytes bounds a single photo upload.
const maxUploadBytes = 10 << 20

// Handler wires photo endpoints to the photo service.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

// New constructs a photo handler.
func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the photo endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/upload-photo", h.HandleUpload)
	r.Get("/rooms/{id}/dashboard", h.HandleDashboard)
}

// HandleUpload handles POST /upload-photo. The body is a multipart form with
// visitor_id, room_id, and the image under "file".
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "a multipart form is required"))
		return
	}

	visitorID, err := domain.ParseVisitorIDString(r.FormValue("visitor_id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "visitor_id must be a positive integer"))
		return
	}
	roomID, err := domain.ParseRoomIDString(r.FormValue("room_id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "room_id must be a positive integer"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "an image file is required"))
		return
	}
	defer file.Close()

	submission, err := h.service.Submit(ctx, visitorID, roomID, header.Filename, file)
	if err != nil {
		h.logger.ErrorContext(ctx, "photo upload failed",
			"request_id", requestID,
			"visitor_id", visitorID,
			"room_id", roomID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, UploadResponse{
		Status: "success",
		Photo:  FromSubmission(submission),
	})
}

// HandleDashboard handles GET /rooms/{id}/dashboard.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	roomID, err := domain.ParseRoomIDString(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "id must be a positive integer"))
		return
	}

	top, err := h.service.Dashboard(ctx, roomID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]SubmissionResponse, 0, len(top))
	for _, sub := range top {
		out = append(out, FromSubmission(sub))
	}
	httputil.WriteJSON(w, http.StatusOK, DashboardResponse{Submissions: out})
}
