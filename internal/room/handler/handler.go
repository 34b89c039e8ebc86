// Package handler exposes the room endpoints: a public listing for the app
// and staff-only creation.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatekeeper/internal/room/models"
	"gatekeeper/internal/room/store"
	dErrors "gatekeeper/pkg/domain-errors"
	"gatekeeper/pkg/platform/httputil"
	"gatekeeper/pkg/requestcontext"
)

// Handler wires room endpoints to the room store. The module has no service
// layer; rooms carry no domain rules beyond their constructor.
type Handler struct {
	store  store.Store
	logger *slog.Logger
}

// New constructs a room handler.
func New(st store.Store, logger *slog.Logger) *Handler {
	return &Handler{store: st, logger: logger}
}

// Register mounts the public room endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/rooms", h.HandleList)
}

// RegisterAdmin mounts the staff-only endpoints; the caller wraps the router
// in the staff-auth middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/rooms", h.HandleCreate)
}

// HandleList handles GET /rooms.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.store.List(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list rooms"))
		return
	}

	out := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, FromRoom(room))
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Rooms: out})
}

// HandleCreate handles POST /admin/rooms.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateRoomRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	room, err := models.NewRoom(req.Name, req.Description)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, err.Error()))
		return
	}
	if err := h.store.Create(ctx, room); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create room"))
		return
	}

	h.logger.InfoContext(ctx, "room created",
		"request_id", requestID,
		"room_id", room.ID,
		"name", room.Name,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromRoom(room))
}
