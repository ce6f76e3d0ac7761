package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/shoppinglist/internal/model"
	"github.com/vyrodovalexey/shoppinglist/internal/screen"
)

// maxBodyBytes bounds intent request bodies.
const maxBodyBytes = 1 << 16

// RESTHandler maps REST routes onto screen intents.
type RESTHandler struct {
	screen Dispatcher
	logger *zap.Logger
}

// NewRESTHandler creates a new RESTHandler instance.
func NewRESTHandler(d Dispatcher, logger *zap.Logger) *RESTHandler {
	return &RESTHandler{
		screen: d,
		logger: logger,
	}
}

// RegisterRoutes registers the REST API routes with the router.
func (h *RESTHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/screen", h.GetScreen).Methods(http.MethodGet)
	api.HandleFunc("/items", h.ListItems).Methods(http.MethodGet)
	api.HandleFunc("/intents", h.PostIntent).Methods(http.MethodPost)
	api.HandleFunc("/dialog", h.OpenCreate).Methods(http.MethodPost)
	api.HandleFunc("/dialog", h.Dismiss).Methods(http.MethodDelete)
	api.HandleFunc("/dialog/draft", h.EditDraft).Methods(http.MethodPut)
	api.HandleFunc("/dialog/confirm", h.Confirm).Methods(http.MethodPost)
	api.HandleFunc("/items/{id}/edit", h.OpenEdit).Methods(http.MethodPost)
	api.HandleFunc("/items/{id}", h.DeleteItem).Methods(http.MethodDelete)
}

// HealthCheck handles GET /health requests.
func (h *RESTHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(HealthResponse{
		Status:  "healthy",
		Version: Version,
	}))
}

// GetScreen handles GET /api/v1/screen.
func (h *RESTHandler) GetScreen(w http.ResponseWriter, r *http.Request) {
	state, err := h.screen.Snapshot(r.Context())
	if err != nil {
		h.handleScreenError(r.Context(), w, err, "snapshot")
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(state))
}

// ListItems handles GET /api/v1/items.
func (h *RESTHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	state, err := h.screen.Snapshot(r.Context())
	if err != nil {
		h.handleScreenError(r.Context(), w, err, "list items")
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(state.Items))
}

// PostIntent handles POST /api/v1/intents with any intent in the body.
func (h *RESTHandler) PostIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	in, err := req.intent()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.dispatch(w, r, in)
}

// OpenCreate handles POST /api/v1/dialog.
func (h *RESTHandler) OpenCreate(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, screen.OpenCreate())
}

// OpenEdit handles POST /api/v1/items/{id}/edit.
func (h *RESTHandler) OpenEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	h.dispatch(w, r, screen.OpenEdit(id))
}

// draftRequest carries the text of both dialog fields.
type draftRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// EditDraft handles PUT /api/v1/dialog/draft.
func (h *RESTHandler) EditDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	h.dispatch(w, r, screen.EditDraft(req.Name, req.Quantity))
}

// Confirm handles POST /api/v1/dialog/confirm. An empty name is answered
// with 200 and the dialog still open.
func (h *RESTHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	h.dispatch(w, r, screen.Confirm(req.Name, req.Quantity))
}

// Dismiss handles DELETE /api/v1/dialog.
func (h *RESTHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, screen.Dismiss())
}

// DeleteItem handles DELETE /api/v1/items/{id}.
func (h *RESTHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	h.dispatch(w, r, screen.DeleteItem(id))
}

func (h *RESTHandler) dispatch(w http.ResponseWriter, r *http.Request, in screen.Intent) {
	state, err := h.screen.Dispatch(r.Context(), in)
	if err != nil {
		h.handleScreenError(r.Context(), w, err, string(in.Type))
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(state))
}

func (h *RESTHandler) itemID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid item ID")
		return 0, false
	}
	return id, true
}

func (h *RESTHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// handleScreenError maps loop errors onto HTTP statuses.
func (h *RESTHandler) handleScreenError(ctx context.Context, w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, screen.ErrUnknownIntent):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, screen.ErrStopped):
		h.writeError(w, http.StatusServiceUnavailable, "screen unavailable")
	case ctx.Err() != nil:
		h.logger.Debug("request cancelled", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.logger.Error("screen operation failed", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *RESTHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *RESTHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, model.ErrorResponse{
		Code:    status,
		Message: message,
	})
}
