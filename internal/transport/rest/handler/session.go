package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"ascendant/internal/cache"
	"ascendant/internal/service"
	"ascendant/internal/transport/rest/middleware"
)

// StartRequest is the body of POST /v1/sessions
type StartRequest struct {
	Debug bool `json:"debug"`
}

// SessionHandler handles the page session endpoints
type SessionHandler struct {
	svc    *service.SessionService
	logger *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(svc *service.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, logger: logger}
}

// Start handles POST /v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if r.URL.Query().Has("debug") {
		req.Debug = true
	}

	snap, err := h.svc.Start(r.Context(), req.Debug)
	if err != nil {
		h.logger.Error("start session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not start session")
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// Get handles GET /v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Bootstrap(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Event handles POST /v1/session/events
func (h *SessionHandler) Event(w http.ResponseWriter, r *http.Request) {
	var ev service.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Dispatch(r.Context(), middleware.GetSessionID(r.Context()), ev)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *SessionHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cache.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrUnknownEvent):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("session request", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
