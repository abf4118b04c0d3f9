package favorites

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// ToggleRequest — запрос для POST /v1/favorites/toggle
type ToggleRequest struct {
	ProfileID uuid.UUID `json:"profile_id"`
	EntryID   uuid.UUID `json:"entry_id"`
}

// ToggleResponse — новое состояние отметки
type ToggleResponse struct {
	EntryID    uuid.UUID `json:"entry_id"`
	IsFavorite bool      `json:"is_favorite"`
}

// ListResponse — ответ для GET /v1/favorites
type ListResponse struct {
	EntryIDs []uuid.UUID `json:"entry_ids"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handler содержит HTTP обработчики избранного
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleToggle обрабатывает POST /v1/favorites/toggle
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}
	if req.ProfileID == uuid.Nil || req.EntryID == uuid.Nil {
		h.sendError(w, http.StatusBadRequest, "missing_id", "profile_id and entry_id are required")
		return
	}

	state := h.service.Toggle(req.ProfileID, req.EntryID)

	h.sendJSON(w, http.StatusOK, ToggleResponse{
		EntryID:    req.EntryID,
		IsFavorite: state,
	})
}

// HandleList обрабатывает GET /v1/favorites?profile_id=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile ID")
		return
	}

	ids := h.service.List(profileID)
	if ids == nil {
		ids = []uuid.UUID{}
	}

	h.sendJSON(w, http.StatusOK, ListResponse{EntryIDs: ids})
}

func (h *Handler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
