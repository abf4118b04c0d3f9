package energy

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// Handler содержит HTTP обработчики для расчётов
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleRecalculate обрабатывает POST /v1/energy/recalculate
func (h *Handler) HandleRecalculate(w http.ResponseWriter, r *http.Request) {
	var req RecalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	record, err := h.service.Recalculate(r.Context(), req)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			h.sendError(w, http.StatusUnprocessableEntity, "invalid_"+verr.Field, verr.Message)
		case errors.Is(err, ErrProfileNotFound):
			h.sendError(w, http.StatusNotFound, "not_found", "Profile not found")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to recalculate")
		}
		return
	}

	h.sendJSON(w, http.StatusCreated, record)
}

// HandleLatest обрабатывает GET /v1/energy/latest?profile_id=
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile ID")
		return
	}

	record, err := h.service.Latest(r.Context(), profileID)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			h.sendError(w, http.StatusNotFound, "not_found", "Profile not found")
		case errors.Is(err, ErrNoRecords):
			h.sendError(w, http.StatusNotFound, "no_records", "Profile has no energy records")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to get latest record")
		}
		return
	}

	h.sendJSON(w, http.StatusOK, record)
}

// HandleAdvice обрабатывает GET /v1/energy/advice?profile_id= и отдаёт
// числовой контекст для внешнего генератора советов
func (h *Handler) HandleAdvice(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile ID")
		return
	}

	advice, err := h.service.Advice(r.Context(), profileID)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			h.sendError(w, http.StatusNotFound, "not_found", "Profile not found")
		case errors.Is(err, ErrNoRecords):
			h.sendError(w, http.StatusNotFound, "no_records", "Profile has no energy records")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to build advice context")
		}
		return
	}

	h.sendJSON(w, http.StatusOK, advice)
}

// HandleHistory обрабатывает GET /v1/energy/history?profile_id=&limit=
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile ID")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.sendError(w, http.StatusBadRequest, "invalid_limit", "Invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.service.History(r.Context(), profileID, limit)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			h.sendError(w, http.StatusNotFound, "not_found", "Profile not found")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to list records")
		}
		return
	}

	h.sendJSON(w, http.StatusOK, HistoryResponse{Records: records})
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
