package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fdg312/energy-hub/internal/daykey"
	"github.com/google/uuid"
)

// Handler содержит HTTP обработчики дашборда
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleDay обрабатывает GET /v1/dashboard/day?profile_id=&date=
func (h *Handler) HandleDay(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile ID")
		return
	}

	day := r.URL.Query().Get("date")
	if day == "" {
		day = daykey.FromTime(time.Now(), nil)
	}

	summary, err := h.service.BuildDaySummary(r.Context(), profileID, day)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			h.sendError(w, http.StatusNotFound, "not_found", "Profile not found")
		case errors.Is(err, ErrInvalidDate):
			h.sendError(w, http.StatusBadRequest, "invalid_date", "Date must be YYYY-MM-DD")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to build day summary")
		}
		return
	}

	h.sendJSON(w, http.StatusOK, summary)
}

// HandleTrend обрабатывает GET /v1/dashboard/trend?profile_id=&days=
func (h *Handler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile ID")
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.sendError(w, http.StatusBadRequest, "invalid_days", "Invalid window size")
			return
		}
		days = parsed
	}

	trend, err := h.service.BuildTrend(r.Context(), profileID, days)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			h.sendError(w, http.StatusNotFound, "not_found", "Profile not found")
		case errors.Is(err, ErrInvalidWindow):
			h.sendError(w, http.StatusBadRequest, "invalid_days", "Invalid window size")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to build trend")
		}
		return
	}

	h.sendJSON(w, http.StatusOK, trend)
}

// HandleWatch обрабатывает GET /v1/dashboard/watch?profile_id= и стримит
// снапшоты как server-sent events. Закрытие канала (удаление профиля)
// завершает стрим.
func (h *Handler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile ID")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.sendError(w, http.StatusInternalServerError, "streaming_unsupported", "Streaming is not supported")
		return
	}

	snapshots, stop, err := h.service.Watch(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			h.sendError(w, http.StatusNotFound, "not_found", "Profile not found")
		} else {
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to start watch")
		}
		return
	}
	defer stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				// Профиль удалён — терминальное событие и конец стрима
				w.Write([]byte("event: deleted\ndata: {}\n\n"))
				flusher.Flush()
				return
			}
			payload, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			w.Write([]byte("event: snapshot\ndata: "))
			w.Write(payload)
			w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
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
