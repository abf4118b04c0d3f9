package logbook

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fdg312/energy-hub/internal/daykey"
	"github.com/google/uuid"
)

// Handler содержит HTTP обработчики логов
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleCreateFoodItem обрабатывает POST /v1/food-items
func (h *Handler) HandleCreateFoodItem(w http.ResponseWriter, r *http.Request) {
	var req CreateFoodItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	item, err := h.service.CreateFoodItem(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			h.sendError(w, http.StatusNotFound, "not_found", "Profile not found")
		case errors.Is(err, ErrEmptyName):
			h.sendError(w, http.StatusBadRequest, "empty_name", "Name cannot be empty")
		case errors.Is(err, ErrInvalidQuantity):
			h.sendError(w, http.StatusBadRequest, "invalid_macros", "Macro values cannot be negative")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to create food item")
		}
		return
	}

	h.sendJSON(w, http.StatusCreated, item)
}

// HandleListFoodItems обрабатывает GET /v1/food-items?profile_id=&q=&limit=&offset=
func (h *Handler) HandleListFoodItems(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile ID")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	items, err := h.service.ListFoodItems(r.Context(), profileID, r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to list food items")
		return
	}

	h.sendJSON(w, http.StatusOK, FoodItemsResponse{Items: items})
}

// HandleDeleteFoodItem обрабатывает DELETE /v1/food-items/{id}
func (h *Handler) HandleDeleteFoodItem(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r.URL.Path)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid food item ID")
		return
	}

	if err := h.service.DeleteFoodItem(r.Context(), id); err != nil {
		h.sendError(w, http.StatusNotFound, "not_found", "Food item not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleLogMeal обрабатывает POST /v1/logs/meals
func (h *Handler) HandleLogMeal(w http.ResponseWriter, r *http.Request) {
	var req LogMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	entry, err := h.service.LogMeal(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			h.sendError(w, http.StatusNotFound, "not_found", "Profile not found")
		case errors.Is(err, ErrNotFound):
			h.sendError(w, http.StatusNotFound, "food_item_not_found", "Food item not found")
		case errors.Is(err, ErrInvalidQuantity):
			h.sendError(w, http.StatusBadRequest, "invalid_quantity", "Quantity must be positive")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to log meal")
		}
		return
	}

	h.sendJSON(w, http.StatusCreated, entry)
}

// HandleListMeals обрабатывает GET /v1/logs/meals?profile_id=&date=
func (h *Handler) HandleListMeals(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile ID")
		return
	}

	entries, err := h.service.ListMealsForDay(r.Context(), profileID, h.dateParam(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			h.sendError(w, http.StatusBadRequest, "invalid_date", "Date must be YYYY-MM-DD")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to list meals")
		}
		return
	}

	h.sendJSON(w, http.StatusOK, MealsResponse{Entries: entries})
}

// HandleDeleteMeal обрабатывает DELETE /v1/logs/meals/{id}
func (h *Handler) HandleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r.URL.Path)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid meal ID")
		return
	}

	if err := h.service.DeleteMeal(r.Context(), id); err != nil {
		h.sendError(w, http.StatusNotFound, "not_found", "Meal entry not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAddWater обрабатывает POST /v1/logs/water
func (h *Handler) HandleAddWater(w http.ResponseWriter, r *http.Request) {
	var req WaterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	day, err := h.service.AddWater(r.Context(), req)
	if err != nil {
		h.sendWaterError(w, err)
		return
	}

	h.sendJSON(w, http.StatusOK, day)
}

// HandleRemoveWater обрабатывает POST /v1/logs/water/remove
func (h *Handler) HandleRemoveWater(w http.ResponseWriter, r *http.Request) {
	var req WaterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	day, err := h.service.RemoveWater(r.Context(), req)
	if err != nil {
		h.sendWaterError(w, err)
		return
	}

	h.sendJSON(w, http.StatusOK, day)
}

// HandleGetWater обрабатывает GET /v1/logs/water?profile_id=&date=
func (h *Handler) HandleGetWater(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile ID")
		return
	}

	day, err := h.service.GetWaterDay(r.Context(), profileID, h.dateParam(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			h.sendError(w, http.StatusBadRequest, "invalid_date", "Date must be YYYY-MM-DD")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to get water log")
		}
		return
	}

	h.sendJSON(w, http.StatusOK, day)
}

// HandleUpsertSleep обрабатывает PUT /v1/logs/sleep
func (h *Handler) HandleUpsertSleep(w http.ResponseWriter, r *http.Request) {
	var req SleepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	entry, err := h.service.UpsertSleep(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			h.sendError(w, http.StatusNotFound, "not_found", "Profile not found")
		case errors.Is(err, ErrInvalidQuality):
			h.sendError(w, http.StatusBadRequest, "invalid_quality", "Quality must be between 0 and 4")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to save sleep")
		}
		return
	}

	h.sendJSON(w, http.StatusOK, entry)
}

// HandleGetSleep обрабатывает GET /v1/logs/sleep?profile_id=&date=
func (h *Handler) HandleGetSleep(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile ID")
		return
	}

	entry, err := h.service.GetSleepDay(r.Context(), profileID, h.dateParam(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			h.sendError(w, http.StatusBadRequest, "invalid_date", "Date must be YYYY-MM-DD")
		case errors.Is(err, ErrNotFound):
			h.sendError(w, http.StatusNotFound, "not_found", "No sleep record for this day")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to get sleep log")
		}
		return
	}

	h.sendJSON(w, http.StatusOK, entry)
}

func (h *Handler) sendWaterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		h.sendError(w, http.StatusNotFound, "not_found", "Profile not found")
	case errors.Is(err, ErrInvalidAmount):
		h.sendError(w, http.StatusBadRequest, "invalid_amount", "Amount out of range")
	default:
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to update water log")
	}
}

// dateParam возвращает ?date= или сегодняшний день UTC по умолчанию
func (h *Handler) dateParam(r *http.Request) string {
	if date := r.URL.Query().Get("date"); date != "" {
		return date
	}
	return daykey.FromTime(time.Now(), nil)
}

// extractID извлекает UUID из последнего сегмента пути
func (h *Handler) extractID(path string) (uuid.UUID, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return uuid.Nil, errors.New("invalid path")
	}

	return uuid.Parse(parts[len(parts)-1])
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
