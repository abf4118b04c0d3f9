package logbook

import (
	"time"

	"github.com/google/uuid"
)

// CreateFoodItemRequest — запрос для POST /v1/food-items
type CreateFoodItemRequest struct {
	ProfileID       uuid.UUID `json:"profile_id"`
	Name            string    `json:"name"`
	KcalPer100g     float64   `json:"kcal_per_100g"`
	ProteinGPer100g float64   `json:"protein_g_per_100g"`
	CarbsGPer100g   float64   `json:"carbs_g_per_100g"`
	FatGPer100g     float64   `json:"fat_g_per_100g"`
}

// FoodItemDTO — DTO каталога еды
type FoodItemDTO struct {
	ID              uuid.UUID `json:"id"`
	ProfileID       uuid.UUID `json:"profile_id"`
	Name            string    `json:"name"`
	KcalPer100g     float64   `json:"kcal_per_100g"`
	ProteinGPer100g float64   `json:"protein_g_per_100g"`
	CarbsGPer100g   float64   `json:"carbs_g_per_100g"`
	FatGPer100g     float64   `json:"fat_g_per_100g"`
	CreatedAt       time.Time `json:"created_at"`
}

// FoodItemsResponse — ответ для GET /v1/food-items
type FoodItemsResponse struct {
	Items []FoodItemDTO `json:"items"`
}

// LogMealRequest — запрос для POST /v1/logs/meals. EatenAt опционально,
// по умолчанию текущее время.
type LogMealRequest struct {
	ProfileID  uuid.UUID  `json:"profile_id"`
	FoodItemID uuid.UUID  `json:"food_item_id"`
	QuantityG  float64    `json:"quantity_g"`
	EatenAt    *time.Time `json:"eaten_at,omitempty"`
}

// MealEntryDTO — DTO записи о приёме пищи
type MealEntryDTO struct {
	ID         uuid.UUID `json:"id"`
	ProfileID  uuid.UUID `json:"profile_id"`
	Day        string    `json:"day"`
	EatenAt    time.Time `json:"eaten_at"`
	FoodItemID uuid.UUID `json:"food_item_id"`
	FoodName   string    `json:"food_name"`
	QuantityG  float64   `json:"quantity_g"`
	Calories   float64   `json:"calories"`
	ProteinG   float64   `json:"protein_g"`
	CarbsG     float64   `json:"carbs_g"`
	FatG       float64   `json:"fat_g"`
	CreatedAt  time.Time `json:"created_at"`
}

// MealsResponse — ответ для GET /v1/logs/meals
type MealsResponse struct {
	Entries []MealEntryDTO `json:"entries"`
}

// WaterRequest — запрос для POST /v1/logs/water[/remove]. AmountMl = 0
// использует порцию по умолчанию из конфигурации.
type WaterRequest struct {
	ProfileID uuid.UUID `json:"profile_id"`
	AmountMl  int       `json:"amount_ml,omitempty"`
}

// WaterDayDTO — итог воды за день
type WaterDayDTO struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Day       string    `json:"day"`
	TotalMl   int       `json:"total_ml"`
	Count     int       `json:"count"`
}

// SleepRequest — запрос для PUT /v1/logs/sleep
type SleepRequest struct {
	ProfileID uuid.UUID `json:"profile_id"`
	BedAt     time.Time `json:"bed_at"`
	WakeAt    time.Time `json:"wake_at"`
	Quality   int       `json:"quality"`
}

// SleepDTO — DTO записи сна
type SleepDTO struct {
	ID          uuid.UUID `json:"id"`
	ProfileID   uuid.UUID `json:"profile_id"`
	Day         string    `json:"day"`
	BedAt       time.Time `json:"bed_at"`
	WakeAt      time.Time `json:"wake_at"`
	DurationMin int       `json:"duration_min"`
	Quality     int       `json:"quality"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
