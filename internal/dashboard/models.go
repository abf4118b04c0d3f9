package dashboard

import (
	"time"

	"github.com/fdg312/energy-hub/internal/aggregate"
	"github.com/google/uuid"
)

// MealItem — запись еды с overlay избранного
type MealItem struct {
	ID         uuid.UUID `json:"id"`
	EatenAt    time.Time `json:"eaten_at"`
	FoodName   string    `json:"food_name"`
	QuantityG  float64   `json:"quantity_g"`
	Calories   float64   `json:"calories"`
	ProteinG   float64   `json:"protein_g"`
	CarbsG     float64   `json:"carbs_g"`
	FatG       float64   `json:"fat_g"`
	IsFavorite bool      `json:"is_favorite"`
}

// DaySummary — совмещённое представление одного дня: суммы еды против
// цели активной записи, вода и сон
type DaySummary struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Day       string    `json:"day"`
	Label     string    `json:"label"`

	// TargetCalories = 0, когда у профиля ещё нет расчёта
	TargetCalories float64 `json:"target_calories"`
	Consumed       aggregate.MealTotals `json:"consumed"`
	Remaining      float64 `json:"remaining"`
	Progress       float64 `json:"progress"`

	Meals []MealItem `json:"meals"`

	WaterMl      int `json:"water_ml"`
	WaterCount   int `json:"water_count"`
	SleepMin     int `json:"sleep_min"`
	SleepQuality int `json:"sleep_quality"`
}

// TrendWindow — окно трендов фиксированной длины, старые дни первыми
type TrendWindow struct {
	ProfileID uuid.UUID                `json:"profile_id"`
	Days      []aggregate.DayAggregate `json:"days"`
}

// Snapshot is one atomic emission of the watch pipeline: every field
// was computed from the same pass over the sources. Stale marks a
// snapshot that reuses the previous good data because a source read
// failed.
type Snapshot struct {
	ProfileID uuid.UUID    `json:"profile_id"`
	Today     *DaySummary  `json:"today"`
	Trend     *TrendWindow `json:"trend"`
	Stale     bool         `json:"stale"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
