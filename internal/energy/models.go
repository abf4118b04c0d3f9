package energy

import (
	"time"

	"github.com/google/uuid"
)

// RecalculateRequest — запрос для POST /v1/energy/recalculate. Формула
// опциональна, по умолчанию Mifflin-St Jeor.
type RecalculateRequest struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Formula   string    `json:"formula,omitempty"`
}

// EnergyRecordDTO — DTO для API
type EnergyRecordDTO struct {
	ID                 uuid.UUID `json:"id"`
	ProfileID          uuid.UUID `json:"profile_id"`
	Formula            string    `json:"formula"`
	BMR                float64   `json:"bmr"`
	ActivityMultiplier float64   `json:"activity_multiplier"`
	TDEE               float64   `json:"tdee"`
	TargetCalories     float64   `json:"target_calories"`
	ProteinG           float64   `json:"protein_g"`
	CarbsG             float64   `json:"carbs_g"`
	FatG               float64   `json:"fat_g"`
	CreatedAt          time.Time `json:"created_at"`
}

// HistoryResponse — ответ для GET /v1/energy/history
type HistoryResponse struct {
	Records []EnergyRecordDTO `json:"records"`
}

// AdviceContext is the plain-data projection handed to an external
// advice generator. Nothing here feeds back into our invariants.
type AdviceContext struct {
	BMR            float64 `json:"bmr"`
	TDEE           float64 `json:"tdee"`
	TargetCalories float64 `json:"target_calories"`
	ProteinG       float64 `json:"protein_g"`
	CarbsG         float64 `json:"carbs_g"`
	FatG           float64 `json:"fat_g"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
