package profiles

import (
	"time"

	"github.com/google/uuid"
)

// ProfileDTO — DTO для API
type ProfileDTO struct {
	ID            uuid.UUID `json:"id"`
	OwnerUserID   string    `json:"owner_user_id"`
	Name          string    `json:"name"`
	BirthDate     string    `json:"birth_date"` // YYYY-MM-DD
	Sex           string    `json:"sex"`
	HeightCm      float64   `json:"height_cm"`
	WeightKg      float64   `json:"weight_kg"`
	ActivityLevel string    `json:"activity_level"`
	Goal          string    `json:"goal"`
	TimeZone      string    `json:"time_zone,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProfilesResponse — ответ для GET /v1/profiles
type ProfilesResponse struct {
	Profiles []ProfileDTO `json:"profiles"`
}

// CreateProfileRequest — запрос для POST /v1/profiles
type CreateProfileRequest struct {
	Name          string  `json:"name"`
	BirthDate     string  `json:"birth_date"` // YYYY-MM-DD
	Sex           string  `json:"sex"`
	HeightCm      float64 `json:"height_cm"`
	WeightKg      float64 `json:"weight_kg"`
	ActivityLevel string  `json:"activity_level"`
	Goal          string  `json:"goal"`
	TimeZone      string  `json:"time_zone,omitempty"`
}

// UpdateProfileRequest — запрос для PATCH /v1/profiles/{id}.
// Nil-поля не изменяются.
type UpdateProfileRequest struct {
	Name          *string  `json:"name,omitempty"`
	BirthDate     *string  `json:"birth_date,omitempty"`
	Sex           *string  `json:"sex,omitempty"`
	HeightCm      *float64 `json:"height_cm,omitempty"`
	WeightKg      *float64 `json:"weight_kg,omitempty"`
	ActivityLevel *string  `json:"activity_level,omitempty"`
	Goal          *string  `json:"goal,omitempty"`
	TimeZone      *string  `json:"time_zone,omitempty"`
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
