package energy

import "fmt"

// Formula choices. The stored string is part of the record, so these
// values are a wire/DB contract.
const (
	FormulaMifflinStJeor  = "mifflin_st_jeor"
	FormulaHarrisBenedict = "harris_benedict"
)

// activityMultipliers — единственный источник правды для уровней
// активности; валидация и расчёт ходят сюда
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// Goal adjustments in kcal applied to TDEE.
var goalAdjustments = map[string]float64{
	"lose":     -500,
	"maintain": 0,
	"gain":     500,
}

// ValidActivityLevel reports whether level is a known activity level.
func ValidActivityLevel(level string) bool {
	_, ok := activityMultipliers[level]
	return ok
}

// ValidGoal reports whether goal is a known goal.
func ValidGoal(goal string) bool {
	_, ok := goalAdjustments[goal]
	return ok
}

// ValidationError attributes a rejected calculation to one input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FormulaInputs — чистые входы расчёта, без привязки к хранилищу
type FormulaInputs struct {
	AgeYears      int
	Sex           string // "male" или "female"
	HeightCm      float64
	WeightKg      float64
	ActivityLevel string
	Goal          string
	Formula       string
}

// FormulaResult — результат расчёта
type FormulaResult struct {
	Formula            string
	BMR                float64
	ActivityMultiplier float64
	TDEE               float64
	TargetCalories     float64
	ProteinG           float64
	CarbsG             float64
	FatG               float64
}

// Compute runs the energy calculation. Pure and deterministic: same
// inputs always give the same result. Invalid inputs are rejected, not
// clamped, so the caller never persists a record built from bad data.
func Compute(in FormulaInputs) (FormulaResult, error) {
	if err := validate(in); err != nil {
		return FormulaResult{}, err
	}

	var bmr float64
	switch in.Formula {
	case FormulaMifflinStJeor:
		bmr = 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(in.AgeYears)
		if in.Sex == "male" {
			bmr += 5
		} else {
			bmr -= 161
		}
	case FormulaHarrisBenedict:
		if in.Sex == "male" {
			bmr = 13.397*in.WeightKg + 4.799*in.HeightCm - 5.677*float64(in.AgeYears) + 88.362
		} else {
			bmr = 9.247*in.WeightKg + 3.098*in.HeightCm - 4.330*float64(in.AgeYears) + 447.593
		}
	}

	multiplier := activityMultipliers[in.ActivityLevel]
	tdee := bmr * multiplier
	target := tdee + goalAdjustments[in.Goal]

	// 30/40/30 split; protein and carbs at 4 kcal/g, fat at 9
	return FormulaResult{
		Formula:            in.Formula,
		BMR:                bmr,
		ActivityMultiplier: multiplier,
		TDEE:               tdee,
		TargetCalories:     target,
		ProteinG:           target * 0.30 / 4,
		CarbsG:             target * 0.40 / 4,
		FatG:               target * 0.30 / 9,
	}, nil
}

func validate(in FormulaInputs) error {
	if in.AgeYears <= 0 {
		return &ValidationError{Field: "age", Message: "age must be positive"}
	}
	if in.HeightCm <= 0 {
		return &ValidationError{Field: "height_cm", Message: "height must be positive"}
	}
	if in.WeightKg <= 0 {
		return &ValidationError{Field: "weight_kg", Message: "weight must be positive"}
	}
	if in.Sex != "male" && in.Sex != "female" {
		return &ValidationError{Field: "sex", Message: "sex must be male or female"}
	}
	if _, ok := activityMultipliers[in.ActivityLevel]; !ok {
		return &ValidationError{Field: "activity_level", Message: "unknown activity level"}
	}
	if _, ok := goalAdjustments[in.Goal]; !ok {
		return &ValidationError{Field: "goal", Message: "goal must be lose, maintain or gain"}
	}
	if in.Formula != FormulaMifflinStJeor && in.Formula != FormulaHarrisBenedict {
		return &ValidationError{Field: "formula", Message: "unknown formula"}
	}
	return nil
}
