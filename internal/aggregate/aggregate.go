// Package aggregate turns raw day-keyed log entries into derived
// per-day totals and fixed-length trend windows. Everything here is
// pure: storage access and reactive plumbing live in the dashboard
// package.
package aggregate

import (
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/energy-hub/internal/daykey"
	"github.com/fdg312/energy-hub/internal/storage"
)

// ErrInconsistentWindow is a programming defect, not a runtime
// condition: a built window must always match the requested length.
var ErrInconsistentWindow = errors.New("trend window length mismatch")

// DayAggregate — итоги одного дня. Дни без записей представлены
// нулевыми значениями, а не отсутствием элемента.
type DayAggregate struct {
	Day          string  `json:"day"`
	Label        string  `json:"label"`
	Calories     float64 `json:"calories"`
	ProteinG     float64 `json:"protein_g"`
	CarbsG       float64 `json:"carbs_g"`
	FatG         float64 `json:"fat_g"`
	WaterMl      int     `json:"water_ml"`
	WaterCount   int     `json:"water_count"`
	SleepMin     int     `json:"sleep_min"`
	SleepQuality int     `json:"sleep_quality"`
}

// MealTotals — суммы по приёмам пищи
type MealTotals struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// SumMeals складывает макросы по записям
func SumMeals(entries []storage.MealEntry) MealTotals {
	var t MealTotals
	for _, e := range entries {
		t.Calories += e.Calories
		t.ProteinG += e.ProteinG
		t.CarbsG += e.CarbsG
		t.FatG += e.FatG
	}
	return t
}

// Remaining is target minus consumed, floored at zero. Overeating never
// produces a negative remainder.
func Remaining(target, consumed float64) float64 {
	r := target - consumed
	if r < 0 {
		return 0
	}
	return r
}

// Progress returns consumed/target clamped to [0, 1]. A zero or
// negative target reports zero progress instead of dividing by it.
func Progress(target, consumed float64) float64 {
	if target <= 0 {
		return 0
	}
	p := consumed / target
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// SleepDuration derives minutes from bed/wake, clamped to [0, 24h].
// Quality is an independent ordinal and never feeds into this.
func SleepDuration(bedAt, wakeAt time.Time) int {
	minutes := int(wakeAt.Sub(bedAt).Minutes())
	if minutes < 0 {
		return 0
	}
	if minutes > 24*60 {
		return 24 * 60
	}
	return minutes
}

// BuildTrendWindow produces exactly n per-day aggregates ending at
// today, oldest first. Days without entries appear with zero values,
// the last bucket is labeled "Today", the one before it "Yesterday".
func BuildTrendWindow(today string, n int, meals []storage.MealEntry, water []storage.WaterDay, sleep []storage.SleepEntry) ([]DayAggregate, error) {
	days, err := daykey.Range(today, n)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*DayAggregate, n)
	window := make([]DayAggregate, n)
	for i, day := range days {
		window[i] = DayAggregate{
			Day:   day,
			Label: daykey.Label(day, today),
		}
		byDay[day] = &window[i]
	}

	for _, e := range meals {
		agg, ok := byDay[e.Day]
		if !ok {
			continue
		}
		agg.Calories += e.Calories
		agg.ProteinG += e.ProteinG
		agg.CarbsG += e.CarbsG
		agg.FatG += e.FatG
	}

	for _, d := range water {
		if agg, ok := byDay[d.Day]; ok {
			agg.WaterMl = d.TotalMl
			agg.WaterCount = d.Count
		}
	}

	for _, s := range sleep {
		if agg, ok := byDay[s.Day]; ok {
			agg.SleepMin = s.DurationMin
			agg.SleepQuality = s.Quality
		}
	}

	if len(window) != n {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInconsistentWindow, len(window), n)
	}

	return window, nil
}
