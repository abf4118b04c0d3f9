package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/fdg312/energy-hub/internal/aggregate"
	"github.com/fdg312/energy-hub/internal/daykey"
	"github.com/fdg312/energy-hub/internal/favorites"
	"github.com/fdg312/energy-hub/internal/notify"
	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidWindow   = errors.New("invalid window size")
)

// DefaultTrendDays — окно трендов по умолчанию
const DefaultTrendDays = 7

// MaxTrendDays bounds a requested window; anything longer is a client
// mistake, not a charting need.
const MaxTrendDays = 92

// Storage — источники, которые сервис совмещает
type Storage interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error)
	GetLatestEnergyRecord(ctx context.Context, profileID uuid.UUID) (storage.EnergyRecord, bool, error)
	ListMeals(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.MealEntry, error)
	GetWaterDay(ctx context.Context, profileID uuid.UUID, day string) (storage.WaterDay, bool, error)
	ListWaterDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.WaterDay, error)
	GetSleepDay(ctx context.Context, profileID uuid.UUID, day string) (storage.SleepEntry, bool, error)
	ListSleepDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.SleepEntry, error)
}

// Service совмещает независимые источники (профиль, активный расчёт,
// логи еды/воды/сна, избранное) в производные представления
type Service struct {
	storage   Storage
	hub       *notify.Hub
	favorites *favorites.Service
	now       func() time.Time
}

func NewService(st Storage, hub *notify.Hub, fav *favorites.Service) *Service {
	return &Service{
		storage:   st,
		hub:       hub,
		favorites: fav,
		now:       time.Now,
	}
}

// BuildDaySummary joins every source for one day into a single
// consistent view. All reads happen in one pass; the result never
// mixes data from different recomputations.
func (s *Service) BuildDaySummary(ctx context.Context, profileID uuid.UUID, day string) (*DaySummary, error) {
	profile, err := s.storage.GetProfile(ctx, profileID)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	if err := daykey.Validate(day); err != nil {
		return nil, ErrInvalidDate
	}

	var target float64
	if record, ok, err := s.storage.GetLatestEnergyRecord(ctx, profileID); err != nil {
		return nil, err
	} else if ok {
		target = record.TargetCalories
	}

	meals, err := s.storage.ListMeals(ctx, profileID, day, day)
	if err != nil {
		return nil, err
	}

	totals := aggregate.SumMeals(meals)

	items := make([]MealItem, 0, len(meals))
	for _, e := range meals {
		items = append(items, MealItem{
			ID:         e.ID,
			EatenAt:    e.EatenAt,
			FoodName:   e.FoodName,
			QuantityG:  e.QuantityG,
			Calories:   e.Calories,
			ProteinG:   e.ProteinG,
			CarbsG:     e.CarbsG,
			FatG:       e.FatG,
			IsFavorite: s.favorites.IsFavorite(profileID, e.ID),
		})
	}

	summary := &DaySummary{
		ProfileID:      profileID,
		Day:            day,
		Label:          daykey.Label(day, s.today(profile)),
		TargetCalories: target,
		Consumed:       totals,
		Remaining:      aggregate.Remaining(target, totals.Calories),
		Progress:       aggregate.Progress(target, totals.Calories),
		Meals:          items,
	}

	if water, ok, err := s.storage.GetWaterDay(ctx, profileID, day); err != nil {
		return nil, err
	} else if ok {
		summary.WaterMl = water.TotalMl
		summary.WaterCount = water.Count
	}

	if sleep, ok, err := s.storage.GetSleepDay(ctx, profileID, day); err != nil {
		return nil, err
	} else if ok {
		summary.SleepMin = sleep.DurationMin
		summary.SleepQuality = sleep.Quality
	}

	return summary, nil
}

// BuildTrend строит окно трендов ровно из days дней, заканчивающееся
// сегодняшним днём профиля
func (s *Service) BuildTrend(ctx context.Context, profileID uuid.UUID, days int) (*TrendWindow, error) {
	profile, err := s.storage.GetProfile(ctx, profileID)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	if days == 0 {
		days = DefaultTrendDays
	}
	if days < 0 || days > MaxTrendDays {
		return nil, ErrInvalidWindow
	}

	today := s.today(profile)
	from, err := daykey.Add(today, -(days - 1))
	if err != nil {
		return nil, err
	}

	meals, err := s.storage.ListMeals(ctx, profileID, from, today)
	if err != nil {
		return nil, err
	}
	water, err := s.storage.ListWaterDays(ctx, profileID, from, today)
	if err != nil {
		return nil, err
	}
	sleep, err := s.storage.ListSleepDays(ctx, profileID, from, today)
	if err != nil {
		return nil, err
	}

	window, err := aggregate.BuildTrendWindow(today, days, meals, water, sleep)
	if err != nil {
		return nil, err
	}

	return &TrendWindow{ProfileID: profileID, Days: window}, nil
}

// today возвращает сегодняшний день в зоне профиля
func (s *Service) today(profile *storage.Profile) string {
	loc := time.UTC
	if profile.TimeZone != "" {
		if parsed, err := time.LoadLocation(profile.TimeZone); err == nil {
			loc = parsed
		}
	}
	return daykey.FromTime(s.now(), loc)
}
