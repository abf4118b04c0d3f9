package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/fdg312/energy-hub/internal/favorites"
	"github.com/fdg312/energy-hub/internal/notify"
	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/fdg312/energy-hub/internal/storage/memory"
	"github.com/google/uuid"
)

type fixture struct {
	store     *memory.MemoryStorage
	hub       *notify.Hub
	favorites *favorites.Service
	service   *Service
	profileID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	hub := notify.NewHub()
	fav := favorites.NewService(favorites.NewMemoryStore(), hub)

	service := NewService(store, hub, fav)
	// Фиксируем "сегодня" для детерминизма
	service.now = func() time.Time {
		return time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	}

	profile := &storage.Profile{
		OwnerUserID:   "default",
		Name:          "Test",
		BirthDate:     time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC),
		Sex:           "male",
		HeightCm:      180,
		WeightKg:      80,
		ActivityLevel: "moderate",
		Goal:          "lose",
	}
	if err := store.CreateProfile(context.Background(), profile); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	return &fixture{
		store:     store,
		hub:       hub,
		favorites: fav,
		service:   service,
		profileID: profile.ID,
	}
}

func TestBuildDaySummaryJoinsSources(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.InsertEnergyRecord(ctx, &storage.EnergyRecord{
		ProfileID:      f.profileID,
		TargetCalories: 2259,
	})
	f.store.InsertMeal(ctx, &storage.MealEntry{
		ProfileID: f.profileID,
		Day:       "2025-06-10",
		FoodName:  "Oats",
		Calories:  570,
		ProteinG:  19.5,
	})
	f.store.InsertMeal(ctx, &storage.MealEntry{
		ProfileID: f.profileID,
		Day:       "2025-06-10",
		FoodName:  "Chicken",
		Calories:  430,
		ProteinG:  45,
	})
	f.store.AddWater(ctx, f.profileID, "2025-06-10", 500)
	f.store.UpsertSleep(ctx, &storage.SleepEntry{
		ProfileID:   f.profileID,
		Day:         "2025-06-10",
		DurationMin: 465,
		Quality:     3,
	})

	summary, err := f.service.BuildDaySummary(ctx, f.profileID, "2025-06-10")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if summary.Label != "Today" {
		t.Errorf("label = %q, want Today", summary.Label)
	}
	if summary.Consumed.Calories != 1000 {
		t.Errorf("consumed = %v, want 1000", summary.Consumed.Calories)
	}
	if summary.Remaining != 1259 {
		t.Errorf("remaining = %v, want 1259", summary.Remaining)
	}
	if summary.Progress <= 0.44 || summary.Progress >= 0.45 {
		t.Errorf("progress = %v, want ~0.4427", summary.Progress)
	}
	if len(summary.Meals) != 2 {
		t.Errorf("meals = %d, want 2", len(summary.Meals))
	}
	if summary.WaterMl != 500 || summary.WaterCount != 1 {
		t.Errorf("water = %d/%d, want 500/1", summary.WaterMl, summary.WaterCount)
	}
	if summary.SleepMin != 465 || summary.SleepQuality != 3 {
		t.Errorf("sleep = %d/%d, want 465/3", summary.SleepMin, summary.SleepQuality)
	}
}

func TestBuildDaySummaryWithoutTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.InsertMeal(ctx, &storage.MealEntry{
		ProfileID: f.profileID,
		Day:       "2025-06-10",
		Calories:  800,
	})

	summary, err := f.service.BuildDaySummary(ctx, f.profileID, "2025-06-10")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if summary.TargetCalories != 0 {
		t.Errorf("target = %v, want 0", summary.TargetCalories)
	}
	if summary.Remaining != 0 {
		t.Errorf("remaining = %v, want 0", summary.Remaining)
	}
	// Нулевая цель не должна давать деление на ноль
	if summary.Progress != 0 {
		t.Errorf("progress = %v, want 0", summary.Progress)
	}
}

func TestBuildDaySummaryFavoritesOverlay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry := &storage.MealEntry{
		ProfileID: f.profileID,
		Day:       "2025-06-10",
		FoodName:  "Oats",
		Calories:  570,
	}
	f.store.InsertMeal(ctx, entry)
	f.favorites.Toggle(f.profileID, entry.ID)

	summary, err := f.service.BuildDaySummary(ctx, f.profileID, "2025-06-10")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if len(summary.Meals) != 1 || !summary.Meals[0].IsFavorite {
		t.Error("favorite mark not joined onto meal entry")
	}
}

func TestBuildTrendDefaultWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.InsertMeal(ctx, &storage.MealEntry{
		ProfileID: f.profileID,
		Day:       "2025-06-08",
		Calories:  1500,
	})

	trend, err := f.service.BuildTrend(ctx, f.profileID, 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if len(trend.Days) != DefaultTrendDays {
		t.Fatalf("window = %d days, want %d", len(trend.Days), DefaultTrendDays)
	}
	if trend.Days[6].Day != "2025-06-10" || trend.Days[6].Label != "Today" {
		t.Errorf("last bucket = %+v, want Today 2025-06-10", trend.Days[6])
	}
	if trend.Days[4].Calories != 1500 {
		t.Errorf("2025-06-08 calories = %v, want 1500", trend.Days[4].Calories)
	}
}

func TestBuildTrendRejectsOversizedWindow(t *testing.T) {
	f := newFixture(t)

	if _, err := f.service.BuildTrend(context.Background(), f.profileID, MaxTrendDays+1); err != ErrInvalidWindow {
		t.Errorf("err = %v, want ErrInvalidWindow", err)
	}
}

func TestBuildDaySummaryUnknownProfile(t *testing.T) {
	f := newFixture(t)

	if _, err := f.service.BuildDaySummary(context.Background(), uuid.New(), "2025-06-10"); err != ErrProfileNotFound {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
}
