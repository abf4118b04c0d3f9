package memory

import (
	"context"
	"testing"
	"time"

	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/google/uuid"
)

func newTestProfile(t *testing.T, m *MemoryStorage) uuid.UUID {
	t.Helper()
	p := &storage.Profile{
		OwnerUserID:   "default",
		Name:          "Test",
		BirthDate:     time.Date(1996, 5, 1, 0, 0, 0, 0, time.UTC),
		Sex:           "male",
		HeightCm:      180,
		WeightKg:      80,
		ActivityLevel: "moderate",
		Goal:          "maintain",
	}
	if err := m.CreateProfile(context.Background(), p); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return p.ID
}

// Two rapid writes to the same day must accumulate, never lose an update.
func TestAddWaterAccumulates(t *testing.T) {
	m := New()
	ctx := context.Background()
	profileID := newTestProfile(t, m)

	if _, err := m.AddWater(ctx, profileID, "2025-06-10", 250); err != nil {
		t.Fatalf("add water: %v", err)
	}
	day, err := m.AddWater(ctx, profileID, "2025-06-10", 150)
	if err != nil {
		t.Fatalf("add water: %v", err)
	}

	if day.TotalMl != 400 {
		t.Errorf("total = %d, want 400", day.TotalMl)
	}
	if day.Count != 2 {
		t.Errorf("count = %d, want 2", day.Count)
	}
}

func TestRemoveWaterFloorsAndDeletes(t *testing.T) {
	m := New()
	ctx := context.Background()
	profileID := newTestProfile(t, m)

	m.AddWater(ctx, profileID, "2025-06-10", 250)
	m.AddWater(ctx, profileID, "2025-06-10", 150)

	// Removing more than logged floors the total at zero.
	day, err := m.RemoveWater(ctx, profileID, "2025-06-10", 1000)
	if err != nil {
		t.Fatalf("remove water: %v", err)
	}
	if day.TotalMl != 0 {
		t.Errorf("total = %d, want 0 after over-remove", day.TotalMl)
	}
	if day.Count != 1 {
		t.Errorf("count = %d, want 1", day.Count)
	}

	// Last remove drops the row entirely.
	if _, err := m.RemoveWater(ctx, profileID, "2025-06-10", 0); err != nil {
		t.Fatalf("remove water: %v", err)
	}
	if _, ok, _ := m.GetWaterDay(ctx, profileID, "2025-06-10"); ok {
		t.Error("expected water day row to be deleted at zero count")
	}

	// Removing from an empty day is a no-op, not an error.
	if _, err := m.RemoveWater(ctx, profileID, "2025-06-10", 100); err != nil {
		t.Errorf("remove from empty day: %v", err)
	}
}

// Active record = max(created_at), id tiebreak — the explicit contract.
func TestGetLatestEnergyRecord(t *testing.T) {
	m := New()
	ctx := context.Background()
	profileID := newTestProfile(t, m)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	old := &storage.EnergyRecord{ProfileID: profileID, TargetCalories: 2000, CreatedAt: base}
	fresh := &storage.EnergyRecord{ProfileID: profileID, TargetCalories: 2300, CreatedAt: base.Add(time.Hour)}

	if err := m.InsertEnergyRecord(ctx, fresh); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := m.InsertEnergyRecord(ctx, old); err != nil {
		t.Fatalf("insert: %v", err)
	}

	latest, ok, err := m.GetLatestEnergyRecord(ctx, profileID)
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if !ok {
		t.Fatal("expected a latest record")
	}
	if latest.TargetCalories != 2300 {
		t.Errorf("latest target = %v, want 2300 (insertion order must not matter)", latest.TargetCalories)
	}
}

func TestGetLatestEnergyRecordEmpty(t *testing.T) {
	m := New()
	profileID := newTestProfile(t, m)

	_, ok, err := m.GetLatestEnergyRecord(context.Background(), profileID)
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if ok {
		t.Error("expected ok=false for profile without records")
	}
}

// Deleting a profile must leave no queryable dependent records.
func TestDeleteProfileCascades(t *testing.T) {
	m := New()
	ctx := context.Background()
	profileID := newTestProfile(t, m)

	m.InsertEnergyRecord(ctx, &storage.EnergyRecord{ProfileID: profileID, TargetCalories: 2200})
	m.InsertMeal(ctx, &storage.MealEntry{ProfileID: profileID, Day: "2025-06-10", Calories: 500})
	m.AddWater(ctx, profileID, "2025-06-10", 250)
	m.UpsertSleep(ctx, &storage.SleepEntry{ProfileID: profileID, Day: "2025-06-10", DurationMin: 480})
	m.CreateFoodItem(ctx, &storage.FoodItem{ProfileID: profileID, Name: "Oats"})

	if err := m.DeleteProfile(ctx, profileID); err != nil {
		t.Fatalf("delete profile: %v", err)
	}

	if _, ok, _ := m.GetLatestEnergyRecord(ctx, profileID); ok {
		t.Error("energy record survived cascade")
	}
	if meals, _ := m.ListMeals(ctx, profileID, "0000-01-01", "9999-12-31"); len(meals) != 0 {
		t.Errorf("%d meal entries survived cascade", len(meals))
	}
	if _, ok, _ := m.GetWaterDay(ctx, profileID, "2025-06-10"); ok {
		t.Error("water day survived cascade")
	}
	if _, ok, _ := m.GetSleepDay(ctx, profileID, "2025-06-10"); ok {
		t.Error("sleep entry survived cascade")
	}
	if items, _ := m.ListFoodItems(ctx, profileID, "", 0, 0); len(items) != 0 {
		t.Errorf("%d food items survived cascade", len(items))
	}
}

func TestSleepUpsertReplacesDay(t *testing.T) {
	m := New()
	ctx := context.Background()
	profileID := newTestProfile(t, m)

	first := &storage.SleepEntry{ProfileID: profileID, Day: "2025-06-10", DurationMin: 400, Quality: 2}
	if err := m.UpsertSleep(ctx, first); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	second := &storage.SleepEntry{ProfileID: profileID, Day: "2025-06-10", DurationMin: 480, Quality: 3}
	if err := m.UpsertSleep(ctx, second); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Error("upsert created a second record for the same day")
	}

	got, ok, _ := m.GetSleepDay(ctx, profileID, "2025-06-10")
	if !ok {
		t.Fatal("sleep day missing")
	}
	if got.DurationMin != 480 || got.Quality != 3 {
		t.Errorf("got %+v, want replaced values", got)
	}
}
