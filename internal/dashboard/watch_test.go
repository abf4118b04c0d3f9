package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/fdg312/energy-hub/internal/notify"
	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/google/uuid"
)

func recvSnapshot(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatal("snapshot channel closed unexpectedly")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return Snapshot{}
}

func TestWatchEmitsInitialSnapshot(t *testing.T) {
	f := newFixture(t)

	ch, stop, err := f.service.Watch(context.Background(), f.profileID)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer stop()

	snap := recvSnapshot(t, ch)

	if snap.ProfileID != f.profileID {
		t.Errorf("profile = %s, want %s", snap.ProfileID, f.profileID)
	}
	if snap.Today == nil || snap.Trend == nil {
		t.Fatal("snapshot missing today or trend")
	}
	if snap.Stale {
		t.Error("initial snapshot should not be stale")
	}
	if len(snap.Trend.Days) != DefaultTrendDays {
		t.Errorf("trend = %d days, want %d", len(snap.Trend.Days), DefaultTrendDays)
	}
}

func TestWatchRecomputesOnWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ch, stop, err := f.service.Watch(ctx, f.profileID)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer stop()

	first := recvSnapshot(t, ch)
	if first.Today.Consumed.Calories != 0 {
		t.Fatalf("initial consumed = %v, want 0", first.Today.Consumed.Calories)
	}

	f.store.InsertMeal(ctx, &storage.MealEntry{
		ProfileID: f.profileID,
		Day:       "2025-06-10",
		Calories:  700,
	})
	f.hub.Publish(notify.Event{ProfileID: f.profileID, Topic: notify.TopicMeals})

	second := recvSnapshot(t, ch)
	if second.Today.Consumed.Calories != 700 {
		t.Errorf("recomputed consumed = %v, want 700", second.Today.Consumed.Calories)
	}
}

// A burst of writes may collapse into fewer snapshots, but the last
// snapshot always reflects the final state of all sources.
func TestWatchCoalescesToLatestState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ch, stop, err := f.service.Watch(ctx, f.profileID)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer stop()

	recvSnapshot(t, ch)

	for i := 0; i < 5; i++ {
		f.store.AddWater(ctx, f.profileID, "2025-06-10", 100)
		f.hub.Publish(notify.Event{ProfileID: f.profileID, Topic: notify.TopicWater})
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				t.Fatal("channel closed early")
			}
			if snap.Today.WaterMl == 500 {
				return
			}
		case <-deadline:
			t.Fatal("never observed the final water total")
		}
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch, stop, err := f.service.Watch(ctx, f.profileID)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer stop()

	recvSnapshot(t, ch)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			// Может прийти уже вычисленный снапшот; канал должен
			// закрыться следом
			if _, ok := <-ch; ok {
				t.Error("channel still open after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatchTearsDownOnProfileDeletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ch, stop, err := f.service.Watch(ctx, f.profileID)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer stop()

	recvSnapshot(t, ch)

	f.store.DeleteProfile(ctx, f.profileID)
	f.hub.Publish(notify.Event{ProfileID: f.profileID, Topic: notify.TopicProfile, Deleted: true})

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after profile deletion")
		}
	}
}

func TestWatchUnknownProfile(t *testing.T) {
	f := newFixture(t)

	if _, _, err := f.service.Watch(context.Background(), uuid.New()); err != ErrProfileNotFound {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
}
