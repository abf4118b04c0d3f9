package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/google/uuid"
)

// MealsMemoryStorage — in-memory лог еды
type MealsMemoryStorage struct {
	mu        sync.RWMutex
	entries   map[uuid.UUID]*storage.MealEntry
	byProfile map[uuid.UUID][]uuid.UUID
}

func NewMealsMemoryStorage() *MealsMemoryStorage {
	return &MealsMemoryStorage{
		entries:   make(map[uuid.UUID]*storage.MealEntry),
		byProfile: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *MealsMemoryStorage) InsertMeal(ctx context.Context, entry *storage.MealEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	clone := *entry
	s.entries[clone.ID] = &clone
	s.byProfile[clone.ProfileID] = append(s.byProfile[clone.ProfileID], clone.ID)

	return nil
}

func (s *MealsMemoryStorage) ListMeals(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.MealEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]storage.MealEntry, 0)
	for _, id := range s.byProfile[profileID] {
		e, ok := s.entries[id]
		if !ok {
			continue
		}
		// Day keys are YYYY-MM-DD: string compare == chronological compare
		if e.Day < from || e.Day > to {
			continue
		}
		result = append(result, *e)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Day != result[j].Day {
			return result[i].Day < result[j].Day
		}
		return result[i].EatenAt.Before(result[j].EatenAt)
	})

	return result, nil
}

func (s *MealsMemoryStorage) GetMeal(ctx context.Context, id uuid.UUID) (*storage.MealEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries[id]; ok {
		clone := *e
		return &clone, nil
	}

	return nil, ErrNotFound
}

func (s *MealsMemoryStorage) DeleteMeal(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return ErrNotFound
	}

	s.byProfile[e.ProfileID] = removeID(s.byProfile[e.ProfileID], id)
	delete(s.entries, id)

	return nil
}

func (s *MealsMemoryStorage) deleteByProfile(profileID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.byProfile[profileID] {
		delete(s.entries, id)
	}
	delete(s.byProfile, profileID)
}
