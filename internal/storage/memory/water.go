package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/google/uuid"
)

type waterKey struct {
	profileID uuid.UUID
	day       string
}

// WaterMemoryStorage — in-memory лог воды (накопительно по дням).
// Add/Remove атомарны под мьютексом: два быстрых добавления подряд
// всегда дают сумму обоих, потерянных обновлений нет.
type WaterMemoryStorage struct {
	mu   sync.Mutex
	days map[waterKey]*storage.WaterDay
}

func NewWaterMemoryStorage() *WaterMemoryStorage {
	return &WaterMemoryStorage{
		days: make(map[waterKey]*storage.WaterDay),
	}
}

func (s *WaterMemoryStorage) AddWater(ctx context.Context, profileID uuid.UUID, day string, amountMl int) (storage.WaterDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := waterKey{profileID, day}
	d, ok := s.days[key]
	if !ok {
		d = &storage.WaterDay{ProfileID: profileID, Day: day}
		s.days[key] = d
	}

	d.TotalMl += amountMl
	d.Count++
	d.UpdatedAt = time.Now()

	return *d, nil
}

func (s *WaterMemoryStorage) RemoveWater(ctx context.Context, profileID uuid.UUID, day string, amountMl int) (storage.WaterDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := waterKey{profileID, day}
	d, ok := s.days[key]
	if !ok {
		// Нечего убирать — возвращаем нулевой итог, не ошибку
		return storage.WaterDay{ProfileID: profileID, Day: day}, nil
	}

	d.TotalMl -= amountMl
	if d.TotalMl < 0 {
		d.TotalMl = 0
	}
	d.Count--
	if d.Count <= 0 {
		delete(s.days, key)
		return storage.WaterDay{ProfileID: profileID, Day: day}, nil
	}

	d.UpdatedAt = time.Now()
	return *d, nil
}

func (s *WaterMemoryStorage) GetWaterDay(ctx context.Context, profileID uuid.UUID, day string) (storage.WaterDay, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.days[waterKey{profileID, day}]; ok {
		return *d, true, nil
	}
	return storage.WaterDay{}, false, nil
}

func (s *WaterMemoryStorage) ListWaterDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.WaterDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]storage.WaterDay, 0)
	for key, d := range s.days {
		if key.profileID != profileID {
			continue
		}
		if key.day < from || key.day > to {
			continue
		}
		result = append(result, *d)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Day < result[j].Day
	})

	return result, nil
}

func (s *WaterMemoryStorage) deleteByProfile(profileID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.days {
		if key.profileID == profileID {
			delete(s.days, key)
		}
	}
}
