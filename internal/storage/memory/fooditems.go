package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/google/uuid"
)

// FoodItemsMemoryStorage — in-memory каталог еды
type FoodItemsMemoryStorage struct {
	mu        sync.RWMutex
	items     map[uuid.UUID]*storage.FoodItem
	byProfile map[uuid.UUID][]uuid.UUID
}

func NewFoodItemsMemoryStorage() *FoodItemsMemoryStorage {
	return &FoodItemsMemoryStorage{
		items:     make(map[uuid.UUID]*storage.FoodItem),
		byProfile: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *FoodItemsMemoryStorage) CreateFoodItem(ctx context.Context, item *storage.FoodItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
		item.UpdatedAt = item.CreatedAt
	}

	clone := *item
	s.items[clone.ID] = &clone
	s.byProfile[clone.ProfileID] = append(s.byProfile[clone.ProfileID], clone.ID)

	return nil
}

func (s *FoodItemsMemoryStorage) GetFoodItem(ctx context.Context, id uuid.UUID) (*storage.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, ok := s.items[id]; ok {
		clone := *item
		return &clone, nil
	}

	return nil, ErrNotFound
}

func (s *FoodItemsMemoryStorage) ListFoodItems(ctx context.Context, profileID uuid.UUID, query string, limit, offset int) ([]storage.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))

	result := make([]storage.FoodItem, 0)
	for _, id := range s.byProfile[profileID] {
		item, ok := s.items[id]
		if !ok {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(item.Name), query) {
			continue
		}
		result = append(result, *item)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	if offset > 0 {
		if offset >= len(result) {
			return []storage.FoodItem{}, nil
		}
		result = result[offset:]
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (s *FoodItemsMemoryStorage) DeleteFoodItem(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}

	s.byProfile[item.ProfileID] = removeID(s.byProfile[item.ProfileID], id)
	delete(s.items, id)

	return nil
}

func (s *FoodItemsMemoryStorage) deleteByProfile(profileID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.byProfile[profileID] {
		delete(s.items, id)
	}
	delete(s.byProfile, profileID)
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
