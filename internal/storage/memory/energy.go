package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/google/uuid"
)

// EnergyMemoryStorage — in-memory storage истории расчётов энергозатрат
type EnergyMemoryStorage struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*storage.EnergyRecord
	byProfile map[uuid.UUID][]uuid.UUID // profile_id -> record_ids (insertion order)
}

func NewEnergyMemoryStorage() *EnergyMemoryStorage {
	return &EnergyMemoryStorage{
		records:   make(map[uuid.UUID]*storage.EnergyRecord),
		byProfile: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *EnergyMemoryStorage) InsertEnergyRecord(ctx context.Context, record *storage.EnergyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	clone := *record
	s.records[clone.ID] = &clone
	s.byProfile[clone.ProfileID] = append(s.byProfile[clone.ProfileID], clone.ID)

	return nil
}

// GetLatestEnergyRecord returns the record with max created_at
// (id string order as tiebreak) — the explicit "active record" contract.
func (s *EnergyMemoryStorage) GetLatestEnergyRecord(ctx context.Context, profileID uuid.UUID) (storage.EnergyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *storage.EnergyRecord
	for _, id := range s.byProfile[profileID] {
		r, ok := s.records[id]
		if !ok {
			continue
		}
		if latest == nil || newerRecord(r, latest) {
			latest = r
		}
	}

	if latest == nil {
		return storage.EnergyRecord{}, false, nil
	}
	return *latest, true, nil
}

func (s *EnergyMemoryStorage) ListEnergyRecords(ctx context.Context, profileID uuid.UUID, limit int) ([]storage.EnergyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]storage.EnergyRecord, 0, len(s.byProfile[profileID]))
	for _, id := range s.byProfile[profileID] {
		if r, ok := s.records[id]; ok {
			result = append(result, *r)
		}
	}

	// Новые первыми
	sort.Slice(result, func(i, j int) bool {
		return newerRecord(&result[i], &result[j])
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *EnergyMemoryStorage) deleteByProfile(profileID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.byProfile[profileID] {
		delete(s.records, id)
	}
	delete(s.byProfile, profileID)
}

func newerRecord(a, b *storage.EnergyRecord) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() > b.ID.String()
}
