package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/google/uuid"
)

type sleepKey struct {
	profileID uuid.UUID
	day       string
}

// SleepMemoryStorage — in-memory лог сна, одна запись на (profile, day)
type SleepMemoryStorage struct {
	mu   sync.RWMutex
	days map[sleepKey]*storage.SleepEntry
}

func NewSleepMemoryStorage() *SleepMemoryStorage {
	return &SleepMemoryStorage{
		days: make(map[sleepKey]*storage.SleepEntry),
	}
}

func (s *SleepMemoryStorage) UpsertSleep(ctx context.Context, entry *storage.SleepEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sleepKey{entry.ProfileID, entry.Day}

	if existing, ok := s.days[key]; ok {
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
	} else {
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		entry.CreatedAt = time.Now()
	}
	entry.UpdatedAt = time.Now()

	clone := *entry
	s.days[key] = &clone

	return nil
}

func (s *SleepMemoryStorage) GetSleepDay(ctx context.Context, profileID uuid.UUID, day string) (storage.SleepEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.days[sleepKey{profileID, day}]; ok {
		return *e, true, nil
	}
	return storage.SleepEntry{}, false, nil
}

func (s *SleepMemoryStorage) ListSleepDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.SleepEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]storage.SleepEntry, 0)
	for key, e := range s.days {
		if key.profileID != profileID {
			continue
		}
		if key.day < from || key.day > to {
			continue
		}
		result = append(result, *e)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Day < result[j].Day
	})

	return result, nil
}

func (s *SleepMemoryStorage) deleteByProfile(profileID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.days {
		if key.profileID == profileID {
			delete(s.days, key)
		}
	}
}
