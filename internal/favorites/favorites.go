// Package favorites keeps the is-favorite overlay joined onto meal
// entries at read time. The store is an injected interface scoped per
// profile, not a process-wide singleton, so a durable implementation
// can be swapped in later; the default in-memory one deliberately
// loses its state on restart.
package favorites

import (
	"sync"

	"github.com/fdg312/energy-hub/internal/notify"
	"github.com/google/uuid"
)

// Store — интерфейс overlay-хранилища избранного
type Store interface {
	// IsFavorite reports whether the entry is marked for the profile.
	IsFavorite(profileID, entryID uuid.UUID) bool

	// Toggle flips the mark and returns the new state.
	Toggle(profileID, entryID uuid.UUID) bool

	// List returns all marked entry ids for the profile.
	List(profileID uuid.UUID) []uuid.UUID

	// Clear drops all marks for the profile.
	Clear(profileID uuid.UUID)
}

type memoryKey struct {
	profileID uuid.UUID
	entryID   uuid.UUID
}

// MemoryStore — процессное in-memory хранилище избранного
type MemoryStore struct {
	mu  sync.RWMutex
	set map[memoryKey]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{set: make(map[memoryKey]bool)}
}

func (s *MemoryStore) IsFavorite(profileID, entryID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.set[memoryKey{profileID, entryID}]
}

func (s *MemoryStore) Toggle(profileID, entryID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{profileID, entryID}
	if s.set[key] {
		delete(s.set, key)
		return false
	}
	s.set[key] = true
	return true
}

func (s *MemoryStore) List(profileID uuid.UUID) []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uuid.UUID, 0)
	for key := range s.set {
		if key.profileID == profileID {
			ids = append(ids, key.entryID)
		}
	}
	return ids
}

func (s *MemoryStore) Clear(profileID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.set {
		if key.profileID == profileID {
			delete(s.set, key)
		}
	}
}

// Service wraps the store and announces toggles so derived views
// recompute.
type Service struct {
	store Store
	hub   *notify.Hub
}

func NewService(store Store, hub *notify.Hub) *Service {
	return &Service{store: store, hub: hub}
}

// Toggle переключает отметку и триггерит пересчёт представлений
func (s *Service) Toggle(profileID, entryID uuid.UUID) bool {
	state := s.store.Toggle(profileID, entryID)
	s.hub.Publish(notify.Event{ProfileID: profileID, Topic: notify.TopicFavorites})
	return state
}

func (s *Service) IsFavorite(profileID, entryID uuid.UUID) bool {
	return s.store.IsFavorite(profileID, entryID)
}

func (s *Service) List(profileID uuid.UUID) []uuid.UUID {
	return s.store.List(profileID)
}

// Clear снимает все отметки профиля (вызывается при каскадном удалении)
func (s *Service) Clear(profileID uuid.UUID) {
	s.store.Clear(profileID)
}
