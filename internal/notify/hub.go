package notify

import (
	"sync"

	"github.com/google/uuid"
)

// Topic identifies the kind of data that changed for a profile.
type Topic string

const (
	TopicProfile   Topic = "profile"
	TopicEnergy    Topic = "energy"
	TopicMeals     Topic = "meals"
	TopicWater     Topic = "water"
	TopicSleep     Topic = "sleep"
	TopicFavorites Topic = "favorites"
)

// Event is published by the service layer after every successful write.
type Event struct {
	ProfileID uuid.UUID
	Topic     Topic
	// Deleted is set when the profile itself was removed; watchers
	// should tear down instead of recomputing.
	Deleted bool
}

type subscriber struct {
	id     int
	topics map[Topic]bool // empty = all topics
	ch     chan Event
}

// Hub fans change events out to per-profile watchers. Each subscriber
// channel has a buffer of one: if a watcher is mid-recompute when more
// events arrive, they collapse into a single pending tick. The watcher
// re-reads current store state on wake, so dropped events lose nothing.
type Hub struct {
	mu        sync.Mutex
	nextID    int
	byProfile map[uuid.UUID][]*subscriber
}

func NewHub() *Hub {
	return &Hub{
		byProfile: make(map[uuid.UUID][]*subscriber),
	}
}

// Subscribe registers a watcher for one profile's events, optionally
// filtered by topic. The returned stop func is idempotent.
func (h *Hub) Subscribe(profileID uuid.UUID, topics ...Topic) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{
		id:     h.nextID,
		topics: make(map[Topic]bool, len(topics)),
		ch:     make(chan Event, 1),
	}
	h.nextID++
	for _, t := range topics {
		sub.topics[t] = true
	}

	h.byProfile[profileID] = append(h.byProfile[profileID], sub)

	var once sync.Once
	stop := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			subs := h.byProfile[profileID]
			for i, s := range subs {
				if s.id == sub.id {
					h.byProfile[profileID] = append(subs[:i], subs[i+1:]...)
					break
				}
			}
			if len(h.byProfile[profileID]) == 0 {
				delete(h.byProfile, profileID)
			}
		})
	}

	return sub.ch, stop
}

// Publish delivers the event to matching subscribers without blocking.
// A subscriber whose buffer is full already has a wake-up pending.
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.byProfile[e.ProfileID] {
		if len(sub.topics) > 0 && !sub.topics[e.Topic] && !e.Deleted {
			continue
		}
		select {
		case sub.ch <- e:
		default:
		}
	}
}
