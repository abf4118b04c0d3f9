package notify

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	profileID := uuid.New()

	ch, stop := hub.Subscribe(profileID)
	defer stop()

	hub.Publish(Event{ProfileID: profileID, Topic: TopicWater})

	select {
	case e := <-ch:
		if e.Topic != TopicWater {
			t.Errorf("topic = %s, want water", e.Topic)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestPublishDoesNotCrossProfiles(t *testing.T) {
	hub := NewHub()

	ch, stop := hub.Subscribe(uuid.New())
	defer stop()

	hub.Publish(Event{ProfileID: uuid.New(), Topic: TopicMeals})

	select {
	case <-ch:
		t.Fatal("event leaked across profiles")
	default:
	}
}

func TestTopicFilter(t *testing.T) {
	hub := NewHub()
	profileID := uuid.New()

	ch, stop := hub.Subscribe(profileID, TopicSleep)
	defer stop()

	hub.Publish(Event{ProfileID: profileID, Topic: TopicMeals})
	select {
	case <-ch:
		t.Fatal("filtered topic delivered")
	default:
	}

	hub.Publish(Event{ProfileID: profileID, Topic: TopicSleep})
	select {
	case <-ch:
	default:
		t.Fatal("matching topic not delivered")
	}

	// Deletion bypasses the filter: every watcher must tear down.
	hub.Publish(Event{ProfileID: profileID, Topic: TopicProfile, Deleted: true})
	select {
	case e := <-ch:
		if !e.Deleted {
			t.Error("expected deletion event")
		}
	default:
		t.Fatal("deletion event not delivered")
	}
}

// A burst of publishes against a busy subscriber collapses into one
// pending event instead of blocking the writers.
func TestPublishCoalesces(t *testing.T) {
	hub := NewHub()
	profileID := uuid.New()

	ch, stop := hub.Subscribe(profileID)
	defer stop()

	for i := 0; i < 10; i++ {
		hub.Publish(Event{ProfileID: profileID, Topic: TopicWater})
	}

	if got := len(ch); got != 1 {
		t.Errorf("pending events = %d, want 1", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	hub := NewHub()
	profileID := uuid.New()

	_, stop1 := hub.Subscribe(profileID)
	ch2, stop2 := hub.Subscribe(profileID)

	stop1()
	stop1()

	hub.Publish(Event{ProfileID: profileID, Topic: TopicEnergy})
	select {
	case <-ch2:
	default:
		t.Fatal("surviving subscriber lost its event")
	}

	stop2()
	hub.Publish(Event{ProfileID: profileID, Topic: TopicEnergy})
}
