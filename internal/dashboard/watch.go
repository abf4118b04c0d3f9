package dashboard

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// Watch starts a per-profile recomputation loop and returns a channel
// of atomic snapshots. The first snapshot is computed immediately;
// afterwards one recomputation runs per hub wake-up.
//
// Serialization and coalescing: a single goroutine owns the loop, so
// two recomputations for one subscription never overlap, and bursts of
// writes collapse into one pending wake-up (the hub keeps at most one
// buffered event per subscriber). The snapshot channel also holds one
// element; a slow consumer always finds the newest snapshot, not a
// backlog.
//
// Teardown: cancelling ctx or calling stop ends the loop; a profile
// deletion event closes the channel so consumers see EOF.
func (s *Service) Watch(ctx context.Context, profileID uuid.UUID) (<-chan Snapshot, func(), error) {
	if _, err := s.storage.GetProfile(ctx, profileID); err != nil {
		return nil, nil, ErrProfileNotFound
	}

	events, unsubscribe := s.hub.Subscribe(profileID)
	out := make(chan Snapshot, 1)
	done := make(chan struct{})

	stop := func() {
		unsubscribe()
		close(done)
	}

	go func() {
		defer close(out)

		last := Snapshot{ProfileID: profileID}

		emit := func() bool {
			snap, err := s.buildSnapshot(ctx, profileID)
			if err != nil {
				if err == ErrProfileNotFound {
					return false
				}
				// Source unavailable: keep the last good data,
				// flagged stale, instead of blocking or failing.
				log.Printf("dashboard: watch recompute profile=%s err=%v", profileID, err)
				snap = last
				snap.Stale = true
			} else {
				last = snap
			}

			// Replace a pending snapshot so the consumer always
			// reads the latest state.
			for {
				select {
				case out <- snap:
					return true
				default:
					select {
					case <-out:
					default:
					}
				}
			}
		}

		if !emit() {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case e := <-events:
				if e.Deleted {
					return
				}
				if !emit() {
					return
				}
			}
		}
	}()

	return out, stop, nil
}

// buildSnapshot recomputes today's summary and the default trend window
// from the current state of all sources in one pass.
func (s *Service) buildSnapshot(ctx context.Context, profileID uuid.UUID) (Snapshot, error) {
	profile, err := s.storage.GetProfile(ctx, profileID)
	if err != nil {
		return Snapshot{}, ErrProfileNotFound
	}

	today, err := s.BuildDaySummary(ctx, profileID, s.today(profile))
	if err != nil {
		return Snapshot{}, err
	}

	trend, err := s.BuildTrend(ctx, profileID, DefaultTrendDays)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		ProfileID: profileID,
		Today:     today,
		Trend:     trend,
	}, nil
}
