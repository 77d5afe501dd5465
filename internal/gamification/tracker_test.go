package gamification

import (
	"testing"

	"github.com/cardvault/ptcg-companion/internal/events"
)

type badgeRecorder struct {
	payloads []events.BadgeEarnedPayload
}

func (r *badgeRecorder) OnEvent(event events.Event) error {
	if p, ok := event.Data.(events.BadgeEarnedPayload); ok {
		r.payloads = append(r.payloads, p)
	}
	return nil
}

func (r *badgeRecorder) Name() string { return "recorder" }

func (r *badgeRecorder) ShouldHandle(eventType string) bool {
	return eventType == events.TypeBadgeEarned
}

func newTrackerWithRecorder() (*Tracker, *badgeRecorder) {
	d := events.NewDispatcher()
	rec := &badgeRecorder{}
	d.Register(rec)
	return NewTracker(d), rec
}

func TestTracker_FirstEvaluationSeedsWithoutEmitting(t *testing.T) {
	tracker, rec := newTrackerWithRecorder()

	// Plenty of badges are earned here, but the first evaluation after a
	// fresh start must not replay them as notifications.
	tracker.Evaluate(CollectionStats{TotalCards: 300, TotalValue: 500})

	if len(rec.payloads) != 0 {
		t.Errorf("first evaluation emitted %d events, want 0", len(rec.payloads))
	}
}

func TestTracker_EmitsOnceOnNewlyCrossedThreshold(t *testing.T) {
	tracker, rec := newTrackerWithRecorder()

	tracker.Evaluate(CollectionStats{TotalCards: 0})
	tracker.Evaluate(CollectionStats{TotalCards: 1})

	if len(rec.payloads) != 1 {
		t.Fatalf("emitted %d events, want 1", len(rec.payloads))
	}
	if rec.payloads[0].BadgeID != "first-card" {
		t.Errorf("emitted badge = %s, want first-card", rec.payloads[0].BadgeID)
	}

	// Re-evaluating the same stats is quiet.
	tracker.Evaluate(CollectionStats{TotalCards: 1})
	if len(rec.payloads) != 1 {
		t.Errorf("re-evaluation emitted again: %d events", len(rec.payloads))
	}
}

func TestTracker_RestoreSuppressesKnownBadges(t *testing.T) {
	tracker, rec := newTrackerWithRecorder()
	tracker.Restore([]string{"first-card", "collector-50"})

	tracker.Evaluate(CollectionStats{TotalCards: 60})

	if len(rec.payloads) != 0 {
		t.Errorf("restored badges were re-announced: %v", rec.payloads)
	}

	// A genuinely new unlock after restore still fires.
	tracker.Evaluate(CollectionStats{TotalCards: 260})
	if len(rec.payloads) != 1 || rec.payloads[0].BadgeID != "collector-250" {
		t.Errorf("expected collector-250 unlock, got %v", rec.payloads)
	}
}

func TestTracker_EarnedIDsSortedForPersistence(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Evaluate(CollectionStats{TotalCards: 60, TotalValue: 150})

	ids := tracker.EarnedIDs()
	if len(ids) == 0 {
		t.Fatal("no earned ids recorded")
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Errorf("ids not sorted: %v", ids)
			break
		}
	}
}

func TestTracker_LostBadgeCanReEmit(t *testing.T) {
	tracker, rec := newTrackerWithRecorder()

	tracker.Evaluate(CollectionStats{TotalCards: 1})
	tracker.Evaluate(CollectionStats{TotalCards: 0}) // collection cleared
	tracker.Evaluate(CollectionStats{TotalCards: 1})

	// The earned set follows the evaluation, so re-crossing re-announces.
	if len(rec.payloads) != 1 {
		t.Errorf("emitted %d events, want 1 (first-card re-crossed after seed)", len(rec.payloads))
	}
}
