package gamification

import (
	"sort"
	"sync"

	"github.com/cardvault/ptcg-companion/internal/events"
)

const (
	// TrackerStateName is the persisted blob slot for the earned-badge set.
	TrackerStateName = "badges"

	// TrackerSchemaVersion tags the persisted earned-badge snapshot.
	TrackerSchemaVersion = 1
)

// TrackerSnapshot is the persisted representation of the tracker.
type TrackerSnapshot struct {
	EarnedBadgeIDs []string `json:"earnedBadgeIds"`
}

// Tracker remembers which badges were already earned so that newly-crossed
// thresholds fire exactly one badge:earned event. The first evaluation
// after construction or restore seeds the earned set without emitting, so
// a reload does not replay every unlock.
type Tracker struct {
	mu sync.Mutex

	earned map[string]bool
	seeded bool

	dispatcher *events.Dispatcher
}

// NewTracker creates a tracker that emits on the given dispatcher. A nil
// dispatcher disables emission but keeps the diffing behavior.
func NewTracker(dispatcher *events.Dispatcher) *Tracker {
	return &Tracker{
		earned:     make(map[string]bool),
		dispatcher: dispatcher,
	}
}

// Restore seeds the previously-earned set from persisted ids. The next
// evaluation diffs against it as usual.
func (t *Tracker) Restore(earnedIDs []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.earned = make(map[string]bool, len(earnedIDs))
	for _, id := range earnedIDs {
		t.earned[id] = true
	}
	t.seeded = true
}

// EarnedIDs returns the remembered earned badge ids, sorted for stable
// persistence.
func (t *Tracker) EarnedIDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]string, 0, len(t.earned))
	for id := range t.earned {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Evaluate recomputes badge membership, emits badge:earned for badges that
// crossed from locked to earned since the previous evaluation, and updates
// the remembered set.
func (t *Tracker) Evaluate(stats CollectionStats) Evaluation {
	ev := Evaluate(stats)

	t.mu.Lock()

	var newly []*Badge
	if t.seeded {
		for _, s := range ev.Earned {
			if !t.earned[s.Badge.ID] {
				newly = append(newly, s.Badge)
			}
		}
	}

	next := make(map[string]bool, len(ev.Earned))
	for _, s := range ev.Earned {
		next[s.Badge.ID] = true
	}
	t.earned = next
	t.seeded = true

	t.mu.Unlock()

	if t.dispatcher != nil {
		for _, b := range newly {
			t.dispatcher.Dispatch(events.Event{
				Type: events.TypeBadgeEarned,
				Data: events.BadgeEarnedPayload{
					BadgeID: b.ID,
					Name:    b.Name,
					Rarity:  string(b.Rarity),
				},
			})
		}
	}

	return ev
}
