package handlers

import (
	"net/http"

	"github.com/cardvault/ptcg-companion/internal/api/response"
	"github.com/cardvault/ptcg-companion/internal/collection"
	"github.com/cardvault/ptcg-companion/internal/gamification"
)

// BadgeEvaluator recomputes gamification state from the live collection
// and persists newly-earned badges.
type BadgeEvaluator struct {
	collection *collection.Store
	cards      CardSource
	tracker    *gamification.Tracker
	persister  Persister
}

// NewBadgeEvaluator wires the evaluator. cards and persister may be nil.
func NewBadgeEvaluator(store *collection.Store, cards CardSource, tracker *gamification.Tracker, persister Persister) *BadgeEvaluator {
	return &BadgeEvaluator{
		collection: store,
		cards:      cards,
		tracker:    tracker,
		persister:  persister,
	}
}

// SetsCompleted counts sets the collection fully covers, based on the
// bundled set totals. Returns 0 when no set data is available.
func (e *BadgeEvaluator) SetsCompleted() int {
	if e.cards == nil {
		return 0
	}
	sets, err := e.cards.Sets()
	if err != nil {
		return 0
	}

	completed := 0
	for _, set := range sets {
		if set.Total <= 0 {
			continue
		}
		if e.collection.SetProgress(set.ID, set.Total) >= 100 {
			completed++
		}
	}
	return completed
}

// Stats builds the current collection statistics.
func (e *BadgeEvaluator) Stats() gamification.CollectionStats {
	return gamification.BuildStats(e.collection, e.SetsCompleted())
}

// Evaluate recomputes badge state, emits unlock events for newly-earned
// badges, and persists the earned set.
func (e *BadgeEvaluator) Evaluate() gamification.Evaluation {
	ev := e.tracker.Evaluate(e.Stats())
	if e.persister != nil {
		e.persister.Persist(gamification.TrackerStateName, gamification.TrackerSchemaVersion, gamification.TrackerSnapshot{
			EarnedBadgeIDs: e.tracker.EarnedIDs(),
		})
	}
	return ev
}

// GamificationHandler serves level, badge, and statistics endpoints.
type GamificationHandler struct {
	evaluator *BadgeEvaluator
}

// NewGamificationHandler creates a GamificationHandler.
func NewGamificationHandler(evaluator *BadgeEvaluator) *GamificationHandler {
	return &GamificationHandler{evaluator: evaluator}
}

// GetLevel returns the user's current collector level.
func (h *GamificationHandler) GetLevel(w http.ResponseWriter, r *http.Request) {
	response.Success(w, gamification.ComputeLevel(h.evaluator.Stats()))
}

// GetLevels returns the full level ladder.
func (h *GamificationHandler) GetLevels(w http.ResponseWriter, r *http.Request) {
	response.Success(w, gamification.DefaultLevels)
}

// GetBadges returns earned and locked badges with progress.
func (h *GamificationHandler) GetBadges(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.evaluator.Evaluate())
}

// GetStats returns the raw collection statistics that drive levels and
// badges.
func (h *GamificationHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.evaluator.Stats())
}
