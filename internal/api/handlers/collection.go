package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardvault/ptcg-companion/internal/api/response"
	"github.com/cardvault/ptcg-companion/internal/cards"
	"github.com/cardvault/ptcg-companion/internal/collection"
	"github.com/cardvault/ptcg-companion/internal/events"
)

// CollectionHandler handles collection-related API requests.
type CollectionHandler struct {
	store      *collection.Store
	cards      CardSource
	dispatcher *events.Dispatcher
	evaluator  *BadgeEvaluator
}

// NewCollectionHandler creates a CollectionHandler. dispatcher and
// evaluator may be nil.
func NewCollectionHandler(store *collection.Store, cards CardSource, dispatcher *events.Dispatcher, evaluator *BadgeEvaluator) *CollectionHandler {
	return &CollectionHandler{
		store:      store,
		cards:      cards,
		dispatcher: dispatcher,
		evaluator:  evaluator,
	}
}

// afterMutation fires the collection update event and re-evaluates badges.
func (h *CollectionHandler) afterMutation() {
	if h.dispatcher != nil {
		h.dispatcher.Dispatch(events.Event{
			Type: events.TypeCollectionUpdated,
			Data: h.store.TotalStats(),
		})
	}
	if h.evaluator != nil {
		h.evaluator.Evaluate()
	}
}

// cardMutation is the request body for collection card mutations.
type cardMutation struct {
	CardID   string        `json:"cardId"`
	SetID    string        `json:"setId"`
	Variant  cards.Variant `json:"variant"`
	Quantity int           `json:"quantity"`
}

// resolve fills in defaults and looks up the card data.
func (h *CollectionHandler) resolve(m *cardMutation) (*cards.Card, error) {
	if m.CardID == "" {
		return nil, errors.New("cardId is required")
	}
	if m.Variant == "" {
		m.Variant = cards.VariantRegular
	}

	card, err := h.cards.Card(m.CardID)
	if err != nil {
		return nil, fmt.Errorf("unknown card %s: %w", m.CardID, err)
	}
	if m.SetID == "" {
		m.SetID = card.Set.ID
	}
	return card, nil
}

// GetCollection returns all collection entries, optionally filtered by set.
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	if setID := r.URL.Query().Get("set"); setID != "" {
		response.Success(w, h.store.SetEntries(setID))
		return
	}
	response.Success(w, h.store.Entries())
}

// GetStats returns the cached collection aggregates.
func (h *CollectionHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.store.TotalStats())
}

// setSummary describes the collection's coverage of one set.
type setSummary struct {
	SetID      string  `json:"setId"`
	SetName    string  `json:"setName"`
	Owned      int     `json:"owned"`
	Total      int     `json:"total"`
	Completion float64 `json:"completion"`
	Value      float64 `json:"value"`
}

// GetSetSummaries returns per-set completion and value.
func (h *CollectionHandler) GetSetSummaries(w http.ResponseWriter, r *http.Request) {
	sets, err := h.cards.Sets()
	if err != nil {
		response.InternalError(w, err)
		return
	}

	var summaries []setSummary
	for _, set := range sets {
		entries := h.store.SetEntries(set.ID)
		if len(entries) == 0 {
			continue
		}
		owned := make(map[string]bool)
		for _, e := range entries {
			if e.Quantity > 0 {
				owned[e.CardID] = true
			}
		}
		summaries = append(summaries, setSummary{
			SetID:      set.ID,
			SetName:    set.Name,
			Owned:      len(owned),
			Total:      set.Total,
			Completion: h.store.SetProgress(set.ID, set.Total),
			Value:      h.store.SetValue(set.ID),
		})
	}

	response.Success(w, summaries)
}

// AddCard adds copies of a card variant to the collection.
func (h *CollectionHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	var m cardMutation
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		response.BadRequest(w, err)
		return
	}
	if m.Quantity < 0 {
		response.BadRequest(w, errors.New("quantity must not be negative"))
		return
	}

	card, err := h.resolve(&m)
	if err != nil {
		response.NotFound(w, err)
		return
	}

	h.store.Add(m.SetID, *card, m.Variant, m.Quantity)
	h.afterMutation()

	response.Success(w, h.store.TotalStats())
}

// RemoveCard removes copies of a card variant from the collection.
func (h *CollectionHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	var m cardMutation
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		response.BadRequest(w, err)
		return
	}
	if m.CardID == "" || m.SetID == "" {
		response.BadRequest(w, errors.New("cardId and setId are required"))
		return
	}
	if m.Variant == "" {
		m.Variant = cards.VariantRegular
	}

	h.store.Remove(m.SetID, m.CardID, m.Variant, m.Quantity)
	h.afterMutation()

	response.Success(w, h.store.TotalStats())
}

// UpdateQuantity sets the owned quantity of a card variant directly.
func (h *CollectionHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var m cardMutation
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		response.BadRequest(w, err)
		return
	}

	card, err := h.resolve(&m)
	if err != nil {
		response.NotFound(w, err)
		return
	}

	h.store.UpdateQuantity(m.SetID, m.CardID, m.Variant, m.Quantity)
	// Updating an entry that does not exist yet is a no-op; create it.
	if m.Quantity > 0 && h.store.Quantity(m.SetID, m.CardID, m.Variant) != m.Quantity {
		h.store.Add(m.SetID, *card, m.Variant, m.Quantity)
	}
	h.afterMutation()

	response.Success(w, h.store.TotalStats())
}

// GetRecent returns recently added entries. Defaults to the last 7 days.
func (h *CollectionHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)
	response.Success(w, h.store.RecentlyAdded(days))
}

// GetTopValue returns the highest-value entries. Defaults to 5.
func (h *CollectionHandler) GetTopValue(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 5)
	response.Success(w, h.store.TopValueCards(limit))
}

// GetFavorite returns the favorite card entry, if one is set and owned.
func (h *CollectionHandler) GetFavorite(w http.ResponseWriter, r *http.Request) {
	fav := h.store.FavoriteCard()
	if fav == nil {
		response.NoContent(w)
		return
	}
	response.Success(w, fav)
}

// SetFavorite marks a card as the collection favorite.
func (h *CollectionHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	var m cardMutation
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		response.BadRequest(w, err)
		return
	}
	if m.CardID == "" {
		response.BadRequest(w, errors.New("cardId is required"))
		return
	}

	h.store.SetFavoriteCard(m.SetID, m.CardID, m.Variant)
	response.NoContent(w)
}

// GetValueHistory returns recorded value snapshots.
func (h *CollectionHandler) GetValueHistory(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.store.ValueHistory())
}

// SnapshotValue records the current total value in the history.
func (h *CollectionHandler) SnapshotValue(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.store.SnapshotValue())
}

// ClearCollection removes every entry and resets aggregates.
func (h *CollectionHandler) ClearCollection(w http.ResponseWriter, r *http.Request) {
	h.store.ClearAll()
	h.afterMutation()
	response.NoContent(w)
}

// GetSetProgress returns completion for a single set.
func (h *CollectionHandler) GetSetProgress(w http.ResponseWriter, r *http.Request) {
	setID := chi.URLParam(r, "setID")
	if setID == "" {
		response.BadRequest(w, errors.New("set ID is required"))
		return
	}

	set, err := h.cards.Set(setID)
	if err != nil {
		response.NotFound(w, err)
		return
	}

	response.Success(w, map[string]any{
		"setId":      setID,
		"completion": h.store.SetProgress(setID, set.Total),
		"value":      h.store.SetValue(setID),
	})
}
