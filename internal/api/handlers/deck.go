package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardvault/ptcg-companion/internal/api/response"
	"github.com/cardvault/ptcg-companion/internal/deck"
	"github.com/cardvault/ptcg-companion/internal/events"
)

// DeckHandler handles deck-related API requests.
type DeckHandler struct {
	store      *deck.Store
	cards      CardSource
	dispatcher *events.Dispatcher
}

// NewDeckHandler creates a DeckHandler. dispatcher may be nil.
func NewDeckHandler(store *deck.Store, cards CardSource, dispatcher *events.Dispatcher) *DeckHandler {
	return &DeckHandler{store: store, cards: cards, dispatcher: dispatcher}
}

func (h *DeckHandler) notifyUpdate(deckID string) {
	if h.dispatcher != nil {
		h.dispatcher.Dispatch(events.Event{
			Type: events.TypeDeckUpdated,
			Data: map[string]string{"deckId": deckID},
		})
	}
}

// GetDecks returns all decks in creation order.
func (h *DeckHandler) GetDecks(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.store.Decks())
}

// GetDeck returns one deck by ID.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	d := h.store.Deck(chi.URLParam(r, "deckID"))
	if d == nil {
		response.NotFound(w, errors.New("deck not found"))
		return
	}
	response.Success(w, d)
}

// CreateDeck creates a new deck and makes it active.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var params deck.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		response.BadRequest(w, err)
		return
	}
	if params.Name == "" {
		response.BadRequest(w, errors.New("deck name is required"))
		return
	}

	d := h.store.Create(params)
	h.notifyUpdate(d.ID)
	response.Created(w, d)
}

// UpdateDeck updates deck metadata.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")
	if h.store.Deck(deckID) == nil {
		response.NotFound(w, errors.New("deck not found"))
		return
	}

	var params deck.UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		response.BadRequest(w, err)
		return
	}

	h.store.Update(deckID, params)
	h.notifyUpdate(deckID)
	response.Success(w, h.store.Deck(deckID))
}

// DeleteDeck removes a deck.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")
	if h.store.Deck(deckID) == nil {
		response.NotFound(w, errors.New("deck not found"))
		return
	}

	h.store.Delete(deckID)
	h.notifyUpdate(deckID)
	response.NoContent(w)
}

// GetActiveDeck returns the currently selected deck.
func (h *DeckHandler) GetActiveDeck(w http.ResponseWriter, r *http.Request) {
	d := h.store.ActiveDeck()
	if d == nil {
		response.NoContent(w)
		return
	}
	response.Success(w, d)
}

// SetActiveDeck selects a deck. An empty ID clears the selection.
func (h *DeckHandler) SetActiveDeck(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DeckID string `json:"deckId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, err)
		return
	}

	h.store.SetActive(body.DeckID)
	response.NoContent(w)
}

// deckCardMutation is the request body for deck card mutations.
type deckCardMutation struct {
	CardID   string `json:"cardId"`
	Quantity int    `json:"quantity"`
}

// AddDeckCard adds copies of a card to a deck.
func (h *DeckHandler) AddDeckCard(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")
	if h.store.Deck(deckID) == nil {
		response.NotFound(w, errors.New("deck not found"))
		return
	}

	var m deckCardMutation
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		response.BadRequest(w, err)
		return
	}
	if m.CardID == "" {
		response.BadRequest(w, errors.New("cardId is required"))
		return
	}

	card, err := h.cards.Card(m.CardID)
	if err != nil {
		response.NotFound(w, fmt.Errorf("unknown card %s: %w", m.CardID, err))
		return
	}

	h.store.AddCard(deckID, *card, m.Quantity)
	h.notifyUpdate(deckID)
	response.Success(w, h.store.Deck(deckID))
}

// RemoveDeckCard removes copies of a card from a deck. A quantity of zero
// or less removes the card entirely.
func (h *DeckHandler) RemoveDeckCard(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")
	cardID := chi.URLParam(r, "cardID")
	if h.store.Deck(deckID) == nil {
		response.NotFound(w, errors.New("deck not found"))
		return
	}

	h.store.RemoveCard(deckID, cardID, queryInt(r, "quantity", 0))
	h.notifyUpdate(deckID)
	response.Success(w, h.store.Deck(deckID))
}

// UpdateDeckCard sets the quantity of a card in a deck.
func (h *DeckHandler) UpdateDeckCard(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")
	cardID := chi.URLParam(r, "cardID")
	if h.store.Deck(deckID) == nil {
		response.NotFound(w, errors.New("deck not found"))
		return
	}

	var m deckCardMutation
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		response.BadRequest(w, err)
		return
	}

	h.store.UpdateCardQuantity(deckID, cardID, m.Quantity)
	h.notifyUpdate(deckID)
	response.Success(w, h.store.Deck(deckID))
}
