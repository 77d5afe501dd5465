package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardvault/ptcg-companion/internal/api/response"
	"github.com/cardvault/ptcg-companion/internal/wishlist"
)

// WishlistHandler handles wishlist-related API requests.
type WishlistHandler struct {
	store *wishlist.Store
	cards CardSource
}

// NewWishlistHandler creates a WishlistHandler.
func NewWishlistHandler(store *wishlist.Store, cards CardSource) *WishlistHandler {
	return &WishlistHandler{store: store, cards: cards}
}

// GetWishlist returns all wishlist entries in insertion order.
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.store.Cards())
}

// GetWishlistBySet returns wishlist entries grouped by set.
func (h *WishlistHandler) GetWishlistBySet(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.store.BySet())
}

// GetRecent returns recently wished cards. Defaults to the last 7 days.
func (h *WishlistHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.store.Recent(queryInt(r, "days", 7)))
}

// AddCard adds a card to the wishlist. Adding an already-wished card is a
// no-op.
func (h *WishlistHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CardID string `json:"cardId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, err)
		return
	}
	if body.CardID == "" {
		response.BadRequest(w, errors.New("cardId is required"))
		return
	}

	card, err := h.cards.Card(body.CardID)
	if err != nil {
		response.NotFound(w, fmt.Errorf("unknown card %s: %w", body.CardID, err))
		return
	}

	h.store.Add(*card)
	response.Success(w, h.store.Cards())
}

// RemoveCard removes a card from the wishlist.
func (h *WishlistHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")
	if cardID == "" {
		response.BadRequest(w, errors.New("card ID is required"))
		return
	}

	h.store.Remove(cardID)
	response.NoContent(w)
}

// ClearWishlist removes every wishlist entry.
func (h *WishlistHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	response.NoContent(w)
}
