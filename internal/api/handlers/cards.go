// Package handlers implements the REST API request handlers.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cardvault/ptcg-companion/internal/api/response"
	"github.com/cardvault/ptcg-companion/internal/cards"
	"github.com/cardvault/ptcg-companion/internal/cards/tcgapi"
)

// CardSource resolves card and set data from the bundled data files.
type CardSource interface {
	Card(cardID string) (*cards.Card, error)
	Set(setID string) (*cards.SetInfo, error)
	Sets() ([]cards.SetInfo, error)
	SetCards(setID string) ([]cards.Card, error)
	SearchCards(query string) ([]cards.Card, error)
}

// Persister saves a named state blob in the background.
type Persister interface {
	Persist(name string, version int, state any)
}

// CardsHandler serves card and set lookups, preferring local data and
// falling back to the remote card API when configured.
type CardsHandler struct {
	local  CardSource
	remote *tcgapi.Client
}

// NewCardsHandler creates a CardsHandler. remote may be nil to disable
// API fallback.
func NewCardsHandler(local CardSource, remote *tcgapi.Client) *CardsHandler {
	return &CardsHandler{local: local, remote: remote}
}

// GetCard returns a single card by ID.
func (h *CardsHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")
	if cardID == "" {
		response.BadRequest(w, errors.New("card ID is required"))
		return
	}

	card, err := h.local.Card(cardID)
	if err != nil && h.remote != nil {
		card, err = h.remote.GetCard(r.Context(), cardID)
	}
	if err != nil {
		response.NotFound(w, err)
		return
	}

	response.Success(w, card)
}

// SearchCards searches cards by name.
func (h *CardsHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, errors.New("query parameter q is required"))
		return
	}

	matches, err := h.local.SearchCards(query)
	if err == nil && len(matches) > 0 {
		response.Success(w, matches)
		return
	}

	if h.remote != nil {
		page := queryInt(r, "page", 1)
		pageSize := queryInt(r, "pageSize", 50)
		result, apiErr := h.remote.SearchCards(r.Context(), `name:"`+query+`*"`, page, pageSize)
		if apiErr != nil {
			response.InternalError(w, apiErr)
			return
		}
		response.Paginated(w, result.Cards, result.Page, result.PageSize, result.TotalCount)
		return
	}

	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, []cards.Card{})
}

// GetSets returns all known sets.
func (h *CardsHandler) GetSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.local.Sets()
	if err != nil && h.remote != nil {
		sets, err = h.remote.GetSets(r.Context())
	}
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.Success(w, sets)
}

// GetSet returns one set definition.
func (h *CardsHandler) GetSet(w http.ResponseWriter, r *http.Request) {
	setID := chi.URLParam(r, "setID")
	if setID == "" {
		response.BadRequest(w, errors.New("set ID is required"))
		return
	}

	set, err := h.local.Set(setID)
	if err != nil && h.remote != nil {
		set, err = h.remote.GetSet(r.Context(), setID)
	}
	if err != nil {
		response.NotFound(w, err)
		return
	}

	response.Success(w, set)
}

// GetSetCards returns every card in a set.
func (h *CardsHandler) GetSetCards(w http.ResponseWriter, r *http.Request) {
	setID := chi.URLParam(r, "setID")
	if setID == "" {
		response.BadRequest(w, errors.New("set ID is required"))
		return
	}

	list, err := h.local.SetCards(setID)
	if err != nil && h.remote != nil {
		list, err = h.remote.GetSetCards(r.Context(), setID)
	}
	if err != nil {
		response.NotFound(w, err)
		return
	}

	response.Success(w, list)
}

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
