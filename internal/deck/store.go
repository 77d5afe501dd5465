// Package deck owns the user's named decks and the cards within them.
package deck

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cardvault/ptcg-companion/internal/cards"
)

const (
	// StateName is the persisted blob slot for the deck store.
	StateName = "decks"

	// SchemaVersion tags the persisted snapshot.
	SchemaVersion = 1
)

// Format is a deck construction format.
type Format string

// Supported deck formats.
const (
	FormatStandard  Format = "standard"
	FormatExpanded  Format = "expanded"
	FormatUnlimited Format = "unlimited"
	FormatCustom    Format = "custom"
)

// Card is one entry in a deck's card list. Decks track quantity per cardId
// only; printing variant is a collection concern.
type Card struct {
	CardID   string     `json:"cardId"`
	Card     cards.Card `json:"card"`
	Quantity int        `json:"quantity"`
}

// Deck is a named, described bag of cards for a format.
type Deck struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Format      Format    `json:"format"`
	Cards       []Card    `json:"cards"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	IsPublic    bool      `json:"isPublic"`
}

// CreateParams carries the metadata for a new deck.
type CreateParams struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Format      Format `json:"format"`
	IsPublic    bool   `json:"isPublic"`
}

// UpdateParams carries a partial metadata update; nil fields are left
// unchanged.
type UpdateParams struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Format      *Format `json:"format,omitempty"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
}

// Snapshot is the persisted representation of the store.
type Snapshot struct {
	Decks        []*Deck `json:"decks"`
	ActiveDeckID string  `json:"activeDeckId,omitempty"`
}

// Persister durably records a store snapshot (fire-and-forget).
type Persister interface {
	Persist(name string, version int, state any)
}

// Store holds the deck state. Operations on unknown deck or card IDs are
// silent no-ops; the store enforces no copy ceilings (format legality is a
// UI concern).
type Store struct {
	mu sync.RWMutex

	decks    map[string]*Deck
	order    []string
	activeID string

	persister Persister
	now       func() time.Time
	newID     func() string
}

// NewStore creates an empty deck store.
func NewStore(persister Persister) *Store {
	return &Store{
		decks:     make(map[string]*Deck),
		persister: persister,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// SetNowFunc overrides the store clock. Intended for tests.
func (s *Store) SetNowFunc(now func() time.Time) {
	s.now = now
}

// Create makes a new empty deck, marks it active, and returns it.
func (s *Store) Create(params CreateParams) *Deck {
	s.mu.Lock()
	defer s.mu.Unlock()

	format := params.Format
	if format == "" {
		format = FormatStandard
	}

	now := s.now()
	d := &Deck{
		ID:          s.newID(),
		Name:        params.Name,
		Description: params.Description,
		Format:      format,
		Cards:       []Card{},
		CreatedAt:   now,
		UpdatedAt:   now,
		IsPublic:    params.IsPublic,
	}

	s.decks[d.ID] = d
	s.order = append(s.order, d.ID)
	s.activeID = d.ID

	s.save()
	return d
}

// Update merges metadata fields into a deck and refreshes its timestamp.
func (s *Store) Update(id string, params UpdateParams) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.decks[id]
	if !ok {
		return
	}

	if params.Name != nil {
		d.Name = *params.Name
	}
	if params.Description != nil {
		d.Description = *params.Description
	}
	if params.Format != nil {
		d.Format = *params.Format
	}
	if params.IsPublic != nil {
		d.IsPublic = *params.IsPublic
	}
	d.UpdatedAt = s.now()

	s.save()
}

// Delete removes a deck, clearing the active marker if it pointed at it.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.decks[id]; !ok {
		return
	}

	delete(s.decks, id)
	for i, deckID := range s.order {
		if deckID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.activeID == id {
		s.activeID = ""
	}

	s.save()
}

// SetActive marks a deck as the active one. An empty id clears the marker;
// an unknown id is a no-op.
func (s *Store) SetActive(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if _, ok := s.decks[id]; !ok {
			return
		}
	}
	s.activeID = id

	s.save()
}

// ActiveDeck returns the active deck, or nil when none is set.
func (s *Store) ActiveDeck() *Deck {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.activeID == "" {
		return nil
	}
	return s.copyDeck(s.decks[s.activeID])
}

// Deck returns a deck by id, or nil.
func (s *Store) Deck(id string) *Deck {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyDeck(s.decks[id])
}

// Decks returns all decks in creation order.
func (s *Store) Decks() []*Deck {
	s.mu.RLock()
	defer s.mu.RUnlock()

	decks := make([]*Deck, 0, len(s.order))
	for _, id := range s.order {
		decks = append(decks, s.copyDeck(s.decks[id]))
	}
	return decks
}

// AddCard creates or increments the per-cardId entry in a deck.
func (s *Store) AddCard(deckID string, card cards.Card, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.decks[deckID]
	if !ok {
		return
	}

	for i := range d.Cards {
		if d.Cards[i].CardID == card.ID {
			d.Cards[i].Quantity += quantity
			d.UpdatedAt = s.now()
			s.save()
			return
		}
	}

	d.Cards = append(d.Cards, Card{CardID: card.ID, Card: card, Quantity: quantity})
	d.UpdatedAt = s.now()
	s.save()
}

// RemoveCard decrements a card's quantity, deleting the entry when the
// decrement consumes it. A quantity of zero or below removes the entry
// unconditionally.
func (s *Store) RemoveCard(deckID, cardID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.decks[deckID]
	if !ok {
		return
	}

	for i := range d.Cards {
		if d.Cards[i].CardID != cardID {
			continue
		}

		if quantity > 0 && d.Cards[i].Quantity > quantity {
			d.Cards[i].Quantity -= quantity
		} else {
			d.Cards = append(d.Cards[:i], d.Cards[i+1:]...)
		}
		d.UpdatedAt = s.now()
		s.save()
		return
	}
}

// UpdateCardQuantity sets the absolute quantity of a card in a deck; zero
// or below deletes the entry.
func (s *Store) UpdateCardQuantity(deckID, cardID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.decks[deckID]
	if !ok {
		return
	}

	for i := range d.Cards {
		if d.Cards[i].CardID != cardID {
			continue
		}

		if quantity <= 0 {
			d.Cards = append(d.Cards[:i], d.Cards[i+1:]...)
		} else {
			d.Cards[i].Quantity = quantity
		}
		d.UpdatedAt = s.now()
		s.save()
		return
	}
}

// Snapshot returns the persisted representation of the store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	decks := make([]*Deck, 0, len(s.order))
	for _, id := range s.order {
		decks = append(decks, s.copyDeck(s.decks[id]))
	}
	return Snapshot{Decks: decks, ActiveDeckID: s.activeID}
}

// Restore replaces the store state with a persisted snapshot.
func (s *Store) Restore(snap Snapshot, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = version // single schema version so far

	s.decks = make(map[string]*Deck, len(snap.Decks))
	s.order = s.order[:0]
	for _, d := range snap.Decks {
		if d == nil {
			continue
		}
		s.decks[d.ID] = d
		s.order = append(s.order, d.ID)
	}

	s.activeID = ""
	if _, ok := s.decks[snap.ActiveDeckID]; ok {
		s.activeID = snap.ActiveDeckID
	}
}

// copyDeck returns a defensive copy so callers cannot bypass the mutation
// path.
func (s *Store) copyDeck(d *Deck) *Deck {
	if d == nil {
		return nil
	}
	c := *d
	c.Cards = make([]Card, len(d.Cards))
	copy(c.Cards, d.Cards)
	return &c
}

func (s *Store) save() {
	if s.persister == nil {
		return
	}
	s.persister.Persist(StateName, SchemaVersion, s.snapshotLocked())
}
