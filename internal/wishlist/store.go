// Package wishlist owns the deduplicated list of cards the user wants.
package wishlist

import (
	"sort"
	"sync"
	"time"

	"github.com/cardvault/ptcg-companion/internal/cards"
)

const (
	// StateName is the persisted blob slot for the wishlist store.
	StateName = "wishlist"

	// SchemaVersion tags the persisted snapshot.
	SchemaVersion = 1
)

// Entry is one wished-for card with the time it was added.
type Entry struct {
	CardID    string     `json:"cardId"`
	Card      cards.Card `json:"card"`
	DateAdded time.Time  `json:"dateAdded"`
}

// Snapshot is the persisted representation of the store.
type Snapshot struct {
	Entries []*Entry `json:"entries"`
}

// Persister durably records a store snapshot (fire-and-forget).
type Persister interface {
	Persist(name string, version int, state any)
}

// Store holds the wishlist. At most one entry exists per cardId; adding a
// duplicate is a no-op, not an update.
type Store struct {
	mu sync.RWMutex

	entries []*Entry
	index   map[string]*Entry

	persister Persister
	now       func() time.Time
}

// NewStore creates an empty wishlist store.
func NewStore(persister Persister) *Store {
	return &Store{
		index:     make(map[string]*Entry),
		persister: persister,
		now:       time.Now,
	}
}

// SetNowFunc overrides the store clock. Intended for tests.
func (s *Store) SetNowFunc(now func() time.Time) {
	s.now = now
}

// Add appends a card unless it is already wished for. Duplicate adds leave
// the original entry, including its dateAdded, untouched.
func (s *Store) Add(card cards.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[card.ID]; ok {
		return
	}

	entry := &Entry{CardID: card.ID, Card: card, DateAdded: s.now()}
	s.entries = append(s.entries, entry)
	s.index[card.ID] = entry

	s.save()
}

// Remove deletes a card from the wishlist; unknown ids are a no-op.
func (s *Store) Remove(cardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[cardID]; !ok {
		return
	}

	delete(s.index, cardID)
	for i, e := range s.entries {
		if e.CardID == cardID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}

	s.save()
}

// Contains reports whether a card is on the wishlist.
func (s *Store) Contains(cardID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.index[cardID]
	return ok
}

// Clear empties the wishlist.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.index = make(map[string]*Entry)

	s.save()
}

// Cards returns all entries in insertion order.
func (s *Store) Cards() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// BySet groups entries by each card's embedded set id.
func (s *Store) BySet() map[string][]*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grouped := make(map[string][]*Entry)
	for _, e := range s.entries {
		grouped[e.Card.Set.ID] = append(grouped[e.Card.Set.ID], e)
	}
	return grouped
}

// Recent returns entries added within the last days, newest first.
func (s *Store) Recent(days int) []*Entry {
	if days <= 0 {
		days = 7
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.now().AddDate(0, 0, -days)

	var recent []*Entry
	for _, e := range s.entries {
		if !e.DateAdded.Before(cutoff) {
			recent = append(recent, e)
		}
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].DateAdded.After(recent[j].DateAdded)
	})
	return recent
}

// Snapshot returns the persisted representation of the store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	entries := make([]*Entry, len(s.entries))
	for i, e := range s.entries {
		c := *e
		entries[i] = &c
	}
	return Snapshot{Entries: entries}
}

// Restore replaces the store state with a persisted snapshot, dropping any
// duplicate cardIds a hand-edited blob might contain.
func (s *Store) Restore(snap Snapshot, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = version // single schema version so far

	s.entries = nil
	s.index = make(map[string]*Entry, len(snap.Entries))
	for _, e := range snap.Entries {
		if e == nil {
			continue
		}
		if _, ok := s.index[e.CardID]; ok {
			continue
		}
		s.entries = append(s.entries, e)
		s.index[e.CardID] = e
	}
}

func (s *Store) save() {
	if s.persister == nil {
		return
	}
	s.persister.Persist(StateName, SchemaVersion, s.snapshotLocked())
}
