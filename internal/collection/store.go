// Package collection owns the authoritative record of owned card variants
// and the incrementally maintained aggregate counters over them.
package collection

import (
	"sort"
	"sync"
	"time"

	"github.com/cardvault/ptcg-companion/internal/cards"
	"github.com/cardvault/ptcg-companion/internal/pricing"
)

const (
	// StateName is the persisted blob slot for the collection store.
	StateName = "collection"

	// SchemaVersion tags the persisted snapshot. Loading an older version
	// forces a full aggregate recompute.
	SchemaVersion = 2
)

// Entry is one owned stack of a specific card+variant within one set.
type Entry struct {
	CardID    string        `json:"cardId"`
	Card      cards.Card    `json:"card"`
	Variant   cards.Variant `json:"variant"`
	Quantity  int           `json:"quantity"`
	DateAdded time.Time     `json:"dateAdded"`
	SetID     string        `json:"setId"`
}

// Aggregates are the cached counters maintained alongside every mutation.
type Aggregates struct {
	TotalCards  int     `json:"totalCards"`
	TotalValue  float64 `json:"totalValue"`
	UniqueCards int     `json:"uniqueCards"`
}

// TotalStats is the aggregate view exposed to callers. SetsCompleted is
// always 0 here: completion requires external set-size metadata and is
// overlaid by the caller.
type TotalStats struct {
	TotalCards    int     `json:"totalCards"`
	TotalValue    float64 `json:"totalValue"`
	SetsCompleted int     `json:"setsCompleted"`
	UniqueCards   int     `json:"uniqueCards"`
}

// TopValueCard is one row of the top-value listing.
type TopValueCard struct {
	Card       cards.Card    `json:"card"`
	Variant    cards.Variant `json:"variant"`
	Quantity   int           `json:"quantity"`
	TotalValue float64       `json:"totalValue"`
}

// ValueSnapshot records total collection value at a point in time for the
// value history chart.
type ValueSnapshot struct {
	Timestamp  time.Time `json:"timestamp"`
	TotalValue float64   `json:"totalValue"`
	TotalCards int       `json:"totalCards"`
}

// Snapshot is the persisted representation of the store.
type Snapshot struct {
	Sets           map[string][]*Entry `json:"sets"`
	Aggregates     Aggregates          `json:"aggregates"`
	FavoriteCardID string              `json:"favoriteCardId,omitempty"`
	ValueHistory   []ValueSnapshot     `json:"valueHistory,omitempty"`
}

// Persister durably records a store snapshot. Persistence is
// fire-and-forget: implementations log failures rather than surfacing them.
type Persister interface {
	Persist(name string, version int, state any)
}

// Store holds the collection state. All mutations update the raw entry map
// and the aggregate cache in one step; there is no raw-mutation path that
// bypasses the aggregates.
type Store struct {
	mu sync.RWMutex

	sets           map[string][]*Entry
	agg            Aggregates
	favoriteCardID string
	valueHistory   []ValueSnapshot

	persister Persister
	now       func() time.Time
}

// NewStore creates an empty collection store. persister may be nil for
// stores that do not persist (tests).
func NewStore(persister Persister) *Store {
	return &Store{
		sets:      make(map[string][]*Entry),
		persister: persister,
		now:       time.Now,
	}
}

// SetNowFunc overrides the store clock. Intended for tests.
func (s *Store) SetNowFunc(now func() time.Time) {
	s.now = now
}

// findEntry returns the entry for (setID, cardID, variant), or nil.
func (s *Store) findEntry(setID, cardID string, variant cards.Variant) *Entry {
	for _, e := range s.sets[setID] {
		if e.CardID == cardID && e.Variant == variant {
			return e
		}
	}
	return nil
}

// cardPresent reports whether cardID has positive total quantity across all
// variants in the given set. Uniqueness counts presence transitions of this
// predicate.
func (s *Store) cardPresent(setID, cardID string) bool {
	for _, e := range s.sets[setID] {
		if e.CardID == cardID && e.Quantity > 0 {
			return true
		}
	}
	return false
}

// deleteEntry removes the entry for (setID, cardID, variant). The set key
// stays in the map even when its list empties so callers see a stable
// shape after clearing a set.
func (s *Store) deleteEntry(setID, cardID string, variant cards.Variant) {
	entries := s.sets[setID]
	for i, e := range entries {
		if e.CardID == cardID && e.Variant == variant {
			s.sets[setID] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// Add increments the quantity of the matching entry, creating it with the
// current timestamp if absent. Aggregates move by exactly the added amount;
// the unique count moves only when this call makes the card present in the
// set for the first time.
func (s *Store) Add(setID string, card cards.Card, variant cards.Variant, quantity int) {
	if quantity < 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wasPresent := s.cardPresent(setID, card.ID)

	// Existing entries keep their stored card snapshot and are priced
	// from it, so the cached value stays consistent with a full rescan.
	entry := s.findEntry(setID, card.ID, variant)
	var price float64
	if entry != nil {
		entry.Quantity += quantity
		price = pricing.Price(&entry.Card, variant)
	} else {
		s.sets[setID] = append(s.sets[setID], &Entry{
			CardID:    card.ID,
			Card:      card,
			Variant:   variant,
			Quantity:  quantity,
			DateAdded: s.now(),
			SetID:     setID,
		})
		price = pricing.Price(&card, variant)
	}

	s.agg.TotalCards += quantity
	s.agg.TotalValue += price * float64(quantity)
	if !wasPresent && s.cardPresent(setID, card.ID) {
		s.agg.UniqueCards++
	}

	s.save()
}

// Remove decrements the matching entry by at most its current quantity and
// deletes it at zero. Removing a nonexistent entry is a no-op.
func (s *Store) Remove(setID, cardID string, variant cards.Variant, quantity int) {
	if quantity < 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.findEntry(setID, cardID, variant)
	if entry == nil {
		return
	}

	wasPresent := s.cardPresent(setID, cardID)

	removed := quantity
	if removed > entry.Quantity {
		removed = entry.Quantity
	}
	entry.Quantity -= removed

	price := pricing.Price(&entry.Card, variant)
	s.agg.TotalCards -= removed
	s.agg.TotalValue -= price * float64(removed)

	if entry.Quantity <= 0 {
		s.deleteEntry(setID, cardID, variant)
	}
	if wasPresent && !s.cardPresent(setID, cardID) {
		s.agg.UniqueCards--
	}

	s.save()
}

// UpdateQuantity sets the absolute quantity of an entry. A quantity of zero
// or below removes the entry. Updating a nonexistent entry is a no-op.
func (s *Store) UpdateQuantity(setID, cardID string, variant cards.Variant, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.findEntry(setID, cardID, variant)
	if entry == nil {
		return
	}

	wasPresent := s.cardPresent(setID, cardID)
	price := pricing.Price(&entry.Card, variant)

	if quantity <= 0 {
		s.agg.TotalCards -= entry.Quantity
		s.agg.TotalValue -= price * float64(entry.Quantity)
		s.deleteEntry(setID, cardID, variant)
	} else {
		delta := quantity - entry.Quantity
		entry.Quantity = quantity
		s.agg.TotalCards += delta
		s.agg.TotalValue += price * float64(delta)
	}

	if nowPresent := s.cardPresent(setID, cardID); wasPresent != nowPresent {
		if nowPresent {
			s.agg.UniqueCards++
		} else {
			s.agg.UniqueCards--
		}
	}

	s.save()
}

// Quantity returns the owned quantity for (setID, cardID, variant), 0 when
// absent.
func (s *Store) Quantity(setID, cardID string, variant cards.Variant) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if entry := s.findEntry(setID, cardID, variant); entry != nil {
		return entry.Quantity
	}
	return 0
}

// CardVariants returns the owned quantity per variant for a card in a set.
func (s *Store) CardVariants(setID, cardID string) map[cards.Variant]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	variants := make(map[cards.Variant]int)
	for _, e := range s.sets[setID] {
		if e.CardID == cardID {
			variants[e.Variant] = e.Quantity
		}
	}
	return variants
}

// copyEntry returns a detached copy so readers never share memory with
// concurrent mutations, and cannot change store state behind the
// aggregate cache.
func copyEntry(e *Entry) *Entry {
	c := *e
	return &c
}

func copyEntries(entries []*Entry) []*Entry {
	out := make([]*Entry, len(entries))
	for i, e := range entries {
		out[i] = copyEntry(e)
	}
	return out
}

// SetEntries returns copies of one set's entries in insertion order.
func (s *Store) SetEntries(setID string) []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyEntries(s.sets[setID])
}

// Entries returns a copy of every entry across all sets, flattened in
// stable set order.
func (s *Store) Entries() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyEntries(s.flattened())
}

func (s *Store) flattened() []*Entry {
	setIDs := make([]string, 0, len(s.sets))
	for setID := range s.sets {
		setIDs = append(setIDs, setID)
	}
	sort.Strings(setIDs)

	var all []*Entry
	for _, setID := range setIDs {
		all = append(all, s.sets[setID]...)
	}
	return all
}

// SetProgress returns the percentage of a set owned, given the set's total
// card count from external set metadata.
func (s *Store) SetProgress(setID string, totalCardsInSet int) float64 {
	if totalCardsInSet <= 0 {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make(map[string]struct{})
	for _, e := range s.sets[setID] {
		if e.Quantity > 0 {
			owned[e.CardID] = struct{}{}
		}
	}
	return float64(len(owned)) / float64(totalCardsInSet) * 100
}

// SetValue returns the summed market value of one set's entries.
func (s *Store) SetValue(setID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, e := range s.sets[setID] {
		total += pricing.Price(&e.Card, e.Variant) * float64(e.Quantity)
	}
	return total
}

// TotalStats reads the cached aggregates. SetsCompleted is always 0; see
// TotalStats type docs.
func (s *Store) TotalStats() TotalStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return TotalStats{
		TotalCards:  s.agg.TotalCards,
		TotalValue:  s.agg.TotalValue,
		UniqueCards: s.agg.UniqueCards,
	}
}

// RecentlyAdded returns entries added within the last days, newest first.
func (s *Store) RecentlyAdded(days int) []*Entry {
	if days <= 0 {
		days = 7
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.now().AddDate(0, 0, -days)

	var recent []*Entry
	for _, e := range s.flattened() {
		if !e.DateAdded.Before(cutoff) {
			recent = append(recent, copyEntry(e))
		}
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].DateAdded.After(recent[j].DateAdded)
	})
	return recent
}

// TopValueCards returns the highest-value stacks, at most limit rows.
func (s *Store) TopValueCards(limit int) []TopValueCard {
	if limit <= 0 {
		limit = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []TopValueCard
	for _, e := range s.flattened() {
		rows = append(rows, TopValueCard{
			Card:       e.Card,
			Variant:    e.Variant,
			Quantity:   e.Quantity,
			TotalValue: pricing.Price(&e.Card, e.Variant) * float64(e.Quantity),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalValue > rows[j].TotalValue
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// SetFavoriteCard marks a favorite. Favorites are keyed by cardId alone;
// setID and variant are accepted for interface compatibility and do not
// disambiguate the same card owned in two sets.
func (s *Store) SetFavoriteCard(setID, cardID string, variant cards.Variant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.favoriteCardID = cardID
	s.save()
}

// FavoriteCard returns the first entry matching the favorite cardId, or
// nil when unset or no longer owned.
func (s *Store) FavoriteCard() *Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.favoriteCardID == "" {
		return nil
	}
	for _, e := range s.flattened() {
		if e.CardID == s.favoriteCardID {
			return copyEntry(e)
		}
	}
	return nil
}

// SnapshotValue appends the current totals to the value history.
func (s *Store) SnapshotValue() ValueSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := ValueSnapshot{
		Timestamp:  s.now(),
		TotalValue: s.agg.TotalValue,
		TotalCards: s.agg.TotalCards,
	}
	s.valueHistory = append(s.valueHistory, snap)
	s.save()
	return snap
}

// ValueHistory returns the recorded value snapshots, oldest first.
func (s *Store) ValueHistory() []ValueSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]ValueSnapshot, len(s.valueHistory))
	copy(history, s.valueHistory)
	return history
}

// ClearAll resets the collection, the aggregates, the favorite marker, and
// the value history.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sets = make(map[string][]*Entry)
	s.agg = Aggregates{}
	s.favoriteCardID = ""
	s.valueHistory = nil
	s.save()
}

// RecalculateAggregates rebuilds the three counters from a full rescan.
// This is the reconciliation path for schema migrations and drift repair.
func (s *Store) RecalculateAggregates() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recalculate()
	s.save()
}

func (s *Store) recalculate() {
	agg := Aggregates{}
	for _, entries := range s.sets {
		present := make(map[string]struct{})
		for _, e := range entries {
			agg.TotalCards += e.Quantity
			agg.TotalValue += pricing.Price(&e.Card, e.Variant) * float64(e.Quantity)
			if e.Quantity > 0 {
				present[e.CardID] = struct{}{}
			}
		}
		agg.UniqueCards += len(present)
	}
	s.agg = agg
}

// Snapshot returns the persisted representation of the store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	sets := make(map[string][]*Entry, len(s.sets))
	for setID, entries := range s.sets {
		sets[setID] = copyEntries(entries)
	}

	history := make([]ValueSnapshot, len(s.valueHistory))
	copy(history, s.valueHistory)

	return Snapshot{
		Sets:           sets,
		Aggregates:     s.agg,
		FavoriteCardID: s.favoriteCardID,
		ValueHistory:   history,
	}
}

// Restore replaces the store state with a persisted snapshot. When the
// snapshot was written by an older schema version the cached aggregates are
// not trusted and are recomputed from the raw entries.
func (s *Store) Restore(snap Snapshot, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sets = snap.Sets
	if s.sets == nil {
		s.sets = make(map[string][]*Entry)
	}
	s.agg = snap.Aggregates
	s.favoriteCardID = snap.FavoriteCardID
	s.valueHistory = snap.ValueHistory

	if version < SchemaVersion {
		s.recalculate()
		s.save()
	}
}

// save persists the current state. Callers must hold the write lock.
func (s *Store) save() {
	if s.persister == nil {
		return
	}
	s.persister.Persist(StateName, SchemaVersion, s.snapshotLocked())
}
