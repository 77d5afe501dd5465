package collection

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/cardvault/ptcg-companion/internal/cards"
	"github.com/cardvault/ptcg-companion/internal/pricing"
)

func testCard(id, name string, market float64) cards.Card {
	return cards.Card{
		ID:   id,
		Name: name,
		Set:  cards.SetInfo{ID: "base1", Name: "Base"},
		TCGPlayer: &cards.TCGPlayerPrices{
			Prices: map[string]cards.PriceRange{
				"normal":   {Market: market},
				"holofoil": {Market: market * 3},
			},
		},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// rescan recomputes what the aggregate cache should contain from scratch.
func rescan(s *Store) Aggregates {
	agg := Aggregates{}
	perSet := make(map[string]map[string]int)
	for _, e := range s.Entries() {
		agg.TotalCards += e.Quantity
		agg.TotalValue += pricing.Price(&e.Card, e.Variant) * float64(e.Quantity)
		if perSet[e.SetID] == nil {
			perSet[e.SetID] = make(map[string]int)
		}
		perSet[e.SetID][e.CardID] += e.Quantity
	}
	for _, totals := range perSet {
		for _, q := range totals {
			if q > 0 {
				agg.UniqueCards++
			}
		}
	}
	return agg
}

func assertAggregatesMatchRescan(t *testing.T, s *Store) {
	t.Helper()

	want := rescan(s)
	got := s.TotalStats()
	if got.TotalCards != want.TotalCards {
		t.Errorf("totalCards: cached %d, rescan %d", got.TotalCards, want.TotalCards)
	}
	if !almostEqual(got.TotalValue, want.TotalValue) {
		t.Errorf("totalValue: cached %v, rescan %v", got.TotalValue, want.TotalValue)
	}
	if got.UniqueCards != want.UniqueCards {
		t.Errorf("uniqueCards: cached %d, rescan %d", got.UniqueCards, want.UniqueCards)
	}
}

func TestStore_AddTwoVariants(t *testing.T) {
	s := NewStore(nil)
	cardX := testCard("base1-4", "Charizard", 100)

	s.Add("base1", cardX, cards.VariantRegular, 1)
	s.Add("base1", cardX, cards.VariantHolo, 2)

	if q := s.Quantity("base1", cardX.ID, cards.VariantRegular); q != 1 {
		t.Errorf("regular quantity = %d, want 1", q)
	}
	if q := s.Quantity("base1", cardX.ID, cards.VariantHolo); q != 2 {
		t.Errorf("holo quantity = %d, want 2", q)
	}

	stats := s.TotalStats()
	if stats.TotalCards != 3 {
		t.Errorf("totalCards = %d, want 3", stats.TotalCards)
	}
	// Same cardId in two variants counts once.
	if stats.UniqueCards != 1 {
		t.Errorf("uniqueCards = %d, want 1", stats.UniqueCards)
	}
	if !almostEqual(stats.TotalValue, 100+2*300) {
		t.Errorf("totalValue = %v, want 700", stats.TotalValue)
	}
}

func TestStore_RemoveOneVariantKeepsUnique(t *testing.T) {
	s := NewStore(nil)
	cardX := testCard("base1-4", "Charizard", 100)
	s.Add("base1", cardX, cards.VariantRegular, 1)
	s.Add("base1", cardX, cards.VariantHolo, 2)

	s.Remove("base1", cardX.ID, cards.VariantRegular, 1)

	if q := s.Quantity("base1", cardX.ID, cards.VariantRegular); q != 0 {
		t.Errorf("regular quantity = %d, want 0", q)
	}
	if v := s.CardVariants("base1", cardX.ID); len(v) != 1 {
		t.Errorf("expected regular entry deleted, variants = %v", v)
	}

	stats := s.TotalStats()
	if stats.TotalCards != 2 {
		t.Errorf("totalCards = %d, want 2", stats.TotalCards)
	}
	if stats.UniqueCards != 1 {
		t.Errorf("uniqueCards = %d, want 1 (holo still owned)", stats.UniqueCards)
	}
}

func TestStore_RemoveLastVariantEmptiesStats(t *testing.T) {
	s := NewStore(nil)
	cardX := testCard("base1-4", "Charizard", 100)
	s.Add("base1", cardX, cards.VariantRegular, 1)
	s.Add("base1", cardX, cards.VariantHolo, 2)
	s.Remove("base1", cardX.ID, cards.VariantRegular, 1)

	s.Remove("base1", cardX.ID, cards.VariantHolo, 2)

	stats := s.TotalStats()
	if stats.TotalCards != 0 || stats.TotalValue != 0 || stats.UniqueCards != 0 {
		t.Errorf("stats = %+v, want all zero", stats)
	}
	if entries := s.SetEntries("base1"); len(entries) != 0 {
		t.Errorf("base1 entries = %d, want 0", len(entries))
	}
}

func TestStore_RemoveClampsToOwnedQuantity(t *testing.T) {
	s := NewStore(nil)
	card := testCard("base1-1", "Alakazam", 10)
	s.Add("base1", card, cards.VariantRegular, 2)

	s.Remove("base1", card.ID, cards.VariantRegular, 99)

	stats := s.TotalStats()
	if stats.TotalCards != 0 || stats.UniqueCards != 0 || !almostEqual(stats.TotalValue, 0) {
		t.Errorf("over-removal not clamped: %+v", stats)
	}
	assertAggregatesMatchRescan(t, s)
}

func TestStore_RemoveNonexistentIsNoOp(t *testing.T) {
	s := NewStore(nil)
	card := testCard("base1-1", "Alakazam", 10)
	s.Add("base1", card, cards.VariantRegular, 2)
	before := s.TotalStats()

	s.Remove("base1", "base1-99", cards.VariantRegular, 1)
	s.Remove("base2", card.ID, cards.VariantRegular, 1)
	s.Remove("base1", card.ID, cards.VariantHolo, 1)

	if after := s.TotalStats(); after != before {
		t.Errorf("no-op removal changed stats: %+v -> %+v", before, after)
	}
}

func TestStore_UpdateQuantity(t *testing.T) {
	s := NewStore(nil)
	card := testCard("base1-2", "Blastoise", 50)
	s.Add("base1", card, cards.VariantHolo, 1)

	s.UpdateQuantity("base1", card.ID, cards.VariantHolo, 4)
	if q := s.Quantity("base1", card.ID, cards.VariantHolo); q != 4 {
		t.Errorf("quantity = %d, want 4", q)
	}
	assertAggregatesMatchRescan(t, s)

	// Zero deletes the entry outright.
	s.UpdateQuantity("base1", card.ID, cards.VariantHolo, 0)
	if q := s.Quantity("base1", card.ID, cards.VariantHolo); q != 0 {
		t.Errorf("quantity after zero update = %d, want 0", q)
	}
	if entries := s.SetEntries("base1"); len(entries) != 0 {
		t.Error("zero-quantity entry was retained")
	}
	assertAggregatesMatchRescan(t, s)

	// Updating a nonexistent entry is a no-op.
	s.UpdateQuantity("base1", card.ID, cards.VariantHolo, 3)
	if q := s.Quantity("base1", card.ID, cards.VariantHolo); q != 0 {
		t.Errorf("no-op update created entry with quantity %d", q)
	}
}

func TestStore_DateAddedStableAcrossQuantityChanges(t *testing.T) {
	s := NewStore(nil)
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.SetNowFunc(func() time.Time { return current })

	card := testCard("base1-3", "Venusaur", 40)
	s.Add("base1", card, cards.VariantRegular, 1)
	added := s.SetEntries("base1")[0].DateAdded

	current = current.Add(48 * time.Hour)
	s.Add("base1", card, cards.VariantRegular, 2)

	if got := s.SetEntries("base1")[0].DateAdded; !got.Equal(added) {
		t.Errorf("dateAdded changed on quantity increment: %v -> %v", added, got)
	}
}

func TestStore_SetProgressAndValue(t *testing.T) {
	s := NewStore(nil)
	s.Add("base1", testCard("base1-1", "Alakazam", 10), cards.VariantRegular, 1)
	s.Add("base1", testCard("base1-2", "Blastoise", 50), cards.VariantHolo, 2)
	s.Add("fossil", testCard("fossil-1", "Aerodactyl", 5), cards.VariantRegular, 1)

	if p := s.SetProgress("base1", 102); !almostEqual(p, 2.0/102*100) {
		t.Errorf("setProgress = %v", p)
	}
	if p := s.SetProgress("base1", 0); p != 0 {
		t.Errorf("setProgress with zero total = %v, want 0", p)
	}
	if v := s.SetValue("base1"); !almostEqual(v, 10+2*150) {
		t.Errorf("setValue = %v, want 310", v)
	}
}

func TestStore_RecentlyAdded(t *testing.T) {
	s := NewStore(nil)
	current := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.SetNowFunc(func() time.Time { return current })

	old := testCard("base1-1", "Alakazam", 10)
	s.Add("base1", old, cards.VariantRegular, 1)

	current = current.AddDate(0, 0, 10)
	fresh := testCard("base1-2", "Blastoise", 50)
	s.Add("base1", fresh, cards.VariantRegular, 1)

	current = current.AddDate(0, 0, 2)
	freshest := testCard("fossil-1", "Aerodactyl", 5)
	s.Add("fossil", freshest, cards.VariantRegular, 1)

	recent := s.RecentlyAdded(7)
	if len(recent) != 2 {
		t.Fatalf("recent count = %d, want 2", len(recent))
	}
	if recent[0].CardID != "fossil-1" || recent[1].CardID != "base1-2" {
		t.Errorf("recent not sorted newest first: %s, %s", recent[0].CardID, recent[1].CardID)
	}
}

func TestStore_TopValueCards(t *testing.T) {
	s := NewStore(nil)
	s.Add("base1", testCard("base1-1", "Alakazam", 10), cards.VariantRegular, 1)   // 10
	s.Add("base1", testCard("base1-2", "Blastoise", 50), cards.VariantHolo, 2)     // 300
	s.Add("base1", testCard("base1-4", "Charizard", 100), cards.VariantHolo, 1)    // 300
	s.Add("fossil", testCard("fossil-1", "Aerodactyl", 5), cards.VariantRegular, 4) // 20

	top := s.TopValueCards(2)
	if len(top) != 2 {
		t.Fatalf("top count = %d, want 2", len(top))
	}
	if top[0].TotalValue < top[1].TotalValue {
		t.Errorf("top value cards not sorted descending")
	}
	if !almostEqual(top[0].TotalValue, 300) {
		t.Errorf("top[0] value = %v, want 300", top[0].TotalValue)
	}
}

func TestStore_Favorite(t *testing.T) {
	s := NewStore(nil)
	if s.FavoriteCard() != nil {
		t.Error("favorite should be nil when unset")
	}

	card := testCard("base1-4", "Charizard", 100)
	s.Add("base1", card, cards.VariantHolo, 1)
	s.SetFavoriteCard("base1", card.ID, cards.VariantHolo)

	fav := s.FavoriteCard()
	if fav == nil || fav.CardID != card.ID {
		t.Fatalf("favorite = %+v, want cardId %s", fav, card.ID)
	}

	s.Remove("base1", card.ID, cards.VariantHolo, 1)
	if s.FavoriteCard() != nil {
		t.Error("favorite should be nil when the card is no longer owned")
	}
}

func TestStore_ClearAll(t *testing.T) {
	s := NewStore(nil)
	card := testCard("base1-4", "Charizard", 100)
	s.Add("base1", card, cards.VariantHolo, 3)
	s.SetFavoriteCard("base1", card.ID, cards.VariantHolo)
	s.SnapshotValue()

	s.ClearAll()

	if stats := s.TotalStats(); stats.TotalCards != 0 || stats.TotalValue != 0 || stats.UniqueCards != 0 {
		t.Errorf("stats after clear = %+v", stats)
	}
	if s.FavoriteCard() != nil {
		t.Error("favorite survived clear")
	}
	if len(s.ValueHistory()) != 0 {
		t.Error("value history survived clear")
	}
}

func TestStore_ZeroQuantityAddDoesNotCountUnique(t *testing.T) {
	s := NewStore(nil)
	card := testCard("base1-1", "Alakazam", 10)

	s.Add("base1", card, cards.VariantRegular, 0)

	if len(s.SetEntries("base1")) != 1 {
		t.Fatal("zero-quantity add should still create the entry")
	}
	stats := s.TotalStats()
	if stats.TotalCards != 0 || stats.UniqueCards != 0 || stats.TotalValue != 0 {
		t.Errorf("zero-quantity add moved aggregates: %+v", stats)
	}
	assertAggregatesMatchRescan(t, s)

	// A later real add transitions the card to present.
	s.Add("base1", card, cards.VariantRegular, 2)
	stats = s.TotalStats()
	if stats.TotalCards != 2 || stats.UniqueCards != 1 {
		t.Errorf("stats after real add = %+v", stats)
	}
	assertAggregatesMatchRescan(t, s)
}

// TestStore_AggregateConsistencyRandomized drives a seeded random mutation
// sequence and checks the incremental aggregates against a full rescan
// after every step.
func TestStore_AggregateConsistencyRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := NewStore(nil)

	setIDs := []string{"base1", "fossil", "jungle"}
	pool := make([]cards.Card, 12)
	for i := range pool {
		pool[i] = testCard(
			setIDs[i%len(setIDs)]+"-"+string(rune('a'+i)),
			"Card",
			float64(rng.Intn(200)),
		)
	}
	variants := []cards.Variant{cards.VariantRegular, cards.VariantHolo, cards.VariantReverseHolo}

	for step := 0; step < 500; step++ {
		setID := setIDs[rng.Intn(len(setIDs))]
		card := pool[rng.Intn(len(pool))]
		variant := variants[rng.Intn(len(variants))]

		switch rng.Intn(3) {
		case 0:
			s.Add(setID, card, variant, rng.Intn(4))
		case 1:
			s.Remove(setID, card.ID, variant, rng.Intn(5))
		case 2:
			s.UpdateQuantity(setID, card.ID, variant, rng.Intn(6)-1)
		}

		assertAggregatesMatchRescan(t, s)
		if t.Failed() {
			t.Fatalf("aggregates diverged at step %d", step)
		}
	}
}

type capturePersister struct {
	name    string
	version int
	state   any
	calls   int
}

func (p *capturePersister) Persist(name string, version int, state any) {
	p.name = name
	p.version = version
	p.state = state
	p.calls++
}

func TestStore_PersistsAfterEveryMutation(t *testing.T) {
	p := &capturePersister{}
	s := NewStore(p)
	card := testCard("base1-1", "Alakazam", 10)

	s.Add("base1", card, cards.VariantRegular, 1)
	s.UpdateQuantity("base1", card.ID, cards.VariantRegular, 3)
	s.Remove("base1", card.ID, cards.VariantRegular, 1)

	if p.calls != 3 {
		t.Errorf("persist calls = %d, want 3", p.calls)
	}
	if p.name != StateName || p.version != SchemaVersion {
		t.Errorf("persisted as (%s, %d), want (%s, %d)", p.name, p.version, StateName, SchemaVersion)
	}
}

func TestStore_RestoreOldVersionRecomputesAggregates(t *testing.T) {
	s := NewStore(nil)
	card := testCard("base1-4", "Charizard", 100)
	s.Add("base1", card, cards.VariantHolo, 2)

	snap := s.Snapshot()
	// Simulate a stale cache written by an older schema.
	snap.Aggregates = Aggregates{TotalCards: 999, TotalValue: 1, UniqueCards: 42}

	restored := NewStore(nil)
	restored.Restore(snap, SchemaVersion-1)

	assertAggregatesMatchRescan(t, restored)
	if stats := restored.TotalStats(); stats.TotalCards != 2 {
		t.Errorf("totalCards after migration = %d, want 2", stats.TotalCards)
	}
}

func TestStore_RestoreCurrentVersionTrustsCache(t *testing.T) {
	s := NewStore(nil)
	card := testCard("base1-4", "Charizard", 100)
	s.Add("base1", card, cards.VariantHolo, 2)
	snap := s.Snapshot()

	restored := NewStore(nil)
	restored.Restore(snap, SchemaVersion)

	if stats := restored.TotalStats(); stats.TotalCards != 2 || stats.UniqueCards != 1 {
		t.Errorf("restored stats = %+v", stats)
	}
	assertAggregatesMatchRescan(t, restored)
}

func TestStore_ReadersReturnDetachedCopies(t *testing.T) {
	s := NewStore(nil)
	card := testCard("base1-4", "Charizard", 100)
	s.Add("base1", card, cards.VariantHolo, 2)
	s.SetFavoriteCard("base1", "base1-4", cards.VariantHolo)

	// Writing through any returned entry must not reach store state.
	s.Entries()[0].Quantity = 999
	s.SetEntries("base1")[0].Quantity = 999
	s.RecentlyAdded(7)[0].Quantity = 999
	s.FavoriteCard().Quantity = 999

	if got := s.Quantity("base1", "base1-4", cards.VariantHolo); got != 2 {
		t.Errorf("stored quantity = %d, want 2", got)
	}
	assertAggregatesMatchRescan(t, s)
}

func TestStore_ConcurrentReadsDuringMutation(t *testing.T) {
	s := NewStore(nil)
	card := testCard("base1-4", "Charizard", 100)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			s.Add("base1", card, cards.VariantHolo, 1)
			s.Remove("base1", "base1-4", cards.VariantHolo, 1)
		}
	}()

	for i := 0; i < 200; i++ {
		for _, e := range s.Entries() {
			_ = e.Quantity
		}
		_ = s.TotalStats()
	}
	<-done

	assertAggregatesMatchRescan(t, s)
}

func TestStore_AddPricesStoredSnapshot(t *testing.T) {
	s := NewStore(nil)
	s.Add("base1", testCard("base1-4", "Charizard", 100), cards.VariantRegular, 1)

	// Later adds may carry refreshed pricing; the cached value must stay
	// consistent with a rescan of the stored snapshots.
	s.Add("base1", testCard("base1-4", "Charizard", 250), cards.VariantRegular, 1)

	assertAggregatesMatchRescan(t, s)
	if stats := s.TotalStats(); !almostEqual(stats.TotalValue, 200) {
		t.Errorf("totalValue = %.2f, want 200.00", stats.TotalValue)
	}
}
