package wishlist

import (
	"testing"
	"time"

	"github.com/cardvault/ptcg-companion/internal/cards"
)

func testCard(id, setID string) cards.Card {
	return cards.Card{ID: id, Name: "Card " + id, Set: cards.SetInfo{ID: setID}}
}

func TestStore_DuplicateAddIsNoOp(t *testing.T) {
	s := NewStore(nil)
	current := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	s.SetNowFunc(func() time.Time { return current })

	card := testCard("base1-4", "base1")
	s.Add(card)
	first := s.Cards()[0].DateAdded

	current = current.Add(24 * time.Hour)
	s.Add(card)

	entries := s.Cards()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want exactly 1", len(entries))
	}
	if !entries[0].DateAdded.Equal(first) {
		t.Errorf("duplicate add changed dateAdded: %v -> %v", first, entries[0].DateAdded)
	}
}

func TestStore_RemoveAndContains(t *testing.T) {
	s := NewStore(nil)
	s.Add(testCard("base1-4", "base1"))

	if !s.Contains("base1-4") {
		t.Error("Contains = false after add")
	}

	s.Remove("base1-4")
	if s.Contains("base1-4") {
		t.Error("Contains = true after remove")
	}
	if len(s.Cards()) != 0 {
		t.Error("entry retained after remove")
	}

	// Unknown id is a no-op.
	s.Remove("missing")
}

func TestStore_BySet(t *testing.T) {
	s := NewStore(nil)
	s.Add(testCard("base1-4", "base1"))
	s.Add(testCard("fossil-1", "fossil"))
	s.Add(testCard("base1-2", "base1"))

	grouped := s.BySet()
	if len(grouped) != 2 {
		t.Fatalf("groups = %d, want 2", len(grouped))
	}
	if len(grouped["base1"]) != 2 || len(grouped["fossil"]) != 1 {
		t.Errorf("grouping wrong: base1=%d fossil=%d", len(grouped["base1"]), len(grouped["fossil"]))
	}
}

func TestStore_Recent(t *testing.T) {
	s := NewStore(nil)
	current := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	s.SetNowFunc(func() time.Time { return current })

	s.Add(testCard("old-1", "base1"))
	current = current.AddDate(0, 0, 10)
	s.Add(testCard("new-1", "base1"))
	current = current.AddDate(0, 0, 1)
	s.Add(testCard("new-2", "fossil"))

	recent := s.Recent(7)
	if len(recent) != 2 {
		t.Fatalf("recent = %d, want 2", len(recent))
	}
	if recent[0].CardID != "new-2" || recent[1].CardID != "new-1" {
		t.Errorf("recent not newest first: %s, %s", recent[0].CardID, recent[1].CardID)
	}
}

func TestStore_ClearAndRestore(t *testing.T) {
	s := NewStore(nil)
	s.Add(testCard("base1-4", "base1"))
	s.Add(testCard("fossil-1", "fossil"))
	snap := s.Snapshot()

	s.Clear()
	if len(s.Cards()) != 0 {
		t.Error("clear left entries")
	}

	restored := NewStore(nil)
	restored.Restore(snap, SchemaVersion)
	if len(restored.Cards()) != 2 || !restored.Contains("fossil-1") {
		t.Errorf("restore lost entries: %d", len(restored.Cards()))
	}
}

func TestStore_RestoreDropsDuplicates(t *testing.T) {
	e1 := &Entry{CardID: "base1-4", Card: testCard("base1-4", "base1")}
	e2 := &Entry{CardID: "base1-4", Card: testCard("base1-4", "base1")}

	s := NewStore(nil)
	s.Restore(Snapshot{Entries: []*Entry{e1, e2}}, SchemaVersion)

	if len(s.Cards()) != 1 {
		t.Errorf("restore kept duplicate cardIds: %d entries", len(s.Cards()))
	}
}
