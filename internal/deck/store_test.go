package deck

import (
	"testing"
	"time"

	"github.com/cardvault/ptcg-companion/internal/cards"
)

func testCard(id, name string) cards.Card {
	return cards.Card{ID: id, Name: name, Set: cards.SetInfo{ID: "base1"}}
}

func TestStore_CreateMarksActive(t *testing.T) {
	s := NewStore(nil)

	d := s.Create(CreateParams{Name: "Fire Deck", Format: FormatStandard})
	if d.ID == "" {
		t.Fatal("created deck has no id")
	}
	if len(d.Cards) != 0 {
		t.Errorf("new deck has %d cards, want 0", len(d.Cards))
	}
	if d.CreatedAt.IsZero() || !d.CreatedAt.Equal(d.UpdatedAt) {
		t.Errorf("timestamps: created %v updated %v", d.CreatedAt, d.UpdatedAt)
	}

	active := s.ActiveDeck()
	if active == nil || active.ID != d.ID {
		t.Errorf("new deck should be active, got %+v", active)
	}
}

func TestStore_CreateDefaultsFormat(t *testing.T) {
	s := NewStore(nil)
	d := s.Create(CreateParams{Name: "No Format"})
	if d.Format != FormatStandard {
		t.Errorf("format = %s, want %s", d.Format, FormatStandard)
	}
}

func TestStore_UpdateMergesAndRefreshesTimestamp(t *testing.T) {
	s := NewStore(nil)
	current := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	s.SetNowFunc(func() time.Time { return current })

	d := s.Create(CreateParams{Name: "Old", Description: "desc", Format: FormatStandard})

	current = current.Add(time.Hour)
	name := "New"
	public := true
	s.Update(d.ID, UpdateParams{Name: &name, IsPublic: &public})

	got := s.Deck(d.ID)
	if got.Name != "New" || got.Description != "desc" || !got.IsPublic {
		t.Errorf("merge result: %+v", got)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Error("updatedAt not refreshed")
	}

	// Unknown deck is a no-op.
	s.Update("missing", UpdateParams{Name: &name})
}

func TestStore_DeleteClearsActiveMarker(t *testing.T) {
	s := NewStore(nil)
	a := s.Create(CreateParams{Name: "A"})
	b := s.Create(CreateParams{Name: "B"})

	// B is active now; deleting A keeps it.
	s.Delete(a.ID)
	if active := s.ActiveDeck(); active == nil || active.ID != b.ID {
		t.Errorf("active after deleting other deck: %+v", active)
	}

	s.Delete(b.ID)
	if active := s.ActiveDeck(); active != nil {
		t.Errorf("active after deleting active deck: %+v", active)
	}
	if len(s.Decks()) != 0 {
		t.Errorf("decks remaining: %d", len(s.Decks()))
	}
}

func TestStore_SetActive(t *testing.T) {
	s := NewStore(nil)
	a := s.Create(CreateParams{Name: "A"})
	s.Create(CreateParams{Name: "B"})

	s.SetActive(a.ID)
	if active := s.ActiveDeck(); active == nil || active.ID != a.ID {
		t.Errorf("active = %+v, want %s", active, a.ID)
	}

	// Unknown id is a no-op.
	s.SetActive("missing")
	if active := s.ActiveDeck(); active == nil || active.ID != a.ID {
		t.Error("unknown SetActive changed the marker")
	}

	s.SetActive("")
	if s.ActiveDeck() != nil {
		t.Error("empty SetActive should clear the marker")
	}
}

func TestStore_AddCardAccumulatesPerCardID(t *testing.T) {
	s := NewStore(nil)
	d := s.Create(CreateParams{Name: "A"})
	pikachu := testCard("base1-58", "Pikachu")

	s.AddCard(d.ID, pikachu, 2)
	s.AddCard(d.ID, pikachu, 1)

	got := s.Deck(d.ID)
	if len(got.Cards) != 1 {
		t.Fatalf("card entries = %d, want 1 (cumulative per cardId)", len(got.Cards))
	}
	if got.Cards[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", got.Cards[0].Quantity)
	}

	// Unknown deck is a no-op.
	s.AddCard("missing", pikachu, 1)
}

func TestStore_RemoveCard(t *testing.T) {
	s := NewStore(nil)
	d := s.Create(CreateParams{Name: "A"})
	pikachu := testCard("base1-58", "Pikachu")
	s.AddCard(d.ID, pikachu, 4)

	// Partial decrement.
	s.RemoveCard(d.ID, pikachu.ID, 1)
	if got := s.Deck(d.ID); got.Cards[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", got.Cards[0].Quantity)
	}

	// Decrement >= remaining deletes the entry.
	s.RemoveCard(d.ID, pikachu.ID, 3)
	if got := s.Deck(d.ID); len(got.Cards) != 0 {
		t.Errorf("entry not deleted: %+v", got.Cards)
	}

	// No quantity removes unconditionally.
	s.AddCard(d.ID, pikachu, 4)
	s.RemoveCard(d.ID, pikachu.ID, 0)
	if got := s.Deck(d.ID); len(got.Cards) != 0 {
		t.Errorf("unconditional removal left entry: %+v", got.Cards)
	}

	// Unknown card is a no-op.
	s.RemoveCard(d.ID, "missing", 1)
}

func TestStore_UpdateCardQuantityFloor(t *testing.T) {
	s := NewStore(nil)
	d := s.Create(CreateParams{Name: "A"})
	pikachu := testCard("base1-58", "Pikachu")
	s.AddCard(d.ID, pikachu, 2)

	s.UpdateCardQuantity(d.ID, pikachu.ID, 4)
	if got := s.Deck(d.ID); got.Cards[0].Quantity != 4 {
		t.Errorf("quantity = %d, want 4", got.Cards[0].Quantity)
	}

	s.UpdateCardQuantity(d.ID, pikachu.ID, 0)
	if got := s.Deck(d.ID); len(got.Cards) != 0 {
		t.Errorf("zero quantity should delete entry: %+v", got.Cards)
	}

	// Unknown ids are no-ops.
	s.UpdateCardQuantity(d.ID, "missing", 2)
	s.UpdateCardQuantity("missing", pikachu.ID, 2)
}

func TestStore_SnapshotRestore(t *testing.T) {
	s := NewStore(nil)
	a := s.Create(CreateParams{Name: "A", Format: FormatExpanded})
	s.AddCard(a.ID, testCard("base1-58", "Pikachu"), 2)
	b := s.Create(CreateParams{Name: "B"})
	s.SetActive(a.ID)

	snap := s.Snapshot()

	restored := NewStore(nil)
	restored.Restore(snap, SchemaVersion)

	decks := restored.Decks()
	if len(decks) != 2 {
		t.Fatalf("restored deck count = %d, want 2", len(decks))
	}
	if decks[0].ID != a.ID || decks[1].ID != b.ID {
		t.Error("creation order lost across restore")
	}
	if active := restored.ActiveDeck(); active == nil || active.ID != a.ID {
		t.Errorf("active deck lost across restore: %+v", active)
	}
	if got := restored.Deck(a.ID); len(got.Cards) != 1 || got.Cards[0].Quantity != 2 {
		t.Errorf("card list lost across restore: %+v", got.Cards)
	}
}

func TestStore_RestoreDropsDanglingActiveID(t *testing.T) {
	restored := NewStore(nil)
	restored.Restore(Snapshot{ActiveDeckID: "gone"}, SchemaVersion)
	if restored.ActiveDeck() != nil {
		t.Error("dangling active id should be dropped")
	}
}
