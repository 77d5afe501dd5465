package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cardvault/ptcg-companion/internal/cards"
	"github.com/cardvault/ptcg-companion/internal/collection"
	"github.com/cardvault/ptcg-companion/internal/deck"
	"github.com/cardvault/ptcg-companion/internal/pricing"
	"github.com/cardvault/ptcg-companion/internal/wishlist"
)

// CollectionRow is a flattened collection entry for export.
type CollectionRow struct {
	CardID    string  `json:"cardId"`
	Name      string  `json:"name"`
	SetID     string  `json:"setId"`
	SetName   string  `json:"setName"`
	Number    string  `json:"number"`
	Rarity    string  `json:"rarity"`
	Variant   string  `json:"variant"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Value     float64 `json:"value"`
	DateAdded string  `json:"dateAdded"`
}

var collectionHeader = []string{
	"Card ID", "Name", "Set ID", "Set Name", "Number", "Rarity",
	"Variant", "Quantity", "Unit Price", "Value", "Date Added",
}

// BuildCollectionRows flattens the collection into export rows with
// per-entry pricing.
func BuildCollectionRows(store *collection.Store) []CollectionRow {
	entries := store.Entries()
	rows := make([]CollectionRow, 0, len(entries))
	for _, entry := range entries {
		unit := pricing.Price(&entry.Card, entry.Variant)
		rows = append(rows, CollectionRow{
			CardID:    entry.CardID,
			Name:      entry.Card.Name,
			SetID:     entry.SetID,
			SetName:   entry.Card.Set.Name,
			Number:    entry.Card.Number,
			Rarity:    entry.Card.Rarity,
			Variant:   string(entry.Variant),
			Quantity:  entry.Quantity,
			UnitPrice: unit,
			Value:     unit * float64(entry.Quantity),
			DateAdded: entry.DateAdded.Format(time.RFC3339),
		})
	}
	return rows
}

// ExportCollection writes the full collection to opts.FilePath.
func ExportCollection(store *collection.Store, opts Options) error {
	rows := BuildCollectionRows(store)
	if len(rows) == 0 {
		return fmt.Errorf("no collection entries to export")
	}

	csvRows := make([][]string, len(rows))
	for i, r := range rows {
		csvRows[i] = []string{
			r.CardID, r.Name, r.SetID, r.SetName, r.Number, r.Rarity,
			r.Variant, strconv.Itoa(r.Quantity),
			strconv.FormatFloat(r.UnitPrice, 'f', 2, 64),
			strconv.FormatFloat(r.Value, 'f', 2, 64),
			r.DateAdded,
		}
	}

	return exportToFile(opts, collectionHeader, csvRows, rows)
}

// DeckRow is a flattened deck card line for export.
type DeckRow struct {
	DeckName string `json:"deckName"`
	Format   string `json:"format"`
	CardID   string `json:"cardId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

var deckHeader = []string{"Deck", "Format", "Card ID", "Name", "Quantity"}

// ExportDecks writes every deck's card list to opts.FilePath.
func ExportDecks(store *deck.Store, opts Options) error {
	var rows []DeckRow
	for _, d := range store.Decks() {
		for _, c := range d.Cards {
			rows = append(rows, DeckRow{
				DeckName: d.Name,
				Format:   string(d.Format),
				CardID:   c.CardID,
				Name:     c.Card.Name,
				Quantity: c.Quantity,
			})
		}
	}
	if len(rows) == 0 {
		return fmt.Errorf("no deck cards to export")
	}

	csvRows := make([][]string, len(rows))
	for i, r := range rows {
		csvRows[i] = []string{r.DeckName, r.Format, r.CardID, r.Name, strconv.Itoa(r.Quantity)}
	}

	return exportToFile(opts, deckHeader, csvRows, rows)
}

// WishlistRow is a flattened wishlist entry for export.
type WishlistRow struct {
	CardID      string  `json:"cardId"`
	Name        string  `json:"name"`
	SetName     string  `json:"setName"`
	Rarity      string  `json:"rarity"`
	MarketPrice float64 `json:"marketPrice"`
	DateAdded   string  `json:"dateAdded"`
}

var wishlistHeader = []string{"Card ID", "Name", "Set Name", "Rarity", "Market Price", "Date Added"}

// ExportWishlist writes the wishlist to opts.FilePath.
func ExportWishlist(store *wishlist.Store, opts Options) error {
	entries := store.Cards()
	if len(entries) == 0 {
		return fmt.Errorf("no wishlist entries to export")
	}

	rows := make([]WishlistRow, len(entries))
	csvRows := make([][]string, len(entries))
	for i, entry := range entries {
		price := pricing.Price(&entry.Card, cards.VariantRegular)
		rows[i] = WishlistRow{
			CardID:      entry.CardID,
			Name:        entry.Card.Name,
			SetName:     entry.Card.Set.Name,
			Rarity:      entry.Card.Rarity,
			MarketPrice: price,
			DateAdded:   entry.DateAdded.Format(time.RFC3339),
		}
		csvRows[i] = []string{
			rows[i].CardID, rows[i].Name, rows[i].SetName, rows[i].Rarity,
			strconv.FormatFloat(price, 'f', 2, 64),
			rows[i].DateAdded,
		}
	}

	return exportToFile(opts, wishlistHeader, csvRows, rows)
}
