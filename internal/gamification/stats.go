// Package gamification derives user levels and achievement badges from
// collection statistics. Levels and badge membership are recomputed on
// every read; the only state kept is the previously-seen earned badge set
// used to fire one-shot unlock notifications.
package gamification

import (
	"github.com/cardvault/ptcg-companion/internal/cards"
	"github.com/cardvault/ptcg-companion/internal/collection"
)

// PokemonTypes lists the energy types counted by TypeStats.
var PokemonTypes = []string{
	"Grass", "Fire", "Water", "Lightning", "Psychic", "Fighting",
	"Darkness", "Metal", "Fairy", "Dragon", "Colorless",
}

// CollectionStats is the snapshot every level and badge computation
// consumes. SetsCompleted and TypeStats require external set metadata and
// are overlaid by the caller; the rest comes from the collection store.
type CollectionStats struct {
	TotalCards    int            `json:"totalCards"`
	TotalValue    float64        `json:"totalValue"`
	SetsCompleted int            `json:"setsCompleted"`
	UniqueCards   int            `json:"uniqueCards"`
	TypeStats     map[string]int `json:"typeStats,omitempty"`
	TotalVariants int            `json:"totalVariants"`
	ShinyCards    int            `json:"shinyCards"`
	DailyAdditions int           `json:"dailyAdditions"`
}

// shinyVariants are the premium printings counted as "shiny".
var shinyVariants = map[cards.Variant]bool{
	cards.VariantHolo:        true,
	cards.VariantReverseHolo: true,
	cards.VariantFullArt:     true,
	cards.VariantAltArt:      true,
	cards.VariantRainbow:     true,
	cards.VariantGold:        true,
	cards.VariantSecret:      true,
}

// BuildStats assembles a stats snapshot from the collection store plus the
// caller-computed set completion count. Type counts are derived from the
// owned cards' embedded types; non-regular variants count as shiny.
func BuildStats(store *collection.Store, setsCompleted int) CollectionStats {
	totals := store.TotalStats()

	stats := CollectionStats{
		TotalCards:    totals.TotalCards,
		TotalValue:    totals.TotalValue,
		SetsCompleted: setsCompleted,
		UniqueCards:   totals.UniqueCards,
		TypeStats:     make(map[string]int),
	}

	for _, e := range store.Entries() {
		stats.TotalVariants++
		if shinyVariants[e.Variant] {
			stats.ShinyCards += e.Quantity
		}
		for _, typ := range e.Card.Types {
			stats.TypeStats[typ] += e.Quantity
		}
	}

	stats.DailyAdditions = len(store.RecentlyAdded(1))

	return stats
}
