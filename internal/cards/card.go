// Package cards defines the Pokémon TCG card and set value types shared by
// the stores, the pricing resolver, and the API clients.
package cards

// Variant identifies a printing variant of a card within the collection.
type Variant string

// Printing variants tracked by the collection store.
const (
	VariantRegular     Variant = "regular"
	VariantHolo        Variant = "holo"
	VariantReverseHolo Variant = "reverse-holo"
	VariantFullArt     Variant = "full-art"
	VariantAltArt      Variant = "alt-art"
	VariantRainbow     Variant = "rainbow"
	VariantGold        Variant = "gold"
	VariantSecret      Variant = "secret"
)

// Variants lists every printing variant the companion tracks.
var Variants = []Variant{
	VariantRegular,
	VariantHolo,
	VariantReverseHolo,
	VariantFullArt,
	VariantAltArt,
	VariantRainbow,
	VariantGold,
	VariantSecret,
}

// Card represents a Pokémon TCG card as returned by the card catalog
// provider. Stores keep cards by value: catalog data is immutable after
// fetch, so entries hold a snapshot rather than a live reference.
type Card struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Supertype string   `json:"supertype"`
	Subtypes  []string `json:"subtypes,omitempty"`
	Types     []string `json:"types,omitempty"`
	HP        string   `json:"hp,omitempty"`
	Number    string   `json:"number"`
	Rarity    string   `json:"rarity,omitempty"`
	Artist    string   `json:"artist,omitempty"`

	Images CardImages `json:"images"`
	Set    SetInfo    `json:"set"`

	// TCGPlayer carries per-variant market pricing. May be nil when the
	// provider has no price data for this printing.
	TCGPlayer *TCGPlayerPrices `json:"tcgplayer,omitempty"`
}

// CardImages holds the card face image URLs.
type CardImages struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

// SetInfo is the set metadata embedded in a card record.
type SetInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Series       string    `json:"series,omitempty"`
	PrintedTotal int       `json:"printedTotal"`
	Total        int       `json:"total"`
	ReleaseDate  string    `json:"releaseDate,omitempty"`
	Images       SetImages `json:"images"`
}

// SetImages holds the set symbol and logo URLs.
type SetImages struct {
	Symbol string `json:"symbol,omitempty"`
	Logo   string `json:"logo,omitempty"`
}

// TCGPlayerPrices is the TCGplayer pricing block on a card. Prices is keyed
// by TCGplayer's printing names ("normal", "holofoil", "reverseHolofoil",
// "1stEditionHolofoil", "1stEditionNormal").
type TCGPlayerPrices struct {
	URL       string                `json:"url,omitempty"`
	UpdatedAt string                `json:"updatedAt,omitempty"`
	Prices    map[string]PriceRange `json:"prices,omitempty"`
}

// PriceRange holds the price points TCGplayer publishes for one printing.
type PriceRange struct {
	Low       float64 `json:"low,omitempty"`
	Mid       float64 `json:"mid,omitempty"`
	High      float64 `json:"high,omitempty"`
	Market    float64 `json:"market,omitempty"`
	DirectLow float64 `json:"directLow,omitempty"`
}
