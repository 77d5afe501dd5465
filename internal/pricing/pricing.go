// Package pricing resolves a market price for a card printing variant from
// the card's embedded TCGplayer price data.
package pricing

import "github.com/cardvault/ptcg-companion/internal/cards"

// variantPriceKeys maps each companion variant to the TCGplayer price keys
// to try, in order. Premium variants that TCGplayer does not price as their
// own printing fall back to holofoil, then normal.
var variantPriceKeys = map[cards.Variant][]string{
	cards.VariantRegular:     {"normal", "1stEditionNormal", "unlimited"},
	cards.VariantHolo:        {"holofoil", "1stEditionHolofoil", "unlimitedHolofoil"},
	cards.VariantReverseHolo: {"reverseHolofoil", "holofoil"},
	cards.VariantFullArt:     {"holofoil", "normal"},
	cards.VariantAltArt:      {"holofoil", "normal"},
	cards.VariantRainbow:     {"holofoil", "normal"},
	cards.VariantGold:        {"holofoil", "normal"},
	cards.VariantSecret:      {"holofoil", "normal"},
}

// defaultPriceKeys is the fallback chain for variants outside the known
// table, so that Price stays total over arbitrary variant strings.
var defaultPriceKeys = []string{"normal", "holofoil", "reverseHolofoil"}

// PriceKeys returns the ordered TCGplayer price keys consulted for a
// variant. The result is never empty.
func PriceKeys(variant cards.Variant) []string {
	if keys, ok := variantPriceKeys[variant]; ok {
		return keys
	}
	return defaultPriceKeys
}

// Price returns the market price for one copy of the card in the given
// variant. Missing pricing data, an unknown variant, or an unpriced
// printing all resolve to 0; Price never fails.
func Price(card *cards.Card, variant cards.Variant) float64 {
	if card == nil || card.TCGPlayer == nil || len(card.TCGPlayer.Prices) == 0 {
		return 0
	}

	for _, key := range PriceKeys(variant) {
		r, ok := card.TCGPlayer.Prices[key]
		if !ok {
			continue
		}
		if p := pick(r); p > 0 {
			return p
		}
	}

	return 0
}

// pick selects a single price point from a range: market when published,
// otherwise mid, otherwise low.
func pick(r cards.PriceRange) float64 {
	switch {
	case r.Market > 0:
		return r.Market
	case r.Mid > 0:
		return r.Mid
	case r.Low > 0:
		return r.Low
	default:
		return 0
	}
}
