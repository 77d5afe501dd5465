package pricing

import (
	"testing"

	"github.com/cardvault/ptcg-companion/internal/cards"
)

func cardWithPrices(prices map[string]cards.PriceRange) *cards.Card {
	return &cards.Card{
		ID:   "base1-4",
		Name: "Charizard",
		TCGPlayer: &cards.TCGPlayerPrices{
			Prices: prices,
		},
	}
}

func TestPrice_MarketPreferred(t *testing.T) {
	card := cardWithPrices(map[string]cards.PriceRange{
		"holofoil": {Low: 100, Mid: 250, Market: 320.5},
	})

	got := Price(card, cards.VariantHolo)
	if got != 320.5 {
		t.Errorf("expected market price 320.5, got %v", got)
	}
}

func TestPrice_FallsBackToMidThenLow(t *testing.T) {
	card := cardWithPrices(map[string]cards.PriceRange{
		"normal": {Low: 1.5, Mid: 3},
	})

	if got := Price(card, cards.VariantRegular); got != 3 {
		t.Errorf("expected mid price 3, got %v", got)
	}

	card = cardWithPrices(map[string]cards.PriceRange{
		"normal": {Low: 1.5},
	})

	if got := Price(card, cards.VariantRegular); got != 1.5 {
		t.Errorf("expected low price 1.5, got %v", got)
	}
}

func TestPrice_VariantFallbackChain(t *testing.T) {
	// Reverse holo printing has no reverseHolofoil price; holofoil covers it.
	card := cardWithPrices(map[string]cards.PriceRange{
		"holofoil": {Market: 12},
	})

	if got := Price(card, cards.VariantReverseHolo); got != 12 {
		t.Errorf("expected fallback price 12, got %v", got)
	}

	// Premium variants resolve through holofoil too.
	for _, v := range []cards.Variant{cards.VariantFullArt, cards.VariantAltArt, cards.VariantRainbow, cards.VariantGold, cards.VariantSecret} {
		if got := Price(card, v); got != 12 {
			t.Errorf("variant %s: expected 12, got %v", v, got)
		}
	}
}

func TestPrice_AbsentDataIsZeroNotError(t *testing.T) {
	if got := Price(nil, cards.VariantRegular); got != 0 {
		t.Errorf("nil card: expected 0, got %v", got)
	}

	if got := Price(&cards.Card{}, cards.VariantRegular); got != 0 {
		t.Errorf("no pricing block: expected 0, got %v", got)
	}

	card := cardWithPrices(map[string]cards.PriceRange{})
	if got := Price(card, cards.VariantHolo); got != 0 {
		t.Errorf("empty prices: expected 0, got %v", got)
	}
}

func TestPrice_UnknownVariantIsTotal(t *testing.T) {
	card := cardWithPrices(map[string]cards.PriceRange{
		"normal": {Market: 2},
	})

	if got := Price(card, cards.Variant("promo-stamp")); got != 2 {
		t.Errorf("unknown variant should use default chain, got %v", got)
	}
}

func TestPriceKeys_NeverEmpty(t *testing.T) {
	for _, v := range cards.Variants {
		if len(PriceKeys(v)) == 0 {
			t.Errorf("variant %s has no price keys", v)
		}
	}
	if len(PriceKeys(cards.Variant("whatever"))) == 0 {
		t.Error("unknown variant has no price keys")
	}
}
