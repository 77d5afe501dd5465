package gamification

import (
	"math/rand"
	"testing"
)

func fullTypeStats(count int) map[string]int {
	stats := make(map[string]int)
	for _, typ := range PokemonTypes {
		stats[typ] = count
	}
	return stats
}

// TestEvaluate_PartitionCompleteness checks that for arbitrary stats every
// catalog badge lands in exactly one of earned or locked, per category.
func TestEvaluate_PartitionCompleteness(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		stats := CollectionStats{
			TotalCards:     rng.Intn(6000),
			TotalValue:     float64(rng.Intn(20000)),
			SetsCompleted:  rng.Intn(30),
			UniqueCards:    rng.Intn(2000),
			TypeStats:      fullTypeStats(rng.Intn(10)),
			TotalVariants:  rng.Intn(100),
			ShinyCards:     rng.Intn(60),
			DailyAdditions: rng.Intn(20),
		}

		ev := Evaluate(stats)
		if len(ev.Earned)+len(ev.Locked) != len(Catalog) {
			t.Fatalf("partition size %d+%d != catalog %d", len(ev.Earned), len(ev.Locked), len(Catalog))
		}

		seen := make(map[string]int)
		for _, s := range ev.Earned {
			seen[s.Badge.ID]++
		}
		for _, s := range ev.Locked {
			seen[s.Badge.ID]++
		}
		for _, b := range Catalog {
			if seen[b.ID] != 1 {
				t.Fatalf("badge %s appears %d times", b.ID, seen[b.ID])
			}
		}

		standard := ev.Filter(CategoryStandard)
		special := ev.Filter(CategorySpecial)
		if len(standard.Earned)+len(standard.Locked)+len(special.Earned)+len(special.Locked) != len(Catalog) {
			t.Fatal("category filters lose badges")
		}

		for _, s := range ev.Locked {
			if s.Progress < 0 || s.Progress > 100 {
				t.Fatalf("badge %s locked progress %v out of range", s.Badge.ID, s.Progress)
			}
		}
		for _, s := range ev.Earned {
			if s.Progress != 100 {
				t.Fatalf("badge %s earned with progress %v", s.Badge.ID, s.Progress)
			}
		}
	}
}

func TestThresholdBadge_Progress(t *testing.T) {
	b := BadgeByID("collector-50")
	if b == nil {
		t.Fatal("collector-50 missing from catalog")
	}

	if !b.Requirement(CollectionStats{TotalCards: 50}) {
		t.Error("requirement false at exact threshold")
	}
	if b.Requirement(CollectionStats{TotalCards: 49}) {
		t.Error("requirement true below threshold")
	}
	if got := b.Progress(CollectionStats{TotalCards: 25}); got != 50 {
		t.Errorf("progress = %v, want 50", got)
	}
	if got := b.Progress(CollectionStats{TotalCards: 500}); got != 100 {
		t.Errorf("progress above threshold = %v, want capped 100", got)
	}
}

func TestTypeMaster(t *testing.T) {
	b := BadgeByID("type-master")
	if b == nil {
		t.Fatal("type-master missing from catalog")
	}

	complete := CollectionStats{TypeStats: fullTypeStats(typeMasterThreshold)}
	if !b.Requirement(complete) {
		t.Error("requirement false with every type at threshold")
	}

	// One type missing locks the badge.
	partial := CollectionStats{TypeStats: fullTypeStats(typeMasterThreshold)}
	partial.TypeStats["Dragon"] = 0
	if b.Requirement(partial) {
		t.Error("requirement true with a missing type")
	}

	// Progress averages per-type fractions: half of each type = 50.
	half := CollectionStats{TypeStats: fullTypeStats(typeMasterThreshold / 2)}
	want := float64(typeMasterThreshold/2) / typeMasterThreshold * 100
	if got := b.Progress(half); got != want {
		t.Errorf("progress = %v, want %v", got, want)
	}
}

func TestLivingLegend(t *testing.T) {
	b := BadgeByID("living-legend")
	if b == nil {
		t.Fatal("living-legend missing from catalog")
	}

	earned := CollectionStats{TotalCards: legendCards, TotalValue: legendValue, SetsCompleted: legendSets}
	if !b.Requirement(earned) {
		t.Error("requirement false with all conditions met")
	}

	// Any single unmet condition locks it.
	for _, stats := range []CollectionStats{
		{TotalCards: legendCards - 1, TotalValue: legendValue, SetsCompleted: legendSets},
		{TotalCards: legendCards, TotalValue: legendValue - 1, SetsCompleted: legendSets},
		{TotalCards: legendCards, TotalValue: legendValue, SetsCompleted: legendSets - 1},
	} {
		if b.Requirement(stats) {
			t.Errorf("requirement true with unmet condition: %+v", stats)
		}
	}

	// Compound progress averages the three sub-progresses.
	third := CollectionStats{TotalCards: legendCards} // one of three complete
	got := b.Progress(third)
	want := 100.0 / 3
	if got < want-0.001 || got > want+0.001 {
		t.Errorf("progress = %v, want ~%v", got, want)
	}
}

func TestCatalog_RaritiesOnlyOnSpecial(t *testing.T) {
	for _, b := range Catalog {
		switch b.Category {
		case CategoryStandard:
			if b.Rarity != "" {
				t.Errorf("standard badge %s has rarity %s", b.ID, b.Rarity)
			}
		case CategorySpecial:
			if b.Rarity == "" {
				t.Errorf("special badge %s has no rarity", b.ID)
			}
		}
	}
}
