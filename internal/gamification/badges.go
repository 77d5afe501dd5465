package gamification

// Category splits the badge catalog into the standard ladder and special
// achievements.
type Category string

// Badge categories.
const (
	CategoryStandard Category = "standard"
	CategorySpecial  Category = "special"
)

// Rarity grades special badges.
type Rarity string

// Special badge rarities.
const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Badge is one catalog entry. Requirement decides earned/locked; Progress
// reports completion in [0,100] for locked badges.
type Badge struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Color       string   `json:"color"`
	Rarity      Rarity   `json:"rarity,omitempty"`

	Requirement func(CollectionStats) bool    `json:"-"`
	Progress    func(CollectionStats) float64 `json:"-"`
}

// BadgeState is a badge evaluated against a stats snapshot.
type BadgeState struct {
	Badge    *Badge  `json:"badge"`
	Earned   bool    `json:"earned"`
	Progress float64 `json:"progress"`
}

// Evaluation partitions the catalog into earned and locked badges.
type Evaluation struct {
	Earned []BadgeState `json:"earned"`
	Locked []BadgeState `json:"locked"`
}

// thresholdBadge builds a simple numeric-threshold badge: earned when the
// metric reaches the threshold, progress min(metric/threshold*100, 100).
func thresholdBadge(id, name, description string, category Category, color string, rarity Rarity, metric func(CollectionStats) float64, threshold float64) *Badge {
	return &Badge{
		ID:          id,
		Name:        name,
		Description: description,
		Category:    category,
		Color:       color,
		Rarity:      rarity,
		Requirement: func(stats CollectionStats) bool {
			return metric(stats) >= threshold
		},
		Progress: func(stats CollectionStats) float64 {
			return clampProgress(metric(stats) / threshold * 100)
		},
	}
}

func clampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func totalCards(s CollectionStats) float64 { return float64(s.TotalCards) }
func totalValue(s CollectionStats) float64 { return s.TotalValue }
func setsDone(s CollectionStats) float64   { return float64(s.SetsCompleted) }
func uniques(s CollectionStats) float64    { return float64(s.UniqueCards) }

// typeMasterThreshold is the per-type card count the Type Master badge
// requires for every energy type.
const typeMasterThreshold = 5

// typeMasterEarned requires typeMasterThreshold cards of every energy type.
func typeMasterEarned(stats CollectionStats) bool {
	for _, typ := range PokemonTypes {
		if stats.TypeStats[typ] < typeMasterThreshold {
			return false
		}
	}
	return true
}

// typeMasterProgress averages the per-type completion fractions.
func typeMasterProgress(stats CollectionStats) float64 {
	var sum float64
	for _, typ := range PokemonTypes {
		frac := float64(stats.TypeStats[typ]) / typeMasterThreshold
		if frac > 1 {
			frac = 1
		}
		sum += frac
	}
	return clampProgress(sum / float64(len(PokemonTypes)) * 100)
}

// Living Legend is the compound legendary badge; every condition must hold.
const (
	legendCards = 2500
	legendValue = 5000.0
	legendSets  = 10
)

func livingLegendEarned(stats CollectionStats) bool {
	return stats.TotalCards >= legendCards &&
		stats.TotalValue >= legendValue &&
		stats.SetsCompleted >= legendSets
}

// livingLegendProgress averages the three sub-progresses.
func livingLegendProgress(stats CollectionStats) float64 {
	sum := clampProgress(float64(stats.TotalCards)/legendCards*100) +
		clampProgress(stats.TotalValue/legendValue*100) +
		clampProgress(float64(stats.SetsCompleted)/legendSets*100)
	return clampProgress(sum / 3)
}

// Catalog is the static badge catalog. Earned state is never stored; it is
// recomputed from stats on every evaluation.
var Catalog = []*Badge{
	// Standard ladder.
	thresholdBadge("first-card", "First Catch", "Add your first card", CategoryStandard, "#4caf50", "", totalCards, 1),
	thresholdBadge("collector-50", "Growing Stack", "Collect 50 cards", CategoryStandard, "#4caf50", "", totalCards, 50),
	thresholdBadge("collector-250", "Serious Collector", "Collect 250 cards", CategoryStandard, "#2196f3", "", totalCards, 250),
	thresholdBadge("collector-1000", "Card Vault", "Collect 1,000 cards", CategoryStandard, "#9c27b0", "", totalCards, 1000),
	thresholdBadge("unique-100", "Curator", "Own 100 unique cards", CategoryStandard, "#2196f3", "", uniques, 100),
	thresholdBadge("value-100", "Pocket Money", "Reach $100 collection value", CategoryStandard, "#ff9800", "", totalValue, 100),
	thresholdBadge("value-1000", "High Roller", "Reach $1,000 collection value", CategoryStandard, "#ff9800", "", totalValue, 1000),
	thresholdBadge("sets-1", "Set Finisher", "Complete your first set", CategoryStandard, "#f44336", "", setsDone, 1),
	thresholdBadge("sets-5", "Set Historian", "Complete 5 sets", CategoryStandard, "#f44336", "", setsDone, 5),

	// Special achievements.
	thresholdBadge("daily-10", "Daily Grinder", "Add 10 cards in one day", CategorySpecial, "#00bcd4", RarityCommon,
		func(s CollectionStats) float64 { return float64(s.DailyAdditions) }, 10),
	thresholdBadge("shiny-hunter", "Shiny Hunter", "Own 20 holo or special-art cards", CategorySpecial, "#ffd700", RarityRare,
		func(s CollectionStats) float64 { return float64(s.ShinyCards) }, 20),
	thresholdBadge("variant-collector", "Variant Connoisseur", "Own 50 distinct printing variants", CategorySpecial, "#8bc34a", RarityRare,
		func(s CollectionStats) float64 { return float64(s.TotalVariants) }, 50),
	{
		ID:          "type-master",
		Name:        "Type Master",
		Description: "Own 5 cards of every energy type",
		Category:    CategorySpecial,
		Color:       "#673ab7",
		Rarity:      RarityEpic,
		Requirement: typeMasterEarned,
		Progress:    typeMasterProgress,
	},
	{
		ID:          "living-legend",
		Name:        "Living Legend",
		Description: "2,500 cards, $5,000 value, 10 sets completed",
		Category:    CategorySpecial,
		Color:       "#e91e63",
		Rarity:      RarityLegendary,
		Requirement: livingLegendEarned,
		Progress:    livingLegendProgress,
	},
}

// Evaluate partitions the catalog against a stats snapshot. Every badge
// lands in exactly one of earned or locked; earned badges report progress
// 100, locked badges their continuous progress.
func Evaluate(stats CollectionStats) Evaluation {
	return EvaluateCatalog(Catalog, stats)
}

// EvaluateCatalog evaluates an explicit catalog, which tests use to pin
// down individual badges.
func EvaluateCatalog(catalog []*Badge, stats CollectionStats) Evaluation {
	var ev Evaluation
	for _, b := range catalog {
		if b.Requirement(stats) {
			ev.Earned = append(ev.Earned, BadgeState{Badge: b, Earned: true, Progress: 100})
		} else {
			ev.Locked = append(ev.Locked, BadgeState{Badge: b, Earned: false, Progress: b.Progress(stats)})
		}
	}
	return ev
}

// Filter returns only the badges of one category from an evaluation.
func (ev Evaluation) Filter(category Category) Evaluation {
	var out Evaluation
	for _, s := range ev.Earned {
		if s.Badge.Category == category {
			out.Earned = append(out.Earned, s)
		}
	}
	for _, s := range ev.Locked {
		if s.Badge.Category == category {
			out.Locked = append(out.Locked, s)
		}
	}
	return out
}

// BadgeByID looks up a catalog badge, or nil.
func BadgeByID(id string) *Badge {
	for _, b := range Catalog {
		if b.ID == id {
			return b
		}
	}
	return nil
}
