package gamification

import "fmt"

// LevelDef is one row of the ordered level table. CardThreshold is the
// card count at which the level begins.
type LevelDef struct {
	Level         int      `json:"level"`
	Name          string   `json:"name"`
	CardThreshold int      `json:"cardThreshold"`
	Requirements  []string `json:"requirements,omitempty"`
	Benefits      []string `json:"benefits,omitempty"`
}

// UserLevel is the computed level with progress toward the next one.
type UserLevel struct {
	Level         int      `json:"level"`
	Name          string   `json:"name"`
	CardThreshold int      `json:"cardThreshold"`
	NextThreshold int      `json:"nextThreshold,omitempty"`
	HasNext       bool     `json:"hasNext"`
	Progress      float64  `json:"progress"`
	Requirements  []string `json:"requirements,omitempty"`
	Benefits      []string `json:"benefits,omitempty"`
}

// DefaultLevels is the companion's level ladder. The numeric level is
// driven by card count alone; value and set-completion requirements are
// display text, not gates.
var DefaultLevels = []LevelDef{
	{Level: 1, Name: "Novice Trainer", CardThreshold: 0,
		Benefits: []string{"Collection tracking"}},
	{Level: 2, Name: "Junior Trainer", CardThreshold: 50,
		Benefits: []string{"Wishlist sharing"}},
	{Level: 3, Name: "Collector", CardThreshold: 150,
		Requirements: []string{"Collection value $100+"},
		Benefits:     []string{"Custom deck covers"}},
	{Level: 4, Name: "Senior Collector", CardThreshold: 300,
		Requirements: []string{"Collection value $250+"},
		Benefits:     []string{"Profile showcase"}},
	{Level: 5, Name: "Card Expert", CardThreshold: 500,
		Requirements: []string{"Collection value $500+", "1 set completed"},
		Benefits:     []string{"Exclusive avatars"}},
	{Level: 6, Name: "Set Hunter", CardThreshold: 750,
		Requirements: []string{"3 sets completed"},
		Benefits:     []string{"Animated badges"}},
	{Level: 7, Name: "Elite Collector", CardThreshold: 1000,
		Requirements: []string{"Collection value $1,500+", "5 sets completed"},
		Benefits:     []string{"Elite profile frame"}},
	{Level: 8, Name: "Master Collector", CardThreshold: 1500,
		Requirements: []string{"Collection value $3,000+", "8 sets completed"},
		Benefits:     []string{"Master profile frame"}},
	{Level: 9, Name: "Living Legend", CardThreshold: 2500,
		Requirements: []string{"Collection value $6,000+", "12 sets completed"},
		Benefits:     []string{"Legend profile frame"}},
	{Level: 10, Name: "Pokémon Master", CardThreshold: 5000,
		Requirements: []string{"Collection value $10,000+", "20 sets completed"},
		Benefits:     []string{"Golden profile frame"}},
}

// ComputeLevel derives the user level from the default ladder.
func ComputeLevel(stats CollectionStats) UserLevel {
	return ComputeLevelWith(DefaultLevels, stats)
}

// ComputeLevelWith walks an ascending level table and selects the highest
// level whose card threshold is at or below the total card count. Progress
// toward the next level is clamped to [0,100] and is 100 at the top level.
func ComputeLevelWith(table []LevelDef, stats CollectionStats) UserLevel {
	if len(table) == 0 {
		return UserLevel{Level: 1, Name: "Novice Trainer", Progress: 100}
	}

	idx := 0
	for i, def := range table {
		if stats.TotalCards >= def.CardThreshold {
			idx = i
		}
	}
	current := table[idx]

	level := UserLevel{
		Level:         current.Level,
		Name:          current.Name,
		CardThreshold: current.CardThreshold,
		Requirements:  requirementsText(current),
		Benefits:      current.Benefits,
	}

	if idx+1 < len(table) {
		next := table[idx+1]
		level.HasNext = true
		level.NextThreshold = next.CardThreshold

		span := next.CardThreshold - current.CardThreshold
		if span <= 0 {
			level.Progress = 100
		} else {
			level.Progress = float64(stats.TotalCards-current.CardThreshold) / float64(span) * 100
		}
		if level.Progress < 0 {
			level.Progress = 0
		}
		if level.Progress > 100 {
			level.Progress = 100
		}
	} else {
		level.Progress = 100
	}

	return level
}

// requirementsText composes the display requirements for a level: the card
// threshold plus the table's additional value/set requirements.
func requirementsText(def LevelDef) []string {
	reqs := []string{fmt.Sprintf("Collect %d cards", def.CardThreshold)}
	return append(reqs, def.Requirements...)
}
