package charts

import (
	"fmt"

	"github.com/cardvault/ptcg-companion/internal/collection"
	"github.com/cardvault/ptcg-companion/internal/gamification"
)

// RenderValueHistory renders the collection's value history as a line chart.
func RenderValueHistory(history []collection.ValueSnapshot, outputPath string) error {
	if len(history) == 0 {
		return fmt.Errorf("no value history to chart")
	}

	data := make([]DataPoint, len(history))
	for i, snap := range history {
		data[i] = DataPoint{
			Label: snap.Timestamp.Format("2006-01-02"),
			Value: snap.TotalValue,
		}
	}

	config := DefaultChartConfig()
	config.Title = "Collection Value Over Time"
	config.SeriesName = "Total Value"

	return RenderLineChart(data, config, outputPath)
}

// SetCompletion pairs a set name with its completion percentage.
type SetCompletion struct {
	SetName    string
	Percentage float64
}

// RenderSetCompletion renders per-set completion percentages as a bar chart.
func RenderSetCompletion(completions []SetCompletion, outputPath string) error {
	if len(completions) == 0 {
		return fmt.Errorf("no set completion data to chart")
	}

	data := make([]DataPoint, len(completions))
	for i, c := range completions {
		data[i] = DataPoint{Label: c.SetName, Value: c.Percentage}
	}

	config := DefaultChartConfig()
	config.Title = "Set Completion"
	config.SeriesName = "Completion %"

	return RenderBarChart(data, config, outputPath)
}

// RenderTypeDistribution renders the card count per Pokémon type as a pie chart.
func RenderTypeDistribution(stats gamification.CollectionStats, outputPath string) error {
	var data []DataPoint
	for _, typeName := range gamification.PokemonTypes {
		count := stats.TypeStats[typeName]
		if count == 0 {
			continue
		}
		data = append(data, DataPoint{Label: typeName, Value: float64(count)})
	}
	if len(data) == 0 {
		return fmt.Errorf("no type data to chart")
	}

	config := DefaultChartConfig()
	config.Title = "Collection by Type"
	config.SeriesName = "Cards"

	return RenderPieChart(data, config, outputPath)
}
