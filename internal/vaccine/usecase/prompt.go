package usecase

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/entity"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	noDataContext     = "No data available for the selected filters."
	msgAIUnavailable  = "AI features are not available. Please configure GROQ_API_KEY."
	msgChatFailed     = "I encountered an error processing your query: "
	topBrandsInPrompt = 5
)

const chatSystemPrompt = `You are an expert data analyst specializing in vaccine market analytics.
Your role is to answer questions about vaccine market data in a clear, concise manner.
When answering:
1. Use specific numbers from the context when available
2. Suggest relevant visualizations (bar_chart, line_chart, pie_chart, table)
3. Provide actionable insights
4. If data is not available, clearly state that

Available visualization types: bar_chart, line_chart, pie_chart, table, none`

var moneyPrinter = message.NewPrinter(language.English)

// money renders whole dollars with thousands separators: $1,234,568.
func money(v float64) string {
	return "$" + moneyPrinter.Sprintf("%d", int64(math.Round(v)))
}

type total struct {
	name  string
	value float64
}

// totalsBy sums market size per key, largest first, ties by name.
func totalsBy(records []entity.Record, key func(entity.Record) string) []total {
	sums := make(map[string]float64)
	for _, r := range records {
		sums[key(r)] += r.MarketSizeUSD.Or(0)
	}

	out := make([]total, 0, len(sums))
	for name, v := range sums {
		out = append(out, total{name: name, value: v})
	}
	slices.SortFunc(out, func(a, b total) int {
		return cmp.Or(cmp.Compare(b.value, a.value), cmp.Compare(a.name, b.name))
	})

	return out
}

// firstSeen returns distinct values in order of first appearance.
func firstSeen(records []entity.Record, key func(entity.Record) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// buildContext summarizes a filtered view as plain text for the model. The
// output is deterministic for a given view.
func buildContext(records []entity.Record) string {
	if len(records) == 0 {
		return noDataContext
	}

	var market, doses, price meanSum
	years := make(map[int]struct{})
	for _, r := range records {
		market.add(r.MarketSizeUSD)
		doses.add(r.DosesSoldMillion)
		price.add(r.AvgPriceUSD)
		years[r.Year] = struct{}{}
	}

	yearList := make([]int, 0, len(years))
	for y := range years {
		yearList = append(yearList, y)
	}
	slices.Sort(yearList)
	yearText := make([]string, 0, len(yearList))
	for _, y := range yearList {
		yearText = append(yearText, strconv.Itoa(y))
	}

	region := func(r entity.Record) string { return r.Region }
	brand := func(r entity.Record) string { return r.Brand }

	lines := []string{
		fmt.Sprintf("Total records: %d", len(records)),
		"Regions: " + strings.Join(firstSeen(records, region), ", "),
		"Brands: " + strings.Join(firstSeen(records, brand), ", "),
		"Years: " + strings.Join(yearText, ", "),
		"Total Market Size: " + money(market.sum),
		fmt.Sprintf("Average Price: $%.2f", price.mean().Or(0)),
		fmt.Sprintf("Total Doses Sold: %.2f million", doses.sum),
		"Top 5 Brands by Market Size:",
	}

	brands := totalsBy(records, brand)
	for _, b := range brands[:min(topBrandsInPrompt, len(brands))] {
		lines = append(lines, fmt.Sprintf("  - %s: %s", b.name, money(b.value)))
	}

	lines = append(lines, "Market Size by Region:")
	for _, r := range totalsBy(records, region) {
		lines = append(lines, fmt.Sprintf("  - %s: %s", r.name, money(r.value)))
	}

	return strings.Join(lines, "\n")
}

func chatUserPrompt(context, query string) string {
	return fmt.Sprintf(`Context Data:
%s

User Question: %s

Please provide:
1. A clear answer to the question
2. A suggested visualization type (one of: bar_chart, line_chart, pie_chart, table, none)
3. Brief reasoning for the visualization choice`, context, query)
}

func recommendationPrompt(context string) string {
	return fmt.Sprintf(`Based on this vaccine market data:
%s

Generate 3-4 specific, actionable recommendations for exploring this data.
Each recommendation should:
1. Be specific and data-driven
2. Suggest a particular filter or analysis
3. Explain why it's interesting

Format as JSON array with: title, description, action (with type and field)`, context)
}

func insightPrompt(context string, yearsAhead int, preds []Prediction) string {
	raw, err := json.MarshalIndent(preds, "", "  ")
	if err != nil {
		raw = []byte("[]")
	}

	return fmt.Sprintf(`Based on this vaccine market data:
%s

And these predictions for %d years ahead:
%s

Provide a brief (2-3 sentence) insight about the predicted market trends.`, context, yearsAhead, raw)
}

// suggestVisualization picks a chart from keywords in the reply. It is a
// hint only; anything without a chart keyword is shown as a table.
func suggestVisualization(reply string) Visualization {
	lower := strings.ToLower(reply)
	switch {
	case strings.Contains(lower, "bar"):
		return VisualizationBarChart
	case strings.Contains(lower, "line"):
		return VisualizationLineChart
	case strings.Contains(lower, "pie"):
		return VisualizationPieChart
	default:
		return VisualizationTable
	}
}

// unavailableRecommendations is returned when no model is configured.
func unavailableRecommendations() []Recommendation {
	return []Recommendation{{
		Title:       "Explore by Region",
		Description: "Filter data by different regions to compare market performance.",
		Action:      Action{Type: "filter", Field: "region"},
	}}
}

// fallbackRecommendations is returned when the model fails or its reply
// cannot be used.
func fallbackRecommendations() []Recommendation {
	return []Recommendation{
		{
			Title:       "Compare Top Brands",
			Description: "Analyze market share differences between leading vaccine brands.",
			Action:      Action{Type: "filter", Field: "brand"},
		},
		{
			Title:       "Regional Performance",
			Description: "Explore how different regions compare in market size and growth.",
			Action:      Action{Type: "filter", Field: "region"},
		},
		{
			Title:       "Year-over-Year Trends",
			Description: "Examine how the market has evolved over time.",
			Action:      Action{Type: "time_series", Field: "year"},
		},
	}
}
