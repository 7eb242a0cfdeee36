package usecase

import (
	"math"
	"slices"

	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/entity"
)

const (
	unitUSD     = "USD"
	unitDoses   = "million doses"
	unitPercent = "percent"
)

// emptyKPIs is what an empty selection reports: zero values, doses omitted.
func emptyKPIs() []KPI {
	return []KPI{
		{Label: "Total Market Size", Unit: unitUSD, Description: "Sum of market size in USD for the selected filters."},
		{Label: "Average Price", Unit: unitUSD, Description: "Average price per dose for the selected filters."},
		{Label: "CAGR", Unit: unitPercent, Description: "Compound annual growth rate for the selected filters."},
	}
}

func computeKPIs(records []entity.Record) []KPI {
	if len(records) == 0 {
		return emptyKPIs()
	}

	var market, doses, price meanSum
	for _, r := range records {
		market.add(r.MarketSizeUSD)
		price.add(r.AvgPriceUSD)
		doses.add(r.DosesSoldMillion)
	}

	return []KPI{
		{
			Label:       "Total Market Size",
			Value:       round2(market.sum),
			Unit:        unitUSD,
			Description: "Sum of market size in USD for the selected filters.",
		},
		{
			Label:       "Average Price",
			Value:       round2(price.mean().Or(0)),
			Unit:        unitUSD,
			Description: "Average vaccine price per dose across the selection.",
		},
		{
			Label:       "Total Doses Sold",
			Value:       round2(doses.sum),
			Unit:        unitDoses,
			Description: "Total doses sold (in millions) in the selected scope.",
		},
		{
			Label:       "CAGR",
			Value:       cagr(records),
			Unit:        unitPercent,
			Description: "Compound annual growth rate derived from total market size.",
		},
	}
}

// cagr is the compound annual growth rate in percent of the yearly market
// size totals between the first and last year, rounded to 2 decimals.
func cagr(records []entity.Record) float64 {
	totals := make(map[int]float64)
	for _, r := range records {
		totals[r.Year] += r.MarketSizeUSD.Or(0)
	}
	if len(totals) < 2 {
		return 0
	}

	years := make([]int, 0, len(totals))
	for y := range totals {
		years = append(years, y)
	}
	slices.Sort(years)

	firstYear, lastYear := years[0], years[len(years)-1]
	first, last := totals[firstYear], totals[lastYear]
	periods := lastYear - firstYear
	if periods <= 0 || first <= 0 {
		return 0
	}

	return round2((math.Pow(last/first, 1/float64(periods)) - 1) * 100)
}

// meanSum accumulates valid measures; missing ones are skipped.
type meanSum struct {
	sum float64
	n   int
}

func (m *meanSum) add(v entity.Measure) {
	if v.Valid {
		m.sum += v.Value
		m.n++
	}
}

func (m meanSum) mean() entity.Measure {
	if m.n == 0 {
		return entity.Measure{}
	}
	return entity.Some(m.sum / float64(m.n))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
