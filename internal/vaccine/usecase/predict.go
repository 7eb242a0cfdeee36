package usecase

import (
	"slices"

	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/entity"
)

// Fixed confidences. They are labels for the method, not derived from data.
const (
	forecastConfidence = 0.75
	chatConfidence     = 0.85
)

// Band around the predicted market size.
const (
	bandLower = 0.85
	bandUpper = 1.15
)

type yearTotals struct {
	year   int
	market float64
	doses  float64
	price  entity.Measure
	growth entity.Measure
}

// aggregateByYear sums market and doses and averages price and growth per
// year, ascending by year.
func aggregateByYear(records []entity.Record) []yearTotals {
	type acc struct {
		market, doses meanSum
		price, growth meanSum
	}

	byYear := make(map[int]*acc)
	for _, r := range records {
		a, ok := byYear[r.Year]
		if !ok {
			a = &acc{}
			byYear[r.Year] = a
		}
		a.market.add(r.MarketSizeUSD)
		a.doses.add(r.DosesSoldMillion)
		a.price.add(r.AvgPriceUSD)
		a.growth.add(r.GrowthRatePercent)
	}

	out := make([]yearTotals, 0, len(byYear))
	for year, a := range byYear {
		out = append(out, yearTotals{
			year:   year,
			market: a.market.sum,
			doses:  a.doses.sum,
			price:  a.price.mean(),
			growth: a.growth.mean(),
		})
	}
	slices.SortFunc(out, func(a, b yearTotals) int { return a.year - b.year })

	return out
}

// extrapolate projects yearsAhead years past the latest year from the slope
// of the last two yearly aggregates.
func extrapolate(records []entity.Record, yearsAhead int) Forecast {
	if len(records) < 2 {
		return Forecast{Predictions: []Prediction{}, Method: MethodInsufficientData}
	}

	rows := aggregateByYear(records)
	last := rows[len(rows)-1]

	marketAt := func(int) float64 { return last.market }
	priceAt := func(int) float64 { return last.price.Or(0) }
	growth := 0.0
	method := MethodCarryForward

	if len(rows) >= 2 {
		prev := rows[len(rows)-2]
		span := float64(last.year - prev.year)

		marketTrend := (last.market - prev.market) / span
		marketAt = func(step int) float64 { return last.market + marketTrend*float64(step) }

		// a year without any valid price cannot anchor a slope; carry the last price instead
		if last.price.Valid && prev.price.Valid {
			priceTrend := (last.price.Value - prev.price.Value) / span
			priceAt = func(step int) float64 { return last.price.Value + priceTrend*float64(step) }
		}

		var g meanSum
		for _, row := range rows {
			g.add(row.growth)
		}
		growth = g.mean().Or(0)
		method = MethodLinearExtrapolation
	}

	preds := make([]Prediction, 0, yearsAhead)
	for step := 1; step <= yearsAhead; step++ {
		market := max(0, marketAt(step))
		preds = append(preds, Prediction{
			Year:              last.year + step,
			MarketSizeUSD:     round2(market),
			AvgPriceUSD:       round2(max(0, priceAt(step))),
			GrowthRatePercent: round2(growth),
			LowerBoundUSD:     round2(market * bandLower),
			UpperBoundUSD:     round2(market * bandUpper),
		})
	}

	return Forecast{
		Predictions: preds,
		Confidence:  forecastConfidence,
		Method:      method,
	}
}
