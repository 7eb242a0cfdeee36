package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/entity"
)

const (
	colRegion     = "region"
	colBrand      = "brand"
	colYear       = "year"
	colMarketSize = "market_size_usd"
	colAvgPrice   = "avg_price_usd"
	colDosesSold  = "doses_sold_million"
	colGrowthRate = "growth_rate_percent"
	colInsight    = "insight"
)

var requiredColumns = []string{
	colRegion, colBrand, colYear, colMarketSize, colAvgPrice, colDosesSold, colGrowthRate, colInsight,
}

type columns map[string]int

// indexHeader normalizes header cells and locates the required columns.
// Extra columns are ignored; the first occurrence of a duplicate name wins.
func indexHeader(header []string) (columns, error) {
	idx := make(columns, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrDatasetMalformed, strings.Join(missing, ", "))
	}

	return idx, nil
}

func (c columns) cell(row []string, name string) string {
	i := c[name]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseRecords turns data rows into records. Unparseable numerics become
// missing; an unparseable year or an empty region/brand fails the whole load.
func parseRecords(ctx context.Context, cols columns, rows [][]string) ([]entity.Record, error) {
	out := make([]entity.Record, 0, len(rows))
	var mp measureParser

	for i, row := range rows {
		line := i + 2 // header is line 1

		if isBlank(row) {
			continue
		}

		year, err := parseYear(cols.cell(row, colYear))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrDatasetMalformed, line, err)
		}

		rec := entity.Record{
			Region:  cols.cell(row, colRegion),
			Brand:   cols.cell(row, colBrand),
			Year:    year,
			Insight: cols.cell(row, colInsight),
		}
		if rec.Region == "" || rec.Brand == "" {
			return nil, fmt.Errorf("%w: line %d: empty region or brand", ErrDatasetMalformed, line)
		}

		rec.MarketSizeUSD = mp.parse(cols.cell(row, colMarketSize), true)
		rec.AvgPriceUSD = mp.parse(cols.cell(row, colAvgPrice), true)
		rec.DosesSoldMillion = mp.parse(cols.cell(row, colDosesSold), true)
		rec.GrowthRatePercent = mp.parse(cols.cell(row, colGrowthRate), false)

		out = append(out, rec)
	}

	if mp.coerced > 0 {
		slog.WarnContext(ctx, "dataset numeric cells coerced to missing", "cells", mp.coerced)
	}

	return out, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseYear accepts integers and integral decimals such as "2020.0".
func parseYear(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("year is empty")
	}

	year, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("year %q is not an integer", s)
		}
		year = int(f)
	}

	if year < entity.MinYear {
		return 0, fmt.Errorf("year %d is before %d", year, entity.MinYear)
	}

	return year, nil
}

type measureParser struct {
	coerced int // non-blank cells that could not be used
}

// parse returns a missing measure for blank, unparseable or non-finite cells,
// and for negative values when nonNegative is set.
func (p *measureParser) parse(s string, nonNegative bool) entity.Measure {
	if s == "" {
		return entity.Measure{}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || (nonNegative && v < 0) {
		p.coerced++
		return entity.Measure{}
	}

	return entity.Some(v)
}
