package entity

import "time"

// Record is one cleaned row of the vaccine market dataset.
type Record struct {
	Region            string
	Brand             string
	Year              int
	MarketSizeUSD     Measure
	AvgPriceUSD       Measure
	DosesSoldMillion  Measure
	GrowthRatePercent Measure
	Insight           string
}

// MinYear is the earliest calendar year a record may carry.
const MinYear = 1900

// DatasetInfo describes the loaded table.
type DatasetInfo struct {
	Source      string
	Records     int
	Fingerprint string
	LoadedAt    time.Time
}

// Facets are the distinct filterable values of a table, sorted.
type Facets struct {
	Regions []string
	Brands  []string
	Years   []int
}
