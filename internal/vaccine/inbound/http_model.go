package inbound

import (
	"time"

	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/entity"
	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/usecase"
)

type RootResponse struct {
	Message string      `json:"message"`
	Version string      `json:"version"`
	Health  string      `json:"health"`
	Dataset DatasetMeta `json:"dataset"`
}

type DatasetMeta struct {
	Records     int       `json:"records"`
	Fingerprint string    `json:"fingerprint"`
	LoadedAt    time.Time `json:"loaded_at"`
}

type VaccineRecord struct {
	Region            string   `json:"region"`
	Brand             string   `json:"brand"`
	Year              int      `json:"year"`
	MarketSizeUSD     *float64 `json:"market_size_usd"`
	AvgPriceUSD       *float64 `json:"avg_price_usd"`
	DosesSoldMillion  *float64 `json:"doses_sold_million"`
	GrowthRatePercent *float64 `json:"growth_rate_percent"`
	Insight           string   `json:"insight"`
}

type VaccinesResponse struct {
	Total    int             `json:"total"`
	Returned int             `json:"returned"`
	Data     []VaccineRecord `json:"data"`
}

type KPI struct {
	Label       string  `json:"label"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
}

type FiltersApplied struct {
	Region *string `json:"region"`
	Brand  *string `json:"brand"`
	Year   *int    `json:"year"`
}

type SummaryResponse struct {
	KPIs           []KPI          `json:"kpis"`
	FiltersApplied FiltersApplied `json:"filters_applied"`
}

type FiltersResponse struct {
	Regions []string `json:"regions"`
	Brands  []string `json:"brands"`
	Years   []int    `json:"years"`
}

type PredictionsResponse struct {
	Predictions []usecase.Prediction `json:"predictions"`
	Confidence  float64              `json:"confidence"`
	Method      string               `json:"method"`
	AIInsight   string               `json:"ai_insight,omitempty"`
}

type ChatRequest struct {
	Query  string  `json:"query"`
	Region *string `json:"region"`
	Brand  *string `json:"brand"`
	Year   *int    `json:"year"`
}

type ChatResponse struct {
	Answer        string  `json:"answer"`
	Visualization *string `json:"visualization"`
	Confidence    float64 `json:"confidence"`
}

func toHTTPRecord(r entity.Record) VaccineRecord {
	return VaccineRecord{
		Region:            r.Region,
		Brand:             r.Brand,
		Year:              r.Year,
		MarketSizeUSD:     r.MarketSizeUSD.Ptr(),
		AvgPriceUSD:       r.AvgPriceUSD.Ptr(),
		DosesSoldMillion:  r.DosesSoldMillion.Ptr(),
		GrowthRatePercent: r.GrowthRatePercent.Ptr(),
		Insight:           r.Insight,
	}
}
