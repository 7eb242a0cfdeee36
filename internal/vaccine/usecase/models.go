package usecase

import "github.com/sankalp250/health-insight-dashboard/internal/vaccine/entity"

type ListInput struct {
	Filter entity.Filter
	Limit  *int // nil means no cap
	Offset int
}

type ListResult struct {
	Records []entity.Record
	Total   int
}

type KPI struct {
	Label       string
	Value       float64
	Unit        string
	Description string
}

type SummaryResult struct {
	KPIs   []KPI
	Filter entity.Filter
}

type PredictInput struct {
	Region     *string
	Brand      *string
	YearsAhead int
}

// Prediction is the extrapolated outlook for one future year.
type Prediction struct {
	Year              int     `json:"year"`
	MarketSizeUSD     float64 `json:"predicted_market_size_usd"`
	AvgPriceUSD       float64 `json:"predicted_avg_price_usd"`
	GrowthRatePercent float64 `json:"predicted_growth_rate_percent"`
	LowerBoundUSD     float64 `json:"confidence_interval_lower"`
	UpperBoundUSD     float64 `json:"confidence_interval_upper"`
}

const (
	MethodLinearExtrapolation = "linear_extrapolation"
	// MethodCarryForward labels forecasts built from a single year of data.
	// The last year is repeated rather than reported as a linear fit.
	MethodCarryForward     = "carry_forward"
	MethodInsufficientData = "insufficient_data"
	MethodError            = "error"
)

type Forecast struct {
	Predictions []Prediction
	Confidence  float64
	Method      string
	Insight     string // empty when no insight could be produced
}

type ChatInput struct {
	Query  string
	Filter entity.Filter
}

type Visualization string

const (
	VisualizationBarChart  Visualization = "bar_chart"
	VisualizationLineChart Visualization = "line_chart"
	VisualizationPieChart  Visualization = "pie_chart"
	VisualizationTable     Visualization = "table"
)

type ChatAnswer struct {
	Answer        string
	Visualization *Visualization // nil when no answer came from the model
	Confidence    float64
}

type Action struct {
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
}

type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      Action `json:"action"`
}
