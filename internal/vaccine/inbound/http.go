package inbound

import (
	"context"

	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgrouter"
	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/entity"
	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/usecase"
)

type uc interface {
	ListRecords(ctx context.Context, in usecase.ListInput) (usecase.ListResult, error)
	Summary(ctx context.Context, f entity.Filter) (usecase.SummaryResult, error)
	Predict(ctx context.Context, in usecase.PredictInput) (usecase.Forecast, error)
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatAnswer, error)
	Recommend(ctx context.Context, f entity.Filter) ([]usecase.Recommendation, error)
	Facets() entity.Facets
	DatasetInfo() entity.DatasetInfo
}

// Meta describes the service on the root endpoint.
type Meta struct {
	Name    string
	Version string
}

// RegisterHTTPEndpoint mounts the dashboard API. aiLimit wraps only the
// /api/ai routes; nil leaves them unlimited.
func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, meta Meta, aiLimit pkgrouter.Middleware) {
	end := &HTTPEndpoint{uc: uc, meta: meta}

	r.GET("/", end.Root)

	r.GET("/api/vaccines", end.Vaccines) // ?region=&brand=&year=&limit=&offset=
	r.GET("/api/summary", end.Summary)   // ?region=&brand=&year=
	r.GET("/api/filters", end.Filters)

	r.GET("/api/ai/predictions", end.Predictions, aiLimit) // ?region=&brand=&years_ahead=
	r.POST("/api/ai/chat", end.Chat, aiLimit)
	r.GET("/api/ai/recommendations", end.Recommendations, aiLimit) // ?region=&brand=&year=
}
