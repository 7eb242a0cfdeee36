package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgerror"
	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/entity"
	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/usecase"
)

const maxChatBody = 64 << 10

type HTTPEndpoint struct {
	uc   uc
	meta Meta
}

func (h *HTTPEndpoint) Root(ctx context.Context, r *http.Request) (any, error) {
	info := h.uc.DatasetInfo()

	return RootResponse{
		Message: h.meta.Name,
		Version: h.meta.Version,
		Health:  "/healthz",
		Dataset: DatasetMeta{
			Records:     info.Records,
			Fingerprint: info.Fingerprint,
			LoadedAt:    info.LoadedAt,
		},
	}, nil
}

func (h *HTTPEndpoint) Vaccines(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()

	filter, err := parseFilter(query)
	if err != nil {
		return nil, err
	}

	limit, err := optionalInt(query, "limit")
	if err != nil {
		return nil, err
	}
	if limit == nil {
		limit = ptr(usecase.DefaultPageLimit)
	}

	offset, err := optionalInt(query, "offset")
	if err != nil {
		return nil, err
	}

	in := usecase.ListInput{Filter: filter, Limit: limit}
	if offset != nil {
		in.Offset = *offset
	}

	result, err := h.uc.ListRecords(ctx, in)
	if err != nil {
		return nil, err
	}

	data := make([]VaccineRecord, 0, len(result.Records))
	for _, rec := range result.Records {
		data = append(data, toHTTPRecord(rec))
	}

	return VaccinesResponse{
		Total:    result.Total,
		Returned: len(data),
		Data:     data,
	}, nil
}

func (h *HTTPEndpoint) Summary(ctx context.Context, r *http.Request) (any, error) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Summary(ctx, filter)
	if err != nil {
		return nil, err
	}

	kpis := make([]KPI, 0, len(result.KPIs))
	for _, k := range result.KPIs {
		kpis = append(kpis, KPI(k))
	}

	return SummaryResponse{
		KPIs: kpis,
		FiltersApplied: FiltersApplied{
			Region: result.Filter.Region,
			Brand:  result.Filter.Brand,
			Year:   result.Filter.Year,
		},
	}, nil
}

func (h *HTTPEndpoint) Filters(ctx context.Context, r *http.Request) (any, error) {
	f := h.uc.Facets()

	return FiltersResponse{
		Regions: nonNil(f.Regions),
		Brands:  nonNil(f.Brands),
		Years:   nonNil(f.Years),
	}, nil
}

// Predictions always answers 200 unless the request itself is invalid.
func (h *HTTPEndpoint) Predictions(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()

	filter, err := parseFilter(query)
	if err != nil {
		return nil, err
	}

	yearsAhead, err := optionalInt(query, "years_ahead")
	if err != nil {
		return nil, err
	}
	if yearsAhead == nil {
		yearsAhead = ptr(usecase.DefaultYearsAhead)
	}

	fc, err := h.uc.Predict(ctx, usecase.PredictInput{
		Region:     filter.Region,
		Brand:      filter.Brand,
		YearsAhead: *yearsAhead,
	})
	if err != nil {
		var gerr *pkgerror.Error
		if errors.As(err, &gerr) && gerr.Type() == pkgerror.TypeValidation {
			return nil, err
		}

		slog.ErrorContext(ctx, "failed to generate predictions", "error", err)
		return PredictionsResponse{
			Predictions: []usecase.Prediction{},
			Method:      usecase.MethodError,
			AIInsight:   "Error generating predictions: " + err.Error(),
		}, nil
	}

	return PredictionsResponse{
		Predictions: nonNil(fc.Predictions),
		Confidence:  fc.Confidence,
		Method:      fc.Method,
		AIInsight:   fc.Insight,
	}, nil
}

func (h *HTTPEndpoint) Chat(ctx context.Context, r *http.Request) (any, error) {
	var req ChatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxChatBody)).Decode(&req); err != nil {
		return nil, pkgerror.NewInvalidFormat()
	}

	answer, err := h.uc.Chat(ctx, usecase.ChatInput{
		Query: req.Query,
		Filter: entity.Filter{
			Region: trimmed(req.Region),
			Brand:  trimmed(req.Brand),
			Year:   req.Year,
		},
	})
	if err != nil {
		return nil, err
	}

	resp := ChatResponse{Answer: answer.Answer, Confidence: answer.Confidence}
	if answer.Visualization != nil {
		resp.Visualization = ptr(string(*answer.Visualization))
	}

	return resp, nil
}

func (h *HTTPEndpoint) Recommendations(ctx context.Context, r *http.Request) (any, error) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		return nil, err
	}

	recs, err := h.uc.Recommend(ctx, filter)
	if err != nil {
		return nil, err
	}

	return nonNil(recs), nil
}

func parseFilter(query url.Values) (entity.Filter, error) {
	year, err := optionalInt(query, "year")
	if err != nil {
		return entity.Filter{}, err
	}

	return entity.Filter{
		Region: optionalString(query, "region"),
		Brand:  optionalString(query, "brand"),
		Year:   year,
	}, nil
}

// optionalString treats a missing or blank parameter as absent.
func optionalString(query url.Values, key string) *string {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func optionalInt(query url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, pkgerror.NewInvalidField(key, "must be an integer")
	}
	return &v, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func ptr[T any](v T) *T {
	return &v
}
