package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgerror"
	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgllm"
	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/entity"
	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/store"
)

const (
	DefaultPageLimit  = 100
	MaxPageLimit      = 500
	DefaultYearsAhead = 2
	MinYearsAhead     = 1
	MaxYearsAhead     = 5

	defaultLLMTimeout = 30 * time.Second
)

// Purposes reported with every model exchange.
const (
	PurposeChat            = "chat"
	PurposeRecommendations = "recommendations"
	PurposeInsight         = "prediction_insight"
)

type Table interface {
	Filter(f entity.Filter) []entity.Record
	Facets() entity.Facets
	Info() entity.DatasetInfo
}

type Dependency struct {
	Table Table
	// LLM may be nil, in which case every AI operation answers with its
	// canned "unavailable" response.
	LLM        pkgllm.Client
	LLMTimeout time.Duration
}

type Usecase struct {
	table      Table
	llm        pkgllm.Client
	llmTimeout time.Duration
}

func New(dep Dependency) *Usecase {
	timeout := dep.LLMTimeout
	if timeout <= 0 {
		timeout = defaultLLMTimeout
	}

	return &Usecase{
		table:      dep.Table,
		llm:        dep.LLM,
		llmTimeout: timeout,
	}
}

// AIEnabled reports whether a model client is configured.
func (u *Usecase) AIEnabled() bool {
	return u.llm != nil
}

func (u *Usecase) DatasetInfo() entity.DatasetInfo {
	return u.table.Info()
}

func (u *Usecase) Facets() entity.Facets {
	return u.table.Facets()
}

func (u *Usecase) ListRecords(ctx context.Context, in ListInput) (ListResult, error) {
	if err := validateFilter(in.Filter); err != nil {
		return ListResult{}, err
	}
	if in.Limit != nil && (*in.Limit < 1 || *in.Limit > MaxPageLimit) {
		return ListResult{}, pkgerror.NewInvalidField("limit", "must be between 1 and 500")
	}
	if in.Offset < 0 {
		return ListResult{}, pkgerror.NewInvalidField("offset", "must be greater than or equal to 0")
	}

	limit := store.NoLimit
	if in.Limit != nil {
		limit = *in.Limit
	}

	page, total := store.Page(u.table.Filter(in.Filter), in.Offset, limit)

	slog.DebugContext(ctx, "records listed", "total", total, "returned", len(page), "offset", in.Offset)

	return ListResult{Records: page, Total: total}, nil
}

func (u *Usecase) Summary(ctx context.Context, f entity.Filter) (SummaryResult, error) {
	if err := validateFilter(f); err != nil {
		return SummaryResult{}, err
	}

	return SummaryResult{
		KPIs:   computeKPIs(u.table.Filter(f)),
		Filter: f,
	}, nil
}

// Predict forecasts the region/brand selection. A model insight is attached
// when available; its failure never withholds the predictions.
func (u *Usecase) Predict(ctx context.Context, in PredictInput) (Forecast, error) {
	if in.YearsAhead < MinYearsAhead || in.YearsAhead > MaxYearsAhead {
		return Forecast{}, pkgerror.NewInvalidField("years_ahead", "must be between 1 and 5")
	}
	if err := ctx.Err(); err != nil {
		return Forecast{}, pkgerror.NewServer(err)
	}

	view := u.table.Filter(entity.Filter{Region: in.Region, Brand: in.Brand})
	fc := extrapolate(view, in.YearsAhead)

	if u.llm == nil || len(fc.Predictions) == 0 {
		return fc, nil
	}

	prompt := insightPrompt(buildContext(view), in.YearsAhead, fc.Predictions)
	reply, err := u.ask(ctx, PurposeInsight, []pkgllm.Message{{Role: pkgllm.RoleUser, Content: prompt}})
	if err != nil {
		slog.WarnContext(ctx, "prediction insight unavailable", "error", err)
		return fc, nil
	}
	fc.Insight = reply

	return fc, nil
}

// Chat answers a free-form question about the filtered view. Model failures
// degrade to an explanatory answer with zero confidence. A blank query is
// rejected only when a model is configured.
func (u *Usecase) Chat(ctx context.Context, in ChatInput) (ChatAnswer, error) {
	if err := validateFilter(in.Filter); err != nil {
		return ChatAnswer{}, err
	}

	// without a model every query, blank included, gets the same answer
	if u.llm == nil {
		return ChatAnswer{Answer: msgAIUnavailable}, nil
	}
	if strings.TrimSpace(in.Query) == "" {
		return ChatAnswer{}, pkgerror.NewInvalidField("query", "must not be empty")
	}

	msgs := []pkgllm.Message{
		{Role: pkgllm.RoleSystem, Content: chatSystemPrompt},
		{Role: pkgllm.RoleUser, Content: chatUserPrompt(buildContext(u.table.Filter(in.Filter)), in.Query)},
	}

	reply, err := u.ask(ctx, PurposeChat, msgs)
	if err != nil {
		slog.WarnContext(ctx, "chat query failed", "error", err)
		return ChatAnswer{Answer: msgChatFailed + err.Error()}, nil
	}

	viz := suggestVisualization(reply)

	return ChatAnswer{
		Answer:        reply,
		Visualization: &viz,
		Confidence:    chatConfidence,
	}, nil
}

// Recommend suggests ways to explore the filtered view.
func (u *Usecase) Recommend(ctx context.Context, f entity.Filter) ([]Recommendation, error) {
	if err := validateFilter(f); err != nil {
		return nil, err
	}

	if u.llm == nil {
		return unavailableRecommendations(), nil
	}

	prompt := recommendationPrompt(buildContext(u.table.Filter(f)))
	reply, err := u.ask(ctx, PurposeRecommendations, []pkgllm.Message{{Role: pkgllm.RoleUser, Content: prompt}})
	if err != nil {
		slog.WarnContext(ctx, "recommendations unavailable", "error", err)
		return fallbackRecommendations(), nil
	}

	recs, err := pkgllm.ParseJSON[[]Recommendation](reply)
	if err != nil {
		slog.WarnContext(ctx, "recommendations reply not usable", "error", err)
		return fallbackRecommendations(), nil
	}

	usable := recs[:0]
	for _, r := range recs {
		if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Description) == "" {
			continue
		}
		usable = append(usable, r)
	}
	if len(usable) == 0 {
		return fallbackRecommendations(), nil
	}

	return usable, nil
}

func (u *Usecase) ask(ctx context.Context, purpose string, msgs []pkgllm.Message) (string, error) {
	ctx, cancel := context.WithTimeout(pkgllm.WithPurpose(ctx, purpose), u.llmTimeout)
	defer cancel()

	reply, err := u.llm.Chat(ctx, msgs)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(reply), nil
}

func validateFilter(f entity.Filter) error {
	if f.Year != nil && *f.Year < entity.MinYear {
		return pkgerror.NewInvalidField("year", "must be greater than or equal to 1900")
	}
	return nil
}
