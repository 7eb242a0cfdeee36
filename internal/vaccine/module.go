package vaccine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgconfig"
	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgllm"
	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgrouter"
	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgroutine"
	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkguid"
	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/dataset"
	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/event"
	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/inbound"
	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/usecase"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	NumberID  pkguid.NumberID
}

func New(dep Dependency) (func(context.Context) error, error) {
	cfg := dep.Config

	opts, err := datasetOptions(cfg)
	if err != nil {
		return nil, err
	}

	table, err := dataset.NewRegistry(opts).Table(dep.Context, cfg.GetString("dataset.path"))
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	if dep.NumberID == nil {
		sf, err := pkguid.NewSnowflake(-1)
		if err != nil {
			return nil, err
		}
		dep.NumberID = sf
	}

	recorder := event.NewRecorder(dep.NumberID, event.LogHandler{}, event.RecorderConfig{
		Workers: int(cfg.GetInt("recorder.workers")),
		Buffer:  int(cfg.GetInt("recorder.buffer")),
	})

	llm, err := newLLM(dep.Context, cfg, recorder)
	if err != nil {
		return nil, err
	}

	recorder.Start(dep.Context, dep.Goroutine)

	uc := usecase.New(usecase.Dependency{
		Table:      table,
		LLM:        llm,
		LLMTimeout: cfg.GetDuration("llm.timeout"),
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc,
		inbound.Meta{
			Name:    cfg.GetString("app.name"),
			Version: cfg.GetString("app.version"),
		},
		pkgrouter.RateLimit(cfg.GetFloat("ai.rate_limit.per_second"), int(cfg.GetInt("ai.rate_limit.burst"))),
	)

	return recorder.Stop, nil
}

func datasetOptions(cfg pkgconfig.Config) (dataset.Options, error) {
	opts := dataset.Options{
		Imputation: dataset.Imputation(cfg.GetString("dataset.imputation")),
	}

	if cfg.GetString("dataset.hash_key") != "" {
		key := cfg.GetBinary("dataset.hash_key")
		if key == nil {
			return opts, fmt.Errorf("%w: not valid base64", dataset.ErrInvalidHashKey)
		}
		opts.HashKey = key
	}

	return opts, nil
}

// newLLM returns a nil client, not an error, when no credential is set so the
// service still serves data with AI answers disabled.
func newLLM(ctx context.Context, cfg pkgconfig.Config, recorder pkgllm.Recorder) (pkgllm.Client, error) {
	client, err := pkgllm.New(pkgllm.Config{
		Provider:    cfg.GetString("llm.provider"),
		APIKey:      cfg.GetString("llm.api_key"),
		BaseURL:     cfg.GetString("llm.base_url"),
		Model:       cfg.GetString("llm.model"),
		Temperature: cfg.GetFloat("llm.temperature"),
		MaxTokens:   int(cfg.GetInt("llm.max_tokens")),
	})
	if errors.Is(err, pkgllm.ErrNoCredential) {
		slog.WarnContext(ctx, "llm api key is not configured, ai features are disabled")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("init llm client: %w", err)
	}

	slog.InfoContext(ctx, "llm client ready", "provider", cfg.GetString("llm.provider"), "model", client.Model())

	return pkgllm.NewRecording(client, recorder), nil
}
