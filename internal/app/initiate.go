package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/cors"
	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgconfig"
	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkglog"
	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgrouter"
	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgroutine"
	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkguid"
)

const (
	defaultAppName    = "Health Insight Dashboard API"
	defaultAppVersion = "0.1.0"
)

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}

	cfg, err := pkgconfig.NewViper(path, configOptions()...)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	// reinstall the logger now that level and service name are known
	pkglog.InitLogging(pkglog.Options{
		Service: cfg.GetString("app.name"),
		Level:   cfg.GetString("log.level"),
	})

	a.config = cfg
}

// configOptions lists env aliases and the defaults used when config.yaml
// leaves a key out.
func configOptions() []pkgconfig.Option {
	return []pkgconfig.Option{
		pkgconfig.WithEnvAlias("llm.api_key", "LLM_API_KEY", "GROQ_API_KEY"),
		pkgconfig.WithEnvAlias("dataset.path", "DATASET_PATH", "DATA_FILE"),
		pkgconfig.WithDefault("app.name", defaultAppName),
		pkgconfig.WithDefault("app.version", defaultAppVersion),
		pkgconfig.WithDefault("log.level", "info"),
		pkgconfig.WithDefault("server.address.http", ":8000"),
		pkgconfig.WithDefault("server.read_header_timeout", "10s"),
		pkgconfig.WithDefault("cors.allowed_origins", "*"),
		pkgconfig.WithDefault("dataset.path", "data/vaccine_market_dataset.csv"),
		pkgconfig.WithDefault("dataset.imputation", "none"),
		pkgconfig.WithDefault("llm.provider", "groq"),
		pkgconfig.WithDefault("llm.temperature", 0.7),
		pkgconfig.WithDefault("llm.max_tokens", 1024),
		pkgconfig.WithDefault("llm.timeout", "30s"),
		pkgconfig.WithDefault("ai.rate_limit.per_second", 1),
		pkgconfig.WithDefault("ai.rate_limit.burst", 5),
		pkgconfig.WithDefault("recorder.workers", 2),
		pkgconfig.WithDefault("recorder.buffer", 256),
		pkgconfig.WithDefault("snowflake.node", -1),
	}
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(100)
	a.uuid = pkguid.NewUUID()

	sf, err := pkguid.NewSnowflake(a.config.GetInt("snowflake.node"))
	if err != nil {
		slog.Error("failed to init snowflake", "error", err)
		os.Exit(1)
	}
	a.snowflake = sf
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)

	origins := a.config.GetArray("cors.allowed_origins")
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		// browsers reject credentialed requests against a wildcard origin
		AllowCredentials: !containsWildcard(origins),
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           gzhttp.GzipHandler(corsHandler.Handler(a.router)),
		ReadHeaderTimeout: a.config.GetDuration("server.read_header_timeout"),
	}
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

//nolint:unparam // is always nil
func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn[closerHTTPServer] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
}
