package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/sankalp250/health-insight-dashboard/internal/vaccine"
)

func (a *App) initModules() {
	closer, err := vaccine.New(vaccine.Dependency{
		Config:    a.config,
		Router:    a.router,
		Goroutine: a.goroutine,
		Context:   a.ctx,
		NumberID:  a.snowflake,
	})
	if err != nil {
		slog.Error("failed to init module vaccine", "error", err)
		os.Exit(1)
	}
	if closer != nil {
		if a.closerFn == nil {
			a.closerFn = map[string]func(context.Context) error{}
		}
		a.closerFn["Vaccine"] = closer
	}
}
