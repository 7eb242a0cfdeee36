package app

import (
	"context"
	"net/http"

	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgconfig"
	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkglog"
	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgrouter"
	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgroutine"
	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	snowflake pkguid.NumberID
	goroutine *pkgroutine.Manager

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

func New() *App {
	pkglog.InitLogging(pkglog.Options{Service: defaultAppName})

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
