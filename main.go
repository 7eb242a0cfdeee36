package main

import (
	"context"
	"time"

	"github.com/sankalp250/health-insight-dashboard/internal/app"
)

func main() {
	application := app.New()
	<-application.Start()

	// in-flight AI calls may run up to llm.timeout, so allow more than that
	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Second)
	defer cancel()

	application.Stop(ctx)
}
