package usecase

import (
	"context"
	"sync"

	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgllm"
	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/entity"
	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/store"
)

func ptr[T any](v T) *T { return &v }

func rec(region, brand string, year int, market float64) entity.Record {
	return entity.Record{
		Region:        region,
		Brand:         brand,
		Year:          year,
		MarketSizeUSD: entity.Some(market),
	}
}

func newTestUsecase(llm pkgllm.Client, records ...entity.Record) *Usecase {
	return New(Dependency{
		Table: store.NewTable(records, entity.DatasetInfo{Source: "test.csv"}),
		LLM:   llm,
	})
}

type fakeLLM struct {
	reply string
	err   error

	mu       sync.Mutex
	calls    [][]pkgllm.Message
	purposes []string
}

func (f *fakeLLM) Chat(ctx context.Context, msgs []pkgllm.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, msgs)
	f.purposes = append(f.purposes, pkgllm.Purpose(ctx))
	return f.reply, f.err
}

func (f *fakeLLM) Model() string { return "fake" }
