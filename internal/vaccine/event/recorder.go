package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgllm"
	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkglog"
	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkguid"
)

const (
	defaultWorkers = 2
	defaultBuffer  = 256
	seenWindow     = 1024
)

type Runner interface {
	Go(ctx context.Context, name string, f func(ctx context.Context) error)
}

// Handler processes one drained exchange.
type Handler interface {
	Handle(ctx context.Context, ex Exchange)
}

type RecorderConfig struct {
	Workers int
	Buffer  int
}

// Recorder assigns ids to model exchanges and hands them to a pool of workers
// through a Bus. Record never blocks the request path.
type Recorder struct {
	bus     *Bus
	ids     pkguid.NumberID
	handler Handler
	workers int

	seen *recentIDs
	wg   sync.WaitGroup
}

func NewRecorder(ids pkguid.NumberID, handler Handler, cfg RecorderConfig) *Recorder {
	workers := cfg.Workers
	if workers < 1 {
		workers = defaultWorkers
	}

	buffer := cfg.Buffer
	if buffer < 1 {
		buffer = defaultBuffer
	}

	if handler == nil {
		handler = LogHandler{}
	}

	return &Recorder{
		bus:     NewBus(buffer),
		ids:     ids,
		handler: handler,
		workers: workers,
		seen:    newRecentIDs(seenWindow),
	}
}

// Record implements pkgllm.Recorder.
func (r *Recorder) Record(ctx context.Context, ex pkgllm.Exchange) {
	err := r.bus.Offer(Exchange{
		ID:            r.ids.Generate(),
		CorrelationID: pkglog.GetCorrelationID(ctx),
		Exchange:      ex,
	})
	switch {
	case errors.Is(err, ErrBusFull):
		slog.WarnContext(ctx, "llm exchange dropped", "purpose", ex.Purpose, "reason", "buffer full")
	case errors.Is(err, ErrBusClosed):
		slog.DebugContext(ctx, "llm exchange dropped", "purpose", ex.Purpose, "reason", "recorder stopped")
	}
}

// Start launches the workers on runner. They exit once ctx is done or the
// bus is closed, draining whatever is already queued.
func (r *Recorder) Start(ctx context.Context, runner Runner) {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		runner.Go(ctx, "llm-exchange-recorder", func(ctx context.Context) error {
			defer r.wg.Done()
			r.work(ctx)
			return nil
		})
	}
}

// Stop closes the bus and waits for the workers until ctx is done.
func (r *Recorder) Stop(ctx context.Context) error {
	r.bus.Close()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) work(ctx context.Context) {
	for {
		select {
		case ex, ok := <-r.bus.Subscribe():
			if !ok {
				return
			}
			r.process(ctx, ex)
		case <-ctx.Done():
			r.drain(ctx)
			return
		}
	}
}

func (r *Recorder) drain(ctx context.Context) {
	for {
		select {
		case ex, ok := <-r.bus.Subscribe():
			if !ok {
				return
			}
			r.process(ctx, ex)
		default:
			return
		}
	}
}

func (r *Recorder) process(ctx context.Context, ex Exchange) {
	if !r.seen.add(ex.ID) {
		slog.DebugContext(ctx, "skip duplicate llm exchange", "exchange_id", ex.ID)
		return
	}
	r.handler.Handle(pkglog.SetCorrelationID(ctx, ex.CorrelationID), ex)
}

// recentIDs remembers the last size ids added. Older ids are forgotten in
// insertion order.
type recentIDs struct {
	mu   sync.Mutex
	set  map[int64]struct{}
	ring []int64
	next int
	full bool
}

func newRecentIDs(size int) *recentIDs {
	return &recentIDs{
		set:  make(map[int64]struct{}, size),
		ring: make([]int64, size),
	}
}

// add reports false when id is already remembered.
func (s *recentIDs) add(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.set[id]; ok {
		return false
	}

	if s.full {
		delete(s.set, s.ring[s.next])
	}
	s.ring[s.next] = id
	s.set[id] = struct{}{}

	s.next++
	if s.next == len(s.ring) {
		s.next = 0
		s.full = true
	}

	return true
}

// LogHandler writes each exchange as a structured log line.
type LogHandler struct{}

func (LogHandler) Handle(ctx context.Context, ex Exchange) {
	attrs := []any{
		"exchange_id", ex.ID,
		"purpose", ex.Purpose,
		"model", ex.Model,
		"prompt_chars", ex.PromptChars,
		"reply_chars", ex.ReplyChars,
		"latency_ms", ex.Latency.Milliseconds(),
	}

	if ex.Err != "" {
		slog.WarnContext(ctx, "llm exchange failed", append(attrs, "error", ex.Err)...)
		return
	}
	slog.InfoContext(ctx, "llm exchange", attrs...)
}
