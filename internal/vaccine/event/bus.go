package event

import (
	"errors"
	"sync"

	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgllm"
)

var (
	ErrBusClosed = errors.New("event bus is closed")
	ErrBusFull   = errors.New("event bus is full")
)

// Exchange is a recorded model call with its unique id and the correlation
// id of the request that made it.
type Exchange struct {
	ID            int64
	CorrelationID string
	pkgllm.Exchange
}

type Bus struct {
	mu     sync.RWMutex
	closed bool
	ch     chan Exchange
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		ch: make(chan Exchange, buffer),
	}
}

// Offer enqueues ex without waiting. A full buffer rejects it.
func (b *Bus) Offer(ex Exchange) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.ch <- ex:
		return nil
	default:
		return ErrBusFull
	}
}

func (b *Bus) Subscribe() <-chan Exchange {
	return b.ch
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.ch)
}
