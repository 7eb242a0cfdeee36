package pkgllm

import (
	"context"
	"time"
)

// Exchange describes one completed call to a provider.
type Exchange struct {
	Purpose     string
	Model       string
	PromptChars int
	ReplyChars  int
	StartedAt   time.Time
	Latency     time.Duration
	Err         string
}

// Recorder receives exchanges. Implementations must not block the caller.
type Recorder interface {
	Record(ctx context.Context, ex Exchange)
}

// Recording wraps a Client and reports every call to a Recorder.
type Recording struct {
	inner    Client
	recorder Recorder
	now      func() time.Time
}

func NewRecording(inner Client, recorder Recorder) *Recording {
	return &Recording{inner: inner, recorder: recorder, now: time.Now}
}

func (c *Recording) Model() string {
	return c.inner.Model()
}

func (c *Recording) Chat(ctx context.Context, msgs []Message) (string, error) {
	promptChars := 0
	for _, m := range msgs {
		promptChars += len(m.Content)
	}

	start := c.now()
	reply, err := c.inner.Chat(ctx, msgs)

	ex := Exchange{
		Purpose:     Purpose(ctx),
		Model:       c.inner.Model(),
		PromptChars: promptChars,
		ReplyChars:  len(reply),
		StartedAt:   start,
		Latency:     c.now().Sub(start),
	}
	if err != nil {
		ex.Err = err.Error()
	}
	c.recorder.Record(ctx, ex)

	return reply, err
}
