package pkgllm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresCredential(t *testing.T) {
	_, err := New(Config{Provider: ProviderGroq, APIKey: "  "})
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestNewProviderDefaults(t *testing.T) {
	c, err := New(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, c)
	assert.Equal(t, DefaultGroqModel, c.Model())

	c, err = New(Config{Provider: "Anthropic", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &Anthropic{}, c)
	assert.Equal(t, DefaultAnthropicModel, c.Model())

	c, err = New(Config{Provider: ProviderOpenAI, APIKey: "k", Model: "gpt-x"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-x", c.Model())

	_, err = New(Config{Provider: "bard", APIKey: "k"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestOpenAIChat(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  Pfizer leads.  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c, err := New(Config{Provider: ProviderGroq, APIKey: "gsk-test", BaseURL: srv.URL, Temperature: 0.7})
	require.NoError(t, err)

	reply, err := c.Chat(context.Background(), []Message{
		{Role: RoleSystem, Content: "You are an analyst."},
		{Role: RoleUser, Content: "Who leads?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pfizer leads.", reply)
	assert.Equal(t, DefaultGroqModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "Who leads?", got.Messages[1].Content)
}

func TestOpenAIChatErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
	}))
	defer srv.Close()

	c, err := New(Config{Provider: ProviderOpenAI, APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestAnthropicChat(t *testing.T) {
	var got struct {
		System   string `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"m1","type":"message","role":"assistant","model":"claude","content":[{"type":"text","text":"Growth is steady."}],"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":4}}`))
	}))
	defer srv.Close()

	c, err := New(Config{Provider: ProviderAnthropic, APIKey: "sk-ant", BaseURL: srv.URL})
	require.NoError(t, err)

	reply, err := c.Chat(context.Background(), []Message{
		{Role: RoleSystem, Content: "Be brief."},
		{Role: RoleUser, Content: "Trend?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Growth is steady.", reply)
	assert.Equal(t, "Be brief.", got.System)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

type stubClient struct {
	reply string
	err   error
}

func (s stubClient) Chat(context.Context, []Message) (string, error) { return s.reply, s.err }
func (s stubClient) Model() string                                   { return "stub-model" }

type captureRecorder struct {
	got []Exchange
}

func (r *captureRecorder) Record(_ context.Context, ex Exchange) {
	r.got = append(r.got, ex)
}

func TestRecordingReportsExchanges(t *testing.T) {
	rec := &captureRecorder{}
	c := NewRecording(stubClient{reply: "ok!"}, rec)
	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time {
		tick = tick.Add(150 * time.Millisecond)
		return tick
	}

	ctx := WithPurpose(context.Background(), "chat")
	reply, err := c.Chat(ctx, []Message{{Role: RoleSystem, Content: "abc"}, {Role: RoleUser, Content: "de"}})
	require.NoError(t, err)
	assert.Equal(t, "ok!", reply)

	failing := NewRecording(stubClient{err: errors.New("timeout")}, rec)
	_, err = failing.Chat(context.Background(), nil)
	require.Error(t, err)

	require.Len(t, rec.got, 2)
	assert.Equal(t, "chat", rec.got[0].Purpose)
	assert.Equal(t, "stub-model", rec.got[0].Model)
	assert.Equal(t, 5, rec.got[0].PromptChars)
	assert.Equal(t, 3, rec.got[0].ReplyChars)
	assert.Equal(t, 150*time.Millisecond, rec.got[0].Latency)
	assert.Empty(t, rec.got[0].Err)

	assert.Equal(t, "unknown", rec.got[1].Purpose)
	assert.Equal(t, "timeout", rec.got[1].Err)
}
