package pkgllm

import (
	"context"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
)

// Anthropic talks to the Anthropic messages API. The provider's default
// sampling temperature is used.
type Anthropic struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

func NewAnthropic(cfg Config) *Anthropic {
	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, anthropic.WithHTTPClient(cfg.HTTPClient))
	}

	return &Anthropic{
		client:    anthropic.NewClient(cfg.APIKey, opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

func (c *Anthropic) Model() string {
	return c.model
}

func (c *Anthropic) Chat(ctx context.Context, msgs []Message) (string, error) {
	system, turns := splitSystem(msgs)

	req := anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  make([]anthropic.Message, 0, len(turns)),
	}
	for _, m := range turns {
		role := anthropic.RoleUser
		if m.Role == RoleAssistant {
			role = anthropic.RoleAssistant
		}
		text := m.Content
		req.Messages = append(req.Messages, anthropic.Message{
			Role:    role,
			Content: []anthropic.MessageContent{{Type: "text", Text: &text}},
		})
	}

	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create messages: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			sb.WriteString(*block.Text)
		}
	}

	content := strings.TrimSpace(sb.String())
	if content == "" {
		return "", ErrEmptyResponse
	}

	return content, nil
}
