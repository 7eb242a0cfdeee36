// Package pkgllm is a thin client layer over chat-completion providers.
//
// Callers depend on the Client interface. New builds the concrete client for a
// provider: "groq" and "openai" use the OpenAI-compatible API through
// github.com/sashabaranov/go-openai, "anthropic" uses
// github.com/liushuangls/go-anthropic/v2. A missing API key is reported as
// ErrNoCredential so the application can run with AI features disabled.
//
// Recording wraps any Client and reports every exchange to a Recorder, and
// ExtractJSON pulls structured output out of free-form replies.
package pkgllm
