// Package llm wraps the generative backend behind a small chat-completion
// client. The backend is an Ollama instance speaking the OpenAI-compatible
// chat API; discovery prefers the internal service hostname and falls back to
// localhost, a deployment-time concern only.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrUnavailable is returned once a retry policy is exhausted.
var ErrUnavailable = errors.New("llm: backend unavailable")

// RetryPolicy is a bounded-retry description passed to Chat, decoupled from
// the call site: a fixed number of attempts with a fixed delay, no jitter.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Single is the policy for calls that must not retry.
var Single = RetryPolicy{MaxAttempts: 1}

// Message is one role/content entry of a chat request.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem = openai.ChatMessageRoleSystem
	RoleUser   = openai.ChatMessageRoleUser
)

// DiscoverBaseURL resolves the backend URL: if the "ollama" service hostname
// resolves we are inside the compose network, otherwise use localhost.
func DiscoverBaseURL() string {
	if addrs, err := net.LookupHost("ollama"); err == nil && len(addrs) > 0 {
		return "http://ollama:11434"
	}
	return "http://localhost:11434"
}

// Client talks to the chat-completion endpoint of the generative backend.
type Client struct {
	api    *openai.Client
	model  string
	logger *zap.Logger
}

// New builds a client for baseURL (the bare backend URL, without the /v1
// suffix) and a fixed model name.
func New(baseURL, model string, logger *zap.Logger) *Client {
	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"
	cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}

	return &Client{
		api:    openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// Chat sends the message list and returns the assistant text from the reply
// envelope. Transport failures and malformed envelopes are retried per the
// policy; after the last attempt ErrUnavailable is returned.
func (c *Client) Chat(ctx context.Context, messages []Message, temperature float32, policy RetryPolicy) (string, error) {
	reqMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		reqMessages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    reqMessages,
			Temperature: temperature,
			Stream:      false,
		})
		if err == nil {
			if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != "" {
				return resp.Choices[0].Message.Content, nil
			}
			err = fmt.Errorf("llm: reply envelope missing message content")
		}

		lastErr = err
		c.logger.Error("Generative backend call failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts))

		if attempt < attempts && policy.Delay > 0 {
			select {
			case <-time.After(policy.Delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}
