package service

import (
	"context"
	"errors"
	"fmt"

	"medpremium/internal/config"

	"go.uber.org/zap"
)

// ErrChatDisabled is returned when the selected chat provider has no credentials
var ErrChatDisabled = errors.New("chat is not enabled (missing API key)")

// ChatClient is the interface for hosted chat providers.
// Every message is answered without conversation memory.
type ChatClient interface {
	// Reply sends one message and returns the full answer
	Reply(ctx context.Context, message string) (string, error)

	// ReplyStream sends one message and calls callback for every chunk as it arrives
	ReplyStream(ctx context.Context, message string, callback StreamCallback) error

	// IsEnabled returns whether the client is configured and ready
	IsEnabled() bool

	// Provider names the backing service, e.g. "gemini"
	Provider() string

	// Model returns the model the client talks to
	Model() string

	// Close releases any resources held by the client
	Close() error
}

// StreamChunk represents a generic streaming response chunk
type StreamChunk struct {
	// Regular content
	Content string

	// Thinking/reasoning content (provider-specific)
	ThinkingContent string

	// Whether this is the final chunk
	Done bool
}

// StreamCallback is called for each chunk in streaming mode
type StreamCallback func(chunk *StreamChunk) error

// NewChatClient builds the client for the configured provider
func NewChatClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ChatClient, error) {
	switch cfg.Chat.Provider {
	case "openai":
		return NewOpenAIClient(&cfg.OpenAI, logger), nil
	case "gemini", "":
		return NewGeminiClient(ctx, &cfg.Gemini, logger)
	default:
		return nil, fmt.Errorf("unsupported chat provider %q", cfg.Chat.Provider)
	}
}

var (
	_ ChatClient = (*OpenAIClient)(nil)
	_ ChatClient = (*GeminiClient)(nil)
)
