package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medpremium/internal/config"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiClient implements ChatClient for Google Gemini. Each message opens a
// fresh chat session, so no history is carried between messages.
type GeminiClient struct {
	client *genai.Client
	config *config.GeminiConfig
	logger *zap.Logger
}

// NewGeminiClient creates a Gemini client. Without an API key the client is
// returned disabled rather than failing.
func NewGeminiClient(ctx context.Context, cfg *config.GeminiConfig, logger *zap.Logger) (*GeminiClient, error) {
	c := &GeminiClient{config: cfg, logger: logger}
	if !cfg.Enabled {
		return c, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = client

	logger.Info("gemini chat client configured", zap.String("model", cfg.Model))
	return c, nil
}

// IsEnabled returns whether the client is configured and ready
func (c *GeminiClient) IsEnabled() bool {
	return c.client != nil
}

// Provider implements ChatClient
func (c *GeminiClient) Provider() string { return "gemini" }

// Model implements ChatClient
func (c *GeminiClient) Model() string { return c.config.Model }

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *GeminiClient) session() *genai.ChatSession {
	model := c.client.GenerativeModel(c.config.Model)
	model.SetTemperature(float32(c.config.Temperature))
	return model.StartChat()
}

// Reply sends message in a new chat session and returns the answer text
func (c *GeminiClient) Reply(ctx context.Context, message string) (string, error) {
	if !c.IsEnabled() {
		return "", ErrChatDisabled
	}

	resp, err := c.session().SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return extractText(resp)
}

// ReplyStream sends message in a new chat session and forwards partial answers
func (c *GeminiClient) ReplyStream(ctx context.Context, message string, callback StreamCallback) error {
	if !c.IsEnabled() {
		return ErrChatDisabled
	}

	iter := c.session().SendMessageStream(ctx, genai.Text(message))
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return callback(&StreamChunk{Done: true})
		}
		if err != nil {
			return fmt.Errorf("failed to stream content: %w", err)
		}

		text, err := extractText(resp)
		if err != nil {
			c.logger.Debug("skipping empty stream response", zap.Error(err))
			continue
		}
		if err := callback(&StreamChunk{Content: text}); err != nil {
			return fmt.Errorf("callback error: %w", err)
		}
	}
}

// extractText joins the text parts of the first candidate
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
