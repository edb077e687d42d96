package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"medpremium/internal/model"
	"medpremium/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler relays single messages to the hosted chat model
type ChatHandler struct {
	client  service.ChatClient
	timeout time.Duration
	logger  *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(client service.ChatClient, timeout time.Duration, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

func (h *ChatHandler) bind(c *gin.Context) (string, bool) {
	if !h.client.IsEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Chat is not configured"})
		return "", false
	}

	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return "", false
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message must not be empty"})
		return "", false
	}
	return msg, true
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	msg, ok := h.bind(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	reply, err := h.client.Reply(ctx, msg)
	if err != nil {
		h.logger.Warn("chat reply failed", zap.String("provider", h.client.Provider()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Chat failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.ChatResponse{
		Reply:    reply,
		Provider: h.client.Provider(),
		Model:    h.client.Model(),
	})
}

// ChatStream handles POST /api/v1/chat/stream - SSE streaming reply
func (h *ChatHandler) ChatStream(c *gin.Context) {
	msg, ok := h.bind(c)
	if !ok {
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	sendSSE(c, "start", map[string]any{"provider": h.client.Provider(), "model": h.client.Model()})
	flusher.Flush()

	var reply strings.Builder
	err := h.client.ReplyStream(ctx, msg, func(chunk *service.StreamChunk) error {
		if chunk.Content == "" && chunk.ThinkingContent == "" {
			return nil
		}
		reply.WriteString(chunk.Content)
		sendSSE(c, "chunk", map[string]any{"content": chunk.Content, "thinking": chunk.ThinkingContent})
		flusher.Flush()
		return nil
	})
	if err != nil {
		h.logger.Warn("chat stream failed", zap.String("provider", h.client.Provider()), zap.Error(err))
		sendSSE(c, "error", map[string]any{"error": err.Error()})
		flusher.Flush()
		return
	}

	sendSSE(c, "done", map[string]any{"reply": reply.String()})
	flusher.Flush()
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data == nil {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
		return
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, jsonData)
}
