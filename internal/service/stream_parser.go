package service

import (
	"encoding/json"
	"strings"
)

// StreamChunkParser is the interface for provider-specific chunk parsing
type StreamChunkParser interface {
	ParseChunk(data []byte) (*StreamChunk, error)
}

// deltaChunk is the OpenAI-format streaming payload. reasoning_content is only
// sent by DeepSeek-style models hosted on NVIDIA.
type deltaChunk struct {
	Choices []struct {
		Delta struct {
			Content          string  `json:"content,omitempty"`
			ReasoningContent *string `json:"reasoning_content,omitempty"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason,omitempty"`
	} `json:"choices"`
}

// OpenAIStreamChunkParser parses standard OpenAI-format streaming chunks
type OpenAIStreamChunkParser struct{}

// ParseChunk converts a standard OpenAI chunk to a StreamChunk
func (p *OpenAIStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	chunk, _, err := parseDelta(data)
	return chunk, err
}

// NVIDIAStreamChunkParser also keeps reasoning_content as thinking output
type NVIDIAStreamChunkParser struct{}

// ParseChunk converts an NVIDIA/DeepSeek chunk to a StreamChunk
func (p *NVIDIAStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	chunk, reasoning, err := parseDelta(data)
	if err != nil {
		return nil, err
	}
	chunk.ThinkingContent = reasoning
	return chunk, nil
}

func parseDelta(data []byte) (*StreamChunk, string, error) {
	var raw deltaChunk
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, "", err
	}

	chunk := &StreamChunk{}
	var reasoning string
	if len(raw.Choices) > 0 {
		choice := raw.Choices[0]
		chunk.Content = choice.Delta.Content
		chunk.Done = choice.FinishReason != nil && *choice.FinishReason != ""
		if choice.Delta.ReasoningContent != nil {
			reasoning = *choice.Delta.ReasoningContent
		}
	}
	return chunk, reasoning, nil
}

// IsNVIDIAProvider checks if the base URL is the NVIDIA API
func IsNVIDIAProvider(baseURL string) bool {
	return strings.Contains(baseURL, "integrate.api.nvidia.com")
}

// chunkParserFor picks the parser that matches the API host
func chunkParserFor(baseURL string) StreamChunkParser {
	if IsNVIDIAProvider(baseURL) {
		return &NVIDIAStreamChunkParser{}
	}
	return &OpenAIStreamChunkParser{}
}
