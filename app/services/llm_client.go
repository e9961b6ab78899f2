// Package services provides external service integrations: the LLM provider client,
// the concept generator built on it, and anonymous key verification
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/amirphl/concept-studio/config"
)

// LLM error constants
var (
	// ErrLLMUnavailable covers transport failures, timeouts and non-2xx provider responses
	ErrLLMUnavailable = errors.New("llm provider unavailable")
	// ErrMalformedLLMOutput is returned when the completion is not a usable {title, description} object
	ErrMalformedLLMOutput = errors.New("malformed llm output")
)

// ChatMessage is a single chat turn
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponseFormat constrains the completion output
type ChatResponseFormat struct {
	Type string `json:"type"`
}

// ChatRequest is the request payload for the chat completions API
type ChatRequest struct {
	Model          string              `json:"model"`
	Messages       []ChatMessage       `json:"messages"`
	Temperature    float64             `json:"temperature"`
	ResponseFormat *ChatResponseFormat `json:"response_format,omitempty"`
}

// ChatResponse is the subset of the chat completions response we consume
type ChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// LLMClient performs a single chat completion and returns the first choice's content
type LLMClient interface {
	ChatJSON(ctx context.Context, req ChatRequest) (string, error)
}

// OpenAIChatClient implements LLMClient against an OpenAI-compatible endpoint
type OpenAIChatClient struct {
	config *config.LLMConfig
	client *http.Client
}

// NewOpenAIChatClient creates a chat client. The transport timeout bounds every call.
func NewOpenAIChatClient(cfg *config.LLMConfig) LLMClient {
	return &OpenAIChatClient{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type llmHTTPError struct {
	StatusCode int
	Body       string
}

func (e *llmHTTPError) Error() string {
	return fmt.Sprintf("llm http %d: %s", e.StatusCode, e.Body)
}

// ChatJSON sends exactly one request. There is no retry; callers decide.
func (c *OpenAIChatClient) ChatJSON(ctx context.Context, chatReq ChatRequest) (string, error) {
	requestBody, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := c.config.BaseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLLMUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %w", ErrLLMUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %w", ErrLLMUnavailable, &llmHTTPError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 512)})
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(raw, &chatResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode chat response: %w", ErrLLMUnavailable, err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrLLMUnavailable)
	}

	content := chatResp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: no content returned", ErrMalformedLLMOutput)
	}

	return content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
