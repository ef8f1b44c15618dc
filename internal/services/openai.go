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
	"time"

	"alfredoptarigan/resume-predictor/internal/models"
)

var openAIURL = "https://api.openai.com/v1/chat/completions"

// CompletionRequest is a provider-neutral chat completion call.
type CompletionRequest struct {
	APIKey      string
	Model       string
	Messages    []models.ChatMessage
	MaxTokens   int
	Temperature float32
}

// Completer is one LLM backend for POST /chat.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// OpenAIClient calls Chat Completions with the key carried by each request.
type OpenAIClient struct {
	httpClient *http.Client
}

func NewOpenAIClient(timeout time.Duration) *OpenAIClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OpenAIClient{httpClient: &http.Client{Timeout: timeout}}
}

type openAIRequest struct {
	Model       string               `json:"model"`
	Messages    []models.ChatMessage `json:"messages"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
	Temperature float32              `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message models.ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete implements Completer.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return "", ErrMissingAPIKey
	}

	payload, err := json.Marshal(openAIRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("openai response parse (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("openai status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

var _ Completer = (*OpenAIClient)(nil)
