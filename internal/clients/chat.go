package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"alfredoptarigan/resume-predictor/internal/models"
)

// APIKeyHeader carries the user's cached credential to the chat endpoint.
const APIKeyHeader = "X-OpenAI-Api-Key"

type ChatClient struct {
	url        string
	httpClient *http.Client
}

func NewChatClient(url string, timeout time.Duration) *ChatClient {
	return &ChatClient{
		url:        url,
		httpClient: newHTTPClient(timeout),
	}
}

// Send posts the conversation and returns the assistant reply, which may be empty.
func (c *ChatClient) Send(ctx context.Context, chatReq models.ChatRequest, apiKey string) (string, error) {
	payload, err := json.Marshal(chatReq)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if key := strings.TrimSpace(apiKey); key != "" {
		req.Header.Set(APIKeyHeader, key)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apiError(resp)
	}

	var parsed models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	return parsed.Reply(), nil
}
