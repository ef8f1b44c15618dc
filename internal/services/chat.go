package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-predictor/internal/models"
)

const (
	DefaultChatModel = "gpt-4o-mini"
	chatMaxTokens    = 800
	chatTemperature  = 0.7
)

var ErrMissingAPIKey = errors.New("missing OPENAI_API_KEY")

// CompletionError wraps a provider failure so handlers can report it as-is.
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("OpenAI error: %v", e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

type ChatService interface {
	// Reply answers the conversation. overrideKey, when non-blank, replaces the server key.
	Reply(ctx context.Context, req models.ChatRequest, overrideKey string) (string, error)
}

type chatService struct {
	completer     Completer
	defaultKey    string
	requireKey    bool
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

// NewChatService builds the /chat backend. requireKey is false for providers that
// authenticate on their own (Gemini holds its key in the client).
func NewChatService(completer Completer, defaultKey string, requireKey bool, log *zap.Logger) ChatService {
	return &chatService{
		completer:     completer,
		defaultKey:    defaultKey,
		requireKey:    requireKey,
		promptBuilder: NewPromptBuilder(),
		log:           log,
	}
}

// Reply implements ChatService.
func (s *chatService) Reply(ctx context.Context, req models.ChatRequest, overrideKey string) (string, error) {
	apiKey := strings.TrimSpace(overrideKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(s.defaultKey)
	}
	if s.requireKey && apiKey == "" {
		return "", ErrMissingAPIKey
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = DefaultChatModel
	}

	reply, err := s.completer.Complete(ctx, CompletionRequest{
		APIKey:      apiKey,
		Model:       model,
		Messages:    s.promptBuilder.BuildChatMessages(req.Messages),
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	})
	if err != nil {
		s.log.Warn("chat completion failed", zap.String("model", model), zap.Error(err))
		return "", &CompletionError{Err: err}
	}

	s.log.Debug("chat completion",
		zap.String("model", model),
		zap.Int("messages", len(req.Messages)),
		zap.Bool("override_key", strings.TrimSpace(overrideKey) != ""),
	)
	return reply, nil
}
