package chat

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"alfredoptarigan/resume-predictor/internal/logger"
	"alfredoptarigan/resume-predictor/internal/models"
)

const (
	Preamble      = "Context: ResumeAI web app user asking for career/resume help."
	FallbackReply = "Sorry, I could not generate a response."
)

// Sender delivers one chat request and returns the assistant reply.
type Sender interface {
	Send(ctx context.Context, req models.ChatRequest, apiKey string) (string, error)
}

// Widget keeps one transcript per session while the widget is open.
type Widget struct {
	sender Sender
	model  string
	log    *zap.Logger

	mu          sync.Mutex
	transcripts map[string]*Transcript
}

func NewWidget(sender Sender, model string, log *zap.Logger) *Widget {
	return &Widget{
		sender:      sender,
		model:       model,
		log:         log,
		transcripts: make(map[string]*Transcript),
	}
}

// Send appends text as a user message and forwards the whole transcript. Blank input returns
// ErrEmptyMessage without touching any state. A failed request leaves the message marked failed.
func (w *Widget) Send(ctx context.Context, sessionID, text, apiKey string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	t := w.transcript(sessionID, true)
	entry, history, err := t.Begin(text)
	if err != nil {
		return err
	}

	messages := make([]models.ChatMessage, 0, len(history)+1)
	messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: Preamble})
	messages = append(messages, history...)

	reply, err := w.sender.Send(ctx, models.ChatRequest{Model: w.model, Messages: messages}, apiKey)
	if err != nil {
		w.log.Warn("chat request failed",
			zap.Int("messages", len(messages)),
			zap.Error(err),
		)
		t.Fail(entry.ID)
		return err
	}

	if strings.TrimSpace(reply) == "" {
		reply = FallbackReply
	}
	w.log.Debug("chat reply received", zap.String("reply", logger.Truncate(reply, 80)))
	t.Resolve(entry.ID, reply)
	return nil
}

// Entries returns the session transcript, or nil when nothing was sent since the widget opened.
func (w *Widget) Entries(sessionID string) []Entry {
	if t := w.transcript(sessionID, false); t != nil {
		return t.Entries()
	}
	return nil
}

func (w *Widget) Pending(sessionID string) bool {
	if t := w.transcript(sessionID, false); t != nil {
		return t.Pending()
	}
	return false
}

// Close drops the transcript; conversations do not survive closing the widget.
func (w *Widget) Close(sessionID string) {
	w.mu.Lock()
	delete(w.transcripts, sessionID)
	w.mu.Unlock()
}

func (w *Widget) transcript(sessionID string, create bool) *Transcript {
	w.mu.Lock()
	defer w.mu.Unlock()

	t, ok := w.transcripts[sessionID]
	if !ok && create {
		t = NewTranscript()
		w.transcripts[sessionID] = t
	}
	return t
}
