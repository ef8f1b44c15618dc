// Package chat holds the per-session chat widget state and forwards messages to the chat api.
package chat

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/resume-predictor/internal/models"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("a message is already being sent")
)

// State is the delivery state of a user message. Assistant replies are always resolved.
type State string

const (
	StatePending  State = "pending"
	StateResolved State = "resolved"
	StateFailed   State = "failed"
)

type Entry struct {
	ID      string
	Role    string
	Content string
	State   State
}

// Transcript is an append-only, ordered message list for one open widget.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Begin appends content as a pending user message and returns it together with the
// history to send, which ends with that message. Only one message may be pending.
func (t *Transcript) Begin(content string) (Entry, []models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Entry{}, nil, ErrEmptyMessage
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range t.entries {
		if e.State == StatePending {
			return Entry{}, nil, ErrBusy
		}
	}

	entry := Entry{
		ID:      uuid.NewString(),
		Role:    models.RoleUser,
		Content: content,
		State:   StatePending,
	}
	t.entries = append(t.entries, entry)

	history := make([]models.ChatMessage, 0, len(t.entries))
	for _, e := range t.entries {
		history = append(history, models.ChatMessage{Role: e.Role, Content: e.Content})
	}
	return entry, history, nil
}

// Resolve marks the user message delivered and appends the assistant reply after it.
func (t *Transcript) Resolve(id, reply string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.setState(id, StateResolved) {
		return
	}
	t.entries = append(t.entries, Entry{
		ID:      uuid.NewString(),
		Role:    models.RoleAssistant,
		Content: reply,
		State:   StateResolved,
	})
}

// Fail marks the user message failed. It stays in the transcript.
func (t *Transcript) Fail(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setState(id, StateFailed)
}

func (t *Transcript) setState(id string, state State) bool {
	for i := range t.entries {
		if t.entries[i].ID == id && t.entries[i].State == StatePending {
			t.entries[i].State = state
			return true
		}
	}
	return false
}

func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Pending reports whether a reply is outstanding, i.e. the typing indicator is shown.
func (t *Transcript) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.entries {
		if e.State == StatePending {
			return true
		}
	}
	return false
}
