// Package store keeps the analysis hand-off between the upload and result pages.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"alfredoptarigan/resume-predictor/internal/models"
)

// ErrNoAnalysis means the session has nothing to show on the result page.
var ErrNoAnalysis = errors.New("no analysis stored for session")

// AnalysisStore holds at most one AnalysisResult per session. Values are written and read
// whole; Load does not consume the value.
type AnalysisStore interface {
	Save(ctx context.Context, sessionID string, result *models.AnalysisResult) error
	Load(ctx context.Context, sessionID string) (*models.AnalysisResult, error)
	Clear(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

type memoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore keeps results in process. ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) AnalysisStore {
	return &memoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *memoryStore) Save(_ context.Context, sessionID string, result *models.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{data: data}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}
	m.entries[sessionID] = entry
	m.sweepLocked()
	return nil
}

func (m *memoryStore) Load(_ context.Context, sessionID string) (*models.AnalysisResult, error) {
	m.mu.Lock()
	entry, ok := m.entries[sessionID]
	if ok && m.expired(entry) {
		delete(m.entries, sessionID)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, ErrNoAnalysis
	}
	return decode(entry.data)
}

func (m *memoryStore) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.entries, sessionID)
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) expired(e memoryEntry) bool {
	return !e.expires.IsZero() && m.now().After(e.expires)
}

// sweepLocked drops expired sessions so abandoned ones do not accumulate.
func (m *memoryStore) sweepLocked() {
	for id, entry := range m.entries {
		if m.expired(entry) {
			delete(m.entries, id)
		}
	}
}

func decode(data []byte) (*models.AnalysisResult, error) {
	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &result, nil
}
