package server

import (
	"sync"
	"time"

	"github.com/smartdevs17/evaluation-logger/internal/models"
	"github.com/smartdevs17/evaluation-logger/pkg/utils"
)

// HistoryEntry is one submitted record as shown on the dashboard
type HistoryEntry struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Record    models.LogRecord `json:"record"`
	Success   bool             `json:"success"`
	Detail    string           `json:"detail,omitempty"`
}

// History keeps the most recent submissions, newest first
type History struct {
	mu      sync.RWMutex
	entries []HistoryEntry
	limit   int
}

// NewHistory creates a history holding at most limit entries
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 50
	}
	return &History{limit: limit}
}

// Add records a submission and evicts the oldest entry once full
func (h *History) Add(record models.LogRecord, result models.SubmissionResult) HistoryEntry {
	entry := HistoryEntry{
		ID:        utils.GenerateID(),
		Timestamp: time.Now().UTC(),
		Record:    record,
		Success:   result.Success,
		Detail:    result.Message,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append([]HistoryEntry{entry}, h.entries...)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
	return entry
}

// List returns a copy of the entries, newest first
func (h *History) List() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clear removes all entries
func (h *History) Clear() {
	h.mu.Lock()
	h.entries = nil
	h.mu.Unlock()
}

// Len returns the number of entries
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
