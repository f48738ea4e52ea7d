package theming

import (
	"sync"

	"github.com/codr1/folio/internal/models"
)

const DefaultHistorySize = 20

// History is a bounded linear undo/redo buffer of applied documents. It does
// not apply anything itself; callers pass the returned document to
// Store.Apply.
type History struct {
	mu      sync.Mutex
	max     int
	entries []models.Document
	cursor  int
}

// NewHistory returns an empty history holding at most max entries
// (DefaultHistorySize when max <= 0).
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &History{max: max, cursor: -1}
}

// Push records doc as the newest entry. Entries after the cursor are
// discarded first, and the oldest entries are trimmed past the limit.
func (h *History) Push(doc models.Document) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries[:h.cursor+1], doc.Clone())
	if overflow := len(h.entries) - h.max; overflow > 0 {
		trimmed := make([]models.Document, h.max)
		copy(trimmed, h.entries[overflow:])
		h.entries = trimmed
	}
	h.cursor = len(h.entries) - 1
}

// Undo steps back one entry. ok is false when already at the oldest entry.
func (h *History) Undo() (doc models.Document, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor <= 0 {
		return models.Document{}, false
	}
	h.cursor--
	return h.entries[h.cursor].Clone(), true
}

// Redo steps forward one entry. ok is false when already at the newest entry.
func (h *History) Redo() (doc models.Document, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor >= len(h.entries)-1 {
		return models.Document{}, false
	}
	h.cursor++
	return h.entries[h.cursor].Clone(), true
}

func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor > 0
}

func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor < len(h.entries)-1
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Cursor is the index of the current entry, -1 when empty.
func (h *History) Cursor() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor
}

func (h *History) Max() int {
	return h.max
}
