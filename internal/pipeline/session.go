package pipeline

import (
	"errors"
	"sync"

	"pdfchat/internal/knowledge"
)

// ErrNoDocument means a question arrived before any document was
// loaded into the session.
var ErrNoDocument = errors.New("no document loaded")

// Session holds the single active knowledge base for one user session.
// A new document replaces the previous base wholesale; a reader either
// sees the old complete base or the new complete one, never a
// half-built index. Post-build the base itself is read-only, so
// concurrent queries against it are safe.
type Session struct {
	mu   sync.RWMutex
	base *knowledge.Base
}

// Replace swaps in a freshly built knowledge base, discarding the
// previous one.
func (s *Session) Replace(base *knowledge.Base) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = base
}

// Current returns the active knowledge base.
func (s *Session) Current() (*knowledge.Base, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.base == nil {
		return nil, ErrNoDocument
	}
	return s.base, nil
}
