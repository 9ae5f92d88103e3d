// Package browser holds the selection state shared by the viewer and the
// downloader, and the downloader itself.
package browser

import (
	"sync"

	"jsonview/internal/document"
)

// Session is the per-run selection state: which file is current and its
// decoded content. Both change together or not at all.
type Session struct {
	mu      sync.RWMutex
	current *document.Document
}

// NewSession creates a session with nothing selected.
func NewSession() *Session {
	return &Session{}
}

// Current returns the current document, if any.
func (s *Session) Current() (*document.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}

// CurrentName returns the current file name, or "" when nothing has been
// selected yet.
func (s *Session) CurrentName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Name
}

// Commit makes doc the current selection. A nil doc is ignored.
func (s *Session) Commit(doc *document.Document) {
	if doc == nil {
		return
	}
	s.mu.Lock()
	s.current = doc
	s.mu.Unlock()
}
