package session

import (
	"sort"

	"github.com/docqa-tools/reviewdeck/internal/api"
)

// SetScope changes the document scope for project creation. Leaving
// SELECTED_DOCS clears the selection entirely: a selection has no meaning
// outside that scope and must not resurface on a later scope change.
func (s *Session) SetScope(scope api.ProjectScope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scope = scope
	if scope != api.ScopeSelectedDocs {
		s.selectedDocIDs = map[string]struct{}{}
	}
}

// Scope reports the current document scope.
func (s *Session) Scope() api.ProjectScope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scope
}

// ToggleDocument adds or removes one document from the selection.
func (s *Session) ToggleDocument(documentID string, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if selected {
		s.selectedDocIDs[documentID] = struct{}{}
	} else {
		delete(s.selectedDocIDs, documentID)
	}
}

// SelectAllDocuments selects every cached document. Outside SELECTED_DOCS
// scope it is a no-op.
func (s *Session) SelectAllDocuments() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scope != api.ScopeSelectedDocs {
		return
	}
	s.selectedDocIDs = make(map[string]struct{}, len(s.documents))
	for _, doc := range s.documents {
		s.selectedDocIDs[doc.ID] = struct{}{}
	}
}

// ClearDocuments empties the selection.
func (s *Session) ClearDocuments() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedDocIDs = map[string]struct{}{}
}

// DocumentSelected reports membership for one document.
func (s *Session) DocumentSelected(documentID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selectedDocIDs[documentID]
	return ok
}

// SelectedDocumentIDs returns the selection as a sorted slice.
func (s *Session) SelectedDocumentIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.selectedDocIDs))
	for id := range s.selectedDocIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
