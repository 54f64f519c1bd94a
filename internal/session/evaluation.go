package session

import (
	"sort"
	"strings"

	"github.com/docqa-tools/reviewdeck/internal/api"
)

// GroundTruthRow is one entry of the ground-truth mapping in insertion
// order, annotated with its inclusion flag.
type GroundTruthRow struct {
	QuestionID string
	Text       string
	Included   bool
}

// EvaluationRow is the render snapshot for one question in the evaluation
// pane.
type EvaluationRow struct {
	Question    api.Question
	GroundTruth string
	Included    bool
}

// SetGroundTruth records reviewer-supplied correct answer text for a
// question. A non-empty trimmed value stores the text and includes the
// question; an empty one deletes the entry and un-includes it. This is the
// only path that couples the mapping and the inclusion set.
//
// Insertion order is preserved for submission building: updating an existing
// entry keeps its slot, deleting and re-adding appends.
func (s *Session) SetGroundTruth(questionID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(text) == "" {
		if _, ok := s.groundTruth[questionID]; ok {
			delete(s.groundTruth, questionID)
			s.gtOrder = removeID(s.gtOrder, questionID)
		}
		delete(s.evalInclude, questionID)
		return
	}
	if _, ok := s.groundTruth[questionID]; !ok {
		s.gtOrder = append(s.gtOrder, questionID)
	}
	s.groundTruth[questionID] = text
	s.evalInclude[questionID] = struct{}{}
}

// GroundTruth returns the stored text for a question, if any.
func (s *Session) GroundTruth(questionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.groundTruth[questionID]
	return text, ok
}

// ToggleInclude sets or clears a question's evaluation inclusion flag. The
// text mapping is deliberately untouched: unchecking keeps typed text around
// for re-inclusion, and checking without text includes a pending entry that
// the submission builder will still skip.
func (s *Session) ToggleInclude(questionID string, included bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if included {
		s.evalInclude[questionID] = struct{}{}
	} else {
		delete(s.evalInclude, questionID)
	}
}

// Included reports a question's inclusion flag.
func (s *Session) Included(questionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.evalInclude[questionID]
	return ok
}

// IncludeQuestions marks every given question for submission.
func (s *Session) IncludeQuestions(questionIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range questionIDs {
		s.evalInclude[id] = struct{}{}
	}
}

// ClearIncluded empties the inclusion set. Ground-truth text survives.
func (s *Session) ClearIncluded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evalInclude = map[string]struct{}{}
}

// GroundTruthRows snapshots the mapping in insertion order.
func (s *Session) GroundTruthRows() []GroundTruthRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]GroundTruthRow, 0, len(s.gtOrder))
	for _, id := range s.gtOrder {
		text, ok := s.groundTruth[id]
		if !ok {
			continue
		}
		_, included := s.evalInclude[id]
		rows = append(rows, GroundTruthRow{QuestionID: id, Text: text, Included: included})
	}
	return rows
}

// EvaluationRows builds the evaluation pane's view: questions sorted by
// order index and filtered by a case-insensitive match on section or text.
// Any question holding non-empty trimmed ground truth is forced into the
// inclusion set here; the auto-include is one-directional, so clearing text
// elsewhere is what removes the flag, never this snapshot.
func (s *Session) EvaluationRows(query string) []EvaluationRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	sorted := make([]api.Question, len(s.questions))
	copy(sorted, s.questions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderIndex < sorted[j].OrderIndex
	})
	query = strings.ToLower(strings.TrimSpace(query))
	rows := make([]EvaluationRow, 0, len(sorted))
	for _, q := range sorted {
		if query != "" &&
			!strings.Contains(strings.ToLower(q.Section), query) &&
			!strings.Contains(strings.ToLower(q.Text), query) {
			continue
		}
		text := s.groundTruth[q.ID]
		_, included := s.evalInclude[q.ID]
		if !included && strings.TrimSpace(text) != "" {
			included = true
			s.evalInclude[q.ID] = struct{}{}
		}
		rows = append(rows, EvaluationRow{Question: q, GroundTruth: text, Included: included})
	}
	return rows
}

func removeID(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
