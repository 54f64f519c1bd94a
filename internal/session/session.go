// Package session holds the client-side state for one console run: the
// cached backend views (projects, documents, questions, answers) and the
// ephemeral selection state (document scoping, ground truth, evaluation
// inclusion). State lives in an explicit Session value passed into each flow
// rather than in package globals, so the scoping and single-flight invariants
// have no hidden coupling.
package session

import (
	"sort"
	"sync"

	"github.com/docqa-tools/reviewdeck/internal/api"
)

// Session is the mutable client state. It is safe for concurrent use: the
// render loop and the generation poller interleave on it.
type Session struct {
	mu sync.RWMutex

	currentProjectID string
	evalProjectID    string

	projects  []api.Project
	documents []api.Document
	questions []api.Question
	answers   []api.Answer

	scope          api.ProjectScope
	selectedDocIDs map[string]struct{}

	groundTruth map[string]string
	gtOrder     []string
	evalInclude map[string]struct{}
}

// New returns an empty session scoped to all documents.
func New() *Session {
	return &Session{
		scope:          api.ScopeAllDocs,
		selectedDocIDs: map[string]struct{}{},
		groundTruth:    map[string]string{},
		evalInclude:    map[string]struct{}{},
	}
}

// FocusProject marks a project as the one being viewed. Cached question and
// answer lists are not touched here; a reload replaces them wholesale.
func (s *Session) FocusProject(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentProjectID = projectID
}

// CurrentProjectID reports the project currently in focus.
func (s *Session) CurrentProjectID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentProjectID
}

// AlignEvaluation rescopes the evaluation state to projectID. Switching
// projects clears both the ground-truth mapping and the inclusion set so
// nothing leaks across projects.
func (s *Session) AlignEvaluation(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evalProjectID == projectID {
		return
	}
	s.evalProjectID = projectID
	s.groundTruth = map[string]string{}
	s.gtOrder = nil
	s.evalInclude = map[string]struct{}{}
}

// EvalProjectID reports which project the evaluation state belongs to.
func (s *Session) EvalProjectID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evalProjectID
}

// SetProjects replaces the cached project list.
func (s *Session) SetProjects(projects []api.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = projects
}

// Projects returns the cached project list.
func (s *Session) Projects() []api.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects
}

// SetDocuments replaces the cached document list.
func (s *Session) SetDocuments(documents []api.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = documents
}

// Documents returns the cached document list.
func (s *Session) Documents() []api.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.documents
}

// SetProjectData replaces the question and answer caches wholesale. This is
// the only refresh path for answers; nothing mutates them partially.
func (s *Session) SetProjectData(questions []api.Question, answers []api.Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = questions
	s.answers = answers
}

// Questions returns the cached questionnaire.
func (s *Session) Questions() []api.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.questions
}

// Answers returns the cached answer list in backend order.
func (s *Session) Answers() []api.Answer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.answers
}

// ReplaceAnswer swaps in the authoritative copy of one answer, matched by
// id. Every other cached answer is left untouched. Returns false when no
// cached answer has that id.
func (s *Session) ReplaceAnswer(updated api.Answer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.answers {
		if s.answers[i].ID == updated.ID {
			s.answers[i] = updated
			return true
		}
	}
	return false
}

// QuestionByID looks up a cached question.
func (s *Session) QuestionByID(questionID string) (api.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range s.questions {
		if q.ID == questionID {
			return q, true
		}
	}
	return api.Question{}, false
}

// SortedAnswers returns the cached answers ordered by their question's
// order index. The sort is stable: answers whose questions share an index
// keep the order the backend returned.
func (s *Session) SortedAnswers() []api.Answer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orderByQuestion := make(map[string]int, len(s.questions))
	for _, q := range s.questions {
		orderByQuestion[q.ID] = q.OrderIndex
	}
	out := make([]api.Answer, len(s.answers))
	copy(out, s.answers)
	sort.SliceStable(out, func(i, j int) bool {
		return orderByQuestion[out[i].QuestionID] < orderByQuestion[out[j].QuestionID]
	})
	return out
}
