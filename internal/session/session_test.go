package session

import (
	"testing"

	"github.com/docqa-tools/reviewdeck/internal/api"
)

func TestScopeChangeClearsSelection(t *testing.T) {
	s := New()
	s.SetDocuments([]api.Document{{ID: "d1"}, {ID: "d2"}, {ID: "d3"}})
	s.SetScope(api.ScopeSelectedDocs)
	s.ToggleDocument("d1", true)
	s.ToggleDocument("d2", true)
	s.ToggleDocument("d3", true)
	if got := len(s.SelectedDocumentIDs()); got != 3 {
		t.Fatalf("expected 3 selected, got %d", got)
	}
	s.SetScope(api.ScopeAllDocs)
	if got := len(s.SelectedDocumentIDs()); got != 0 {
		t.Fatalf("expected selection cleared, got %d", got)
	}
	s.SetScope(api.ScopeSelectedDocs)
	if got := len(s.SelectedDocumentIDs()); got != 0 {
		t.Fatalf("expected empty selection after returning to SELECTED_DOCS, got %d", got)
	}
}

func TestSelectAllIsNoOpOutsideSelectedScope(t *testing.T) {
	s := New()
	s.SetDocuments([]api.Document{{ID: "d1"}, {ID: "d2"}})
	s.SelectAllDocuments()
	if got := len(s.SelectedDocumentIDs()); got != 0 {
		t.Fatalf("expected no-op under ALL_DOCS, got %d selected", got)
	}
	s.SetScope(api.ScopeSelectedDocs)
	s.SelectAllDocuments()
	if got := len(s.SelectedDocumentIDs()); got != 2 {
		t.Fatalf("expected all documents selected, got %d", got)
	}
}

func TestSetGroundTruthEmptyRemovesEntryAndInclusion(t *testing.T) {
	s := New()
	s.SetGroundTruth("q1", "x")
	if !s.Included("q1") {
		t.Fatalf("expected q1 included after setting text")
	}
	s.SetGroundTruth("q1", "")
	if _, ok := s.GroundTruth("q1"); ok {
		t.Fatalf("expected q1 removed from mapping")
	}
	if s.Included("q1") {
		t.Fatalf("expected q1 removed from inclusion set")
	}
}

func TestGroundTruthKeepsInsertionOrder(t *testing.T) {
	s := New()
	s.SetGroundTruth("q1", "a")
	s.SetGroundTruth("q2", "b")
	s.SetGroundTruth("q3", "c")
	s.SetGroundTruth("q2", "b2") // update in place
	s.SetGroundTruth("q1", "")   // delete
	s.SetGroundTruth("q1", "a2") // re-add appends
	rows := s.GroundTruthRows()
	want := []string{"q2", "q3", "q1"}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i, id := range want {
		if rows[i].QuestionID != id {
			t.Fatalf("row %d: expected %s, got %s", i, id, rows[i].QuestionID)
		}
	}
	if rows[0].Text != "b2" {
		t.Fatalf("expected updated text for q2, got %q", rows[0].Text)
	}
}

func TestToggleIncludeDoesNotTouchText(t *testing.T) {
	s := New()
	s.SetGroundTruth("q1", "answer")
	s.ToggleInclude("q1", false)
	if s.Included("q1") {
		t.Fatalf("expected q1 excluded")
	}
	if text, ok := s.GroundTruth("q1"); !ok || text != "answer" {
		t.Fatalf("expected text preserved, got %q ok=%v", text, ok)
	}
}

func TestAlignEvaluationClearsOnProjectSwitch(t *testing.T) {
	s := New()
	s.AlignEvaluation("p1")
	s.SetGroundTruth("q1", "a")
	s.ToggleInclude("q2", true)
	s.AlignEvaluation("p1")
	if _, ok := s.GroundTruth("q1"); !ok {
		t.Fatalf("same project must not clear state")
	}
	s.AlignEvaluation("p2")
	if _, ok := s.GroundTruth("q1"); ok {
		t.Fatalf("expected ground truth cleared on switch")
	}
	if s.Included("q2") {
		t.Fatalf("expected inclusion cleared on switch")
	}
}

func TestReplaceAnswerTouchesOnlyMatchingEntry(t *testing.T) {
	s := New()
	answers := []api.Answer{
		{ID: "a1", ManualAnswerText: "one"},
		{ID: "a2", ManualAnswerText: "two"},
		{ID: "a3", ManualAnswerText: "three"},
	}
	s.SetProjectData(nil, answers)
	if !s.ReplaceAnswer(api.Answer{ID: "a2", ManualAnswerText: "updated"}) {
		t.Fatalf("expected replacement to succeed")
	}
	got := s.Answers()
	if got[0].ManualAnswerText != "one" || got[2].ManualAnswerText != "three" {
		t.Fatalf("expected other answers untouched: %+v", got)
	}
	if got[1].ManualAnswerText != "updated" {
		t.Fatalf("expected a2 replaced: %+v", got[1])
	}
	if s.ReplaceAnswer(api.Answer{ID: "missing"}) {
		t.Fatalf("expected no replacement for unknown id")
	}
}

func TestSortedAnswersFollowQuestionOrderIndex(t *testing.T) {
	s := New()
	s.SetProjectData(
		[]api.Question{
			{ID: "q1", OrderIndex: 2},
			{ID: "q2", OrderIndex: 0},
			{ID: "q3", OrderIndex: 1},
			{ID: "q4", OrderIndex: 1},
		},
		[]api.Answer{
			{ID: "a1", QuestionID: "q1"},
			{ID: "a3", QuestionID: "q3"},
			{ID: "a4", QuestionID: "q4"},
			{ID: "a2", QuestionID: "q2"},
		},
	)
	got := s.SortedAnswers()
	want := []string{"a2", "a3", "a4", "a1"} // ties keep backend order
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestEvaluationRowsForceIncludeAndFilter(t *testing.T) {
	s := New()
	s.SetProjectData([]api.Question{
		{ID: "q1", OrderIndex: 1, Text: "What is the termination clause?", Section: "Legal"},
		{ID: "q2", OrderIndex: 0, Text: "Who signed the contract?", Section: "Parties"},
	}, nil)
	s.SetGroundTruth("q1", "30 days notice")
	s.ToggleInclude("q1", false)

	rows := s.EvaluationRows("")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Question.ID != "q2" {
		t.Fatalf("expected order-index sort, got %s first", rows[0].Question.ID)
	}
	if !rows[1].Included {
		t.Fatalf("expected non-empty ground truth to force inclusion at render")
	}
	if !s.Included("q1") {
		t.Fatalf("expected forced inclusion persisted")
	}

	filtered := s.EvaluationRows("legal")
	if len(filtered) != 1 || filtered[0].Question.ID != "q1" {
		t.Fatalf("unexpected filter result: %+v", filtered)
	}
}

func TestClearIncludedKeepsText(t *testing.T) {
	s := New()
	s.SetGroundTruth("q1", "a")
	s.IncludeQuestions([]string{"q2", "q3"})
	s.ClearIncluded()
	if s.Included("q1") || s.Included("q2") || s.Included("q3") {
		t.Fatalf("expected inclusion set emptied")
	}
	if _, ok := s.GroundTruth("q1"); !ok {
		t.Fatalf("expected text to survive clear")
	}
}
