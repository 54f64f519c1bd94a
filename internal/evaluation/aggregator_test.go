package evaluation

import (
	"context"
	"errors"
	"testing"

	"github.com/docqa-tools/reviewdeck/internal/api"
	"github.com/docqa-tools/reviewdeck/internal/session"
)

type fakeScorer struct {
	calls int
	got   []api.GroundTruthEntry
}

func (f *fakeScorer) Evaluate(ctx context.Context, projectID string, groundTruth []api.GroundTruthEntry) (api.EvaluationResult, error) {
	f.calls++
	f.got = groundTruth
	var result api.EvaluationResult
	result.Evaluation.Metrics = map[string]any{"accuracy": 1.0}
	return result, nil
}

func TestBuildSubmissionFiltersAndTrims(t *testing.T) {
	sess := session.New()
	sess.SetGroundTruth("q1", "  first answer  ")
	sess.SetGroundTruth("q2", "second")
	sess.ToggleInclude("q2", false)     // has text but excluded
	sess.ToggleInclude("q3", true)      // included but no text
	sess.SetGroundTruth("q4", "fourth") // included with text
	agg := New(sess, &fakeScorer{}, nil)

	entries := agg.BuildSubmission()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].QuestionID != "q1" || entries[0].AnswerText != "first answer" {
		t.Fatalf("expected trimmed q1 first, got %+v", entries[0])
	}
	if entries[1].QuestionID != "q4" {
		t.Fatalf("expected q4 second, got %+v", entries[1])
	}
}

func TestBuildSubmissionEmitsEachQuestionOnce(t *testing.T) {
	sess := session.New()
	sess.SetGroundTruth("q1", "a")
	sess.SetGroundTruth("q1", "b")
	sess.SetGroundTruth("q1", "c")
	agg := New(sess, &fakeScorer{}, nil)
	entries := agg.BuildSubmission()
	if len(entries) != 1 || entries[0].AnswerText != "c" {
		t.Fatalf("expected single latest entry, got %+v", entries)
	}
}

func TestSubmitEmptyFailsLocally(t *testing.T) {
	sess := session.New()
	sess.ToggleInclude("q1", true) // included, but no ground truth text
	scorer := &fakeScorer{}
	agg := New(sess, scorer, nil)

	_, err := agg.Submit(context.Background(), "p1")
	var vErr *api.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *api.ValidationError, got %T: %v", err, err)
	}
	if scorer.calls != 0 {
		t.Fatalf("expected zero network calls, got %d", scorer.calls)
	}
}

func TestSubmitDispatchesBuiltEntries(t *testing.T) {
	sess := session.New()
	sess.SetGroundTruth("q1", "yes")
	scorer := &fakeScorer{}
	agg := New(sess, scorer, nil)

	result, err := agg.Submit(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scorer.calls != 1 || len(scorer.got) != 1 {
		t.Fatalf("unexpected dispatch: calls=%d entries=%+v", scorer.calls, scorer.got)
	}
	if result.Evaluation.Metrics["accuracy"] != 1.0 {
		t.Fatalf("expected metrics passed through, got %+v", result.Evaluation.Metrics)
	}
}
