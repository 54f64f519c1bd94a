package tui

import (
	"context"
	"testing"

	"github.com/docqa-tools/reviewdeck/internal/api"
	"github.com/docqa-tools/reviewdeck/internal/session"
)

func TestEventBridgeDropsInsteadOfBlocking(t *testing.T) {
	bridge := NewEventBridge()
	for i := 0; i < 100; i++ {
		bridge.GenerationProgress(api.Project{ID: "p1", Status: api.ProjectGenerating})
	}
	// The loop above would deadlock if sends blocked on a full buffer.
	drained := 0
	for {
		select {
		case <-bridge.Events():
			drained++
			continue
		default:
		}
		break
	}
	if drained == 0 {
		t.Fatal("expected buffered events")
	}
}

func TestStatusIndexOfUnknownDefaultsToFirst(t *testing.T) {
	if got := statusIndexOf(api.AnswerStatus("BOGUS")); got != 0 {
		t.Fatalf("statusIndexOf = %d, want 0", got)
	}
	if got := statusIndexOf(api.AnswerRejected); api.ReviewStatuses[got] != api.AnswerRejected {
		t.Fatalf("statusIndexOf returned wrong slot %d", got)
	}
}

func TestClampStaysInBounds(t *testing.T) {
	cases := []struct {
		value, length, want int
	}{
		{-1, 5, 0},
		{0, 0, 0},
		{4, 5, 4},
		{7, 5, 4},
	}
	for _, c := range cases {
		if got := clamp(c.value, c.length); got != c.want {
			t.Fatalf("clamp(%d, %d) = %d, want %d", c.value, c.length, got, c.want)
		}
	}
}

func TestTruncateFlattensNewlines(t *testing.T) {
	got := truncate("line one\nline two", 50)
	if got != "line one line two" {
		t.Fatalf("truncate = %q", got)
	}
	short := truncate("abcdefgh", 5)
	if len([]rune(short)) != 5 {
		t.Fatalf("truncated length = %d, want 5", len([]rune(short)))
	}
}

func TestGenerationEventRefreshesEvaluationRows(t *testing.T) {
	sess := session.New()
	sess.FocusProject("p1")
	sess.SetProjectData(
		[]api.Question{{ID: "q1", Text: "First?", OrderIndex: 0}},
		[]api.Answer{{ID: "a1", QuestionID: "q1"}},
	)

	app := New(context.Background(), Deps{
		Session: sess,
		Events:  make(chan GenerationEvent, 1),
	})
	model, _ := app.handleGenerationEvent(GenerationEvent{
		Kind:    GenerationDone,
		Project: api.Project{ID: "p1", Status: api.ProjectReview},
	})
	got := model.(*App)
	if len(got.evalRows) != 1 {
		t.Fatalf("evalRows = %d, want 1", len(got.evalRows))
	}
}
