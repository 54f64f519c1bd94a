package review

import (
	"context"
	"errors"
	"testing"

	"github.com/docqa-tools/reviewdeck/internal/api"
	"github.com/docqa-tools/reviewdeck/internal/session"
)

type fakeReviewer struct {
	err     error
	got     api.ReviewUpdate
	gotID   string
	respond api.Answer
}

func (f *fakeReviewer) SaveReview(ctx context.Context, answerID string, update api.ReviewUpdate) (api.Answer, error) {
	f.gotID = answerID
	f.got = update
	if f.err != nil {
		return api.Answer{}, f.err
	}
	return f.respond, nil
}

func TestSaveReviewMergesServerResponse(t *testing.T) {
	sess := session.New()
	sess.SetProjectData(nil, []api.Answer{
		{ID: "a1", ManualAnswerText: "old", Status: api.AnswerPending},
		{ID: "a2", ManualAnswerText: "keep", Status: api.AnswerPending},
	})
	server := api.Answer{ID: "a1", ManualAnswerText: "server text", Status: api.AnswerManualUpdated}
	backend := &fakeReviewer{respond: server}
	flow := NewFlow(backend, sess, nil)

	got, err := flow.SaveReview(context.Background(), "a1", "typed text", api.AnswerConfirmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !backend.got.ManualAnswerable {
		t.Fatalf("expected implicit answerable assertion")
	}
	if backend.got.ManualAnswerText != "typed text" || backend.got.Status != api.AnswerConfirmed {
		t.Fatalf("unexpected update sent: %+v", backend.got)
	}
	// The server's copy wins, including its status transition.
	if got.ManualAnswerText != "server text" || got.Status != api.AnswerManualUpdated {
		t.Fatalf("expected server response returned, got %+v", got)
	}
	answers := sess.Answers()
	if answers[0].ManualAnswerText != "server text" {
		t.Fatalf("expected cache merged from server response, got %+v", answers[0])
	}
	if answers[1].ManualAnswerText != "keep" {
		t.Fatalf("expected other answers untouched, got %+v", answers[1])
	}
}

func TestSaveReviewFailureLeavesCacheAlone(t *testing.T) {
	sess := session.New()
	sess.SetProjectData(nil, []api.Answer{{ID: "a1", ManualAnswerText: "old"}})
	backend := &fakeReviewer{err: errors.New("rejected")}
	flow := NewFlow(backend, sess, nil)

	if _, err := flow.SaveReview(context.Background(), "a1", "typed", api.AnswerConfirmed); err == nil {
		t.Fatalf("expected error")
	}
	if sess.Answers()[0].ManualAnswerText != "old" {
		t.Fatalf("expected no mutation on failure")
	}
}
