package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDoDecodesJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Request-ID"); got == "" {
			t.Errorf("expected X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"doc-1","filename":"a.pdf","status":"INDEXED"}]`)
	}))
	defer srv.Close()
	client := mustClient(t, srv.URL)
	docs, err := client.Documents(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "doc-1" || docs[0].Status != DocumentIndexed {
		t.Fatalf("unexpected documents: %+v", docs)
	}
}

func TestDoSurfacesDetailFromStructuredError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"detail":"project is still parsing"}`)
	}))
	defer srv.Close()
	client := mustClient(t, srv.URL)
	_, err := client.Project(context.Background(), "p1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
	if apiErr.Message != "project is still parsing" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}

func TestDoFallsBackToRawBodyOnUnstructuredError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream exploded")
	}))
	defer srv.Close()
	client := mustClient(t, srv.URL)
	_, err := client.Projects(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Message != "upstream exploded" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}

func TestDoWrapsUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := mustClient(t, srv.URL)
	err := client.GenerateAnswers(context.Background(), "p1")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
}

func TestSaveReviewSendsPatchBody(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody ReviewUpdate
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"ans-1","question_id":"q1","status":"CONFIRMED","manual_answer_text":"server copy"}`)
	}))
	defer srv.Close()
	client := mustClient(t, srv.URL)
	answer, err := client.SaveReview(context.Background(), "ans-1", ReviewUpdate{
		Status:           AnswerConfirmed,
		ManualAnswerText: "edited",
		ManualAnswerable: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/answers/ans-1/review" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
	if !gotBody.ManualAnswerable || gotBody.Status != AnswerConfirmed {
		t.Fatalf("unexpected body: %+v", gotBody)
	}
	if answer.ManualAnswerText != "server copy" {
		t.Fatalf("expected server response to win, got %q", answer.ManualAnswerText)
	}
}

func TestEvaluateWrapsGroundTruth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			GroundTruth []GroundTruthEntry `json:"ground_truth"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if len(body.GroundTruth) != 2 {
			t.Errorf("expected 2 entries, got %d", len(body.GroundTruth))
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"evaluation":{"metrics":{"accuracy":0.5}}}`)
	}))
	defer srv.Close()
	client := mustClient(t, srv.URL)
	result, err := client.Evaluate(context.Background(), "p1", []GroundTruthEntry{
		{QuestionID: "q1", AnswerText: "yes"},
		{QuestionID: "q2", AnswerText: "no"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Evaluation.Metrics["accuracy"] != 0.5 {
		t.Fatalf("unexpected metrics: %+v", result.Evaluation.Metrics)
	}
}

func mustClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New(baseURL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}
