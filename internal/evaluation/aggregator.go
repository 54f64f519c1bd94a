// Package evaluation turns the session's ground-truth selection into an
// evaluation submission and dispatches it for scoring.
package evaluation

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/docqa-tools/reviewdeck/internal/api"
	"github.com/docqa-tools/reviewdeck/internal/session"
)

// Store is the slice of the selection state the aggregator reads.
type Store interface {
	GroundTruthRows() []session.GroundTruthRow
}

// Scorer is the slice of the API client that runs evaluations.
type Scorer interface {
	Evaluate(ctx context.Context, projectID string, groundTruth []api.GroundTruthEntry) (api.EvaluationResult, error)
}

// Aggregator derives evaluation submissions from the selection store.
type Aggregator struct {
	store   Store
	backend Scorer
	log     *zap.Logger
}

// New wires an aggregator to its collaborators.
func New(store Store, backend Scorer, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{store: store, backend: backend, log: log}
}

// BuildSubmission walks the ground-truth mapping in insertion order and
// emits one entry per question that is both included and carries non-empty
// trimmed text. Insertion order, not display order, is fine: the backend
// matches entries by question id, never by position.
func (a *Aggregator) BuildSubmission() []api.GroundTruthEntry {
	rows := a.store.GroundTruthRows()
	entries := make([]api.GroundTruthEntry, 0, len(rows))
	for _, row := range rows {
		if !row.Included {
			continue
		}
		trimmed := strings.TrimSpace(row.Text)
		if trimmed == "" {
			continue
		}
		entries = append(entries, api.GroundTruthEntry{
			QuestionID: row.QuestionID,
			AnswerText: trimmed,
		})
	}
	return entries
}

// Submit builds the submission and runs the evaluation. An empty submission
// fails locally with a *api.ValidationError before any network call. The
// returned metrics are passed through verbatim for display.
func (a *Aggregator) Submit(ctx context.Context, projectID string) (api.EvaluationResult, error) {
	entries := a.BuildSubmission()
	if len(entries) == 0 {
		return api.EvaluationResult{}, api.NewValidationError("select at least one question and enter an answer")
	}
	a.log.Info("submitting evaluation",
		zap.String("project_id", projectID),
		zap.Int("entries", len(entries)))
	return a.backend.Evaluate(ctx, projectID, entries)
}
