// Package review reconciles reviewer edits with the backend. The visible
// answer list is always re-rendered from the authoritative server response,
// never from locally typed values, so server-enforced status transitions are
// never silently overridden.
package review

import (
	"context"

	"go.uber.org/zap"

	"github.com/docqa-tools/reviewdeck/internal/api"
)

// Reviewer is the slice of the API client this flow uses.
type Reviewer interface {
	SaveReview(ctx context.Context, answerID string, update api.ReviewUpdate) (api.Answer, error)
}

// AnswerCache swaps one cached answer for its authoritative copy.
type AnswerCache interface {
	ReplaceAnswer(updated api.Answer) bool
}

// Flow performs the save-review round trip.
type Flow struct {
	backend Reviewer
	cache   AnswerCache
	log     *zap.Logger
}

// NewFlow wires the review flow to its collaborators.
func NewFlow(backend Reviewer, cache AnswerCache, log *zap.Logger) *Flow {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flow{backend: backend, cache: cache, log: log}
}

// SaveReview sends the edited text and status to the backend and merges the
// canonical updated answer back into the cache by id. Saving a review always
// asserts the question is answerable by the reviewer. On failure nothing is
// mutated; no optimistic update exists to roll back.
func (f *Flow) SaveReview(ctx context.Context, answerID, manualText string, status api.AnswerStatus) (api.Answer, error) {
	updated, err := f.backend.SaveReview(ctx, answerID, api.ReviewUpdate{
		Status:           status,
		ManualAnswerText: manualText,
		ManualAnswerable: true,
	})
	if err != nil {
		return api.Answer{}, err
	}
	if !f.cache.ReplaceAnswer(updated) {
		f.log.Warn("saved review for answer missing from cache",
			zap.String("answer_id", updated.ID))
	}
	return updated, nil
}
