// Package generation drives the client side of answer generation: a bounded,
// cancellable polling loop that reconciles project status after the backend
// accepts a generation request. Generation is a long-running server-owned
// job with no push channel, so the client polls on a fixed cadence with a
// hard attempt cap; the cap is the only bound on total polling duration.
package generation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/docqa-tools/reviewdeck/internal/api"
)

const (
	defaultInterval    = 2 * time.Second
	defaultMaxAttempts = 20
)

// StatusFetcher fetches one project's current detail.
type StatusFetcher interface {
	Project(ctx context.Context, projectID string) (api.Project, error)
}

// Reloader performs the full project reload (detail, questions, answers).
// Only completion and exhaustion trigger it; intermediate iterations touch
// project status alone to avoid redundant answer fetches.
type Reloader interface {
	LoadProject(ctx context.Context, projectID string) (api.Project, error)
}

// Focus reports which project the user is currently viewing. The loop
// checks it once per iteration boundary; cancellation is cooperative, never
// preemptive, so an in-flight fetch always completes.
type Focus interface {
	CurrentProjectID() string
}

// Notifier receives the loop's user-facing outcomes.
type Notifier interface {
	// GenerationProgress fires after each status fetch that still reports
	// GENERATING.
	GenerationProgress(project api.Project)
	// GenerationFinished fires after the final reload, whether the status
	// settled or the attempt cap ran out.
	GenerationFinished(project api.Project)
	// GenerationFailed fires when a status fetch or the final reload fails;
	// the loop stops without retrying.
	GenerationFailed(err error)
}

// Poller is the generation polling state machine. Its states are idle and
// polling; every terminal path returns it to idle. At most one loop may be
// active at a time: Start while polling is a no-op.
type Poller struct {
	backend  StatusFetcher
	reloader Reloader
	focus    Focus
	notifier Notifier
	log      *zap.Logger

	interval    time.Duration
	maxAttempts int
	sleep       func(ctx context.Context, d time.Duration) bool

	mu     sync.Mutex
	active bool
}

// Option customizes poller construction.
type Option func(*Poller)

// WithInterval overrides the wait between iterations.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithMaxAttempts overrides the iteration cap.
func WithMaxAttempts(n int) Option {
	return func(p *Poller) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithLogger attaches a logger for loop diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(p *Poller) {
		if log != nil {
			p.log = log
		}
	}
}

// WithSleeper replaces the inter-iteration wait (for tests).
func WithSleeper(sleep func(ctx context.Context, d time.Duration) bool) Option {
	return func(p *Poller) {
		if sleep != nil {
			p.sleep = sleep
		}
	}
}

// New wires a poller to its collaborators.
func New(backend StatusFetcher, reloader Reloader, focus Focus, notifier Notifier, opts ...Option) *Poller {
	p := &Poller{
		backend:     backend,
		reloader:    reloader,
		focus:       focus,
		notifier:    notifier,
		log:         zap.NewNop(),
		interval:    defaultInterval,
		maxAttempts: defaultMaxAttempts,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Active reports whether a polling loop is running.
func (p *Poller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Start launches the polling loop for projectID. It returns false without
// doing anything when a loop is already active; rapid repeated generation
// requests coalesce into the one running loop.
func (p *Poller) Start(ctx context.Context, projectID string) bool {
	p.mu.Lock()
	if p.active {
		p.mu.Unlock()
		return false
	}
	p.active = true
	p.mu.Unlock()
	go func() {
		defer func() {
			p.mu.Lock()
			p.active = false
			p.mu.Unlock()
		}()
		p.run(ctx, projectID)
	}()
	return true
}

func (p *Poller) run(ctx context.Context, projectID string) {
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		// Abort silently when the user moved on: the newly focused project
		// owns its own state, so no reconciliation happens here.
		if p.focus.CurrentProjectID() != projectID {
			p.log.Info("generation polling aborted, focus changed",
				zap.String("project_id", projectID),
				zap.Int("attempt", attempt))
			return
		}
		if !p.sleep(ctx, p.interval) {
			return
		}
		project, err := p.backend.Project(ctx, projectID)
		if err != nil {
			p.log.Warn("generation status fetch failed",
				zap.String("project_id", projectID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			p.notifier.GenerationFailed(err)
			return
		}
		if project.Status != api.ProjectGenerating {
			p.finish(ctx, projectID)
			return
		}
		p.notifier.GenerationProgress(project)
	}
	// Attempt cap reached with the backend still generating: give up and
	// resync to whatever the server now reports.
	p.log.Info("generation polling exhausted",
		zap.String("project_id", projectID),
		zap.Int("attempts", p.maxAttempts))
	p.finish(ctx, projectID)
}

func (p *Poller) finish(ctx context.Context, projectID string) {
	project, err := p.reloader.LoadProject(ctx, projectID)
	if err != nil {
		p.notifier.GenerationFailed(err)
		return
	}
	p.notifier.GenerationFinished(project)
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
