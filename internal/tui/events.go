package tui

import "github.com/docqa-tools/reviewdeck/internal/api"

// GenerationEventKind classifies outcomes of the background status poll.
type GenerationEventKind int

const (
	GenerationProgressed GenerationEventKind = iota
	GenerationDone
	GenerationErrored
)

// GenerationEvent is one outcome delivered from the poller goroutine to
// the bubbletea loop.
type GenerationEvent struct {
	Kind    GenerationEventKind
	Project api.Project
	Err     error
}

// EventBridge adapts the poller's notification callbacks onto a channel
// the TUI drains with a listen command. Sends never block: if the UI
// falls behind, intermediate progress events are dropped rather than
// stalling the poll loop.
type EventBridge struct {
	ch chan GenerationEvent
}

// NewEventBridge builds a bridge with a buffer large enough to absorb a
// full polling run.
func NewEventBridge() *EventBridge {
	return &EventBridge{ch: make(chan GenerationEvent, 32)}
}

// Events exposes the channel the TUI listens on.
func (b *EventBridge) Events() chan GenerationEvent {
	return b.ch
}

func (b *EventBridge) GenerationProgress(project api.Project) {
	b.send(GenerationEvent{Kind: GenerationProgressed, Project: project})
}

func (b *EventBridge) GenerationFinished(project api.Project) {
	b.send(GenerationEvent{Kind: GenerationDone, Project: project})
}

func (b *EventBridge) GenerationFailed(err error) {
	b.send(GenerationEvent{Kind: GenerationErrored, Err: err})
}

func (b *EventBridge) send(event GenerationEvent) {
	select {
	case b.ch <- event:
	default:
	}
}
