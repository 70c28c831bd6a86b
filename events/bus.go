// Package events is an in-process publish/subscribe channel for analysis
// lifecycle notifications. Interested parties subscribe explicitly instead of
// watching shared state for changes, so delivery order is publish order and
// nothing depends on incidental timing.
package events

import (
	"sync"
	"time"
)

// Event names published by the client.
const (
	UploadStarted     = "upload_started"
	UploadCompleted   = "upload_completed"
	AnalysisStarted   = "analysis_started"
	StepChanged       = "step_changed"
	StageChanged      = "stage_changed"
	AnalysisCompleted = "analysis_completed"
	AnalysisFailed    = "analysis_failed"
	ScoreChanged      = "score_changed"
	TrackDeleted      = "track_deleted"
	FeedbackSent      = "feedback_sent"
)

// Event is one notification. Fields carries event-specific payload; the map
// is owned by the publisher and must not be mutated by subscribers.
type Event struct {
	Name    string
	TrackID string
	Time    time.Time
	Fields  map[string]interface{}
}

// Handler receives events synchronously on the publisher's goroutine.
// Handlers must be quick; anything slow belongs on the handler's own
// goroutine.
type Handler func(Event)

// Bus fans events out to subscribers in subscription order. Safe for
// concurrent use.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id      int
	name    string // empty matches every event
	handler Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for events with the given name; an empty
// name matches all events. The returned function removes the subscription.
func (b *Bus) Subscribe(name string, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, name: name, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to matching subscribers, in subscription order,
// before returning. Time is stamped if the publisher left it zero.
func (b *Bus) Publish(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	b.mu.RLock()
	matched := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.name == "" || s.name == ev.Name {
			matched = append(matched, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range matched {
		h(ev)
	}
}
