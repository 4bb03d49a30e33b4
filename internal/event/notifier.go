package event

import (
	"context"
	"errors"
	"sync"
)

// Notifier delivers events to an observer channel. Delivery happens after the
// operation's mutations have committed; a delivery failure never rolls the
// operation back.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// Nop discards all events.
type Nop struct{}

var _ Notifier = Nop{}

func (Nop) Notify(_ context.Context, _ Event) error { return nil }

// Recorder keeps events in memory, oldest first. Used in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

var _ Notifier = (*Recorder)(nil)

func (r *Recorder) Notify(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of all recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns recorded events with the given type.
func (r *Recorder) OfType(eventType string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Multi fans out each event to every child notifier. All children are
// attempted even if one fails; errors are joined.
type Multi struct {
	children []Notifier
}

// NewMulti creates a fan-out notifier.
func NewMulti(children ...Notifier) *Multi {
	return &Multi{children: children}
}

var _ Notifier = (*Multi)(nil)

func (m *Multi) Notify(ctx context.Context, e Event) error {
	var errs []error
	for _, c := range m.children {
		if err := c.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
