// Package events carries domain notifications out of the service layer.
// Delivery (mail, queues) happens in other processes subscribed to the
// channel; publishers here only hand the payload off.
package events

import (
	"context"
	"sync"
)

const (
	NameUserCreated       = "user.created"
	NameResetUserPassword = "reset.user.password"
)

// Event is a domain notification. EventName selects the outbound channel.
type Event interface {
	EventName() string
}

// UserCreated is emitted once per created account. TemporaryPassword is the
// only copy of the generated plaintext.
type UserCreated struct {
	Name              string `json:"name"`
	Username          string `json:"username"`
	TemporaryPassword string `json:"temporaryPassword"`
	Email             string `json:"email,omitempty"`
}

func (UserCreated) EventName() string { return NameUserCreated }

type ResetUserPassword struct {
	Name              string `json:"name"`
	Email             string `json:"email,omitempty"`
	TemporaryPassword string `json:"temporaryPassword"`
}

func (ResetUserPassword) EventName() string { return NameResetUserPassword }

// Publisher hands events to the outbound channel.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, e Event) error

func (f PublisherFunc) Publish(ctx context.Context, e Event) error { return f(ctx, e) }

// Recorder keeps every published event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of the recorded events in publish order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
