package progress

import (
	"context"
	"sync"
)

// subscriberBuffer bounds how far a slow SSE client may lag before events
// addressed to it are dropped.
const subscriberBuffer = 32

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Broker interface {
	Publisher
	Subscribe(ctx context.Context, projectID int64) (*Subscription, error)
}

// Subscription is a handle on one subscriber. Close must be called on every
// exit path; it is safe to call more than once.
type Subscription struct {
	events    <-chan Event
	closeOnce sync.Once
	closeFn   func()
}

func newSubscription(events <-chan Event, closeFn func()) *Subscription {
	return &Subscription{events: events, closeFn: closeFn}
}

// Events is closed after Close returns.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) Close() {
	s.closeOnce.Do(s.closeFn)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
