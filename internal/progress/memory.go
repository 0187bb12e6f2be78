package progress

import (
	"context"
	"log/slog"
	"sync"
)

type memorySubscriber struct {
	ch chan Event
}

// MemoryBroker fans events out to subscribers in the same process. Publish
// never blocks on a slow subscriber.
type MemoryBroker struct {
	mu          sync.RWMutex
	subscribers map[int64]map[*memorySubscriber]struct{}
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subscribers: make(map[int64]map[*memorySubscriber]struct{})}
}

func (b *MemoryBroker) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers[event.ProjectID] {
		select {
		case sub.ch <- event:
		default:
			slog.WarnContext(ctx, "dropping progress event for slow subscriber",
				"project_id", event.ProjectID,
				"status", event.Status)
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, projectID int64) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub := &memorySubscriber{ch: make(chan Event, subscriberBuffer)}

	b.mu.Lock()
	if b.subscribers[projectID] == nil {
		b.subscribers[projectID] = make(map[*memorySubscriber]struct{})
	}
	b.subscribers[projectID][sub] = struct{}{}
	b.mu.Unlock()

	return newSubscription(sub.ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subscribers[projectID], sub)
		if len(b.subscribers[projectID]) == 0 {
			delete(b.subscribers, projectID)
		}
		close(sub.ch)
	}), nil
}

// SubscriberCount reports live subscribers for a project.
func (b *MemoryBroker) SubscriberCount(projectID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[projectID])
}
