package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const defaultChannelPrefix = "analysis-progress"

// RedisBroker publishes over Redis pub/sub so that a worker process and every
// API replica observe the same events.
type RedisBroker struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

func NewRedisBroker(client *redis.Client, prefix string, logger *slog.Logger) *RedisBroker {
	if prefix == "" {
		prefix = defaultChannelPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBroker{client: client, prefix: prefix, logger: logger}
}

func ChannelName(prefix string, projectID int64) string {
	if prefix == "" {
		prefix = defaultChannelPrefix
	}
	return fmt.Sprintf("%s:project-%d", prefix, projectID)
}

func (b *RedisBroker) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling progress event: %w", err)
	}
	if err := b.client.Publish(ctx, ChannelName(b.prefix, event.ProjectID), payload).Err(); err != nil {
		return fmt.Errorf("publishing progress event: %w", err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, projectID int64) (*Subscription, error) {
	channel := ChannelName(b.prefix, projectID)
	ps := b.client.Subscribe(ctx, channel)

	// Wait for the subscription confirmation so nothing published after
	// Subscribe returns is missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribing to %s: %w", channel, err)
	}

	events := make(chan Event, subscriberBuffer)
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		defer close(events)

		messages := ps.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				event, err := DecodeEvent(msg.Payload)
				if err != nil {
					b.logger.Warn("discarding malformed progress event", "channel", channel, "error", err)
					continue
				}
				select {
				case events <- event:
				default:
					b.logger.Warn("dropping progress event for slow subscriber", "project_id", projectID, "status", event.Status)
				}
			}
		}
	}()

	return newSubscription(events, func() {
		close(done)
		if err := ps.Close(); err != nil {
			b.logger.Warn("closing progress subscription", "channel", channel, "error", err)
		}
		<-finished
	}), nil
}

func DecodeEvent(payload string) (Event, error) {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return Event{}, err
	}
	return event, nil
}
