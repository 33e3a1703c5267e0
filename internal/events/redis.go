package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quillpress/quillpress/backend/go-services/pkg/logger"
	"github.com/quillpress/quillpress/backend/go-services/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// DefaultChannelPrefix is prepended to the event name to form the channel.
const DefaultChannelPrefix = "blog.events."

// RedisPublisher publishes JSON payloads over Redis pub/sub. Pub/sub keeps
// nothing, so temporary passwords are never written to Redis storage.
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &RedisPublisher{client: client, prefix: prefix}
}

// Channel returns the channel an event with the given name is published on.
func (p *RedisPublisher) Channel(name string) string {
	return p.prefix + name
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		metrics.EventsPublished.WithLabelValues(e.EventName(), "error").Inc()
		return fmt.Errorf("encode %s: %w", e.EventName(), err)
	}
	receivers, err := p.client.Publish(ctx, p.Channel(e.EventName()), b).Result()
	if err != nil {
		metrics.EventsPublished.WithLabelValues(e.EventName(), "error").Inc()
		return fmt.Errorf("publish %s: %w", e.EventName(), err)
	}
	if receivers == 0 {
		logger.Warnf("event %s published with no subscribers", e.EventName())
	}
	metrics.EventsPublished.WithLabelValues(e.EventName(), "ok").Inc()
	return nil
}

// LogPublisher only records that an event happened; payloads are dropped.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, e Event) error {
	logger.Infof("event %s emitted (no outbound channel configured)", e.EventName())
	metrics.EventsPublished.WithLabelValues(e.EventName(), "logged").Inc()
	return nil
}
