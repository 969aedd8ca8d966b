package events

import (
	"context"
	"encoding/json"
	"fmt"

	"lecture-quiz/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisEventPublisher broadcasts quiz events as JSON over Redis Pub/Sub.
type RedisEventPublisher struct {
	client  redis.Cmdable
	channel string
}

func NewRedisEventPublisher(client redis.Cmdable, channel string) (*RedisEventPublisher, error) {
	if channel == "" {
		return nil, fmt.Errorf("events channel cannot be empty")
	}
	return &RedisEventPublisher{client: client, channel: channel}, nil
}

func (p *RedisEventPublisher) Publish(ctx context.Context, event domain.QuizEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal quiz event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, string(payload)).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Kind, err)
	}
	return nil
}

// NoopEventPublisher drops every event.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, domain.QuizEvent) error { return nil }

var (
	_ domain.QuizEventPublisher = (*RedisEventPublisher)(nil)
	_ domain.QuizEventPublisher = NoopEventPublisher{}
)
