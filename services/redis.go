package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	DefaultRedisChannel = "bingo-hall:events"
	redisPublishTimeout = time.Second
)

// RedisPublisher mirrors engine events onto a Redis pub/sub channel so
// other processes (reporting, remote displays) can follow the hall.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	timeout time.Duration
}

// NewRedisPublisher connects to url, e.g. redis://localhost:6379/0.
func NewRedisPublisher(url, channel string) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisPublisher{
		client:  redis.NewClient(opts),
		channel: channel,
		timeout: redisPublishTimeout,
	}, nil
}

// Ping checks the connection.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *RedisPublisher) Publish(event string, payload any) error {
	b, err := json.Marshal(Envelope{Type: event, Data: payload})
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.client.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", event, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
