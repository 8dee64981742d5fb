package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
)

const DefaultNoticeChannel = "chat:notices"

type NoticePublisher interface {
	PublishNotice(ctx context.Context, n Notice) error
}

// RedisNotices carries notices over a Redis pub/sub channel so that other
// services can announce into rooms without holding a websocket.
type RedisNotices struct {
	client  *redis.Client
	channel string
}

func NewRedisNotices(client *redis.Client, channel string) *RedisNotices {
	if channel == "" {
		channel = DefaultNoticeChannel
	}
	return &RedisNotices{client: client, channel: channel}
}

func (rn *RedisNotices) Channel() string {
	return rn.channel
}

func (rn *RedisNotices) PublishNotice(ctx context.Context, n Notice) error {
	if strings.TrimSpace(n.Text) == "" {
		return ErrEmptyNotice
	}
	if rn.client == nil {
		return fmt.Errorf("notice publish: redis client not initialised")
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("notice publish: marshal payload: %w", err)
	}

	if err := rn.client.Publish(ctx, rn.channel, payload).Err(); err != nil {
		return fmt.Errorf("notice publish: redis publish: %w", err)
	}
	return nil
}
