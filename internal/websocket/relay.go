package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/go-redis/redis/v8"
)

// Relay subscribes to the notice channel and forwards every notice into sink
// until ctx is cancelled.
func (rn *RedisNotices) Relay(ctx context.Context, sink NoticePublisher) {
	sub := rn.client.Subscribe(ctx, rn.channel)
	defer sub.Close()

	log.Printf("[NOTICE]: subscribed to redis channel %s", rn.channel)
	forwardNotices(ctx, sub.Channel(), sink)
	log.Printf("[NOTICE]: unsubscribed from redis channel %s", rn.channel)
}

func forwardNotices(ctx context.Context, ch <-chan *redis.Message, sink NoticePublisher) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var n Notice
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				log.Printf("[NOTICE]: bad payload on %s: %v", msg.Channel, err)
				continue
			}

			err := sink.PublishNotice(ctx, n)
			switch {
			case err == nil:
			case errors.Is(err, ErrEmptyNotice):
				log.Printf("[NOTICE]: dropping empty notice for room %q", n.Room)
			case errors.Is(err, ErrHubStopped), errors.Is(err, context.Canceled):
				return
			default:
				log.Printf("[NOTICE]: forward failed: %v", err)
			}
		}
	}
}
