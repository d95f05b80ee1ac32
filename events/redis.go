package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultRedisChannel is the pub/sub channel shared by every API instance.
const DefaultRedisChannel = "frontdesk:changes"

// RedisFeed relays events through Redis pub/sub so every instance's SSE clients see every write.
type RedisFeed struct {
	rdb     *redis.Client
	channel string
	logger  *logrus.Logger
}

func NewRedisFeed(rdb *redis.Client, channel string, logger *logrus.Logger) *RedisFeed {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisFeed{rdb: rdb, channel: channel, logger: logger}
}

func (f *RedisFeed) Publish(ctx context.Context, ev ChangeEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		f.logger.WithError(err).Error("Failed to encode change event")
		return
	}
	if err := f.rdb.Publish(ctx, f.channel, payload).Err(); err != nil {
		f.logger.WithError(err).WithField("collection", ev.Collection).Warn("Failed to publish change event")
	}
}

func (f *RedisFeed) Subscribe(ctx context.Context, collections ...string) (<-chan ChangeEvent, func()) {
	filter := toFilter(collections)
	ctx, stop := context.WithCancel(ctx)
	pubsub := f.rdb.Subscribe(ctx, f.channel)
	out := make(chan ChangeEvent, subscriberBuffer)

	go func() {
		defer close(out)
		defer pubsub.Close()
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					f.logger.WithError(err).Warn("Dropping malformed change event")
					continue
				}
				if !wants(filter, ev.Collection) {
					continue
				}
				select {
				case out <- ev:
				default:
				}
			}
		}
	}()

	var once sync.Once
	return out, func() { once.Do(stop) }
}
