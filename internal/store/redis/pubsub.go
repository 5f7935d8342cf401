package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// subscriptionBuffer is how many board events a slow websocket may lag behind
// before Redis-side delivery blocks.
const subscriptionBuffer = 64

// PubSub fans board events out to every server instance watching a board.
// Its client is shared with TaskCache.
type PubSub struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &PubSub{client: client}, nil
}

// NewFromClient wraps an existing client; Close still closes it.
func NewFromClient(client *redis.Client) *PubSub {
	return &PubSub{client: client}
}

func (ps *PubSub) Client() *redis.Client {
	return ps.client
}

func (ps *PubSub) Close() error {
	if err := ps.client.Close(); err != nil {
		return fmt.Errorf("redis.PubSub.Close: %w", err)
	}
	return nil
}

// PublishBoard sends payload to every subscriber of a project's board.
func (ps *PubSub) PublishBoard(ctx context.Context, workspaceID, projectID uuid.UUID, payload []byte) error {
	channel := BoardChannel(workspaceID, projectID)
	if err := ps.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis.PubSub.PublishBoard %s: %w", channel, err)
	}
	return nil
}

// SubscribeBoard streams a project's board events. The subscription is active
// when SubscribeBoard returns, so nothing published afterwards is missed. The
// stream closes when ctx ends or stop is called.
func (ps *PubSub) SubscribeBoard(ctx context.Context, workspaceID, projectID uuid.UUID) (<-chan []byte, func(), error) {
	channel := BoardChannel(workspaceID, projectID)
	sub := ps.client.Subscribe(ctx, channel)

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.PubSub.SubscribeBoard %s: %w", channel, err)
	}

	// Closing the subscription closes msgs, which ends the forwarder.
	unhook := context.AfterFunc(ctx, func() { _ = sub.Close() })
	msgs := sub.Channel(redis.WithChannelSize(subscriptionBuffer))

	out := make(chan []byte, subscriptionBuffer)
	go func() {
		defer close(out)
		for msg := range msgs {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() {
		unhook()
		_ = sub.Close()
	}
	return out, stop, nil
}
