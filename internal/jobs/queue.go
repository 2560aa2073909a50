package jobs

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Queue publishes background tasks onto the shared redis stream consumed by
// cmd/worker.
type Queue struct {
	client *redis.Client
	stream string
}

func NewQueue(client *redis.Client, stream string) *Queue {
	return &Queue{
		client: client,
		stream: stream,
	}
}

func (q *Queue) Enqueue(ctx context.Context, values map[string]any) error {
	if q == nil || q.client == nil {
		return nil
	}
	_, err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: values,
	}).Result()
	return err
}
