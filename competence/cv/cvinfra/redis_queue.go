package cvinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
	"github.com/loresagaashi/cv-converter-agent/pkg/logx"
)

const (
	queueKey        = "cv:processing:queue"
	delayedQueueKey = "cv:processing:delayed"
)

// RedisQueue implements cv.Queue on Redis: a list for ready jobs and a
// sorted set, scored by ready-time, for delayed retries
type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Enqueue(ctx context.Context, jobID kernel.JobID) error {
	if err := q.client.LPush(ctx, queueKey, jobID.String()).Err(); err != nil {
		return fmt.Errorf("enqueueing job %s: %w", jobID, err)
	}
	return nil
}

func (q *RedisQueue) EnqueueDelayed(ctx context.Context, jobID kernel.JobID, delay time.Duration) error {
	readyAt := float64(time.Now().Add(delay).Unix())
	err := q.client.ZAdd(ctx, delayedQueueKey, &redis.Z{
		Score:  readyAt,
		Member: jobID.String(),
	}).Err()
	if err != nil {
		return fmt.Errorf("scheduling delayed job %s: %w", jobID, err)
	}
	return nil
}

// Dequeue blocks up to timeout for the next ready job. A nil job with a
// nil error means the timeout elapsed with an empty queue.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*kernel.JobID, error) {
	result, err := q.client.BRPop(ctx, timeout, queueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("dequeuing job: %w", err)
	}
	if len(result) < 2 {
		return nil, nil
	}

	jobID := kernel.NewJobID(result[1])
	return &jobID, nil
}

// MoveDelayedToReady promotes every delayed job whose ready-time has
// passed onto the ready queue
func (q *RedisQueue) MoveDelayedToReady(ctx context.Context) (int, error) {
	now := fmt.Sprintf("%d", time.Now().Unix())

	jobIDs, err := q.client.ZRangeByScore(ctx, delayedQueueKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("reading delayed jobs: %w", err)
	}
	if len(jobIDs) == 0 {
		return 0, nil
	}

	pipe := q.client.TxPipeline()
	for _, jobID := range jobIDs {
		pipe.LPush(ctx, queueKey, jobID)
		pipe.ZRem(ctx, delayedQueueKey, jobID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("promoting delayed jobs: %w", err)
	}

	logx.Infof("Promoted %d delayed jobs to the ready queue", len(jobIDs))
	return len(jobIDs), nil
}
