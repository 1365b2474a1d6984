package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Task is a queued batch of messages
type Task struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
	Attempt  int       `json:"attempt"`
}

// Queue is a Redis list of pending tasks plus a sorted set of tasks waiting
// for their retry time
type Queue struct {
	client *redis.Client
	key    string
}

// NewQueue creates a queue stored under key
func NewQueue(client *redis.Client, key string) *Queue {
	return &Queue{client: client, key: key}
}

func (q *Queue) delayedKey() string {
	return q.key + ":delayed"
}

// Enqueue queues messages for delivery
func (q *Queue) Enqueue(ctx context.Context, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}
	return q.push(ctx, Task{ID: uuid.NewString(), Messages: messages})
}

func (q *Queue) push(ctx context.Context, task Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode email task: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue email task: %w", err)
	}
	return nil
}

// Pop waits up to timeout for a task. It returns nil when none came.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*Task, error) {
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pop email task: %w", err)
	}

	var task Task
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		return nil, fmt.Errorf("failed to decode email task: %w", err)
	}
	return &task, nil
}

// Retry schedules the task again at the given time
func (q *Queue) Retry(ctx context.Context, task Task, at time.Time) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode email task: %w", err)
	}
	return q.client.ZAdd(ctx, q.delayedKey(), redis.Z{
		Score:  float64(at.Unix()),
		Member: payload,
	}).Err()
}

// promoteScript moves the members of KEYS[1] scored up to ARGV[1] to the
// head of the list KEYS[2]. Each member is pushed before it is removed so a
// failed push leaves it delayed.
var promoteScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
for _, payload in ipairs(due) do
	redis.call('LPUSH', KEYS[2], payload)
	redis.call('ZREM', KEYS[1], payload)
end
return #due
`)

// PromoteDue moves the delayed tasks whose retry time has come back to the
// pending list and returns how many were moved
func (q *Queue) PromoteDue(ctx context.Context, now time.Time) (int, error) {
	moved, err := promoteScript.Run(ctx, q.client,
		[]string{q.delayedKey(), q.key},
		strconv.FormatInt(now.Unix(), 10),
	).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to promote delayed email tasks: %w", err)
	}
	return moved, nil
}

// Len returns the number of pending and delayed tasks
func (q *Queue) Len(ctx context.Context) (pending, delayed int64, err error) {
	if pending, err = q.client.LLen(ctx, q.key).Result(); err != nil {
		return 0, 0, err
	}
	if delayed, err = q.client.ZCard(ctx, q.delayedKey()).Result(); err != nil {
		return 0, 0, err
	}
	return pending, delayed, nil
}
