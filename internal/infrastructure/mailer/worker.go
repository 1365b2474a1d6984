package mailer

import (
	"context"
	"errors"
	"time"

	"github.com/itou/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const popTimeout = 2 * time.Second

// Worker delivers queued tasks. A failed task is retried after a fixed delay
// until the retry count is exhausted, then dropped.
type Worker struct {
	queue      *Queue
	sender     Sender
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
	metrics    *telemetry.EmailMetrics
	now        func() time.Time
}

// NewWorker creates a new Worker
func NewWorker(queue *Queue, sender Sender, maxRetries int, retryDelay time.Duration, logger *zap.Logger) *Worker {
	return &Worker{
		queue:      queue,
		sender:     sender,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
		metrics:    telemetry.GlobalEmailMetrics(),
		now:        time.Now,
	}
}

// Run processes tasks until ctx is cancelled
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Email worker started", zap.Int("max_retries", w.maxRetries), zap.Duration("retry_delay", w.retryDelay))
	for {
		if ctx.Err() != nil {
			w.logger.Info("Email worker stopped")
			return
		}
		if _, err := w.ProcessNext(ctx, popTimeout); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("Email worker error", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
}

// ProcessNext promotes due retries, then waits up to timeout for one task
// and delivers it. It reports whether a task was handled.
func (w *Worker) ProcessNext(ctx context.Context, timeout time.Duration) (bool, error) {
	if _, err := w.queue.PromoteDue(ctx, w.now()); err != nil {
		return false, err
	}

	task, err := w.queue.Pop(ctx, timeout)
	if err != nil || task == nil {
		return false, err
	}

	w.deliver(ctx, task)
	return true, nil
}

// deliver sends every remaining message of the task. Messages already sent
// are dropped from the task before it is retried.
func (w *Worker) deliver(ctx context.Context, task *Task) {
	log := w.logger.With(zap.String("task_id", task.ID), zap.Int("attempt", task.Attempt))

	var failed []Message
	var lastErr error
	for _, msg := range task.Messages {
		if err := w.sender.Send(ctx, msg); err != nil {
			failed = append(failed, msg)
			lastErr = err
			continue
		}
		log.Debug("Email sent", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
	}
	w.metrics.Sent(ctx, len(task.Messages)-len(failed))
	if len(failed) == 0 {
		return
	}

	if task.Attempt >= w.maxRetries {
		log.Error("Email dropped after retries", zap.Int("messages", len(failed)), zap.Error(lastErr))
		w.metrics.Dropped(ctx, len(failed))
		return
	}

	retry := Task{ID: task.ID, Messages: failed, Attempt: task.Attempt + 1}
	at := w.now().Add(w.retryDelay)
	if err := w.queue.Retry(ctx, retry, at); err != nil {
		log.Error("Failed to schedule email retry", zap.Error(err))
		return
	}
	w.metrics.RetryScheduled(ctx)
	log.Warn("Email failed, retry scheduled", zap.Time("retry_at", at), zap.Error(lastErr))
}
