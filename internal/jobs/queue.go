// Package jobs implements the deferred auto-reply pipeline: a Redis-backed
// delayed job queue and the orchestrator that runs each job at fire time.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AutoReplyJob identifies the comment to reply to. Jobs live only in the
// queue; there is no independent persistence and no cancellation primitive.
type AutoReplyJob struct {
	CommentID   uuid.UUID `json:"comment_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// Broker is the delayed-delivery surface the queue runs on. Satisfied by
// cache.RedisClient.
type Broker interface {
	EnqueueAutoReply(payload []byte, fireAt time.Time) error
	PopDueAutoReplies(now time.Time, limit int) ([]string, error)
	QueueDepth() (int64, error)
}

// Queue schedules auto-reply jobs on the sorted-set broker.
type Queue struct {
	broker Broker
}

func NewQueue(broker Broker) *Queue {
	return &Queue{broker: broker}
}

// Schedule enqueues an auto-reply for the comment after delay. A zero delay
// means the job is due immediately, but it still runs on the worker, never
// inline in the request path.
func (q *Queue) Schedule(ctx context.Context, commentID uuid.UUID, delay time.Duration) error {
	job := AutoReplyJob{
		CommentID:   commentID,
		ScheduledAt: time.Now().Add(delay),
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode auto-reply job: %w", err)
	}

	if err := q.broker.EnqueueAutoReply(payload, job.ScheduledAt); err != nil {
		return fmt.Errorf("failed to schedule auto-reply job: %w", err)
	}

	return nil
}

// Due claims up to limit jobs whose fire time has passed
func (q *Queue) Due(limit int) ([]AutoReplyJob, error) {
	payloads, err := q.broker.PopDueAutoReplies(time.Now(), limit)
	if err != nil {
		return nil, err
	}

	jobs := make([]AutoReplyJob, 0, len(payloads))
	for _, payload := range payloads {
		var job AutoReplyJob
		if err := json.Unmarshal([]byte(payload), &job); err != nil {
			// An undecodable member can never fire; drop it rather than
			// poison the queue.
			continue
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// Requeue puts a failed job back with a new fire time
func (q *Queue) Requeue(job AutoReplyJob, delay time.Duration) error {
	job.ScheduledAt = time.Now().Add(delay)

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode auto-reply job: %w", err)
	}

	return q.broker.EnqueueAutoReply(payload, job.ScheduledAt)
}

// Depth returns the number of pending jobs, due or not
func (q *Queue) Depth() (int64, error) {
	return q.broker.QueueDepth()
}
