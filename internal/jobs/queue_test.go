package jobs

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type brokerEntry struct {
	payload string
	fireAt  time.Time
}

type fakeBroker struct {
	mu      sync.Mutex
	entries []brokerEntry
}

func (f *fakeBroker) EnqueueAutoReply(payload []byte, fireAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, brokerEntry{payload: string(payload), fireAt: fireAt})
	return nil
}

func (f *fakeBroker) PopDueAutoReplies(now time.Time, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []string
	var rest []brokerEntry
	for _, e := range f.entries {
		if len(due) < limit && !e.fireAt.After(now) {
			due = append(due, e.payload)
		} else {
			rest = append(rest, e)
		}
	}
	f.entries = rest
	return due, nil
}

func (f *fakeBroker) QueueDepth() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.entries)), nil
}

func (f *fakeBroker) snapshot() []brokerEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]brokerEntry(nil), f.entries...)
}

func TestQueue_ScheduleSetsFireTime(t *testing.T) {
	broker := &fakeBroker{}
	queue := NewQueue(broker)
	commentID := uuid.New()

	before := time.Now()
	if err := queue.Schedule(context.Background(), commentID, 5*time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	after := time.Now()

	entries := broker.snapshot()
	if len(entries) != 1 {
		t.Fatalf("Expected one enqueued job, got %d", len(entries))
	}

	fireAt := entries[0].fireAt
	if fireAt.Before(before.Add(5*time.Minute)) || fireAt.After(after.Add(5*time.Minute)) {
		t.Errorf("Expected fire time 5m out, got %v", fireAt)
	}

	var job AutoReplyJob
	if err := json.Unmarshal([]byte(entries[0].payload), &job); err != nil {
		t.Fatalf("Expected a decodable payload, got %v", err)
	}
	if job.CommentID != commentID {
		t.Errorf("Expected comment %s in the payload, got %s", commentID, job.CommentID)
	}
}

func TestQueue_DueDropsUndecodablePayload(t *testing.T) {
	broker := &fakeBroker{}
	queue := NewQueue(broker)
	commentID := uuid.New()

	past := time.Now().Add(-time.Minute)
	broker.entries = append(broker.entries, brokerEntry{payload: "not json", fireAt: past})

	payload, err := json.Marshal(AutoReplyJob{CommentID: commentID, ScheduledAt: past})
	if err != nil {
		t.Fatalf("Failed to encode job: %v", err)
	}
	broker.entries = append(broker.entries, brokerEntry{payload: string(payload), fireAt: past})

	due, err := queue.Due(10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("Expected the bad payload to be dropped, got %d jobs", len(due))
	}
	if due[0].CommentID != commentID {
		t.Errorf("Expected comment %s, got %s", commentID, due[0].CommentID)
	}
}

func TestQueue_DueLeavesFutureJobs(t *testing.T) {
	broker := &fakeBroker{}
	queue := NewQueue(broker)

	if err := queue.Schedule(context.Background(), uuid.New(), time.Hour); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	due, err := queue.Due(10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("Expected no due jobs an hour early, got %d", len(due))
	}

	depth, err := queue.Depth()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if depth != 1 {
		t.Errorf("Expected the future job to stay pending, depth %d", depth)
	}
}

func TestQueue_RequeueResetsFireTime(t *testing.T) {
	broker := &fakeBroker{}
	queue := NewQueue(broker)
	job := AutoReplyJob{CommentID: uuid.New(), ScheduledAt: time.Now().Add(-time.Hour)}

	before := time.Now()
	if err := queue.Requeue(job, 30*time.Second); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	after := time.Now()

	entries := broker.snapshot()
	if len(entries) != 1 {
		t.Fatalf("Expected one enqueued job, got %d", len(entries))
	}

	fireAt := entries[0].fireAt
	if fireAt.Before(before.Add(30*time.Second)) || fireAt.After(after.Add(30*time.Second)) {
		t.Errorf("Expected fire time 30s out, got %v", fireAt)
	}
}
