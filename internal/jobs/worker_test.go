package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harleyposts/backend/internal/models"
	"github.com/harleyposts/backend/internal/repository"
)

// signallingCommentStore reports persisted replies on a channel so tests can
// wait for the worker goroutines.
type signallingCommentStore struct {
	comment *models.Comment
	created chan *models.Comment
}

func (s *signallingCommentStore) GetByID(id uuid.UUID) (*models.Comment, error) {
	if s.comment != nil && s.comment.ID == id {
		return s.comment, nil
	}
	return nil, fmt.Errorf("comment: %w", repository.ErrNotFound)
}

func (s *signallingCommentStore) Create(comment *models.Comment) error {
	s.created <- comment
	return nil
}

func TestWorker_ProcessRequeuesOnFailure(t *testing.T) {
	broker := &fakeBroker{}
	queue := NewQueue(broker)
	comments := &fakeCommentStore{getErr: fmt.Errorf("connection reset")}
	posts := &fakePostGetter{posts: map[uuid.UUID]*models.Post{}}
	orch := NewOrchestrator(posts, comments, &fixedGenerator{text: "thanks!"})
	worker := NewWorker(queue, orch, time.Second, 1, 30*time.Second)

	job := AutoReplyJob{CommentID: uuid.New(), ScheduledAt: time.Now()}

	before := time.Now()
	worker.process(context.Background(), job)
	after := time.Now()

	entries := broker.snapshot()
	if len(entries) != 1 {
		t.Fatalf("Expected the failed job to be requeued, got %d entries", len(entries))
	}

	fireAt := entries[0].fireAt
	if fireAt.Before(before.Add(30*time.Second)) || fireAt.After(after.Add(30*time.Second)) {
		t.Errorf("Expected redelivery 30s out, got %v", fireAt)
	}
}

func TestWorker_ProcessDoesNotRequeueSkippedJob(t *testing.T) {
	broker := &fakeBroker{}
	queue := NewQueue(broker)
	comments := &fakeCommentStore{comments: map[uuid.UUID]*models.Comment{}}
	posts := &fakePostGetter{posts: map[uuid.UUID]*models.Post{}}
	orch := NewOrchestrator(posts, comments, &fixedGenerator{text: "thanks!"})
	worker := NewWorker(queue, orch, time.Second, 1, 30*time.Second)

	worker.process(context.Background(), AutoReplyJob{CommentID: uuid.New()})

	if entries := broker.snapshot(); len(entries) != 0 {
		t.Fatalf("Expected no requeue for a skipped job, got %d entries", len(entries))
	}
}

func TestWorker_RunProcessesDueJobs(t *testing.T) {
	post := &models.Post{
		ID:                    uuid.New(),
		Content:               "post content",
		UserID:                uuid.New(),
		AutomaticReplyEnabled: true,
	}
	comment := &models.Comment{
		ID:      uuid.New(),
		Content: "a comment",
		PostID:  post.ID,
		UserID:  uuid.New(),
	}
	posts := &fakePostGetter{posts: map[uuid.UUID]*models.Post{post.ID: post}}
	store := &signallingCommentStore{comment: comment, created: make(chan *models.Comment, 1)}
	orch := NewOrchestrator(posts, store, &fixedGenerator{text: "thanks!"})

	broker := &fakeBroker{}
	queue := NewQueue(broker)
	if err := queue.Schedule(context.Background(), comment.ID, 0); err != nil {
		t.Fatalf("Failed to schedule job: %v", err)
	}

	worker := NewWorker(queue, orch, 10*time.Millisecond, 2, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	select {
	case replyComment := <-store.created:
		if replyComment.UserID != post.UserID {
			t.Error("Expected the reply to be authored by the post's author")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for the worker to run the due job")
	}

	cancel()
	<-done

	if entries := broker.snapshot(); len(entries) != 0 {
		t.Errorf("Expected an empty queue after processing, got %d entries", len(entries))
	}
}
