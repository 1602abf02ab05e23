package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harleyposts/backend/internal/models"
	"github.com/harleyposts/backend/internal/repository"
)

// Outcome is the terminal state of a fired job.
type Outcome string

const (
	// OutcomeReplied means a reply comment was generated and persisted.
	OutcomeReplied Outcome = "replied"
	// OutcomeSkipped means a precondition no longer held at fire time.
	OutcomeSkipped Outcome = "skipped"
)

// PostGetter looks up the parent post at fire time.
type PostGetter interface {
	GetByID(id uuid.UUID) (*models.Post, error)
}

// CommentStore looks up the trigger comment and persists the reply.
type CommentStore interface {
	GetByID(id uuid.UUID) (*models.Comment, error)
	Create(comment *models.Comment) error
}

// Generator drafts the reply text. Implementations never fail.
type Generator interface {
	Reply(ctx context.Context, postContent, commentContent string) string
}

// Orchestrator is the auto-reply job body. Preconditions are re-checked at
// fire time rather than trusted from schedule time: the comment may have been
// deleted and the post's auto-reply setting may have changed during the
// delay window.
type Orchestrator struct {
	posts     PostGetter
	comments  CommentStore
	generator Generator
}

func NewOrchestrator(posts PostGetter, comments CommentStore, generator Generator) *Orchestrator {
	return &Orchestrator{
		posts:     posts,
		comments:  comments,
		generator: generator,
	}
}

// Process runs one job to a terminal outcome. Only persistence failure
// returns an error; it rides the queue's at-least-once redelivery, so a
// redelivered job can produce a duplicate reply.
func (o *Orchestrator) Process(ctx context.Context, job AutoReplyJob) (Outcome, error) {
	comment, err := o.comments.GetByID(job.CommentID)
	if repository.IsNotFound(err) {
		return OutcomeSkipped, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load comment %s: %w", job.CommentID, err)
	}

	post, err := o.posts.GetByID(comment.PostID)
	if repository.IsNotFound(err) {
		return OutcomeSkipped, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load post %s: %w", comment.PostID, err)
	}
	if !post.AutomaticReplyEnabled {
		return OutcomeSkipped, nil
	}

	replyText := o.generator.Reply(ctx, post.Content, comment.Content)

	now := time.Now()
	replyComment := &models.Comment{
		ID:        uuid.New(),
		Content:   replyText,
		PostID:    post.ID,
		UserID:    post.UserID,
		Censored:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := o.comments.Create(replyComment); err != nil {
		return "", fmt.Errorf("failed to persist auto-reply for comment %s: %w", job.CommentID, err)
	}

	return OutcomeReplied, nil
}
