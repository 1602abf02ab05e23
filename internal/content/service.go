// Package content orchestrates post and comment submission: duplicate
// rejection, moderation, persistence and auto-reply scheduling.
package content

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/harleyposts/backend/internal/models"
)

// PostStore is the post persistence surface the pipeline needs.
type PostStore interface {
	GetByID(id uuid.UUID) (*models.Post, error)
	ExistsByTitleContent(title, content string) (bool, error)
	Create(post *models.Post) error
	Update(post *models.Post) error
}

// CommentStore is the comment persistence surface the pipeline needs.
type CommentStore interface {
	GetByID(id uuid.UUID) (*models.Comment, error)
	ExistsByContentPost(content string, postID uuid.UUID) (bool, error)
	Create(comment *models.Comment) error
	Update(comment *models.Comment) error
}

// Classifier returns true when text is unsafe. Implementations fail closed,
// so the pipeline never sees a classifier error.
type Classifier interface {
	Classify(ctx context.Context, text string) bool
}

// Scheduler enqueues a deferred auto-reply job for a comment.
type Scheduler interface {
	Schedule(ctx context.Context, commentID uuid.UUID, delay time.Duration) error
}

// Service runs the submission pipeline with injected collaborators.
type Service struct {
	posts      PostStore
	comments   CommentStore
	classifier Classifier
	scheduler  Scheduler
}

func NewService(posts PostStore, comments CommentStore, classifier Classifier, scheduler Scheduler) *Service {
	return &Service{
		posts:      posts,
		comments:   comments,
		classifier: classifier,
		scheduler:  scheduler,
	}
}

// CreatePost submits a new post. Unsafe posts are persisted censored and the
// call still fails with ErrInappropriateLanguage: the item is retained for
// moderator review even though the caller receives an error.
func (s *Service) CreatePost(ctx context.Context, userID uuid.UUID, req models.CreatePostRequest) (*models.Post, error) {
	exists, err := s.posts.ExistsByTitleContent(req.Title, req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate post: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("post: %w", ErrDuplicateContent)
	}

	unsafe := s.classifier.Classify(ctx, req.Title+"\n"+req.Content)

	now := time.Now()
	post := &models.Post{
		ID:                    uuid.New(),
		Title:                 req.Title,
		Content:               req.Content,
		Status:                models.PostStatusDraft,
		UserID:                userID,
		Censored:              unsafe,
		AutomaticReplyEnabled: req.AutomaticReplyEnabled,
		ReplyDelay:            req.ReplyDelay,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.posts.Create(post); err != nil {
		return nil, fmt.Errorf("failed to persist post: %w", err)
	}

	if unsafe {
		return nil, ErrInappropriateLanguage
	}

	return post, nil
}

// UpdatePost re-runs moderation over the new text with the same
// persist-then-reject semantics as creation.
func (s *Service) UpdatePost(ctx context.Context, userID, postID uuid.UUID, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.posts.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, fmt.Errorf("post: %w", ErrNotFound)
	}

	unsafe := s.classifier.Classify(ctx, req.Title+"\n"+req.Content)

	post.Title = req.Title
	post.Content = req.Content
	post.AutomaticReplyEnabled = req.AutomaticReplyEnabled
	post.ReplyDelay = req.ReplyDelay
	post.Censored = unsafe

	if err := s.posts.Update(post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	if unsafe {
		return nil, ErrInappropriateLanguage
	}

	return post, nil
}

// CreateComment submits a new comment. A safe comment on a post with
// automatic replies enabled schedules a deferred auto-reply job; the handoff
// is fire-and-forget and never affects the response.
func (s *Service) CreateComment(ctx context.Context, userID uuid.UUID, req models.CreateCommentRequest) (*models.Comment, error) {
	exists, err := s.comments.ExistsByContentPost(req.Content, req.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate comment: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("comment: %w", ErrDuplicateContent)
	}

	post, err := s.posts.GetByID(req.PostID)
	if err != nil {
		return nil, err
	}

	unsafe := s.classifier.Classify(ctx, req.Content)

	now := time.Now()
	comment := &models.Comment{
		ID:        uuid.New(),
		Content:   req.Content,
		PostID:    post.ID,
		UserID:    userID,
		Censored:  unsafe,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.comments.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to persist comment: %w", err)
	}

	if unsafe {
		return nil, ErrInappropriateLanguage
	}

	if post.AutomaticReplyEnabled {
		delay := time.Duration(post.ReplyDelay) * time.Minute
		if err := s.scheduler.Schedule(ctx, comment.ID, delay); err != nil {
			log.Printf("Failed to schedule auto-reply for comment %s: %v", comment.ID, err)
		}
	}

	return comment, nil
}

// UpdateComment re-runs moderation over the new text with the same
// persist-then-reject semantics as creation. Updates never schedule a new
// auto-reply.
func (s *Service) UpdateComment(ctx context.Context, userID, commentID uuid.UUID, req models.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.comments.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, fmt.Errorf("comment: %w", ErrNotFound)
	}

	unsafe := s.classifier.Classify(ctx, req.Content)

	comment.Content = req.Content
	comment.Censored = unsafe

	if err := s.comments.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	if unsafe {
		return nil, ErrInappropriateLanguage
	}

	return comment, nil
}

// IsNotFound reports whether err is a missing-resource error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
