package jobs

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/harleyposts/backend/internal/models"
	"github.com/harleyposts/backend/internal/reply"
	"github.com/harleyposts/backend/internal/repository"
)

type fakePostGetter struct {
	posts map[uuid.UUID]*models.Post
}

func (f *fakePostGetter) GetByID(id uuid.UUID) (*models.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, fmt.Errorf("post: %w", repository.ErrNotFound)
	}
	return post, nil
}

type fakeCommentStore struct {
	comments  map[uuid.UUID]*models.Comment
	created   []*models.Comment
	createErr error
	getErr    error
}

func (f *fakeCommentStore) GetByID(id uuid.UUID) (*models.Comment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	comment, ok := f.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment: %w", repository.ErrNotFound)
	}
	return comment, nil
}

func (f *fakeCommentStore) Create(comment *models.Comment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, comment)
	return nil
}

type fixedGenerator struct {
	text string
}

func (f *fixedGenerator) Reply(ctx context.Context, postContent, commentContent string) string {
	return f.text
}

func orchestratorFixture(autoReply bool) (*Orchestrator, *fakePostGetter, *fakeCommentStore, AutoReplyJob) {
	post := &models.Post{
		ID:                    uuid.New(),
		Content:               "post content",
		UserID:                uuid.New(),
		AutomaticReplyEnabled: autoReply,
	}
	comment := &models.Comment{
		ID:      uuid.New(),
		Content: "a comment",
		PostID:  post.ID,
		UserID:  uuid.New(),
	}
	posts := &fakePostGetter{posts: map[uuid.UUID]*models.Post{post.ID: post}}
	comments := &fakeCommentStore{comments: map[uuid.UUID]*models.Comment{comment.ID: comment}}
	orch := NewOrchestrator(posts, comments, &fixedGenerator{text: "thanks!"})
	return orch, posts, comments, AutoReplyJob{CommentID: comment.ID}
}

func TestOrchestrator_Replies(t *testing.T) {
	orch, posts, comments, job := orchestratorFixture(true)

	outcome, err := orch.Process(context.Background(), job)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if outcome != OutcomeReplied {
		t.Fatalf("Expected outcome %q, got %q", OutcomeReplied, outcome)
	}
	if len(comments.created) != 1 {
		t.Fatalf("Expected one persisted reply, got %d", len(comments.created))
	}

	reply := comments.created[0]
	trigger := comments.comments[job.CommentID]
	post := posts.posts[trigger.PostID]
	if reply.UserID != post.UserID {
		t.Error("Expected the reply to be authored by the post's author")
	}
	if reply.PostID != post.ID {
		t.Error("Expected the reply to land on the trigger's post")
	}
	if reply.Censored {
		t.Error("Expected the reply to not be censored")
	}
	if reply.Content != "thanks!" {
		t.Errorf("Expected generated text, got %q", reply.Content)
	}
}

func TestOrchestrator_SkipsDeletedComment(t *testing.T) {
	orch, _, comments, _ := orchestratorFixture(true)

	outcome, err := orch.Process(context.Background(), AutoReplyJob{CommentID: uuid.New()})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if outcome != OutcomeSkipped {
		t.Fatalf("Expected outcome %q, got %q", OutcomeSkipped, outcome)
	}
	if len(comments.created) != 0 {
		t.Errorf("Expected no persisted replies, got %d", len(comments.created))
	}
}

func TestOrchestrator_SkipsDeletedPost(t *testing.T) {
	orch, posts, comments, job := orchestratorFixture(true)
	posts.posts = map[uuid.UUID]*models.Post{}

	outcome, err := orch.Process(context.Background(), job)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if outcome != OutcomeSkipped {
		t.Fatalf("Expected outcome %q, got %q", OutcomeSkipped, outcome)
	}
	if len(comments.created) != 0 {
		t.Errorf("Expected no persisted replies, got %d", len(comments.created))
	}
}

func TestOrchestrator_SkipsWhenAutoReplyDisabled(t *testing.T) {
	orch, _, comments, job := orchestratorFixture(false)

	outcome, err := orch.Process(context.Background(), job)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if outcome != OutcomeSkipped {
		t.Fatalf("Expected outcome %q, got %q", OutcomeSkipped, outcome)
	}
	if len(comments.created) != 0 {
		t.Errorf("Expected no persisted replies, got %d", len(comments.created))
	}
}

type failingModel struct{}

func (failingModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("model unavailable")
}

func TestOrchestrator_PersistsFallbackWhenModelFails(t *testing.T) {
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
	comments := &fakeCommentStore{comments: map[uuid.UUID]*models.Comment{comment.ID: comment}}
	orch := NewOrchestrator(posts, comments, reply.NewGenerator(failingModel{}))

	outcome, err := orch.Process(context.Background(), AutoReplyJob{CommentID: comment.ID})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if outcome != OutcomeReplied {
		t.Fatalf("Expected outcome %q, got %q", OutcomeReplied, outcome)
	}
	if len(comments.created) != 1 {
		t.Fatalf("Expected one persisted reply, got %d", len(comments.created))
	}
	if comments.created[0].Content != reply.FallbackReply {
		t.Errorf("Expected the fallback text %q, got %q", reply.FallbackReply, comments.created[0].Content)
	}
}

func TestOrchestrator_PersistFailureReturnsError(t *testing.T) {
	orch, _, comments, job := orchestratorFixture(true)
	comments.createErr = fmt.Errorf("connection reset")

	_, err := orch.Process(context.Background(), job)
	if err == nil {
		t.Fatal("Expected an error when the reply cannot be persisted")
	}
}
