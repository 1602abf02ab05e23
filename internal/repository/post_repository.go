package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/harleyposts/backend/internal/database"
	"github.com/harleyposts/backend/internal/models"
)

type PostRepository struct {
	db *database.DB
}

func NewPostRepository(db *database.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create creates a new post
func (r *PostRepository) Create(post *models.Post) error {
	query := `
		INSERT INTO posts (id, title, content, status, user_id, censored, automatic_reply_enabled, reply_delay, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		post.ID,
		post.Title,
		post.Content,
		post.Status,
		post.UserID,
		post.Censored,
		post.AutomaticReplyEnabled,
		post.ReplyDelay,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(id uuid.UUID) (*models.Post, error) {
	query := `
		SELECT id, title, content, status, user_id, censored, automatic_reply_enabled, reply_delay, created_at, updated_at
		FROM posts
		WHERE id = $1
	`

	post := &models.Post{}
	err := r.db.QueryRow(query, id).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Status,
		&post.UserID,
		&post.Censored,
		&post.AutomaticReplyEnabled,
		&post.ReplyDelay,
		&post.CreatedAt,
		&post.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("post: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// List retrieves published, uncensored posts with pagination
func (r *PostRepository) List(limit, offset int) ([]models.Post, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 500 {
		limit = 500
	}

	query := `
		SELECT id, title, content, status, user_id, censored, automatic_reply_enabled, reply_delay, created_at, updated_at
		FROM posts
		WHERE status = $1 AND censored = false
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(query, models.PostStatusPublished, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// ListCensored retrieves censored posts with pagination
func (r *PostRepository) ListCensored(limit, offset int) ([]models.Post, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 500 {
		limit = 500
	}

	query := `
		SELECT id, title, content, status, user_id, censored, automatic_reply_enabled, reply_delay, created_at, updated_at
		FROM posts
		WHERE censored = true
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list censored posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// ExistsByTitleContent reports whether an identical (title, content) post exists
func (r *PostRepository) ExistsByTitleContent(title, content string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM posts WHERE title = $1 AND content = $2)`

	var exists bool
	if err := r.db.QueryRow(query, title, content).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check for duplicate post: %w", err)
	}

	return exists, nil
}

// Update updates a post owned by the given user
func (r *PostRepository) Update(post *models.Post) error {
	query := `
		UPDATE posts
		SET title = $1, content = $2, censored = $3, automatic_reply_enabled = $4, reply_delay = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		post.Title,
		post.Content,
		post.Censored,
		post.AutomaticReplyEnabled,
		post.ReplyDelay,
		post.ID,
		post.UserID,
	).Scan(&post.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("post: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	return nil
}

// UpdateStatus sets the status of a post owned by the given user
func (r *PostRepository) UpdateStatus(id, userID uuid.UUID, status models.PostStatus) (*models.Post, error) {
	query := `
		UPDATE posts
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING id, title, content, status, user_id, censored, automatic_reply_enabled, reply_delay, created_at, updated_at
	`

	post := &models.Post{}
	err := r.db.QueryRow(query, status, id, userID).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Status,
		&post.UserID,
		&post.Censored,
		&post.AutomaticReplyEnabled,
		&post.ReplyDelay,
		&post.CreatedAt,
		&post.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("post: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post status: %w", err)
	}

	return post, nil
}

// Delete deletes a post owned by the given user
func (r *PostRepository) Delete(id, userID uuid.UUID) error {
	query := `DELETE FROM posts WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("post: %w", ErrNotFound)
	}

	return nil
}

func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	posts := []models.Post{}
	for rows.Next() {
		var post models.Post
		err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Content,
			&post.Status,
			&post.UserID,
			&post.Censored,
			&post.AutomaticReplyEnabled,
			&post.ReplyDelay,
			&post.CreatedAt,
			&post.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, nil
}
