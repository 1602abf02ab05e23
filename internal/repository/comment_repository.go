package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harleyposts/backend/internal/database"
	"github.com/harleyposts/backend/internal/models"
)

type CommentRepository struct {
	db *database.DB
}

func NewCommentRepository(db *database.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create creates a new comment
func (r *CommentRepository) Create(comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, content, post_id, user_id, censored, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		comment.ID,
		comment.Content,
		comment.PostID,
		comment.UserID,
		comment.Censored,
		comment.CreatedAt,
		comment.UpdatedAt,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(id uuid.UUID) (*models.Comment, error) {
	query := `
		SELECT id, content, post_id, user_id, censored, created_at, updated_at
		FROM comments
		WHERE id = $1
	`

	comment := &models.Comment{}
	err := r.db.QueryRow(query, id).Scan(
		&comment.ID,
		&comment.Content,
		&comment.PostID,
		&comment.UserID,
		&comment.Censored,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("comment: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}

// List retrieves all uncensored comments
func (r *CommentRepository) List() ([]models.Comment, error) {
	query := `
		SELECT id, content, post_id, user_id, censored, created_at, updated_at
		FROM comments
		WHERE censored = false
		ORDER BY created_at
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	return scanComments(rows)
}

// ListByPost retrieves uncensored comments for a post
func (r *CommentRepository) ListByPost(postID uuid.UUID) ([]models.Comment, error) {
	query := `
		SELECT id, content, post_id, user_id, censored, created_at, updated_at
		FROM comments
		WHERE post_id = $1 AND censored = false
		ORDER BY created_at
	`

	rows, err := r.db.Query(query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list post comments: %w", err)
	}
	defer rows.Close()

	return scanComments(rows)
}

// ListCensoredByUser retrieves a user's censored comments with pagination
func (r *CommentRepository) ListCensoredByUser(userID uuid.UUID, limit, offset int) ([]models.Comment, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 500 {
		limit = 500
	}

	query := `
		SELECT id, content, post_id, user_id, censored, created_at, updated_at
		FROM comments
		WHERE user_id = $1 AND censored = true
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list censored comments: %w", err)
	}
	defer rows.Close()

	return scanComments(rows)
}

// ExistsByContentPost reports whether an identical comment already exists on the post
func (r *CommentRepository) ExistsByContentPost(content string, postID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM comments WHERE content = $1 AND post_id = $2)`

	var exists bool
	if err := r.db.QueryRow(query, content, postID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check for duplicate comment: %w", err)
	}

	return exists, nil
}

// Update updates a comment owned by the given user
func (r *CommentRepository) Update(comment *models.Comment) error {
	query := `
		UPDATE comments
		SET content = $1, censored = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		comment.Content,
		comment.Censored,
		comment.ID,
		comment.UserID,
	).Scan(&comment.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("comment: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	return nil
}

// Delete deletes a comment owned by the given user
func (r *CommentRepository) Delete(id, userID uuid.UUID) error {
	query := `DELETE FROM comments WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("comment: %w", ErrNotFound)
	}

	return nil
}

// DailyBreakdown counts the user's comments per day within [from, to]
func (r *CommentRepository) DailyBreakdown(userID uuid.UUID, from, to time.Time) ([]models.DailyCommentCount, error) {
	query := `
		SELECT created_at::date AS day, COUNT(id)
		FROM comments
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.db.Query(query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := []models.DailyCommentCount{}
	for rows.Next() {
		var day time.Time
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan daily breakdown: %w", err)
		}
		breakdown = append(breakdown, models.DailyCommentCount{
			Date:  day.Format("2006-01-02"),
			Count: count,
		})
	}

	return breakdown, nil
}

func scanComments(rows *sql.Rows) ([]models.Comment, error) {
	comments := []models.Comment{}
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.Content,
			&comment.PostID,
			&comment.UserID,
			&comment.Censored,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	return comments, nil
}
