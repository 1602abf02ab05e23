package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to a post. Auto-generated replies are ordinary comments
// authored as the post's owner.
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	PostID    uuid.UUID `json:"post_id" db:"post_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Censored  bool      `json:"censored" db:"censored"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateCommentRequest struct {
	Content string    `json:"content" binding:"required,max=10000"`
	PostID  uuid.UUID `json:"post_id" binding:"required"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,max=10000"`
}

// DailyCommentCount is one row of the analytics daily breakdown.
type DailyCommentCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
