package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PostStatus string

const (
	PostStatusPublished PostStatus = "published"
	PostStatusDraft     PostStatus = "draft"
)

// Post is an authored piece of content. Censored posts stay in the store
// but are excluded from public listings. ReplyDelay is in minutes.
type Post struct {
	ID                    uuid.UUID  `json:"id" db:"id"`
	Title                 string     `json:"title" db:"title"`
	Content               string     `json:"content" db:"content"`
	Status                PostStatus `json:"status" db:"status"`
	UserID                uuid.UUID  `json:"user_id" db:"user_id"`
	Censored              bool       `json:"censored" db:"censored"`
	AutomaticReplyEnabled bool       `json:"automatic_reply_enabled" db:"automatic_reply_enabled"`
	ReplyDelay            int        `json:"reply_delay" db:"reply_delay"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`
}

// Validate checks basic post fields
func (p *Post) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("title is required")
	}
	if len(p.Title) > 255 {
		return fmt.Errorf("title too long")
	}
	if p.Content == "" {
		return fmt.Errorf("content is required")
	}
	if p.ReplyDelay < 0 {
		return fmt.Errorf("reply delay must not be negative")
	}
	if p.Status != PostStatusPublished && p.Status != PostStatusDraft {
		return fmt.Errorf("invalid status")
	}
	return nil
}

type CreatePostRequest struct {
	Title                 string `json:"title" binding:"required,max=255"`
	Content               string `json:"content" binding:"required"`
	AutomaticReplyEnabled bool   `json:"automatic_reply_enabled"`
	ReplyDelay            int    `json:"reply_delay" binding:"gte=0"`
}

type UpdatePostRequest struct {
	Title                 string `json:"title" binding:"required,max=255"`
	Content               string `json:"content" binding:"required"`
	AutomaticReplyEnabled bool   `json:"automatic_reply_enabled"`
	ReplyDelay            int    `json:"reply_delay" binding:"gte=0"`
}

type UpdatePostStatusRequest struct {
	Status PostStatus `json:"status" binding:"required,oneof=published draft"`
}
