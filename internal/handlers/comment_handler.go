package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harleyposts/backend/internal/cache"
	"github.com/harleyposts/backend/internal/content"
	"github.com/harleyposts/backend/internal/models"
	"github.com/harleyposts/backend/internal/repository"
)

type CommentHandler struct {
	service     *content.Service
	commentRepo *repository.CommentRepository
	redis       *cache.RedisClient
	// in-memory limiter fallback (token-bucket per user)
	buckets   map[uuid.UUID]*tokenBucket
	bucketsMu sync.Mutex
	// bucket params (configurable)
	localRate  float64 // tokens per second
	localBurst float64 // capacity
}

func NewCommentHandler(service *content.Service, commentRepo *repository.CommentRepository, redis *cache.RedisClient, localRate, localBurst float64) *CommentHandler {
	h := &CommentHandler{
		service:     service,
		commentRepo: commentRepo,
		redis:       redis,
		buckets:     make(map[uuid.UUID]*tokenBucket),
		localRate:   localRate,
		localBurst:  localBurst,
	}

	// start a background cleanup/refill goroutine
	go h.runRefillLoop()

	return h
}

// tokenBucket is a simple in-memory token bucket
type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
	rate       float64
	capacity   float64
}

func (b *tokenBucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.rate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.lastRefill = now
	}

	if b.tokens >= 1 {
		b.tokens -= 1
		return true
	}
	return false
}

func (h *CommentHandler) runRefillLoop() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		h.sweepBuckets(time.Now())
	}
}

// sweepBuckets refills partial buckets and drops buckets idle at full
// capacity. A full bucket keeps its lastRefill timestamp, so idleness is
// measured from the moment it filled up rather than reset on every sweep.
func (h *CommentHandler) sweepBuckets(now time.Time) {
	h.bucketsMu.Lock()
	defer h.bucketsMu.Unlock()
	for uid, b := range h.buckets {
		b.mu.Lock()
		if b.tokens < b.capacity {
			elapsed := now.Sub(b.lastRefill).Seconds()
			if elapsed > 0 {
				b.tokens += elapsed * b.rate
				if b.tokens > b.capacity {
					b.tokens = b.capacity
				}
				b.lastRefill = now
			}
		} else if now.Sub(b.lastRefill) > 10*time.Minute {
			delete(h.buckets, uid)
		}
		b.mu.Unlock()
	}
}

func (h *CommentHandler) allowSubmit(uid uuid.UUID) bool {
	// Rate limit: try Redis first
	if h.redis != nil {
		ok, err := h.redis.AllowAction(uid, "comment_submit", int(h.localRate), int(h.localBurst))
		if err == nil {
			return ok
		}
		// fall through to the local limiter if Redis errors
	}

	h.bucketsMu.Lock()
	b, ok := h.buckets[uid]
	if !ok {
		b = &tokenBucket{
			tokens:     h.localBurst,
			lastRefill: time.Now(),
			rate:       h.localRate,
			capacity:   h.localBurst,
		}
		h.buckets[uid] = b
	}
	h.bucketsMu.Unlock()

	return b.allow()
}

// ListComments returns all uncensored comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.commentRepo.List()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get comments")
		return
	}

	c.JSON(http.StatusOK, comments)
}

// ListCensoredComments returns the caller's censored comments
func (h *CommentHandler) ListCensoredComments(c *gin.Context) {
	limit, offset := pagination(c)

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	comments, err := h.commentRepo.ListCensoredByUser(uid, limit, offset)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get censored comments")
		return
	}

	c.JSON(http.StatusOK, comments)
}

// GetComment returns a single comment by id
func (h *CommentHandler) GetComment(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	comment, err := h.commentRepo.GetByID(commentID)
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, "Comment has not been found")
		return
	}

	c.JSON(http.StatusOK, comment)
}

// CreateComment submits a new comment through the moderation pipeline.
// A safe comment on a post with automatic replies enabled schedules a
// deferred auto-reply job.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	if !h.allowSubmit(uid) {
		ErrorResponse(c, http.StatusTooManyRequests, "Rate limit exceeded")
		return
	}

	comment, err := h.service.CreateComment(c.Request.Context(), uid, req)
	if err != nil {
		SubmissionErrorResponse(c, "Comment", err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// UpdateComment updates a comment, re-running moderation
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	var req models.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	comment, err := h.service.UpdateComment(c.Request.Context(), uid, commentID, req)
	if err != nil {
		if content.IsNotFound(err) {
			ErrorResponse(c, http.StatusNotFound, "Comment has not been found")
			return
		}
		SubmissionErrorResponse(c, "Comment", err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// DeleteComment deletes a comment owned by the caller
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	if err := h.commentRepo.Delete(commentID, uid); err != nil {
		if repository.IsNotFound(err) {
			ErrorResponse(c, http.StatusNotFound, "Comment has not been found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to delete comment")
		return
	}

	c.Status(http.StatusNoContent)
}
