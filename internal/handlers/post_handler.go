package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harleyposts/backend/internal/content"
	"github.com/harleyposts/backend/internal/models"
	"github.com/harleyposts/backend/internal/repository"
)

type PostHandler struct {
	service     *content.Service
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
}

func NewPostHandler(service *content.Service, postRepo *repository.PostRepository, commentRepo *repository.CommentRepository) *PostHandler {
	return &PostHandler{
		service:     service,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// ListPosts returns published, uncensored posts
func (h *PostHandler) ListPosts(c *gin.Context) {
	limit, offset := pagination(c)

	posts, err := h.postRepo.List(limit, offset)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get posts")
		return
	}

	c.JSON(http.StatusOK, posts)
}

// ListCensoredPosts returns posts held back by moderation
func (h *PostHandler) ListCensoredPosts(c *gin.Context) {
	limit, offset := pagination(c)

	posts, err := h.postRepo.ListCensored(limit, offset)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get censored posts")
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost returns a single post by id
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := h.postRepo.GetByID(postID)
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, "Post has not been found")
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost submits a new post through the moderation pipeline
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	post, err := h.service.CreatePost(c.Request.Context(), uid, req)
	if err != nil {
		SubmissionErrorResponse(c, "Post", err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost updates a post, re-running moderation
func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var req models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	post, err := h.service.UpdatePost(c.Request.Context(), uid, postID, req)
	if err != nil {
		SubmissionErrorResponse(c, "Post", err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post owned by the caller
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	if err := h.postRepo.Delete(postID, uid); err != nil {
		if repository.IsNotFound(err) {
			ErrorResponse(c, http.StatusNotFound, "Post has not been found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetPostStatus returns just the status of a post
func (h *PostHandler) GetPostStatus(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := h.postRepo.GetByID(postID)
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, "Post has not been found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": post.Status})
}

// UpdatePostStatus publishes or unpublishes a post
func (h *PostHandler) UpdatePostStatus(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var req models.UpdatePostStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	post, err := h.postRepo.UpdateStatus(postID, uid, req.Status)
	if err != nil {
		if repository.IsNotFound(err) {
			ErrorResponse(c, http.StatusNotFound, "Post has not been found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to update post status")
		return
	}

	c.JSON(http.StatusOK, post)
}

// GetPostComments returns the uncensored comments of a post
func (h *PostHandler) GetPostComments(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if _, err := h.postRepo.GetByID(postID); err != nil {
		ErrorResponse(c, http.StatusNotFound, "Post has not been found")
		return
	}

	comments, err := h.commentRepo.ListByPost(postID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get comments")
		return
	}

	c.JSON(http.StatusOK, comments)
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 10
	if l := c.Query("limit"); l != "" {
		if li, err := strconv.Atoi(l); err == nil {
			limit = li
		}
	}
	if o := c.Query("offset"); o != "" {
		if oi, err := strconv.Atoi(o); err == nil && oi >= 0 {
			offset = oi
		}
	}
	return limit, offset
}
