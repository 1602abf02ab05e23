package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harleyposts/backend/internal/content"
)

// ErrorResponse sends a standardized error response and logs at caller if needed
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// SubmissionErrorResponse maps submission pipeline errors to HTTP statuses.
// kind names the submitted item ("Post" or "Comment") for the message text.
func SubmissionErrorResponse(c *gin.Context, kind string, err error) {
	switch {
	case errors.Is(err, content.ErrDuplicateContent):
		ErrorResponse(c, http.StatusConflict, kind+" with the same content already exists")
	case content.IsNotFound(err):
		ErrorResponse(c, http.StatusNotFound, "Post has not been found")
	case errors.Is(err, content.ErrInappropriateLanguage):
		ErrorResponse(c, http.StatusBadRequest, kind+" contains inappropriate language.")
	default:
		ErrorResponse(c, http.StatusInternalServerError, "Failed to submit "+kind)
	}
}
