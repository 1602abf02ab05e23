package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harleyposts/backend/internal/repository"
)

type AnalyticsHandler struct {
	commentRepo *repository.CommentRepository
}

func NewAnalyticsHandler(commentRepo *repository.CommentRepository) *AnalyticsHandler {
	return &AnalyticsHandler{commentRepo: commentRepo}
}

// parseDateParam accepts a full RFC3339 timestamp or a bare date
func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// GetDailyBreakdown returns the caller's comment counts per day in a period
func (h *AnalyticsHandler) GetDailyBreakdown(c *gin.Context) {
	from, err := parseDateParam(c.Query("date_from"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid date_from")
		return
	}

	to, err := parseDateParam(c.Query("date_to"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid date_to")
		return
	}

	userID, _ := c.Get("user_id")
	uid := userID.(uuid.UUID)

	breakdown, err := h.commentRepo.DailyBreakdown(uid, from, to)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get daily breakdown")
		return
	}

	c.JSON(http.StatusOK, breakdown)
}
