package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-ms/middleware"
	"github.com/kendall-kelly/restaurant-ms/models"
	"github.com/kendall-kelly/restaurant-ms/repository"
)

// FeedbackRequest represents the request body for submitting feedback
type FeedbackRequest struct {
	Comment string `json:"comment" binding:"notblank"`
	Rating  *int   `json:"rating" binding:"omitempty,min=1,max=5"`
}

// ListFeedbacks handles GET /api/admin/feedbacks
func ListFeedbacks(c *gin.Context) {
	listFeedbacks(c, nil)
}

// ListMyFeedbacks handles GET /api/customer/feedbacks
func ListMyFeedbacks(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	listFeedbacks(c, repository.Filter{"customer_id": user.ID})
}

func listFeedbacks(c *gin.Context, filter repository.Filter) {
	feedbacks, err := getStore().Feedbacks.Select(c.Request.Context(), repository.Query{
		Filter:  filter,
		OrderBy: "created_at",
		Desc:    true,
	})
	if err != nil {
		respondStoreError(c, err, "Failed to fetch feedbacks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    feedbacks,
	})
}

// SubmitFeedback handles POST /api/customer/feedbacks
func SubmitFeedback(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	feedback := &models.Feedback{
		CustomerID:   user.ID,
		CustomerName: user.Name,
		Comment:      strings.TrimSpace(req.Comment),
		Rating:       req.Rating,
	}
	if err := getStore().Feedbacks.Insert(c.Request.Context(), feedback); err != nil {
		respondStoreError(c, err, "Failed to submit feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Feedback submitted successfully",
		"data":    feedback,
	})
}

// DeleteFeedback handles DELETE /api/admin/feedbacks/:id
func DeleteFeedback(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	err := getStore().Feedbacks.DeleteByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Feedback not found")
		return
	}
	if err != nil {
		respondStoreError(c, err, "Failed to delete feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Feedback deleted successfully",
	})
}
