package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/models"
	"storefront/services"
)

type ReviewController struct {
	reviewService *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviews}
}

// @Summary List reviews
// @Description Latest reviews, including those pending moderation
// @Tags Reviews
// @Produce json
// @Param limit query int false "Maximum reviews"
// @Success 200 {object} models.ReviewsResponse
// @Router /reviews [get]
func (ctrl *ReviewController) GetReviews(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	reviews, err := ctrl.reviewService.List(c.Request.Context(), limit)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to retrieve reviews", err)
		return
	}
	c.JSON(http.StatusOK, models.ReviewsResponse{Data: reviews})
}

// @Summary Submit review
// @Description Reviews are published after moderation
// @Tags Reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateReviewRequest true "Review"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /reviews [post]
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	review, err := ctrl.reviewService.Create(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		serviceError(c, err, "Failed to submit review")
		return
	}
	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Review submitted. It will be published after moderation.",
		Data:    review,
	})
}

// @Summary Moderate review
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param request body models.ReviewStatusRequest true "Status"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/reviews/{id}/status [patch]
func (ctrl *ReviewController) UpdateStatus(c *gin.Context) {
	var req models.ReviewStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if err := ctrl.reviewService.Moderate(c.Request.Context(), c.Param("id"), req); err != nil {
		serviceError(c, err, "Failed to update review")
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Review updated"})
}
