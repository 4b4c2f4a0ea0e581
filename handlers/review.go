// File: washx/handlers/review.go
package handlers

import (
	"net/http"

	"washx/models"
	"washx/services/review"
	"washx/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	Service review.ReviewService
}

func NewReviewHandler(service review.ReviewService) *ReviewHandler {
	return &ReviewHandler{Service: service}
}

// CreateReviewHandler handles POST /api/reviews. The review is stored even when the rating update is
// deferred; ratingPending in the receipt tells the client which case it got.
func (h *ReviewHandler) CreateReviewHandler(c *gin.Context) {
	var input models.ReviewInput
	if !bindJSON(c, &input) {
		return
	}
	receipt, err := h.Service.Create(c.Request.Context(), input)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	if receipt.RatingPending {
		getLogger(c).Warn("Review stored with pending rating", zap.String("reviewId", receipt.Review.ID))
	}
	c.JSON(http.StatusCreated, receipt)
}

// DeleteReviewHandler handles DELETE /api/reviews/:id.
func (h *ReviewHandler) DeleteReviewHandler(c *gin.Context) {
	receipt, err := h.Service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}
