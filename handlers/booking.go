// File: washx/handlers/booking.go
package handlers

import (
	"net/http"

	"washx/models"
	"washx/services/booking"
	"washx/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(service booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: service}
}

// CreateBookingHandler handles POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var input models.BookingInput
	if !bindJSON(c, &input) {
		return
	}
	b, err := h.Service.Create(c.Request.Context(), input)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	getLogger(c).Info("Booking created", zap.String("bookingId", b.ID), zap.String("providerId", b.ProviderID))
	c.JSON(http.StatusCreated, b)
}

// GetBookingHandler handles GET /api/bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateBookingHandler handles PUT /api/bookings/:id and applies one status transition.
func (h *BookingHandler) UpdateBookingHandler(c *gin.Context) {
	var update models.StatusUpdate
	if !bindJSON(c, &update) {
		return
	}
	b, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, b)
}
