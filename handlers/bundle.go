// File: washx/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Provider endpoints
	RegisterProviderHandler gin.HandlerFunc
	GetProviderByIDHandler  gin.HandlerFunc
	UpdateLocationHandler   gin.HandlerFunc
	SetStatusHandler        gin.HandlerFunc
	NearbyProvidersHandler  gin.HandlerFunc
	SearchProvidersHandler  gin.HandlerFunc
	RecomputeRatingHandler  gin.HandlerFunc

	// Catalogue endpoints
	AddServiceHandler   gin.HandlerFunc
	ListServicesHandler gin.HandlerFunc
	ListReviewsHandler  gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler gin.HandlerFunc
	GetBookingHandler    gin.HandlerFunc
	UpdateBookingHandler gin.HandlerFunc

	// Review endpoints
	CreateReviewHandler gin.HandlerFunc
	DeleteReviewHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}
