// File: washx/handlers/provider.go
package handlers

import (
	"net/http"

	"washx/models"
	"washx/services/discovery"
	"washx/services/provider"
	"washx/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProviderHandler serves provider profile, catalogue and discovery endpoints.
type ProviderHandler struct {
	Service   provider.ProviderService
	Discovery discovery.DiscoveryService
	Nearby    NearbyDefaults
}

func NewProviderHandler(service provider.ProviderService, search discovery.DiscoveryService, nearby NearbyDefaults) *ProviderHandler {
	return &ProviderHandler{Service: service, Discovery: search, Nearby: nearby}
}

type locationRequest struct {
	Location *models.LatLng `json:"location"`
}

// bindJSON decodes the body into dst and reports a validation error on malformed input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, getLogger(c), utils.ValidationError("invalid request body: %v", err))
		return false
	}
	return true
}

// RegisterProviderHandler handles POST /api/providers.
func (h *ProviderHandler) RegisterProviderHandler(c *gin.Context) {
	var input models.ProviderRegistration
	if !bindJSON(c, &input) {
		return
	}
	p, err := h.Service.Register(c.Request.Context(), input)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GetProviderByIDHandler handles GET /api/providers/:id.
func (h *ProviderHandler) GetProviderByIDHandler(c *gin.Context) {
	p, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateLocationHandler handles PATCH /api/providers/:id/location. A null location clears it.
func (h *ProviderHandler) UpdateLocationHandler(c *gin.Context) {
	var req locationRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Service.UpdateLocation(c.Request.Context(), c.Param("id"), req.Location)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// SetStatusHandler handles PATCH /api/providers/:id/status.
func (h *ProviderHandler) SetStatusHandler(c *gin.Context) {
	var update models.ProviderStatusUpdate
	if !bindJSON(c, &update) {
		return
	}
	p, err := h.Service.SetStatus(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// NearbyProvidersHandler handles GET /api/providers/nearby.
func (h *ProviderHandler) NearbyProvidersHandler(c *gin.Context) {
	q, err := parseNearbyQuery(c, h.Nearby)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	results, err := h.Service.Nearby(c.Request.Context(), q)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": results, "count": len(results)})
}

// SearchProvidersHandler handles GET /api/providers.
func (h *ProviderHandler) SearchProvidersHandler(c *gin.Context) {
	q, err := parseDiscoveryQuery(c)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	results, err := h.Discovery.Search(c.Request.Context(), q)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": results, "count": len(results)})
}

// AddServiceHandler handles POST /api/providers/:id/services.
func (h *ProviderHandler) AddServiceHandler(c *gin.Context) {
	var input models.ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	svc, err := h.Service.AddService(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// ListServicesHandler handles GET /api/providers/:id/services.
func (h *ProviderHandler) ListServicesHandler(c *gin.Context) {
	services, err := h.Service.ListServices(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// ListReviewsHandler handles GET /api/providers/:id/reviews.
func (h *ProviderHandler) ListReviewsHandler(c *gin.Context) {
	limit, _, err := queryInt(c, "limit")
	if err == nil && limit < 0 {
		err = utils.ValidationError("limit must not be negative")
	}
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	reviews, err := h.Service.ListReviews(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// RecomputeRatingHandler handles POST /api/providers/:id/rating/recompute.
func (h *ProviderHandler) RecomputeRatingHandler(c *gin.Context) {
	id := c.Param("id")
	rating, err := h.Service.RecomputeRating(c.Request.Context(), id)
	if err != nil {
		utils.JSONError(c, getLogger(c), err)
		return
	}
	getLogger(c).Info("Rating recomputed on request", zap.String("providerId", id))
	c.JSON(http.StatusOK, gin.H{"providerId": id, "rating": rating})
}
