package routes

import (
	"time"

	"washx/handlers"
	"washx/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterProviderRoutes registers provider profile, catalogue and discovery endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle, adminToken string) {
	api := r.Group("/api/providers")
	{
		// Public endpoints. Admins may widen discovery with includeInactive.
		public := api.Group("")
		public.Use(middleware.OptionalAdminMiddleware(adminToken))
		public.POST("", hb.RegisterProviderHandler)
		public.GET("", hb.SearchProvidersHandler)
		public.GET("/nearby", hb.NearbyProvidersHandler)
		public.GET("/:id", hb.GetProviderByIDHandler)
		public.PATCH("/:id/location", hb.UpdateLocationHandler)
		public.POST("/:id/services", hb.AddServiceHandler)
		public.GET("/:id/services", hb.ListServicesHandler)
		public.GET("/:id/reviews", hb.ListReviewsHandler)

		// Endpoints that change discovery visibility or repair ratings are admin only.
		admin := api.Group("")
		admin.Use(middleware.AdminAuthMiddleware(adminToken))
		admin.PATCH("/:id/status", hb.SetStatusHandler)
		admin.POST("/:id/rating/recompute", hb.RecomputeRatingHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking state machine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.POST("", hb.CreateBookingHandler)
		bookingGroup.GET("/:id", hb.GetBookingHandler)
		bookingGroup.PUT("/:id", hb.UpdateBookingHandler)
	}
}

// RegisterReviewRoutes sets up review endpoints. Deletion is an admin repair tool.
func RegisterReviewRoutes(r *gin.Engine, hb *handlers.HandlerBundle, adminToken string) {
	reviewGroup := r.Group("/api/reviews")
	{
		reviewGroup.POST("", hb.CreateReviewHandler)
		reviewGroup.DELETE("/:id", middleware.AdminAuthMiddleware(adminToken), hb.DeleteReviewHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, adminToken string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterProviderRoutes(r, hb, adminToken)
	RegisterBookingRoutes(r, hb)
	RegisterReviewRoutes(r, hb, adminToken)
}
