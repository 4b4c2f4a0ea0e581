package provider

import (
	"context"

	"washx/models"
)

// ProviderService defines provider registration, profile and catalogue operations.
type ProviderService interface {
	Register(ctx context.Context, input models.ProviderRegistration) (*models.Provider, error)
	Get(ctx context.Context, id string) (*models.Provider, error)
	// UpdateLocation replaces the provider location and re-indexes it; nil clears it.
	UpdateLocation(ctx context.Context, id string, location *models.LatLng) (*models.Provider, error)
	SetStatus(ctx context.Context, id string, update models.ProviderStatusUpdate) (*models.Provider, error)
	Nearby(ctx context.Context, q models.NearbyQuery) ([]models.NearbyProvider, error)

	AddService(ctx context.Context, providerID string, input models.ServiceInput) (*models.Service, error)
	ListServices(ctx context.Context, providerID string) ([]models.Service, error)
	ListReviews(ctx context.Context, providerID string, limit int) ([]models.Review, error)
	RecomputeRating(ctx context.Context, providerID string) (models.Rating, error)
}

// Recomputer is the rating aggregator entry point used for manual repair.
type Recomputer interface {
	Recompute(ctx context.Context, providerID string) (models.Rating, error)
}
