package providerRepo

import (
	"context"

	"washx/models"
)

// ListFilter narrows a provider listing.
type ListFilter struct {
	// IncludeInactive returns inactive or unverified providers too (admin views).
	IncludeInactive bool
}

// ProviderRepository defines methods for provider data access.
type ProviderRepository interface {
	// Create inserts a new provider record.
	Create(ctx context.Context, provider *models.Provider) error
	// GetByID retrieves a provider by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	// GetByIDs retrieves the providers with the given IDs; unknown IDs are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]models.Provider, error)
	// List retrieves providers, by default only active and verified ones.
	List(ctx context.Context, filter ListFilter) ([]models.Provider, error)
	// SetStatus updates the active/verified gates; nil fields are left untouched.
	SetStatus(ctx context.Context, id string, update models.ProviderStatusUpdate) error
	// SetLocation replaces the provider location; nil clears it.
	SetLocation(ctx context.Context, id string, location *models.GeoPoint) error
	// AddService appends a service ID to servicesOffered.
	AddService(ctx context.Context, id, serviceID string) error
	// UpdateRating writes the rating only if the stored rating version equals expectedVersion.
	// It returns database.ErrVersionConflict when the version moved and database.ErrNotFound when
	// the provider does not exist.
	UpdateRating(ctx context.Context, id string, rating models.Rating, expectedVersion int) error
}
