package serviceRepo

import (
	"context"

	"washx/models"
)

// ServiceRepository defines methods for the service catalogue.
type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id string) (*models.Service, error)
	// GetByIDs returns the services with the given IDs; unknown IDs are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]models.Service, error)
	// ListByProviders returns the services of every given provider, grouped by provider ID.
	ListByProviders(ctx context.Context, providerIDs []string, activeOnly bool) (map[string][]models.Service, error)
}
