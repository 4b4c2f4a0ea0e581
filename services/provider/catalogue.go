package provider

import (
	"context"
	"strings"

	"washx/models"
	"washx/utils"

	"github.com/google/uuid"
)

// AddService adds an active service to the provider's catalogue.
func (s *DefaultProviderService) AddService(ctx context.Context, providerID string, input models.ServiceInput) (*models.Service, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, providerID); err != nil {
		return nil, err
	}

	service := &models.Service{
		ID:             uuid.New().String(),
		ProviderID:     providerID,
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Category:       models.ServiceCategory(input.Category),
		Price:          input.Price,
		PriceUnit:      models.PriceUnit(input.PriceUnit),
		TurnaroundTime: input.TurnaroundTime,
		Active:         true,
	}
	if err := s.Services.Create(ctx, service); err != nil {
		return nil, utils.InternalError("failed to save service", err)
	}
	if err := s.Repo.AddService(ctx, providerID, service.ID); err != nil {
		return nil, notFoundOr(err, providerID, "failed to link service to provider")
	}
	return service, nil
}

func (s *DefaultProviderService) ListServices(ctx context.Context, providerID string) ([]models.Service, error) {
	if _, err := s.Get(ctx, providerID); err != nil {
		return nil, err
	}
	grouped, err := s.Services.ListByProviders(ctx, []string{providerID}, true)
	if err != nil {
		return nil, utils.InternalError("failed to list services", err)
	}
	services := grouped[providerID]
	if services == nil {
		services = []models.Service{}
	}
	return services, nil
}
