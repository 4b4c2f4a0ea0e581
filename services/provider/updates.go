package provider

import (
	"context"

	"washx/models"
	"washx/utils"

	"go.uber.org/zap"
)

func (s *DefaultProviderService) UpdateLocation(ctx context.Context, id string, location *models.LatLng) (*models.Provider, error) {
	var point *models.GeoPoint
	if location != nil {
		if !location.Valid() {
			return nil, utils.ValidationError("location out of range: lat must be within [-90,90] and lng within [-180,180]")
		}
		point = models.NewGeoPoint(location.Lat, location.Lng)
	}

	if err := s.Repo.SetLocation(ctx, id, point); err != nil {
		return nil, notFoundOr(err, id, "failed to update provider location")
	}
	return s.reindex(ctx, id)
}

func (s *DefaultProviderService) SetStatus(ctx context.Context, id string, update models.ProviderStatusUpdate) (*models.Provider, error) {
	if update.Active == nil && update.Verified == nil {
		return nil, utils.ValidationError("nothing to update: set active or verified")
	}
	if err := s.Repo.SetStatus(ctx, id, update); err != nil {
		return nil, notFoundOr(err, id, "failed to update provider status")
	}
	p, err := s.reindex(ctx, id)
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Provider status changed",
		zap.String("providerId", id), zap.Bool("active", p.Active), zap.Bool("verified", p.Verified))
	return p, nil
}

// reindex refreshes the geo index from the stored provider.
func (s *DefaultProviderService) reindex(ctx context.Context, id string) (*models.Provider, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Index.Index(ctx, *p); err != nil {
		return nil, utils.InternalError("failed to index provider", err)
	}
	return p, nil
}
