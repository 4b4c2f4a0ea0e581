package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	"washx/database"
	providerRepo "washx/database/repository/provider"
	reviewRepo "washx/database/repository/review"
	serviceRepo "washx/database/repository/service"
	"washx/models"
	"washx/services/geo"
	"washx/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultProviderService implements ProviderService.
type DefaultProviderService struct {
	Repo     providerRepo.ProviderRepository
	Services serviceRepo.ServiceRepository
	Reviews  reviewRepo.ReviewRepository
	Index    geo.GeoIndex
	Ratings  Recomputer
}

func notFoundOr(err error, id, msg string) error {
	if errors.Is(err, database.ErrNotFound) {
		return utils.NotFoundError("provider", id)
	}
	return utils.InternalError(msg, err)
}

// Register creates an active, not yet verified provider with an empty rating.
func (s *DefaultProviderService) Register(ctx context.Context, input models.ProviderRegistration) (*models.Provider, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, utils.ValidationError("name is required")
	}
	if input.Location != nil && !input.Location.Valid() {
		return nil, utils.ValidationError("location out of range: lat must be within [-90,90] and lng within [-180,180]")
	}

	now := time.Now().UTC()
	provider := &models.Provider{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(input.Name),
		Email:           strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:           input.Phone,
		Address:         input.Address,
		ServicesOffered: []string{},
		Active:          true,
		Verified:        false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if input.Location != nil {
		provider.Location = models.NewGeoPoint(input.Location.Lat, input.Location.Lng)
	}

	if err := s.Repo.Create(ctx, provider); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, utils.ConflictError("a provider with this email already exists", err)
		}
		return nil, utils.InternalError("failed to create provider", err)
	}
	if err := s.Index.Index(ctx, *provider); err != nil {
		return nil, utils.InternalError("failed to index provider location", err)
	}

	utils.GetLogger().Info("Provider registered", zap.String("providerId", provider.ID))
	return provider, nil
}

func (s *DefaultProviderService) Get(ctx context.Context, id string) (*models.Provider, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, id, "failed to load provider")
	}
	return p, nil
}

func (s *DefaultProviderService) Nearby(ctx context.Context, q models.NearbyQuery) ([]models.NearbyProvider, error) {
	hits, err := s.Index.Query(ctx, q)
	if err != nil {
		return []models.NearbyProvider{}, err
	}
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ProviderID)
	}
	providers, err := s.Repo.GetByIDs(ctx, ids)
	if err != nil {
		return []models.NearbyProvider{}, utils.InternalError("failed to load nearby providers", err)
	}
	byID := make(map[string]models.Provider, len(providers))
	for _, p := range providers {
		byID[p.ID] = p
	}

	out := make([]models.NearbyProvider, 0, len(hits))
	for _, h := range hits {
		p, ok := byID[h.ProviderID]
		if !ok || (!q.IncludeInactive && !p.Visible()) {
			continue
		}
		out = append(out, models.NearbyProvider{Provider: p, DistanceKm: h.DistanceKm})
	}
	return out, nil
}

func (s *DefaultProviderService) ListReviews(ctx context.Context, providerID string, limit int) ([]models.Review, error) {
	if _, err := s.Get(ctx, providerID); err != nil {
		return nil, err
	}
	reviews, err := s.Reviews.ListByProvider(ctx, providerID, limit)
	if err != nil {
		return nil, utils.InternalError("failed to list reviews", err)
	}
	return reviews, nil
}

func (s *DefaultProviderService) RecomputeRating(ctx context.Context, providerID string) (models.Rating, error) {
	return s.Ratings.Recompute(ctx, providerID)
}

var _ ProviderService = (*DefaultProviderService)(nil)
