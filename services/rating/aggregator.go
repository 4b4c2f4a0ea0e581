package rating

import (
	"context"
	"errors"

	"washx/database"
	providerRepo "washx/database/repository/provider"
	reviewRepo "washx/database/repository/review"
	"washx/models"
	"washx/utils"

	"go.uber.org/zap"
)

// Aggregator keeps Provider.rating equal to the mean and count of the provider's stored reviews.
//
// Each recomputation holds the provider's lock for read, compute and write. The write is also
// conditional on rating.version, which covers a lock that expired mid-flight.
type Aggregator struct {
	providers   providerRepo.ProviderRepository
	reviews     reviewRepo.ReviewRepository
	locker      Locker
	maxAttempts int
	logger      *zap.Logger
}

func NewAggregator(providers providerRepo.ProviderRepository, reviews reviewRepo.ReviewRepository, locker Locker, maxAttempts int) *Aggregator {
	if locker == nil {
		locker = NewKeyedMutex()
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Aggregator{
		providers:   providers,
		reviews:     reviews,
		locker:      locker,
		maxAttempts: maxAttempts,
		logger:      utils.GetLogger().Named("rating"),
	}
}

// Compute turns review statistics into a rating. No reviews means {0, 0}.
func Compute(stats models.RatingStats) models.Rating {
	if stats.Count <= 0 {
		return models.Rating{}
	}
	return models.Rating{
		Average: float64(stats.Sum) / float64(stats.Count),
		Count:   stats.Count,
	}
}

// OnReviewCreated recomputes the rating of the review's provider.
func (a *Aggregator) OnReviewCreated(ctx context.Context, review models.Review) (models.Rating, error) {
	return a.Recompute(ctx, review.ProviderID)
}

// OnReviewDeleted recomputes the rating over the reduced review set.
func (a *Aggregator) OnReviewDeleted(ctx context.Context, review models.Review) (models.Rating, error) {
	return a.Recompute(ctx, review.ProviderID)
}

// Recompute reads the authoritative review statistics and writes the provider rating.
// It is idempotent and safe to retry after a timeout.
func (a *Aggregator) Recompute(ctx context.Context, providerID string) (models.Rating, error) {
	if providerID == "" {
		return models.Rating{}, utils.ValidationError("providerId is required")
	}

	unlock, err := a.locker.Lock(ctx, providerID)
	if err != nil {
		if errors.Is(err, ErrLockTimeout) {
			return models.Rating{}, utils.ConflictError("provider rating is being updated, try again", err)
		}
		return models.Rating{}, utils.InternalError("failed to lock provider rating", err)
	}
	defer unlock()

	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		provider, err := a.providers.GetByID(ctx, providerID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return models.Rating{}, utils.NotFoundError("provider", providerID)
			}
			return models.Rating{}, utils.InternalError("failed to load provider", err)
		}

		stats, err := a.reviews.RatingStats(ctx, providerID)
		if err != nil {
			return models.Rating{}, utils.InternalError("failed to aggregate reviews", err)
		}
		rating := Compute(stats)

		err = a.providers.UpdateRating(ctx, providerID, rating, provider.Rating.Version)
		switch {
		case err == nil:
			rating.Version = provider.Rating.Version + 1
			a.logger.Debug("Provider rating updated",
				zap.String("providerId", providerID),
				zap.Float64("average", rating.Average),
				zap.Int("count", rating.Count),
				zap.Int("attempt", attempt))
			return rating, nil
		case errors.Is(err, database.ErrVersionConflict):
			a.logger.Debug("Rating write lost a race, retrying",
				zap.String("providerId", providerID), zap.Int("attempt", attempt))
			continue
		case errors.Is(err, database.ErrNotFound):
			return models.Rating{}, utils.NotFoundError("provider", providerID)
		default:
			return models.Rating{}, utils.InternalError("failed to write provider rating", err)
		}
	}

	a.logger.Warn("Rating update gave up after repeated conflicts",
		zap.String("providerId", providerID), zap.Int("attempts", a.maxAttempts))
	return models.Rating{}, utils.ConflictError("provider rating changed concurrently, try again", database.ErrVersionConflict)
}
