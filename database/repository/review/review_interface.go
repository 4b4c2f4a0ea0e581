package reviewRepo

import (
	"context"

	"washx/models"
)

// ReviewRepository defines methods for review data access.
type ReviewRepository interface {
	// Create inserts a review; a second review for the same booking returns database.ErrDuplicate.
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	// Delete removes a review and returns the deleted record.
	Delete(ctx context.Context, id string) (*models.Review, error)
	// ListByProvider returns a provider's reviews, newest first.
	ListByProvider(ctx context.Context, providerID string, limit int) ([]models.Review, error)
	// RatingStats returns the sum and count of the provider's stored review scores.
	RatingStats(ctx context.Context, providerID string) (models.RatingStats, error)
}
