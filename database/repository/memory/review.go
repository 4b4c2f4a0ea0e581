package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"washx/database"
	reviewRepo "washx/database/repository/review"
	"washx/models"
)

// ReviewRepo is an in-memory reviewRepo.ReviewRepository.
type ReviewRepo struct {
	sync.RWMutex
	data      map[string]models.Review
	byBooking map[string]string
}

func NewReviewRepo() *ReviewRepo {
	return &ReviewRepo{data: map[string]models.Review{}, byBooking: map[string]string{}}
}

func (r *ReviewRepo) Create(_ context.Context, review *models.Review) error {
	r.Lock()
	defer r.Unlock()

	if _, ok := r.data[review.ID]; ok {
		return fmt.Errorf("review %s: %w", review.ID, database.ErrDuplicate)
	}
	if _, ok := r.byBooking[review.BookingID]; ok {
		return fmt.Errorf("review for booking %s: %w", review.BookingID, database.ErrDuplicate)
	}
	r.data[review.ID] = *review
	r.byBooking[review.BookingID] = review.ID
	return nil
}

func (r *ReviewRepo) GetByID(_ context.Context, id string) (*models.Review, error) {
	r.RLock()
	defer r.RUnlock()

	review, ok := r.data[id]
	if !ok {
		return nil, fmt.Errorf("review %s: %w", id, database.ErrNotFound)
	}
	return &review, nil
}

func (r *ReviewRepo) Delete(_ context.Context, id string) (*models.Review, error) {
	r.Lock()
	defer r.Unlock()

	review, ok := r.data[id]
	if !ok {
		return nil, fmt.Errorf("review %s: %w", id, database.ErrNotFound)
	}
	delete(r.data, id)
	delete(r.byBooking, review.BookingID)
	return &review, nil
}

func (r *ReviewRepo) ListByProvider(_ context.Context, providerID string, limit int) ([]models.Review, error) {
	r.RLock()
	defer r.RUnlock()

	out := []models.Review{}
	for _, review := range r.data {
		if review.ProviderID == providerID {
			out = append(out, review)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ReviewRepo) RatingStats(_ context.Context, providerID string) (models.RatingStats, error) {
	r.RLock()
	defer r.RUnlock()

	var stats models.RatingStats
	for _, review := range r.data {
		if review.ProviderID == providerID {
			stats.Sum += review.Rating
			stats.Count++
		}
	}
	return stats, nil
}

var _ reviewRepo.ReviewRepository = (*ReviewRepo)(nil)
