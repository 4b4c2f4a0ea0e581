package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"washx/database"
	bookingRepo "washx/database/repository/booking"
	reviewRepo "washx/database/repository/review"
	"washx/models"
	"washx/services/booking"
	"washx/services/tasks"
	"washx/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService creates and deletes reviews and keeps provider ratings in step.
type ReviewService interface {
	Create(ctx context.Context, input models.ReviewInput) (*models.ReviewReceipt, error)
	Delete(ctx context.Context, id string) (*models.ReviewReceipt, error)
}

// Aggregator recomputes provider ratings after review changes.
type Aggregator interface {
	OnReviewCreated(ctx context.Context, review models.Review) (models.Rating, error)
	OnReviewDeleted(ctx context.Context, review models.Review) (models.Rating, error)
}

// DefaultReviewService implements ReviewService.
//
// Persisting the review and recomputing the rating are separate steps. A failed recomputation
// leaves the review in place, marks the receipt as pending and hands the provider to Scheduler.
type DefaultReviewService struct {
	Reviews    reviewRepo.ReviewRepository
	Bookings   bookingRepo.BookingRepository
	Aggregator Aggregator
	Scheduler  tasks.RatingScheduler
	Now        func() time.Time
}

func (s *DefaultReviewService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *DefaultReviewService) Create(ctx context.Context, input models.ReviewInput) (*models.ReviewReceipt, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Comment) == "" {
		return nil, utils.ValidationError("comment is required")
	}

	b, err := s.Bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFoundError("booking", input.BookingID)
		}
		return nil, utils.InternalError("failed to load booking", err)
	}
	if err := booking.CanReview(b); err != nil {
		return nil, err
	}
	if input.ProviderID != "" && input.ProviderID != b.ProviderID {
		return nil, utils.ValidationError("booking %s was not served by provider %s", b.ID, input.ProviderID)
	}
	if input.CustomerID != b.CustomerID {
		return nil, utils.ValidationError("booking %s belongs to another customer", b.ID)
	}

	review := models.Review{
		ID:         uuid.New().String(),
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		ProviderID: b.ProviderID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
		CreatedAt:  s.now(),
	}
	if err := s.Reviews.Create(ctx, &review); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, utils.ConflictError("booking "+b.ID+" has already been reviewed", err)
		}
		return nil, utils.InternalError("failed to save review", err)
	}

	rating, err := s.Aggregator.OnReviewCreated(ctx, review)
	return s.receipt(ctx, review, rating, err), nil
}

func (s *DefaultReviewService) Delete(ctx context.Context, id string) (*models.ReviewReceipt, error) {
	review, err := s.Reviews.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFoundError("review", id)
		}
		return nil, utils.InternalError("failed to delete review", err)
	}

	rating, err := s.Aggregator.OnReviewDeleted(ctx, *review)
	return s.receipt(ctx, *review, rating, err), nil
}

// receipt reports the aggregation outcome and schedules a retry for failures a retry can fix.
func (s *DefaultReviewService) receipt(ctx context.Context, review models.Review, rating models.Rating, aggErr error) *models.ReviewReceipt {
	if aggErr == nil {
		return &models.ReviewReceipt{Review: review, Rating: &rating}
	}

	logger := utils.GetLogger()
	logger.Warn("Rating aggregation failed, review kept",
		zap.String("reviewId", review.ID),
		zap.String("providerId", review.ProviderID),
		zap.Error(aggErr))

	kind := utils.KindOf(aggErr)
	if s.Scheduler != nil && kind != utils.KindNotFound && kind != utils.KindValidation {
		// The request context may already be cancelled.
		schedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.Scheduler.ScheduleRecompute(schedCtx, review.ProviderID); err != nil {
			logger.Error("Failed to schedule rating recompute",
				zap.String("providerId", review.ProviderID), zap.Error(err))
		}
	}
	body := utils.ToErrorBody(aggErr)
	return &models.ReviewReceipt{Review: review, RatingPending: true, RatingError: &body}
}

var _ ReviewService = (*DefaultReviewService)(nil)
