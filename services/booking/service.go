package booking

import (
	"context"
	"errors"
	"math"
	"time"

	"washx/database"
	bookingRepo "washx/database/repository/booking"
	providerRepo "washx/database/repository/provider"
	serviceRepo "washx/database/repository/service"
	"washx/models"
	"washx/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Bookings  bookingRepo.BookingRepository
	Providers providerRepo.ProviderRepository
	Services  serviceRepo.ServiceRepository
	Now       func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Create validates the order, snapshots current service prices and stores a pending booking.
func (s *DefaultBookingService) Create(ctx context.Context, input models.BookingInput) (*models.Booking, error) {
	logger := utils.GetLogger()

	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	provider, err := s.Providers.GetByID(ctx, input.ProviderID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFoundError("provider", input.ProviderID)
		}
		return nil, utils.InternalError("failed to load provider", err)
	}
	if !provider.Active {
		return nil, utils.ValidationError("provider %s is not accepting bookings", provider.ID)
	}

	ids := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ServiceID)
	}
	services, err := s.Services.GetByIDs(ctx, ids)
	if err != nil {
		return nil, utils.InternalError("failed to load services", err)
	}
	byID := make(map[string]models.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	items := make([]models.LineItem, 0, len(input.Items))
	var total float64
	for _, item := range input.Items {
		svc, ok := byID[item.ServiceID]
		if !ok {
			return nil, utils.NotFoundError("service", item.ServiceID)
		}
		if svc.ProviderID != provider.ID {
			return nil, utils.ValidationError("service %s is not offered by provider %s", svc.ID, provider.ID)
		}
		if !svc.Active {
			return nil, utils.ValidationError("service %s is not currently available", svc.ID)
		}
		items = append(items, models.LineItem{
			ServiceID: svc.ID,
			Name:      svc.Name,
			Category:  svc.Category,
			PriceUnit: svc.PriceUnit,
			Quantity:  item.Quantity,
			Price:     svc.Price,
		})
		total += svc.Price * item.Quantity
	}

	now := s.now()
	booking := &models.Booking{
		ID:              uuid.New().String(),
		CustomerID:      input.CustomerID,
		ProviderID:      provider.ID,
		Items:           items,
		TotalAmount:     roundCents(total),
		Status:          models.StatusPending,
		StatusHistory:   []models.StatusChange{},
		Payment:         models.Payment{Method: input.PaymentMethod, Status: models.PaymentPending},
		PickupAddress:   input.PickupAddress,
		DeliveryAddress: input.DeliveryAddress,
		Notes:           input.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Bookings.Create(ctx, booking); err != nil {
		return nil, utils.InternalError("failed to save booking", err)
	}

	logger.Info("Booking created",
		zap.String("bookingId", booking.ID),
		zap.String("providerId", booking.ProviderID),
		zap.Float64("total", booking.TotalAmount))
	return booking, nil
}

func (s *DefaultBookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFoundError("booking", id)
		}
		return nil, utils.InternalError("failed to load booking", err)
	}
	return b, nil
}

// UpdateStatus applies one transition. The write only succeeds while the booking is still in the
// status the transition was checked against.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) (*models.Booking, error) {
	if update.Status == "" {
		return nil, utils.ValidationError("status is required")
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Transition(current.Status, update.Status); err != nil {
		return nil, err
	}

	now := s.now()
	change := bookingRepo.StatusChange{
		From:    current.Status,
		To:      update.Status,
		History: models.StatusChange{From: current.Status, To: update.Status, At: now},
	}
	if update.Status == models.StatusCancelled {
		if err := ValidateCancellation(update.CancelledBy, update.CancellationReason); err != nil {
			return nil, err
		}
		change.Cancellation = &models.Cancellation{
			By:     update.CancelledBy,
			Reason: update.CancellationReason,
			At:     now,
		}
	}

	updated, err := s.Bookings.UpdateStatus(ctx, id, change)
	switch {
	case err == nil:
	case errors.Is(err, database.ErrVersionConflict):
		return nil, utils.ConflictError("booking status changed concurrently, reload and retry", err)
	case errors.Is(err, database.ErrNotFound):
		return nil, utils.NotFoundError("booking", id)
	default:
		return nil, utils.InternalError("failed to update booking status", err)
	}

	utils.GetLogger().Info("Booking status changed",
		zap.String("bookingId", id),
		zap.String("from", string(change.From)),
		zap.String("to", string(change.To)))
	return updated, nil
}

var _ BookingService = (*DefaultBookingService)(nil)
