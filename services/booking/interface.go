package booking

import (
	"context"

	"washx/models"
)

// BookingService manages bookings and drives their status state machine.
type BookingService interface {
	Create(ctx context.Context, input models.BookingInput) (*models.Booking, error)
	Get(ctx context.Context, id string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) (*models.Booking, error)
}
