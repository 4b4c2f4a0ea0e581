package bookingRepo

import (
	"context"

	"washx/models"
)

// StatusChange is one conditional status write.
type StatusChange struct {
	From         models.BookingStatus
	To           models.BookingStatus
	History      models.StatusChange
	Cancellation *models.Cancellation
}

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// UpdateStatus moves the booking to change.To only while it is still in change.From and returns
	// the updated booking. A booking that moved in the meantime yields database.ErrVersionConflict.
	UpdateStatus(ctx context.Context, id string, change StatusChange) (*models.Booking, error)
}
