package memory

import (
	"context"
	"fmt"
	"sync"

	"washx/database"
	bookingRepo "washx/database/repository/booking"
	"washx/models"
)

// BookingRepo is an in-memory bookingRepo.BookingRepository.
type BookingRepo struct {
	sync.RWMutex
	data map[string]*models.Booking
}

func NewBookingRepo() *BookingRepo {
	return &BookingRepo{data: map[string]*models.Booking{}}
}

func cloneBooking(b *models.Booking) *models.Booking {
	c := *b
	c.Items = append([]models.LineItem(nil), b.Items...)
	c.StatusHistory = append([]models.StatusChange(nil), b.StatusHistory...)
	if b.Cancellation != nil {
		cancellation := *b.Cancellation
		c.Cancellation = &cancellation
	}
	return &c
}

func (r *BookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.Lock()
	defer r.Unlock()

	if _, ok := r.data[booking.ID]; ok {
		return fmt.Errorf("booking %s: %w", booking.ID, database.ErrDuplicate)
	}
	r.data[booking.ID] = cloneBooking(booking)
	return nil
}

func (r *BookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.RLock()
	defer r.RUnlock()

	b, ok := r.data[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, database.ErrNotFound)
	}
	return cloneBooking(b), nil
}

func (r *BookingRepo) UpdateStatus(_ context.Context, id string, change bookingRepo.StatusChange) (*models.Booking, error) {
	r.Lock()
	defer r.Unlock()

	b, ok := r.data[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, database.ErrNotFound)
	}
	if b.Status != change.From {
		return nil, fmt.Errorf("booking %s left status %s: %w", id, change.From, database.ErrVersionConflict)
	}
	b.Status = change.To
	b.UpdatedAt = change.History.At
	b.StatusHistory = append(b.StatusHistory, change.History)
	if change.Cancellation != nil {
		cancellation := *change.Cancellation
		b.Cancellation = &cancellation
	}
	return cloneBooking(b), nil
}

var _ bookingRepo.BookingRepository = (*BookingRepo)(nil)
