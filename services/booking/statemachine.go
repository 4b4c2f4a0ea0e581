package booking

import (
	"strings"

	"washx/models"
	"washx/utils"
)

// lifecycle is the only forward path a booking may take.
var lifecycle = []models.BookingStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusPickedUp,
	models.StatusInProgress,
	models.StatusReady,
	models.StatusOutForDelivery,
	models.StatusDelivered,
}

func stageOf(s models.BookingStatus) int {
	for i, st := range lifecycle {
		if st == s {
			return i
		}
	}
	return -1
}

// Known reports whether s is a booking status.
func Known(s models.BookingStatus) bool {
	return s == models.StatusCancelled || stageOf(s) >= 0
}

// IsTerminal reports whether no transition may leave s.
func IsTerminal(s models.BookingStatus) bool {
	return s == models.StatusDelivered || s == models.StatusCancelled
}

// Next returns the forward successor of s.
func Next(s models.BookingStatus) (models.BookingStatus, bool) {
	i := stageOf(s)
	if i < 0 || i == len(lifecycle)-1 {
		return "", false
	}
	return lifecycle[i+1], true
}

// Transition checks a single status move. Forward moves go one stage at a time; cancellation is
// allowed from every non-terminal state.
func Transition(from, to models.BookingStatus) error {
	if !Known(from) {
		return utils.InvalidTransitionError("unknown booking status %q", from)
	}
	if !Known(to) {
		return utils.InvalidTransitionError("unknown booking status %q", to)
	}
	if IsTerminal(from) {
		return utils.InvalidTransitionError("booking is already %s", from)
	}
	if to == models.StatusCancelled {
		return nil
	}
	next, _ := Next(from)
	if to != next {
		return utils.InvalidTransitionError("cannot move booking from %s to %s, next status is %s", from, to, next)
	}
	return nil
}

// ValidateCancellation checks the fields a cancellation must record.
func ValidateCancellation(by models.CancelledBy, reason string) error {
	switch by {
	case models.CancelledByCustomer, models.CancelledByProvider, models.CancelledByAdmin:
	case "":
		return utils.ValidationError("cancelledBy is required when cancelling")
	default:
		return utils.ValidationError("cancelledBy must be one of: customer provider admin")
	}
	if strings.TrimSpace(reason) == "" {
		return utils.ValidationError("cancellationReason is required when cancelling")
	}
	return nil
}

// CanReview allows reviews only for delivered bookings.
func CanReview(b *models.Booking) error {
	if b.Status != models.StatusDelivered {
		return utils.InvalidTransitionError("booking %s is %s, only delivered bookings can be reviewed", b.ID, b.Status)
	}
	return nil
}
