package models

import (
	"time"

	"washx/utils"
)

// Review is a customer's score for one delivered booking.
type Review struct {
	ID         string    `bson:"id" json:"id"`
	BookingID  string    `bson:"bookingId" json:"bookingId"`
	CustomerID string    `bson:"customerId" json:"customerId"`
	ProviderID string    `bson:"providerId" json:"providerId"`
	Rating     int       `bson:"rating" json:"rating"`   // 1..5
	Comment    string    `bson:"comment" json:"comment"` // never empty
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// ReviewInput is the payload for creating a review. ProviderID is optional and, when given,
// must match the booking's provider.
type ReviewInput struct {
	BookingID  string `json:"bookingId" validate:"required"`
	CustomerID string `json:"customerId" validate:"required"`
	ProviderID string `json:"providerId"`
	Rating     int    `json:"rating" validate:"min=1,max=5"`
	Comment    string `json:"comment" validate:"required"`
}

// RatingStats is the authoritative aggregate of a provider's reviews.
type RatingStats struct {
	Sum   int
	Count int
}

// ReviewReceipt reports a persisted review and the outcome of the rating recomputation.
// RatingPending is true when the review was stored but the provider rating could not be updated yet;
// RatingError then carries the aggregation failure.
type ReviewReceipt struct {
	Review        Review           `json:"review"`
	Rating        *Rating          `json:"rating,omitempty"`
	RatingPending bool             `json:"ratingPending"`
	RatingError   *utils.ErrorBody `json:"ratingError,omitempty"`
}
