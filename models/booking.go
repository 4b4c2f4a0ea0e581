package models

import "time"

type BookingStatus string

const (
	StatusPending        BookingStatus = "pending"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusPickedUp       BookingStatus = "picked-up"
	StatusInProgress     BookingStatus = "in-progress"
	StatusReady          BookingStatus = "ready"
	StatusOutForDelivery BookingStatus = "out-for-delivery"
	StatusDelivered      BookingStatus = "delivered"
	StatusCancelled      BookingStatus = "cancelled"
)

type CancelledBy string

const (
	CancelledByCustomer CancelledBy = "customer"
	CancelledByProvider CancelledBy = "provider"
	CancelledByAdmin    CancelledBy = "admin"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// LineItem is a price snapshot of one service taken when the booking was created.
type LineItem struct {
	ServiceID string          `bson:"serviceId" json:"serviceId"`
	Name      string          `bson:"name" json:"name"`
	Category  ServiceCategory `bson:"category" json:"category"`
	PriceUnit PriceUnit       `bson:"priceUnit" json:"priceUnit"`
	Quantity  float64         `bson:"quantity" json:"quantity"`
	Price     float64         `bson:"price" json:"price"` // unit price at booking time
}

type Payment struct {
	Method string        `bson:"method" json:"method"` // "cash", "card" or "mobile-money"
	Status PaymentStatus `bson:"status" json:"status"`
}

type Cancellation struct {
	By     CancelledBy `bson:"by" json:"by"`
	Reason string      `bson:"reason" json:"reason"`
	At     time.Time   `bson:"at" json:"at"`
}

type StatusChange struct {
	From BookingStatus `bson:"from" json:"from"`
	To   BookingStatus `bson:"to" json:"to"`
	At   time.Time     `bson:"at" json:"at"`
}

// Booking is a customer's order with a single provider.
type Booking struct {
	ID              string         `bson:"id" json:"id"`
	CustomerID      string         `bson:"customerId" json:"customerId"`
	ProviderID      string         `bson:"providerId" json:"providerId"`
	Items           []LineItem     `bson:"items" json:"items"`
	TotalAmount     float64        `bson:"totalAmount" json:"totalAmount"`
	Status          BookingStatus  `bson:"status" json:"status"`
	StatusHistory   []StatusChange `bson:"statusHistory" json:"statusHistory,omitempty"`
	Cancellation    *Cancellation  `bson:"cancellation,omitempty" json:"cancellation,omitempty"`
	Payment         Payment        `bson:"payment" json:"payment"`
	PickupAddress   string         `bson:"pickupAddress,omitempty" json:"pickupAddress,omitempty"`
	DeliveryAddress string         `bson:"deliveryAddress,omitempty" json:"deliveryAddress,omitempty"`
	Notes           string         `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt" json:"updatedAt"`
}

type BookingItemInput struct {
	ServiceID string  `json:"serviceId" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
}

// BookingInput is the payload for creating a booking.
type BookingInput struct {
	CustomerID      string             `json:"customerId" validate:"required"`
	ProviderID      string             `json:"providerId" validate:"required"`
	Items           []BookingItemInput `json:"items" validate:"required,min=1,dive"`
	PaymentMethod   string             `json:"paymentMethod" validate:"required,oneof=cash card mobile-money"`
	PickupAddress   string             `json:"pickupAddress"`
	DeliveryAddress string             `json:"deliveryAddress"`
	Notes           string             `json:"notes"`
}

// StatusUpdate drives one booking state transition.
type StatusUpdate struct {
	Status             BookingStatus `json:"status"`
	CancelledBy        CancelledBy   `json:"cancelledBy,omitempty"`
	CancellationReason string        `json:"cancellationReason,omitempty"`
}
