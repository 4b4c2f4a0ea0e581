package models

import (
	"time"
)

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// NewGeoPoint builds a GeoJSON point from a latitude/longitude pair.
func NewGeoPoint(lat, lng float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// LatLng returns the point as a LatLng. ok is false when the point carries no usable coordinates.
func (g *GeoPoint) LatLng() (LatLng, bool) {
	if g == nil || len(g.Coordinates) != 2 {
		return LatLng{}, false
	}
	ll := LatLng{Lat: g.Coordinates[1], Lng: g.Coordinates[0]}
	if !ll.Valid() {
		return LatLng{}, false
	}
	return ll, true
}

// LatLng is a plain coordinate pair used for query input.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the pair lies in [-90,90] x [-180,180].
func (p LatLng) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Rating is the materialized review aggregate of a provider. Only the rating aggregator writes it.
type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
	Version int     `bson:"version" json:"-"` // optimistic concurrency counter
}

type Provider struct {
	ID              string    `bson:"id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	Email           string    `bson:"email" json:"email,omitempty"`
	Phone           string    `bson:"phone" json:"phone,omitempty"`
	Address         string    `bson:"address" json:"address,omitempty"`
	Location        *GeoPoint `bson:"location,omitempty" json:"location,omitempty"`
	Rating          Rating    `bson:"rating" json:"rating"`
	ServicesOffered []string  `bson:"servicesOffered" json:"servicesOffered"`
	Active          bool      `bson:"active" json:"active"`
	Verified        bool      `bson:"verified" json:"verified"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Visible reports whether the provider shows up in customer-facing discovery.
func (p *Provider) Visible() bool {
	return p.Active && p.Verified
}

// ProviderRegistration is the client-supplied part of a new provider. Rating is deliberately absent.
type ProviderRegistration struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    string  `json:"phone"`
	Address  string  `json:"address"`
	Location *LatLng `json:"location"`
}

// ProviderStatusUpdate toggles the discovery gates. Nil fields are left untouched.
type ProviderStatusUpdate struct {
	Active   *bool `json:"active"`
	Verified *bool `json:"verified"`
}
