package models

type SortKey string

const (
	SortByRating   SortKey = "rating"
	SortByDistance SortKey = "distance"
	SortByPrice    SortKey = "price"
)

// NearbyQuery asks the geo index for providers around a point.
type NearbyQuery struct {
	Point           LatLng
	RadiusKm        float64
	Limit           int // <= 0 means no truncation
	IncludeInactive bool
}

// NearbyHit is one geo index result.
type NearbyHit struct {
	ProviderID string  `json:"providerId"`
	DistanceKm float64 `json:"distanceKm"`
}

// DiscoveryQuery is the customer-facing provider search.
type DiscoveryQuery struct {
	Point           *LatLng
	Search          string
	MinRating       float64
	MaxDistanceKm   float64
	ServiceCategory string // a ServiceCategory or "all"
	SortBy          SortKey
	Limit           int
	IncludeInactive bool
}

// ProviderSummary is the read-only view model of a provider in search results.
type ProviderSummary struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Rating        Rating            `json:"rating"`
	DistanceKm    *float64          `json:"distanceKm,omitempty"`
	CheapestPrice *float64          `json:"cheapestPrice,omitempty"`
	Categories    []ServiceCategory `json:"categories"`
	Active        bool              `json:"active"`
	Verified      bool              `json:"verified"`
}

// NearbyProvider is a provider returned by a radius query with its distance from the query point.
type NearbyProvider struct {
	Provider   Provider `json:"provider"`
	DistanceKm float64  `json:"distanceKm"`
}
