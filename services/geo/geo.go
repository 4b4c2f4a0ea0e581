package geo

import (
	"context"
	"math"
	"sort"

	"washx/models"
	"washx/utils"
)

// EarthRadiusKm is the mean Earth radius used for every distance in the service.
const EarthRadiusKm = 6371.0

// GeoIndex answers "which providers are within r km of a point".
type GeoIndex interface {
	// Index inserts or refreshes a provider. A provider without usable coordinates is dropped from the index.
	Index(ctx context.Context, provider models.Provider) error
	Remove(ctx context.Context, providerID string) error
	// Query returns hits ordered by distance then provider ID.
	Query(ctx context.Context, q models.NearbyQuery) ([]models.NearbyHit, error)
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

// Haversine returns the great-circle distance between a and b in kilometers.
func Haversine(a, b models.LatLng) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lng - a.Lng)
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	if h > 1 {
		h = 1
	}
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ValidateQuery rejects queries that can never be answered.
func ValidateQuery(q models.NearbyQuery) error {
	if !finite(q.Point.Lat) || !finite(q.Point.Lng) || !q.Point.Valid() {
		return utils.ValidationError("coordinates out of range: lat must be within [-90,90] and lng within [-180,180]")
	}
	if !finite(q.RadiusKm) || q.RadiusKm <= 0 {
		return utils.ValidationError("radius must be a positive number of kilometers")
	}
	if q.Limit < 0 {
		return utils.ValidationError("limit must not be negative")
	}
	return nil
}

// sortAndLimit orders hits by distance, breaking ties by provider ID, then truncates.
func sortAndLimit(hits []models.NearbyHit, limit int) []models.NearbyHit {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].DistanceKm != hits[j].DistanceKm {
			return hits[i].DistanceKm < hits[j].DistanceKm
		}
		return hits[i].ProviderID < hits[j].ProviderID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
