package geo

import (
	"context"
	"fmt"

	providerRepo "washx/database/repository/provider"
	"washx/models"
	"washx/utils"
)

// geoNearPadding widens the $geoNear radius so the haversine re-check decides the boundary.
const geoNearPadding = 1.01

type nearStore interface {
	Near(ctx context.Context, c providerRepo.NearCriteria) ([]providerRepo.NearResult, error)
	SetLocation(ctx context.Context, id string, location *models.GeoPoint) error
}

// MongoIndex is a GeoIndex backed by the providers collection's 2dsphere index.
type MongoIndex struct {
	store nearStore
}

func NewMongoIndex(repo *providerRepo.MongoProviderRepo) *MongoIndex {
	return &MongoIndex{store: repo}
}

func (m *MongoIndex) Index(ctx context.Context, provider models.Provider) error {
	var location *models.GeoPoint
	if point, ok := provider.Location.LatLng(); ok {
		location = models.NewGeoPoint(point.Lat, point.Lng)
	}
	if err := m.store.SetLocation(ctx, provider.ID, location); err != nil {
		return fmt.Errorf("failed to index provider %s: %w", provider.ID, err)
	}
	return nil
}

// Remove clears the stored location so the provider no longer matches geo queries.
func (m *MongoIndex) Remove(ctx context.Context, providerID string) error {
	return m.store.SetLocation(ctx, providerID, nil)
}

func (m *MongoIndex) Query(ctx context.Context, q models.NearbyQuery) ([]models.NearbyHit, error) {
	if err := ValidateQuery(q); err != nil {
		return []models.NearbyHit{}, err
	}

	results, err := m.store.Near(ctx, providerRepo.NearCriteria{
		Lng:             q.Point.Lng,
		Lat:             q.Point.Lat,
		MaxDistanceM:    q.RadiusKm * 1000 * geoNearPadding,
		IncludeInactive: q.IncludeInactive,
	})
	if err != nil {
		return []models.NearbyHit{}, utils.InternalError("nearby query failed", err)
	}

	hits := make([]models.NearbyHit, 0, len(results))
	for _, r := range results {
		point, ok := r.Location.LatLng()
		if !ok {
			continue
		}
		if d := Haversine(q.Point, point); d <= q.RadiusKm {
			hits = append(hits, models.NearbyHit{ProviderID: r.ID, DistanceKm: d})
		}
	}
	return sortAndLimit(hits, q.Limit), nil
}

var _ GeoIndex = (*MongoIndex)(nil)
