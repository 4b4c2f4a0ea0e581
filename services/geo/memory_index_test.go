package geo

import (
	"context"
	"math/rand"
	"sort"
	"testing"

	"washx/database/repository/memory"
	"washx/models"
	"washx/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nyc = models.LatLng{Lat: 40.7128, Lng: -74.0060}

// north returns the point distKm due north of p.
func north(p models.LatLng, distKm float64) models.LatLng {
	return models.LatLng{Lat: p.Lat + toDeg(distKm/EarthRadiusKm), Lng: p.Lng}
}

func provider(id string, at models.LatLng, visible bool) models.Provider {
	return models.Provider{
		ID:       id,
		Name:     id,
		Location: models.NewGeoPoint(at.Lat, at.Lng),
		Active:   visible,
		Verified: visible,
	}
}

func ids(hits []models.NearbyHit) []string {
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.ProviderID)
	}
	return out
}

func TestMemoryIndex_OrdersByDistance(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	require.NoError(t, idx.Index(ctx, provider("A", north(nyc, 1.2), true)))
	require.NoError(t, idx.Index(ctx, provider("B", north(nyc, 0.8), true)))
	require.NoError(t, idx.Index(ctx, provider("C", north(nyc, 5), true)))

	hits, err := idx.Query(ctx, models.NearbyQuery{Point: nyc, RadiusKm: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, ids(hits))
	assert.InDelta(t, 0.8, hits[0].DistanceKm, 1e-6)
	assert.InDelta(t, 1.2, hits[1].DistanceKm, 1e-6)
}

func TestMemoryIndex_InvalidQueryReturnsEmpty(t *testing.T) {
	idx := NewMemoryIndex()
	require.NoError(t, idx.Index(context.Background(), provider("A", nyc, true)))

	hits, err := idx.Query(context.Background(), models.NearbyQuery{Point: nyc, RadiusKm: -1})
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	assert.Empty(t, hits)
}

func TestMemoryIndex_TiesBrokenByID(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	// Mirror images across the query meridian, on exactly representable offsets.
	center := models.LatLng{Lat: 40.5, Lng: -74}
	require.NoError(t, idx.Index(ctx, provider("west", models.LatLng{Lat: 40.5, Lng: -74.03125}, true)))
	require.NoError(t, idx.Index(ctx, provider("east", models.LatLng{Lat: 40.5, Lng: -73.96875}, true)))

	for i := 0; i < 5; i++ {
		hits, err := idx.Query(ctx, models.NearbyQuery{Point: center, RadiusKm: 5})
		require.NoError(t, err)
		assert.Equal(t, []string{"east", "west"}, ids(hits))
	}
}

func TestMemoryIndex_BoundaryInclusiveAndLimit(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	edge := north(nyc, 3)
	require.NoError(t, idx.Index(ctx, provider("edge", edge, true)))
	require.NoError(t, idx.Index(ctx, provider("near", north(nyc, 1), true)))

	hits, err := idx.Query(ctx, models.NearbyQuery{Point: nyc, RadiusKm: Haversine(nyc, edge)})
	require.NoError(t, err)
	assert.Equal(t, []string{"near", "edge"}, ids(hits))

	hits, err = idx.Query(ctx, models.NearbyQuery{Point: nyc, RadiusKm: 10, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"near"}, ids(hits))
}

func TestMemoryIndex_VisibilityAndMissingCoordinates(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	require.NoError(t, idx.Index(ctx, provider("visible", north(nyc, 1), true)))
	require.NoError(t, idx.Index(ctx, provider("hidden", north(nyc, 1.5), false)))
	require.NoError(t, idx.Index(ctx, models.Provider{ID: "nowhere", Active: true, Verified: true}))

	hits, err := idx.Query(ctx, models.NearbyQuery{Point: nyc, RadiusKm: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"visible"}, ids(hits))

	hits, err = idx.Query(ctx, models.NearbyQuery{Point: nyc, RadiusKm: 5, IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"visible", "hidden"}, ids(hits))
}

func TestMemoryIndex_ReindexAndRemove(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	p := provider("p", north(nyc, 1), true)
	require.NoError(t, idx.Index(ctx, p))

	// moved 100 km away
	p.Location = models.NewGeoPoint(north(nyc, 100).Lat, nyc.Lng)
	require.NoError(t, idx.Index(ctx, p))
	hits, err := idx.Query(ctx, models.NearbyQuery{Point: nyc, RadiusKm: 5})
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Query(ctx, models.NearbyQuery{Point: nyc, RadiusKm: 101})
	require.NoError(t, err)
	assert.Equal(t, []string{"p"}, ids(hits))

	require.NoError(t, idx.Remove(ctx, "p"))
	hits, err = idx.Query(ctx, models.NearbyQuery{Point: nyc, RadiusKm: 101})
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Empty(t, idx.grid)
}

func TestMemoryIndex_AntimeridianAndPole(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	require.NoError(t, idx.Index(ctx, provider("fiji", models.LatLng{Lat: -17, Lng: -179.99}, true)))
	require.NoError(t, idx.Index(ctx, provider("dateline", models.LatLng{Lat: 0, Lng: 180}, true)))
	require.NoError(t, idx.Index(ctx, provider("arctic", models.LatLng{Lat: 89.9, Lng: 180}, true)))
	for i := 0; i < 200; i++ {
		// filler so the grid path is taken rather than a full scan
		require.NoError(t, idx.Index(ctx, provider(string(rune('a'+i%26))+string(rune('a'+i/26)), models.LatLng{Lat: 10, Lng: float64(i%100) - 50}, true)))
	}

	hits, err := idx.Query(ctx, models.NearbyQuery{Point: models.LatLng{Lat: -17, Lng: 179.99}, RadiusKm: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"fiji"}, ids(hits))

	hits, err = idx.Query(ctx, models.NearbyQuery{Point: models.LatLng{Lat: 0, Lng: -179.99}, RadiusKm: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"dateline"}, ids(hits))

	hits, err = idx.Query(ctx, models.NearbyQuery{Point: models.LatLng{Lat: 89.9, Lng: 0}, RadiusKm: 30})
	require.NoError(t, err)
	assert.Equal(t, []string{"arctic"}, ids(hits))
}

func bruteForce(points map[string]models.LatLng, q models.NearbyQuery) []string {
	type hit struct {
		id string
		d  float64
	}
	var hits []hit
	for id, p := range points {
		if d := Haversine(q.Point, p); d <= q.RadiusKm {
			hits = append(hits, hit{id, d})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].d != hits[j].d {
			return hits[i].d < hits[j].d
		}
		return hits[i].id < hits[j].id
	})
	out := []string{}
	for _, h := range hits {
		out = append(out, h.id)
	}
	return out
}

func TestMemoryIndex_MatchesBruteForceAndMonotonic(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	idx := NewMemoryIndex()
	points := map[string]models.LatLng{}
	for i := 0; i < 600; i++ {
		id := "p" + string(rune('A'+i%26)) + string(rune('A'+(i/26)%26))
		p := models.LatLng{Lat: -3 + rng.Float64()*6, Lng: 34 + rng.Float64()*8}
		points[id] = p
		require.NoError(t, idx.Index(ctx, provider(id, p, true)))
	}

	center := models.LatLng{Lat: -1.2921, Lng: 36.8219}
	var previous []string
	for _, r := range []float64{1, 10, 25, 60, 150, 400, 1000} {
		q := models.NearbyQuery{Point: center, RadiusKm: r}
		hits, err := idx.Query(ctx, q)
		require.NoError(t, err)
		got := ids(hits)
		assert.Equal(t, bruteForce(points, q), got, "radius %v", r)
		assert.Subset(t, got, previous, "radius %v", r)
		previous = got
	}
}

func TestMemoryIndex_Load(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProviderRepo()
	p := provider("p1", nyc, false)
	p.Email = "p1@example.com"
	require.NoError(t, repo.Create(ctx, &p))

	idx := NewMemoryIndex()
	require.NoError(t, idx.Load(ctx, repo))

	hits, err := idx.Query(ctx, models.NearbyQuery{Point: nyc, RadiusKm: 1, IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids(hits))
}
