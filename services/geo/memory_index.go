package geo

import (
	"context"
	"fmt"
	"math"
	"sync"

	providerRepo "washx/database/repository/provider"
	"washx/models"
)

const (
	cellDeg  = 0.5
	lngCells = int(360 / cellDeg)
)

type cell struct{ lat, lng int }

type entry struct {
	point   models.LatLng
	visible bool
	cell    cell
}

// MemoryIndex is an in-process GeoIndex over a fixed lat/lng grid.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[string]entry
	grid    map[cell]map[string]struct{}
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		entries: map[string]entry{},
		grid:    map[cell]map[string]struct{}{},
	}
}

func cellOf(p models.LatLng) cell {
	lng := p.Lng
	if lng >= 180 {
		lng = -180
	}
	return cell{lat: int(math.Floor(p.Lat / cellDeg)), lng: int(math.Floor(lng / cellDeg))}
}

// wrapLng maps any longitude cell index into [-lngCells/2, lngCells/2).
func wrapLng(i int) int {
	half := lngCells / 2
	return ((i+half)%lngCells+lngCells)%lngCells - half
}

// Load indexes every stored provider, visible or not.
func (m *MemoryIndex) Load(ctx context.Context, repo providerRepo.ProviderRepository) error {
	providers, err := repo.List(ctx, providerRepo.ListFilter{IncludeInactive: true})
	if err != nil {
		return fmt.Errorf("failed to load providers into geo index: %w", err)
	}
	for _, p := range providers {
		if err := m.Index(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryIndex) Index(_ context.Context, provider models.Provider) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeLocked(provider.ID)
	point, ok := provider.Location.LatLng()
	if !ok {
		return nil
	}
	e := entry{point: point, visible: provider.Visible(), cell: cellOf(point)}
	m.entries[provider.ID] = e
	bucket, ok := m.grid[e.cell]
	if !ok {
		bucket = map[string]struct{}{}
		m.grid[e.cell] = bucket
	}
	bucket[provider.ID] = struct{}{}
	return nil
}

func (m *MemoryIndex) Remove(_ context.Context, providerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(providerID)
	return nil
}

func (m *MemoryIndex) removeLocked(id string) {
	e, ok := m.entries[id]
	if !ok {
		return
	}
	delete(m.entries, id)
	if bucket := m.grid[e.cell]; bucket != nil {
		delete(bucket, id)
		if len(bucket) == 0 {
			delete(m.grid, e.cell)
		}
	}
}

// bounds returns the lat/lng cell window that can contain a point within radiusKm of center.
// fullLng is set when every longitude must be visited.
func bounds(center models.LatLng, radiusKm float64) (latLo, latHi, lngLo, lngHi int, fullLng bool) {
	d := radiusKm / EarthRadiusKm
	dDeg := toDeg(d)

	latMin := center.Lat - dDeg
	latMax := center.Lat + dDeg
	latLo = int(math.Floor(math.Max(latMin, -90)/cellDeg)) - 1
	latHi = int(math.Floor(math.Min(latMax, 90)/cellDeg)) + 1

	if d >= math.Pi || latMin <= -90 || latMax >= 90 {
		return latLo, latHi, 0, 0, true
	}

	// For any point in the band, cos(lat1)cos(lat2) >= cos^2(phiMax), so the haversine bound gives
	// sin(dLng/2) <= sin(d/2) / cos(phiMax).
	phiMax := toRad(math.Max(math.Abs(latMin), math.Abs(latMax)))
	s := math.Sin(d/2) / math.Cos(phiMax)
	if s >= 1 {
		return latLo, latHi, 0, 0, true
	}
	dLng := toDeg(2 * math.Asin(s))
	if 2*dLng+2*cellDeg >= 360 {
		return latLo, latHi, 0, 0, true
	}
	lngLo = int(math.Floor((center.Lng-dLng)/cellDeg)) - 1
	lngHi = int(math.Floor((center.Lng+dLng)/cellDeg)) + 1
	return latLo, latHi, lngLo, lngHi, false
}

func (m *MemoryIndex) Query(_ context.Context, q models.NearbyQuery) ([]models.NearbyHit, error) {
	if err := ValidateQuery(q); err != nil {
		return []models.NearbyHit{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	hits := []models.NearbyHit{}
	consider := func(id string, e entry) {
		if !e.visible && !q.IncludeInactive {
			return
		}
		if d := Haversine(q.Point, e.point); d <= q.RadiusKm {
			hits = append(hits, models.NearbyHit{ProviderID: id, DistanceKm: d})
		}
	}

	latLo, latHi, lngLo, lngHi, fullLng := bounds(q.Point, q.RadiusKm)
	latSpan := latHi - latLo + 1
	lngSpan := lngCells
	if !fullLng {
		lngSpan = lngHi - lngLo + 1
	}

	// Scanning the entries is cheaper than visiting more cells than there are providers.
	if latSpan*lngSpan > len(m.entries) {
		for id, e := range m.entries {
			consider(id, e)
		}
		return sortAndLimit(hits, q.Limit), nil
	}

	visited := map[cell]bool{}
	for lat := latLo; lat <= latHi; lat++ {
		for i := 0; i < lngSpan; i++ {
			c := cell{lat: lat, lng: wrapLng(lngLo + i)}
			if fullLng {
				c.lng = wrapLng(i)
			}
			if visited[c] {
				continue
			}
			visited[c] = true
			for id := range m.grid[c] {
				consider(id, m.entries[id])
			}
		}
	}
	return sortAndLimit(hits, q.Limit), nil
}

var _ GeoIndex = (*MemoryIndex)(nil)
