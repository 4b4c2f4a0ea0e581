package discovery

import (
	"context"
	"math"
	"sort"
	"strings"

	providerRepo "washx/database/repository/provider"
	serviceRepo "washx/database/repository/service"
	"washx/models"
	"washx/services/geo"
	"washx/utils"
)

// DiscoveryService runs the customer-facing provider search.
type DiscoveryService interface {
	Search(ctx context.Context, q models.DiscoveryQuery) ([]models.ProviderSummary, error)
}

// Pipeline combines the geo index with text, rating and category filters and a sort key.
type Pipeline struct {
	Providers    providerRepo.ProviderRepository
	Services     serviceRepo.ServiceRepository
	Index        geo.GeoIndex
	DefaultLimit int
	MaxLimit     int
}

type candidate struct {
	provider models.Provider
	distance *float64
	services []models.Service
	cheapest *float64
}

func validate(q models.DiscoveryQuery) error {
	if q.Point != nil && (!q.Point.Valid() || math.IsNaN(q.Point.Lat) || math.IsNaN(q.Point.Lng)) {
		return utils.ValidationError("coordinates out of range: lat must be within [-90,90] and lng within [-180,180]")
	}
	if math.IsNaN(q.MinRating) || q.MinRating < 0 || q.MinRating > 5 {
		return utils.ValidationError("minRating must be within [0,5]")
	}
	if math.IsNaN(q.MaxDistanceKm) || math.IsInf(q.MaxDistanceKm, 0) || q.MaxDistanceKm < 0 {
		return utils.ValidationError("maxDistance must not be negative")
	}
	if c := q.ServiceCategory; c != "" && c != models.CategoryAll && !models.ServiceCategory(c).Valid() {
		return utils.ValidationError("unknown service category %q", c)
	}
	switch q.SortBy {
	case "", models.SortByRating, models.SortByDistance, models.SortByPrice:
	default:
		return utils.ValidationError("sortBy must be one of: rating distance price")
	}
	if q.Limit < 0 {
		return utils.ValidationError("limit must not be negative")
	}
	return nil
}

func (p *Pipeline) limit(requested int) int {
	limit := requested
	if limit == 0 {
		limit = p.DefaultLimit
	}
	if p.MaxLimit > 0 && limit > p.MaxLimit {
		limit = p.MaxLimit
	}
	return limit
}

// Search returns deduplicated provider summaries. A validation failure returns an empty list with the error.
func (p *Pipeline) Search(ctx context.Context, q models.DiscoveryQuery) ([]models.ProviderSummary, error) {
	if err := validate(q); err != nil {
		return []models.ProviderSummary{}, err
	}

	candidates, err := p.candidates(ctx, q)
	if err != nil {
		return []models.ProviderSummary{}, err
	}
	if len(candidates) == 0 {
		return []models.ProviderSummary{}, nil
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.provider.ID)
	}
	services, err := p.Services.ListByProviders(ctx, ids, true)
	if err != nil {
		return []models.ProviderSummary{}, utils.InternalError("failed to load provider services", err)
	}

	category := q.ServiceCategory
	if category == models.CategoryAll {
		category = ""
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))

	kept := make([]*candidate, 0, len(candidates))
	for _, c := range candidates {
		c.services = services[c.provider.ID]
		if search != "" && !strings.Contains(strings.ToLower(c.provider.Name), search) {
			continue
		}
		if c.provider.Rating.Average < q.MinRating {
			continue
		}
		c.cheapest = cheapest(c.services, category)
		if category != "" && c.cheapest == nil {
			continue
		}
		kept = append(kept, c)
	}

	sortBy := q.SortBy
	if sortBy == models.SortByDistance && q.Point == nil {
		sortBy = models.SortByRating
	}
	sortCandidates(kept, sortBy)

	limit := p.limit(q.Limit)
	out := make([]models.ProviderSummary, 0, len(kept))
	for _, c := range kept {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, summarize(c))
	}
	return out, nil
}

// candidates loads the providers eligible for filtering, each exactly once.
func (p *Pipeline) candidates(ctx context.Context, q models.DiscoveryQuery) ([]*candidate, error) {
	if q.Point != nil && q.MaxDistanceKm > 0 {
		hits, err := p.Index.Query(ctx, models.NearbyQuery{
			Point:           *q.Point,
			RadiusKm:        q.MaxDistanceKm,
			IncludeInactive: q.IncludeInactive,
		})
		if err != nil {
			return nil, err
		}
		distances := make(map[string]float64, len(hits))
		ids := make([]string, 0, len(hits))
		for _, h := range hits {
			if _, dup := distances[h.ProviderID]; dup {
				continue
			}
			distances[h.ProviderID] = h.DistanceKm
			ids = append(ids, h.ProviderID)
		}
		providers, err := p.Providers.GetByIDs(ctx, ids)
		if err != nil {
			return nil, utils.InternalError("failed to load providers", err)
		}
		out := make([]*candidate, 0, len(providers))
		for _, pr := range providers {
			// the index may lag a status change
			if !q.IncludeInactive && !pr.Visible() {
				continue
			}
			d := distances[pr.ID]
			out = append(out, &candidate{provider: pr, distance: &d})
		}
		return out, nil
	}

	providers, err := p.Providers.List(ctx, providerRepo.ListFilter{IncludeInactive: q.IncludeInactive})
	if err != nil {
		return nil, utils.InternalError("failed to list providers", err)
	}
	out := make([]*candidate, 0, len(providers))
	for _, pr := range providers {
		c := &candidate{provider: pr}
		if q.Point != nil {
			if loc, ok := pr.Location.LatLng(); ok {
				d := geo.Haversine(*q.Point, loc)
				c.distance = &d
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// cheapest returns the lowest price among active services in category ("" for any).
func cheapest(services []models.Service, category string) *float64 {
	var best *float64
	for _, s := range services {
		if !s.Active || (category != "" && string(s.Category) != category) {
			continue
		}
		if best == nil || s.Price < *best {
			price := s.Price
			best = &price
		}
	}
	return best
}

// lessNil orders present values ascending with missing values last. decided is false on a tie.
func lessNil(a, b *float64) (less, decided bool) {
	switch {
	case a == nil && b == nil:
		return false, false
	case a == nil:
		return false, true
	case b == nil:
		return true, true
	case *a != *b:
		return *a < *b, true
	}
	return false, false
}

func sortCandidates(cs []*candidate, sortBy models.SortKey) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		switch sortBy {
		case models.SortByDistance:
			if less, ok := lessNil(a.distance, b.distance); ok {
				return less
			}
		case models.SortByPrice:
			if less, ok := lessNil(a.cheapest, b.cheapest); ok {
				return less
			}
		default:
			if a.provider.Rating.Average != b.provider.Rating.Average {
				return a.provider.Rating.Average > b.provider.Rating.Average
			}
		}
		return a.provider.ID < b.provider.ID
	})
}

func summarize(c *candidate) models.ProviderSummary {
	seen := map[models.ServiceCategory]bool{}
	categories := []models.ServiceCategory{}
	for _, s := range c.services {
		if s.Active && !seen[s.Category] {
			seen[s.Category] = true
			categories = append(categories, s.Category)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	rating := c.provider.Rating
	rating.Version = 0
	return models.ProviderSummary{
		ID:            c.provider.ID,
		Name:          c.provider.Name,
		Rating:        rating,
		DistanceKm:    c.distance,
		CheapestPrice: c.cheapest,
		Categories:    categories,
		Active:        c.provider.Active,
		Verified:      c.provider.Verified,
	}
}

var _ DiscoveryService = (*Pipeline)(nil)
