package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"washx/database"
	providerRepo "washx/database/repository/provider"
	"washx/models"
)

// ProviderRepo is an in-memory providerRepo.ProviderRepository.
type ProviderRepo struct {
	sync.RWMutex
	data map[string]*models.Provider
}

// NewProviderRepo creates a new memory provider repository.
func NewProviderRepo() *ProviderRepo {
	return &ProviderRepo{data: map[string]*models.Provider{}}
}

func cloneProvider(p *models.Provider) *models.Provider {
	c := *p
	if p.Location != nil {
		loc := *p.Location
		loc.Coordinates = append([]float64(nil), p.Location.Coordinates...)
		c.Location = &loc
	}
	c.ServicesOffered = append([]string{}, p.ServicesOffered...)
	return &c
}

func (r *ProviderRepo) Create(_ context.Context, provider *models.Provider) error {
	r.Lock()
	defer r.Unlock()

	if _, ok := r.data[provider.ID]; ok {
		return fmt.Errorf("provider %s: %w", provider.ID, database.ErrDuplicate)
	}
	for _, existing := range r.data {
		if provider.Email != "" && existing.Email == provider.Email {
			return fmt.Errorf("provider email %s: %w", provider.Email, database.ErrDuplicate)
		}
	}
	r.data[provider.ID] = cloneProvider(provider)
	return nil
}

func (r *ProviderRepo) GetByID(_ context.Context, id string) (*models.Provider, error) {
	r.RLock()
	defer r.RUnlock()

	p, ok := r.data[id]
	if !ok {
		return nil, fmt.Errorf("provider %s: %w", id, database.ErrNotFound)
	}
	return cloneProvider(p), nil
}

func (r *ProviderRepo) GetByIDs(_ context.Context, ids []string) ([]models.Provider, error) {
	r.RLock()
	defer r.RUnlock()

	out := []models.Provider{}
	seen := map[string]bool{}
	for _, id := range ids {
		if p, ok := r.data[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, *cloneProvider(p))
		}
	}
	return out, nil
}

func (r *ProviderRepo) List(_ context.Context, filter providerRepo.ListFilter) ([]models.Provider, error) {
	r.RLock()
	defer r.RUnlock()

	out := []models.Provider{}
	for _, p := range r.data {
		if filter.IncludeInactive || p.Visible() {
			out = append(out, *cloneProvider(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ProviderRepo) update(id string, fn func(p *models.Provider)) error {
	r.Lock()
	defer r.Unlock()

	p, ok := r.data[id]
	if !ok {
		return fmt.Errorf("provider %s: %w", id, database.ErrNotFound)
	}
	fn(p)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ProviderRepo) SetStatus(_ context.Context, id string, update models.ProviderStatusUpdate) error {
	return r.update(id, func(p *models.Provider) {
		if update.Active != nil {
			p.Active = *update.Active
		}
		if update.Verified != nil {
			p.Verified = *update.Verified
		}
	})
}

func (r *ProviderRepo) SetLocation(_ context.Context, id string, location *models.GeoPoint) error {
	return r.update(id, func(p *models.Provider) {
		if location == nil {
			p.Location = nil
			return
		}
		loc := *location
		loc.Coordinates = append([]float64(nil), location.Coordinates...)
		p.Location = &loc
	})
}

func (r *ProviderRepo) AddService(_ context.Context, id, serviceID string) error {
	return r.update(id, func(p *models.Provider) {
		for _, s := range p.ServicesOffered {
			if s == serviceID {
				return
			}
		}
		p.ServicesOffered = append(p.ServicesOffered, serviceID)
	})
}

func (r *ProviderRepo) UpdateRating(_ context.Context, id string, rating models.Rating, expectedVersion int) error {
	r.Lock()
	defer r.Unlock()

	p, ok := r.data[id]
	if !ok {
		return fmt.Errorf("provider %s: %w", id, database.ErrNotFound)
	}
	if p.Rating.Version != expectedVersion {
		return fmt.Errorf("rating update for provider %s: %w", id, database.ErrVersionConflict)
	}
	p.Rating = models.Rating{Average: rating.Average, Count: rating.Count, Version: expectedVersion + 1}
	return nil
}

var _ providerRepo.ProviderRepository = (*ProviderRepo)(nil)
