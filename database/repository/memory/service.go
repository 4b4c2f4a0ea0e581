package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"washx/database"
	serviceRepo "washx/database/repository/service"
	"washx/models"
)

// ServiceRepo is an in-memory serviceRepo.ServiceRepository.
type ServiceRepo struct {
	sync.RWMutex
	data map[string]models.Service
}

func NewServiceRepo() *ServiceRepo {
	return &ServiceRepo{data: map[string]models.Service{}}
}

func (r *ServiceRepo) Create(_ context.Context, service *models.Service) error {
	r.Lock()
	defer r.Unlock()

	if _, ok := r.data[service.ID]; ok {
		return fmt.Errorf("service %s: %w", service.ID, database.ErrDuplicate)
	}
	r.data[service.ID] = *service
	return nil
}

func (r *ServiceRepo) GetByID(_ context.Context, id string) (*models.Service, error) {
	r.RLock()
	defer r.RUnlock()

	s, ok := r.data[id]
	if !ok {
		return nil, fmt.Errorf("service %s: %w", id, database.ErrNotFound)
	}
	return &s, nil
}

func (r *ServiceRepo) GetByIDs(_ context.Context, ids []string) ([]models.Service, error) {
	r.RLock()
	defer r.RUnlock()

	out := []models.Service{}
	for _, id := range ids {
		if s, ok := r.data[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *ServiceRepo) ListByProviders(_ context.Context, providerIDs []string, activeOnly bool) (map[string][]models.Service, error) {
	r.RLock()
	defer r.RUnlock()

	wanted := make(map[string]bool, len(providerIDs))
	for _, id := range providerIDs {
		wanted[id] = true
	}
	grouped := make(map[string][]models.Service, len(providerIDs))
	for _, s := range r.data {
		if !wanted[s.ProviderID] || (activeOnly && !s.Active) {
			continue
		}
		grouped[s.ProviderID] = append(grouped[s.ProviderID], s)
	}
	for id := range grouped {
		list := grouped[id]
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
	return grouped, nil
}

var _ serviceRepo.ServiceRepository = (*ServiceRepo)(nil)
