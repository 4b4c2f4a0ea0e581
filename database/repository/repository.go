package repository

import (
	"fmt"

	bookingRepo "washx/database/repository/booking"
	"washx/database/repository/memory"
	providerRepo "washx/database/repository/provider"
	reviewRepo "washx/database/repository/review"
	serviceRepo "washx/database/repository/service"

	"go.mongodb.org/mongo-driver/mongo"
)

// Re-export the repository interfaces.
type ProviderRepository = providerRepo.ProviderRepository

type ProviderListFilter = providerRepo.ListFilter

type ReviewRepository = reviewRepo.ReviewRepository

type BookingRepository = bookingRepo.BookingRepository

type BookingStatusChange = bookingRepo.StatusChange

type ServiceRepository = serviceRepo.ServiceRepository

var (
	NewMongoProviderRepo = providerRepo.NewMongoProviderRepo
	NewMongoReviewRepo   = reviewRepo.NewMongoReviewRepo
	NewMongoBookingRepo  = bookingRepo.NewMongoBookingRepo
	NewMongoServiceRepo  = serviceRepo.NewMongoServiceRepo
)

// Store bundles one implementation of every repository.
type Store struct {
	Providers ProviderRepository
	Reviews   ReviewRepository
	Bookings  BookingRepository
	Services  ServiceRepository

	// MongoProviders is set in mongo mode so the geo index can use $geoNear.
	MongoProviders *providerRepo.MongoProviderRepo
}

// NewMongoStore builds every repository on db and ensures their indexes.
func NewMongoStore(db *mongo.Database) (*Store, error) {
	providers, err := NewMongoProviderRepo(db)
	if err != nil {
		return nil, fmt.Errorf("provider repository: %w", err)
	}
	reviews, err := NewMongoReviewRepo(db)
	if err != nil {
		return nil, fmt.Errorf("review repository: %w", err)
	}
	bookings, err := NewMongoBookingRepo(db)
	if err != nil {
		return nil, fmt.Errorf("booking repository: %w", err)
	}
	services, err := NewMongoServiceRepo(db)
	if err != nil {
		return nil, fmt.Errorf("service repository: %w", err)
	}
	return &Store{
		Providers:      providers,
		Reviews:        reviews,
		Bookings:       bookings,
		Services:       services,
		MongoProviders: providers,
	}, nil
}

// NewMemoryStore builds an in-process store.
func NewMemoryStore() *Store {
	return &Store{
		Providers: memory.NewProviderRepo(),
		Reviews:   memory.NewReviewRepo(),
		Bookings:  memory.NewBookingRepo(),
		Services:  memory.NewServiceRepo(),
	}
}
