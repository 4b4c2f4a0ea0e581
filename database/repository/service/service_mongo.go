package serviceRepo

import (
	"context"
	"fmt"
	"time"

	"washx/database"
	"washx/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoServiceRepo implements ServiceRepository using MongoDB.
type MongoServiceRepo struct {
	coll *mongo.Collection
}

func NewMongoServiceRepo(db *mongo.Database) (*MongoServiceRepo, error) {
	repo := &MongoServiceRepo{coll: db.Collection("services")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoServiceRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "active", Value: 1}, {Key: "category", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create service indexes: %w", err)
	}
	return nil
}

func (r *MongoServiceRepo) Create(ctx context.Context, service *models.Service) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, service); err != nil {
		return fmt.Errorf("failed to create service: %w", database.Translate(err))
	}
	return nil
}

func (r *MongoServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var service models.Service
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&service); err != nil {
		return nil, fmt.Errorf("failed to fetch service %s: %w", id, database.Translate(err))
	}
	return &service, nil
}

func (r *MongoServiceRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Service, error) {
	if len(ids) == 0 {
		return []models.Service{}, nil
	}
	return r.find(ctx, bson.M{"id": bson.M{"$in": ids}})
}

func providersFilter(providerIDs []string, activeOnly bool) bson.M {
	filter := bson.M{"providerId": bson.M{"$in": providerIDs}}
	if activeOnly {
		filter["active"] = true
	}
	return filter
}

func (r *MongoServiceRepo) ListByProviders(ctx context.Context, providerIDs []string, activeOnly bool) (map[string][]models.Service, error) {
	grouped := make(map[string][]models.Service, len(providerIDs))
	if len(providerIDs) == 0 {
		return grouped, nil
	}
	services, err := r.find(ctx, providersFilter(providerIDs, activeOnly))
	if err != nil {
		return nil, err
	}
	for _, s := range services {
		grouped[s.ProviderID] = append(grouped[s.ProviderID], s)
	}
	return grouped, nil
}

func (r *MongoServiceRepo) find(ctx context.Context, filter bson.M) ([]models.Service, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve services: %w", err)
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

var _ ServiceRepository = (*MongoServiceRepo)(nil)
