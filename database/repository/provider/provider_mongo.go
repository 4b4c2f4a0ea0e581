package providerRepo

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

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo creates a new instance of ProviderRepository using MongoDB.
func NewMongoProviderRepo(db *mongo.Database) (*MongoProviderRepo, error) {
	repo := &MongoProviderRepo{coll: db.Collection("providers")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

// visibleFilter matches providers customers may discover.
func visibleFilter() bson.M {
	return bson.M{"active": true, "verified": true}
}

func (r *MongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var provider models.Provider
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&provider); err != nil {
		return nil, fmt.Errorf("failed to fetch provider with id %s: %w", id, database.Translate(err))
	}
	return &provider, nil
}

func (r *MongoProviderRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Provider, error) {
	if len(ids) == 0 {
		return []models.Provider{}, nil
	}
	return r.find(ctx, bson.M{"id": bson.M{"$in": ids}})
}

func (r *MongoProviderRepo) List(ctx context.Context, filter ListFilter) ([]models.Provider, error) {
	query := visibleFilter()
	if filter.IncludeInactive {
		query = bson.M{}
	}
	return r.find(ctx, query)
}

func (r *MongoProviderRepo) find(ctx context.Context, filter bson.M) ([]models.Provider, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve providers: %w", err)
	}
	defer cursor.Close(ctx)

	providers := []models.Provider{}
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("failed to decode providers: %w", err)
	}
	return providers, nil
}
