package providerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates indexes for frequently used fields in queries.
func (r *MongoProviderRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Compound geo + visibility gates for nearby queries.
	geoCompoundIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "location", Value: "2dsphere"},
			{Key: "active", Value: 1},
			{Key: "verified", Value: 1},
		},
	}

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "active", Value: 1}, {Key: "verified", Value: 1}, {Key: "rating.average", Value: -1}}},
		// keep a simple 2dsphere in case geo is queried alone
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		geoCompoundIdx,
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create provider indexes: %w", err)
	}
	return nil
}
