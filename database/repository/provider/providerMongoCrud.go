package providerRepo

import (
	"context"
	"fmt"
	"time"

	"washx/database"
	"washx/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new provider document.
func (r *MongoProviderRepo) Create(ctx context.Context, provider *models.Provider) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if provider.ServicesOffered == nil {
		provider.ServicesOffered = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, provider); err != nil {
		return fmt.Errorf("failed to create provider: %w", database.Translate(err))
	}
	return nil
}

func (r *MongoProviderRepo) SetStatus(ctx context.Context, id string, update models.ProviderStatusUpdate) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Active != nil {
		set["active"] = *update.Active
	}
	if update.Verified != nil {
		set["verified"] = *update.Verified
	}
	return r.updateWithOperator(ctx, id, bson.M{"$set": set})
}

func (r *MongoProviderRepo) SetLocation(ctx context.Context, id string, location *models.GeoPoint) error {
	now := time.Now().UTC()
	if location == nil {
		return r.updateWithOperator(ctx, id, bson.M{
			"$unset": bson.M{"location": ""},
			"$set":   bson.M{"updatedAt": now},
		})
	}
	return r.updateWithOperator(ctx, id, bson.M{"$set": bson.M{"location": location, "updatedAt": now}})
}

func (r *MongoProviderRepo) AddService(ctx context.Context, id, serviceID string) error {
	return r.updateWithOperator(ctx, id, bson.M{
		"$addToSet": bson.M{"servicesOffered": serviceID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}
