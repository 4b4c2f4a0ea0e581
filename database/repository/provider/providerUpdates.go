package providerRepo

import (
	"context"
	"fmt"
	"time"

	"washx/database"
	"washx/models"

	"go.mongodb.org/mongo-driver/bson"
)

func (r *MongoProviderRepo) updateWithOperator(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update provider with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("provider with id %s: %w", id, database.ErrNotFound)
	}
	return nil
}

// ratingUpdate builds the compare-and-swap filter and update for a rating write.
// Only the rating sub-document is touched.
func ratingUpdate(id string, rating models.Rating, expectedVersion int) (bson.M, bson.M) {
	filter := bson.M{
		"id":             id,
		"rating.version": expectedVersion,
	}
	update := bson.M{
		"$set": bson.M{
			"rating.average": rating.Average,
			"rating.count":   rating.Count,
			"rating.version": expectedVersion + 1,
		},
	}
	return filter, update
}

// UpdateRating writes the denormalized rating using optimistic concurrency on rating.version.
func (r *MongoProviderRepo) UpdateRating(ctx context.Context, id string, rating models.Rating, expectedVersion int) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter, update := ratingUpdate(id, rating, expectedVersion)
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating rating for provider %s: %w", id, err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	// Distinguish a lost race from a missing provider.
	n, err := r.coll.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error checking provider %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("provider with id %s: %w", id, database.ErrNotFound)
	}
	return fmt.Errorf("rating update for provider %s: %w", id, database.ErrVersionConflict)
}
