package providerRepo

import (
	"context"
	"fmt"
	"time"

	"washx/database"
	"washx/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// NearCriteria describes a $geoNear lookup against the providers collection.
type NearCriteria struct {
	Lng, Lat        float64
	MaxDistanceM    float64
	IncludeInactive bool
}

// NearResult is a provider ID and location with the server-side spherical distance in meters.
type NearResult struct {
	ID        string           `bson:"id"`
	Location  *models.GeoPoint `bson:"location"`
	DistanceM float64          `bson:"distance"`
}

// buildNearPipeline builds the $geoNear aggregation. The visibility gates go into the
// $geoNear query so the 2dsphere compound index can serve them.
func buildNearPipeline(c NearCriteria) mongo.Pipeline {
	query := bson.M{"location": bson.M{"$exists": true}}
	if !c.IncludeInactive {
		query["active"] = true
		query["verified"] = true
	}
	return mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: bson.A{c.Lng, c.Lat}},
			}},
			{Key: "distanceField", Value: "distance"},
			{Key: "spherical", Value: true},
			{Key: "maxDistance", Value: c.MaxDistanceM},
			{Key: "query", Value: query},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "id", Value: 1},
			{Key: "location", Value: 1},
			{Key: "distance", Value: 1},
		}}},
	}
}

// Near returns providers within MaxDistanceM of the point, nearest first.
func (r *MongoProviderRepo) Near(ctx context.Context, c NearCriteria) ([]NearResult, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Aggregate(ctx, buildNearPipeline(c))
	if err != nil {
		return nil, fmt.Errorf("geoNear query failed: %w", err)
	}
	defer cursor.Close(ctx)

	results := []NearResult{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode nearby providers: %w", err)
	}
	return results, nil
}

// compile-time check
var _ ProviderRepository = (*MongoProviderRepo)(nil)
