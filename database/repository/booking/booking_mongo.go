package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"washx/database"
	"washx/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo(db *mongo.Database) (*MongoBookingRepo, error) {
	repo := &MongoBookingRepo{coll: db.Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", database.Translate(err))
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, database.Translate(err))
	}
	return &booking, nil
}

// statusUpdate builds the compare-and-swap filter and update for a transition.
func statusUpdate(id string, change StatusChange) (bson.M, bson.M) {
	filter := bson.M{"id": id, "status": change.From}
	set := bson.M{
		"status":    change.To,
		"updatedAt": change.History.At,
	}
	if change.Cancellation != nil {
		set["cancellation"] = change.Cancellation
	}
	update := bson.M{
		"$set":  set,
		"$push": bson.M{"statusHistory": change.History},
	}
	return filter, update
}

func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, change StatusChange) (*models.Booking, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter, update := statusUpdate(id, change)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update booking %s: %w", id, err)
	}

	// No match: either the booking is gone or another transition won.
	n, cerr := r.coll.CountDocuments(ctx, bson.M{"id": id})
	if cerr != nil {
		return nil, fmt.Errorf("failed to check booking %s: %w", id, cerr)
	}
	if n == 0 {
		return nil, fmt.Errorf("booking %s: %w", id, database.ErrNotFound)
	}
	return nil, fmt.Errorf("booking %s left status %s: %w", id, change.From, database.ErrVersionConflict)
}

var _ BookingRepository = (*MongoBookingRepo)(nil)
