package repository

import (
	"context"
	"errors"
	"time"

	"dispatch-booking-service/internal/domain/entity"
	"dispatch-booking-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFlightScheduleRepository caches fetched schedules in MongoDB
type MongoFlightScheduleRepository struct {
	collection *mongo.Collection
}

// NewMongoFlightScheduleRepository creates the cache and its indexes
func NewMongoFlightScheduleRepository(ctx context.Context, db *mongo.Database) (repository.FlightScheduleCache, error) {
	collection := db.Collection("flight_schedules")

	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.M{"flightNumber": 1},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.M{"fetchedAt": -1},
		},
	})
	if err != nil {
		return nil, err
	}

	return &MongoFlightScheduleRepository{
		collection: collection,
	}, nil
}

// FindFresh returns the cached schedule when it was fetched within maxAge
func (r *MongoFlightScheduleRepository) FindFresh(ctx context.Context, flightNumber string, maxAge time.Duration) (*entity.ScheduleRecord, error) {
	filter := bson.M{
		"flightNumber": flightNumber,
		"fetchedAt":    bson.M{"$gte": time.Now().Add(-maxAge)},
	}

	var record entity.ScheduleRecord
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrScheduleNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Upsert stores record under its flight number
func (r *MongoFlightScheduleRepository) Upsert(ctx context.Context, record *entity.ScheduleRecord) error {
	if record.FetchedAt.IsZero() {
		record.FetchedAt = time.Now()
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"flightNumber": record.FlightNumber}, record, opts)
	return err
}
