package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"courtconnect/database"
	"courtconnect/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WindowRepository reads admin-declared availability windows.
type WindowRepository interface {
	ListByFacilityDate(ctx context.Context, facilityID, date string) ([]models.AvailabilityWindow, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoWindowRepo struct {
	coll *mongo.Collection
}

// NewMongoWindowRepo constructs a MongoDB-backed WindowRepository.
func NewMongoWindowRepo() WindowRepository {
	return &mongoWindowRepo{
		coll: database.Database().Collection("availability_windows"),
	}
}

func (r *mongoWindowRepo) ListByFacilityDate(ctx context.Context, facilityID, date string) ([]models.AvailabilityWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"facility_id": facilityID, "date": date}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching availability windows: %w", err)
	}
	defer cursor.Close(ctx)

	var windows []models.AvailabilityWindow
	if err := cursor.All(ctx, &windows); err != nil {
		return nil, fmt.Errorf("error decoding availability windows: %w", err)
	}
	return windows, nil
}

func (r *mongoWindowRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "facility_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetName("facility_date_idx"),
	})
	if err != nil {
		return fmt.Errorf("failed to create availability window indexes: %w", err)
	}
	return nil
}
