package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtconnect/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// activeStatuses are the states that hold a slot.
var activeStatuses = bson.A{models.StatusPending, models.StatusConfirmed}

func newContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 5*time.Second)
}

func overlapFilter(facilityID, date string, start, end int) bson.M {
	return bson.M{
		"facility_id": facilityID,
		"date":        date,
		"status":      bson.M{"$in": activeStatuses},
		"start":       bson.M{"$lt": end},
		"end":         bson.M{"$gt": start},
	}
}

func (r *mongoReservationRepo) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Reservation, error) {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("error finding reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Reservation
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("error decoding reservations: %w", err)
	}
	return out, nil
}

// ListActiveByFacilityDate returns non-cancelled, non-rejected reservations ordered by start.
func (r *mongoReservationRepo) ListActiveByFacilityDate(ctx context.Context, facilityID, date string) ([]models.Reservation, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{
		"facility_id": facilityID,
		"date":        date,
		"status":      bson.M{"$in": activeStatuses},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	return r.find(ctx, filter, opts)
}

// ListUpcomingByUser returns the user's active reservations on or after fromDate.
func (r *mongoReservationRepo) ListUpcomingByUser(ctx context.Context, userID, fromDate string) ([]models.Reservation, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": fromDate},
		"status":  bson.M{"$in": activeStatuses},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}}).
		SetLimit(20)
	return r.find(ctx, filter, opts)
}

// ListByStatus returns every reservation in the given state, oldest slot first.
func (r *mongoReservationRepo) ListByStatus(ctx context.Context, status models.ReservationStatus) ([]models.Reservation, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	return r.find(ctx, bson.M{"status": status}, opts)
}

// GetByID fetches a single reservation.
func (r *mongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var res models.Reservation
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&res); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching reservation %s: %w", id, err)
	}
	return &res, nil
}

// UpdateStatus sets the status of a reservation.
func (r *mongoReservationRepo) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("failed to update reservation %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type contactRow struct {
	ID       string `bson:"_id"`
	Username string `bson:"username"`
	Email    string `bson:"email"`
}

// ListContacts groups reservations by user and keeps the latest name and email.
func (r *mongoReservationRepo) ListContacts(ctx context.Context) ([]models.Caller, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_email": bson.M{"$nin": bson.A{"", nil}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$user_id",
			"username": bson.M{"$last": "$user_name"},
			"email":    bson.M{"$last": "$user_email"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating reservation contacts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []contactRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("error decoding reservation contacts: %w", err)
	}
	out := make([]models.Caller, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Caller{ID: row.ID, Username: row.Username, Email: row.Email})
	}
	return out, nil
}
