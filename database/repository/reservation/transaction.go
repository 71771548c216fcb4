package reservationRepo

import (
	"context"
	"errors"
	"fmt"

	"courtconnect/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxTxnAttempts bounds retries after a write conflict on the day lock.
const maxTxnAttempts = 3

// lockFilter selects the lock document for one facility and date.
func lockFilter(facilityID, date string) bson.M {
	return bson.M{"_id": facilityID + "|" + date}
}

// lockUpdate bumps the lock so concurrent transactions on the same day write
// the same document and all but one hit a write conflict.
func lockUpdate(facilityID, date string) bson.M {
	return bson.M{
		"$inc":         bson.M{"version": 1},
		"$setOnInsert": bson.M{"facility_id": facilityID, "date": date},
	}
}

// retryableTxnError reports errors after which the whole transaction may run again.
func retryableTxnError(err error) bool {
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorLabel("TransientTransactionError") {
		return true
	}
	// Two first-time upserts of the same lock can race on _id.
	return mongo.IsDuplicateKeyError(err)
}

// CreateIfFree writes the day lock, runs the overlap check and inserts, all in
// one transaction. The shared lock write turns two overlapping bookings into a
// write conflict; the retry then sees the winner and returns ErrSlotTaken.
func (r *mongoReservationRepo) CreateIfFree(ctx context.Context, reservation *models.Reservation) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	sess, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		_, err := r.locks.UpdateOne(sc,
			lockFilter(reservation.FacilityID, reservation.Date),
			lockUpdate(reservation.FacilityID, reservation.Date),
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("day lock failed: %w", err)
		}

		filter := overlapFilter(reservation.FacilityID, reservation.Date, reservation.Start, reservation.End)
		count, err := r.coll.CountDocuments(sc, filter)
		if err != nil {
			return fmt.Errorf("overlap check failed: %w", err)
		}
		if count > 0 {
			return ErrSlotTaken
		}
		if _, err := r.coll.InsertOne(sc, reservation); err != nil {
			return fmt.Errorf("insert reservation failed: %w", err)
		}
		return nil
	}

	for attempt := 1; ; attempt++ {
		err = mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
			if err := sc.StartTransaction(); err != nil {
				return err
			}
			if err := txnFn(sc); err != nil {
				_ = sc.AbortTransaction(sc)
				return err
			}
			return sc.CommitTransaction(sc)
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrSlotTaken) {
			return ErrSlotTaken
		}
		if attempt == maxTxnAttempts || !retryableTxnError(err) {
			return fmt.Errorf("reservation transaction failed: %w", err)
		}
	}
}
