package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingerrors "staybook/internal/bookings/errors"
	rentalerrors "staybook/internal/rentals/errors"
	"staybook/pkg/config"
	mongodb "staybook/pkg/db/mongo"
	"staybook/pkg/model"
)

const (
	CollectionName = "Bookings"
	sequenceName   = "bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	rentals    RentalReader
	locks      BookingLockRepository
}

func NewMongoBookingRepository(cfg *config.Config, rentals RentalReader, locks BookingLockRepository) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		rentals:    rentals,
		locks:      locks,
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}
	return context.WithTimeout(ctx, timeout)
}

// Create assigns the lowest free unit while holding the rental's advisory
// lock, so concurrent requests against the same rental serialize instead of
// double-assigning a unit.
func (r *mongoBookingRepository) Create(ctx context.Context, rentalID int, start model.Date, nights int) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if err := r.locks.Acquire(ctx, rentalID); err != nil {
		return nil, err
	}
	defer func() {
		releaseCtx, releaseCancel := context.WithTimeout(context.Background(), r.cfg.WriteTimeout)
		defer releaseCancel()
		_ = r.locks.Release(releaseCtx, rentalID)
	}()

	rental, err := r.rentals.GetByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, rentalerrors.ErrNotFound) {
			return nil, bookingerrors.ErrRentalNotFound
		}
		return nil, err
	}

	from := start.AddDays(-rental.PreparationTimeInDays)
	to := start.AddDays(nights + rental.PreparationTimeInDays - 1)
	overlapping, err := r.findByRentalAndPeriod(ctx, rentalID, from, to)
	if err != nil {
		return nil, err
	}

	taken := make(map[int]bool)
	for _, b := range overlapping {
		taken[b.Unit] = true
	}
	// A capacity shrink can leave a booking on a unit above the new count,
	// so the occupied set is checked against capacity before first fit.
	if len(taken) >= rental.Units {
		return nil, bookingerrors.ErrNoUnitsAvailable
	}
	unit := 0
	for u := 1; u <= rental.Units; u++ {
		if !taken[u] {
			unit = u
			break
		}
	}
	if unit == 0 {
		return nil, bookingerrors.ErrNoUnitsAvailable
	}

	id, err := mongodb.NextSequence(ctx, r.db, sequenceName)
	if err != nil {
		return nil, err
	}

	booking := model.Booking{
		ID:        id,
		RentalID:  rentalID,
		Unit:      unit,
		Start:     start,
		Nights:    nights,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) GetByID(ctx context.Context, id int) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) GetByRentalID(ctx context.Context, rentalID int) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findAll(ctx, bson.M{"rental_id": rentalID})
}

func (r *mongoBookingRepository) GetByRentalAndPeriod(ctx context.Context, rentalID int, from, to model.Date) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findByRentalAndPeriod(ctx, rentalID, from, to)
}

// findByRentalAndPeriod filters on start alone in the query and finishes the
// overlap check in memory, because a booking's last night depends on nights
// and cannot be expressed as a simple index condition.
func (r *mongoBookingRepository) findByRentalAndPeriod(ctx context.Context, rentalID int, from, to model.Date) ([]*model.Booking, error) {
	filter := bson.M{
		"rental_id": rentalID,
		"start":     bson.M{"$lte": to.Time},
	}
	candidates, err := r.findAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Booking, 0, len(candidates))
	for _, b := range candidates {
		if overlapsPeriod(b, from, to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *mongoBookingRepository) findAll(ctx context.Context, filter bson.M) ([]*model.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}
