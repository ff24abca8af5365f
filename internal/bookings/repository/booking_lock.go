package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingerrors "staybook/internal/bookings/errors"
	"staybook/pkg/config"
	"staybook/pkg/model"
)

const LockCollectionName = "Booking_locks"

// BookingLockRepository provides per-rental advisory locks. The unique _id
// index makes acquisition atomic; a TTL index on expires_at reclaims locks
// left behind by crashed writers.
type BookingLockRepository interface {
	Acquire(ctx context.Context, rentalID int) error
	Release(ctx context.Context, rentalID int) error
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func lockID(rentalID int) string {
	return fmt.Sprintf("rental_%d", rentalID)
}

func (r *mongoBookingLockRepository) Acquire(ctx context.Context, rentalID int) error {
	now := time.Now().UTC()
	lock := model.BookingLock{
		ID:        lockID(rentalID),
		ExpiresAt: now.Add(r.cfg.BookingLockTTL),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if mongo.IsDuplicateKeyError(err) {
		return bookingerrors.ErrLocked
	}
	if err != nil {
		return fmt.Errorf("failed to acquire booking lock: %w", err)
	}
	return nil
}

func (r *mongoBookingLockRepository) Release(ctx context.Context, rentalID int) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID(rentalID)})
	if err != nil {
		return fmt.Errorf("failed to release booking lock: %w", err)
	}
	return nil
}
