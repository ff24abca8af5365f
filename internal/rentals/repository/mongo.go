package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	rentalerrors "staybook/internal/rentals/errors"
	"staybook/pkg/config"
	mongodb "staybook/pkg/db/mongo"
	"staybook/pkg/model"
)

const (
	CollectionName = "Rentals"
	sequenceName   = "rentals"
)

type mongoRentalRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMongoRentalRepository(cfg *config.Config) RentalRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRentalRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoRentalRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRentalRepository) Create(ctx context.Context, units, preparationTimeInDays int) (*model.Rental, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	id, err := mongodb.NextSequence(ctx, r.db, sequenceName)
	if err != nil {
		return nil, err
	}

	rental := model.Rental{
		ID:                    id,
		Units:                 units,
		PreparationTimeInDays: preparationTimeInDays,
		Version:               1,
		CreatedAt:             time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.collection.InsertOne(ctx, rental); err != nil {
		return nil, fmt.Errorf("failed to create rental: %w", err)
	}

	return &rental, nil
}

func (r *mongoRentalRepository) GetByID(ctx context.Context, id int) (*model.Rental, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var rental model.Rental
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rental)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, rentalerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rental: %w", err)
	}

	return &rental, nil
}

// Update matches on both _id and the previous version so a concurrent writer
// cannot be overwritten silently.
func (r *mongoRentalRepository) Update(ctx context.Context, rental *model.Rental) (*model.Rental, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": rental.ID, "version": rental.Version - 1}
	update := bson.M{
		"$set": bson.M{
			"units":                    rental.Units,
			"preparation_time_in_days": rental.PreparationTimeInDays,
			"version":                  rental.Version,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update rental: %w", err)
	}
	if result.MatchedCount == 0 {
		// Distinguish a missing document from a stale version.
		if err := r.collection.FindOne(ctx, bson.M{"_id": rental.ID}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, rentalerrors.ErrNotFound
			}
			return nil, fmt.Errorf("failed to update rental: %w", err)
		}
		return nil, rentalerrors.ErrVersionConflict
	}

	return r.GetByID(ctx, rental.ID)
}
