package repository

import (
	"context"
	"sync"
	"time"

	rentalerrors "staybook/internal/rentals/errors"
	"staybook/pkg/model"
)

// MemoryRentalRepository keeps rentals in a process-local map guarded by a
// single RWMutex. IDs are sequential starting at 1.
type MemoryRentalRepository struct {
	mu      sync.RWMutex
	rentals map[int]model.Rental
	nextID  int
}

func NewMemoryRentalRepository() *MemoryRentalRepository {
	return &MemoryRentalRepository{
		rentals: make(map[int]model.Rental),
	}
}

func (r *MemoryRentalRepository) Create(ctx context.Context, units, preparationTimeInDays int) (*model.Rental, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	rental := model.Rental{
		ID:                    r.nextID,
		Units:                 units,
		PreparationTimeInDays: preparationTimeInDays,
		Version:               1,
		CreatedAt:             time.Now().UTC(),
	}
	r.rentals[rental.ID] = rental

	out := rental
	return &out, nil
}

func (r *MemoryRentalRepository) GetByID(ctx context.Context, id int) (*model.Rental, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rental, ok := r.rentals[id]
	if !ok {
		return nil, rentalerrors.ErrNotFound
	}

	out := rental
	return &out, nil
}

// Update applies the presented rental only when the stored version is older
// than the presented one. The stored rental is untouched on rejection.
func (r *MemoryRentalRepository) Update(ctx context.Context, rental *model.Rental) (*model.Rental, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rentals[rental.ID]
	if !ok {
		return nil, rentalerrors.ErrNotFound
	}
	if stored.Version >= rental.Version {
		return nil, rentalerrors.ErrVersionConflict
	}

	updated := stored
	updated.Units = rental.Units
	updated.PreparationTimeInDays = rental.PreparationTimeInDays
	updated.Version = rental.Version
	r.rentals[rental.ID] = updated

	out := updated
	return &out, nil
}
