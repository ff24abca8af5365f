package repository

import (
	"context"

	"staybook/pkg/model"
)

// RentalRepository stores rental aggregates. Update is a versioned
// compare-and-set: the caller presents the rental with the version it
// expects to write, and the store rejects the write when the stored
// version is not exactly one behind.
type RentalRepository interface {
	Create(ctx context.Context, units, preparationTimeInDays int) (*model.Rental, error)
	GetByID(ctx context.Context, id int) (*model.Rental, error)
	Update(ctx context.Context, rental *model.Rental) (*model.Rental, error)
}
