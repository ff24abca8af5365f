package repository

import (
	"context"

	"staybook/pkg/model"
)

// RentalReader is the slice of the rentals repository the booking store
// needs: capacity and preparation time at assignment point.
type RentalReader interface {
	GetByID(ctx context.Context, id int) (*model.Rental, error)
}

// BookingRepository stores bookings and owns unit assignment. Create picks
// the lowest free unit inside the store's critical section, so two
// concurrent requests can never be handed the same unit for overlapping
// dates.
type BookingRepository interface {
	Create(ctx context.Context, rentalID int, start model.Date, nights int) (*model.Booking, error)
	GetByID(ctx context.Context, id int) (*model.Booking, error)
	GetByRentalID(ctx context.Context, rentalID int) ([]*model.Booking, error)
	GetByRentalAndPeriod(ctx context.Context, rentalID int, from, to model.Date) ([]*model.Booking, error)
}

// overlapsPeriod reports whether the booking's occupied nights intersect
// [from, to]. Preparation buffers are not part of the stored booking; callers
// widen the period instead.
func overlapsPeriod(b *model.Booking, from, to model.Date) bool {
	return !b.Start.After(to) && !b.LastNight().Before(from)
}
