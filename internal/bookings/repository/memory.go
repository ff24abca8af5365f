package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	bookingerrors "staybook/internal/bookings/errors"
	rentalerrors "staybook/internal/rentals/errors"
	"staybook/pkg/model"
)

// MemoryBookingRepository keeps bookings in a process-local map. A single
// mutex covers the availability scan and the insert, which is what makes
// unit assignment safe under concurrency.
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[int]model.Booking
	nextID   int
	rentals  RentalReader
}

func NewMemoryBookingRepository(rentals RentalReader) *MemoryBookingRepository {
	return &MemoryBookingRepository{
		bookings: make(map[int]model.Booking),
		rentals:  rentals,
	}
}

func (r *MemoryBookingRepository) Create(ctx context.Context, rentalID int, start model.Date, nights int) (*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rental, err := r.rentals.GetByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, rentalerrors.ErrNotFound) {
			return nil, bookingerrors.ErrRentalNotFound
		}
		return nil, err
	}

	// A unit is taken for the whole stay if any existing booking's occupied
	// or turnaround window touches the requested window, extended by the
	// preparation buffer on both sides.
	from := start.AddDays(-rental.PreparationTimeInDays)
	to := start.AddDays(nights + rental.PreparationTimeInDays - 1)

	taken := make(map[int]bool)
	for id := range r.bookings {
		b := r.bookings[id]
		if b.RentalID == rentalID && overlapsPeriod(&b, from, to) {
			taken[b.Unit] = true
		}
	}

	// The occupied set can hold units above the current capacity after a
	// shrink, so exhaustion of 1..Units alone is not enough: the rental is
	// full as soon as the distinct occupied units reach its capacity.
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

	r.nextID++
	booking := model.Booking{
		ID:        r.nextID,
		RentalID:  rentalID,
		Unit:      unit,
		Start:     start,
		Nights:    nights,
		CreatedAt: time.Now().UTC(),
	}
	r.bookings[booking.ID] = booking

	out := booking
	return &out, nil
}

func (r *MemoryBookingRepository) GetByID(ctx context.Context, id int) (*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, bookingerrors.ErrNotFound
	}

	out := booking
	return &out, nil
}

func (r *MemoryBookingRepository) GetByRentalID(ctx context.Context, rentalID int) ([]*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Booking
	for id := range r.bookings {
		b := r.bookings[id]
		if b.RentalID == rentalID {
			out = append(out, &b)
		}
	}
	sortByID(out)
	return out, nil
}

func (r *MemoryBookingRepository) GetByRentalAndPeriod(ctx context.Context, rentalID int, from, to model.Date) ([]*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Booking
	for id := range r.bookings {
		b := r.bookings[id]
		if b.RentalID == rentalID && overlapsPeriod(&b, from, to) {
			out = append(out, &b)
		}
	}
	sortByID(out)
	return out, nil
}

func sortByID(bookings []*model.Booking) {
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID < bookings[j].ID })
}
