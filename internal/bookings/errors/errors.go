package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	// ErrRentalNotFound is returned when a booking references a rental
	// that does not exist at creation time.
	ErrRentalNotFound = errors.New("rental not found")

	// ErrNoUnitsAvailable means every unit of the rental is occupied or in
	// turnaround for at least one night of the requested stay.
	ErrNoUnitsAvailable = errors.New("no available unit for the requested dates")

	// ErrLocked means another request holds the per-rental booking lock.
	ErrLocked = errors.New("rental is being booked by another request")
)
