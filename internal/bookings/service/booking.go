package service

import (
	"context"
	"errors"

	bookingerrors "staybook/internal/bookings/errors"
	"staybook/internal/bookings/repository"
	bookingvalidator "staybook/internal/bookings/validator"
	"staybook/internal/events"
	rentalerrors "staybook/internal/rentals/errors"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

type BookingService interface {
	Create(ctx context.Context, params *model.BookingParams) (*model.Booking, error)
	GetByID(ctx context.Context, id int) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	rentals   repository.RentalReader
	validator *bookingvalidator.BookingValidator
	publisher events.Publisher
	logger    *logger.Logger
}

func NewBookingService(
	repo repository.BookingRepository,
	rentals repository.RentalReader,
	validator *bookingvalidator.BookingValidator,
	publisher events.Publisher,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		repo:      repo,
		rentals:   rentals,
		validator: validator,
		publisher: publisher,
		logger:    log,
	}
}

// Create runs the availability check and books the lowest free unit. The
// pre-check against the rental's capacity happens here; the repository
// repeats the unit scan inside its critical section, so the result is
// race-free even when the pre-check passes concurrently on two requests.
func (s *bookingService) Create(ctx context.Context, params *model.BookingParams) (*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(params); err != nil {
		var validationErrs bookingvalidator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("Booking validation failed", map[string]any{
				"validation_errors": validationErrs,
			})
		}
		return nil, apperrors.Internal("Failed to validate booking", err)
	}

	rental, err := s.rentals.GetByID(ctx, params.RentalID)
	if err != nil {
		return nil, s.translateRentalLookup(err, params.RentalID)
	}

	from := params.Start.AddDays(-rental.PreparationTimeInDays)
	to := params.Start.AddDays(params.Nights + rental.PreparationTimeInDays - 1)
	overlapping, err := s.repo.GetByRentalAndPeriod(ctx, rental.ID, from, to)
	if err != nil {
		return nil, apperrors.Internal("Failed to load overlapping bookings", err)
	}

	occupied := make(map[int]bool)
	for _, b := range overlapping {
		occupied[b.Unit] = true
	}
	if len(occupied) >= rental.Units {
		return nil, apperrors.Conflict("No available unit for the requested dates")
	}

	booking, err := s.repo.Create(ctx, params.RentalID, params.Start, params.Nights)
	if err != nil {
		switch {
		case errors.Is(err, bookingerrors.ErrNoUnitsAvailable):
			return nil, apperrors.Conflict("No available unit for the requested dates")
		case errors.Is(err, bookingerrors.ErrRentalNotFound):
			return nil, s.translateRentalLookup(err, params.RentalID)
		case errors.Is(err, bookingerrors.ErrLocked):
			return nil, apperrors.Conflict("Rental is being booked by another request, please try again")
		default:
			return nil, apperrors.Internal("Failed to create booking", err)
		}
	}

	s.publish(ctx, booking)

	s.logger.Info("Booking created",
		"booking_id", booking.ID,
		"rental_id", booking.RentalID,
		"unit", booking.Unit,
		"start", booking.Start.String(),
		"nights", booking.Nights,
	)

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id int) (*model.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id < 1 {
		return nil, apperrors.InvalidInput("Booking ID must be a positive integer")
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to find booking", err)
	}

	return booking, nil
}

// A missing rental on a booking request is a validation failure, not a 404:
// the rental id is request content, not the resource being addressed.
func (s *bookingService) translateRentalLookup(err error, rentalID int) error {
	if errors.Is(err, bookingerrors.ErrRentalNotFound) || errors.Is(err, rentalerrors.ErrNotFound) {
		return apperrors.Validation("Rental not found", map[string]any{"rental_id": rentalID})
	}
	return apperrors.Internal("Failed to find rental", err)
}

func (s *bookingService) publish(ctx context.Context, booking *model.Booking) {
	payload := events.BookingCreated{
		BookingID: booking.ID,
		RentalID:  booking.RentalID,
		Unit:      booking.Unit,
		Start:     booking.Start,
		Nights:    booking.Nights,
	}
	if err := s.publisher.Publish(ctx, booking.RentalID, events.TypeBookingCreated, payload); err != nil {
		s.logger.Warn("Failed to publish booking event",
			"event_type", events.TypeBookingCreated,
			"booking_id", booking.ID,
			"rental_id", booking.RentalID,
			"error", err,
		)
	}
}
