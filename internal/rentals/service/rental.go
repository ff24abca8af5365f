package service

import (
	"context"
	"errors"
	"fmt"

	"staybook/internal/events"
	rentalerrors "staybook/internal/rentals/errors"
	"staybook/internal/rentals/repository"
	rentalvalidator "staybook/internal/rentals/validator"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

// BookingReader is the slice of the bookings repository the rental service
// needs for reconfiguration feasibility checks.
type BookingReader interface {
	GetByRentalID(ctx context.Context, rentalID int) ([]*model.Booking, error)
}

type RentalService interface {
	Create(ctx context.Context, params *model.RentalParams) (*model.Rental, error)
	GetByID(ctx context.Context, id int) (*model.Rental, error)
	Update(ctx context.Context, id int, params *model.RentalParams) (*model.Rental, error)
}

type rentalService struct {
	repo      repository.RentalRepository
	bookings  BookingReader
	validator *rentalvalidator.RentalValidator
	publisher events.Publisher
	logger    *logger.Logger
}

func NewRentalService(
	repo repository.RentalRepository,
	bookings BookingReader,
	validator *rentalvalidator.RentalValidator,
	publisher events.Publisher,
	log *logger.Logger,
) RentalService {
	return &rentalService{
		repo:      repo,
		bookings:  bookings,
		validator: validator,
		publisher: publisher,
		logger:    log,
	}
}

func (s *rentalService) Create(ctx context.Context, params *model.RentalParams) (*model.Rental, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.validator.ValidateCreate(params); err != nil {
		var validationErrs rentalvalidator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("Rental validation failed", map[string]any{
				"validation_errors": validationErrs,
			})
		}
		return nil, apperrors.Internal("Failed to validate rental", err)
	}

	rental, err := s.repo.Create(ctx, params.Units, params.PreparationTimeInDays)
	if err != nil {
		return nil, apperrors.Internal("Failed to create rental", err)
	}

	s.publish(ctx, rental.ID, events.TypeRentalCreated, events.RentalCreated{
		RentalID:              rental.ID,
		Units:                 rental.Units,
		PreparationTimeInDays: rental.PreparationTimeInDays,
	})

	s.logger.Info("Rental created",
		"rental_id", rental.ID,
		"units", rental.Units,
		"preparation_time_in_days", rental.PreparationTimeInDays,
	)

	return rental, nil
}

func (s *rentalService) GetByID(ctx context.Context, id int) (*model.Rental, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id < 1 {
		return nil, apperrors.InvalidInput("Rental ID must be a positive integer")
	}

	rental, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rentalerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Rental", id)
		}
		return nil, apperrors.Internal("Failed to find rental", err)
	}

	return rental, nil
}

// Update reconfigures a rental's capacity and preparation buffer. The new
// configuration must keep every existing booking on its assigned unit
// without creating overlaps; feasibility is checked day by day over the full
// span the current bookings touch.
func (s *rentalService) Update(ctx context.Context, id int, params *model.RentalParams) (*model.Rental, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id < 1 {
		return nil, apperrors.InvalidInput("Rental ID must be a positive integer")
	}

	if err := s.validator.ValidateUpdate(params); err != nil {
		var validationErrs rentalvalidator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("Rental validation failed", map[string]any{
				"validation_errors": validationErrs,
			})
		}
		return nil, apperrors.Internal("Failed to validate rental", err)
	}

	rental, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rentalerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Rental", id)
		}
		return nil, apperrors.Internal("Failed to find rental", err)
	}

	if rental.Units == params.Units && rental.PreparationTimeInDays == params.PreparationTimeInDays {
		s.logger.Info("Rental update is a no-op", "rental_id", id)
		return rental, nil
	}

	bookings, err := s.bookings.GetByRentalID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to load bookings for rental", err)
	}

	if err := checkReconfiguration(ctx, bookings, rental.PreparationTimeInDays, params); err != nil {
		return nil, err
	}

	updated := *rental
	updated.Units = params.Units
	updated.PreparationTimeInDays = params.PreparationTimeInDays
	updated.Version = rental.Version + 1

	result, err := s.repo.Update(ctx, &updated)
	if err != nil {
		if errors.Is(err, rentalerrors.ErrVersionConflict) {
			return nil, apperrors.ConcurrencyConflict("Rental was updated by another request")
		}
		if errors.Is(err, rentalerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Rental", id)
		}
		return nil, apperrors.Internal("Failed to update rental", err)
	}

	s.publish(ctx, result.ID, events.TypeRentalUpdated, events.RentalUpdated{
		RentalID:              result.ID,
		Units:                 result.Units,
		PreparationTimeInDays: result.PreparationTimeInDays,
		Version:               result.Version,
	})

	s.logger.Info("Rental updated",
		"rental_id", result.ID,
		"units", result.Units,
		"preparation_time_in_days", result.PreparationTimeInDays,
		"version", result.Version,
	)

	return result, nil
}

// checkReconfiguration walks every day the current bookings could touch
// under either the old or the proposed preparation buffer. A day fails when
// two bookings would claim the same unit, or when more units are claimed
// than the proposed capacity provides. The first failing day is reported.
func checkReconfiguration(ctx context.Context, bookings []*model.Booking, oldPrep int, params *model.RentalParams) error {
	if len(bookings) == 0 {
		return nil
	}

	maxPrep := oldPrep
	if params.PreparationTimeInDays > maxPrep {
		maxPrep = params.PreparationTimeInDays
	}

	first := bookings[0].Start
	last := bookings[0].Checkout().AddDays(maxPrep - 1)
	for _, b := range bookings[1:] {
		if b.Start.Before(first) {
			first = b.Start
		}
		if end := b.Checkout().AddDays(maxPrep - 1); end.After(last) {
			last = end
		}
	}

	for day, span := 0, first.DaysUntil(last); day <= span; day++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		date := first.AddDays(day)

		count := 0
		units := make(map[int]bool)
		for _, b := range bookings {
			if b.BlocksOn(date, params.PreparationTimeInDays) {
				count++
				units[b.Unit] = true
			}
		}

		if count != len(units) {
			return apperrors.Conflict(fmt.Sprintf(
				"Preparation time of %d days conflicts with bookings on %s",
				params.PreparationTimeInDays, date,
			))
		}
		if count > params.Units {
			return apperrors.Conflict(fmt.Sprintf(
				"Units count too small for current bookings: %d units are claimed on %s",
				count, date,
			))
		}
	}

	return nil
}

func (s *rentalService) publish(ctx context.Context, rentalID int, eventType string, payload any) {
	if err := s.publisher.Publish(ctx, rentalID, eventType, payload); err != nil {
		s.logger.Warn("Failed to publish rental event",
			"event_type", eventType,
			"rental_id", rentalID,
			"error", err,
		)
	}
}
