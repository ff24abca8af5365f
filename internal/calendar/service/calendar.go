package service

import (
	"context"
	"errors"
	"sort"

	rentalerrors "staybook/internal/rentals/errors"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

// BookingPeriodReader is the slice of the bookings repository the calendar
// needs: one range query covering the projection window.
type BookingPeriodReader interface {
	GetByRentalAndPeriod(ctx context.Context, rentalID int, from, to model.Date) ([]*model.Booking, error)
}

type RentalReader interface {
	GetByID(ctx context.Context, id int) (*model.Rental, error)
}

type CalendarService interface {
	GetCalendarDates(ctx context.Context, query *model.CalendarQuery) ([]model.CalendarDate, error)
}

type calendarService struct {
	bookings BookingPeriodReader
	rentals  RentalReader
	logger   *logger.Logger
}

func NewCalendarService(bookings BookingPeriodReader, rentals RentalReader, log *logger.Logger) CalendarService {
	return &calendarService{
		bookings: bookings,
		rentals:  rentals,
		logger:   log,
	}
}

// GetCalendarDates projects the rental's occupancy day by day. Each day
// lists the bookings whose stay covers it and the units blocked for
// turnaround after a checkout. The projection is derived on every call;
// nothing is stored.
func (s *calendarService) GetCalendarDates(ctx context.Context, query *model.CalendarQuery) ([]model.CalendarDate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if query.RentalID < 1 {
		return nil, apperrors.InvalidInput("Rental ID must be a positive integer")
	}
	if query.Nights < 1 {
		return nil, apperrors.Validation("Nights must be at least 1", map[string]any{
			"nights": query.Nights,
		})
	}
	if query.Start.IsZero() {
		return nil, apperrors.Validation("Start date is required", nil)
	}

	rental, err := s.rentals.GetByID(ctx, query.RentalID)
	if err != nil {
		if errors.Is(err, rentalerrors.ErrNotFound) {
			return nil, apperrors.Validation("Rental not found", map[string]any{
				"rental_id": query.RentalID,
			})
		}
		return nil, apperrors.Internal("Failed to find rental", err)
	}

	// One range query covers the whole window: a booking can influence a day
	// up to preparation-time days after its checkout, and a booking starting
	// before the window can still occupy its first days.
	from := query.Start.AddDays(-rental.PreparationTimeInDays)
	to := query.Start.AddDays(query.Nights + rental.PreparationTimeInDays - 1)
	bookings, err := s.bookings.GetByRentalAndPeriod(ctx, query.RentalID, from, to)
	if err != nil {
		return nil, apperrors.Internal("Failed to load bookings for calendar", err)
	}

	dates := make([]model.CalendarDate, 0, query.Nights)
	for day := 0; day < query.Nights; day++ {
		date := query.Start.AddDays(day)

		entry := model.CalendarDate{
			Date:             date,
			Bookings:         make([]model.CalendarBooking, 0),
			PreparationTimes: make([]model.CalendarPreparationTime, 0),
		}

		for _, b := range bookings {
			switch {
			case b.ActiveOn(date):
				entry.Bookings = append(entry.Bookings, model.CalendarBooking{
					ID:   b.ID,
					Unit: b.Unit,
				})
			case b.BlocksOn(date, rental.PreparationTimeInDays):
				entry.PreparationTimes = append(entry.PreparationTimes, model.CalendarPreparationTime{
					Unit: b.Unit,
				})
			}
		}

		sort.Slice(entry.Bookings, func(i, j int) bool {
			return entry.Bookings[i].ID < entry.Bookings[j].ID
		})
		sort.Slice(entry.PreparationTimes, func(i, j int) bool {
			return entry.PreparationTimes[i].Unit < entry.PreparationTimes[j].Unit
		})

		dates = append(dates, entry)
	}

	return dates, nil
}
