package service

import (
	"context"
	"testing"
	"time"

	bookingrepo "staybook/internal/bookings/repository"
	"staybook/internal/bookings/validator"
	"staybook/internal/events"
	rentalrepo "staybook/internal/rentals/repository"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"
	"staybook/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

// newBookingFixture wires the service against the in-memory stores so the
// availability semantics under test are the real ones.
func newBookingFixture(t *testing.T, units, prep int) (BookingService, int) {
	t.Helper()
	log := testLogger()

	rentals := rentalrepo.NewMemoryRentalRepository()
	rental, err := rentals.Create(context.Background(), units, prep)
	if err != nil {
		t.Fatalf("failed to create rental: %v", err)
	}

	bookings := bookingrepo.NewMemoryBookingRepository(rentals)
	svc := NewBookingService(bookings, rentals, validator.NewBookingValidator(log), events.NewNopPublisher(), log)
	return svc, rental.ID
}

func assertAppCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Fatalf("code = %s, want %s (err: %v)", appErr.Code, code, err)
	}
}

func TestCreateBookingAssignsLowestFreeUnit(t *testing.T) {
	svc, rentalID := newBookingFixture(t, 2, 0)
	ctx := context.Background()
	start := model.NewDate(2026, time.July, 1)

	first, err := svc.Create(ctx, &model.BookingParams{RentalID: rentalID, Start: start, Nights: 2})
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if first.Unit != 1 {
		t.Errorf("first unit = %d, want 1", first.Unit)
	}

	second, err := svc.Create(ctx, &model.BookingParams{RentalID: rentalID, Start: start, Nights: 2})
	if err != nil {
		t.Fatalf("second booking failed: %v", err)
	}
	if second.Unit != 2 {
		t.Errorf("second unit = %d, want 2", second.Unit)
	}
	if second.ID == first.ID {
		t.Error("booking ids must be unique")
	}
}

func TestCreateBookingConflictWhenFull(t *testing.T) {
	svc, rentalID := newBookingFixture(t, 1, 0)
	ctx := context.Background()
	start := model.NewDate(2026, time.July, 1)

	if _, err := svc.Create(ctx, &model.BookingParams{RentalID: rentalID, Start: start, Nights: 3}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := svc.Create(ctx, &model.BookingParams{RentalID: rentalID, Start: start.AddDays(1), Nights: 1})
	assertAppCode(t, err, apperrors.CodeConflict)
}

func TestCreateBookingRespectsTurnaround(t *testing.T) {
	svc, rentalID := newBookingFixture(t, 1, 1)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &model.BookingParams{
		RentalID: rentalID,
		Start:    model.NewDate(2026, time.July, 1),
		Nights:   2,
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// July 3 the unit is being prepared.
	_, err := svc.Create(ctx, &model.BookingParams{
		RentalID: rentalID,
		Start:    model.NewDate(2026, time.July, 3),
		Nights:   1,
	})
	assertAppCode(t, err, apperrors.CodeConflict)

	// July 4 it is ready.
	if _, err := svc.Create(ctx, &model.BookingParams{
		RentalID: rentalID,
		Start:    model.NewDate(2026, time.July, 4),
		Nights:   1,
	}); err != nil {
		t.Errorf("booking after turnaround failed: %v", err)
	}
}

// Two one-night stays on a two-unit rental with a two-day turnaround keep
// both units blocked through day 3; day 4 frees the first unit again.
func TestCreateBookingFullRentalWithStaggeredTurnaround(t *testing.T) {
	svc, rentalID := newBookingFixture(t, 2, 2)
	ctx := context.Background()
	day := func(n int) model.Date { return model.NewDate(2026, time.September, n) }

	a, err := svc.Create(ctx, &model.BookingParams{RentalID: rentalID, Start: day(1), Nights: 1})
	if err != nil {
		t.Fatalf("booking A failed: %v", err)
	}
	b, err := svc.Create(ctx, &model.BookingParams{RentalID: rentalID, Start: day(2), Nights: 1})
	if err != nil {
		t.Fatalf("booking B failed: %v", err)
	}
	if a.Unit != 1 || b.Unit != 2 {
		t.Fatalf("units = %d, %d; want 1, 2", a.Unit, b.Unit)
	}

	// Day 3 both units are still covered by a turnaround buffer.
	_, err = svc.Create(ctx, &model.BookingParams{RentalID: rentalID, Start: day(3), Nights: 2})
	assertAppCode(t, err, apperrors.CodeConflict)

	// Day 4 unit 1 has cleared its buffer.
	c, err := svc.Create(ctx, &model.BookingParams{RentalID: rentalID, Start: day(4), Nights: 2})
	if err != nil {
		t.Fatalf("booking C failed: %v", err)
	}
	if c.Unit != 1 {
		t.Errorf("booking C unit = %d, want 1", c.Unit)
	}
}

func TestCreateBookingUnknownRental(t *testing.T) {
	svc, _ := newBookingFixture(t, 1, 0)

	_, err := svc.Create(context.Background(), &model.BookingParams{
		RentalID: 99,
		Start:    model.NewDate(2026, time.July, 1),
		Nights:   1,
	})
	assertAppCode(t, err, apperrors.CodeValidation)
}

func TestCreateBookingValidation(t *testing.T) {
	svc, rentalID := newBookingFixture(t, 1, 0)
	ctx := context.Background()
	start := model.NewDate(2026, time.July, 1)

	cases := []struct {
		name   string
		params model.BookingParams
	}{
		{"zero nights", model.BookingParams{RentalID: rentalID, Start: start, Nights: 0}},
		{"negative nights", model.BookingParams{RentalID: rentalID, Start: start, Nights: -2}},
		{"missing rental id", model.BookingParams{Start: start, Nights: 1}},
		{"missing start", model.BookingParams{RentalID: rentalID, Nights: 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Create(ctx, &c.params)
			assertAppCode(t, err, apperrors.CodeValidation)
		})
	}
}

func TestGetBookingByID(t *testing.T) {
	svc, rentalID := newBookingFixture(t, 1, 0)
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.BookingParams{
		RentalID: rentalID,
		Start:    model.NewDate(2026, time.July, 1),
		Nights:   2,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ID != created.ID || got.Unit != created.Unit {
		t.Errorf("got %+v, want %+v", got, created)
	}

	_, err = svc.GetByID(ctx, created.ID+100)
	assertAppCode(t, err, apperrors.CodeNotFound)

	_, err = svc.GetByID(ctx, 0)
	assertAppCode(t, err, apperrors.CodeInvalidInput)
}
