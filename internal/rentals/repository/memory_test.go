package repository

import (
	"context"
	"errors"
	"testing"

	rentalerrors "staybook/internal/rentals/errors"
)

func TestMemoryRentalCreateAssignsSequentialIDs(t *testing.T) {
	repo := NewMemoryRentalRepository()
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		rental, err := repo.Create(ctx, 2, 1)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if rental.ID != want {
			t.Errorf("ID = %d, want %d", rental.ID, want)
		}
		if rental.Version != 1 {
			t.Errorf("Version = %d, want 1", rental.Version)
		}
	}
}

func TestMemoryRentalGetByIDNotFound(t *testing.T) {
	repo := NewMemoryRentalRepository()

	_, err := repo.GetByID(context.Background(), 42)
	if !errors.Is(err, rentalerrors.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryRentalUpdateBumpsVersion(t *testing.T) {
	repo := NewMemoryRentalRepository()
	ctx := context.Background()

	rental, err := repo.Create(ctx, 2, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated := *rental
	updated.Units = 5
	updated.Version = rental.Version + 1

	result, err := repo.Update(ctx, &updated)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if result.Units != 5 || result.Version != 2 {
		t.Errorf("got units=%d version=%d, want units=5 version=2", result.Units, result.Version)
	}
}

func TestMemoryRentalUpdateRejectsStaleVersion(t *testing.T) {
	repo := NewMemoryRentalRepository()
	ctx := context.Background()

	rental, err := repo.Create(ctx, 2, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// First writer wins.
	first := *rental
	first.Units = 3
	first.Version = rental.Version + 1
	if _, err := repo.Update(ctx, &first); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	// Second writer presents the same version and must lose.
	second := *rental
	second.Units = 9
	second.Version = rental.Version + 1
	if _, err := repo.Update(ctx, &second); !errors.Is(err, rentalerrors.ErrVersionConflict) {
		t.Fatalf("err = %v, want ErrVersionConflict", err)
	}

	// The losing write must not have touched the stored rental.
	stored, err := repo.GetByID(ctx, rental.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Units != 3 || stored.Version != 2 {
		t.Errorf("stored units=%d version=%d, want units=3 version=2", stored.Units, stored.Version)
	}
}

func TestMemoryRentalUpdateMissingRental(t *testing.T) {
	repo := NewMemoryRentalRepository()

	rental, err := repo.Create(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	rental.ID = 99
	rental.Version = 2

	if _, err := repo.Update(context.Background(), rental); !errors.Is(err, rentalerrors.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryRentalHonorsCancelledContext(t *testing.T) {
	repo := NewMemoryRentalRepository()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.Create(ctx, 1, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Create err = %v, want context.Canceled", err)
	}
	if _, err := repo.GetByID(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("GetByID err = %v, want context.Canceled", err)
	}
}
