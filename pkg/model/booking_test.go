package model

import (
	"testing"
	"time"
)

func TestBookingWindows(t *testing.T) {
	b := &Booking{
		ID:       1,
		RentalID: 1,
		Unit:     1,
		Start:    NewDate(2026, time.April, 10),
		Nights:   3,
	}

	if got := b.LastNight().String(); got != "2026-04-12" {
		t.Errorf("LastNight = %s, want 2026-04-12", got)
	}
	if got := b.Checkout().String(); got != "2026-04-13" {
		t.Errorf("Checkout = %s, want 2026-04-13", got)
	}
}

func TestBookingActiveOn(t *testing.T) {
	b := &Booking{Start: NewDate(2026, time.April, 10), Nights: 3}

	cases := []struct {
		date string
		want bool
	}{
		{"2026-04-09", false},
		{"2026-04-10", true},
		{"2026-04-12", true},
		{"2026-04-13", false},
	}
	for _, c := range cases {
		d, _ := ParseDate(c.date)
		if got := b.ActiveOn(d); got != c.want {
			t.Errorf("ActiveOn(%s) = %v, want %v", c.date, got, c.want)
		}
	}
}

func TestBookingBlocksOnIncludesPreparation(t *testing.T) {
	b := &Booking{Start: NewDate(2026, time.April, 10), Nights: 3}

	cases := []struct {
		date string
		prep int
		want bool
	}{
		{"2026-04-13", 0, false},
		{"2026-04-13", 1, true},
		{"2026-04-14", 1, false},
		{"2026-04-14", 2, true},
		{"2026-04-15", 2, false},
	}
	for _, c := range cases {
		d, _ := ParseDate(c.date)
		if got := b.BlocksOn(d, c.prep); got != c.want {
			t.Errorf("BlocksOn(%s, prep=%d) = %v, want %v", c.date, c.prep, got, c.want)
		}
	}
}
