package model

import "time"

// Booking reserves exactly one unit of a rental for a contiguous range of
// nights. The assigned unit is fixed for the booking's lifetime.
type Booking struct {
	ID        int       `json:"id" bson:"_id"`
	RentalID  int       `json:"rental_id" bson:"rental_id"`
	Unit      int       `json:"unit" bson:"unit"`
	Start     Date      `json:"start" bson:"start"`
	Nights    int       `json:"nights" bson:"nights"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// LastNight is the final occupied day, Start + Nights - 1.
func (b *Booking) LastNight() Date {
	return b.Start.AddDays(b.Nights - 1)
}

// Checkout is the first day after the occupied window, when preparation of
// the unit begins.
func (b *Booking) Checkout() Date {
	return b.Start.AddDays(b.Nights)
}

// ActiveOn reports whether the booking occupies its unit on day d.
func (b *Booking) ActiveOn(d Date) bool {
	return !b.Start.After(d) && d.Before(b.Checkout())
}

// BlocksOn reports whether the booking claims its unit on day d, counting a
// preparation buffer of the given length after checkout.
func (b *Booking) BlocksOn(d Date, preparationTimeInDays int) bool {
	return !b.Start.After(d) && d.Before(b.Checkout().AddDays(preparationTimeInDays))
}

// BookingParams carries the caller-supplied fields of a booking request. The
// unit is never supplied; it is assigned by the availability check.
type BookingParams struct {
	RentalID int  `json:"rental_id" validate:"required,min=1"`
	Start    Date `json:"start" validate:"required"`
	Nights   int  `json:"nights" validate:"required,min=1"`
}
