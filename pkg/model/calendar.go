package model

// CalendarBooking is the per-day projection of a booking occupying a unit.
type CalendarBooking struct {
	ID   int `json:"id"`
	Unit int `json:"unit"`
}

// CalendarPreparationTime marks a unit blocked for turnaround on a day.
// Preparation has no owning booking, so only the unit number is reported.
type CalendarPreparationTime struct {
	Unit int `json:"unit"`
}

// CalendarDate is one day of the occupancy calendar. Derived, never stored.
type CalendarDate struct {
	Date             Date                      `json:"date"`
	Bookings         []CalendarBooking         `json:"bookings"`
	PreparationTimes []CalendarPreparationTime `json:"preparation_times"`
}

// CalendarQuery carries the parameters of a calendar projection request.
type CalendarQuery struct {
	RentalID int  `json:"rental_id" validate:"required,min=1"`
	Start    Date `json:"start" validate:"required"`
	Nights   int  `json:"nights" validate:"required,min=1"`
}
