package events

import "staybook/pkg/model"

const (
	Topic    = "staybook.inventory"
	DLQTopic = "staybook.inventory.dlq"

	SchemaVersion = "1"

	TypeRentalCreated  = "rental.created"
	TypeRentalUpdated  = "rental.updated"
	TypeBookingCreated = "booking.created"
)

type RentalCreated struct {
	RentalID              int `json:"rental_id"`
	Units                 int `json:"units"`
	PreparationTimeInDays int `json:"preparation_time_in_days"`
}

type RentalUpdated struct {
	RentalID              int `json:"rental_id"`
	Units                 int `json:"units"`
	PreparationTimeInDays int `json:"preparation_time_in_days"`
	Version               int `json:"version"`
}

type BookingCreated struct {
	BookingID int        `json:"booking_id"`
	RentalID  int        `json:"rental_id"`
	Unit      int        `json:"unit"`
	Start     model.Date `json:"start"`
	Nights    int        `json:"nights"`
}
