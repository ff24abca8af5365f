package model

import "time"

// Rental is a property with a number of interchangeable units and a
// preparation buffer applied after every stay. Version guards concurrent
// reconfiguration and is never exposed over the API.
type Rental struct {
	ID                    int       `json:"id" bson:"_id"`
	Units                 int       `json:"units" bson:"units"`
	PreparationTimeInDays int       `json:"preparation_time_in_days" bson:"preparation_time_in_days"`
	Version               int       `json:"-" bson:"version"`
	CreatedAt             time.Time `json:"created_at" bson:"created_at"`
}

// RentalParams carries the caller-supplied fields of a rental create or
// reconfigure request. Creation additionally requires at least one unit;
// that rule lives in the validator because reconfiguration allows zero.
type RentalParams struct {
	Units                 int `json:"units" validate:"min=0"`
	PreparationTimeInDays int `json:"preparation_time_in_days" validate:"min=0"`
}
