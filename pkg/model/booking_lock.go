package model

import "time"

// BookingLock is an advisory lock document keyed by rental. It serializes
// unit assignment for concurrent booking requests against the same rental.
// A TTL index on ExpiresAt reclaims locks abandoned by crashed writers.
type BookingLock struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}
