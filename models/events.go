package models

import "time"

const (
	EventItinerarySaved   = "itinerary.saved"
	EventItineraryDeleted = "itinerary.deleted"
)

// ItineraryEvent announces a completed save or delete.
type ItineraryEvent struct {
	Type   string    `json:"type"`
	TripID string    `json:"trip_id"`
	UserID string    `json:"user_id"`
	At     time.Time `json:"at"`
}
