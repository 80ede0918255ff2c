package models

import "time"

// Flat records an itinerary is spread across. Each lives in its own
// collection and carries the owning trip id; JSON-text fields hold the
// nested parts of the itinerary.

const ItineraryStatusCreated = "created"

type ItineraryDocument struct {
	DocID         string    `bson:"_id,omitempty"`
	TripID        string    `bson:"trip_id"`
	UserID        string    `bson:"user_id"`
	Name          string    `bson:"name"`
	TripType      string    `bson:"trip_type"`
	DurationDays  int       `bson:"duration_days"`
	Currency      string    `bson:"currency"`
	TotalBudget   float64   `bson:"total_budget"`
	Preferences   string    `bson:"preferences"`
	EssentialInfo string    `bson:"essential_info"`
	Status        string    `bson:"status"`
	CreatedAt     time.Time `bson:"created_at"`
}

type BudgetDocument struct {
	DocID          string  `bson:"_id,omitempty"`
	TripID         string  `bson:"trip_id"`
	Accommodation  float64 `bson:"accommodation"`
	Transportation float64 `bson:"transportation"`
	Activities     float64 `bson:"activities"`
	Food           float64 `bson:"food"`
	Currency       string  `bson:"currency"`
}

type DayDocument struct {
	DocID     string `bson:"_id,omitempty"`
	TripID    string `bson:"trip_id"`
	DayID     string `bson:"day_id"`
	DayNumber int    `bson:"day_number"`
	Date      string `bson:"date"`
	Weather   string `bson:"weather"`
}

type TimeBlockDocument struct {
	DocID           string  `bson:"_id,omitempty"`
	TripID          string  `bson:"trip_id"`
	DayID           string  `bson:"day_id"`
	BlockID         string  `bson:"block_id"`
	Type            string  `bson:"type"`
	BlockType       string  `bson:"block_type"`
	StartTime       string  `bson:"start_time"`
	EndTime         string  `bson:"end_time"`
	DurationMinutes int     `bson:"duration_minutes"`
	Content         *string `bson:"content"`
	Warnings        *string `bson:"warnings"`
	Priority        int     `bson:"priority"`
	Position        int     `bson:"position"`
}

type RecommendationDocument struct {
	DocID    string `bson:"_id,omitempty"`
	TripID   string `bson:"trip_id"`
	RecID    string `bson:"rec_id"`
	RecType  string `bson:"rec_type"`
	Name     string `bson:"name"`
	Content  string `bson:"content"`
	Position int    `bson:"position"`
}

type JourneyPathDocument struct {
	DocID            string  `bson:"_id,omitempty"`
	TripID           string  `bson:"trip_id"`
	Overview         string  `bson:"overview"`
	DistanceKm       float64 `bson:"distance_km"`
	ElevationProfile string  `bson:"elevation_profile"`
}

// ItineraryPreview is the list-view projection of an ItineraryDocument.
type ItineraryPreview struct {
	TripID       string  `json:"tripId"`
	Name         string  `json:"name"`
	TripType     string  `json:"tripType"`
	CreatedAt    string  `json:"createdAt"`
	DurationDays int     `json:"durationDays"`
	TotalBudget  float64 `json:"totalBudget"`
	Currency     string  `json:"currency"`
}

// Caller is the authenticated identity an operation runs on behalf of.
type Caller struct {
	UserID   string
	Username string
}
