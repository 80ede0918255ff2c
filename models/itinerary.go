package models

import "encoding/json"

// GeneratedItinerary is the nested trip plan as produced by the generator
// and as returned to clients after reassembly.
type GeneratedItinerary struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Metadata        Metadata        `json:"metadata"`
	Itinerary       []Day           `json:"itinerary"`
	Recommendations Recommendations `json:"recommendations"`
	EssentialInfo   EssentialInfo   `json:"essential_info"`
	// nil for single-destination trips
	JourneyPath     *JourneyPath `json:"journey_path,omitempty"`
	CurrentDateTime string       `json:"currentDateTime,omitempty"`
	CurrentUser     string       `json:"currentUser,omitempty"`
}

type Metadata struct {
	TripType     string      `json:"trip_type"`
	DurationDays int         `json:"duration_days"`
	TotalBudget  TotalBudget `json:"total_budget"`
	Preferences  Preferences `json:"preferences"`
}

type TotalBudget struct {
	Currency string `json:"currency"`
	// decimal string, e.g. "1500"
	Total     string          `json:"total"`
	Breakdown BudgetBreakdown `json:"breakdown"`
}

type BudgetBreakdown struct {
	Accommodation  float64 `json:"accommodation"`
	Transportation float64 `json:"transportation"`
	Activities     float64 `json:"activities"`
	Food           float64 `json:"food"`
}

type Preferences struct {
	DietaryRestrictions []string `json:"dietary_restrictions"`
	AccessibilityNeeds  bool     `json:"accessibility_needs"`
	Pace                string   `json:"pace"`
	Context             string   `json:"context"`
}

type Day struct {
	DayNumber  int         `json:"day_number"`
	Date       string      `json:"date"`
	Weather    Weather     `json:"weather"`
	TimeBlocks []TimeBlock `json:"time_blocks"`
}

type Weather struct {
	Temperature Temperature `json:"temperature"`
	Conditions  string      `json:"conditions"`
	Advisory    string      `json:"advisory"`
}

type Temperature struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TimeBlock is either an activity or a travel segment; at most one of
// Activity and Travel is set.
type TimeBlock struct {
	Type            string    `json:"type"` // fixed/flexible
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Activity        *Activity `json:"activity,omitempty"`
	Travel          *Travel   `json:"travel,omitempty"`
	Warnings        []Warning `json:"warnings,omitempty"`
}

type Activity struct {
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Location    Location `json:"location"`
	Duration    int      `json:"duration"`
	Cost        Cost     `json:"cost"`
	Images      []string `json:"images"`
	Link        *string  `json:"link"`
	Highlights  []string `json:"highlights"`
	Priority    int      `json:"priority"`

	BackupAlternativeOptions []json.RawMessage `json:"backup_alternative_options,omitempty"`
}

type Travel struct {
	Mode     string  `json:"mode"` // flight/train/car/bus
	Details  string  `json:"details"`
	Duration int     `json:"duration"`
	Cost     Cost    `json:"cost"`
	Link     *string `json:"link"`
	Operator *string `json:"operator"`
}

type Warning struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Priority int    `json:"priority"`
}

type Cost struct {
	Currency string `json:"currency"`
	Range    string `json:"range"`
	PerUnit  string `json:"per_unit,omitempty"`
}

type Location struct {
	Name           string      `json:"name"`
	Coordinates    Coordinates `json:"coordinates"`
	Altitude       *float64    `json:"altitude,omitempty"`
	GoogleMapsLink string      `json:"google_maps_link,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Recommendations struct {
	Accommodations []Accommodation  `json:"accommodations"`
	Dining         []DiningOption   `json:"dining"`
	Transportation []Transportation `json:"transportation"`
}

type Accommodation struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Location    Location `json:"location"`
	PriceRange  string   `json:"price_range"`
	Rating      float64  `json:"rating"`
	Images      []string `json:"images"`
	Amenities   []string `json:"amenities"`
	Link        string   `json:"link,omitempty"`
	Description string   `json:"description,omitempty"`
}

type DiningOption struct {
	Name            string   `json:"name"`
	Cuisine         string   `json:"cuisine"`
	PriceRange      string   `json:"price_range"`
	DietaryOptions  []string `json:"dietary_options"`
	SignatureDishes []string `json:"signature_dishes"`
	Location        Location `json:"location"`
	Description     string   `json:"description"`
	Images          []string `json:"images"`
	Link            string   `json:"link"`
}

type Transportation struct {
	Mode            string  `json:"mode"`
	From            string  `json:"from,omitempty"`
	To              string  `json:"to,omitempty"`
	DepartureTime   string  `json:"departure_time,omitempty"`
	ArrivalTime     string  `json:"arrival_time,omitempty"`
	Duration        float64 `json:"duration"`
	DurationMinutes int     `json:"duration_minutes,omitempty"`
	Operator        string  `json:"operator,omitempty"`
	Area            string  `json:"area,omitempty"`
	Cost            Cost    `json:"cost"`
	Link            string  `json:"link,omitempty"`
	Details         string  `json:"details"`
}

type EssentialInfo struct {
	Documents         []string           `json:"documents"`
	EmergencyContacts []EmergencyContact `json:"emergency_contacts"`
}

type EmergencyContact struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type JourneyPath struct {
	Overview         []Coordinates    `json:"overview"`
	DistanceKm       float64          `json:"distance_km"`
	ElevationProfile []ElevationPoint `json:"elevation_profile"`
}

type ElevationPoint struct {
	Distance  float64 `json:"distance"`
	Elevation float64 `json:"elevation"`
}
