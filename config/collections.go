package config

import (
	"strings"
)

// Collections names the six collections an itinerary is spread across.
type Collections struct {
	Itineraries      string
	BudgetBreakdowns string
	ItineraryDays    string
	TimeBlocks       string
	Recommendations  string
	JourneyPaths     string
}

// MissingError reports blank collection IDs, or a blank database ID.
type MissingError struct {
	Collections []string
	DatabaseID  bool
}

func (e *MissingError) Error() string {
	if len(e.Collections) > 0 {
		return "Missing required collection IDs: " + strings.Join(e.Collections, ", ")
	}
	return "Missing required database ID"
}

// Validate checks every collection ID and then the database ID.
// Missing collections are reported in a fixed order.
func (c Collections) Validate(databaseID string) error {
	named := []struct {
		key   string
		value string
	}{
		{"itineraries", c.Itineraries},
		{"budgetBreakdowns", c.BudgetBreakdowns},
		{"itineraryDays", c.ItineraryDays},
		{"timeBlocks", c.TimeBlocks},
		{"recommendations", c.Recommendations},
		{"journeyPaths", c.JourneyPaths},
	}

	var missing []string
	for _, n := range named {
		if strings.TrimSpace(n.value) == "" {
			missing = append(missing, n.key)
		}
	}
	if len(missing) > 0 {
		return &MissingError{Collections: missing}
	}
	if strings.TrimSpace(databaseID) == "" {
		return &MissingError{DatabaseID: true}
	}
	return nil
}
