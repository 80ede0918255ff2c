package itinerary

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"aventra/models"
)

// Recommendation kinds as stored in rec_type.
const (
	RecAccommodations = "accommodations"
	RecDining         = "dining"
	RecTransportation = "transportation"

	defaultTransportationName = "Transportation option"
)

var ErrInvalidItinerary = errors.New("invalid itinerary")

// DayRecords is one day and the time blocks that reference its day id.
type DayRecords struct {
	Day        models.DayDocument
	TimeBlocks []models.TimeBlockDocument
}

// Records is an itinerary spread into its flat collections.
type Records struct {
	Root            models.ItineraryDocument
	Budget          models.BudgetDocument
	Days            []DayRecords
	Recommendations []models.RecommendationDocument
	JourneyPath     *models.JourneyPathDocument
}

// Count is the number of documents a save writes.
func (r Records) Count() int {
	n := 2 + len(r.Recommendations)
	for _, d := range r.Days {
		n += 1 + len(d.TimeBlocks)
	}
	if r.JourneyPath != nil {
		n++
	}
	return n
}

// Decompose maps a nested itinerary to the records a save writes. Every
// document ID comes from newID except the root, which is keyed by tripID.
func Decompose(tripID, userID string, data models.GeneratedItinerary, newID func() string, now time.Time) (Records, error) {
	total, err := parseTotal(data.Metadata.TotalBudget.Total)
	if err != nil {
		return Records{}, err
	}
	preferences, err := encodeJSON(data.Metadata.Preferences)
	if err != nil {
		return Records{}, fmt.Errorf("encode preferences: %w", err)
	}
	essentialInfo, err := encodeJSON(data.EssentialInfo)
	if err != nil {
		return Records{}, fmt.Errorf("encode essential info: %w", err)
	}

	budget := data.Metadata.TotalBudget
	records := Records{
		Root: models.ItineraryDocument{
			DocID:         tripID,
			TripID:        tripID,
			UserID:        userID,
			Name:          data.Name,
			TripType:      data.Metadata.TripType,
			DurationDays:  data.Metadata.DurationDays,
			Currency:      budget.Currency,
			TotalBudget:   total,
			Preferences:   preferences,
			EssentialInfo: essentialInfo,
			Status:        models.ItineraryStatusCreated,
			CreatedAt:     now.UTC(),
		},
		Budget: models.BudgetDocument{
			DocID:          newID(),
			TripID:         tripID,
			Accommodation:  budget.Breakdown.Accommodation,
			Transportation: budget.Breakdown.Transportation,
			Activities:     budget.Breakdown.Activities,
			Food:           budget.Breakdown.Food,
			Currency:       budget.Currency,
		},
	}

	for _, day := range data.Itinerary {
		dayRecords, err := decomposeDay(tripID, day, newID)
		if err != nil {
			return Records{}, err
		}
		records.Days = append(records.Days, dayRecords)
	}

	records.Recommendations, err = decomposeRecommendations(tripID, data.Recommendations, newID)
	if err != nil {
		return Records{}, err
	}

	if path := data.JourneyPath; path != nil {
		overview, err := encodeJSON(path.Overview)
		if err != nil {
			return Records{}, fmt.Errorf("encode journey overview: %w", err)
		}
		profile, err := encodeJSON(path.ElevationProfile)
		if err != nil {
			return Records{}, fmt.Errorf("encode elevation profile: %w", err)
		}
		records.JourneyPath = &models.JourneyPathDocument{
			DocID:            newID(),
			TripID:           tripID,
			Overview:         overview,
			DistanceKm:       path.DistanceKm,
			ElevationProfile: profile,
		}
	}

	return records, nil
}

func decomposeDay(tripID string, day models.Day, newID func() string) (DayRecords, error) {
	weather, err := encodeJSON(day.Weather)
	if err != nil {
		return DayRecords{}, fmt.Errorf("encode weather for day %d: %w", day.DayNumber, err)
	}

	dayID := newID()
	out := DayRecords{
		Day: models.DayDocument{
			DocID:     dayID,
			TripID:    tripID,
			DayID:     dayID,
			DayNumber: day.DayNumber,
			Date:      day.Date,
			Weather:   weather,
		},
	}

	for i, block := range day.TimeBlocks {
		enc, err := EncodeBlock(block)
		if err != nil {
			return DayRecords{}, fmt.Errorf("%w: day %d block %d: %v", ErrInvalidItinerary, day.DayNumber, i, err)
		}
		out.TimeBlocks = append(out.TimeBlocks, models.TimeBlockDocument{
			DocID:           newID(),
			TripID:          tripID,
			DayID:           dayID,
			BlockID:         newID(),
			Type:            block.Type,
			BlockType:       string(enc.Kind),
			StartTime:       block.StartTime,
			EndTime:         block.EndTime,
			DurationMinutes: block.DurationMinutes,
			Content:         enc.Content,
			Warnings:        enc.Warnings,
			Priority:        enc.Priority,
			Position:        i,
		})
	}
	return out, nil
}

func decomposeRecommendations(tripID string, recs models.Recommendations, newID func() string) ([]models.RecommendationDocument, error) {
	var out []models.RecommendationDocument
	add := func(kind, name string, position int, item any) error {
		content, err := encodeJSON(item)
		if err != nil {
			return fmt.Errorf("encode %s recommendation %q: %w", kind, name, err)
		}
		out = append(out, models.RecommendationDocument{
			DocID:    newID(),
			TripID:   tripID,
			RecID:    newID(),
			RecType:  kind,
			Name:     name,
			Content:  content,
			Position: position,
		})
		return nil
	}

	for i, item := range recs.Accommodations {
		if err := add(RecAccommodations, item.Name, i, item); err != nil {
			return nil, err
		}
	}
	for i, item := range recs.Dining {
		if err := add(RecDining, item.Name, i, item); err != nil {
			return nil, err
		}
	}
	for i, item := range recs.Transportation {
		name := item.Operator
		if name == "" {
			name = defaultTransportationName
		}
		if err := add(RecTransportation, name, i, item); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func parseTotal(total string) (float64, error) {
	total = strings.TrimSpace(total)
	if total == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(total, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: total budget %q is not a number", ErrInvalidItinerary, total)
	}
	return value, nil
}

func formatTotal(total float64) string {
	return strconv.FormatFloat(total, 'f', -1, 64)
}
