package itinerary

import (
	"cmp"
	"slices"
	"time"

	"aventra/models"
)

// Parts are the fetched records of one trip. Budget and JourneyPath are
// nil when the trip has none.
type Parts struct {
	Root            models.ItineraryDocument
	Budget          *models.BudgetDocument
	Days            []models.DayDocument
	TimeBlocks      []models.TimeBlockDocument
	Recommendations []models.RecommendationDocument
	JourneyPath     *models.JourneyPathDocument
}

// GroupTimeBlocks decodes blocks and groups them by day id, each group in
// stored position order.
func GroupTimeBlocks(blocks []models.TimeBlockDocument) (map[string][]models.TimeBlock, error) {
	sorted := slices.Clone(blocks)
	slices.SortStableFunc(sorted, func(a, b models.TimeBlockDocument) int {
		return cmp.Compare(a.Position, b.Position)
	})

	byDay := make(map[string][]models.TimeBlock)
	for _, doc := range sorted {
		block, err := DecodeBlock(doc)
		if err != nil {
			return nil, err
		}
		byDay[doc.DayID] = append(byDay[doc.DayID], block)
	}
	return byDay, nil
}

// Assemble rebuilds the nested itinerary. Missing budget and journey path
// records become zero-valued defaults.
func Assemble(p Parts) (models.GeneratedItinerary, error) {
	root := p.Root

	preferences, err := decodeJSON[models.Preferences]("preferences", root.Preferences)
	if err != nil {
		return models.GeneratedItinerary{}, err
	}
	essentialInfo, err := decodeJSON[models.EssentialInfo]("essential_info", root.EssentialInfo)
	if err != nil {
		return models.GeneratedItinerary{}, err
	}

	budget := models.TotalBudget{
		Currency: root.Currency,
		Total:    formatTotal(root.TotalBudget),
	}
	if b := p.Budget; b != nil {
		if b.Currency != "" {
			budget.Currency = b.Currency
		}
		budget.Breakdown = models.BudgetBreakdown{
			Accommodation:  b.Accommodation,
			Transportation: b.Transportation,
			Activities:     b.Activities,
			Food:           b.Food,
		}
	}

	blocksByDay, err := GroupTimeBlocks(p.TimeBlocks)
	if err != nil {
		return models.GeneratedItinerary{}, err
	}

	days := make([]models.Day, 0, len(p.Days))
	for _, d := range p.Days {
		weather, err := decodeJSON[models.Weather]("weather", d.Weather)
		if err != nil {
			return models.GeneratedItinerary{}, err
		}
		blocks := blocksByDay[d.DayID]
		if blocks == nil {
			blocks = []models.TimeBlock{}
		}
		days = append(days, models.Day{
			DayNumber:  d.DayNumber,
			Date:       d.Date,
			Weather:    weather,
			TimeBlocks: blocks,
		})
	}

	recommendations, err := partitionRecommendations(p.Recommendations)
	if err != nil {
		return models.GeneratedItinerary{}, err
	}

	journeyPath, err := assembleJourneyPath(p.JourneyPath)
	if err != nil {
		return models.GeneratedItinerary{}, err
	}

	out := models.GeneratedItinerary{
		ID:   root.TripID,
		Name: root.Name,
		Metadata: models.Metadata{
			TripType:     root.TripType,
			DurationDays: root.DurationDays,
			TotalBudget:  budget,
			Preferences:  preferences,
		},
		Itinerary:       days,
		Recommendations: recommendations,
		EssentialInfo:   essentialInfo,
		JourneyPath:     journeyPath,
		CurrentUser:     root.UserID,
	}
	if !root.CreatedAt.IsZero() {
		out.CurrentDateTime = root.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out, nil
}

// partitionRecommendations splits records by kind, each kind in stored
// position order. Null coordinates and durations decode to 0.
func partitionRecommendations(recs []models.RecommendationDocument) (models.Recommendations, error) {
	sorted := slices.Clone(recs)
	slices.SortStableFunc(sorted, func(a, b models.RecommendationDocument) int {
		return cmp.Compare(a.Position, b.Position)
	})

	out := models.Recommendations{
		Accommodations: []models.Accommodation{},
		Dining:         []models.DiningOption{},
		Transportation: []models.Transportation{},
	}
	for _, rec := range sorted {
		switch rec.RecType {
		case RecAccommodations:
			item, err := decodeJSON[models.Accommodation]("accommodation", rec.Content)
			if err != nil {
				return models.Recommendations{}, err
			}
			out.Accommodations = append(out.Accommodations, item)
		case RecDining:
			item, err := decodeJSON[models.DiningOption]("dining option", rec.Content)
			if err != nil {
				return models.Recommendations{}, err
			}
			out.Dining = append(out.Dining, item)
		case RecTransportation:
			item, err := decodeJSON[models.Transportation]("transportation", rec.Content)
			if err != nil {
				return models.Recommendations{}, err
			}
			out.Transportation = append(out.Transportation, item)
		}
	}
	return out, nil
}

func assembleJourneyPath(doc *models.JourneyPathDocument) (*models.JourneyPath, error) {
	if doc == nil {
		return emptyJourneyPath(), nil
	}
	overview, err := decodeJSON[[]models.Coordinates]("journey overview", doc.Overview)
	if err != nil {
		return nil, err
	}
	profile, err := decodeJSON[[]models.ElevationPoint]("elevation profile", doc.ElevationProfile)
	if err != nil {
		return nil, err
	}
	if overview == nil {
		overview = []models.Coordinates{}
	}
	if profile == nil {
		profile = []models.ElevationPoint{}
	}
	return &models.JourneyPath{
		Overview:         overview,
		DistanceKm:       doc.DistanceKm,
		ElevationProfile: profile,
	}, nil
}

func emptyJourneyPath() *models.JourneyPath {
	return &models.JourneyPath{
		Overview:         []models.Coordinates{},
		ElevationProfile: []models.ElevationPoint{},
	}
}
