package itinerary

import (
	"testing"

	"aventra/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecomposeBeachTrip(t *testing.T) {
	records, err := Decompose("trip-1", "alice", beachItinerary(), sequentialIDs(), testNow)
	require.NoError(t, err)

	root := records.Root
	assert.Equal(t, "trip-1", root.DocID)
	assert.Equal(t, "trip-1", root.TripID)
	assert.Equal(t, "alice", root.UserID)
	assert.Equal(t, 1500.0, root.TotalBudget)
	assert.Equal(t, models.ItineraryStatusCreated, root.Status)
	assert.Equal(t, testNow, root.CreatedAt)
	assert.JSONEq(t, `{"dietary_restrictions":["vegetarian"],"accessibility_needs":false,"pace":"relaxed","context":""}`, root.Preferences)

	assert.Equal(t, "trip-1", records.Budget.TripID)
	assert.Equal(t, 600.0, records.Budget.Accommodation)

	require.Len(t, records.Days, 1)
	day := records.Days[0]
	assert.Equal(t, day.Day.DocID, day.Day.DayID)
	require.Len(t, day.TimeBlocks, 2)
	for i, block := range day.TimeBlocks {
		assert.Equal(t, day.Day.DayID, block.DayID)
		assert.Equal(t, "trip-1", block.TripID)
		assert.Equal(t, i, block.Position)
	}
	assert.Equal(t, string(BlockActivity), day.TimeBlocks[0].BlockType)
	assert.Equal(t, 4, day.TimeBlocks[0].Priority)
	assert.Equal(t, string(BlockTravel), day.TimeBlocks[1].BlockType)

	require.Len(t, records.Recommendations, 1)
	assert.Equal(t, RecAccommodations, records.Recommendations[0].RecType)
	assert.Equal(t, "Seaside Inn", records.Recommendations[0].Name)

	assert.Nil(t, records.JourneyPath)
	assert.Equal(t, 6, records.Count())
}

func TestDecomposeTransportationNameFallback(t *testing.T) {
	data := beachItinerary()
	data.Recommendations.Transportation = []models.Transportation{
		{Mode: "taxi"},
		{Mode: "bus", Operator: "Green Line"},
	}

	records, err := Decompose("trip-1", "alice", data, sequentialIDs(), testNow)
	require.NoError(t, err)

	var names []string
	for _, rec := range records.Recommendations {
		if rec.RecType == RecTransportation {
			names = append(names, rec.Name)
		}
	}
	assert.Equal(t, []string{"Transportation option", "Green Line"}, names)
}

func TestDecomposeRejectsBadTotal(t *testing.T) {
	data := beachItinerary()
	data.Metadata.TotalBudget.Total = "about 1500"

	_, err := Decompose("trip-1", "alice", data, sequentialIDs(), testNow)
	assert.ErrorIs(t, err, ErrInvalidItinerary)
}

func TestDecomposeRejectsAmbiguousBlock(t *testing.T) {
	data := beachItinerary()
	data.Itinerary[0].TimeBlocks[0].Travel = &models.Travel{Mode: "boat"}

	_, err := Decompose("trip-1", "alice", data, sequentialIDs(), testNow)
	assert.ErrorIs(t, err, ErrInvalidItinerary)
}

func partsFromRecords(r Records) Parts {
	p := Parts{Root: r.Root, Budget: &r.Budget, Recommendations: r.Recommendations, JourneyPath: r.JourneyPath}
	for _, d := range r.Days {
		p.Days = append(p.Days, d.Day)
		p.TimeBlocks = append(p.TimeBlocks, d.TimeBlocks...)
	}
	return p
}

func TestAssembleInvertsDecompose(t *testing.T) {
	data := beachItinerary()
	data.JourneyPath = &models.JourneyPath{
		Overview:         []models.Coordinates{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}},
		DistanceKm:       42.5,
		ElevationProfile: []models.ElevationPoint{{Distance: 0, Elevation: 10}},
	}
	records, err := Decompose("trip-1", "alice", data, sequentialIDs(), testNow)
	require.NoError(t, err)

	got, err := Assemble(partsFromRecords(records))
	require.NoError(t, err)

	want := data
	want.ID = "trip-1"
	want.CurrentUser = "alice"
	want.CurrentDateTime = "2026-03-14T09:30:00Z"
	assert.Equal(t, want, got)
}

func TestAssembleRestoresBlockOrder(t *testing.T) {
	records, err := Decompose("trip-1", "alice", beachItinerary(), sequentialIDs(), testNow)
	require.NoError(t, err)
	parts := partsFromRecords(records)
	parts.TimeBlocks[0], parts.TimeBlocks[1] = parts.TimeBlocks[1], parts.TimeBlocks[0]

	got, err := Assemble(parts)
	require.NoError(t, err)
	blocks := got.Itinerary[0].TimeBlocks
	require.Len(t, blocks, 2)
	assert.Equal(t, "Snorkeling", blocks[0].Activity.Title)
	assert.Equal(t, "ferry", blocks[1].Travel.Mode)
}

func TestAssembleMissingOptionalRecords(t *testing.T) {
	records, err := Decompose("trip-1", "alice", beachItinerary(), sequentialIDs(), testNow)
	require.NoError(t, err)
	parts := partsFromRecords(records)
	parts.Budget = nil
	parts.JourneyPath = nil

	got, err := Assemble(parts)
	require.NoError(t, err)
	assert.Equal(t, models.BudgetBreakdown{}, got.Metadata.TotalBudget.Breakdown)
	assert.Equal(t, "USD", got.Metadata.TotalBudget.Currency)
	assert.Equal(t, "1500", got.Metadata.TotalBudget.Total)
	require.NotNil(t, got.JourneyPath)
	assert.Zero(t, got.JourneyPath.DistanceKm)
	assert.Empty(t, got.JourneyPath.Overview)
	assert.NotNil(t, got.JourneyPath.Overview)
}

func TestAssembleDayWithoutBlocks(t *testing.T) {
	got, err := Assemble(Parts{
		Root: models.ItineraryDocument{TripID: "t", Preferences: "{}", EssentialInfo: "{}"},
		Days: []models.DayDocument{{DayID: "d1", DayNumber: 1, Weather: "{}"}},
	})
	require.NoError(t, err)
	require.Len(t, got.Itinerary, 1)
	assert.NotNil(t, got.Itinerary[0].TimeBlocks)
	assert.Empty(t, got.Itinerary[0].TimeBlocks)
	assert.NotNil(t, got.Recommendations.Dining)
}

func TestAssembleRecommendationDefaults(t *testing.T) {
	got, err := Assemble(Parts{
		Root: models.ItineraryDocument{TripID: "t", Preferences: "{}", EssentialInfo: "{}"},
		Recommendations: []models.RecommendationDocument{
			{RecType: RecAccommodations, Content: `{"name":"Hut","location":{"name":"Beach"}}`},
			{RecType: RecTransportation, Content: `{"mode":"tuk-tuk","duration":null}`},
		},
	})
	require.NoError(t, err)
	require.Len(t, got.Recommendations.Accommodations, 1)
	assert.Equal(t, models.Coordinates{}, got.Recommendations.Accommodations[0].Location.Coordinates)
	require.Len(t, got.Recommendations.Transportation, 1)
	assert.Zero(t, got.Recommendations.Transportation[0].Duration)
}

func TestAssembleMalformedStoredText(t *testing.T) {
	_, err := Assemble(Parts{
		Root: models.ItineraryDocument{TripID: "t", Preferences: "{", EssentialInfo: "{}"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse stored preferences")
}
