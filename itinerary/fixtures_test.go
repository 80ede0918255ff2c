package itinerary

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"aventra/config"
	"aventra/db"
	"aventra/models"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	testCols = config.Collections{
		Itineraries:      "itineraries",
		BudgetBreakdowns: "budget_breakdowns",
		ItineraryDays:    "itinerary_days",
		TimeBlocks:       "time_blocks",
		Recommendations:  "recommendations",
		JourneyPaths:     "journey_paths",
	}
	testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	alice = &models.Caller{UserID: "alice", Username: "alice"}
	bob   = &models.Caller{UserID: "bob", Username: "bob"}
)

func allCollections() []string {
	return []string{
		testCols.Itineraries,
		testCols.BudgetBreakdowns,
		testCols.ItineraryDays,
		testCols.TimeBlocks,
		testCols.Recommendations,
		testCols.JourneyPaths,
	}
}

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("id-%03d", n.Add(1))
	}
}

func newTestService(store db.Store, opts ...func(*ServiceParams)) *Service {
	p := ServiceParams{
		Store:           store,
		DatabaseID:      "trips",
		Collections:     testCols,
		SaveConcurrency: 4,
		NewID:           sequentialIDs(),
		Now:             func() time.Time { return testNow },
	}
	for _, opt := range opts {
		opt(&p)
	}
	return NewService(p)
}

func strPtr(s string) *string { return &s }

// beachItinerary is a three-day beach trip with one scheduled day.
func beachItinerary() models.GeneratedItinerary {
	return models.GeneratedItinerary{
		Name: "Island hopping",
		Metadata: models.Metadata{
			TripType:     "beach",
			DurationDays: 3,
			TotalBudget: models.TotalBudget{
				Currency: "USD",
				Total:    "1500",
				Breakdown: models.BudgetBreakdown{
					Accommodation:  600,
					Transportation: 300,
					Activities:     350,
					Food:           250,
				},
			},
			Preferences: models.Preferences{
				DietaryRestrictions: []string{"vegetarian"},
				Pace:                "relaxed",
			},
		},
		Itinerary: []models.Day{
			{
				DayNumber: 1,
				Date:      "2026-06-01",
				Weather: models.Weather{
					Temperature: models.Temperature{Min: 24, Max: 31},
					Conditions:  "Sunny",
				},
				TimeBlocks: []models.TimeBlock{
					{
						Type:            "fixed",
						StartTime:       "09:00",
						EndTime:         "11:00",
						DurationMinutes: 120,
						Activity: &models.Activity{
							Title: "Snorkeling",
							Type:  "water",
							Location: models.Location{
								Name:        "Coral Bay",
								Coordinates: models.Coordinates{Lat: 7.5, Lng: 98.3},
							},
							Duration: 120,
							Cost:     models.Cost{Currency: "USD", Range: "40-60"},
							Priority: 4,
						},
						Warnings: []models.Warning{{Type: "sun", Message: "Bring sunscreen", Priority: 2}},
					},
					{
						Type:            "flexible",
						StartTime:       "12:00",
						EndTime:         "13:00",
						DurationMinutes: 60,
						Travel: &models.Travel{
							Mode:     "ferry",
							Details:  "Ferry to Koh Phi Phi",
							Duration: 60,
							Cost:     models.Cost{Currency: "USD", Range: "15"},
							Operator: strPtr("Andaman Wave"),
						},
					},
				},
			},
		},
		Recommendations: models.Recommendations{
			Accommodations: []models.Accommodation{{
				Name:       "Seaside Inn",
				Type:       "hotel",
				PriceRange: "$$",
				Rating:     4.5,
				Location:   models.Location{Name: "Ao Nang"},
			}},
			Dining:         []models.DiningOption{},
			Transportation: []models.Transportation{},
		},
		EssentialInfo: models.EssentialInfo{
			Documents:         []string{"passport"},
			EmergencyContacts: []models.EmergencyContact{{Type: "police", Number: "191"}},
		},
	}
}

// countingStore counts every call reaching the store.
type countingStore struct {
	db.Store
	calls atomic.Int64
}

func (s *countingStore) CreateDocument(ctx context.Context, collection, id string, doc any) error {
	s.calls.Add(1)
	return s.Store.CreateDocument(ctx, collection, id, doc)
}

func (s *countingStore) ListDocuments(ctx context.Context, collection string, q db.Query) ([]bson.Raw, error) {
	s.calls.Add(1)
	return s.Store.ListDocuments(ctx, collection, q)
}

func (s *countingStore) DeleteDocument(ctx context.Context, collection, id string) error {
	s.calls.Add(1)
	return s.Store.DeleteDocument(ctx, collection, id)
}

// faultStore fails every create, list or delete against one collection.
// Creates against commitFails are stored and then reported as failed.
type faultStore struct {
	db.Store
	createFails string
	commitFails string
	listFails   string
	deleteFails string
}

var errInjected = errors.New("injected store failure")

func (s *faultStore) CreateDocument(ctx context.Context, collection, id string, doc any) error {
	if collection == s.createFails {
		return errInjected
	}
	if err := s.Store.CreateDocument(ctx, collection, id, doc); err != nil {
		return err
	}
	if collection == s.commitFails {
		return errInjected
	}
	return nil
}

func (s *faultStore) ListDocuments(ctx context.Context, collection string, q db.Query) ([]bson.Raw, error) {
	if collection == s.listFails {
		return nil, errInjected
	}
	return s.Store.ListDocuments(ctx, collection, q)
}

func (s *faultStore) DeleteDocument(ctx context.Context, collection, id string) error {
	if collection == s.deleteFails {
		return errInjected
	}
	return s.Store.DeleteDocument(ctx, collection, id)
}

// hookStore runs callbacks around the wrapped store's calls. A non-nil
// error from beforeCreate fails the create.
type hookStore struct {
	db.Store
	beforeCreate func(collection string, doc any) error
	afterList    func(collection string)
}

func (s *hookStore) CreateDocument(ctx context.Context, collection, id string, doc any) error {
	if s.beforeCreate != nil {
		if err := s.beforeCreate(collection, doc); err != nil {
			return err
		}
	}
	return s.Store.CreateDocument(ctx, collection, id, doc)
}

func (s *hookStore) ListDocuments(ctx context.Context, collection string, q db.Query) ([]bson.Raw, error) {
	raws, err := s.Store.ListDocuments(ctx, collection, q)
	if s.afterList != nil {
		s.afterList(collection)
	}
	return raws, err
}

type fakeCache struct {
	mu          sync.Mutex
	itineraries map[string]*models.GeneratedItinerary
	previews    map[string][]models.ItineraryPreview
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		itineraries: map[string]*models.GeneratedItinerary{},
		previews:    map[string][]models.ItineraryPreview{},
	}
}

func (c *fakeCache) GetItinerary(_ context.Context, tripID string) (*models.GeneratedItinerary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.itineraries[tripID]
	return it, ok
}

func (c *fakeCache) SetItinerary(_ context.Context, it *models.GeneratedItinerary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.itineraries[it.ID] = it
}

func (c *fakeCache) GetPreviews(_ context.Context, userID string) ([]models.ItineraryPreview, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.previews[userID]
	return p, ok
}

func (c *fakeCache) SetPreviews(_ context.Context, userID string, previews []models.ItineraryPreview) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previews[userID] = previews
}

func (c *fakeCache) Invalidate(_ context.Context, tripID, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tripID != "" {
		delete(c.itineraries, tripID)
	}
	delete(c.previews, userID)
	c.invalidated = append(c.invalidated, tripID+"|"+userID)
}

type recordedEvents struct {
	mu     sync.Mutex
	events []models.ItineraryEvent
}

func (r *recordedEvents) Emit(_ context.Context, e models.ItineraryEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

type recordedOps struct {
	mu  sync.Mutex
	ops []string
}

func (r *recordedOps) ObserveOperation(op, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op+":"+result)
}
