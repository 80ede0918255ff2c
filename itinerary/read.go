package itinerary

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"aventra/db"
	"aventra/models"

	"golang.org/x/sync/errgroup"
)

// GetItinerary fetches every record of tripID and reassembles the nested
// itinerary. Only a missing root record is reported as not found.
func (s *Service) GetItinerary(ctx context.Context, tripID string) GetResult {
	const op = "get"
	if err := s.validate(); err != nil {
		return GetResult{Outcome: s.fail(ctx, op, tripID, err)}
	}
	tripID = strings.TrimSpace(tripID)
	if tripID == "" {
		return GetResult{Outcome: s.fail(ctx, op, tripID, ErrNotFound)}
	}

	if s.cache != nil {
		if it, ok := s.cache.GetItinerary(ctx, tripID); ok {
			s.observe(op, "cache_hit")
			return GetResult{Outcome: Outcome{Success: true}, Itinerary: it}
		}
	}

	parts, err := s.fetchParts(ctx, tripID)
	if err != nil {
		return GetResult{Outcome: s.fail(ctx, op, tripID, err)}
	}
	it, err := Assemble(parts)
	if err != nil {
		return GetResult{Outcome: s.fail(ctx, op, tripID, err)}
	}

	if s.cache != nil {
		s.cache.SetItinerary(ctx, &it)
		// A delete or rollback that finished during the read has already
		// invalidated, so the copy just cached must go.
		if _, err := s.fetchRoot(ctx, tripID); err != nil {
			s.cache.Invalidate(ctx, tripID, parts.Root.UserID)
		}
	}
	s.observe(op, "success")
	return GetResult{Outcome: Outcome{Success: true}, Itinerary: &it}
}

// fetchParts issues the six lookups together.
func (s *Service) fetchParts(ctx context.Context, tripID string) (Parts, error) {
	var (
		parts   Parts
		budgets []models.BudgetDocument
		paths   []models.JourneyPathDocument
	)
	byTrip := db.Equal("trip_id", tripID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		root, err := s.fetchRoot(gctx, tripID)
		parts.Root = root
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = list[models.BudgetDocument](gctx, s.store, s.cols.BudgetBreakdowns, byTrip)
		return err
	})
	g.Go(func() error {
		var err error
		parts.Days, err = list[models.DayDocument](gctx, s.store, s.cols.ItineraryDays, byTrip.OrderAsc("day_number"))
		return err
	})
	g.Go(func() error {
		var err error
		parts.TimeBlocks, err = list[models.TimeBlockDocument](gctx, s.store, s.cols.TimeBlocks, byTrip)
		return err
	})
	g.Go(func() error {
		var err error
		parts.Recommendations, err = list[models.RecommendationDocument](gctx, s.store, s.cols.Recommendations, byTrip)
		return err
	})
	g.Go(func() error {
		var err error
		paths, err = list[models.JourneyPathDocument](gctx, s.store, s.cols.JourneyPaths, byTrip)
		return err
	})
	if err := g.Wait(); err != nil {
		return Parts{}, err
	}

	if len(budgets) > 0 {
		parts.Budget = &budgets[0]
	}
	if len(paths) > 0 {
		parts.JourneyPath = &paths[0]
	}
	return parts, nil
}

func (s *Service) fetchRoot(ctx context.Context, tripID string) (models.ItineraryDocument, error) {
	roots, err := list[models.ItineraryDocument](ctx, s.store, s.cols.Itineraries, db.Equal("trip_id", tripID))
	if err != nil {
		return models.ItineraryDocument{}, err
	}
	if len(roots) == 0 {
		return models.ItineraryDocument{}, ErrNotFound
	}
	return roots[0], nil
}

func list[T any](ctx context.Context, store db.Store, collection string, q db.Query) ([]T, error) {
	out, err := db.ListAndDecode[T](ctx, store, collection, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return out, nil
}

// GetUserItineraries returns previews of the caller's trips, newest first.
func (s *Service) GetUserItineraries(ctx context.Context, caller *models.Caller) ListResult {
	const op = "list"
	if err := s.validate(); err != nil {
		return ListResult{Outcome: s.fail(ctx, op, "", err)}
	}
	if err := requireCaller(caller); err != nil {
		return ListResult{Outcome: s.fail(ctx, op, "", err)}
	}

	if s.cache != nil {
		if previews, ok := s.cache.GetPreviews(ctx, caller.UserID); ok {
			s.observe(op, "cache_hit")
			if previews == nil {
				previews = []models.ItineraryPreview{}
			}
			return ListResult{Outcome: Outcome{Success: true}, Itineraries: previews}
		}
	}

	previews, err := s.listPreviews(ctx, caller.UserID)
	if err != nil {
		return ListResult{Outcome: s.fail(ctx, op, "", err)}
	}

	if s.cache != nil {
		s.cache.SetPreviews(ctx, caller.UserID, previews)
		// Drop the cached list if a save or delete changed it meanwhile.
		if again, err := s.listPreviews(ctx, caller.UserID); err != nil || !sameTrips(previews, again) {
			s.cache.Invalidate(ctx, "", caller.UserID)
		}
	}
	s.observe(op, "success")
	return ListResult{Outcome: Outcome{Success: true}, Itineraries: previews}
}

func (s *Service) listPreviews(ctx context.Context, userID string) ([]models.ItineraryPreview, error) {
	roots, err := list[models.ItineraryDocument](ctx, s.store, s.cols.Itineraries,
		db.Equal("user_id", userID).OrderDesc("created_at"))
	if err != nil {
		return nil, err
	}
	previews := make([]models.ItineraryPreview, 0, len(roots))
	for _, doc := range roots {
		previews = append(previews, Preview(doc))
	}
	return previews, nil
}

func sameTrips(a, b []models.ItineraryPreview) bool {
	return slices.EqualFunc(a, b, func(x, y models.ItineraryPreview) bool {
		return x.TripID == y.TripID
	})
}

// Preview projects a root record to its list view.
func Preview(doc models.ItineraryDocument) models.ItineraryPreview {
	p := models.ItineraryPreview{
		TripID:       doc.TripID,
		Name:         doc.Name,
		TripType:     doc.TripType,
		DurationDays: doc.DurationDays,
		TotalBudget:  doc.TotalBudget,
		Currency:     doc.Currency,
	}
	if !doc.CreatedAt.IsZero() {
		p.CreatedAt = doc.CreatedAt.UTC().Format(time.RFC3339)
	}
	return p
}
