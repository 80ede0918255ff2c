package itinerary

import (
	"context"
	"fmt"
	"strings"

	"aventra/db"
	"aventra/logger"
	"aventra/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type docRef struct {
	DocID string `bson:"_id"`
}

type pendingDelete struct {
	collection string
	id         string
}

// DeleteItinerary removes tripID and every record referencing it. Only the
// owner may delete a trip.
func (s *Service) DeleteItinerary(ctx context.Context, caller *models.Caller, tripID string) Outcome {
	const op = "delete"
	if err := s.validate(); err != nil {
		return s.fail(ctx, op, tripID, err)
	}
	if err := requireCaller(caller); err != nil {
		return s.fail(ctx, op, tripID, err)
	}
	tripID = strings.TrimSpace(tripID)
	if tripID == "" {
		return s.fail(ctx, op, tripID, ErrNotFound)
	}

	root, err := s.fetchRoot(ctx, tripID)
	if err != nil {
		return s.fail(ctx, op, tripID, err)
	}
	if root.UserID != caller.UserID {
		return s.fail(ctx, op, tripID, ErrForbidden)
	}

	targets, err := s.collectDependents(ctx, tripID)
	if err != nil {
		return s.fail(ctx, op, tripID, err)
	}
	targets = append(targets, pendingDelete{collection: s.cols.Itineraries, id: root.DocID})

	// Every delete is attempted even after one fails.
	var g errgroup.Group
	for _, t := range targets {
		g.Go(func() error {
			if err := s.store.DeleteDocument(ctx, t.collection, t.id); err != nil {
				return fmt.Errorf("delete %s document %s: %w", t.collection, t.id, err)
			}
			return nil
		})
	}
	err = g.Wait()

	// Some records may be gone even when a delete failed.
	s.invalidate(ctx, tripID, caller.UserID)
	if err != nil {
		return s.fail(ctx, op, tripID, err)
	}

	s.emit(ctx, models.EventItineraryDeleted, tripID, caller.UserID)
	s.observe(op, "success")
	logger.WithContext(ctx, s.log).Info("itinerary deleted",
		zap.String("trip_id", tripID),
		zap.Int("documents", len(targets)),
	)
	return Outcome{Success: true, Message: "Itinerary deleted successfully"}
}

// collectDependents lists the ids of every non-root record of tripID.
func (s *Service) collectDependents(ctx context.Context, tripID string) ([]pendingDelete, error) {
	collections := []string{
		s.cols.BudgetBreakdowns,
		s.cols.ItineraryDays,
		s.cols.TimeBlocks,
		s.cols.Recommendations,
		s.cols.JourneyPaths,
	}
	found := make([][]docRef, len(collections))

	g, gctx := errgroup.WithContext(ctx)
	for i, collection := range collections {
		g.Go(func() error {
			refs, err := list[docRef](gctx, s.store, collection, db.Equal("trip_id", tripID))
			found[i] = refs
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []pendingDelete
	for i, refs := range found {
		for _, ref := range refs {
			out = append(out, pendingDelete{collection: collections[i], id: ref.DocID})
		}
	}
	return out, nil
}
