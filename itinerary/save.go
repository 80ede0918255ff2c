package itinerary

import (
	"context"
	"fmt"
	"time"

	"aventra/db"
	"aventra/logger"
	"aventra/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const compensationTimeout = 30 * time.Second

// SaveItinerary writes data as a new trip owned by caller and returns the
// generated trip id. A failed save deletes whatever it had already written.
func (s *Service) SaveItinerary(ctx context.Context, caller *models.Caller, data models.GeneratedItinerary) SaveResult {
	const op = "save"
	if err := s.validate(); err != nil {
		return SaveResult{Outcome: s.fail(ctx, op, "", err)}
	}
	if err := requireCaller(caller); err != nil {
		return SaveResult{Outcome: s.fail(ctx, op, "", err)}
	}

	tripID := s.newID()
	records, err := Decompose(tripID, caller.UserID, data, s.newID, s.now())
	if err != nil {
		return SaveResult{Outcome: s.fail(ctx, op, tripID, err)}
	}

	if err := s.writeRecords(ctx, records); err != nil {
		s.compensate(ctx, tripID)
		// A concurrent read may have cached records the rollback removed.
		s.invalidate(context.WithoutCancel(ctx), tripID, caller.UserID)
		return SaveResult{Outcome: s.fail(ctx, op, tripID, err)}
	}

	// A read racing the save may have cached a partial copy.
	s.invalidate(ctx, tripID, caller.UserID)
	s.emit(ctx, models.EventItinerarySaved, tripID, caller.UserID)
	s.observe(op, "success")
	logger.WithContext(ctx, s.log).Info("itinerary saved",
		zap.String("trip_id", tripID),
		zap.Int("documents", records.Count()),
	)

	return SaveResult{
		Outcome: Outcome{Success: true, Message: "Itinerary saved successfully"},
		TripID:  tripID,
	}
}

// writeRecords writes root, budget, days, recommendations and journey path
// in that order. A day is always written before its time blocks.
func (s *Service) writeRecords(ctx context.Context, r Records) error {
	create := func(ctx context.Context, collection, id string, doc any) error {
		if err := s.store.CreateDocument(ctx, collection, id, doc); err != nil {
			return fmt.Errorf("save %s document: %w", collection, err)
		}
		return nil
	}

	if err := create(ctx, s.cols.Itineraries, r.Root.DocID, r.Root); err != nil {
		return err
	}
	if err := create(ctx, s.cols.BudgetBreakdowns, r.Budget.DocID, r.Budget); err != nil {
		return err
	}

	days, daysCtx := errgroup.WithContext(ctx)
	days.SetLimit(s.saveConcurrency)
	for _, day := range r.Days {
		days.Go(func() error {
			if err := create(daysCtx, s.cols.ItineraryDays, day.Day.DocID, day.Day); err != nil {
				return err
			}
			blocks, blocksCtx := errgroup.WithContext(daysCtx)
			for _, block := range day.TimeBlocks {
				blocks.Go(func() error {
					return create(blocksCtx, s.cols.TimeBlocks, block.DocID, block)
				})
			}
			return blocks.Wait()
		})
	}
	if err := days.Wait(); err != nil {
		return err
	}

	recs, recsCtx := errgroup.WithContext(ctx)
	for _, rec := range r.Recommendations {
		recs.Go(func() error {
			return create(recsCtx, s.cols.Recommendations, rec.DocID, rec)
		})
	}
	if err := recs.Wait(); err != nil {
		return err
	}

	if r.JourneyPath != nil {
		return create(ctx, s.cols.JourneyPaths, r.JourneyPath.DocID, *r.JourneyPath)
	}
	return nil
}

// compensate deletes every record carrying tripID, so writes that committed
// but still reported an error go too. It runs even when ctx is already
// cancelled.
func (s *Service) compensate(ctx context.Context, tripID string) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	log := logger.WithContext(ctx, s.log).With(zap.String("trip_id", tripID))
	targets, err := s.collectDependents(cctx, tripID)
	if err != nil {
		log.Warn("failed to list records of a failed save", zap.Error(err))
		s.observe("save_compensation", "partial")
		return
	}
	// The root's id is the trip id.
	targets = append(targets, pendingDelete{collection: s.cols.Itineraries, id: tripID})

	removed, failed := 0, 0
	for _, t := range targets {
		err := s.store.DeleteDocument(cctx, t.collection, t.id)
		switch {
		case err == nil:
			removed++
		case db.IsNoDocument(err):
		default:
			failed++
			log.Warn("compensating delete failed",
				zap.String("collection", t.collection),
				zap.String("document_id", t.id),
				zap.Error(err),
			)
		}
	}
	log.Warn("rolled back partial itinerary save",
		zap.Int("documents", removed),
		zap.Int("failed", failed),
	)
	result := "complete"
	if failed > 0 {
		result = "partial"
	}
	s.observe("save_compensation", result)
}
