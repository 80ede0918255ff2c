package itinerary

import (
	"context"
	"errors"
	"time"

	"aventra/config"
	"aventra/db"
	"aventra/logger"
	"aventra/models"
	"aventra/utils"

	"go.uber.org/zap"
)

var (
	ErrUnauthenticated = errors.New("User not authenticated")
	ErrNotFound        = errors.New("Itinerary not found")
	ErrForbidden       = errors.New("You don't have permission to delete this itinerary")
)

// FailureKind classifies a failed operation; handlers map it to a status.
type FailureKind string

const (
	FailureConfig          FailureKind = "config"
	FailureUnauthenticated FailureKind = "unauthenticated"
	FailureNotFound        FailureKind = "not_found"
	FailureForbidden       FailureKind = "forbidden"
	FailureInvalid         FailureKind = "invalid"
	FailureInternal        FailureKind = "internal"
)

// Outcome is the uniform result every operation returns.
type Outcome struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    FailureKind `json:"-"`
}

type SaveResult struct {
	Outcome
	TripID string `json:"tripId,omitempty"`
}

type GetResult struct {
	Outcome
	Itinerary *models.GeneratedItinerary `json:"itinerary,omitempty"`
}

type ListResult struct {
	Outcome
	Itineraries []models.ItineraryPreview `json:"itineraries"`
}

// Cache holds assembled itineraries and per-user previews.
type Cache interface {
	GetItinerary(ctx context.Context, tripID string) (*models.GeneratedItinerary, bool)
	SetItinerary(ctx context.Context, it *models.GeneratedItinerary)
	GetPreviews(ctx context.Context, userID string) ([]models.ItineraryPreview, bool)
	SetPreviews(ctx context.Context, userID string, previews []models.ItineraryPreview)
	Invalidate(ctx context.Context, tripID, userID string)
}

// Publisher announces completed saves and deletes.
type Publisher interface {
	Emit(ctx context.Context, event models.ItineraryEvent) error
}

// OperationRecorder counts operation outcomes.
type OperationRecorder interface {
	ObserveOperation(operation, result string)
}

type ServiceParams struct {
	Store       db.Store
	DatabaseID  string
	Collections config.Collections
	Log         *zap.Logger

	// optional
	Cache   Cache
	Events  Publisher
	Metrics OperationRecorder

	// SaveConcurrency bounds how many days are written at once.
	SaveConcurrency int
	NewID           func() string
	Now             func() time.Time
}

// Service persists itineraries across the six collections and
// reassembles them on read.
type Service struct {
	store           db.Store
	databaseID      string
	cols            config.Collections
	log             *zap.Logger
	cache           Cache
	events          Publisher
	metrics         OperationRecorder
	saveConcurrency int
	newID           func() string
	now             func() time.Time
}

func NewService(p ServiceParams) *Service {
	s := &Service{
		store:           p.Store,
		databaseID:      p.DatabaseID,
		cols:            p.Collections,
		log:             p.Log,
		cache:           p.Cache,
		events:          p.Events,
		metrics:         p.Metrics,
		saveConcurrency: p.SaveConcurrency,
		newID:           p.NewID,
		now:             p.Now,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.saveConcurrency < 1 {
		s.saveConcurrency = 1
	}
	if s.newID == nil {
		s.newID = utils.NewID
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) validate() error {
	return s.cols.Validate(s.databaseID)
}

func requireCaller(caller *models.Caller) error {
	if caller == nil || caller.UserID == "" {
		return ErrUnauthenticated
	}
	return nil
}

func classify(err error) FailureKind {
	var missing *config.MissingError
	switch {
	case errors.As(err, &missing):
		return FailureConfig
	case errors.Is(err, ErrUnauthenticated):
		return FailureUnauthenticated
	case errors.Is(err, ErrNotFound):
		return FailureNotFound
	case errors.Is(err, ErrForbidden):
		return FailureForbidden
	case errors.Is(err, ErrInvalidItinerary):
		return FailureInvalid
	}
	return FailureInternal
}

// fail logs err and turns it into a failed Outcome.
func (s *Service) fail(ctx context.Context, operation, tripID string, err error) Outcome {
	kind := classify(err)
	log := logger.WithContext(ctx, s.log).With(
		zap.String("operation", operation),
		zap.String("trip_id", tripID),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)
	switch kind {
	case FailureInternal, FailureConfig:
		log.Error("itinerary operation failed")
	default:
		log.Info("itinerary operation rejected")
	}
	s.observe(operation, string(kind))
	return Outcome{Success: false, Error: err.Error(), Kind: kind}
}

func (s *Service) observe(operation, result string) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(operation, result)
	}
}

func (s *Service) emit(ctx context.Context, eventType, tripID, userID string) {
	if s.events == nil {
		return
	}
	event := models.ItineraryEvent{Type: eventType, TripID: tripID, UserID: userID, At: s.now().UTC()}
	if err := s.events.Emit(ctx, event); err != nil {
		logger.WithContext(ctx, s.log).Warn("failed to publish itinerary event",
			zap.String("event", eventType),
			zap.String("trip_id", tripID),
			zap.Error(err),
		)
	}
}

func (s *Service) invalidate(ctx context.Context, tripID, userID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, tripID, userID)
	}
}
