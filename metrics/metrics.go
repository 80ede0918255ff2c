package metrics

import (
	"context"
	"errors"
	"time"

	"aventra/db"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	CallCreate = "create"
	CallList   = "list"
	CallDelete = "delete"
)

// Metrics holds the itinerary service collectors.
type Metrics struct {
	operations *prometheus.CounterVec
	storeCalls *prometheus.HistogramVec
	storeErrs  *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aventra",
			Name:      "itinerary_operations_total",
			Help:      "Itinerary operations by outcome.",
		}, []string{"operation", "result"}),
		storeCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aventra",
			Name:      "store_call_duration_seconds",
			Help:      "Latency of document store calls.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"collection", "call"}),
		storeErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aventra",
			Name:      "store_call_errors_total",
			Help:      "Failed document store calls.",
		}, []string{"collection", "call"}),
	}
	for _, c := range []prometheus.Collector{m.operations, m.storeCalls, m.storeErrs} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveOperation(operation, result string) {
	m.operations.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) observeCall(collection, call string, start time.Time, err error) {
	m.storeCalls.WithLabelValues(collection, call).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, db.ErrNoDocument) {
		m.storeErrs.WithLabelValues(collection, call).Inc()
	}
}

type instrumentedStore struct {
	next db.Store
	m    *Metrics
}

// InstrumentStore times every call made through store.
func InstrumentStore(store db.Store, m *Metrics) db.Store {
	return &instrumentedStore{next: store, m: m}
}

func (s *instrumentedStore) CreateDocument(ctx context.Context, collection, id string, doc any) error {
	start := time.Now()
	err := s.next.CreateDocument(ctx, collection, id, doc)
	s.m.observeCall(collection, CallCreate, start, err)
	return err
}

func (s *instrumentedStore) ListDocuments(ctx context.Context, collection string, q db.Query) ([]bson.Raw, error) {
	start := time.Now()
	out, err := s.next.ListDocuments(ctx, collection, q)
	s.m.observeCall(collection, CallList, start, err)
	return out, err
}

func (s *instrumentedStore) DeleteDocument(ctx context.Context, collection, id string) error {
	start := time.Now()
	err := s.next.DeleteDocument(ctx, collection, id)
	s.m.observeCall(collection, CallDelete, start, err)
	return err
}
