package db

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

type memoryDoc struct {
	id  string
	raw bson.Raw
}

// MemoryStore is an in-process Store holding BSON-encoded documents.
// It is used for tests and for running the service without MongoDB.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]memoryDoc
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]memoryDoc)}
}

func (s *MemoryStore) CreateDocument(ctx context.Context, collection, id string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d, err := withID(doc, id)
	if err != nil {
		return err
	}
	raw, err := bson.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.collections[collection] {
		if existing.id == id {
			return fmt.Errorf("%s/%s: %w", collection, id, ErrDuplicateID)
		}
	}
	s.collections[collection] = append(s.collections[collection], memoryDoc{id: id, raw: raw})
	return nil
}

func (s *MemoryStore) ListDocuments(ctx context.Context, collection string, q Query) ([]bson.Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	want, err := rawValueOf(q.Value)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	var out []bson.Raw
	for _, doc := range s.collections[collection] {
		if compareValues(doc.raw.Lookup(q.Field), want) == 0 {
			out = append(out, doc.raw)
		}
	}
	s.mu.RUnlock()

	if q.Order != Unordered {
		slices.SortStableFunc(out, func(a, b bson.Raw) int {
			c := compareValues(a.Lookup(q.SortBy), b.Lookup(q.SortBy))
			if q.Order == Desc {
				return -c
			}
			return c
		})
	}
	return out, nil
}

func (s *MemoryStore) DeleteDocument(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i, doc := range docs {
		if doc.id == id {
			s.collections[collection] = slices.Delete(docs, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("%s/%s: %w", collection, id, ErrNoDocument)
}

// Len reports how many documents a collection holds.
func (s *MemoryStore) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

var _ Store = (*MemoryStore)(nil)

func rawValueOf(v any) (bson.RawValue, error) {
	t, data, err := bson.MarshalValue(v)
	if err != nil {
		return bson.RawValue{}, fmt.Errorf("marshal filter value: %w", err)
	}
	return bson.RawValue{Type: t, Value: data}, nil
}

// compareValues orders numbers numerically, strings and datetimes naturally;
// a missing value sorts before anything present.
func compareValues(a, b bson.RawValue) int {
	if an, ok := numeric(a); ok {
		if bn, ok := numeric(b); ok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			}
			return 0
		}
	}
	if as, ok := a.StringValueOK(); ok {
		if bs, ok := b.StringValueOK(); ok {
			return strings.Compare(as, bs)
		}
	}
	if at, ok := a.DateTimeOK(); ok {
		if bt, ok := b.DateTimeOK(); ok {
			switch {
			case at < bt:
				return -1
			case at > bt:
				return 1
			}
			return 0
		}
	}
	if a.Type == b.Type && a.Equal(b) {
		return 0
	}
	if a.Type < b.Type {
		return -1
	}
	return 1
}

func numeric(v bson.RawValue) (float64, bool) {
	if i, ok := v.Int32OK(); ok {
		return float64(i), true
	}
	if i, ok := v.Int64OK(); ok {
		return float64(i), true
	}
	if f, ok := v.DoubleOK(); ok {
		return f, true
	}
	return 0, false
}
