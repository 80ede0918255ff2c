package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrNoDocument  = errors.New("document not found")
	ErrDuplicateID = errors.New("document with the requested ID already exists")
)

// Order is the sort direction of a Query.
type Order int

const (
	Unordered Order = iota
	Asc
	Desc
)

// Query selects documents whose Field equals Value, optionally sorted by SortBy.
type Query struct {
	Field  string
	Value  any
	SortBy string
	Order  Order
}

// Equal builds a single-field equality query.
func Equal(field string, value any) Query {
	return Query{Field: field, Value: value}
}

func (q Query) OrderAsc(field string) Query {
	q.SortBy, q.Order = field, Asc
	return q
}

func (q Query) OrderDesc(field string) Query {
	q.SortBy, q.Order = field, Desc
	return q
}

// Store is the document database the itinerary layer persists into.
type Store interface {
	// CreateDocument stores doc under id; doc must marshal to a BSON document.
	CreateDocument(ctx context.Context, collection, id string, doc any) error
	// ListDocuments returns every match in query order (insertion order when unsorted).
	ListDocuments(ctx context.Context, collection string, q Query) ([]bson.Raw, error)
	// DeleteDocument removes one document by id, ErrNoDocument if absent.
	DeleteDocument(ctx context.Context, collection, id string) error
}

// ListAndDecode lists documents and decodes each into T.
func ListAndDecode[T any](ctx context.Context, store Store, collection string, q Query) ([]T, error) {
	raws, err := store.ListDocuments(ctx, collection, q)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var item T
		if err := bson.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", collection, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// withID marshals doc and returns it as a bson.D whose _id is id.
func withID(doc any, id string) (bson.D, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	elems, err := bson.Raw(raw).Elements()
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	out := make(bson.D, 0, len(elems)+1)
	out = append(out, bson.E{Key: "_id", Value: id})
	for _, e := range elems {
		if e.Key() == "_id" {
			continue
		}
		out = append(out, bson.E{Key: e.Key(), Value: e.Value()})
	}
	return out, nil
}
