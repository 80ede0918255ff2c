package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect dials MongoDB and verifies the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}

// MongoStore keeps each collection ID as a collection of one database.
type MongoStore struct {
	database *mongo.Database
}

func NewMongoStore(client *mongo.Client, databaseID string) *MongoStore {
	return &MongoStore{database: client.Database(databaseID)}
}

func (s *MongoStore) CreateDocument(ctx context.Context, collection, id string, doc any) error {
	d, err := withID(doc, id)
	if err != nil {
		return err
	}
	if _, err := s.database.Collection(collection).InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s/%s: %w", collection, id, ErrDuplicateID)
		}
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) ListDocuments(ctx context.Context, collection string, q Query) ([]bson.Raw, error) {
	opts := options.Find()
	switch q.Order {
	case Asc:
		opts.SetSort(bson.D{{Key: q.SortBy, Value: 1}})
	case Desc:
		opts.SetSort(bson.D{{Key: q.SortBy, Value: -1}})
	}

	cursor, err := s.database.Collection(collection).Find(ctx, bson.D{{Key: q.Field, Value: q.Value}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var out []bson.Raw
	for cursor.Next(ctx) {
		out = append(out, append(bson.Raw(nil), cursor.Current...))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return out, nil
}

func (s *MongoStore) DeleteDocument(ctx context.Context, collection, id string) error {
	res, err := s.database.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", collection, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNoDocument)
	}
	return nil
}

// EnsureIndexes creates the trip_id lookup index on the root and every
// dependent collection, plus the listing index on the root collection.
func EnsureIndexes(ctx context.Context, client *mongo.Client, databaseID, rootCollection string, collections ...string) error {
	database := client.Database(databaseID)
	for _, name := range append([]string{rootCollection}, collections...) {
		if _, err := database.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "trip_id", Value: 1}},
		}); err != nil {
			return fmt.Errorf("index %s.trip_id: %w", name, err)
		}
	}
	_, err := database.Collection(rootCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("index %s.user_id: %w", rootCollection, err)
	}
	return nil
}

var _ Store = (*MongoStore)(nil)

// IsNoDocument reports whether err means nothing matched.
func IsNoDocument(err error) bool {
	return errors.Is(err, ErrNoDocument) || errors.Is(err, mongo.ErrNoDocuments)
}
