package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rbinhq/rbin/models"
)

const mongoTimeout = 10 * time.Second

// MongoStore implements PasteStore using MongoDB. The paste id is the
// document _id, so the collection's unique index doubles as the create-only
// guarantee.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore creates a new MongoDB storage backend.
func NewMongoStore(url, dbName string) (*MongoStore, error) {
	if url == "" {
		return nil, fmt.Errorf("mongodb url must not be empty")
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(dbName).Collection("pastes"),
	}, nil
}

// Put inserts the paste; a duplicate key error means the id is taken.
func (m *MongoStore) Put(ctx context.Context, id string, content []byte) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	if _, err := m.collection.InsertOne(ctx, models.NewPaste(id, content)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrAlreadyExists
		}
		return fmt.Errorf("insert paste %s: %w", id, err)
	}
	return nil
}

// Get retrieves the content of the paste with the given id.
func (m *MongoStore) Get(ctx context.Context, id string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	var paste models.Paste
	if err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&paste); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("find paste %s: %w", id, err)
	}
	return paste.Content, nil
}

// Exists checks for the id without fetching the content.
func (m *MongoStore) Exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	count, err := m.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count paste %s: %w", id, err)
	}
	return count > 0, nil
}

// Delete removes the paste document.
func (m *MongoStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete paste %s: %w", id, err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	return m.client.Disconnect(ctx)
}
