package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/repository"
)

const eventCollectionName = "app_logs"

// mongoEventRepository implements repository.EventRepository using MongoDB.
type mongoEventRepository struct {
	collection *mongo.Collection
}

// NewMongoEventRepository creates the activity log on db.
func NewMongoEventRepository(db *mongo.Database) repository.EventRepository {
	return &mongoEventRepository{
		collection: db.Collection(eventCollectionName),
	}
}

// Record inserts one event. The document ID is a UUID string, the same
// identifier the warehouse sink uses.
func (r *mongoEventRepository) Record(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if _, err := r.collection.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// EnsureEventIndexes creates the indexes the activity log is read by.
func EnsureEventIndexes(ctx context.Context, log *slog.Logger, db *mongo.Database) {
	collection := db.Collection(eventCollectionName)
	indexes := []mongo.IndexModel{
		{
			// A client's history, newest first
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "eventType", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn("failed to create indexes", "collection", collection.Name(), "error", err)
	}
}
