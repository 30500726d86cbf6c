package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"erp-shopify-bridge/internal/infrastructure/repository/entity"
	"erp-shopify-bridge/internal/ports"
)

// sessionDocID keys the single session document. One token per deployment.
const sessionDocID = "erp-session"

// MongoSessionStore persists the ERP session token in MongoDB so it
// survives process restarts.
type MongoSessionStore struct {
	collection *mongo.Collection
}

// NewMongoSessionStore creates a MongoDB-backed session store.
func NewMongoSessionStore(db *mongo.Database) ports.SessionStore {
	return &MongoSessionStore{collection: db.Collection("erp_sessions")}
}

// Get returns the persisted token, or "" when none has been stored yet.
func (r *MongoSessionStore) Get(ctx context.Context) (string, error) {
	var doc entity.SessionDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": sessionDocID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	return doc.Token, nil
}

// Put overwrites the persisted token.
func (r *MongoSessionStore) Put(ctx context.Context, token string) error {
	doc := entity.SessionDoc{
		ID:        sessionDocID,
		Token:     token,
		UpdatedAt: time.Now(),
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": sessionDocID}
	update := bson.M{"$set": doc}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
