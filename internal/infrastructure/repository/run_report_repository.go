package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"erp-shopify-bridge/internal/domain"
	"erp-shopify-bridge/internal/ports"
)

// MongoRunReportRepository implements RunReportRepository using MongoDB.
// Reports are append-only; each batch run inserts one document.
type MongoRunReportRepository struct {
	collection *mongo.Collection
}

// NewMongoRunReportRepository creates a MongoDB run report repository.
func NewMongoRunReportRepository(db *mongo.Database) ports.RunReportRepository {
	return &MongoRunReportRepository{collection: db.Collection("run_reports")}
}

// Save inserts a completed run report.
func (r *MongoRunReportRepository) Save(ctx context.Context, report *domain.RunReport) error {
	_, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}
	return nil
}
