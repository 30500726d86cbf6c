package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"erp-shopify-bridge/internal/domain"
	"erp-shopify-bridge/internal/infrastructure/repository/entity"
	"erp-shopify-bridge/internal/ports"
)

// MongoWarehouseMappingRepository implements WarehouseMappingRepository
// using MongoDB.
type MongoWarehouseMappingRepository struct {
	collection *mongo.Collection
}

// NewMongoWarehouseMappingRepository creates a MongoDB warehouse mapping
// repository.
func NewMongoWarehouseMappingRepository(db *mongo.Database) ports.WarehouseMappingRepository {
	return &MongoWarehouseMappingRepository{collection: db.Collection("warehouse_mappings")}
}

// GetByWarehouse retrieves the mapping for an ERP warehouse, or nil when
// the warehouse is unmapped.
func (r *MongoWarehouseMappingRepository) GetByWarehouse(ctx context.Context, warehouseID string) (*domain.WarehouseMapping, error) {
	var doc entity.WarehouseMappingDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": warehouseID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse mapping: %w", err)
	}
	return doc.ToDomain(), nil
}

// Save saves or updates a warehouse mapping.
func (r *MongoWarehouseMappingRepository) Save(ctx context.Context, mapping *domain.WarehouseMapping) error {
	doc := entity.WarehouseMappingDocFromDomain(mapping)
	doc.UpdatedAt = time.Now()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": mapping.WarehouseID}
	update := bson.M{"$set": doc}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save warehouse mapping: %w", err)
	}
	return nil
}
