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

// MongoLinkRepository implements LinkRepository using MongoDB.
type MongoLinkRepository struct {
	productLinks *mongo.Collection
	variantLinks *mongo.Collection
}

// NewMongoLinkRepository creates a MongoDB link repository.
func NewMongoLinkRepository(db *mongo.Database) ports.LinkRepository {
	return &MongoLinkRepository{
		productLinks: db.Collection("product_links"),
		variantLinks: db.Collection("variant_links"),
	}
}

// SaveProductLink saves or updates a product cross-reference.
func (r *MongoLinkRepository) SaveProductLink(ctx context.Context, link *domain.ProductLink) error {
	doc := entity.ProductLinkDocFromDomain(link)
	doc.UpdatedAt = time.Now()

	opts := options.Update().SetUpsert(true)
	_, err := r.productLinks.UpdateOne(ctx, bson.M{"_id": link.Name}, bson.M{"$set": doc}, opts)
	if err != nil {
		return fmt.Errorf("failed to save product link: %w", err)
	}
	return nil
}

// GetProductLinkByName retrieves a product cross-reference, or nil when
// none exists.
func (r *MongoLinkRepository) GetProductLinkByName(ctx context.Context, name string) (*domain.ProductLink, error) {
	var doc entity.ProductLinkDoc
	err := r.productLinks.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product link: %w", err)
	}
	return doc.ToDomain(), nil
}

// SaveVariantLink saves or updates a variant cross-reference.
func (r *MongoLinkRepository) SaveVariantLink(ctx context.Context, link *domain.VariantLink) error {
	doc := entity.VariantLinkDocFromDomain(link)
	doc.UpdatedAt = time.Now()

	opts := options.Update().SetUpsert(true)
	_, err := r.variantLinks.UpdateOne(ctx, bson.M{"_id": link.PartNumber}, bson.M{"$set": doc}, opts)
	if err != nil {
		return fmt.Errorf("failed to save variant link: %w", err)
	}
	return nil
}

// GetVariantLinkByPartID retrieves a variant cross-reference by the ERP's
// internal part ID, which is what the change log reports.
func (r *MongoLinkRepository) GetVariantLinkByPartID(ctx context.Context, partID string) (*domain.VariantLink, error) {
	return r.findVariantLink(ctx, bson.M{"part_id": partID})
}

func (r *MongoLinkRepository) findVariantLink(ctx context.Context, filter bson.M) (*domain.VariantLink, error) {
	var doc entity.VariantLinkDoc
	err := r.variantLinks.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get variant link: %w", err)
	}
	return doc.ToDomain(), nil
}
