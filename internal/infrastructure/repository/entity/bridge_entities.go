package entity

import (
	"time"

	"erp-shopify-bridge/internal/domain"
)

// SessionDoc is the single persisted ERP session token. There is exactly
// one document, keyed by a fixed identifier, overwritten on every login.
type SessionDoc struct {
	ID        string    `bson:"_id"`
	Token     string    `bson:"token"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// WarehouseMappingDoc cross-references an ERP warehouse to a commerce
// location.
type WarehouseMappingDoc struct {
	WarehouseID string    `bson:"_id"`
	LocationID  uint64    `bson:"location_id"`
	Name        string    `bson:"name"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func WarehouseMappingDocFromDomain(m *domain.WarehouseMapping) *WarehouseMappingDoc {
	return &WarehouseMappingDoc{
		WarehouseID: m.WarehouseID,
		LocationID:  m.LocationID,
		Name:        m.Name,
	}
}

func (d *WarehouseMappingDoc) ToDomain() *domain.WarehouseMapping {
	return &domain.WarehouseMapping{
		WarehouseID: d.WarehouseID,
		LocationID:  d.LocationID,
		Name:        d.Name,
	}
}

// ProductLinkDoc cross-references a product-name group to its commerce
// product.
type ProductLinkDoc struct {
	Name      string    `bson:"_id"`
	ProductID uint64    `bson:"product_id"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func ProductLinkDocFromDomain(l *domain.ProductLink) *ProductLinkDoc {
	return &ProductLinkDoc{Name: l.Name, ProductID: l.ProductID}
}

func (d *ProductLinkDoc) ToDomain() *domain.ProductLink {
	return &domain.ProductLink{Name: d.Name, ProductID: d.ProductID}
}

// VariantLinkDoc cross-references one ERP part number to its commerce
// variant and inventory item.
type VariantLinkDoc struct {
	PartNumber      string    `bson:"_id"`
	PartID          string    `bson:"part_id"`
	SKU             string    `bson:"sku"`
	ProductID       uint64    `bson:"product_id"`
	VariantID       uint64    `bson:"variant_id"`
	InventoryItemID uint64    `bson:"inventory_item_id"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

func VariantLinkDocFromDomain(l *domain.VariantLink) *VariantLinkDoc {
	return &VariantLinkDoc{
		PartNumber:      l.PartNumber,
		PartID:          l.PartID,
		SKU:             l.SKU,
		ProductID:       l.ProductID,
		VariantID:       l.VariantID,
		InventoryItemID: l.InventoryItemID,
	}
}

func (d *VariantLinkDoc) ToDomain() *domain.VariantLink {
	return &domain.VariantLink{
		PartNumber:      d.PartNumber,
		PartID:          d.PartID,
		SKU:             d.SKU,
		ProductID:       d.ProductID,
		VariantID:       d.VariantID,
		InventoryItemID: d.InventoryItemID,
	}
}
