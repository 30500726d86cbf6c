package ports

import (
	"context"
	"time"

	"erp-shopify-bridge/internal/domain"
)

// WarehouseMappingRepository holds the pre-established cross-references
// between ERP warehouses and commerce locations. GetByWarehouse returns
// nil (not an error) when no mapping exists.
type WarehouseMappingRepository interface {
	GetByWarehouse(ctx context.Context, warehouseID string) (*domain.WarehouseMapping, error)
	Save(ctx context.Context, mapping *domain.WarehouseMapping) error
}

// LinkRepository persists cross-references from ERP natural keys to the
// commerce records created for them. The commerce platform remains the
// matching authority; these links are a write-through cache consulted by
// the inventory sync, which has no other way to find a variant's
// inventory item from a part, and by the catalog reconciler to recover
// products whose admin title no longer matches the group name.
type LinkRepository interface {
	SaveProductLink(ctx context.Context, link *domain.ProductLink) error
	GetProductLinkByName(ctx context.Context, name string) (*domain.ProductLink, error)
	SaveVariantLink(ctx context.Context, link *domain.VariantLink) error
	GetVariantLinkByPartID(ctx context.Context, partID string) (*domain.VariantLink, error)
}

// RunReportRepository persists completed batch run reports.
type RunReportRepository interface {
	Save(ctx context.Context, report *domain.RunReport) error
}

// QuoteCache is a short-lived cache of resolved price quotes keyed by
// (customer, part). A miss is (nil, nil).
type QuoteCache interface {
	Get(ctx context.Context, customerID, partNumber string) (*domain.PriceQuote, error)
	Put(ctx context.Context, customerID, partNumber string, quote domain.PriceQuote, ttl time.Duration) error
}
