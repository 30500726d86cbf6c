package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockTransaction is one ledger entry from the ERP stock module. The
// synchronizer only ever reads the most recent transaction per part: its
// BalanceOnHand is the authoritative resulting quantity at that warehouse.
type StockTransaction struct {
	ID            string
	PartID        string
	WarehouseID   string
	BalanceOnHand decimal.Decimal
	CreatedAt     time.Time
}

// WarehouseMapping cross-references an ERP warehouse to a commerce
// location. Parts in warehouses without a mapping are skipped, never
// written to a default location.
type WarehouseMapping struct {
	WarehouseID string
	LocationID  uint64
	Name        string
}

// ProductLink cross-references a product-name group to the commerce
// product created for it.
type ProductLink struct {
	Name      string
	ProductID uint64
}

// VariantLink cross-references one ERP part to the commerce variant created
// for it, including the inventory item the stock sync writes against.
type VariantLink struct {
	PartNumber      string
	PartID          string
	SKU             string
	ProductID       uint64
	VariantID       uint64
	InventoryItemID uint64
}
