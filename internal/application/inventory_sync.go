package application

import (
	"context"

	"github.com/rs/zerolog"

	"erp-shopify-bridge/internal/domain"
	"erp-shopify-bridge/internal/ports"
)

// InventorySynchronizer writes ERP stock balances, keyed by warehouse,
// onto commerce inventory levels keyed by location.
type InventorySynchronizer struct {
	erp        ports.ERPClient
	commerce   ports.CommerceClient
	warehouses ports.WarehouseMappingRepository
	links      ports.LinkRepository
	logger     zerolog.Logger
}

// NewInventorySynchronizer creates an inventory synchronizer.
func NewInventorySynchronizer(
	erp ports.ERPClient,
	commerce ports.CommerceClient,
	warehouses ports.WarehouseMappingRepository,
	links ports.LinkRepository,
	logger zerolog.Logger,
) *InventorySynchronizer {
	return &InventorySynchronizer{
		erp:        erp,
		commerce:   commerce,
		warehouses: warehouses,
		links:      links,
		logger:     logger,
	}
}

// SyncStockLevel syncs the on-hand balance of one ERP part to the mapped
// commerce location. Writing to an unconnected location fails at the
// remote, so the level is connected (with a zero starting quantity) before
// the real balance is written; this two-step sequence is mandatory, not an
// optimization. Parts in warehouses with no location mapping are skipped
// with a warning, never written to a default location.
func (s *InventorySynchronizer) SyncStockLevel(ctx context.Context, partID string) (domain.SyncOutcome, error) {
	tx, err := s.erp.FetchLatestStockTransaction(ctx, partID)
	if err != nil {
		return domain.OutcomeError, err
	}
	if tx == nil {
		s.logger.Debug().Str("part", partID).Msg("Part has no stock transactions, skipping")
		return domain.OutcomeSkipped, nil
	}

	link, err := s.links.GetVariantLinkByPartID(ctx, partID)
	if err != nil {
		return domain.OutcomeError, err
	}
	if link == nil {
		s.logger.Warn().Str("part", partID).Msg("Part has no commerce variant cross-reference, skipping")
		return domain.OutcomeSkipped, &domain.MappingError{Kind: "variant", Key: partID}
	}

	mapping, err := s.warehouses.GetByWarehouse(ctx, tx.WarehouseID)
	if err != nil {
		return domain.OutcomeError, err
	}
	if mapping == nil {
		s.logger.Warn().
			Str("part", partID).
			Str("warehouse", tx.WarehouseID).
			Msg("Warehouse has no commerce location mapping, skipping")
		return domain.OutcomeSkipped, &domain.MappingError{Kind: "warehouse", Key: tx.WarehouseID}
	}

	levels, err := s.commerce.ListInventoryLevels(ctx, link.InventoryItemID, mapping.LocationID)
	if err != nil {
		return domain.OutcomeError, err
	}
	if len(levels) == 0 {
		if _, err := s.commerce.ConnectInventory(ctx, link.InventoryItemID, mapping.LocationID); err != nil {
			return domain.OutcomeError, err
		}
		s.logger.Info().
			Str("part", link.PartNumber).
			Uint64("locationId", mapping.LocationID).
			Msg("Connected inventory item at location")
	}

	available := int(tx.BalanceOnHand.IntPart())
	if _, err := s.commerce.SetInventoryLevel(ctx, link.InventoryItemID, mapping.LocationID, available); err != nil {
		return domain.OutcomeError, err
	}

	s.logger.Info().
		Str("part", link.PartNumber).
		Str("warehouse", tx.WarehouseID).
		Uint64("locationId", mapping.LocationID).
		Int("available", available).
		Msg("Stock level written")
	return domain.OutcomeUpdated, nil
}
