package application

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"erp-shopify-bridge/internal/domain"
	"erp-shopify-bridge/internal/ports"
)

// PriceResolverConfig identifies the outlet classification and its
// fallback behavior.
type PriceResolverConfig struct {
	// OutletGroupName is the product group marking outlet items.
	OutletGroupName string
	// OutletPriceListID is the price list outlet prices live on.
	OutletPriceListID string
	// OutletFallbackPrice is quoted for an outlet item with no row on the
	// outlet list. An outlet item must never silently receive a
	// non-outlet price, so a missing row is decisive, not a fallthrough.
	OutletFallbackPrice decimal.Decimal
}

// priceStrategy is one tier of the pricing hierarchy. Resolve returns nil
// on a miss; a non-nil quote stops the walk.
type priceStrategy interface {
	Tier() domain.PriceTier
	Resolve(ctx context.Context, item domain.CatalogItem, customerID string) (*domain.PriceQuote, error)
}

// PriceResolver evaluates the pricing hierarchy in a fixed order:
// outlet, customer-specific, price-list, standard. The order is encoded
// once, as a list, so each tier stays independently testable.
type PriceResolver struct {
	erp        ports.ERPClient
	strategies []priceStrategy
	logger     zerolog.Logger
}

// NewPriceResolver creates a price resolver.
func NewPriceResolver(erp ports.ERPClient, cfg PriceResolverConfig, logger zerolog.Logger) *PriceResolver {
	return &PriceResolver{
		erp: erp,
		strategies: []priceStrategy{
			&outletStrategy{erp: erp, cfg: cfg, logger: logger},
			&customerSpecificStrategy{erp: erp},
			&priceListStrategy{erp: erp},
			&standardStrategy{},
		},
		logger: logger,
	}
}

// ResolvePrice resolves the price of one part for one customer. A request
// without a customer identity fails before any tier runs. Transient ERP
// failures inside a tier degrade to the next tier; when every tier misses
// or fails the quote is unavailable, never an error.
func (r *PriceResolver) ResolvePrice(ctx context.Context, partNumber, customerID string) (domain.PriceQuote, error) {
	if customerID == "" {
		return domain.Unavailable(), &domain.MissingCustomerError{}
	}

	items, err := r.erp.FetchPartsByNumbers(ctx, []string{partNumber})
	if err != nil {
		r.logger.Warn().Err(err).Str("part", partNumber).Msg("Part lookup failed, price unavailable")
		return domain.Unavailable(), nil
	}
	if len(items) == 0 {
		r.logger.Warn().Str("part", partNumber).Msg("Unknown part, price unavailable")
		return domain.Unavailable(), nil
	}
	item := items[0]

	for _, s := range r.strategies {
		quote, err := s.Resolve(ctx, item, customerID)
		if err != nil {
			r.logger.Warn().Err(err).
				Str("part", partNumber).
				Str("tier", string(s.Tier())).
				Msg("Pricing tier failed, degrading to next tier")
			continue
		}
		if quote != nil {
			return *quote, nil
		}
	}
	return domain.Unavailable(), nil
}

// outletStrategy quotes items in the outlet classification from the
// outlet price list. The classification match alone is decisive: with no
// outlet row (or an unreachable outlet list) the fixed fallback price is
// quoted instead of falling through to a non-outlet tier.
type outletStrategy struct {
	erp    ports.ERPClient
	cfg    PriceResolverConfig
	logger zerolog.Logger
}

func (s *outletStrategy) Tier() domain.PriceTier { return domain.TierOutlet }

func (s *outletStrategy) Resolve(ctx context.Context, item domain.CatalogItem, _ string) (*domain.PriceQuote, error) {
	if s.cfg.OutletGroupName == "" || item.ProductGroup != s.cfg.OutletGroupName {
		return nil, nil
	}
	row, err := s.erp.FetchPriceListRow(ctx, s.cfg.OutletPriceListID, item.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("part", item.PartNumber).Msg("Outlet price lookup failed, using fallback")
		row = nil
	}
	if row != nil && row.Usable() {
		amount := row.Amount
		return &domain.PriceQuote{Price: &amount, Tier: domain.TierOutlet, SourceIDs: []string{row.ID}}, nil
	}
	fallback := s.cfg.OutletFallbackPrice
	return &domain.PriceQuote{Price: &fallback, Tier: domain.TierOutletFallback}, nil
}

// customerSpecificStrategy quotes a price linked directly to the
// (customer, part) pair. Such a link is definitive when present.
type customerSpecificStrategy struct {
	erp ports.ERPClient
}

func (s *customerSpecificStrategy) Tier() domain.PriceTier { return domain.TierCustomerSpecific }

func (s *customerSpecificStrategy) Resolve(ctx context.Context, item domain.CatalogItem, customerID string) (*domain.PriceQuote, error) {
	row, err := s.erp.FetchCustomerPartPrice(ctx, customerID, item.ID)
	if err != nil {
		return nil, err
	}
	if row == nil || !row.Usable() {
		return nil, nil
	}
	amount := row.Amount
	return &domain.PriceQuote{Price: &amount, Tier: domain.TierCustomerSpecific, SourceIDs: []string{row.ID}}, nil
}

// priceListStrategy quotes the item's row on the customer's assigned
// price list.
type priceListStrategy struct {
	erp ports.ERPClient
}

func (s *priceListStrategy) Tier() domain.PriceTier { return domain.TierPriceList }

func (s *priceListStrategy) Resolve(ctx context.Context, item domain.CatalogItem, customerID string) (*domain.PriceQuote, error) {
	listID, err := s.erp.FetchCustomerPriceListID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if listID == "" {
		return nil, nil
	}
	row, err := s.erp.FetchPriceListRow(ctx, listID, item.ID)
	if err != nil {
		return nil, err
	}
	if row == nil || !row.Usable() {
		return nil, nil
	}
	amount := row.Amount
	return &domain.PriceQuote{Price: &amount, Tier: domain.TierPriceList, SourceIDs: []string{row.ID}}, nil
}

// standardStrategy quotes the item's undiscounted list price. It needs no
// further ERP call and never errors.
type standardStrategy struct{}

func (s *standardStrategy) Tier() domain.PriceTier { return domain.TierStandard }

func (s *standardStrategy) Resolve(_ context.Context, item domain.CatalogItem, _ string) (*domain.PriceQuote, error) {
	if !item.StandardPrice.IsPositive() {
		return nil, nil
	}
	amount := item.StandardPrice
	return &domain.PriceQuote{Price: &amount, Tier: domain.TierStandard, SourceIDs: []string{item.ID}}, nil
}
