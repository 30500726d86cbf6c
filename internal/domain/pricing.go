package domain

import "github.com/shopspring/decimal"

// PriceTier identifies which rule in the fixed-order pricing hierarchy
// produced a quote.
type PriceTier string

const (
	TierOutlet           PriceTier = "outlet"
	TierOutletFallback   PriceTier = "outlet-fallback"
	TierCustomerSpecific PriceTier = "customer-specific"
	TierPriceList        PriceTier = "price-list"
	TierStandard         PriceTier = "standard"
	TierUnavailable      PriceTier = "unavailable"
)

// PriceQuote is the ephemeral result of a price resolution. When Price is
// nil the tier is always TierUnavailable; a non-nil price is always tagged
// with the tier that produced it, never guessed.
type PriceQuote struct {
	Price     *decimal.Decimal `json:"price"`
	Tier      PriceTier        `json:"tier"`
	SourceIDs []string         `json:"sourceIds,omitempty"`
}

// Unavailable is the degenerate quote returned when every pricing tier
// failed or missed. The storefront still receives a well-formed response.
func Unavailable() PriceQuote {
	return PriceQuote{Tier: TierUnavailable}
}

// PriceRow is one row on an ERP price list or a customer-linked price.
type PriceRow struct {
	ID     string
	Amount decimal.Decimal
}

// Usable reports whether the row carries a price worth quoting. Zero and
// negative amounts are treated as "no price", equivalent to a miss.
func (r PriceRow) Usable() bool {
	return r.Amount.IsPositive()
}
