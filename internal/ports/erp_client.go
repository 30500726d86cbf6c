package ports

import (
	"context"
	"time"

	"erp-shopify-bridge/internal/domain"
)

// ERPClient defines the interface for ERP API operations. All list
// operations page through the remote collection until exhaustion; catalog
// fetches only ever return parts inside the active status band and not
// blocked.
type ERPClient interface {
	// Catalog
	FetchParts(ctx context.Context) ([]domain.CatalogItem, error)
	// FetchPartsByNumbers translates the given natural keys into a
	// disjunction of equality predicates. Callers are responsible for
	// keeping the batch within the remote's query-length limits.
	FetchPartsByNumbers(ctx context.Context, partNumbers []string) ([]domain.CatalogItem, error)
	// FetchPartsByIDs is the same fetch keyed by the ERP's internal part
	// IDs, which is what the change log reports.
	FetchPartsByIDs(ctx context.Context, ids []string) ([]domain.CatalogItem, error)

	// Customers
	FetchCustomers(ctx context.Context) ([]domain.CustomerRecord, error)
	FetchCustomersByIDs(ctx context.Context, ids []string) ([]domain.CustomerRecord, error)
	FetchReferencePersons(ctx context.Context, customerID string) ([]domain.ReferencePerson, error)

	// Stock
	FetchLatestStockTransaction(ctx context.Context, partID string) (*domain.StockTransaction, error)

	// Change log
	FetchChangeLogs(ctx context.Context, entityTypeID int, since time.Time) ([]domain.ChangeLogEntry, error)

	// Pricing. Each lookup returns nil when no row exists; a nil row is
	// never an error.
	FetchCustomerPartPrice(ctx context.Context, customerID, partID string) (*domain.PriceRow, error)
	FetchPriceListRow(ctx context.Context, priceListID, partID string) (*domain.PriceRow, error)
	FetchCustomerPriceListID(ctx context.Context, customerID string) (string, error)
}

// ChangeDetector produces the set of entity IDs that changed inside a
// lookback window, to drive incremental sync runs.
type ChangeDetector interface {
	ChangedEntityIDs(ctx context.Context, entityTypeID int, lookback time.Duration) (map[string]struct{}, error)
}
