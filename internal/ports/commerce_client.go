package ports

import (
	"context"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

// CommerceClient defines the interface for commerce admin API operations.
// Remote-side validation failures surface as *domain.ValidationError even
// when the transport call itself succeeded.
type CommerceClient interface {
	// Products and variants. Variant metafields travel inside the create
	// payloads; the list operation exists for cross-reference matching.
	FindProductByExternalName(ctx context.Context, name string) (*goshopify.Product, error)
	// GetProduct returns nil (not an error) when the product no longer
	// exists.
	GetProduct(ctx context.Context, productID uint64) (*goshopify.Product, error)
	ListProductMetafields(ctx context.Context, productID uint64) ([]goshopify.Metafield, error)
	CreateProduct(ctx context.Context, product goshopify.Product) (*goshopify.Product, error)
	CreateVariant(ctx context.Context, productID uint64, variant goshopify.Variant) (*goshopify.Variant, error)
	ListVariantMetafields(ctx context.Context, variantID uint64) ([]goshopify.Metafield, error)

	// Customers
	SearchCustomerByEmail(ctx context.Context, email string) (*goshopify.Customer, error)
	CreateCustomer(ctx context.Context, customer goshopify.Customer) (*goshopify.Customer, error)
	UpdateCustomer(ctx context.Context, customer goshopify.Customer) (*goshopify.Customer, error)
	ListCustomerMetafields(ctx context.Context, customerID uint64) ([]goshopify.Metafield, error)
	CreateCustomerMetafield(ctx context.Context, customerID uint64, metafield goshopify.Metafield) (*goshopify.Metafield, error)
	UpdateCustomerMetafield(ctx context.Context, customerID uint64, metafield goshopify.Metafield) (*goshopify.Metafield, error)
	ListCustomerAddresses(ctx context.Context, customerID uint64) ([]goshopify.CustomerAddress, error)
	CreateCustomerAddress(ctx context.Context, customerID uint64, address goshopify.CustomerAddress) (*goshopify.CustomerAddress, error)

	// Inventory
	ListInventoryLevels(ctx context.Context, inventoryItemID, locationID uint64) ([]goshopify.InventoryLevel, error)
	ConnectInventory(ctx context.Context, inventoryItemID, locationID uint64) (*goshopify.InventoryLevel, error)
	SetInventoryLevel(ctx context.Context, inventoryItemID, locationID uint64, available int) (*goshopify.InventoryLevel, error)
}
