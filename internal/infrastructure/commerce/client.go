package commerce

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"

	"erp-shopify-bridge/internal/domain"
	"erp-shopify-bridge/internal/ports"
)

type client struct {
	api    *goshopify.Client
	logger zerolog.Logger
}

// NewClient creates a commerce admin API adapter for one shop.
func NewClient(apiKey, apiSecret, shopDomain, accessToken string, logger zerolog.Logger) (ports.CommerceClient, error) {
	app := goshopify.App{
		ApiKey:    apiKey,
		ApiSecret: apiSecret,
	}
	api, err := goshopify.NewClient(app, shopDomain, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &client{api: api, logger: logger}, nil
}

// wrapErr classifies admin API failures. Field-level rejections become
// domain.ValidationError so callers can skip the single offending record;
// other non-2xx responses become domain.RemoteError.
func wrapErr(op string, err error) error {
	var respErr goshopify.ResponseError
	if errors.As(err, &respErr) {
		if respErr.Status == http.StatusUnprocessableEntity {
			messages := respErr.GetErrors()
			if len(messages) == 0 && respErr.Message != "" {
				messages = []string{respErr.Message}
			}
			return &domain.ValidationError{Messages: messages}
		}
		return &domain.RemoteError{StatusCode: respErr.Status, Body: respErr.Error()}
	}
	return fmt.Errorf("%s: %w", op, err)
}

type productListOptions struct {
	Title string `url:"title,omitempty"`
	Limit int    `url:"limit,omitempty"`
}

type customerSearchOptions struct {
	Query string `url:"query"`
}

// Products and variants

// FindProductByExternalName searches for the product carrying the given
// cross-reference product name. Candidates are narrowed by title first,
// but only the cross-reference metafield decides a match: titles can be
// edited in the admin, the metafield cannot.
func (c *client) FindProductByExternalName(ctx context.Context, name string) (*goshopify.Product, error) {
	candidates, err := c.api.Product.List(ctx, productListOptions{Title: name, Limit: 50})
	if err != nil {
		return nil, wrapErr("failed to list products", err)
	}
	for i := range candidates {
		fields, err := c.ListProductMetafields(ctx, candidates[i].Id)
		if err != nil {
			return nil, err
		}
		if metafieldValue(fields, domain.MetafieldKeyProductName) == name {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

// GetProduct fetches a product by its platform identifier. A product that
// has since been deleted in the admin returns nil, not an error, so stale
// cross-reference links degrade to a fresh create.
func (c *client) GetProduct(ctx context.Context, productID uint64) (*goshopify.Product, error) {
	product, err := c.api.Product.Get(ctx, productID, nil)
	if err != nil {
		var respErr goshopify.ResponseError
		if errors.As(err, &respErr) && respErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, wrapErr("failed to get product", err)
	}
	return product, nil
}

func (c *client) ListProductMetafields(ctx context.Context, productID uint64) ([]goshopify.Metafield, error) {
	fields, err := c.api.Product.ListMetafields(ctx, productID, nil)
	if err != nil {
		return nil, wrapErr("failed to list product metafields", err)
	}
	return fields, nil
}

func (c *client) CreateProduct(ctx context.Context, product goshopify.Product) (*goshopify.Product, error) {
	created, err := c.api.Product.Create(ctx, product)
	if err != nil {
		return nil, wrapErr("failed to create product", err)
	}
	return created, nil
}

func (c *client) CreateVariant(ctx context.Context, productID uint64, variant goshopify.Variant) (*goshopify.Variant, error) {
	created, err := c.api.Variant.Create(ctx, productID, variant)
	if err != nil {
		return nil, wrapErr("failed to create variant", err)
	}
	return created, nil
}

func (c *client) ListVariantMetafields(ctx context.Context, variantID uint64) ([]goshopify.Metafield, error) {
	fields, err := c.api.Variant.ListMetafields(ctx, variantID, nil)
	if err != nil {
		return nil, wrapErr("failed to list variant metafields", err)
	}
	return fields, nil
}

// Customers

// SearchCustomerByEmail returns the customer with the given email, or nil
// when none exists. Search results are matched on the exact address: the
// admin search treats the query as free text and may return near misses.
func (c *client) SearchCustomerByEmail(ctx context.Context, email string) (*goshopify.Customer, error) {
	customers, err := c.api.Customer.Search(ctx, customerSearchOptions{Query: "email:" + email})
	if err != nil {
		return nil, wrapErr("failed to search customers", err)
	}
	for i := range customers {
		if strings.EqualFold(customers[i].Email, email) {
			return &customers[i], nil
		}
	}
	return nil, nil
}

func (c *client) CreateCustomer(ctx context.Context, customer goshopify.Customer) (*goshopify.Customer, error) {
	created, err := c.api.Customer.Create(ctx, customer)
	if err != nil {
		return nil, wrapErr("failed to create customer", err)
	}
	return created, nil
}

func (c *client) UpdateCustomer(ctx context.Context, customer goshopify.Customer) (*goshopify.Customer, error) {
	updated, err := c.api.Customer.Update(ctx, customer)
	if err != nil {
		return nil, wrapErr("failed to update customer", err)
	}
	return updated, nil
}

func (c *client) ListCustomerMetafields(ctx context.Context, customerID uint64) ([]goshopify.Metafield, error) {
	fields, err := c.api.Customer.ListMetafields(ctx, customerID, nil)
	if err != nil {
		return nil, wrapErr("failed to list customer metafields", err)
	}
	return fields, nil
}

func (c *client) CreateCustomerMetafield(ctx context.Context, customerID uint64, metafield goshopify.Metafield) (*goshopify.Metafield, error) {
	created, err := c.api.Customer.CreateMetafield(ctx, customerID, metafield)
	if err != nil {
		return nil, wrapErr("failed to create customer metafield", err)
	}
	return created, nil
}

func (c *client) UpdateCustomerMetafield(ctx context.Context, customerID uint64, metafield goshopify.Metafield) (*goshopify.Metafield, error) {
	updated, err := c.api.Customer.UpdateMetafield(ctx, customerID, metafield)
	if err != nil {
		return nil, wrapErr("failed to update customer metafield", err)
	}
	return updated, nil
}

func (c *client) ListCustomerAddresses(ctx context.Context, customerID uint64) ([]goshopify.CustomerAddress, error) {
	addresses, err := c.api.CustomerAddress.List(ctx, customerID, nil)
	if err != nil {
		return nil, wrapErr("failed to list customer addresses", err)
	}
	return addresses, nil
}

func (c *client) CreateCustomerAddress(ctx context.Context, customerID uint64, address goshopify.CustomerAddress) (*goshopify.CustomerAddress, error) {
	created, err := c.api.CustomerAddress.Create(ctx, customerID, address)
	if err != nil {
		return nil, wrapErr("failed to create customer address", err)
	}
	return created, nil
}

// Inventory

func (c *client) ListInventoryLevels(ctx context.Context, inventoryItemID, locationID uint64) ([]goshopify.InventoryLevel, error) {
	levels, err := c.api.InventoryLevel.List(ctx, goshopify.InventoryLevelListOptions{
		InventoryItemIds: []uint64{inventoryItemID},
		LocationIds:      []uint64{locationID},
	})
	if err != nil {
		return nil, wrapErr("failed to list inventory levels", err)
	}
	return levels, nil
}

func (c *client) ConnectInventory(ctx context.Context, inventoryItemID, locationID uint64) (*goshopify.InventoryLevel, error) {
	connected, err := c.api.InventoryLevel.Connect(ctx, goshopify.InventoryLevel{
		InventoryItemId: inventoryItemID,
		LocationId:      locationID,
	})
	if err != nil {
		return nil, wrapErr("failed to connect inventory level", err)
	}
	return connected, nil
}

func (c *client) SetInventoryLevel(ctx context.Context, inventoryItemID, locationID uint64, available int) (*goshopify.InventoryLevel, error) {
	set, err := c.api.InventoryLevel.Set(ctx, goshopify.InventoryLevel{
		InventoryItemId: inventoryItemID,
		LocationId:      locationID,
		Available:       available,
	})
	if err != nil {
		return nil, wrapErr("failed to set inventory level", err)
	}
	return set, nil
}

// metafieldValue returns the string value of the cross-reference metafield
// with the given key, or "" when absent.
func metafieldValue(fields []goshopify.Metafield, key string) string {
	for _, f := range fields {
		if f.Namespace == domain.MetafieldNamespace && f.Key == key {
			if s, ok := f.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}
