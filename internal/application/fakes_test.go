package application

import (
	"context"
	"time"

	goshopify "github.com/bold-commerce/go-shopify/v4"

	"erp-shopify-bridge/internal/domain"
)

// fakeERP is a function-table ERP client. Unset operations return zero
// values.
type fakeERP struct {
	fetchParts          func(ctx context.Context) ([]domain.CatalogItem, error)
	fetchPartsByNumbers func(ctx context.Context, partNumbers []string) ([]domain.CatalogItem, error)
	fetchPartsByIDs     func(ctx context.Context, ids []string) ([]domain.CatalogItem, error)
	fetchCustomers      func(ctx context.Context) ([]domain.CustomerRecord, error)
	fetchCustomersByIDs func(ctx context.Context, ids []string) ([]domain.CustomerRecord, error)
	fetchRefPersons     func(ctx context.Context, customerID string) ([]domain.ReferencePerson, error)
	fetchLatestStockTx  func(ctx context.Context, partID string) (*domain.StockTransaction, error)
	fetchChangeLogs     func(ctx context.Context, entityTypeID int, since time.Time) ([]domain.ChangeLogEntry, error)
	fetchCustomerPrice  func(ctx context.Context, customerID, partID string) (*domain.PriceRow, error)
	fetchPriceListRow   func(ctx context.Context, priceListID, partID string) (*domain.PriceRow, error)
	fetchPriceListID    func(ctx context.Context, customerID string) (string, error)
}

func (f *fakeERP) FetchParts(ctx context.Context) ([]domain.CatalogItem, error) {
	if f.fetchParts == nil {
		return nil, nil
	}
	return f.fetchParts(ctx)
}

func (f *fakeERP) FetchPartsByNumbers(ctx context.Context, partNumbers []string) ([]domain.CatalogItem, error) {
	if f.fetchPartsByNumbers == nil {
		return nil, nil
	}
	return f.fetchPartsByNumbers(ctx, partNumbers)
}

func (f *fakeERP) FetchPartsByIDs(ctx context.Context, ids []string) ([]domain.CatalogItem, error) {
	if f.fetchPartsByIDs == nil {
		return nil, nil
	}
	return f.fetchPartsByIDs(ctx, ids)
}

func (f *fakeERP) FetchCustomers(ctx context.Context) ([]domain.CustomerRecord, error) {
	if f.fetchCustomers == nil {
		return nil, nil
	}
	return f.fetchCustomers(ctx)
}

func (f *fakeERP) FetchCustomersByIDs(ctx context.Context, ids []string) ([]domain.CustomerRecord, error) {
	if f.fetchCustomersByIDs == nil {
		return nil, nil
	}
	return f.fetchCustomersByIDs(ctx, ids)
}

func (f *fakeERP) FetchReferencePersons(ctx context.Context, customerID string) ([]domain.ReferencePerson, error) {
	if f.fetchRefPersons == nil {
		return nil, nil
	}
	return f.fetchRefPersons(ctx, customerID)
}

func (f *fakeERP) FetchLatestStockTransaction(ctx context.Context, partID string) (*domain.StockTransaction, error) {
	if f.fetchLatestStockTx == nil {
		return nil, nil
	}
	return f.fetchLatestStockTx(ctx, partID)
}

func (f *fakeERP) FetchChangeLogs(ctx context.Context, entityTypeID int, since time.Time) ([]domain.ChangeLogEntry, error) {
	if f.fetchChangeLogs == nil {
		return nil, nil
	}
	return f.fetchChangeLogs(ctx, entityTypeID, since)
}

func (f *fakeERP) FetchCustomerPartPrice(ctx context.Context, customerID, partID string) (*domain.PriceRow, error) {
	if f.fetchCustomerPrice == nil {
		return nil, nil
	}
	return f.fetchCustomerPrice(ctx, customerID, partID)
}

func (f *fakeERP) FetchPriceListRow(ctx context.Context, priceListID, partID string) (*domain.PriceRow, error) {
	if f.fetchPriceListRow == nil {
		return nil, nil
	}
	return f.fetchPriceListRow(ctx, priceListID, partID)
}

func (f *fakeERP) FetchCustomerPriceListID(ctx context.Context, customerID string) (string, error) {
	if f.fetchPriceListID == nil {
		return "", nil
	}
	return f.fetchPriceListID(ctx, customerID)
}

// fakeCommerce is a function-table commerce client that counts writes so
// tests can assert idempotence.
type fakeCommerce struct {
	findProduct          func(ctx context.Context, name string) (*goshopify.Product, error)
	getProduct           func(ctx context.Context, productID uint64) (*goshopify.Product, error)
	listProductFields    func(ctx context.Context, productID uint64) ([]goshopify.Metafield, error)
	createProduct        func(ctx context.Context, product goshopify.Product) (*goshopify.Product, error)
	createVariant        func(ctx context.Context, productID uint64, variant goshopify.Variant) (*goshopify.Variant, error)
	listVariantFields    func(ctx context.Context, variantID uint64) ([]goshopify.Metafield, error)
	searchCustomer       func(ctx context.Context, email string) (*goshopify.Customer, error)
	createCustomer       func(ctx context.Context, customer goshopify.Customer) (*goshopify.Customer, error)
	updateCustomer       func(ctx context.Context, customer goshopify.Customer) (*goshopify.Customer, error)
	listCustomerFields   func(ctx context.Context, customerID uint64) ([]goshopify.Metafield, error)
	createCustomerField  func(ctx context.Context, customerID uint64, metafield goshopify.Metafield) (*goshopify.Metafield, error)
	updateCustomerField  func(ctx context.Context, customerID uint64, metafield goshopify.Metafield) (*goshopify.Metafield, error)
	listAddresses        func(ctx context.Context, customerID uint64) ([]goshopify.CustomerAddress, error)
	createAddress        func(ctx context.Context, customerID uint64, address goshopify.CustomerAddress) (*goshopify.CustomerAddress, error)
	listInventoryLevels  func(ctx context.Context, inventoryItemID, locationID uint64) ([]goshopify.InventoryLevel, error)
	connectInventory     func(ctx context.Context, inventoryItemID, locationID uint64) (*goshopify.InventoryLevel, error)
	setInventoryLevel    func(ctx context.Context, inventoryItemID, locationID uint64, available int) (*goshopify.InventoryLevel, error)
	productsCreated      int
	variantsCreated      int
	customersCreated     int
	customersUpdated     int
	metafieldsCreated    int
	metafieldsUpdated    int
	addressesCreated     int
	inventoryConnected   int
	inventoryLevelWrites int
}

func (f *fakeCommerce) FindProductByExternalName(ctx context.Context, name string) (*goshopify.Product, error) {
	if f.findProduct == nil {
		return nil, nil
	}
	return f.findProduct(ctx, name)
}

func (f *fakeCommerce) GetProduct(ctx context.Context, productID uint64) (*goshopify.Product, error) {
	if f.getProduct == nil {
		return nil, nil
	}
	return f.getProduct(ctx, productID)
}

func (f *fakeCommerce) ListProductMetafields(ctx context.Context, productID uint64) ([]goshopify.Metafield, error) {
	if f.listProductFields == nil {
		return nil, nil
	}
	return f.listProductFields(ctx, productID)
}

func (f *fakeCommerce) CreateProduct(ctx context.Context, product goshopify.Product) (*goshopify.Product, error) {
	f.productsCreated++
	if f.createProduct == nil {
		created := product
		created.Id = 1
		return &created, nil
	}
	return f.createProduct(ctx, product)
}

func (f *fakeCommerce) CreateVariant(ctx context.Context, productID uint64, variant goshopify.Variant) (*goshopify.Variant, error) {
	f.variantsCreated++
	if f.createVariant == nil {
		created := variant
		created.Id = 1
		return &created, nil
	}
	return f.createVariant(ctx, productID, variant)
}

func (f *fakeCommerce) ListVariantMetafields(ctx context.Context, variantID uint64) ([]goshopify.Metafield, error) {
	if f.listVariantFields == nil {
		return nil, nil
	}
	return f.listVariantFields(ctx, variantID)
}

func (f *fakeCommerce) SearchCustomerByEmail(ctx context.Context, email string) (*goshopify.Customer, error) {
	if f.searchCustomer == nil {
		return nil, nil
	}
	return f.searchCustomer(ctx, email)
}

func (f *fakeCommerce) CreateCustomer(ctx context.Context, customer goshopify.Customer) (*goshopify.Customer, error) {
	f.customersCreated++
	if f.createCustomer == nil {
		created := customer
		created.Id = 1
		return &created, nil
	}
	return f.createCustomer(ctx, customer)
}

func (f *fakeCommerce) UpdateCustomer(ctx context.Context, customer goshopify.Customer) (*goshopify.Customer, error) {
	f.customersUpdated++
	if f.updateCustomer == nil {
		return &customer, nil
	}
	return f.updateCustomer(ctx, customer)
}

func (f *fakeCommerce) ListCustomerMetafields(ctx context.Context, customerID uint64) ([]goshopify.Metafield, error) {
	if f.listCustomerFields == nil {
		return nil, nil
	}
	return f.listCustomerFields(ctx, customerID)
}

func (f *fakeCommerce) CreateCustomerMetafield(ctx context.Context, customerID uint64, metafield goshopify.Metafield) (*goshopify.Metafield, error) {
	f.metafieldsCreated++
	if f.createCustomerField == nil {
		return &metafield, nil
	}
	return f.createCustomerField(ctx, customerID, metafield)
}

func (f *fakeCommerce) UpdateCustomerMetafield(ctx context.Context, customerID uint64, metafield goshopify.Metafield) (*goshopify.Metafield, error) {
	f.metafieldsUpdated++
	if f.updateCustomerField == nil {
		return &metafield, nil
	}
	return f.updateCustomerField(ctx, customerID, metafield)
}

func (f *fakeCommerce) ListCustomerAddresses(ctx context.Context, customerID uint64) ([]goshopify.CustomerAddress, error) {
	if f.listAddresses == nil {
		return nil, nil
	}
	return f.listAddresses(ctx, customerID)
}

func (f *fakeCommerce) CreateCustomerAddress(ctx context.Context, customerID uint64, address goshopify.CustomerAddress) (*goshopify.CustomerAddress, error) {
	f.addressesCreated++
	if f.createAddress == nil {
		return &address, nil
	}
	return f.createAddress(ctx, customerID, address)
}

func (f *fakeCommerce) ListInventoryLevels(ctx context.Context, inventoryItemID, locationID uint64) ([]goshopify.InventoryLevel, error) {
	if f.listInventoryLevels == nil {
		return nil, nil
	}
	return f.listInventoryLevels(ctx, inventoryItemID, locationID)
}

func (f *fakeCommerce) ConnectInventory(ctx context.Context, inventoryItemID, locationID uint64) (*goshopify.InventoryLevel, error) {
	f.inventoryConnected++
	if f.connectInventory == nil {
		return &goshopify.InventoryLevel{InventoryItemId: inventoryItemID, LocationId: locationID}, nil
	}
	return f.connectInventory(ctx, inventoryItemID, locationID)
}

func (f *fakeCommerce) SetInventoryLevel(ctx context.Context, inventoryItemID, locationID uint64, available int) (*goshopify.InventoryLevel, error) {
	f.inventoryLevelWrites++
	if f.setInventoryLevel == nil {
		return &goshopify.InventoryLevel{InventoryItemId: inventoryItemID, LocationId: locationID, Available: available}, nil
	}
	return f.setInventoryLevel(ctx, inventoryItemID, locationID, available)
}

// memoryLinks is an in-memory link repository.
type memoryLinks struct {
	products map[string]domain.ProductLink
	variants map[string]domain.VariantLink
}

func newMemoryLinks() *memoryLinks {
	return &memoryLinks{
		products: map[string]domain.ProductLink{},
		variants: map[string]domain.VariantLink{},
	}
}

func (m *memoryLinks) SaveProductLink(_ context.Context, link *domain.ProductLink) error {
	m.products[link.Name] = *link
	return nil
}

func (m *memoryLinks) GetProductLinkByName(_ context.Context, name string) (*domain.ProductLink, error) {
	if link, ok := m.products[name]; ok {
		return &link, nil
	}
	return nil, nil
}

func (m *memoryLinks) SaveVariantLink(_ context.Context, link *domain.VariantLink) error {
	m.variants[link.PartNumber] = *link
	return nil
}

func (m *memoryLinks) GetVariantLinkByPartNumber(_ context.Context, partNumber string) (*domain.VariantLink, error) {
	if link, ok := m.variants[partNumber]; ok {
		return &link, nil
	}
	return nil, nil
}

func (m *memoryLinks) GetVariantLinkByPartID(_ context.Context, partID string) (*domain.VariantLink, error) {
	for _, link := range m.variants {
		if link.PartID == partID {
			l := link
			return &l, nil
		}
	}
	return nil, nil
}

// memoryWarehouses is an in-memory warehouse mapping repository.
type memoryWarehouses struct {
	mappings map[string]domain.WarehouseMapping
}

func newMemoryWarehouses(mappings ...domain.WarehouseMapping) *memoryWarehouses {
	m := &memoryWarehouses{mappings: map[string]domain.WarehouseMapping{}}
	for _, w := range mappings {
		m.mappings[w.WarehouseID] = w
	}
	return m
}

func (m *memoryWarehouses) GetByWarehouse(_ context.Context, warehouseID string) (*domain.WarehouseMapping, error) {
	if w, ok := m.mappings[warehouseID]; ok {
		return &w, nil
	}
	return nil, nil
}

func (m *memoryWarehouses) Save(_ context.Context, mapping *domain.WarehouseMapping) error {
	m.mappings[mapping.WarehouseID] = *mapping
	return nil
}
