package erp

import (
	"time"

	"github.com/shopspring/decimal"

	"erp-shopify-bridge/internal/domain"
)

// Wire shapes of the ERP API. Field names follow the remote schema; these
// types never leave this package.

type loginRequest struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

type loginResponse struct {
	SessionID string `json:"SessionId"`
}

type erpOption struct {
	Description string `json:"Description"`
}

type erpExtraField struct {
	Identifier     string           `json:"Identifier"`
	StringValue    *string          `json:"StringValue"`
	DecimalValue   *decimal.Decimal `json:"DecimalValue"`
	IntegerValue   *int64           `json:"IntegerValue"`
	SelectedOption *erpOption       `json:"SelectedOption"`
}

type erpPart struct {
	ID            string           `json:"Id"`
	PartNumber    string           `json:"PartNumber"`
	Description   string           `json:"Description"`
	Status        int              `json:"Status"`
	Blocked       bool             `json:"Blocked"`
	StandardPrice decimal.Decimal  `json:"StandardPrice"`
	Weight        decimal.Decimal  `json:"Weight"`
	ProductGroup  *erpOption       `json:"ProductGroup"`
	PartCode      *erpOption       `json:"PartCode"`
	ExtraFields   []erpExtraField  `json:"ExtraFields"`
}

func (p erpPart) toDomain() domain.CatalogItem {
	item := domain.CatalogItem{
		ID:            p.ID,
		PartNumber:    p.PartNumber,
		Description:   p.Description,
		Status:        p.Status,
		Blocked:       p.Blocked,
		StandardPrice: p.StandardPrice,
		Weight:        p.Weight,
		Attributes:    make(map[string]domain.AttributeValue, len(p.ExtraFields)),
	}
	if p.ProductGroup != nil {
		item.ProductGroup = p.ProductGroup.Description
	}
	if p.PartCode != nil {
		item.PartCode = p.PartCode.Description
	}
	for _, f := range p.ExtraFields {
		v := domain.AttributeValue{
			StringValue:  f.StringValue,
			DecimalValue: f.DecimalValue,
			IntegerValue: f.IntegerValue,
		}
		if f.SelectedOption != nil {
			v.SelectedOption = &f.SelectedOption.Description
		}
		item.Attributes[f.Identifier] = v
	}
	return item
}

type erpCustomer struct {
	ID                 string `json:"Id"`
	Name               string `json:"Name"`
	OrganizationNumber string `json:"OrganizationNumber"`
	Phone              string `json:"Phone"`
	PriceListID        string `json:"PriceListId"`
	StreetAddress      string `json:"StreetAddress"`
	City               string `json:"City"`
	ZipCode            string `json:"ZipCode"`
	CountryCode        string `json:"CountryCode"`
}

func (c erpCustomer) toDomain() domain.CustomerRecord {
	return domain.CustomerRecord{
		ID:          c.ID,
		Name:        c.Name,
		OrgNumber:   c.OrganizationNumber,
		Phone:       c.Phone,
		PriceListID: c.PriceListID,
		Address: domain.Address{
			Street:     c.StreetAddress,
			City:       c.City,
			PostalCode: c.ZipCode,
			Country:    c.CountryCode,
		},
	}
}

type erpReferencePerson struct {
	ID         string      `json:"Id"`
	CustomerID string      `json:"CustomerId"`
	FirstName  string      `json:"FirstName"`
	LastName   string      `json:"LastName"`
	Email      string      `json:"Email"`
	Phone      string      `json:"Phone"`
	Categories []erpOption `json:"Categories"`
}

func (p erpReferencePerson) toDomain() domain.ReferencePerson {
	person := domain.ReferencePerson{
		ID:         p.ID,
		CustomerID: p.CustomerID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Phone:      p.Phone,
	}
	for _, c := range p.Categories {
		person.Categories = append(person.Categories, c.Description)
	}
	return person
}

type erpStockTransaction struct {
	ID            string          `json:"Id"`
	PartID        string          `json:"PartId"`
	WarehouseID   string          `json:"WarehouseId"`
	BalanceOnHand decimal.Decimal `json:"BalanceOnHand"`
	Created       time.Time       `json:"Created"`
}

func (t erpStockTransaction) toDomain() domain.StockTransaction {
	return domain.StockTransaction{
		ID:            t.ID,
		PartID:        t.PartID,
		WarehouseID:   t.WarehouseID,
		BalanceOnHand: t.BalanceOnHand,
		CreatedAt:     t.Created,
	}
}

type erpChangeLog struct {
	EntityID          string    `json:"EntityId"`
	EntityTypeID      int       `json:"EntityTypeId"`
	ModifiedTimestamp time.Time `json:"ModifiedTimestamp"`
}

func (c erpChangeLog) toDomain() domain.ChangeLogEntry {
	return domain.ChangeLogEntry{
		EntityID:     c.EntityID,
		EntityTypeID: c.EntityTypeID,
		ModifiedAt:   c.ModifiedTimestamp,
	}
}

type erpPriceRow struct {
	ID    string          `json:"Id"`
	Price decimal.Decimal `json:"Price"`
}

func (r erpPriceRow) toDomain() domain.PriceRow {
	return domain.PriceRow{ID: r.ID, Amount: r.Price}
}
