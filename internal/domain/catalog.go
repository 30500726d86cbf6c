package domain

import "github.com/shopspring/decimal"

// Well-known extra field identifiers carried by ERP parts.
const (
	AttrProductName    = "WebProductName"
	AttrVariationLabel = "WebVariationLabel"
	AttrWebPublished   = "WebPublished"
)

// AttributeValue is one entry in a part's dynamic extra-field bag. The ERP
// models these as a tagged union: exactly one of the value fields is set,
// depending on the field's declared type.
type AttributeValue struct {
	StringValue    *string
	DecimalValue   *decimal.Decimal
	IntegerValue   *int64
	SelectedOption *string
}

// Text extracts a display value from the union. The first non-nil field
// wins, in declaration order.
func (v AttributeValue) Text() string {
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.DecimalValue != nil:
		return v.DecimalValue.String()
	case v.IntegerValue != nil:
		return decimal.NewFromInt(*v.IntegerValue).String()
	case v.SelectedOption != nil:
		return *v.SelectedOption
	}
	return ""
}

// IsTruthy reports whether the value reads as an affirmative flag.
func (v AttributeValue) IsTruthy() bool {
	switch {
	case v.IntegerValue != nil:
		return *v.IntegerValue != 0
	case v.DecimalValue != nil:
		return !v.DecimalValue.IsZero()
	case v.StringValue != nil:
		s := *v.StringValue
		return s == "1" || s == "true" || s == "yes"
	case v.SelectedOption != nil:
		return *v.SelectedOption != ""
	}
	return false
}

// CatalogItem is one ERP part. PartNumber is the natural key used for
// cross-system matching; ID is the ERP's internal identifier and is never
// persisted on the commerce side.
type CatalogItem struct {
	ID            string
	PartNumber    string
	Description   string
	Status        int
	Blocked       bool
	StandardPrice decimal.Decimal
	Weight        decimal.Decimal
	ProductGroup  string
	PartCode      string
	Attributes    map[string]AttributeValue
}

// ProductName returns the shared grouping name under which this part
// becomes a variant of one commerce product. Empty when the part carries
// no grouping attribute.
func (c CatalogItem) ProductName() string {
	return c.Attributes[AttrProductName].Text()
}

// VariationLabel returns the label distinguishing this part from its
// siblings within a product group. Falls back to the part number so every
// variant stays addressable even on sparsely attributed parts.
func (c CatalogItem) VariationLabel() string {
	if label := c.Attributes[AttrVariationLabel].Text(); label != "" {
		return label
	}
	return c.PartNumber
}

// WebPublished reports whether the part is flagged for storefront use.
func (c CatalogItem) WebPublished() bool {
	return c.Attributes[AttrWebPublished].IsTruthy()
}

// PartGroup is a set of catalog items sharing one product name. Each
// member becomes a variant of the same commerce product.
type PartGroup struct {
	Name    string
	Members []CatalogItem
}

// GroupByProductName buckets parts by their product-name attribute,
// preserving first-seen group order. Parts without a product name are
// grouped under their own part number so they still surface as
// single-variant products.
func GroupByProductName(items []CatalogItem) []PartGroup {
	index := make(map[string]int)
	var groups []PartGroup
	for _, item := range items {
		name := item.ProductName()
		if name == "" {
			name = item.PartNumber
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, PartGroup{Name: name})
		}
		groups[i].Members = append(groups[i].Members, item)
	}
	return groups
}
