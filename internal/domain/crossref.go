package domain

// Cross-reference metadata keys persisted on commerce records. They carry
// the ERP-side identifiers that make re-matching possible on subsequent
// runs; the commerce platform's own primary keys are opaque and never used
// for matching.
const (
	MetafieldNamespace = "erp"

	MetafieldKeyProductName = "product_name"
	MetafieldKeyPartNumber  = "part_number"
	MetafieldKeySKU         = "sku"
	MetafieldKeyWeight      = "weight"

	MetafieldKeyCustomerID        = "customer_id"
	MetafieldKeyReferencePersonID = "reference_person_id"
	MetafieldKeyOrgNumber         = "org_number"
	MetafieldKeyPriceListID       = "price_list_id"
)
