package domain

import "strings"

// ReferencePersonCategoryWebshop marks reference persons eligible to become
// commerce customers. Persons without this category are ignored by the sync.
const ReferencePersonCategoryWebshop = "Webshop"

// Address is a postal address attached to an ERP customer or commerce
// customer. Comparison for deduplication is on street, city and postal code.
type Address struct {
	Street     string
	City       string
	PostalCode string
	Country    string
}

// Matches reports whether two addresses refer to the same place for
// deduplication purposes. Case and surrounding whitespace are ignored.
func (a Address) Matches(b Address) bool {
	eq := func(x, y string) bool {
		return strings.EqualFold(strings.TrimSpace(x), strings.TrimSpace(y))
	}
	return eq(a.Street, b.Street) && eq(a.City, b.City) && eq(a.PostalCode, b.PostalCode)
}

// CustomerRecord is an ERP customer (company) entity.
type CustomerRecord struct {
	ID          string
	Name        string
	OrgNumber   string
	Phone       string
	PriceListID string
	Address     Address
}

// ReferencePerson is an individual contact owned by a CustomerRecord. Email
// is the natural key used to match against commerce customers.
type ReferencePerson struct {
	ID         string
	CustomerID string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Categories []string
}

// EligibleForCommerce reports whether this person should exist as a
// commerce customer: it must carry the webshop category and an email
// address to match on.
func (p ReferencePerson) EligibleForCommerce() bool {
	if strings.TrimSpace(p.Email) == "" {
		return false
	}
	for _, c := range p.Categories {
		if strings.EqualFold(c, ReferencePersonCategoryWebshop) {
			return true
		}
	}
	return false
}
