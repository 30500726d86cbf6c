package application

import (
	"context"
	"strings"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"

	"erp-shopify-bridge/internal/domain"
	"erp-shopify-bridge/internal/ports"
)

// CustomerReconciler maps ERP reference persons onto commerce customers,
// matched by email. An email maps to at most one commerce customer; the
// match is always performed, even for records believed to be new, so a
// partially completed previous run can never cause a duplicate.
type CustomerReconciler struct {
	commerce ports.CommerceClient
	logger   zerolog.Logger
}

// NewCustomerReconciler creates a customer reconciler.
func NewCustomerReconciler(commerce ports.CommerceClient, logger zerolog.Logger) *CustomerReconciler {
	return &CustomerReconciler{commerce: commerce, logger: logger}
}

// ReconcileCustomer reconciles one (company, reference person) pair.
// Persons without the webshop category or an email are skipped. Re-running
// on unchanged input produces zero writes.
func (r *CustomerReconciler) ReconcileCustomer(ctx context.Context, customer domain.CustomerRecord, person domain.ReferencePerson) (domain.SyncOutcome, error) {
	if !person.EligibleForCommerce() {
		r.logger.Debug().
			Str("customer", customer.ID).
			Str("person", person.ID).
			Msg("Reference person not eligible for commerce, skipping")
		return domain.OutcomeSkipped, nil
	}

	existing, err := r.commerce.SearchCustomerByEmail(ctx, person.Email)
	if err != nil {
		return domain.OutcomeError, err
	}
	if existing == nil {
		return r.create(ctx, customer, person)
	}
	return r.update(ctx, existing, customer, person)
}

func trackedMetafields(customer domain.CustomerRecord, person domain.ReferencePerson) []goshopify.Metafield {
	return []goshopify.Metafield{
		crossRefMetafield(domain.MetafieldKeyCustomerID, customer.ID),
		crossRefMetafield(domain.MetafieldKeyReferencePersonID, person.ID),
		crossRefMetafield(domain.MetafieldKeyOrgNumber, customer.OrgNumber),
		crossRefMetafield(domain.MetafieldKeyPriceListID, customer.PriceListID),
	}
}

func (r *CustomerReconciler) create(ctx context.Context, customer domain.CustomerRecord, person domain.ReferencePerson) (domain.SyncOutcome, error) {
	payload := goshopify.Customer{
		Email:      person.Email,
		FirstName:  person.FirstName,
		LastName:   person.LastName,
		Phone:      firstNonEmpty(person.Phone, customer.Phone),
		Metafields: trackedMetafields(customer, person),
	}
	if hasAddress(customer.Address) {
		addr := buildAddress(customer, person)
		payload.Addresses = []*goshopify.CustomerAddress{&addr}
	}

	created, err := r.commerce.CreateCustomer(ctx, payload)
	if err != nil {
		return domain.OutcomeError, err
	}
	r.logger.Info().
		Str("email", person.Email).
		Uint64("commerceId", created.Id).
		Msg("Created commerce customer")
	return domain.OutcomeCreated, nil
}

// update re-submits each tracked metadata key against its
// platform-assigned identifier so repeated runs never accumulate
// duplicate entries under the same key. Addresses are additive: an
// incoming address not already on file is appended, existing ones are
// never overwritten.
func (r *CustomerReconciler) update(ctx context.Context, existing *goshopify.Customer, customer domain.CustomerRecord, person domain.ReferencePerson) (domain.SyncOutcome, error) {
	wrote := false

	phone := firstNonEmpty(person.Phone, customer.Phone)
	if existing.FirstName != person.FirstName || existing.LastName != person.LastName || (phone != "" && existing.Phone != phone) {
		patch := goshopify.Customer{
			Id:        existing.Id,
			FirstName: person.FirstName,
			LastName:  person.LastName,
			Phone:     phone,
		}
		if _, err := r.commerce.UpdateCustomer(ctx, patch); err != nil {
			return domain.OutcomeError, err
		}
		wrote = true
	}

	changed, err := r.syncMetafields(ctx, existing.Id, trackedMetafields(customer, person))
	if err != nil {
		return domain.OutcomeError, err
	}
	wrote = wrote || changed

	if hasAddress(customer.Address) {
		appended, err := r.appendAddressIfNew(ctx, existing.Id, customer, person)
		if err != nil {
			return domain.OutcomeError, err
		}
		wrote = wrote || appended
	}

	if !wrote {
		return domain.OutcomeSkipped, nil
	}
	r.logger.Info().
		Str("email", person.Email).
		Uint64("commerceId", existing.Id).
		Msg("Updated commerce customer")
	return domain.OutcomeUpdated, nil
}

func (r *CustomerReconciler) syncMetafields(ctx context.Context, customerID uint64, wanted []goshopify.Metafield) (bool, error) {
	current, err := r.commerce.ListCustomerMetafields(ctx, customerID)
	if err != nil {
		return false, err
	}
	byKey := make(map[string]goshopify.Metafield, len(current))
	for _, f := range current {
		if f.Namespace == domain.MetafieldNamespace {
			byKey[f.Key] = f
		}
	}

	changed := false
	for _, want := range wanted {
		have, ok := byKey[want.Key]
		if !ok {
			if _, err := r.commerce.CreateCustomerMetafield(ctx, customerID, want); err != nil {
				return changed, err
			}
			changed = true
			continue
		}
		if s, _ := have.Value.(string); s != want.Value {
			want.Id = have.Id
			if _, err := r.commerce.UpdateCustomerMetafield(ctx, customerID, want); err != nil {
				return changed, err
			}
			changed = true
		}
	}
	return changed, nil
}

func (r *CustomerReconciler) appendAddressIfNew(ctx context.Context, customerID uint64, customer domain.CustomerRecord, person domain.ReferencePerson) (bool, error) {
	onFile, err := r.commerce.ListCustomerAddresses(ctx, customerID)
	if err != nil {
		return false, err
	}
	incoming := customer.Address
	for _, a := range onFile {
		if incoming.Matches(domain.Address{Street: a.Address1, City: a.City, PostalCode: a.Zip}) {
			return false, nil
		}
	}
	if _, err := r.commerce.CreateCustomerAddress(ctx, customerID, buildAddress(customer, person)); err != nil {
		return false, err
	}
	return true, nil
}

func buildAddress(customer domain.CustomerRecord, person domain.ReferencePerson) goshopify.CustomerAddress {
	return goshopify.CustomerAddress{
		FirstName: person.FirstName,
		LastName:  person.LastName,
		Company:   customer.Name,
		Address1:  customer.Address.Street,
		City:      customer.Address.City,
		Zip:       customer.Address.PostalCode,
		Country:   customer.Address.Country,
		Phone:     customer.Phone,
	}
}

func hasAddress(a domain.Address) bool {
	return strings.TrimSpace(a.Street) != "" || strings.TrimSpace(a.City) != "" || strings.TrimSpace(a.PostalCode) != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
