package application

import (
	"context"
	"fmt"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"

	"erp-shopify-bridge/internal/domain"
	"erp-shopify-bridge/internal/ports"
)

// variationOptionName is the single option dimension created on every
// bridged product.
const variationOptionName = "Variation"

// CatalogReconciler maps ERP part groups onto commerce products and
// variants. Matching is by cross-reference metadata, never by the
// platform's own primary keys, and is always performed even for groups
// believed to be new: a previous partial run may already have created the
// product.
type CatalogReconciler struct {
	commerce ports.CommerceClient
	links    ports.LinkRepository
	logger   zerolog.Logger
}

// NewCatalogReconciler creates a catalog reconciler.
func NewCatalogReconciler(commerce ports.CommerceClient, links ports.LinkRepository, logger zerolog.Logger) *CatalogReconciler {
	return &CatalogReconciler{commerce: commerce, links: links, logger: logger}
}

// ReconcileGroup reconciles one product-name group. A group matching an
// existing product only ever gains missing variants; existing variants are
// left untouched. Re-running on unchanged input produces zero writes.
func (r *CatalogReconciler) ReconcileGroup(ctx context.Context, group domain.PartGroup) (domain.SyncOutcome, error) {
	members := publishedMembers(group)
	if len(members) == 0 {
		r.logger.Debug().Str("group", group.Name).Msg("No web-published parts in group, skipping")
		return domain.OutcomeSkipped, nil
	}

	product, err := r.commerce.FindProductByExternalName(ctx, group.Name)
	if err != nil {
		return domain.OutcomeError, err
	}
	if product == nil {
		if product, err = r.recoverFromLink(ctx, group.Name); err != nil {
			return domain.OutcomeError, err
		}
	}
	if product == nil {
		return r.createProduct(ctx, group.Name, members)
	}
	return r.addMissingVariants(ctx, product, group.Name, members)
}

// recoverFromLink retries a missed title search against the link cache.
// Titles can be edited in the admin, so a product created by an earlier
// run may no longer surface under the group name, but the stored link
// still points at it. The cross-reference metafield stays the final
// authority: a linked product that was deleted, or that no longer carries
// the group name in its metafield, is not a match.
func (r *CatalogReconciler) recoverFromLink(ctx context.Context, name string) (*goshopify.Product, error) {
	link, err := r.links.GetProductLinkByName(ctx, name)
	if err != nil {
		r.logger.Warn().Err(err).Str("group", name).Msg("Product link lookup failed")
		return nil, nil
	}
	if link == nil {
		return nil, nil
	}
	product, err := r.commerce.GetProduct(ctx, link.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		r.logger.Warn().
			Str("group", name).
			Uint64("productId", link.ProductID).
			Msg("Linked product no longer exists")
		return nil, nil
	}
	fields, err := r.commerce.ListProductMetafields(ctx, product.Id)
	if err != nil {
		return nil, err
	}
	if crossRefValue(fields, domain.MetafieldKeyProductName) != name {
		r.logger.Warn().
			Str("group", name).
			Uint64("productId", product.Id).
			Msg("Linked product lost its cross-reference, ignoring link")
		return nil, nil
	}
	r.logger.Info().
		Str("group", name).
		Uint64("productId", product.Id).
		Msg("Matched retitled product through link cache")
	return product, nil
}

func (r *CatalogReconciler) createProduct(ctx context.Context, name string, members []domain.CatalogItem) (domain.SyncOutcome, error) {
	product := goshopify.Product{
		Title:   name,
		Options: []goshopify.ProductOption{{Name: variationOptionName}},
		Metafields: []goshopify.Metafield{
			crossRefMetafield(domain.MetafieldKeyProductName, name),
		},
	}
	for _, m := range members {
		product.Variants = append(product.Variants, buildVariant(m))
	}

	created, err := r.commerce.CreateProduct(ctx, product)
	if err != nil {
		return domain.OutcomeError, err
	}
	r.logger.Info().
		Str("group", name).
		Uint64("productId", created.Id).
		Int("variants", len(created.Variants)).
		Msg("Created commerce product")

	r.saveLinks(ctx, created, name, members)
	return domain.OutcomeCreated, nil
}

func (r *CatalogReconciler) addMissingVariants(ctx context.Context, product *goshopify.Product, name string, members []domain.CatalogItem) (domain.SyncOutcome, error) {
	existing := make(map[string]goshopify.Variant, len(product.Variants))
	for _, v := range product.Variants {
		fields, err := r.commerce.ListVariantMetafields(ctx, v.Id)
		if err != nil {
			return domain.OutcomeError, err
		}
		if pn := crossRefValue(fields, domain.MetafieldKeyPartNumber); pn != "" {
			existing[pn] = v
		}
	}

	r.saveLinks(ctx, product, name, membersMatching(members, existing))

	createdAny := false
	for _, m := range members {
		if _, ok := existing[m.PartNumber]; ok {
			continue
		}
		variant, err := r.commerce.CreateVariant(ctx, product.Id, buildVariant(m))
		if err != nil {
			return domain.OutcomeError, fmt.Errorf("variant %s: %w", m.PartNumber, err)
		}
		r.logger.Info().
			Str("group", name).
			Str("part", m.PartNumber).
			Uint64("variantId", variant.Id).
			Msg("Created commerce variant")
		r.saveVariantLink(ctx, product.Id, *variant, m)
		createdAny = true
	}

	if !createdAny {
		return domain.OutcomeSkipped, nil
	}
	return domain.OutcomeUpdated, nil
}

// saveLinks refreshes the cross-reference cache for a product and the
// members matched to its variants. Link persistence failures are logged
// but never fail the record: the commerce platform stays the matching
// authority.
func (r *CatalogReconciler) saveLinks(ctx context.Context, product *goshopify.Product, name string, members []domain.CatalogItem) {
	if err := r.links.SaveProductLink(ctx, &domain.ProductLink{Name: name, ProductID: product.Id}); err != nil {
		r.logger.Warn().Err(err).Str("group", name).Msg("Failed to save product link")
	}
	bySKU := make(map[string]domain.CatalogItem, len(members))
	for _, m := range members {
		bySKU[m.PartNumber] = m
	}
	for _, v := range product.Variants {
		if m, ok := bySKU[v.Sku]; ok {
			r.saveVariantLink(ctx, product.Id, v, m)
		}
	}
}

func (r *CatalogReconciler) saveVariantLink(ctx context.Context, productID uint64, v goshopify.Variant, m domain.CatalogItem) {
	link := &domain.VariantLink{
		PartNumber:      m.PartNumber,
		PartID:          m.ID,
		SKU:             v.Sku,
		ProductID:       productID,
		VariantID:       v.Id,
		InventoryItemID: v.InventoryItemId,
	}
	if err := r.links.SaveVariantLink(ctx, link); err != nil {
		r.logger.Warn().Err(err).Str("part", m.PartNumber).Msg("Failed to save variant link")
	}
}

// buildVariant maps one ERP part to a commerce variant, carrying its
// cross-reference metadata in the create payload itself: natural key,
// denormalized SKU and normalized weight.
func buildVariant(m domain.CatalogItem) goshopify.Variant {
	price := m.StandardPrice
	weight := m.Weight
	return goshopify.Variant{
		Option1:    m.VariationLabel(),
		Sku:        m.PartNumber,
		Price:      &price,
		Weight:     &weight,
		WeightUnit: "kg",
		Metafields: []goshopify.Metafield{
			crossRefMetafield(domain.MetafieldKeyPartNumber, m.PartNumber),
			crossRefMetafield(domain.MetafieldKeySKU, m.PartNumber),
			crossRefMetafield(domain.MetafieldKeyWeight, m.Weight.String()),
		},
	}
}

func publishedMembers(group domain.PartGroup) []domain.CatalogItem {
	var out []domain.CatalogItem
	for _, m := range group.Members {
		if m.WebPublished() {
			out = append(out, m)
		}
	}
	return out
}

func membersMatching(members []domain.CatalogItem, existing map[string]goshopify.Variant) []domain.CatalogItem {
	var out []domain.CatalogItem
	for _, m := range members {
		if _, ok := existing[m.PartNumber]; ok {
			out = append(out, m)
		}
	}
	return out
}

// crossRefMetafield builds a cross-reference metadata entry.
func crossRefMetafield(key, value string) goshopify.Metafield {
	return goshopify.Metafield{
		Namespace: domain.MetafieldNamespace,
		Key:       key,
		Value:     value,
		Type:      goshopify.MetafieldTypeSingleLineTextField,
	}
}

// crossRefValue extracts the string value of a cross-reference metadata
// entry, or "" when absent.
func crossRefValue(fields []goshopify.Metafield, key string) string {
	for _, f := range fields {
		if f.Namespace == domain.MetafieldNamespace && f.Key == key {
			if s, ok := f.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}
