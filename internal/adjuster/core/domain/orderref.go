package domain

import (
	"fmt"
	"strings"
)

// Shopify global-id prefixes. The order fetch goes through the REST API so
// NormalizeOrderID strips the order namespace down to the bare numeric id;
// GraphQL-side identifiers are wrapped with the other prefixes at the point
// of use. The two directions are never mixed on the same call.
const (
	OrderGIDPrefix         = "gid://shopify/Order/"
	InventoryItemGIDPrefix = "gid://shopify/InventoryItem/"
	VariantGIDPrefix       = "gid://shopify/ProductVariant/"
	LocationGIDPrefix      = "gid://shopify/Location/"
)

// NormalizeOrderID canonicalises a caller-supplied order reference into the
// bare numeric id the REST order endpoint expects. Accepts either the bare
// number or the fully qualified gid form.
func NormalizeOrderID(raw string) (string, error) {
	id := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), OrderGIDPrefix))
	if id == "" {
		return "", fmt.Errorf("%w: empty order_id", ErrInvalidInput)
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: order_id %q is not numeric", ErrInvalidInput, raw)
		}
	}
	return id, nil
}

// InventoryItemGID wraps a bare inventory item id in its gid namespace.
// Already-qualified values pass through unchanged.
func InventoryItemGID(id string) string {
	if strings.HasPrefix(id, InventoryItemGIDPrefix) {
		return id
	}
	return InventoryItemGIDPrefix + id
}

// VariantGID wraps a bare product variant id in its gid namespace.
func VariantGID(id string) string {
	if strings.HasPrefix(id, VariantGIDPrefix) {
		return id
	}
	return VariantGIDPrefix + id
}
