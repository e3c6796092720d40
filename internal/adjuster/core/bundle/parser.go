// Package bundle decodes the reserved line-item property that marks a line
// item as a virtual bundle and carries its component list.
//
// The grammar is two-level: components are comma-separated, each component
// is "<componentID>|<perUnitQty>". Whitespace around either delimiter is
// insignificant, so "1001|2, 1002|1" and "1001 | 2,1002|1" are equivalent.
package bundle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/domain"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/domain/entity"
)

// PropertyKey is the reserved line-item property name that flags a bundle.
// The leading underscore keeps it hidden from the storefront per Shopify
// convention.
const PropertyKey = "_BundleComponents"

// Components extracts every bundle component consumed by the order, in
// encounter order. Line items without the reserved property contribute
// nothing. Each entry's Consumed is the per-unit quantity multiplied by the
// owning line item's ordered quantity.
//
// Tokens with an empty half after trimming ("|2", "1001|", "") are dropped
// silently — a deliberate leniency inherited from the store-side scripts
// that write the property. A quantity that is present but not an integer
// fails the whole order with domain.ErrMalformedBundleSpec.
func Components(items []entity.LineItem) ([]entity.ComponentEntry, error) {
	var entries []entity.ComponentEntry
	for _, item := range items {
		value, ok := item.Property(PropertyKey)
		if !ok {
			continue
		}
		parsed, err := parseSpec(value, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("line item %d: %w", item.ID, err)
		}
		entries = append(entries, parsed...)
	}
	return entries, nil
}

func parseSpec(value string, lineQty int) ([]entity.ComponentEntry, error) {
	var entries []entity.ComponentEntry
	for _, token := range strings.Split(value, ",") {
		fields := strings.Split(strings.TrimSpace(token), "|")
		if len(fields) < 2 {
			continue
		}
		id := strings.TrimSpace(fields[0])
		qtyText := strings.TrimSpace(fields[1])
		if id == "" || qtyText == "" {
			continue
		}
		qty, err := strconv.Atoi(qtyText)
		if err != nil {
			return nil, fmt.Errorf("%w: quantity %q in token %q", domain.ErrMalformedBundleSpec, qtyText, strings.TrimSpace(token))
		}
		if qty < 0 {
			return nil, fmt.Errorf("%w: negative quantity in token %q", domain.ErrMalformedBundleSpec, strings.TrimSpace(token))
		}
		entries = append(entries, entity.ComponentEntry{
			ComponentID: id,
			Consumed:    qty * lineQty,
		})
	}
	return entries, nil
}
