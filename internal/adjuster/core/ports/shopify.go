// Package ports declares the interfaces the handler depends on. The Shopify
// adapters implement them; tests substitute fakes.
package ports

import (
	"context"

	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/domain/entity"
)

// OrderFetcher retrieves an order by its bare numeric id.
type OrderFetcher interface {
	FetchOrder(ctx context.Context, id string) (*entity.Order, error)
}

// LocationLister resolves the store's first active location id. Used once at
// startup when no fixed location is configured.
type LocationLister interface {
	FirstLocationID(ctx context.Context) (string, error)
}

// VariantResolver maps a product variant gid to its owning inventory item
// gid. Returns an empty string (and no error) when the variant does not
// resolve to an inventory item.
type VariantResolver interface {
	ResolveInventoryItem(ctx context.Context, variantGID string) (string, error)
}

// InventoryAdjuster submits one batched adjustment mutation. The whole batch
// goes in a single call; implementations never chunk or paginate.
type InventoryAdjuster interface {
	AdjustQuantities(ctx context.Context, name, reason string, deltas []entity.InventoryDelta) error
}
