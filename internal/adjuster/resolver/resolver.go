// Package resolver turns parsed bundle components into inventory deltas.
//
// Two identifier strategies exist, selected by configuration:
//
//   - Direct: the component id in the bundle property already is the
//     inventory item's numeric id. No upstream calls.
//   - Variant: the component id is a product variant id that must be
//     resolved to its owning inventory item via the platform, one lookup
//     per distinct component. Results are cached and lookups run with
//     bounded parallelism. A component that cannot be resolved is logged
//     and skipped; it never fails the order.
package resolver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/domain"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/domain/entity"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/ports"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/pkg/cache"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/pkg/metrics"
)

// ItemResolver maps component entries to fully qualified inventory deltas.
type ItemResolver interface {
	Deltas(ctx context.Context, entries []entity.ComponentEntry, locationID, ledgerURI string) ([]entity.InventoryDelta, error)
}

// Direct implements the default strategy: wrap the component id into the
// inventory item namespace and negate the consumed amount.
type Direct struct{}

func (Direct) Deltas(_ context.Context, entries []entity.ComponentEntry, locationID, ledgerURI string) ([]entity.InventoryDelta, error) {
	deltas := make([]entity.InventoryDelta, 0, len(entries))
	for _, e := range entries {
		deltas = append(deltas, entity.InventoryDelta{
			InventoryItemID:   domain.InventoryItemGID(e.ComponentID),
			Delta:             -e.Consumed,
			LocationID:        locationID,
			LedgerDocumentURI: ledgerURI,
		})
	}
	return deltas, nil
}

const (
	cacheTTL           = 12 * time.Hour
	maxParallelLookups = 4
)

// Variant implements the two-step strategy. The cache may be nil, in which
// case every distinct component costs one upstream lookup per request.
type Variant struct {
	Resolver ports.VariantResolver
	Cache    cache.Cache
}

func (v *Variant) Deltas(ctx context.Context, entries []entity.ComponentEntry, locationID, ledgerURI string) ([]entity.InventoryDelta, error) {
	resolved := v.resolveAll(ctx, distinctIDs(entries))

	deltas := make([]entity.InventoryDelta, 0, len(entries))
	for _, e := range entries {
		itemGID := resolved[e.ComponentID]
		if itemGID == "" {
			// Resolution failed or the variant has no inventory item.
			// Skipping one component must not abort the whole order.
			slog.WarnContext(ctx, "skipping unresolvable bundle component", "component_id", e.ComponentID)
			metrics.ComponentsSkipped.Inc()
			continue
		}
		deltas = append(deltas, entity.InventoryDelta{
			InventoryItemID:   itemGID,
			Delta:             -e.Consumed,
			LocationID:        locationID,
			LedgerDocumentURI: ledgerURI,
		})
	}
	return deltas, nil
}

// resolveAll looks up every distinct variant id with bounded parallelism.
// The lookups are read-only and independent, so failures are recorded as
// misses rather than propagated.
func (v *Variant) resolveAll(ctx context.Context, ids []string) map[string]string {
	var mu sync.Mutex
	resolved := make(map[string]string, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLookups)
	for _, id := range ids {
		g.Go(func() error {
			itemGID := v.resolveOne(ctx, id)
			mu.Lock()
			resolved[id] = itemGID
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return resolved
}

func (v *Variant) resolveOne(ctx context.Context, id string) string {
	variantGID := domain.VariantGID(id)

	var cacheKey string
	if v.Cache != nil {
		cacheKey = v.Cache.GenerateKey("variant-item", id)
		if cached, err := v.Cache.Get(ctx, cacheKey); err == nil && cached != "" {
			return cached
		}
	}

	itemGID, err := v.Resolver.ResolveInventoryItem(ctx, variantGID)
	if err != nil {
		slog.WarnContext(ctx, "variant resolution failed", "variant_gid", variantGID, "error", err)
		return ""
	}
	if itemGID != "" && v.Cache != nil {
		if err := v.Cache.Set(ctx, cacheKey, itemGID, cacheTTL); err != nil {
			slog.WarnContext(ctx, "variant cache write failed", "variant_gid", variantGID, "error", err)
		}
	}
	return itemGID
}

func distinctIDs(entries []entity.ComponentEntry) []string {
	seen := make(map[string]struct{}, len(entries))
	var ids []string
	for _, e := range entries {
		if _, ok := seen[e.ComponentID]; ok {
			continue
		}
		seen[e.ComponentID] = struct{}{}
		ids = append(ids, e.ComponentID)
	}
	return ids
}
