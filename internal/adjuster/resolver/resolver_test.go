package resolver

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/domain/entity"
)

type fakeVariantResolver struct {
	mu      sync.Mutex
	mapping map[string]string // variant gid -> item gid
	errFor  map[string]error
	calls   []string
}

func (f *fakeVariantResolver) ResolveInventoryItem(_ context.Context, variantGID string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, variantGID)
	f.mu.Unlock()
	if err := f.errFor[variantGID]; err != nil {
		return "", err
	}
	return f.mapping[variantGID], nil
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string]string
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.store == nil {
		f.store = map[string]string{}
	}
	f.store[key] = value.(string)
	return nil
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store[key], nil
}

func (f *fakeCache) GenerateKey(operation, key string) string {
	return "test:" + operation + ":" + key
}

func entries() []entity.ComponentEntry {
	return []entity.ComponentEntry{
		{ComponentID: "1001", Consumed: 6},
		{ComponentID: "1002", Consumed: 3},
	}
}

func TestDirect_WrapsAndNegates(t *testing.T) {
	deltas, err := Direct{}.Deltas(context.Background(), entries(), "gid://shopify/Location/1", "https://example.com/ledger")
	require.NoError(t, err)
	require.Len(t, deltas, 2)
	assert.Equal(t, "gid://shopify/InventoryItem/1001", deltas[0].InventoryItemID)
	assert.Equal(t, -6, deltas[0].Delta)
	assert.Equal(t, "gid://shopify/Location/1", deltas[0].LocationID)
	assert.Equal(t, -3, deltas[1].Delta)
}

func TestVariant_ResolvesAndPreservesOrder(t *testing.T) {
	fake := &fakeVariantResolver{mapping: map[string]string{
		"gid://shopify/ProductVariant/1001": "gid://shopify/InventoryItem/77",
		"gid://shopify/ProductVariant/1002": "gid://shopify/InventoryItem/88",
	}}
	v := &Variant{Resolver: fake}

	deltas, err := v.Deltas(context.Background(), entries(), "gid://shopify/Location/1", "")
	require.NoError(t, err)
	require.Len(t, deltas, 2)
	assert.Equal(t, "gid://shopify/InventoryItem/77", deltas[0].InventoryItemID)
	assert.Equal(t, "gid://shopify/InventoryItem/88", deltas[1].InventoryItemID)
}

func TestVariant_FailedComponentIsSkippedNotFatal(t *testing.T) {
	fake := &fakeVariantResolver{
		mapping: map[string]string{"gid://shopify/ProductVariant/1002": "gid://shopify/InventoryItem/88"},
		errFor:  map[string]error{"gid://shopify/ProductVariant/1001": errors.New("boom")},
	}
	v := &Variant{Resolver: fake}

	deltas, err := v.Deltas(context.Background(), entries(), "gid://shopify/Location/1", "")
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, "gid://shopify/InventoryItem/88", deltas[0].InventoryItemID)
}

func TestVariant_DistinctComponentsLookedUpOnce(t *testing.T) {
	fake := &fakeVariantResolver{mapping: map[string]string{
		"gid://shopify/ProductVariant/1001": "gid://shopify/InventoryItem/77",
	}}
	v := &Variant{Resolver: fake}

	dup := []entity.ComponentEntry{
		{ComponentID: "1001", Consumed: 2},
		{ComponentID: "1001", Consumed: 4},
	}
	deltas, err := v.Deltas(context.Background(), dup, "gid://shopify/Location/1", "")
	require.NoError(t, err)
	require.Len(t, deltas, 2)
	assert.Len(t, fake.calls, 1)
}

func TestVariant_CacheHitSkipsUpstream(t *testing.T) {
	fc := &fakeCache{}
	require.NoError(t, fc.Set(context.Background(), "test:variant-item:1001", "gid://shopify/InventoryItem/77", time.Hour))

	fake := &fakeVariantResolver{}
	v := &Variant{Resolver: fake, Cache: fc}

	deltas, err := v.Deltas(context.Background(), entries()[:1], "gid://shopify/Location/1", "")
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Empty(t, fake.calls)
}

func TestVariant_ResolutionPopulatesCache(t *testing.T) {
	fc := &fakeCache{}
	fake := &fakeVariantResolver{mapping: map[string]string{
		"gid://shopify/ProductVariant/1001": "gid://shopify/InventoryItem/77",
	}}
	v := &Variant{Resolver: fake, Cache: fc}

	_, err := v.Deltas(context.Background(), entries()[:1], "gid://shopify/Location/1", "")
	require.NoError(t, err)

	cached, err := fc.Get(context.Background(), "test:variant-item:1001")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/InventoryItem/77", cached)
}
