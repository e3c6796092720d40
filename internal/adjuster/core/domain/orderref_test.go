package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOrderID(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"bare numeric", "450789469", "450789469"},
		{"qualified gid", "gid://shopify/Order/450789469", "450789469"},
		{"padded", "  450789469 ", "450789469"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeOrderID(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeOrderID_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "gid://shopify/Order/", "abc", "123abc", "gid://shopify/Product/1"} {
		_, err := NormalizeOrderID(raw)
		assert.ErrorIs(t, err, ErrInvalidInput, "raw %q", raw)
	}
}

func TestInventoryItemGID(t *testing.T) {
	assert.Equal(t, "gid://shopify/InventoryItem/1001", InventoryItemGID("1001"))
	assert.Equal(t, "gid://shopify/InventoryItem/1001", InventoryItemGID("gid://shopify/InventoryItem/1001"))
}

func TestVariantGID(t *testing.T) {
	assert.Equal(t, "gid://shopify/ProductVariant/5", VariantGID("5"))
	assert.Equal(t, "gid://shopify/ProductVariant/5", VariantGID("gid://shopify/ProductVariant/5"))
}
