package shopify

import (
	"context"
	"fmt"

	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/domain"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/domain/entity"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/ports"
)

var (
	_ ports.InventoryAdjuster = (*Client)(nil)
	_ ports.LocationLister    = (*Client)(nil)
	_ ports.VariantResolver   = (*Client)(nil)
)

const adjustMutation = `
mutation inventoryAdjustQuantities($input: InventoryAdjustQuantitiesInput!) {
  inventoryAdjustQuantities(input: $input) {
    inventoryAdjustmentGroup {
      createdAt
      reason
    }
    userErrors {
      field
      message
    }
  }
}`

type adjustData struct {
	InventoryAdjustQuantities *struct {
		InventoryAdjustmentGroup *struct {
			CreatedAt string `json:"createdAt"`
			Reason    string `json:"reason"`
		} `json:"inventoryAdjustmentGroup"`
		UserErrors []entity.UserError `json:"userErrors"`
	} `json:"inventoryAdjustQuantities"`
}

// AdjustQuantities submits the whole delta batch in a single mutation call.
// Callers must not pass an empty batch; the no-op short-circuit belongs to
// the handler, before any network work.
func (c *Client) AdjustQuantities(ctx context.Context, name, reason string, deltas []entity.InventoryDelta) error {
	changes := make([]map[string]any, 0, len(deltas))
	for _, d := range deltas {
		change := map[string]any{
			"inventoryItemId": d.InventoryItemID,
			"delta":           d.Delta,
			"locationId":      d.LocationID,
		}
		if d.LedgerDocumentURI != "" {
			change["ledgerDocumentUri"] = d.LedgerDocumentURI
		}
		changes = append(changes, change)
	}
	variables := map[string]any{
		"input": map[string]any{
			"name":    name,
			"reason":  reason,
			"changes": changes,
		},
	}

	var data adjustData
	if err := c.graphql(ctx, "shopify.inventory.adjust", adjustMutation, variables, &data); err != nil {
		return err
	}
	payload := data.InventoryAdjustQuantities
	if payload == nil {
		return fmt.Errorf("%w: inventoryAdjustQuantities payload missing", domain.ErrUpstreamProtocol)
	}
	if len(payload.UserErrors) > 0 {
		return &domain.ValidationError{UserErrors: payload.UserErrors}
	}
	if payload.InventoryAdjustmentGroup == nil {
		return fmt.Errorf("%w: adjustment group missing from response", domain.ErrUpstreamProtocol)
	}
	return nil
}

const firstLocationQuery = `
{
  locations(first: 1) {
    edges {
      node {
        id
      }
    }
  }
}`

type locationsData struct {
	Locations *struct {
		Edges []struct {
			Node struct {
				ID string `json:"id"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"locations"`
}

// FirstLocationID returns the store's first location gid.
func (c *Client) FirstLocationID(ctx context.Context) (string, error) {
	var data locationsData
	if err := c.graphql(ctx, "shopify.locations.first", firstLocationQuery, nil, &data); err != nil {
		return "", err
	}
	if data.Locations == nil {
		return "", fmt.Errorf("%w: locations payload missing", domain.ErrUpstreamProtocol)
	}
	if len(data.Locations.Edges) == 0 || data.Locations.Edges[0].Node.ID == "" {
		return "", fmt.Errorf("%w: store has no locations", domain.ErrLocationUnresolved)
	}
	return data.Locations.Edges[0].Node.ID, nil
}

const variantQuery = `
query variantInventoryItem($id: ID!) {
  productVariant(id: $id) {
    inventoryItem {
      id
    }
  }
}`

type variantData struct {
	ProductVariant *struct {
		InventoryItem *struct {
			ID string `json:"id"`
		} `json:"inventoryItem"`
	} `json:"productVariant"`
}

// ResolveInventoryItem maps a variant gid to its inventory item gid. An
// unknown variant (or one without an inventory item) yields "", nil so the
// caller can skip it without treating the miss as an upstream fault.
func (c *Client) ResolveInventoryItem(ctx context.Context, variantGID string) (string, error) {
	var data variantData
	err := c.graphql(ctx, "shopify.variant.resolve", variantQuery, map[string]any{"id": variantGID}, &data)
	if err != nil {
		return "", err
	}
	if data.ProductVariant == nil || data.ProductVariant.InventoryItem == nil {
		return "", nil
	}
	return data.ProductVariant.InventoryItem.ID, nil
}
