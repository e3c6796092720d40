package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/domain"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/domain/entity"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/ports"
)

var _ ports.OrderFetcher = (*Client)(nil)

// restOrder mirrors the subset of the REST order payload we consume.
type restOrder struct {
	Order *struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		LineItems []struct {
			ID         int64  `json:"id"`
			Title      string `json:"title"`
			Quantity   int    `json:"quantity"`
			Properties []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"properties"`
		} `json:"line_items"`
	} `json:"order"`
}

// FetchOrder retrieves an order by bare numeric id via the REST Admin API.
func (c *Client) FetchOrder(ctx context.Context, id string) (*entity.Order, error) {
	url := fmt.Sprintf("%s/admin/api/%s/orders/%s.json", c.baseURL, apiVersion, id)
	status, payload, err := c.do(ctx, "shopify.order.get", http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%w: order %s", domain.ErrOrderNotFound, id)
	case status < 200 || status > 299:
		return nil, fmt.Errorf("%w: order endpoint returned status %d", domain.ErrUpstreamUnavailable, status)
	}

	var decoded restOrder
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode order response: %v", domain.ErrUpstreamProtocol, err)
	}
	if decoded.Order == nil {
		return nil, fmt.Errorf("%w: order payload missing from response", domain.ErrUpstreamProtocol)
	}

	order := &entity.Order{
		ID:        decoded.Order.ID,
		Name:      decoded.Order.Name,
		LineItems: make([]entity.LineItem, 0, len(decoded.Order.LineItems)),
	}
	for _, li := range decoded.Order.LineItems {
		item := entity.LineItem{
			ID:         li.ID,
			Title:      li.Title,
			Quantity:   li.Quantity,
			Properties: make([]entity.Property, 0, len(li.Properties)),
		}
		for _, p := range li.Properties {
			item.Properties = append(item.Properties, entity.Property{Name: p.Name, Value: p.Value})
		}
		order.LineItems = append(order.LineItems, item)
	}
	return order, nil
}
