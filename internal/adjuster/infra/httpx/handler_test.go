package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/bundle"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/domain"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/domain/entity"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/resolver"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjustlog"
)

const testLocation = "gid://shopify/Location/108654461258"

type fakeOrders struct {
	orders map[string]*entity.Order
	err    error
	gotIDs []string
}

func (f *fakeOrders) FetchOrder(_ context.Context, id string) (*entity.Order, error) {
	f.gotIDs = append(f.gotIDs, id)
	if f.err != nil {
		return nil, f.err
	}
	order, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", domain.ErrOrderNotFound, id)
	}
	return order, nil
}

type adjustCall struct {
	name   string
	reason string
	deltas []entity.InventoryDelta
}

type fakeInventory struct {
	calls []adjustCall
	err   error
}

func (f *fakeInventory) AdjustQuantities(_ context.Context, name, reason string, deltas []entity.InventoryDelta) error {
	f.calls = append(f.calls, adjustCall{name: name, reason: reason, deltas: deltas})
	return f.err
}

type fakeAudit struct {
	entries []*adjustlog.Entry
}

func (f *fakeAudit) Save(_ context.Context, entry *adjustlog.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func bundleOrder(qty int, spec string) *entity.Order {
	return &entity.Order{
		ID: 450789469,
		LineItems: []entity.LineItem{{
			ID:       1,
			Quantity: qty,
			Properties: []entity.Property{
				{Name: bundle.PropertyKey, Value: spec},
			},
		}},
	}
}

func newTestHandler(orders *fakeOrders, inv *fakeInventory, audit adjustlog.Repository) http.Handler {
	h := NewHandler(orders, resolver.Direct{}, inv, testLocation, "https://example.com/ledger", audit)
	return NewRouter(h)
}

func postAdjust(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/bundle-adjust", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router := newTestHandler(&fakeOrders{}, &fakeInventory{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestBundleAdjust_InvalidJSON(t *testing.T) {
	inv := &fakeInventory{}
	rec := postAdjust(t, newTestHandler(&fakeOrders{}, inv, nil), `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, inv.calls)
}

func TestBundleAdjust_MissingOrderID(t *testing.T) {
	rec := postAdjust(t, newTestHandler(&fakeOrders{}, &fakeInventory{}, nil), `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid_input", body.Error)
}

func TestBundleAdjust_NonNumericOrderID(t *testing.T) {
	rec := postAdjust(t, newTestHandler(&fakeOrders{}, &fakeInventory{}, nil), `{"order_id": "not-a-number"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBundleAdjust_QualifiedGIDIsStripped(t *testing.T) {
	orders := &fakeOrders{orders: map[string]*entity.Order{
		"450789469": bundleOrder(1, "1001|1"),
	}}
	inv := &fakeInventory{}
	rec := postAdjust(t, newTestHandler(orders, inv, nil),
		`{"order_id": "gid://shopify/Order/450789469"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, orders.gotIDs, 1)
	assert.Equal(t, "450789469", orders.gotIDs[0])
}

func TestBundleAdjust_OrderNotFound(t *testing.T) {
	inv := &fakeInventory{}
	rec := postAdjust(t, newTestHandler(&fakeOrders{orders: map[string]*entity.Order{}}, inv, nil),
		`{"order_id": "1"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, inv.calls)
}

func TestBundleAdjust_EndToEnd(t *testing.T) {
	orders := &fakeOrders{orders: map[string]*entity.Order{
		"450789469": bundleOrder(3, "1001|2, 1002|1"),
	}}
	inv := &fakeInventory{}
	audit := &fakeAudit{}

	rec := postAdjust(t, newTestHandler(orders, inv, audit), `{"order_id": "450789469"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, inv.calls, 1)
	call := inv.calls[0]
	assert.Equal(t, "Bundle Inventory Adjustment", call.name)
	assert.Equal(t, "correction", call.reason)
	require.Len(t, call.deltas, 2)
	assert.Equal(t, entity.InventoryDelta{
		InventoryItemID:   "gid://shopify/InventoryItem/1001",
		Delta:             -6,
		LocationID:        testLocation,
		LedgerDocumentURI: "https://example.com/ledger",
	}, call.deltas[0])
	assert.Equal(t, -3, call.deltas[1].Delta)
	assert.Equal(t, "gid://shopify/InventoryItem/1002", call.deltas[1].InventoryItemID)

	var body AdjustResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Deltas)
	assert.NotEmpty(t, body.Reference)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, adjustlog.OutcomeAdjusted, audit.entries[0].Outcome)
	assert.Equal(t, 2, audit.entries[0].DeltaCount)
}

func TestBundleAdjust_NoBundlesIsNoopWithoutMutation(t *testing.T) {
	orders := &fakeOrders{orders: map[string]*entity.Order{
		"1": {ID: 1, LineItems: []entity.LineItem{{ID: 1, Quantity: 2}}},
	}}
	inv := &fakeInventory{}
	audit := &fakeAudit{}

	rec := postAdjust(t, newTestHandler(orders, inv, audit), `{"order_id": "1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, inv.calls, "no-op must not call the mutation")

	var body AdjustResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No bundles to adjust.", body.Message)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, adjustlog.OutcomeNoop, audit.entries[0].Outcome)
}

func TestBundleAdjust_EmptyQuantityTokenSkipped(t *testing.T) {
	// "123|" is dropped by the documented parser leniency; the request
	// still succeeds with exactly one delta from the sibling token.
	orders := &fakeOrders{orders: map[string]*entity.Order{
		"1": bundleOrder(1, "123|, 1001|2"),
	}}
	inv := &fakeInventory{}

	rec := postAdjust(t, newTestHandler(orders, inv, nil), `{"order_id": "1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, inv.calls, 1)
	require.Len(t, inv.calls[0].deltas, 1)
	assert.Equal(t, "gid://shopify/InventoryItem/1001", inv.calls[0].deltas[0].InventoryItemID)
}

func TestBundleAdjust_MalformedQuantityFailsRequest(t *testing.T) {
	orders := &fakeOrders{orders: map[string]*entity.Order{
		"1": bundleOrder(1, "1001|two"),
	}}
	inv := &fakeInventory{}

	rec := postAdjust(t, newTestHandler(orders, inv, nil), `{"order_id": "1"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, inv.calls, "malformed spec must abort before submission")
}

func TestBundleAdjust_NotIdempotent(t *testing.T) {
	// Two callbacks for the same order produce two separate submissions.
	// There is deliberately no dedup or memoization.
	orders := &fakeOrders{orders: map[string]*entity.Order{
		"1": bundleOrder(2, "1001|1"),
	}}
	inv := &fakeInventory{}
	router := newTestHandler(orders, inv, nil)

	first := postAdjust(t, router, `{"order_id": "1"}`)
	second := postAdjust(t, router, `{"order_id": "1"}`)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	require.Len(t, inv.calls, 2)
	assert.Equal(t, inv.calls[0].deltas, inv.calls[1].deltas)
}

func TestBundleAdjust_ValidationRejected(t *testing.T) {
	orders := &fakeOrders{orders: map[string]*entity.Order{
		"1": bundleOrder(1, "1001|1"),
	}}
	inv := &fakeInventory{err: &domain.ValidationError{UserErrors: []entity.UserError{
		{Field: []string{"input", "changes"}, Message: "Invalid inventory item"},
	}}}
	audit := &fakeAudit{}

	rec := postAdjust(t, newTestHandler(orders, inv, audit), `{"order_id": "1"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_rejected", body.Error)
	// Raw upstream detail is logged and audited, never echoed to the caller.
	assert.NotContains(t, body.Message, "Invalid inventory item")

	require.Len(t, audit.entries, 1)
	assert.Equal(t, adjustlog.OutcomeRejected, audit.entries[0].Outcome)
	assert.Contains(t, audit.entries[0].Detail, "Invalid inventory item")
}

func TestBundleAdjust_UpstreamUnavailable(t *testing.T) {
	orders := &fakeOrders{err: fmt.Errorf("%w: connrefused", domain.ErrUpstreamUnavailable)}

	rec := postAdjust(t, newTestHandler(orders, &fakeInventory{}, nil), `{"order_id": "1"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "upstream_unavailable", body.Error)
}

func TestBundleAdjust_UnresolvedLocation(t *testing.T) {
	orders := &fakeOrders{orders: map[string]*entity.Order{
		"1": bundleOrder(1, "1001|1"),
	}}
	inv := &fakeInventory{}
	h := NewHandler(orders, resolver.Direct{}, inv, "", "", nil)

	rec := postAdjust(t, NewRouter(h), `{"order_id": "1"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, inv.calls)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "location_unresolved", body.Error)
}
