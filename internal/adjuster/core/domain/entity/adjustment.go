package entity

// ComponentEntry is one parsed "<id>|<qty>" token from a bundle property,
// with the owning line item's quantity already multiplied in by the parser.
type ComponentEntry struct {
	ComponentID string
	// Consumed is the total number of units this order consumes
	// (per-unit quantity × line item quantity). Always ≥ 0.
	Consumed int
}

// InventoryDelta is one change submitted to the inventory adjustment
// mutation. Delta is ≤ 0 for this service: bundles only consume stock.
type InventoryDelta struct {
	InventoryItemID   string
	Delta             int
	LocationID        string
	LedgerDocumentURI string
}

// UserError is a field-level validation error returned by the platform's
// mutation payload, carried verbatim for diagnostics.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}
