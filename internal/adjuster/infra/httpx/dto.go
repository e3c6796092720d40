package httpx

// AdjustRequest is the inbound webhook body. OrderID accepts either the
// bare numeric id or the fully qualified gid form.
type AdjustRequest struct {
	OrderID string `json:"order_id"`
}

// AdjustResponse confirms a successful submission (or a no-op).
type AdjustResponse struct {
	Message   string `json:"message"`
	OrderID   string `json:"order_id"`
	Deltas    int    `json:"deltas"`
	Reference string `json:"reference,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
