// Package adjustlog defines the domain types for the adjustment audit log.
//
// Every adjustment submission (including no-ops and failures) is recorded as
// an immutable row so that stock movements triggered by this service can be
// reconciled later, and correlated with a distributed trace via the trace_id
// column. The log is observability only: request handling never reads it and
// its absence changes no behavior.
package adjustlog

import "time"

// Outcome classifies how a bundle adjustment request ended.
type Outcome string

const (
	OutcomeAdjusted Outcome = "ADJUSTED"
	OutcomeNoop     Outcome = "NOOP"
	OutcomeRejected Outcome = "REJECTED"
	OutcomeFailed   Outcome = "FAILED"
)

// Entry is a single row in the adjustment_logs table.
type Entry struct {
	// OrderID is the bare numeric order id the request was for.
	OrderID string

	// Reference is this submission's unique id. It doubles as the handle
	// printed in logs and echoed in the success response.
	Reference string

	// Outcome is the final classification of the request.
	Outcome Outcome

	// DeltaCount is the number of inventory deltas in the submitted batch.
	// Zero for no-ops and for requests that failed before submission.
	DeltaCount int

	// Detail carries a JSON blob of diagnostic data: the userErrors list on
	// REJECTED, the error string on FAILED. Empty otherwise.
	Detail string

	// TraceID is the W3C trace ID extracted from the active OTel span,
	// linking this row to the full distributed trace.
	TraceID string

	// SpanID pinpoints the handler span within the trace.
	SpanID string

	// CreatedAt is the wall-clock time of this entry.
	CreatedAt time.Time
}
