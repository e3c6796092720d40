package adjustlog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// NewEntry builds an Entry stamped with the current time and with trace and
// span ids extracted from the active OpenTelemetry span in ctx. When ctx
// carries no span (unit tests), both ids stay empty.
func NewEntry(ctx context.Context, orderID, reference string, outcome Outcome, deltaCount int, detail string) *Entry {
	entry := &Entry{
		OrderID:    orderID,
		Reference:  reference,
		Outcome:    outcome,
		DeltaCount: deltaCount,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}
	return entry
}
