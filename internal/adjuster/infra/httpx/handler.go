package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/bundle"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/domain"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/ports"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/resolver"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjustlog"
	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/pkg/metrics"
)

// Audit-trail naming sent with every mutation.
const (
	adjustmentName   = "Bundle Inventory Adjustment"
	adjustmentReason = "correction"
)

// Handler handles incoming bundle-adjust callbacks and runs the whole
// pipeline: normalize, fetch, parse, resolve, submit, respond.
type Handler struct {
	orders     ports.OrderFetcher
	items      resolver.ItemResolver
	inventory  ports.InventoryAdjuster
	locationID string
	ledgerURI  string
	auditRepo  adjustlog.Repository // nil-safe: audit logging skipped if nil
	tracer     trace.Tracer
}

// NewHandler initializes the handler with its collaborators. locationID is
// the pinned warehouse location gid resolved at startup. auditRepo may be
// nil, in which case submissions are not recorded to the audit log.
func NewHandler(
	orders ports.OrderFetcher,
	items resolver.ItemResolver,
	inventory ports.InventoryAdjuster,
	locationID string,
	ledgerURI string,
	auditRepo adjustlog.Repository,
) *Handler {
	return &Handler{
		orders:     orders,
		items:      items,
		inventory:  inventory,
		locationID: locationID,
		ledgerURI:  ledgerURI,
		auditRepo:  auditRepo,
		tracer:     otel.Tracer("httpx"),
	}
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// BundleAdjust receives the order reference and runs the adjustment
// pipeline. Every terminal outcome is counted, audited, and mapped to a
// status; all failures except per-component resolution abort immediately so
// a half-built batch is never submitted.
func (h *Handler) BundleAdjust(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "bundle-adjust")
	defer span.End()

	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RequestsTotal.WithLabelValues("invalid_input").Inc()
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	orderID, err := domain.NormalizeOrderID(req.OrderID)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues("invalid_input").Inc()
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	span.SetAttributes(attribute.String("order.id", orderID))

	slog.InfoContext(ctx, "received bundle adjust callback", "order_id", orderID)

	order, err := h.orders.FetchOrder(ctx, orderID)
	if err != nil {
		h.fail(ctx, w, orderID, err)
		return
	}

	entries, err := bundle.Components(order.LineItems)
	if err != nil {
		h.fail(ctx, w, orderID, err)
		return
	}
	if len(entries) == 0 {
		h.noop(ctx, w, orderID, "order carries no bundle line items")
		return
	}

	if h.locationID == "" {
		h.fail(ctx, w, orderID, domain.ErrLocationUnresolved)
		return
	}

	deltas, err := h.items.Deltas(ctx, entries, h.locationID, h.ledgerURI)
	if err != nil {
		h.fail(ctx, w, orderID, err)
		return
	}
	if len(deltas) == 0 {
		// Possible when every component was skipped during resolution.
		h.noop(ctx, w, orderID, "no resolvable bundle components")
		return
	}

	if err := h.inventory.AdjustQuantities(ctx, adjustmentName, adjustmentReason, deltas); err != nil {
		h.fail(ctx, w, orderID, err, withDeltaCount(len(deltas)))
		return
	}

	reference := uuid.NewString()
	metrics.RequestsTotal.WithLabelValues("adjusted").Inc()
	metrics.DeltasSubmitted.Add(float64(len(deltas)))
	h.audit(ctx, adjustlog.NewEntry(ctx, orderID, reference, adjustlog.OutcomeAdjusted, len(deltas), ""))

	slog.InfoContext(ctx, "inventory adjusted", "order_id", orderID, "deltas", len(deltas), "reference", reference)
	writeJSON(w, http.StatusOK, AdjustResponse{
		Message:   "Inventory adjusted.",
		OrderID:   orderID,
		Deltas:    len(deltas),
		Reference: reference,
	})
}

func (h *Handler) noop(ctx context.Context, w http.ResponseWriter, orderID, why string) {
	metrics.RequestsTotal.WithLabelValues("noop").Inc()
	h.audit(ctx, adjustlog.NewEntry(ctx, orderID, "", adjustlog.OutcomeNoop, 0, ""))
	slog.InfoContext(ctx, "no bundle adjustments submitted", "order_id", orderID, "reason", why)
	writeJSON(w, http.StatusOK, AdjustResponse{Message: "No bundles to adjust.", OrderID: orderID})
}

type failOption func(*adjustlog.Entry)

func withDeltaCount(n int) failOption {
	return func(e *adjustlog.Entry) { e.DeltaCount = n }
}

// fail classifies err against the taxonomy, logs the diagnostic detail,
// audits the failure, and writes the mapped response. Raw upstream payloads
// stay in the logs; the caller only sees the category.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, orderID string, err error, opts ...failOption) {
	status, code, outcome := classify(err)

	detail := ""
	if ve, ok := domain.AsValidation(err); ok {
		if b, merr := json.Marshal(ve.UserErrors); merr == nil {
			detail = string(b)
		}
		slog.ErrorContext(ctx, "upstream rejected adjustment", "order_id", orderID, "user_errors", detail)
	} else {
		detail = err.Error()
		slog.ErrorContext(ctx, "bundle adjust failed", "order_id", orderID, "outcome", code, "error", err)
	}

	metrics.RequestsTotal.WithLabelValues(code).Inc()
	entry := adjustlog.NewEntry(ctx, orderID, "", outcome, 0, detail)
	for _, opt := range opts {
		opt(entry)
	}
	h.audit(ctx, entry)

	writeError(w, status, code, publicMessage(err, code))
}

// classify maps a pipeline error to HTTP status, outcome label, and audit
// outcome, in the taxonomy's order of precedence.
func classify(err error) (int, string, adjustlog.Outcome) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input", adjustlog.OutcomeFailed
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "order_not_found", adjustlog.OutcomeFailed
	case errors.Is(err, domain.ErrLocationUnresolved):
		return http.StatusBadRequest, "location_unresolved", adjustlog.OutcomeFailed
	case errors.Is(err, domain.ErrMalformedBundleSpec):
		return http.StatusUnprocessableEntity, "malformed_bundle_spec", adjustlog.OutcomeFailed
	case errors.Is(err, domain.ErrValidationRejected):
		return http.StatusInternalServerError, "validation_rejected", adjustlog.OutcomeRejected
	case errors.Is(err, domain.ErrUpstreamProtocol):
		return http.StatusInternalServerError, "upstream_protocol_error", adjustlog.OutcomeFailed
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusInternalServerError, "upstream_unavailable", adjustlog.OutcomeFailed
	default:
		return http.StatusInternalServerError, "internal_error", adjustlog.OutcomeFailed
	}
}

// publicMessage keeps upstream diagnostic detail out of caller-facing
// bodies for the 5xx cases.
func publicMessage(err error, code string) string {
	switch code {
	case "invalid_input", "order_not_found", "location_unresolved", "malformed_bundle_spec":
		return err.Error()
	case "validation_rejected":
		return "upstream rejected one or more inventory changes"
	default:
		return "error adjusting inventory"
	}
}

func (h *Handler) audit(ctx context.Context, entry *adjustlog.Entry) {
	if h.auditRepo == nil {
		return
	}
	if err := h.auditRepo.Save(ctx, entry); err != nil {
		slog.WarnContext(ctx, "failed to write adjustment audit log", "order_id", entry.OrderID, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
