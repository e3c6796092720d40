// Package shopify implements the core/ports interfaces against the Shopify
// Admin API: REST for the order read, GraphQL for everything else. Response
// bodies are decoded into explicit typed schemas; any shape surprise is
// converted to domain.ErrUpstreamProtocol at the boundary instead of leaking
// nils into later pipeline stages.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/domain"
)

// apiVersion pins the Admin API version for both the REST and GraphQL
// endpoints. Bump deliberately; Shopify retires versions quarterly.
const apiVersion = "2023-10"

const tokenHeader = "X-Shopify-Access-Token"

// Client talks to one store's Admin API. Safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	tracer     trace.Tracer
}

// NewClient builds a Client for the given myshopify domain. The underlying
// http.Client carries no Timeout of its own; every call is bounded by the
// per-request context derived from timeout.
func NewClient(storeDomain, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: "https://" + storeDomain,
		token:   token,
		timeout: timeout,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
		tracer: otel.Tracer("shopify"),
	}
}

// newClientForTest is like NewClient but points at a test server's base URL.
func newClientForTest(baseURL, token string) *Client {
	c := NewClient("placeholder", token, 5*time.Second)
	c.baseURL = baseURL
	return c
}

// do executes one HTTP exchange under a client span and hands back the
// status code and body. Only transport-level failures error here; status
// interpretation belongs to the caller.
func (c *Client) do(ctx context.Context, spanName, method, url string, body []byte) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		span.RecordError(err)
		return 0, nil, fmt.Errorf("%w: build request: %v", domain.ErrUpstreamUnavailable, err)
	}
	req.Header.Set(tokenHeader, c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	span.SetAttributes(
		attribute.String("http.url", url),
		attribute.String("http.method", method),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return 0, nil, fmt.Errorf("%w: read response: %v", domain.ErrUpstreamUnavailable, err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	return resp.StatusCode, payload, nil
}

// graphqlRequest is the standard two-field GraphQL-over-HTTP envelope.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// graphql posts one operation and decodes data into out. Top-level errors
// and undecodable bodies map to ErrUpstreamProtocol, transport problems and
// non-2xx statuses to ErrUpstreamUnavailable.
func (c *Client) graphql(ctx context.Context, spanName, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", domain.ErrUpstreamProtocol, err)
	}

	status, payload, err := c.do(ctx, spanName, http.MethodPost, c.baseURL+"/admin/api/"+apiVersion+"/graphql.json", body)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: graphql endpoint returned status %d", domain.ErrUpstreamUnavailable, status)
	}

	var envelope graphqlEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("%w: decode graphql envelope: %v", domain.ErrUpstreamProtocol, err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrUpstreamProtocol, envelope.Errors[0].Message)
	}
	if envelope.Data == nil {
		return fmt.Errorf("%w: graphql response carried no data", domain.ErrUpstreamProtocol)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: decode graphql data: %v", domain.ErrUpstreamProtocol, err)
	}
	return nil
}
