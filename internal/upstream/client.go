// Package upstream is the single choke point for every outbound call to the
// third-party commerce API. It owns authentication injection, endpoint
// templating, rate-limit enforcement and response normalization; route
// handlers never talk to the network themselves.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront/internal/platform/config"
	"storefront/internal/platform/metrics"
	rlmodels "storefront/internal/ratelimit/models"
	dErrors "storefront/pkg/domain-errors"
)

const (
	shopIDPlaceholder = "{shop_id}"
	userAgent         = "storefront-gateway/1.0"
	maxResponseBytes  = 1 << 20
)

// Limiter admits or rejects an outbound call attributed to a shop.
type Limiter interface {
	Admit(ctx context.Context, shopID string) (*rlmodels.AdmitResult, error)
}

// Client performs authenticated, rate-limited calls against the upstream
// API. Construct once and share; it is safe for concurrent use.
type Client struct {
	cfg     config.Upstream
	http    *http.Client
	limiter Limiter
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithHTTPClient overrides the underlying transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates the gateway client from resolved configuration. The
// limiter is mandatory: no call may bypass quota enforcement.
func NewClient(cfg config.Upstream, limiter Limiter, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
		logger:  slog.Default(),
		tracer:  otel.Tracer("storefront/internal/upstream"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do is the low-level request primitive every resource operation goes
// through. Order matters: configuration check, then rate-limit admission,
// then the network call. A rejected admission never reaches the network.
func (c *Client) do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	shopID := req.ShopID
	if shopID == "" {
		shopID = c.cfg.ShopID
	}

	if c.cfg.APIKey == "" || shopID == "" {
		return nil, dErrors.New(dErrors.CodeMissingConfiguration,
			"upstream API key and shop ID must be configured")
	}

	admit, err := c.limiter.Admit(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if !admit.Allowed {
		rlErr := dErrors.Newf(dErrors.CodeRateLimited,
			"rate limit exceeded for shop %s, retry in %d seconds", shopID, admit.RetryAfter)
		_ = dErrors.Add(rlErr, dErrors.DetailRetryAfter, admit.RetryAfter)
		c.logCall(ctx, req.Endpoint, method, 0, "rate_limited")
		return nil, rlErr
	}

	endpoint := strings.ReplaceAll(req.Endpoint, shopIDPlaceholder, shopID)
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")

	ctx, span := c.tracer.Start(ctx, "upstream.request", trace.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("upstream.endpoint", endpoint),
	))
	defer span.End()

	var bodyReader io.Reader
	if req.Body != nil && methodCarriesBody(method) {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "serialize request body")
		}
		bodyReader = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build upstream request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json;charset=utf-8")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		c.metrics.ObserveUpstreamRequest(method, "transport_error", elapsed)
		c.logCall(ctx, endpoint, method, 0, "transport_error")
		return nil, dErrors.Wrap(err, dErrors.CodeTransport, "upstream request failed")
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	payload := parsePayload(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, "upstream error status")
		c.metrics.ObserveUpstreamRequest(method, "upstream_error", elapsed)
		c.logCall(ctx, endpoint, method, resp.StatusCode, "upstream_error")

		upErr := dErrors.New(dErrors.CodeUpstream, upstreamMessage(payload))
		_ = dErrors.Add(upErr, dErrors.DetailUpstreamStatus, resp.StatusCode)
		_ = dErrors.Add(upErr, dErrors.DetailUpstreamBody, payload)
		return nil, upErr
	}

	c.metrics.ObserveUpstreamRequest(method, "success", elapsed)
	c.logCall(ctx, endpoint, method, resp.StatusCode, "success")
	return &Response{Status: resp.StatusCode, Payload: payload}, nil
}

// expect warns when a 2xx status falls outside the set conventionally
// returned by the operation. An unexpected 2xx is still a success.
func (c *Client) expect(ctx context.Context, resp *Response, operation string, acceptable ...int) *Response {
	for _, s := range acceptable {
		if resp.Status == s {
			return resp
		}
	}
	c.logger.WarnContext(ctx, "unexpected upstream success status",
		"operation", operation,
		"status", resp.Status,
	)
	return resp
}

// logCall is the per-call observability side effect required for operational
// diagnosis: every outcome is logged, success or failure.
func (c *Client) logCall(ctx context.Context, endpoint, method string, status int, outcome string) {
	c.logger.InfoContext(ctx, "upstream call",
		"endpoint", endpoint,
		"method", method,
		"status", status,
		"outcome", outcome,
	)
}

// parsePayload decodes the response body as JSON, falling back to an empty
// object so a parse failure never masks the status code.
func parsePayload(r io.Reader) any {
	raw, err := io.ReadAll(io.LimitReader(r, maxResponseBytes))
	if err != nil || len(raw) == 0 {
		return map[string]any{}
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return map[string]any{}
	}
	return payload
}

// upstreamMessage extracts the upstream-provided message, if any.
func upstreamMessage(payload any) string {
	if obj, ok := payload.(map[string]any); ok {
		if msg, ok := obj["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return "upstream API request failed"
}

func methodCarriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
