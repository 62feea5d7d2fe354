package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"storefront/internal/platform/config"
	"storefront/internal/ratelimit/service"
	"storefront/internal/ratelimit/store/window"
	dErrors "storefront/pkg/domain-errors"
)

type ClientSuite struct {
	suite.Suite
	ctx context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.ctx = context.Background()
}

// newClient wires a real limiter over a real in-memory store, per project
// testing convention.
func (s *ClientSuite) newClient(baseURL string, quota int) *Client {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	limiter, err := service.New(window.NewInMemoryWindowStore(), quota, time.Minute, service.WithLogger(logger))
	s.Require().NoError(err)

	cfg := config.Upstream{
		APIKey:  "test-key",
		ShopID:  "shop-1",
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}
	return NewClient(cfg, limiter, WithLogger(logger))
}

func (s *ClientSuite) TestRequestShape() {
	var gotPath, gotAuth, gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer srv.Close()

	client := s.newClient(srv.URL+"/", 10) // trailing slash must be tolerated
	resp, err := client.ListProducts(s.ctx)
	s.Require().NoError(err)

	s.Equal(http.StatusOK, resp.Status)
	s.Equal("/shops/shop-1/products.json", gotPath, "shop placeholder must be substituted")
	s.Equal("Bearer test-key", gotAuth)
	s.Equal("storefront-gateway/1.0", gotUA)
	s.Equal("application/json", gotAccept)
}

func (s *ClientSuite) TestUpstreamErrorNormalization() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "not found"})
	}))
	defer srv.Close()

	client := s.newClient(srv.URL, 10)
	_, err := client.GetProduct(s.ctx, "missing")
	s.Require().Error(err)

	s.True(dErrors.HasCode(err, dErrors.CodeUpstream), "must be a typed upstream error, got %v", err)
	status, ok := dErrors.LoadInt(err, dErrors.DetailUpstreamStatus)
	s.Require().True(ok)
	s.Equal(http.StatusNotFound, status)
	s.Contains(err.Error(), "not found", "upstream message is carried verbatim")
}

func (s *ClientSuite) TestUnparsableBodyKeepsStatus() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>definitely not json</html>")
	}))
	defer srv.Close()

	client := s.newClient(srv.URL, 10)
	resp, err := client.ListProducts(s.ctx)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.Status)
	s.Equal(map[string]any{}, resp.Payload, "parse failure falls back to empty object")
}

func (s *ClientSuite) TestRateLimitRejectionSkipsNetwork() {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer srv.Close()

	client := s.newClient(srv.URL, 1)

	_, err := client.ListProducts(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), calls.Load())

	_, err = client.ListProducts(s.ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))
	retryAfter, ok := dErrors.LoadInt(err, dErrors.DetailRetryAfter)
	s.Require().True(ok)
	s.Positive(retryAfter)
	s.Equal(int64(1), calls.Load(), "rejected admission must never reach the network")
}

func (s *ClientSuite) TestMissingConfigurationFailsBeforeNetwork() {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	limiter, err := service.New(window.NewInMemoryWindowStore(), 10, time.Minute)
	s.Require().NoError(err)

	client := NewClient(config.Upstream{ShopID: "shop-1", BaseURL: srv.URL}, limiter, WithLogger(logger))

	_, err = client.ListProducts(s.ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeMissingConfiguration))
	s.Equal(int64(0), calls.Load(), "no network call may be attempted without credentials")
}

func (s *ClientSuite) TestTransportErrorIsTyped() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := s.newClient(srv.URL, 10)
	_, err := client.ListProducts(s.ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeTransport), "network failures must surface as transport errors, got %v", err)
}

func (s *ClientSuite) TestAddToCartMergesLines() {
	var putBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"cart": map[string]any{
					"items": []map[string]any{
						{"variant_id": 101, "quantity": 2},
						{"variant_id": 202, "quantity": 1},
					},
				},
			})
		case http.MethodPut:
			putBody, _ = io.ReadAll(r.Body)
			_ = json.NewEncoder(w).Encode(map[string]any{})
		}
	}))
	defer srv.Close()

	client := s.newClient(srv.URL, 10)
	_, err := client.AddToCart(s.ctx, "cart-1", 101, 3)
	s.Require().NoError(err)

	var envelope struct {
		Cart struct {
			Items []CartItem `json:"items"`
		} `json:"cart"`
	}
	s.Require().NoError(json.Unmarshal(putBody, &envelope))
	s.Require().Len(envelope.Cart.Items, 2, "existing line merges instead of duplicating")
	s.Equal(CartItem{VariantID: 101, Quantity: 5}, envelope.Cart.Items[0])
	s.Equal(CartItem{VariantID: 202, Quantity: 1}, envelope.Cart.Items[1])
}

func (s *ClientSuite) TestCollectionsStubSpendsNoQuota() {
	client := s.newClient("http://unreachable.invalid", 1)

	for range 3 {
		resp, err := client.ListCollections(s.ctx)
		s.Require().NoError(err)
		s.Equal(http.StatusOK, resp.Status)
	}
}
