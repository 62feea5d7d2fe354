package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"storefront/internal/cart"
	"storefront/pkg/testutil"
)

// HandlerSuite exercises the cart HTTP surface over real in-memory
// components, per project testing convention.
type HandlerSuite struct {
	suite.Suite
	router http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc, err := cart.NewService(cart.NewInMemoryStore(), cart.WithLogger(logger))
	s.Require().NoError(err)

	r := chi.NewRouter()
	New(svc, logger).Register(r)
	s.router = r
}

func (s *HandlerSuite) createCart() *cart.Cart {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/api/carts"))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	return testutil.UnmarshalResponse[cart.Cart](s.T(), rr)
}

func (s *HandlerSuite) TestCreateAndGet() {
	c := s.createCart()
	s.NotEmpty(c.ID)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/carts/"+c.ID))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	got := testutil.UnmarshalResponse[cart.Cart](s.T(), rr)
	s.Equal(c.ID, got.ID)
	s.Empty(got.Items)
}

func (s *HandlerSuite) TestAddItemRoundTrip() {
	c := s.createCart()

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/carts/"+c.ID+"/items",
		map[string]any{"variantId": 101, "quantity": 2})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	req = testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/carts/"+c.ID+"/items",
		map[string]any{"variantId": 101, "quantity": 3})
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	got := testutil.UnmarshalResponse[cart.Cart](s.T(), rr)
	s.Require().Len(got.Items, 1)
	s.Equal(int64(101), got.Items[0].VariantID)
	s.Equal(5, got.Items[0].Quantity)
}

func (s *HandlerSuite) TestAddItemValidation() {
	c := s.createCart()

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/carts/"+c.ID+"/items",
		map[string]any{"variantId": 101, "quantity": 0})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	testutil.AssertErrorCode(s.T(), rr, "validation")
}

func (s *HandlerSuite) TestAddItemInvalidJSON() {
	c := s.createCart()

	req := testutil.NewRequest(s.T(), http.MethodPost, "/api/carts/"+c.ID+"/items")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	testutil.AssertErrorCode(s.T(), rr, "bad_request")
}

func (s *HandlerSuite) TestReplaceItems() {
	c := s.createCart()

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/carts/"+c.ID+"/items",
		map[string]any{"variantId": 101, "quantity": 2})
	testutil.DoRequest(s.router, req)

	req = testutil.NewJSONRequest(s.T(), http.MethodPut, "/api/carts/"+c.ID,
		map[string]any{"lines": []map[string]any{}})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	got := testutil.UnmarshalResponse[cart.Cart](s.T(), rr)
	s.Empty(got.Items, "replace with empty list empties the cart")
}

func (s *HandlerSuite) TestDelete() {
	c := s.createCart()

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/api/carts/"+c.ID))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/carts/"+c.ID))
	testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
}

func (s *HandlerSuite) TestUnknownCartIs404() {
	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/carts/cart_missing"},
		{http.MethodDelete, "/api/carts/cart_missing"},
	} {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), tc.method, tc.path))
		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
		testutil.AssertErrorCode(s.T(), rr, "not_found")
	}
}
