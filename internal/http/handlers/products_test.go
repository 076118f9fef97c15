package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/catalog"
	"server/internal/infra"
	"server/internal/premium"
)

type stubCatalog struct {
	products []catalog.Product
	err      error
}

func (s *stubCatalog) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return s.products, s.err
}

type stubPremium struct {
	calls  int
	result *premium.Result
	err    error
}

func (s *stubPremium) Process(ctx context.Context, req premium.Request) (*premium.Result, error) {
	s.calls++
	return s.result, s.err
}

func newTestApp(cat Catalog, prem Premium) *App {
	return NewApp(&infra.Config{ShopifyDomain: "tienda.example.com"}, zerolog.Nop(), cat, prem)
}

func TestShopifyProductsSuccess(t *testing.T) {
	image := "https://cdn.example.com/sofa.jpg"
	cat := &stubCatalog{products: []catalog.Product{
		{ID: "1", Title: "Sofá", Handle: "sofa", Available: true, URL: "https://tienda.example.com/products/sofa", Image: &image},
		{ID: "2", Title: "Lámpara", Handle: "lampara", Available: false, URL: "https://tienda.example.com/products/lampara"},
	}}
	app := newTestApp(cat, &stubPremium{})

	rec := httptest.NewRecorder()
	app.ShopifyProducts(rec, httptest.NewRequest(http.MethodGet, "/productos-shopify", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var body struct {
		Success  bool              `json:"success"`
		Products []json.RawMessage `json:"products"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success || len(body.Products) != 2 {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if !strings.Contains(string(body.Products[1]), `"image":null`) {
		t.Fatalf("imageless product must serialize image as null: %s", body.Products[1])
	}
}

func TestShopifyProductsEmptyListIsNotNull(t *testing.T) {
	app := newTestApp(&stubCatalog{}, &stubPremium{})

	rec := httptest.NewRecorder()
	app.ShopifyProducts(rec, httptest.NewRequest(http.MethodGet, "/productos-shopify", nil))

	if !strings.Contains(rec.Body.String(), `"products":[]`) {
		t.Fatalf("empty catalog must serialize as [], got %s", rec.Body.String())
	}
}

func TestShopifyProductsUpstreamFailure(t *testing.T) {
	cat := &stubCatalog{err: &catalog.UnavailableError{Status: http.StatusBadGateway, Body: "boom"}}
	app := newTestApp(cat, &stubPremium{})

	rec := httptest.NewRecorder()
	app.ShopifyProducts(rec, httptest.NewRequest(http.MethodGet, "/productos-shopify", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Success || body.Error == "" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if strings.Contains(body.Error, "boom") {
		t.Fatalf("upstream detail must not leak to the caller: %s", body.Error)
	}
}

func TestShopifyProductsMissingCredentials(t *testing.T) {
	cat := &stubCatalog{err: errors.New("catalog: storefront domain or token not configured")}
	app := newTestApp(cat, &stubPremium{})

	rec := httptest.NewRecorder()
	app.ShopifyProducts(rec, httptest.NewRequest(http.MethodGet, "/productos-shopify", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}
