package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopfabrik/catalog-service/internal/cache"
	"github.com/shopfabrik/catalog-service/internal/catalog"
	"github.com/shopfabrik/catalog-service/internal/store"
)

func newTestServer(t *testing.T, provider string) http.Handler {
	t.Helper()

	c, err := cache.New(provider, cache.ProviderConfig{Size: 64, TTL: time.Hour})
	if err != nil {
		t.Fatalf("cache.New(%q): %v", provider, err)
	}
	t.Cleanup(func() { _ = c.Close() })

	st := store.New()
	co := catalog.New(st, c, time.Hour, zerolog.Nop())
	return NewRouter(NewHandler(co, st, c, zerolog.Nop()))
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("Decoding response %q: %v", rec.Body.String(), err)
	}
	return m
}

func TestHandlers_CreateGetDeleteScenario(t *testing.T) {
	h := newTestServer(t, "memory")

	// Create
	rec := doRequest(t, h, http.MethodPost, "/products", `{"name":"Pen","price":1.5,"category":"office"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /products: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	if created["id"].(float64) != 1 {
		t.Errorf("Expected first id 1, got %v", created["id"])
	}
	if created["stock"].(float64) != 0 {
		t.Errorf("Expected default stock 0, got %v", created["stock"])
	}
	if created["description"].(string) != "" {
		t.Errorf("Expected default empty description, got %v", created["description"])
	}

	// Category listing contains the product
	rec = doRequest(t, h, http.MethodGet, "/products?category=office", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /products?category=office: expected 200, got %d", rec.Code)
	}
	listing := decodeBody(t, rec)
	if count := listing["count"].(float64); count < 1 {
		t.Errorf("Expected count >= 1, got %v", count)
	}
	data := listing["data"].([]interface{})
	if len(data) != 1 || data[0].(map[string]interface{})["name"] != "Pen" {
		t.Errorf("Expected the pen in the category listing, got %v", data)
	}

	// Round-trip by id
	rec = doRequest(t, h, http.MethodGet, "/products/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /products/1: expected 200, got %d", rec.Code)
	}
	got := decodeBody(t, rec)
	if got["name"] != "Pen" || got["price"].(float64) != 1.5 || got["category"] != "office" {
		t.Errorf("Round-trip mismatch: %v", got)
	}
	if _, ok := got["cached"]; !ok {
		t.Error("Expected cached marker on single product response")
	}

	// Delete
	rec = doRequest(t, h, http.MethodDelete, "/products/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE /products/1: expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("Expected empty 204 body, got %q", rec.Body.String())
	}

	// Gone
	rec = doRequest(t, h, http.MethodGet, "/products/1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET /products/1 after delete: expected 404, got %d", rec.Code)
	}
}

func TestHandlers_GetProduct_CachedMarker(t *testing.T) {
	h := newTestServer(t, "memory")

	doRequest(t, h, http.MethodPost, "/products", `{"name":"Pen","price":1.5,"category":"office"}`)

	first := decodeBody(t, doRequest(t, h, http.MethodGet, "/products/1", ""))
	if first["cached"].(bool) {
		t.Error("Expected cached=false on first read")
	}

	second := decodeBody(t, doRequest(t, h, http.MethodGet, "/products/1", ""))
	if !second["cached"].(bool) {
		t.Error("Expected cached=true on second read")
	}

	// Same data either way.
	for _, field := range []string{"id", "name", "price", "category", "stock", "description"} {
		if first[field] != second[field] {
			t.Errorf("Field %q differs between cached and uncached read: %v vs %v", field, first[field], second[field])
		}
	}
}

func TestHandlers_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero price", `{"name":"Pen","price":0,"category":"office"}`},
		{"negative price", `{"name":"Pen","price":-5,"category":"office"}`},
		{"missing category", `{"name":"Pen","price":10}`},
		{"missing name", `{"price":10,"category":"office"}`},
		{"malformed json", `{"name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, "memory")
			rec := doRequest(t, h, http.MethodPost, "/products", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			body := decodeBody(t, rec)
			if body["error"] == "" {
				t.Error("Expected a human-readable error field")
			}
		})
	}
}

func TestHandlers_InvalidID(t *testing.T) {
	h := newTestServer(t, "memory")

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		body := ""
		if method == http.MethodPut {
			body = `{"price":5}`
		}
		rec := doRequest(t, h, method, "/products/abc", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s /products/abc: expected 400, got %d", method, rec.Code)
		}
	}
}

func TestHandlers_UpdateProduct(t *testing.T) {
	h := newTestServer(t, "memory")

	doRequest(t, h, http.MethodPost, "/products", `{"name":"Pen","price":1.5,"category":"office","stock":3}`)

	// Partial update touches only the supplied field.
	rec := doRequest(t, h, http.MethodPut, "/products/1", `{"price":2.5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /products/1: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody(t, rec)
	if updated["price"].(float64) != 2.5 || updated["name"] != "Pen" || updated["stock"].(float64) != 3 {
		t.Errorf("Unexpected update result: %v", updated)
	}

	// Invalid supplied price
	rec = doRequest(t, h, http.MethodPut, "/products/1", `{"price":-1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid price, got %d", rec.Code)
	}

	// Absent id
	rec = doRequest(t, h, http.MethodPut, "/products/99", `{"price":5}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for absent id, got %d", rec.Code)
	}
}

func TestHandlers_InvalidationLaw(t *testing.T) {
	h := newTestServer(t, "memory")

	doRequest(t, h, http.MethodPost, "/products", `{"name":"Pen","price":1.5,"category":"office"}`)

	// Warm the full snapshot.
	doRequest(t, h, http.MethodGet, "/products", "")

	// Mutate, then verify no stale data is served.
	rec := doRequest(t, h, http.MethodPut, "/products/1", `{"price":9}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT: expected 200, got %d", rec.Code)
	}

	listing := decodeBody(t, doRequest(t, h, http.MethodGet, "/products", ""))
	data := listing["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(data))
	}
	if price := data[0].(map[string]interface{})["price"].(float64); price != 9 {
		t.Errorf("Stale price after invalidation: %v", price)
	}
}

func TestHandlers_DegradedMode(t *testing.T) {
	h := newTestServer(t, "disabled")

	rec := doRequest(t, h, http.MethodPost, "/products", `{"name":"Pen","price":1.5,"category":"office"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST in degraded mode: expected 201, got %d", rec.Code)
	}

	listing := decodeBody(t, doRequest(t, h, http.MethodGet, "/products", ""))
	if listing["cached"].(bool) {
		t.Error("Expected cached=false in degraded mode")
	}
	if listing["count"].(float64) != 1 {
		t.Errorf("Expected count 1, got %v", listing["count"])
	}

	ready := decodeBody(t, doRequest(t, h, http.MethodGet, "/ready", ""))
	if ready["ready"] != true {
		t.Error("Expected ready=true")
	}
	if ready["redis"] != "disconnected" {
		t.Errorf("Expected redis=disconnected, got %v", ready["redis"])
	}
}

func TestHandlers_Health(t *testing.T) {
	h := newTestServer(t, "memory")

	doRequest(t, h, http.MethodPost, "/products", `{"name":"Pen","price":1.5,"category":"office"}`)

	rec := doRequest(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health: expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "healthy" {
		t.Errorf("Expected healthy, got %v", body["status"])
	}
	if body["service"] != "product-catalog" {
		t.Errorf("Unexpected service name %v", body["service"])
	}
	if body["redis"] != "connected" {
		t.Errorf("Expected redis=connected, got %v", body["redis"])
	}
	if body["productsCount"].(float64) != 1 {
		t.Errorf("Expected productsCount 1, got %v", body["productsCount"])
	}
	if body["timestamp"] == "" {
		t.Error("Expected a timestamp")
	}
}

func TestHandlers_Health_Degraded(t *testing.T) {
	h := newTestServer(t, "disabled")

	rec := doRequest(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Degraded /health: expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["redis"] != "disconnected" {
		t.Errorf("Expected redis=disconnected, got %v", body["redis"])
	}
}

func TestHandlers_NotFoundFallback(t *testing.T) {
	h := newTestServer(t, "memory")

	rec := doRequest(t, h, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Not found" {
		t.Errorf("Expected {error: Not found}, got %v", body)
	}
}

func TestHandlers_MetricsExposition(t *testing.T) {
	h := newTestServer(t, "memory")

	// Generate some traffic first.
	doRequest(t, h, http.MethodPost, "/products", `{"name":"Pen","price":1.5,"category":"office"}`)
	doRequest(t, h, http.MethodGet, "/products/1", "")
	doRequest(t, h, http.MethodGet, "/products/1", "")

	rec := doRequest(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics: expected 200, got %d", rec.Code)
	}

	text := rec.Body.String()
	for _, metric := range []string{
		"http_requests_total",
		"http_request_duration_seconds",
		"cache_hits_total",
		"cache_misses_total",
		"cache_operation_duration_seconds",
		"go_goroutines", // default collectors are exported too
	} {
		if !strings.Contains(text, metric) {
			t.Errorf("Expected %s in exposition output", metric)
		}
	}
}

func TestHandlers_MonotonicIDsAcrossDelete(t *testing.T) {
	h := newTestServer(t, "memory")

	for i := 1; i <= 3; i++ {
		rec := doRequest(t, h, http.MethodPost, "/products", `{"name":"Pen","price":1.5,"category":"office"}`)
		created := decodeBody(t, rec)
		if created["id"].(float64) != float64(i) {
			t.Fatalf("Expected id %d, got %v", i, created["id"])
		}
	}

	doRequest(t, h, http.MethodDelete, "/products/3", "")

	rec := doRequest(t, h, http.MethodPost, "/products", `{"name":"Pen","price":1.5,"category":"office"}`)
	created := decodeBody(t, rec)
	if created["id"].(float64) != 4 {
		t.Errorf("Expected id 4 after delete, got %v", created["id"])
	}
}

func TestHandlers_RequestIDHeader(t *testing.T) {
	h := newTestServer(t, "memory")

	rec := doRequest(t, h, http.MethodGet, "/products", "")
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("Expected an assigned X-Request-Id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("X-Request-Id", "fixed-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "fixed-id" {
		t.Errorf("Expected propagated request id, got %q", got)
	}
}

func TestHandlers_ListGrowsWithCatalog(t *testing.T) {
	h := newTestServer(t, "memory")

	for i := 0; i < 5; i++ {
		body := fmt.Sprintf(`{"name":"Item %d","price":%d,"category":"bulk"}`, i, i+1)
		if rec := doRequest(t, h, http.MethodPost, "/products", body); rec.Code != http.StatusCreated {
			t.Fatalf("POST %d: got %d", i, rec.Code)
		}
	}

	listing := decodeBody(t, doRequest(t, h, http.MethodGet, "/products", ""))
	if listing["count"].(float64) != 5 {
		t.Fatalf("Expected count 5, got %v", listing["count"])
	}
}
