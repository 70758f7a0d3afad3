package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/withsutham/SE-KPS-68-2/internal/bookings"
	"github.com/withsutham/SE-KPS-68-2/internal/catalog"
	httpmiddleware "github.com/withsutham/SE-KPS-68-2/internal/http/middleware"
	"github.com/withsutham/SE-KPS-68-2/internal/receipt"
	"github.com/withsutham/SE-KPS-68-2/internal/records"
	"github.com/withsutham/SE-KPS-68-2/internal/users"
	"github.com/withsutham/SE-KPS-68-2/pkg/logging"
)

func newTestConfig(t *testing.T) *Config {
	t.Helper()

	logger := logging.New("error")
	provider := catalog.Default()
	svc := bookings.NewService(bookings.NewInMemoryStore(time.Hour), provider, bookings.Options{Logger: logger})

	return &Config{
		Logger:          logger,
		CatalogHandler:  catalog.NewHandler(provider, logger),
		BookingsHandler: bookings.NewHandler(svc, logger, receipt.PDFOptions{}),
		RecordsHandler:  records.NewHandler(records.NewInMemoryRepository(), nil, logger),
		UsersHandler:    users.NewHandler(users.NewInMemoryDirectory(), logger),
	}
}

func serve(t *testing.T, h http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range header {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := New(newTestConfig(t))

	rr := serve(t, router, http.MethodGet, "/health", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterHealthReportsFailingDependency(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.HealthChecks = map[string]HealthCheck{
		"redis":    func(context.Context) error { return nil },
		"postgres": func(context.Context) error { return errors.New("connection refused") },
	}
	router := New(cfg)

	rr := serve(t, router, http.MethodGet, "/health", nil, nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "degraded" || resp["redis"] != "ok" || resp["postgres"] != "connection refused" {
		t.Fatalf("unexpected health body %+v", resp)
	}
}

func TestRouterMountsCatalogAndBooking(t *testing.T) {
	router := New(newTestConfig(t))

	rr := serve(t, router, http.MethodGet, "/catalog/services/swedish", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("catalog: expected %d, got %d", http.StatusOK, rr.Code)
	}

	rr = serve(t, router, http.MethodPost, "/booking/sessions", map[string]string{"serviceId": "thai"}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("booking: expected %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr = serve(t, router, http.MethodGet, "/booking/durations", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("durations: expected %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestRouterRecordsCRUD(t *testing.T) {
	router := New(newTestConfig(t))

	rr := serve(t, router, http.MethodPost, "/api/customer", map[string]any{"first_name": "Somchai"}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr = serve(t, router, http.MethodGet, "/api/customer", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected %d, got %d", http.StatusOK, rr.Code)
	}
	var resp struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || len(resp.Data) != 1 || resp.Data[0]["first_name"] != "Somchai" {
		t.Fatalf("unexpected list body %+v", resp)
	}

	rr = serve(t, router, http.MethodGet, "/api/users", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("users: expected %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestRouterGuardsAPIWithStaffToken(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.AdminAuthSecret = "router-secret"
	router := New(cfg)

	rr := serve(t, router, http.MethodGet, "/api/customer", nil, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d without token, got %d", http.StatusUnauthorized, rr.Code)
	}

	claims := httpmiddleware.StaffClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "staff-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("router-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	rr = serve(t, router, http.MethodGet, "/api/customer", nil, http.Header{"Authorization": {"Bearer " + token}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d with token, got %d", http.StatusOK, rr.Code)
	}

	rr = serve(t, router, http.MethodGet, "/catalog/categories", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("catalog stays public: expected %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestRouterRateLimit(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	cfg.Context = t.Context()
	router := New(cfg)

	if rr := serve(t, router, http.MethodGet, "/health", nil, nil); rr.Code != http.StatusOK {
		t.Fatalf("first request: expected %d, got %d", http.StatusOK, rr.Code)
	}
	if rr := serve(t, router, http.MethodGet, "/health", nil, nil); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected %d, got %d", http.StatusTooManyRequests, rr.Code)
	}
}
