package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/sportdata-hub/internal/config"
	"github.com/riskibarqy/sportdata-hub/internal/domain/resource"
	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:                        config.EnvDev,
		ServiceName:                   "sportdata-hub-test",
		HTTPAddr:                      ":0",
		ReadTimeout:                   time.Second,
		WriteTimeout:                  time.Second,
		ShutdownTimeout:               time.Second,
		CORSAllowedOrigins:            []string{"*"},
		CacheBackend:                  config.CacheBackendMemory,
		CacheTTLs:                     resource.DefaultTTLs(),
		SportAPIBaseURL:               "http://127.0.0.1:1",
		SportAPITimeout:               time.Second,
		SportAPICircuitFailureCount:   1,
		SportAPICircuitOpenTimeout:    time.Second,
		SportAPICircuitHalfOpenMaxReq: 1,
		JWTSecret:                     "app-test-secret",
		WSWorkerPoolSize:              4,
		WSSendBuffer:                  4,
		MetricsEnabled:                true,
		MetricsNamespace:              "sportdata_hub_test",
	}
}

func TestNewHTTPServer_MemoryBackends(t *testing.T) {
	srv, cleanup, err := NewHTTPServer(t.Context(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new http server: %v", err)
	}
	t.Cleanup(func() { _ = cleanup(context.Background()) })

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"database":"memory"`) {
		t.Fatalf("expected memory database in healthz, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/cricket/dismissal-types", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("dismissal types status = %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestNewHTTPServer_RejectsEmptyAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = " "
	if _, _, err := NewHTTPServer(t.Context(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestNewHTTPServer_MetricsDisabled(t *testing.T) {
	cfg := memoryConfig()
	cfg.MetricsEnabled = false
	srv, cleanup, err := NewHTTPServer(t.Context(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new http server: %v", err)
	}
	t.Cleanup(func() { _ = cleanup(context.Background()) })

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("metrics status = %d, want 404", rec.Code)
	}
}
