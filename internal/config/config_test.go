package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/sportdata-hub/internal/domain/resource"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")
		t.Setenv("SPORTAPI_KEY", "key")
		t.Setenv("JWT_SECRET", "secret")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_ProdRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("missing sportapi key", func(t *testing.T) {
		t.Setenv("SPORTAPI_KEY", "")
		t.Setenv("JWT_SECRET", "secret")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without SPORTAPI_KEY in prod")
		}
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		t.Setenv("SPORTAPI_KEY", "key")
		t.Setenv("JWT_SECRET", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without JWT_SECRET in prod")
		}
	})
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "sportdata-hub-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "sportdata-hub-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_DatabaseDefaultsToMemory(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("DB_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBURL != "" {
		t.Fatalf("expected empty DBURL, got %q", cfg.DBURL)
	}
	if !cfg.DBDisablePreparedBinary {
		t.Fatalf("expected DBDisablePreparedBinary=true by default")
	}

	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
	}
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.CacheBackend != CacheBackendMemory {
			t.Fatalf("unexpected CacheBackend: %q", cfg.CacheBackend)
		}
		want := resource.DefaultTTLs()
		for class, ttl := range want {
			if cfg.CacheTTLs[class] != ttl {
				t.Fatalf("ttl %s = %s, want %s", class, cfg.CacheTTLs[class], ttl)
			}
		}
	})

	t.Run("redis requires url", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "redis")
		t.Setenv("REDIS_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when CACHE_BACKEND=redis without REDIS_URL")
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "memcached")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown CACHE_BACKEND")
		}
	})

	t.Run("ttl override", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "")
		t.Setenv("CACHE_TTL_LIVE", "5s")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.CacheTTLs[resource.TTLLive] != 5*time.Second {
			t.Fatalf("unexpected live ttl: %s", cfg.CacheTTLs[resource.TTLLive])
		}
	})

	t.Run("ttl must be positive", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "")
		t.Setenv("CACHE_TTL_STATIC", "0s")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for zero CACHE_TTL_STATIC")
		}
	})
}

func TestLoad_SportAPIConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SportAPIKeyHeader != "X-RapidAPI-Key" {
			t.Fatalf("unexpected key header: %q", cfg.SportAPIKeyHeader)
		}
		if cfg.SportAPITimeout != 15*time.Second || cfg.SportAPIMaxRetries != 2 {
			t.Fatalf("unexpected timeout/retries: %s/%d", cfg.SportAPITimeout, cfg.SportAPIMaxRetries)
		}
		if !cfg.SportAPICircuitEnabled || cfg.SportAPICircuitFailureCount != 5 {
			t.Fatalf("unexpected circuit defaults: %v/%d", cfg.SportAPICircuitEnabled, cfg.SportAPICircuitFailureCount)
		}
	})

	t.Run("negative retries", func(t *testing.T) {
		t.Setenv("SPORTAPI_MAX_RETRIES", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative SPORTAPI_MAX_RETRIES")
		}
	})

	t.Run("invalid timeout", func(t *testing.T) {
		t.Setenv("SPORTAPI_TIMEOUT", "soon")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid SPORTAPI_TIMEOUT")
		}
	})
}

func TestLoad_WebSocketConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("WS_WORKER_POOL_SIZE", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for WS_WORKER_POOL_SIZE=0")
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	})

	t.Run("existing variables win", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("APP_SERVICE_NAME=from-file\nSPORTDATA_DOTENV_PROBE=loaded\n"), 0o600); err != nil {
			t.Fatalf("write env file: %v", err)
		}
		t.Setenv("APP_SERVICE_NAME", "from-env")
		t.Setenv("SPORTDATA_DOTENV_PROBE", "")
		os.Unsetenv("SPORTDATA_DOTENV_PROBE")

		if err := LoadDotEnv(path); err != nil {
			t.Fatalf("load dotenv: %v", err)
		}
		if got := os.Getenv("APP_SERVICE_NAME"); got != "from-env" {
			t.Fatalf("APP_SERVICE_NAME = %q, want from-env", got)
		}
		if got := os.Getenv("SPORTDATA_DOTENV_PROBE"); got != "loaded" {
			t.Fatalf("SPORTDATA_DOTENV_PROBE = %q, want loaded", got)
		}
	})
}

func TestParseUptraceDSNFromOTLPHeaders(t *testing.T) {
	got := parseUptraceDSNFromOTLPHeaders("uptrace-dsn=https://abc@api.uptrace.dev")
	if got != "https://abc@api.uptrace.dev" {
		t.Fatalf("unexpected dsn: %q", got)
	}
	if got := parseUptraceDSNFromOTLPHeaders("x=y"); got != "" {
		t.Fatalf("expected empty dsn, got %q", got)
	}
}
