package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/sportdata-hub/internal/domain/resource"
	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string
	SwaggerEnabled     bool

	// DBURL empty runs every repository in memory.
	DBURL                   string
	DBDisablePreparedBinary bool

	CacheBackend string
	RedisURL     string
	CachePrefix  string
	CacheTTLs    resource.TTLs

	SportAPIBaseURL               string
	SportAPIKeyHeader             string
	SportAPIKey                   string
	SportAPIHost                  string
	SportAPITimeout               time.Duration
	SportAPIMaxRetries            int
	SportAPICircuitEnabled        bool
	SportAPICircuitFailureCount   int
	SportAPICircuitOpenTimeout    time.Duration
	SportAPICircuitHalfOpenMaxReq int

	JWTSecret string
	JWTIssuer string

	WSWorkerPoolSize int
	WSSendBuffer     int

	MetricsEnabled             bool
	MetricsNamespace           string
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceCaptureRequestBody  bool
	UptraceRequestBodyMaxBytes int
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

// LoadDotEnv reads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func Load() (Config, error) {
	if err := LoadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "sportdata-hub"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		RedisURL:           strings.TrimSpace(getEnv("REDIS_URL", "")),
		CachePrefix:        strings.TrimSpace(getEnv("CACHE_PREFIX", "sportdata:")),
		SportAPIBaseURL:    strings.TrimSpace(getEnv("SPORTAPI_BASE_URL", "https://sportapi7.p.rapidapi.com/api/v1")),
		SportAPIKeyHeader:  strings.TrimSpace(getEnv("SPORTAPI_KEY_HEADER", "X-RapidAPI-Key")),
		SportAPIKey:        strings.TrimSpace(getEnv("SPORTAPI_KEY", "")),
		SportAPIHost:       strings.TrimSpace(getEnv("SPORTAPI_HOST", "")),
		JWTSecret:          strings.TrimSpace(getEnv("JWT_SECRET", "")),
		JWTIssuer:          strings.TrimSpace(getEnv("JWT_ISSUER", "")),
		MetricsNamespace:   strings.TrimSpace(getEnv("METRICS_NAMESPACE", "sportdata_hub")),
		PprofAddr:          strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),

		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
	}

	if cfg.LogLevel, err = logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")); err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	if cfg.SwaggerEnabled, err = getEnvAsBool("SWAGGER_ENABLED", swaggerDefault); err != nil {
		return Config{}, err
	}
	if cfg.ReadTimeout, err = getEnvAsPositiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsPositiveDuration("APP_WRITE_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getEnvAsPositiveDuration("APP_SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", "true"); err != nil {
		return Config{}, err
	}

	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(getEnv("CACHE_BACKEND", CacheBackendMemory)))
	switch cfg.CacheBackend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL is required when CACHE_BACKEND=redis")
		}
	default:
		return Config{}, fmt.Errorf("invalid CACHE_BACKEND %q: valid values are %s, %s", cfg.CacheBackend, CacheBackendMemory, CacheBackendRedis)
	}
	if cfg.CacheTTLs, err = loadCacheTTLs(); err != nil {
		return Config{}, err
	}

	if cfg.SportAPITimeout, err = getEnvAsPositiveDuration("SPORTAPI_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.SportAPIMaxRetries, err = getEnvAsInt("SPORTAPI_MAX_RETRIES", 2); err != nil {
		return Config{}, fmt.Errorf("parse SPORTAPI_MAX_RETRIES: %w", err)
	}
	if cfg.SportAPIMaxRetries < 0 {
		return Config{}, fmt.Errorf("SPORTAPI_MAX_RETRIES must be >= 0")
	}
	if cfg.SportAPICircuitEnabled, err = getEnvAsBool("SPORTAPI_CIRCUIT_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.SportAPICircuitFailureCount, err = getEnvAsInt("SPORTAPI_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, fmt.Errorf("parse SPORTAPI_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.SportAPICircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SPORTAPI_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.SportAPICircuitOpenTimeout, err = getEnvAsPositiveDuration("SPORTAPI_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.SportAPICircuitHalfOpenMaxReq, err = getEnvAsInt("SPORTAPI_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return Config{}, fmt.Errorf("parse SPORTAPI_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.SportAPICircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("SPORTAPI_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	if appEnv == EnvProd && cfg.SportAPIKey == "" {
		return Config{}, fmt.Errorf("SPORTAPI_KEY is required when APP_ENV=%s", EnvProd)
	}

	if appEnv == EnvProd && cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required when APP_ENV=%s", EnvProd)
	}

	if cfg.WSWorkerPoolSize, err = getEnvAsInt("WS_WORKER_POOL_SIZE", 64); err != nil {
		return Config{}, fmt.Errorf("parse WS_WORKER_POOL_SIZE: %w", err)
	}
	if cfg.WSWorkerPoolSize < 1 {
		return Config{}, fmt.Errorf("WS_WORKER_POOL_SIZE must be >= 1")
	}
	if cfg.WSSendBuffer, err = getEnvAsInt("WS_SEND_BUFFER", 32); err != nil {
		return Config{}, fmt.Errorf("parse WS_SEND_BUFFER: %w", err)
	}
	if cfg.WSSendBuffer < 1 {
		return Config{}, fmt.Errorf("WS_SEND_BUFFER must be >= 1")
	}

	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadObservability(cfg *Config) error {
	var err error
	if cfg.MetricsEnabled, err = getEnvAsBool("METRICS_ENABLED", "true"); err != nil {
		return err
	}

	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", "false"); err != nil {
		return err
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceCaptureRequestBody, err = getEnvAsBool("UPTRACE_CAPTURE_REQUEST_BODY", "false"); err != nil {
		return err
	}
	if cfg.UptraceRequestBodyMaxBytes, err = getEnvAsInt("UPTRACE_REQUEST_BODY_MAX_BYTES", 8192); err != nil {
		return fmt.Errorf("parse UPTRACE_REQUEST_BODY_MAX_BYTES: %w", err)
	}
	if cfg.UptraceRequestBodyMaxBytes <= 0 {
		return fmt.Errorf("UPTRACE_REQUEST_BODY_MAX_BYTES must be > 0")
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return err
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	return nil
}

// loadCacheTTLs applies CACHE_TTL_<CLASS> overrides on top of the defaults.
func loadCacheTTLs() (resource.TTLs, error) {
	ttls := resource.DefaultTTLs()
	overrides := []struct {
		key   string
		class resource.TTLClass
	}{
		{"CACHE_TTL_LIVE", resource.TTLLive},
		{"CACHE_TTL_FIXTURE", resource.TTLFixture},
		{"CACHE_TTL_SEMI_STATIC", resource.TTLSemiStatic},
		{"CACHE_TTL_STATIC", resource.TTLStatic},
	}
	for _, o := range overrides {
		d, err := getEnvAsPositiveDuration(o.key, ttls[o.class].String())
		if err != nil {
			return nil, err
		}
		ttls[o.class] = d
	}
	return ttls, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
