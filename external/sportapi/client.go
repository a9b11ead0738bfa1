package sportapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
	"github.com/riskibarqy/sportdata-hub/internal/platform/metrics"
	"github.com/riskibarqy/sportdata-hub/internal/platform/resilience"
	"github.com/riskibarqy/sportdata-hub/internal/usecase"
)

const (
	defaultBaseURL      = "https://sportapi7.p.rapidapi.com/api/v1"
	defaultAPIKeyHeader = "X-RapidAPI-Key"
	maxResponseBytes    = 8 << 20
)

var errTransient = crerr.New("sport api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	APIKeyHeader   string
	APIHost        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	Metrics        *metrics.Recorder
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches raw JSON documents from the sports statistics API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	apiKeyHeader   string
	apiHost        string
	maxRetries     int
	logger         *logging.Logger
	metrics        *metrics.Recorder
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	header := strings.TrimSpace(cfg.APIKeyHeader)
	if header == "" {
		header = defaultAPIKeyHeader
	}

	c := &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		apiKeyHeader:   header,
		apiHost:        strings.TrimSpace(cfg.APIHost),
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		metrics:        cfg.Metrics,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
	c.breaker.OnStateChange(func(from, to resilience.CircuitState) {
		c.logger.Warn("sport api circuit breaker state changed", "from", from, "to", to)
		c.metrics.SetCircuitState(string(to))
	})
	c.metrics.SetCircuitState(string(resilience.CircuitStateClosed))
	return c
}

// Fetch GETs path and returns the response body. A 404 is returned wrapped
// around usecase.ErrUpstreamNotFound.
func (c *Client) Fetch(ctx context.Context, path string) ([]byte, error) {
	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/")

	var raw []byte
	call := func(ctx context.Context) error {
		var err error
		raw, err = c.executeRequest(ctx, fullURL)
		return err
	}

	var err error
	if c.circuitEnabled {
		err = c.breaker.Do(ctx, call, isCircuitFailure)
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "sport api circuit breaker rejected request", "path", path, "state", c.breaker.State())
			return nil, fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, err
	}

	if !sonic.Valid(raw) {
		return nil, crerr.Newf("sport api returned invalid json for %s", path)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set(c.apiKeyHeader, c.apiKey)
		}
		if c.apiHost != "" {
			req.Header.Set("X-RapidAPI-Host", c.apiHost)
		}

		started := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.metrics.ObserveUpstream("error", time.Since(started))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = crerr.Wrapf(errTransient, "send request: %s", c.redact(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			c.metrics.ObserveUpstream(outcomeLabel(resp.StatusCode), time.Since(started))

			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(errTransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, crerr.Wrapf(usecase.ErrUpstreamNotFound, "provider status=404 url=%s", fullURL)
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Wrapf(errTransient, "provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * 500 * time.Millisecond
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("provider request failed")
	}
	c.logger.WarnContext(ctx, "sport api request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) redact(value string) string {
	if c.apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, c.apiKey, "REDACTED")
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, usecase.ErrUpstreamNotFound) || stderrors.Is(err, context.Canceled) {
		return false
	}
	return true
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func outcomeLabel(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "ok"
	case code == http.StatusNotFound:
		return "not_found"
	case code >= 500:
		return "server_error"
	default:
		return "client_error"
	}
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
