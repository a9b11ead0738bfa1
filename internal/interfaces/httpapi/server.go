package httpapi

import (
	"net/http"

	"github.com/riskibarqy/sportdata-hub/internal/domain/sport"
	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
)

type RouterConfig struct {
	Handler  *Handler
	Verifier TokenVerifier
	Logger   *logging.Logger

	// WebSocket serves /v1/ws; Metrics serves /metrics. Either may be nil.
	WebSocket http.Handler
	Metrics   http.Handler

	SwaggerEnabled     bool
	CORSAllowedOrigins []string
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, cfg)
	registerSportDataRoutes(mux, cfg.Handler)
	for _, sp := range sport.All() {
		registerCustomModuleRoutes(mux, cfg.Handler, cfg.Verifier, sp)
	}

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}
