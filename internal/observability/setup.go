package observability

import (
	"context"
	"errors"

	"github.com/riskibarqy/sportdata-hub/internal/config"
	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
)

// Setup starts tracing, continuous profiling and the pprof listener as
// configured. The returned func stops them in reverse order.
func Setup(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	shutdownTracing, err := InitUptrace(cfg, logger)
	if err != nil {
		return nil, err
	}

	stopProfiler, err := InitPyroscope(cfg, logger)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, err
	}

	pprofSrv, err := StartPprofServer(cfg, logger)
	if err != nil {
		_ = stopProfiler()
		_ = shutdownTracing(context.Background())
		return nil, err
	}

	return func(ctx context.Context) error {
		return errors.Join(
			StopPprofServer(ctx, pprofSrv),
			stopProfiler(),
			shutdownTracing(ctx),
		)
	}, nil
}
