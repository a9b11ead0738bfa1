package observability

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/riskibarqy/sportdata-hub/internal/config"
	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "sportdata-hub",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitUptrace_EnabledWithoutDSNIsNoop(t *testing.T) {
	cfg := config.Config{UptraceEnabled: true, UptraceDSN: "  "}

	shutdown, err := InitUptrace(cfg, nil)
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestSetup_AllDisabled(t *testing.T) {
	shutdown, err := Setup(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestPprofServer_StartAndStop(t *testing.T) {
	srv, err := StartPprofServer(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	if err != nil || srv == nil {
		t.Fatalf("expected pprof server, err=%v", err)
	}

	resp, err := http.Get("http://" + srv.Addr + "/debug/pprof/cmdline")
	if err != nil {
		t.Fatalf("get cmdline: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cmdline status=%d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := StopPprofServer(ctx, srv); err != nil {
		t.Fatalf("stop pprof: %v", err)
	}
}

func TestPprofServer_Disabled(t *testing.T) {
	srv, err := StartPprofServer(config.Config{}, nil)
	if err != nil || srv != nil {
		t.Fatalf("expected nil server when disabled, got %v %v", srv, err)
	}
	if err := StopPprofServer(context.Background(), nil); err != nil {
		t.Fatalf("stop nil server: %v", err)
	}
}

func TestPprofServer_BadAddr(t *testing.T) {
	if _, err := StartPprofServer(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:-1"}, logging.NewNop()); err == nil {
		t.Fatalf("expected listen error")
	}
}
