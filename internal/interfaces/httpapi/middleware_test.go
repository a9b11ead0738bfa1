package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/sportdata-hub/internal/domain/user"
	"github.com/riskibarqy/sportdata-hub/internal/platform/logging"
	"github.com/riskibarqy/sportdata-hub/internal/usecase"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
		wantVary   bool
	}{
		{
			name:       "configured origin is echoed",
			allowed:    []string{"https://scores.example.com"},
			method:     http.MethodGet,
			origin:     "https://scores.example.com",
			wantStatus: http.StatusOK,
			wantOrigin: "https://scores.example.com",
			wantVary:   true,
		},
		{
			name:       "wildcard preflight",
			allowed:    []string{" * "},
			method:     http.MethodOptions,
			origin:     "https://scores.example.com",
			wantStatus: http.StatusNoContent,
			wantOrigin: "*",
		},
		{
			name:       "unknown origin gets no grant",
			allowed:    []string{"https://scores.example.com", ""},
			method:     http.MethodGet,
			origin:     "https://elsewhere.example.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "no origin header passes through",
			allowed:    []string{"*"},
			method:     http.MethodOptions,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/cricket/matches", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tt.allowed, okHandler).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status=%d want=%d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("allow origin=%q want=%q", got, tt.wantOrigin)
			}
			if got := rec.Header().Get("Vary") == "Origin"; got != tt.wantVary {
				t.Fatalf("vary origin=%v want=%v", got, tt.wantVary)
			}
		})
	}
}

func TestShouldTraceRequest(t *testing.T) {
	for _, path := range []string{"/healthz", "/readyz", "/metrics", " /HEALTHZ "} {
		if shouldTraceRequest(path) {
			t.Fatalf("%q must not be traced", path)
		}
	}
	for _, path := range []string{"/v1/sports", "/v1/cricket/matches", "/v1/ws", "/docs"} {
		if !shouldTraceRequest(path) {
			t.Fatalf("%q must be traced", path)
		}
	}
}

func TestStartSpan_OnlyHandlersOpenChildSpans(t *testing.T) {
	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1},
		SpanID:     trace.SpanID{2},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), parent)

	got, span := startSpan(ctx, "httpapi.writeJSON")
	span.End()
	if got != ctx {
		t.Fatalf("helper span must reuse the caller context")
	}
	if span.SpanContext().SpanID() != parent.SpanID() {
		t.Fatalf("helper span must report the parent span")
	}

	if !shouldCreateHTTPAPISpan("httpapi.Handler.Scoring.recordDelivery") {
		t.Fatalf("handler spans must be created")
	}
	if shouldCreateHTTPAPISpan("httpapi.CORS") {
		t.Fatalf("middleware spans must be skipped")
	}
}

type stubVerifier struct {
	principal user.Principal
	err       error
	token     string
}

func (s *stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	s.token = token
	return s.principal, s.err
}

func TestRequireAuth(t *testing.T) {
	var seen user.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = principalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		verifier   TokenVerifier
		header     string
		wantStatus int
	}{
		{name: "no verifier configured", header: "Bearer abc", wantStatus: http.StatusUnauthorized},
		{name: "missing header", verifier: &stubVerifier{}, wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", verifier: &stubVerifier{}, header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{
			name:       "rejected token",
			verifier:   &stubVerifier{err: errors.Join(usecase.ErrUnauthorized, errors.New("expired"))},
			header:     "Bearer abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			verifier:   &stubVerifier{principal: user.Principal{UserID: "user-1"}},
			header:     "bearer  abc ",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = user.Principal{}
			req := httptest.NewRequest(http.MethodPost, "/v1/cricket/teams", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			RequireAuth(tt.verifier, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status=%d want=%d body=%s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				if seen.UserID != "user-1" {
					t.Fatalf("principal not propagated: %+v", seen)
				}
				if v := tt.verifier.(*stubVerifier); v.token != "abc" {
					t.Fatalf("token=%q", v.token)
				}
			}
		})
	}
}

func TestRecoverPanic_WritesServerError(t *testing.T) {
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	recoverPanic(logging.NewNop(), boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sports", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, msgInternalError) || strings.Contains(body, "boom") {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestRequestLogging_RecordsStatus(t *testing.T) {
	var status int
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	wrapped := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		status = rec.status
	})
	rec := httptest.NewRecorder()
	RequestLogging(logging.NewNop(), wrapped).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sports", nil))

	if rec.Code != http.StatusTeapot || status != http.StatusTeapot {
		t.Fatalf("code=%d recorded=%d", rec.Code, status)
	}
}
