package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promdto "github.com/prometheus/client_model/go"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/logger"
	appCtx "github.com/baechuer/real-time-ressys/services/account-service/internal/pkg/context"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m promdto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = appCtx.GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatalf("expected generated request id")
	}
	if rr.Header().Get(HeaderXRequestID) != seen {
		t.Fatalf("response header %q != ctx %q", rr.Header().Get(HeaderXRequestID), seen)
	}
}

func TestRequestID_KeepsIncoming(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = appCtx.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "rid-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "rid-42" {
		t.Fatalf("expected rid-42, got %q", seen)
	}
}

func TestAccessLog_LogsStatusAndRequestID(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	var buf bytes.Buffer
	prev := logger.Logger
	logger.InitWithWriter(&buf)
	t.Cleanup(func() { logger.Logger = prev })

	h := RequestID(AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/pot", nil)
	req.Header.Set(HeaderXRequestID, "rid-log")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"status":418`, `"path":"/pot"`, `"request_id":"rid-log"`, `"bytes":15`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log, got %s", want, out)
		}
	}
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	before := counterValue(t, requestsTotal.WithLabelValues(http.MethodGet, "/users/{id}", "204"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/7", nil))
	after := counterValue(t, requestsTotal.WithLabelValues(http.MethodGet, "/users/{id}", "204"))

	if after != before+1 {
		t.Fatalf("expected counter to grow by 1, before=%v after=%v", before, after)
	}
}

func TestOutcome(t *testing.T) {
	if Outcome(nil) != "success" {
		t.Fatalf("nil must be success")
	}
	if got := Outcome(domain.ErrInvalidCredentials()); got != "invalid_credentials" {
		t.Fatalf("got %q", got)
	}
	if got := Outcome(errors.New("boom")); got != "internal_error" {
		t.Fatalf("got %q", got)
	}
}

func TestCountAuth_LabelsByOutcome(t *testing.T) {
	ok := authOpsTotal.WithLabelValues(OpLogin, "success")
	bad := authOpsTotal.WithLabelValues(OpLogin, "invalid_credentials")
	okBefore, badBefore := counterValue(t, ok), counterValue(t, bad)

	CountAuth(OpLogin, nil)
	CountAuth(OpLogin, domain.ErrInvalidCredentials())
	CountAuth(OpLogin, domain.ErrInvalidCredentials())

	if got := counterValue(t, ok) - okBefore; got != 1 {
		t.Fatalf("success delta = %v", got)
	}
	if got := counterValue(t, bad) - badBefore; got != 2 {
		t.Fatalf("invalid_credentials delta = %v", got)
	}
}
