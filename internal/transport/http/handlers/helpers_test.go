package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/infrastructure/memory"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/transport/http/response"
)

type stubProvisioner struct {
	mu    sync.Mutex
	err   error
	calls []int64
}

func (p *stubProvisioner) Provision(_ context.Context, u domain.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, u.ID)
	return p.err
}

type testEnv struct {
	h        *AuthHandler
	svc      *auth.Service
	users    *memory.UserRepo
	profiles *stubProvisioner
	authMW   func(http.Handler) http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUserRepo()
	profiles := &stubProvisioner{}
	svc := auth.NewService(
		users,
		security.NewBcryptHasher(bcrypt.MinCost),
		security.NewJWTSigner("test-secret", "account-auth"),
		memory.NewBlacklist(),
		profiles,
		memory.NewNoopPublisher(),
		auth.Config{TokenTTL: time.Hour},
	)

	return &testEnv{
		h:        NewAuthHandler(svc),
		svc:      svc,
		users:    users,
		profiles: profiles,
		authMW:   middleware.Auth(svc, response.WriteError),
	}
}

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// envelope mirrors response.Envelope with raw data for typed decoding.
type envelope struct {
	Data       json.RawMessage `json:"data"`
	Metadata   json.RawMessage `json:"metadata"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Code       string          `json:"code"`
}

func mustReadEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body: %v; body=%s", err, rr.Body.String())
	}
	if env.StatusCode != rr.Code {
		t.Fatalf("body statusCode %d != http status %d", env.StatusCode, rr.Code)
	}
	return env
}

func mustUnmarshal(t *testing.T, raw json.RawMessage, out any) {
	t.Helper()
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode %s: %v", string(raw), err)
	}
}

func (e *testEnv) do(t *testing.T, h http.HandlerFunc, method, target string, body any, authz string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		rdr = mustJSONBody(t, body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) authed(h http.HandlerFunc) http.HandlerFunc {
	return e.authMW(h).ServeHTTP
}

// registerAndLogin creates an account over HTTP and returns its bearer header.
func (e *testEnv) registerAndLogin(t *testing.T, name, email, password string) string {
	t.Helper()

	rr := e.do(t, e.h.Register, http.MethodPost, "/register",
		map[string]string{"name": name, "email": email, "password": password}, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = e.do(t, e.h.Login, http.MethodPost, "/login",
		map[string]string{"email": email, "password": password}, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var data struct {
		AccessToken string `json:"access_token"`
	}
	mustUnmarshal(t, mustReadEnvelope(t, rr).Data, &data)
	return "Bearer " + data.AccessToken
}
