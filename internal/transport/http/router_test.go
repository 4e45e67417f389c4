package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/No0oD/Stajh2Test/internal/config"
	"github.com/No0oD/Stajh2Test/internal/infrastructure/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingMailer struct {
	mu   sync.Mutex
	last map[string]string
}

func (m *capturingMailer) SendEmail(_ context.Context, to, _, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		m.last = map[string]string{}
	}
	m.last[to] = htmlBody
	return nil
}

var codeInBody = regexp.MustCompile(`>(\d{4})</div>`)

func (m *capturingMailer) code(t *testing.T, to string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	match := codeInBody.FindStringSubmatch(m.last[to])
	require.Len(t, match, 2, "no code in email to %s", to)
	return match[1]
}

type testServer struct {
	h      http.Handler
	mailer *capturingMailer
	codes  *memstore.VerificationRepo
	now    time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ts := &testServer{
		mailer: &capturingMailer{},
		codes:  memstore.NewVerificationRepo(),
		now:    time.UnixMilli(0),
	}
	cfg := &config.Config{
		AllowedOrigins: []string{"*"},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		CodeTTL:        10 * time.Minute,
	}
	ts.h = NewRouter(ctx, cfg, &Deps{
		UserRepo:         memstore.NewUserRepo(),
		VerificationRepo: ts.codes,
		Mailer:           ts.mailer,
		Now:              func() time.Time { return ts.now },
	})
	return ts
}

func (ts *testServer) post(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	w := httptest.NewRecorder()
	ts.h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, &buf))
	return w
}

func TestRouter_Root(t *testing.T) {
	ts := newTestServer(t)
	w := httptest.NewRecorder()
	ts.h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "API is working", w.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	ts := newTestServer(t)
	ts.post(t, "/send-verification-email", map[string]string{"email": "nobody@x.io"})

	w := httptest.NewRecorder()
	ts.h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reset_codes_issued_total")
}

func TestRouter_PasswordResetFlow(t *testing.T) {
	ts := newTestServer(t)
	email := "user@example.com"

	w := ts.post(t, "/users", map[string]string{
		"login": "alice", "email": email, "password": "secret1", "code": "app",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.post(t, "/reset-password", map[string]string{"email": email, "password": "newpass1"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.post(t, "/send-verification-email", map[string]string{"email": email})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	code := ts.mailer.code(t, email)

	wrong := "1000"
	if code == wrong {
		wrong = "1001"
	}
	w = ts.post(t, "/verify-code", map[string]string{"email": email, "code": wrong})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ts.now = ts.now.Add(5 * time.Minute)
	w = ts.post(t, "/verify-code", map[string]string{"email": email, "code": code})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	rec, err := ts.codes.Get(context.Background(), email)
	require.NoError(t, err)
	assert.True(t, rec.Verified)
	require.NotNil(t, rec.VerifiedAt)
	assert.Equal(t, int64(300000), *rec.VerifiedAt)

	w = ts.post(t, "/reset-password", map[string]string{"email": email, "password": "newpass1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 0, ts.codes.Len())

	w = ts.post(t, "/login", map[string]string{"email": email, "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = ts.post(t, "/login", map[string]string{"email": email, "password": "newpass1"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRouter_Login(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated, ts.post(t, "/users", map[string]string{
		"login": "alice", "email": "user@example.com", "password": "secret1", "code": "app",
	}).Code)

	w := ts.post(t, "/login", map[string]string{"email": "user@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"email":"user@example.com"`)

	w = ts.post(t, "/login", map[string]string{"email": "user@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.post(t, "/login", map[string]string{"email": "ghost@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_SendVerification_PaddedEmail(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated, ts.post(t, "/users", map[string]string{
		"login": "alice", "email": "user@example.com", "password": "secret1", "code": "app",
	}).Code)

	w := ts.post(t, "/send-verification-email", map[string]string{"email": "  user@example.com "})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	code := ts.mailer.code(t, "user@example.com")
	w = ts.post(t, "/verify-code", map[string]string{"email": " user@example.com", "code": code})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRouter_ExpiredCode(t *testing.T) {
	ts := newTestServer(t)
	email := "user@example.com"
	require.Equal(t, http.StatusCreated, ts.post(t, "/users", map[string]string{
		"login": "alice", "email": email, "password": "secret1", "code": "app",
	}).Code)
	require.Equal(t, http.StatusOK, ts.post(t, "/send-verification-email", map[string]string{"email": email}).Code)
	code := ts.mailer.code(t, email)

	ts.now = ts.now.Add(11 * time.Minute)
	w := ts.post(t, "/verify-code", map[string]string{"email": email, "code": code})

	assert.Equal(t, http.StatusGone, w.Code)
}

func TestRouter_UnknownUser(t *testing.T) {
	ts := newTestServer(t)

	w := ts.post(t, "/send-verification-email", map[string]string{"email": "ghost@x.io"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, ts.codes.Len())
}

func TestRouter_RateLimited(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewRouter(ctx, &config.Config{AllowedOrigins: []string{"*"}, RateLimitRPS: 0.001, RateLimitBurst: 1}, &Deps{
		UserRepo:         memstore.NewUserRepo(),
		VerificationRepo: memstore.NewVerificationRepo(),
		Mailer:           &capturingMailer{},
	})

	var last int
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/verify-code", bytes.NewBufferString(`{}`)))
		last = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestRouter_RateLimit_SpoofedForwardedFor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewRouter(ctx, &config.Config{AllowedOrigins: []string{"*"}, RateLimitRPS: 0.001, RateLimitBurst: 2}, &Deps{
		UserRepo:         memstore.NewUserRepo(),
		VerificationRepo: memstore.NewVerificationRepo(),
		Mailer:           &capturingMailer{},
	})

	passed := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/verify-code", bytes.NewBufferString(`{"email":"a@x.io","code":"1234"}`))
		req.RemoteAddr = "192.0.2.10:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.1.%d.%d", i/256, i%256))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusTooManyRequests {
			passed++
		}
	}
	assert.Equal(t, 2, passed)
}
