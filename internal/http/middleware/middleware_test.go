package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaozabele/midia/internal/auth"
)

const secret = "0123456789abcdef0123456789abcdef"

func adminRouter(jwt *auth.JWTManager, reached *uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(Auth(jwt))
	r.Use(RequireRoles(auth.RoleMediaAdmin))
	r.With(TenantScope("tenantID")).Get("/tenants/{tenantID}", func(w http.ResponseWriter, r *http.Request) {
		*reached = GetTenant(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func TestAdminChain(t *testing.T) {
	jwt := auth.NewJWTManager(secret, time.Minute)
	tenantID := uuid.New()
	var reached uuid.UUID
	h := adminRouter(jwt, &reached)

	admin, _, err := jwt.GenerateAccessToken("ops", []string{auth.RoleMediaAdmin}, []string{tenantID.String()})
	require.NoError(t, err)
	viewer, _, err := jwt.GenerateAccessToken("ops", []string{"VIEWER"}, []string{auth.AllTenants})
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		path   string
		status int
	}{
		{"sem token", "", "/tenants/" + tenantID.String(), http.StatusUnauthorized},
		{"token inválido", "abc", "/tenants/" + tenantID.String(), http.StatusUnauthorized},
		{"sem papel", viewer, "/tenants/" + tenantID.String(), http.StatusForbidden},
		{"outro tenant", admin, "/tenants/" + uuid.NewString(), http.StatusForbidden},
		{"tenant malformado", admin, "/tenants/abc", http.StatusBadRequest},
		{"ok", admin, "/tenants/" + tenantID.String(), http.StatusNoContent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
	assert.Equal(t, tenantID, reached)
}

func TestAuthReportsExpiredToken(t *testing.T) {
	expired := auth.NewJWTManager(secret, -time.Minute)
	token, _, err := expired.GenerateAccessToken("ops", []string{auth.RoleMediaAdmin}, []string{auth.AllTenants})
	require.NoError(t, err)

	h := Auth(auth.NewJWTManager(secret, time.Minute))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler não deveria ser chamado")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expirado")
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
}

func TestThrottleByClientIP(t *testing.T) {
	throttle := NewThrottle(0.5, 1)
	now := time.Now()
	throttle.now = func() time.Time { return now }
	h := throttle.Middleware(ByClientIP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "10.0.0.1")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.Header.Set("X-Forwarded-For", "10.0.0.2, 10.0.0.3")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)

	now = now.Add(2 * time.Second)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestThrottleSweepsIdleBuckets(t *testing.T) {
	throttle := NewThrottle(1, 1)
	now := time.Now()
	throttle.now = func() time.Time { return now }

	_, ok := throttle.reserve("a")
	require.True(t, ok)
	now = now.Add(throttle.idle + time.Second)
	_, ok = throttle.reserve("b")
	require.True(t, ok)

	assert.Len(t, throttle.buckets, 1)
	assert.Contains(t, throttle.buckets, "b")
}

func TestThrottleBySubjectSkipsAnonymous(t *testing.T) {
	throttle := NewThrottle(0.001, 1)
	h := throttle.Middleware(BySubject)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://painel.gov.br", "*.prefeitura.gov.br"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://painel.gov.br", true},
		{"https://fotos.prefeitura.gov.br", true},
		{"https://prefeitura.gov.br", false},
		{"https://evil.com", false},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", tc.origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if tc.allowed {
			assert.Equal(t, tc.origin, rec.Header().Get("Access-Control-Allow-Origin"), tc.origin)
		} else {
			assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"), tc.origin)
		}
	}

	preflight := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, preflight)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRecoverAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := Logging(logger)(Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"INTERNAL"`)
	assert.Contains(t, buf.String(), "panic recuperado")
	assert.Contains(t, buf.String(), `"status":500`)
}
