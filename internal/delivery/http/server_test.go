package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"passport/config"
	"passport/internal/delivery/http/middleware"
	"passport/internal/delivery/http/router"
	"passport/internal/delivery/http/router/handler"
	"passport/internal/infra/auth"
	"passport/internal/infra/metrics"
	"passport/internal/infra/persistence/postgres"
	"passport/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{}
	cfg.Env.ServiceName = "passport-test"
	cfg.HTTP.ProxyHeaders = true
	cfg.SecretKey.Access = "test-secret"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := postgres.OpenSQLite(filepath.Join(t.TempDir(), "passport.db"), nil)
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	issuer, err := auth.NewJWTIssuer(cfg)
	require.NoError(t, err)

	m := metrics.New(cfg)
	users := postgres.NewUserRepository(db)
	store := impl.NewPassportStore(impl.PassportStoreParams{
		Collection: postgres.NewPassportCollection(db),
		Hasher:     auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		Issuer:     issuer,
		Recorder:   metrics.NewOperationRecorder(m),
		Logger:     logger,
	})

	return newEcho(HTTPParams{
		Config: cfg,
		Logger: logger,
		RouterParams: router.RouterParams{
			UserHandler:     handler.NewUserHandler(users, logger),
			PassportHandler: handler.NewPassportHandler(store, users, logger),
			Metrics:         m,
		},
		RequestID:       middleware.NewRequestIDMiddleware(logger),
		RequestLogger:   middleware.NewLoggerMiddleware(logger, cfg),
		ErrorMiddleware: middleware.NewErrorMiddleware(logger),
	})
}

func do(t *testing.T, e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func registerUser(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()

	rec, env := do(t, e, http.MethodPost, "/users", `{"email":"`+email+`","name":"Alice"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotEmpty(t, env.Data.ID)

	return env.Data.ID
}

func TestServer_Health(t *testing.T) {
	rec, env := do(t, newTestServer(t), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestServer_CreateLocalPassport(t *testing.T) {
	e := newTestServer(t)
	userID := registerUser(t, e, "alice@example.com")

	rec, env := do(t, e, http.MethodPost, "/users/"+userID+"/passports/local", `{"password":"correct horse"}`)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)
	assert.Equal(t, userID, env.Data.ID, "the user is echoed back")
	assert.Equal(t, "alice@example.com", env.Data.Email)
}

func TestServer_CreateLocalPassport_Errors(t *testing.T) {
	e := newTestServer(t)
	userID := registerUser(t, e, "bob@example.com")

	tests := []struct {
		name     string
		target   string
		body     string
		wantCode int
		wantErr  string
	}{
		{
			name:     "unknown user",
			target:   "/users/6f9619ff-8b86-d011-b42d-00cf4fc964ff/passports/local",
			body:     `{"password":"correct horse"}`,
			wantCode: http.StatusNotFound,
			wantErr:  "USER_NOT_FOUND",
		},
		{
			name:     "malformed user id",
			target:   "/users/not-a-uuid/passports/local",
			body:     `{"password":"correct horse"}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "INVALID_USER",
		},
		{
			name:     "password too short",
			target:   "/users/" + userID + "/passports/local",
			body:     `{"password":"short"}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_FAILED",
		},
		{
			name:     "malformed body",
			target:   "/users/" + userID + "/passports/local",
			body:     `{"password":`,
			wantCode: http.StatusBadRequest,
			wantErr:  "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, e, http.MethodPost, tt.target, tt.body)

			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantErr, env.Error.Code)
		})
	}
}

func TestServer_UpdatePassport(t *testing.T) {
	e := newTestServer(t)
	userID := registerUser(t, e, "carol@example.com")

	rec, _ := do(t, e, http.MethodPost, "/users/"+userID+"/passports/local", `{"password":"correct horse"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, e, http.MethodPatch, "/users/"+userID+"/passports", `{"protocol":"local"}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, userID, env.Data.ID)

	// The body is also the match criteria, so an unknown provider matches nothing.
	rec, env = do(t, e, http.MethodPatch, "/users/"+userID+"/passports", `{"provider":"github"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	require.NotNil(t, env.Error)
	assert.Equal(t, "PASSPORT_NOT_FOUND", env.Error.Code)
}

func TestServer_Metrics(t *testing.T) {
	e := newTestServer(t)
	userID := registerUser(t, e, "dave@example.com")
	do(t, e, http.MethodPost, "/users/"+userID+"/passports/local", `{"password":"correct horse"}`)

	rec, _ := do(t, e, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `passport_test_operations_total{operation="create",outcome="success"} 1`)
}

func TestServer_ProxyHeaders(t *testing.T) {
	e := newTestServer(t)
	e.GET("/forwarded", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Request().Header.Get("X-Forwarded-For")+"|"+c.Request().Header.Get("X-Forwarded-Host"))
	})

	req := httptest.NewRequest(http.MethodGet, "http://api.example.com/forwarded", nil)
	req.RemoteAddr = "10.0.0.5:51234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "203.0.113.7, 10.0.0.5|api.example.com", rec.Body.String())
}

func TestServer_RealIPIgnoresClientSuppliedChain(t *testing.T) {
	e := newTestServer(t)
	e.GET("/ip", func(c echo.Context) error {
		return c.String(http.StatusOK, c.RealIP())
	})

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{name: "direct client spoofing the chain", remoteAddr: "198.51.100.9:4000", forwarded: "203.0.113.7", want: "198.51.100.9"},
		{name: "client behind a private proxy", remoteAddr: "10.0.0.5:51234", forwarded: "198.51.100.9", want: "198.51.100.9"},
		{name: "no chain", remoteAddr: "198.51.100.9:4000", want: "198.51.100.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ip", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}
