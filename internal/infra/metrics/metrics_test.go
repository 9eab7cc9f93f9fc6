package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"passport/config"
	"passport/internal/domain/service"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMetrics_RecordPassportOperation(t *testing.T) {
	m := New(nil)

	m.RecordPassportOperation("create", service.OutcomeSuccess)
	m.RecordPassportOperation("create", service.OutcomeSuccess)
	m.RecordPassportOperation("update", service.OutcomeFailure)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.operations.WithLabelValues("create", service.OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.operations.WithLabelValues("update", service.OutcomeFailure)))
}

func TestMetrics_Handler(t *testing.T) {
	m := New(nil)
	m.RecordPassportOperation("create", service.OutcomeSuccess)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `passport_operations_total{operation="create",outcome="success"} 1`)
}

func TestMetrics_RegisterDBStats(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "stats.db")), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m := New(nil)
	require.NoError(t, m.RegisterDBStats(sqlDB, "passport"))
	assert.Error(t, m.RegisterDBStats(sqlDB, "passport"), "duplicate registration is rejected")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `go_sql_max_open_connections{db_name="passport"}`)
}

func TestNew_SanitizesServiceName(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.ServiceName = "passport-api"

	m := New(cfg)
	m.RecordPassportOperation("update", service.OutcomeSuccess)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "passport_api_operations_total")
}

func TestSanitizeNamespace(t *testing.T) {
	tests := map[string]string{
		"passport":         "passport",
		"passport-api":     "passport_api",
		"auth.passport.v2": "auth_passport_v2",
		"team/passport é":  "team_passport__",
		"2fa-passport":     "_2fa_passport",
	}

	for name, want := range tests {
		assert.Equal(t, want, sanitizeNamespace(name), name)
	}
}

func TestNew_DottedServiceNameRegisters(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.ServiceName = "auth.passport"

	require.NotPanics(t, func() {
		m := New(cfg)
		m.RecordPassportOperation("create", service.OutcomeFailure)
	})
}
