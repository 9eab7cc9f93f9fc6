package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "passport/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handleError(t *testing.T, err error) (*httptest.ResponseRecorder, domainerrors.Response) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))).HandleHTTPError(err, c)

	var resp domainerrors.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return rec, resp
}

func TestErrorMiddleware_AppError(t *testing.T) {
	rec, resp := handleError(t, errors.Wrap(domainerrors.ErrPassportNotFound, "no passport matched"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PASSPORT_NOT_FOUND", resp.Error.Code)
}

func TestErrorMiddleware_EchoHTTPError(t *testing.T) {
	rec, resp := handleError(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "method not allowed", resp.Message)
	assert.Equal(t, "HTTP_ERROR", resp.Error.Code)
}

func TestErrorMiddleware_UnknownError(t *testing.T) {
	rec, resp := handleError(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}
