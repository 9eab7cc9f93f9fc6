package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_WrapMessageKeepsIdentity(t *testing.T) {
	err := ErrPassportAlreadyExists.WrapMessage("local passport already linked")

	assert.True(t, stderrors.Is(err, ErrPassportAlreadyExists))
	assert.Contains(t, err.Error(), "local passport already linked")

	var appErr AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.HTTPCode())
	assert.Equal(t, "PASSPORT_ALREADY_EXISTS", appErr.ErrorCode())
}

func TestBaseError_WithDetails(t *testing.T) {
	detailed := ErrValidationFailed.WithDetails("password is required")

	assert.Equal(t, "password is required", detailed.Details())
	assert.Empty(t, ErrValidationFailed.Details())
	assert.Equal(t, ErrValidationFailed.ErrorCode(), detailed.ErrorCode())
}

func TestDatabaseExecuteError(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewDatabaseExecuteError(cause, "failed to create passport")

	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", err.ErrorCode())
	assert.Equal(t, "failed to create passport", err.Details())
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, stderrors.Is(err, cause))
}

func TestBaseError_IsMatchesDetailedCopies(t *testing.T) {
	detailed := ErrValidationFailed.WithDetails("password is required")

	assert.True(t, stderrors.Is(detailed, ErrValidationFailed))
	assert.False(t, stderrors.Is(detailed, ErrInvalidUser))
	assert.Equal(t, "輸入資料驗證失敗: password is required", detailed.Error())
}

func TestCode(t *testing.T) {
	assert.Equal(t, "PASSPORT_NOT_FOUND", Code(ErrPassportNotFound.WrapMessage("update passport")))
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", Code(NewDatabaseExecuteError(stderrors.New("timeout"), "")))
	assert.Empty(t, Code(stderrors.New("plain")))
	assert.Empty(t, Code(nil))
}

func TestBaseError_WithCause(t *testing.T) {
	cause := stderrors.New("filter has no identifying fields")
	err := ErrPassportFilterInvalid.WithCause(cause)

	assert.True(t, stderrors.Is(err, ErrPassportFilterInvalid))
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, "認證方式條件無效: filter has no identifying fields", err.Error())
	assert.Nil(t, ErrPassportFilterInvalid.Unwrap())
}
