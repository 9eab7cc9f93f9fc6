package errors

import (
	"net/http"

	"passport/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a catalog entry. Copies made by WithDetails keep the identity
// of their entry, so errors.Is(err, ErrValidationFailed) holds for both.
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
	cause     error
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

func (e *BaseError) Error() string {
	switch {
	case e.details != "":
		return e.message + ": " + e.details
	case e.cause != nil:
		return e.message + ": " + e.cause.Error()
	default:
		return e.message
	}
}

// Unwrap exposes the cause attached with WithCause.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// Is matches any BaseError with the same error code.
func (e *BaseError) Is(target error) bool {
	var other *BaseError
	if !errors.As(target, &other) {
		return false
	}

	return other.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

func (e *BaseError) HTTPCode() int     { return e.httpCode }
func (e *BaseError) ErrorCode() string { return e.errorCode }
func (e *BaseError) Message() string   { return e.message }
func (e *BaseError) Details() string   { return e.details }

// WithDetails returns a copy of the entry carrying details.
func (e *BaseError) WithDetails(details string) *BaseError {
	clone := *e
	clone.details = details

	return &clone
}

// WithCause returns a copy of the entry that unwraps to cause.
func (e *BaseError) WithCause(cause error) *BaseError {
	clone := *e
	clone.cause = cause

	return &clone
}

// Code returns the business error code of the first AppError in err's chain,
// or "" when err carries none.
func Code(err error) string {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.ErrorCode()
	}

	return ""
}

// Predefined error types
var (
	// User-related errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"找不到該使用者",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"此電子郵件已被註冊",
		"",
	)

	ErrInvalidUser = NewBaseError(
		http.StatusBadRequest,
		"INVALID_USER",
		"無效的使用者",
		"",
	)

	// Passport-related errors
	ErrPassportNotFound = NewBaseError(
		http.StatusNotFound,
		"PASSPORT_NOT_FOUND",
		"找不到認證方式",
		"",
	)

	ErrPassportAlreadyExists = NewBaseError(
		http.StatusConflict,
		"PASSPORT_ALREADY_EXISTS",
		"此認證方式已存在",
		"",
	)

	ErrPassportCreationFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSPORT_CREATION_FAILED",
		"建立認證方式失敗",
		"",
	)

	ErrPassportUpdateFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSPORT_UPDATE_FAILED",
		"更新認證方式失敗",
		"",
	)

	ErrPassportFilterInvalid = NewBaseError(
		http.StatusBadRequest,
		"PASSPORT_FILTER_INVALID",
		"認證方式條件無效",
		"",
	)

	ErrPassportFieldGroup = NewBaseError(
		http.StatusBadRequest,
		"PASSPORT_FIELD_GROUP_INVALID",
		"認證方式欄位與協定不符",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"密碼處理錯誤",
		"",
	)

	ErrAccessTokenFailed = NewBaseError(
		http.StatusInternalServerError,
		"ACCESS_TOKEN_FAILED",
		"存取權杖產生失敗",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"輸入資料驗證失敗",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"系統內部錯誤",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

func (e *DatabaseExecuteError) Error() string {
	return "database execution failed: " + e.err.Error()
}

// Unwrap exposes the underlying driver error.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "資料庫執行失敗"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
