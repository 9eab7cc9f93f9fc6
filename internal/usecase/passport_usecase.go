// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"passport/internal/domain/entity"
)

// PassportResult is the outcome of a passport operation. Exactly one of User
// and Err is set: callers must check Err before trusting User.
type PassportResult struct {
	User *entity.User
	Err  error
}

// OK reports whether the operation succeeded.
func (r PassportResult) OK() bool {
	return r.Err == nil
}

// PassportStore associates authentication methods with users.
//
// Operations never return bare errors or panic on storage failures; every
// failure is reported through PassportResult.Err. On success the input user
// is echoed back, not the stored passport.
type PassportStore interface {
	// CreatePassport registers a local password passport for user.
	// Repeated calls create additional passports.
	CreatePassport(ctx context.Context, user *entity.User, password string) PassportResult

	// UpdatePassport updates a single passport, using passport both as the
	// match criteria and as the update document.
	UpdatePassport(ctx context.Context, user *entity.User, passport *entity.Passport) PassportResult

	// UpdatePassportWhere updates the single passport matching filter with the
	// non-zero fields of update.
	UpdatePassportWhere(ctx context.Context, user *entity.User, filter, update *entity.Passport) PassportResult
}
