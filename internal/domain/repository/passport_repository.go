// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"passport/internal/domain/entity"
)

// Domain-specific errors for passport persistence.
var (
	// ErrPassportNotFound is returned when no passport matches an update filter.
	ErrPassportNotFound = errors.New("passport not found")
	// ErrPassportFilterEmpty is returned when an update filter carries no identifying field.
	ErrPassportFilterEmpty = errors.New("passport filter has no identifying fields")
)

// PassportCollection is the storage capability the passport store is built on.
// Implementations own atomicity of a single write; callers add no locking.
type PassportCollection interface {
	// Create persists a new passport. Generated values (ID, timestamps) are written back.
	Create(ctx context.Context, passport *entity.Passport) error

	// UpdateOne applies the non-zero fields of update to a single passport matching
	// the non-zero identifying fields of filter.
	UpdateOne(ctx context.Context, filter *entity.Passport, update *entity.Passport) error
}
