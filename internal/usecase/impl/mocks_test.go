package impl

import (
	"context"
	"io"
	"log/slog"

	"passport/internal/domain/entity"
	"passport/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockPassportCollection struct {
	mock.Mock
}

func (m *mockPassportCollection) Create(ctx context.Context, passport *entity.Passport) error {
	return m.Called(ctx, passport).Error(0)
}

func (m *mockPassportCollection) UpdateOne(ctx context.Context, filter *entity.Passport, update *entity.Passport) error {
	return m.Called(ctx, filter, update).Error(0)
}

type mockPasswordHasher struct {
	mock.Mock
}

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

type mockAccessTokenIssuer struct {
	mock.Mock
}

func (m *mockAccessTokenIssuer) Issue(userID, passportID uuid.UUID) (string, error) {
	args := m.Called(userID, passportID)

	return args.String(0), args.Error(1)
}

func (m *mockAccessTokenIssuer) Validate(token string) (*service.AccessTokenClaims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*service.AccessTokenClaims)

	return claims, args.Error(1)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) PublishPassportEvent(ctx context.Context, event *service.PassportEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventPublisher) Close() error {
	return m.Called().Error(0)
}

type countingRecorder struct {
	counts map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{counts: map[string]int{}}
}

func (r *countingRecorder) RecordPassportOperation(operation, outcome string) {
	r.counts[operation+"/"+outcome]++
}
