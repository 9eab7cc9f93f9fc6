// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "passport/internal/delivery/context"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	operationCreate = "create"
	operationUpdate = "update"
)

// passportStore implements the PassportStore interface on top of an injected collection.
type passportStore struct {
	collection repository.PassportCollection
	hasher     service.PasswordHasher
	issuer     service.AccessTokenIssuer
	publisher  service.EventPublisher
	recorder   service.OperationRecorder
	logger     *slog.Logger
	now        func() time.Time
}

// PassportStoreParams holds dependencies for the passport store, injected by Fx.
type PassportStoreParams struct {
	fx.In

	Collection repository.PassportCollection
	Hasher     service.PasswordHasher
	Issuer     service.AccessTokenIssuer `optional:"true"`
	Publisher  service.EventPublisher    `optional:"true"`
	Recorder   service.OperationRecorder `optional:"true"`
	Logger     *slog.Logger
}

// NewPassportStore is the constructor for passportStore.
func NewPassportStore(params PassportStoreParams) usecase.PassportStore {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &passportStore{
		collection: params.Collection,
		hasher:     params.Hasher,
		issuer:     params.Issuer,
		publisher:  params.Publisher,
		recorder:   params.Recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the store's logger.
func (s *passportStore) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOr(ctx, s.logger)
}

// CreatePassport hashes password, issues an access token and persists a local passport for user.
func (s *passportStore) CreatePassport(ctx context.Context, user *entity.User, password string) usecase.PassportResult {
	if user == nil || user.ID == uuid.Nil {
		return s.fail(ctx, operationCreate, domainerrors.ErrInvalidUser.WrapMessage("user with an ID is required"))
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.log(ctx).Error("Failed to hash passport password", slog.Any("userID", user.ID), slog.Any("error", err))

		return s.fail(ctx, operationCreate, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error()))
	}

	passport := &entity.Passport{
		ID:       uuid.New(),
		Protocol: entity.ProtocolLocal,
		Provider: entity.ProviderLocal,
		Password: hashed,
		UserID:   user.ID,
	}

	if s.issuer != nil {
		token, err := s.issuer.Issue(user.ID, passport.ID)
		if err != nil {
			return s.fail(ctx, operationCreate, errors.Wrap(domainerrors.ErrAccessTokenFailed, err.Error()))
		}
		passport.AccessToken = token
	}

	if err := s.collection.Create(ctx, passport); err != nil {
		s.log(ctx).Warn("Failed to create passport", slog.Any("userID", user.ID), slog.Any("error", err))

		return s.fail(ctx, operationCreate, errors.Wrap(err, "failed to create passport"))
	}

	s.log(ctx).Info("Passport created", slog.Any("userID", user.ID), slog.Any("passportID", passport.ID))
	s.publish(ctx, service.PassportEventCreated, user, passport)

	return s.succeed(operationCreate, user)
}

// UpdatePassport passes passport as both filter and update document.
func (s *passportStore) UpdatePassport(ctx context.Context, user *entity.User, passport *entity.Passport) usecase.PassportResult {
	return s.UpdatePassportWhere(ctx, user, passport, passport)
}

// UpdatePassportWhere updates the passport matching filter with update.
// A password in update is hashed before it reaches the collection.
func (s *passportStore) UpdatePassportWhere(ctx context.Context, user *entity.User, filter, update *entity.Passport) usecase.PassportResult {
	if user == nil || user.ID == uuid.Nil {
		return s.fail(ctx, operationUpdate, domainerrors.ErrInvalidUser.WrapMessage("user with an ID is required"))
	}
	if filter == nil || !filter.HasFilter() {
		return s.fail(ctx, operationUpdate, domainerrors.ErrPassportFilterInvalid.WithCause(repository.ErrPassportFilterEmpty))
	}
	if update == nil {
		return s.fail(ctx, operationUpdate, domainerrors.ErrPassportFilterInvalid.WithDetails("update document is required"))
	}
	if err := checkFieldGroups(filter, update); err != nil {
		return s.fail(ctx, operationUpdate, err)
	}

	if update.Password != "" {
		hashed, err := s.hasher.Hash(update.Password)
		if err != nil {
			s.log(ctx).Error("Failed to hash passport password", slog.Any("userID", user.ID), slog.Any("error", err))

			return s.fail(ctx, operationUpdate, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error()))
		}

		// filter and update may be the same value; the caller's copy keeps its plaintext.
		hashedUpdate := *update
		hashedUpdate.Password = hashed
		update = &hashedUpdate
	}

	if err := s.collection.UpdateOne(ctx, filter, update); err != nil {
		if errors.Is(err, repository.ErrPassportNotFound) {
			err = errors.Wrap(domainerrors.ErrPassportNotFound, err.Error())
		}
		s.log(ctx).Warn("Failed to update passport", slog.Any("passportID", filter.ID), slog.Any("error", err))

		return s.fail(ctx, operationUpdate, errors.Wrap(err, "failed to update passport"))
	}

	s.publish(ctx, service.PassportEventUpdated, user, filter)

	return s.succeed(operationUpdate, user)
}

// checkFieldGroups rejects updates that write the field group the passport's
// protocol leaves inactive. The protocol comes from filter, then update; when
// neither names one the collection record decides and nothing is checked.
func checkFieldGroups(filter, update *entity.Passport) error {
	target := entity.Passport{Protocol: filter.Protocol}
	if target.Protocol == "" {
		target.Protocol = update.Protocol
	}
	if target.Protocol == "" {
		return nil
	}

	if target.IsLocal() {
		if update.Identifier != "" || len(update.Tokens) > 0 {
			return domainerrors.ErrPassportFieldGroup.WithDetails("local passports take no identifier or tokens")
		}

		return nil
	}

	if update.Password != "" || update.AccessToken != "" {
		return domainerrors.ErrPassportFieldGroup.WithDetails(target.Protocol + " passports take no password or access token")
	}

	return nil
}

func (s *passportStore) succeed(operation string, user *entity.User) usecase.PassportResult {
	s.record(operation, service.OutcomeSuccess)

	return usecase.PassportResult{User: user}
}

func (s *passportStore) fail(ctx context.Context, operation string, err error) usecase.PassportResult {
	s.record(operation, service.OutcomeFailure)
	s.log(ctx).Debug("Passport operation failed",
		slog.String("operation", operation),
		slog.String("code", domainerrors.Code(err)),
		slog.Any("error", err),
	)

	return usecase.PassportResult{Err: err}
}

func (s *passportStore) record(operation, outcome string) {
	if s.recorder != nil {
		s.recorder.RecordPassportOperation(operation, outcome)
	}
}

// publish announces a passport change. Failures are logged and never affect the result.
func (s *passportStore) publish(ctx context.Context, eventType string, user *entity.User, passport *entity.Passport) {
	if s.publisher == nil {
		return
	}

	event := &service.PassportEvent{
		RequestID:  deliverycontext.RequestID(ctx),
		Type:       eventType,
		Protocol:   passport.Protocol,
		OccurredAt: s.now().UTC(),
	}
	if passport.Provider != "" || passport.IsLocal() {
		event.Provider = passport.ProviderOrDefault()
	}
	if passport.ID != uuid.Nil {
		event.PassportID = passport.ID.String()
	}
	switch {
	case user != nil && user.ID != uuid.Nil:
		event.UserID = user.ID.String()
	case passport.UserID != uuid.Nil:
		event.UserID = passport.UserID.String()
	}

	if err := s.publisher.PublishPassportEvent(ctx, event); err != nil {
		s.log(ctx).Warn("Failed to publish passport event", slog.String("type", eventType), slog.Any("error", err))
	}
}
