package postgres

import (
	"context"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// passportCollection implements repository.PassportCollection on a GORM handle.
type passportCollection struct {
	db *gorm.DB
}

// NewPassportCollection is the constructor for passportCollection.
// Each handle yields an isolated collection, so several stores can run side by side.
func NewPassportCollection(db *gorm.DB) repository.PassportCollection {
	return &passportCollection{db: db}
}

// Create persists a new passport record.
func (c *passportCollection) Create(ctx context.Context, passport *entity.Passport) error {
	passportM := fromPassportDomain(passport)

	if err := c.db.WithContext(ctx).Create(passportM).Error; err != nil {
		switch violatedConstraint(err) {
		case constraintForeignKey:
			return domainerrors.ErrInvalidUser.WrapMessage("passport references an unknown user")
		case constraintUnique:
			return domainerrors.ErrPassportAlreadyExists.WrapMessage("passport already exists")
		case constraintNotNull:
			return domainerrors.ErrPassportCreationFailed.WrapMessage("missing required passport information")
		default:
			return domainerrors.NewDatabaseExecuteError(err, "failed to create passport")
		}
	}

	// Update the entity with generated values
	passport.ID = passportM.ID
	passport.Provider = passportM.Provider
	passport.CreatedAt = passportM.CreatedAt
	passport.UpdatedAt = passportM.UpdatedAt

	return nil
}

// UpdateOne updates the first passport matching filter with the non-zero fields of update.
func (c *passportCollection) UpdateOne(ctx context.Context, filter *entity.Passport, update *entity.Passport) error {
	if filter == nil || !filter.HasFilter() {
		return repository.ErrPassportFilterEmpty
	}
	if update == nil {
		return errors.New("passport update document is nil")
	}

	db := c.db.WithContext(ctx)

	var target model.PassportModel
	err := applyPassportFilter(db.Model(&model.PassportModel{}), filter).
		Select("id").
		Order("created_at").
		Take(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.ErrPassportNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to find passport")
	}

	changes := fromPassportDomain(update)
	changes.ID = uuid.Nil

	result := db.Model(&model.PassportModel{ID: target.ID}).Updates(changes)
	if err := result.Error; err != nil {
		switch violatedConstraint(err) {
		case constraintForeignKey:
			return domainerrors.ErrInvalidUser.WrapMessage("passport references an unknown user")
		case constraintUnique:
			return domainerrors.ErrPassportAlreadyExists.WrapMessage("passport already exists")
		default:
			return domainerrors.NewDatabaseExecuteError(err, "failed to update passport")
		}
	}

	return nil
}

// applyPassportFilter narrows a query by every identifying field set on filter.
func applyPassportFilter(query *gorm.DB, filter *entity.Passport) *gorm.DB {
	if filter.ID != uuid.Nil {
		query = query.Where("id = ?", filter.ID)
	}
	if filter.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Protocol != "" {
		query = query.Where("protocol = ?", filter.Protocol)
	}
	if filter.Provider != "" {
		query = query.Where("provider = ?", filter.Provider)
	}
	if filter.Identifier != "" {
		query = query.Where("identifier = ?", filter.Identifier)
	}

	return query
}

// --- Mapper Functions ---

// toPassportDomain converts a GORM PassportModel to a domain Passport entity.
func toPassportDomain(data *model.PassportModel) *entity.Passport {
	if data == nil {
		return nil
	}

	return &entity.Passport{
		ID:          data.ID,
		Protocol:    data.Protocol,
		Password:    data.Password,
		AccessToken: data.AccessToken,
		Provider:    data.Provider,
		Identifier:  data.Identifier,
		Tokens:      data.Tokens,
		UserID:      data.UserID,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromPassportDomain converts a domain Passport entity to a GORM PassportModel.
func fromPassportDomain(data *entity.Passport) *model.PassportModel {
	if data == nil {
		return nil
	}

	return &model.PassportModel{
		ID:          data.ID,
		Protocol:    data.Protocol,
		Password:    data.Password,
		AccessToken: data.AccessToken,
		Provider:    data.Provider,
		Identifier:  data.Identifier,
		Tokens:      data.Tokens,
		UserID:      data.UserID,
	}
}
