package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "passport/internal/delivery/context"
	"passport/internal/delivery/http/response"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PassportHandler exposes the passport store over HTTP.
type PassportHandler struct {
	store  usecase.PassportStore
	users  repository.UserRepository
	logger *slog.Logger
}

// NewPassportHandler is the constructor for PassportHandler, injected by Fx.
func NewPassportHandler(store usecase.PassportStore, users repository.UserRepository, logger *slog.Logger) *PassportHandler {
	return &PassportHandler{
		store:  store,
		users:  users,
		logger: logger,
	}
}

// CreateLocalPassportRequest is the payload of POST /users/:userID/passports/local.
type CreateLocalPassportRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UpdatePassportRequest is the payload of PATCH /users/:userID/passports.
// Every field given is used both to find the passport and as its new value.
type UpdatePassportRequest struct {
	ID         string            `json:"id" validate:"omitempty,uuid"`
	Protocol   string            `json:"protocol" validate:"max=32"`
	Provider   string            `json:"provider" validate:"max=64"`
	Identifier string            `json:"identifier" validate:"max=255"`
	Tokens     map[string]string `json:"tokens"`
}

// CreateLocalPassport attaches a password passport to the path user.
func (h *PassportHandler) CreateLocalPassport(c echo.Context) error {
	var input CreateLocalPassportRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid passport input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.pathUser(c)
	if err != nil {
		return err
	}

	result := h.store.CreatePassport(c.Request().Context(), user, input.Password)
	if !result.OK() {
		return errors.WithStack(result.Err)
	}

	return response.Success(c, http.StatusCreated, toUserResponse(result.User), "Passport created successfully")
}

// UpdatePassport updates one passport of the path user.
func (h *PassportHandler) UpdatePassport(c echo.Context) error {
	var input UpdatePassportRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid passport input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.pathUser(c)
	if err != nil {
		return err
	}

	passport := &entity.Passport{
		Protocol:   input.Protocol,
		Provider:   input.Provider,
		Identifier: input.Identifier,
		Tokens:     input.Tokens,
		UserID:     user.ID,
	}
	if input.ID != "" {
		// Validated above.
		passport.ID = uuid.MustParse(input.ID)
	}

	result := h.store.UpdatePassport(c.Request().Context(), user, passport)
	if !result.OK() {
		return errors.WithStack(result.Err)
	}

	return response.Success(c, http.StatusOK, toUserResponse(result.User), "Passport updated successfully")
}

// pathUser loads the user named by the :userID path parameter.
func (h *PassportHandler) pathUser(c echo.Context) (*entity.User, error) {
	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		return nil, domainerrors.ErrInvalidUser.WithDetails("userID must be a UUID")
	}

	user, err := h.users.FindByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, err.Error())
		}
		deliverycontext.LoggerOr(c.Request().Context(), h.logger).Error("Failed to load user",
			slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.WithStack(err)
	}

	return user, nil
}
