// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"passport/internal/delivery/http/router/handler"
	"passport/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler     *handler.UserHandler
	PassportHandler *handler.PassportHandler
	Metrics         *metrics.Metrics `optional:"true"`
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler     *handler.UserHandler
	passportHandler *handler.PassportHandler
	metrics         *metrics.Metrics
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:     params.UserHandler,
		passportHandler: params.PassportHandler,
		metrics:         params.Metrics,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	if r.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.metrics.Handler()))
	}

	e.POST("/users", r.userHandler.RegisterUser)

	passportGroup := e.Group("/users/:userID/passports")
	{
		passportGroup.POST("/local", r.passportHandler.CreateLocalPassport)
		passportGroup.PATCH("", r.passportHandler.UpdatePassport)
	}
}
