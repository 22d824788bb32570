// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"authflow/internal/delivery/http/middleware"
	"authflow/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	authGroup := e.Group("/api/auth")
	{
		// Static segments win over :provider, so these must not be read as provider names.
		authGroup.GET("/callback", r.authHandler.Callback)
		authGroup.GET("/token/verify", handler.VerifyToken, r.authMiddleware.Authenticate)
		authGroup.DELETE("/session", r.authHandler.SignOut, r.authMiddleware.Authenticate)

		authGroup.GET("/:provider/login", r.authHandler.StartLogin)
		authGroup.GET("/:provider", r.authHandler.Callback)
		authGroup.POST("/:provider", r.authHandler.CompleteRegistration)
	}
}
