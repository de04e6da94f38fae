package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/auth-service/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers routes that do not belong to the auth
// surface on the provided Echo instance.  Currently it exposes only a
// health check, which load balancers and monitoring systems can use to
// verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes.  Registration and
// login are the two implemented operations; logout and refresh are
// declared so the API surface is complete, but respond 501 until the
// renewal flow is built.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/auth")
	// Register a POST endpoint to create an account at /auth/registration.
	g.POST("/registration", a.Registration)
	// Register a POST endpoint to authenticate at /auth/login.
	g.POST("/login", a.Login)
	// Declared but unimplemented endpoints of the token lifecycle.
	g.GET("/logout", a.Logout)
	g.GET("/refresh", a.Refresh)
}
