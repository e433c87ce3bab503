// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/PJH6029/waffle-assignment-2/internal/handler"
	"github.com/PJH6029/waffle-assignment-2/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance. Currently it exposes only a health
// check, used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth; the authenticated
// profile endpoints live under /v1/user and require a valid access
// token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// /refresh rotates the refresh token; /refresh-access issues a new
	// access token without rotating.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a bearer token (revokes every session) or
	// a refresh_token in the body (revokes that session only), so it
	// is registered without the JWT middleware.
	g.POST("/logout", a.Logout)

	me := e.Group("/v1/user", middleware.JWTAuth(jwtSecret))
	me.GET("/me", u.Me)
	me.PUT("/me", u.UpdateMe)
}
