package router

import (
	"github.com/labstack/echo/v4"

	"github.com/PJH6029/waffle-assignment-2/internal/handler"
	"github.com/PJH6029/waffle-assignment-2/internal/middleware"
	"github.com/PJH6029/waffle-assignment-2/internal/model"
)

// RegisterSeminar registers the seminar and enrollment endpoints
// under /v1/seminars. All routes require a valid JWT; creation and
// update additionally require the instructor role claim. cacheMW, when
// non-nil, is applied to the read endpoints only so joins and drops
// always see fresh state.
func RegisterSeminar(e *echo.Echo, sh *handler.SeminarHandler, eh *handler.EnrollmentHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	g := e.Group("/v1/seminars", middleware.JWTAuth(jwtSecret))

	read := []echo.MiddlewareFunc{}
	if cacheMW != nil {
		read = append(read, cacheMW)
	}
	g.GET("", sh.List, read...)
	g.GET("/:id", sh.Get, read...)

	instructor := middleware.RequireRole(model.RoleInstructor)
	g.POST("", sh.Create, instructor)
	g.PUT("/:id", sh.Update, instructor)

	g.POST("/:id/user", eh.Join)
	g.DELETE("/:id/user", eh.Drop)
}
