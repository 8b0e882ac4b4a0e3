package router

import (
	"dojo-events/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	AuthController *controller.AuthController
}

func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{AuthController: authController}
}

func (r *AuthRouter) Setup(e *echo.Echo) {
	authRoutes := e.Group("/auth")
	authRoutes.GET("/google", r.AuthController.GoogleAuth)
	authRoutes.GET("/google/callback", r.AuthController.GoogleCallback)
}
