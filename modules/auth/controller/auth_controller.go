package controller

import (
	"net/http"

	"dojo-events/core/controller"
	"dojo-events/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

func NewAuthController(authService service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    authService,
	}
}

// GoogleAuth redirects the browser to the Google sign-in page. With
// ?format=json the URL is returned instead.
func (controller *AuthController) GoogleAuth(c echo.Context) error {
	resp, appErr := controller.AuthService.GetGoogleAuthURL(c.Request().Context())
	if appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	if c.QueryParam("format") == "json" {
		return controller.SuccessResponse(c, resp, "Google OAuth URL")
	}
	return c.Redirect(http.StatusFound, resp.URL)
}

// GoogleCallback handles GET /auth/google/callback
func (controller *AuthController) GoogleCallback(c echo.Context) error {
	resp, appErr := controller.AuthService.HandleGoogleCallback(c.Request().Context(), c.QueryParam("code"), c.QueryParam("state"))
	if appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}
	return controller.SuccessResponse(c, resp, "Login success")
}
