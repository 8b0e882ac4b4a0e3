package auth

import (
	"dojo-events/core/cache"
	"dojo-events/core/config"
	"dojo-events/core/logger"
	"dojo-events/modules/auth/controller"
	"dojo-events/modules/auth/router"
	"dojo-events/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init registers the Google sign-in routes. Without Google credentials the
// routes answer with a configuration error.
func Init(e *echo.Echo, c cache.Cache, cfg *config.Config) {
	var provider service.IdentityProvider
	g := cfg.GoogleAPI
	if g.ClientID != "" && g.ClientSecret != "" && g.RedirectURI != "" {
		provider = service.NewGoogleProvider(g)
	} else {
		logger.Info("Auth:Init:GoogleSkipped", "reason", "Google OAuth credentials not configured in env")
	}

	authService := service.NewAuthService(provider, c, cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.AdminEmails)
	router.NewAuthRouter(controller.NewAuthController(authService)).Setup(e)
}
