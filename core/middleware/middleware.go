package middleware

import (
	"strings"

	"dojo-events/core/constants"
	"dojo-events/core/controller"
	"dojo-events/core/errors"
	"dojo-events/core/logger"
	"dojo-events/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	controller.BaseController
	secret string
}

func NewMiddleware(secret string) *Middleware {
	return &Middleware{
		BaseController: controller.NewBaseController(),
		secret:         secret,
	}
}

// AuthMiddleware validates the Bearer token and stores its claims under
// constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return m.Unauthorized(errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				return m.Unauthorized(errors.ErrInvalidTokenFormat, "invalid authorization header format")
			}

			claims, err := utils.ValidateAndParseToken(m.secret, token)
			if err != nil {
				logger.Warn("Middleware:AuthMiddleware:InvalidToken", "error", err, "path", c.Path())
				if errors.Is(err, utils.ErrTokenExpired) {
					return m.Unauthorized(errors.ErrTokenExpired, "token expired")
				}
				return m.Unauthorized(errors.ErrUnauthorized, "invalid token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// AdminMiddleware must run after AuthMiddleware.
func (m *Middleware) AdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(constants.ContextTokenData).(*utils.TokenClaims)
			if !ok || !claims.IsAdmin {
				return m.Forbidden(errors.ErrForbidden, "admin access required")
			}
			return next(c)
		}
	}
}
