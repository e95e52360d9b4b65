package middleware

import (
	stderrors "errors"

	"kodbank/internal/errors"
	"kodbank/internal/handlers"
	"kodbank/internal/models"
	"kodbank/internal/repositories"
	"kodbank/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequireAuth validates the bearer token and loads its user. The stored role
// wins over the one in the token so demotions apply immediately.
func RequireAuth(tokenService services.TokenServiceInterface, userRepo repositories.UserRepositoryInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return handlers.SendError(c, errors.AuthMissingToken)
			}

			token, err := tokenService.ExtractTokenFromHeader(authHeader)
			if err != nil {
				return handlers.SendError(c, errors.AuthMissingToken)
			}

			claims, err := tokenService.ValidateAccessToken(token)
			if err != nil {
				return handlers.SendError(c, errors.AuthInvalidToken)
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return handlers.SendError(c, errors.AuthInvalidToken)
			}

			user, err := userRepo.GetByID(userID)
			if err != nil {
				if stderrors.Is(err, repositories.ErrUserNotFound) {
					return handlers.SendError(c, errors.AuthUserNotFound)
				}
				return handlers.SendSystemError(c, err)
			}

			c.Set("user_id", user.ID)
			c.Set("user_role", user.Role)
			c.Set("user", user)
			c.Set("is_admin", user.IsAdmin())

			return next(c)
		}
	}
}

// RequireRole rejects callers whose role is not listed
func RequireRole(code errors.ErrorCode, requiredRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRole, ok := c.Get("user_role").(string)
			if !ok {
				return handlers.SendError(c, errors.AuthMissingToken)
			}

			for _, role := range requiredRoles {
				if userRole == role {
					return next(c)
				}
			}

			return handlers.SendError(c, code)
		}
	}
}

// RequireAdmin is a convenience middleware that requires admin role
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(errors.AuthAdminRequired, models.RoleAdmin)
}

// RequireCustomer guards the customer banking routes
func RequireCustomer() echo.MiddlewareFunc {
	return RequireRole(errors.AuthCustomerRequired, models.RoleCustomer)
}
