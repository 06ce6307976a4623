package middleware

import (
	"errors"

	"github.com/LeonEnneken/Leitstellen-Backend/internal/domain"
	"github.com/LeonEnneken/Leitstellen-Backend/internal/service"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/errs"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/response"
	"github.com/LeonEnneken/Leitstellen-Backend/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const profileKey = "profile"

// Auth validates the bearer token and resolves it against the stored user.
// Missing users and terminated members are rejected with 401.
func Auth(jwtSecret string, users service.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := utils.ParseJWTToken(c.Request().Header.Get(echo.HeaderAuthorization), jwtSecret)
			if err != nil {
				return response.WriteErrorResponse(c, errs.ErrUnauthorized, nil)
			}

			ctx := c.Request().Context()
			profile, err := users.Authenticate(ctx, claims)
			if err != nil {
				if errors.Is(err, errs.ErrUnauthorized) || errors.Is(err, errs.ErrMemberTerminated) {
					log.Ctx(ctx).Warn().Err(err).Str("component", "Auth").Str("user_id", claims.Sub).Msg("")
				}
				return response.WriteErrorResponse(c, err, nil)
			}

			c.Set(profileKey, profile)
			return next(c)
		}
	}
}

// GetProfile returns the caller stored by Auth.
func GetProfile(c echo.Context) domain.Profile {
	profile, _ := c.Get(profileKey).(domain.Profile)
	return profile
}

// RequirePermission lets administrators and holders of "*" through.
func RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !GetProfile(c).HasPermission(permission) {
				return response.WriteErrorResponse(c, errs.ErrForbidden, nil)
			}
			return next(c)
		}
	}
}

func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !GetProfile(c).Role.AtLeast(role) {
				return response.WriteErrorResponse(c, errs.ErrForbidden, nil)
			}
			return next(c)
		}
	}
}
