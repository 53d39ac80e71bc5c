package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core/user"
)

var (
	staffRoles   = user.StaffRoles
	teacherRoles = []string{user.RoleAdmin, user.RoleSecretaria, user.RoleProfessor}
)

// rolesMiddleware lets through the users holding one of roles.
func rolesMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if hasAnyRole(claims.Role, roles) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func hasAnyRole(role string, roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
