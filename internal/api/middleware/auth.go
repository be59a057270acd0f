package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fuhrahmann/travel-app-backend/internal/core/domain"
	"github.com/fuhrahmann/travel-app-backend/internal/core/ports"
)

// UserKey is the echo context key holding the authenticated *domain.User.
const UserKey = "auth_user"

// Authenticate resolves the bearer token, when present, and injects the
// owning user into the context. It never rejects a request: a missing or
// unresolvable token leaves the context without a user and the operation
// decides whether that is acceptable.
func Authenticate(resolver ports.SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}

			user, err := resolver.CurrentUser(c.Request().Context(), token)
			if err != nil {
				return fmt.Errorf("resolve session: %w", err)
			}
			if user != nil {
				c.Set(UserKey, user)
			}

			return next(c)
		}
	}
}

// CurrentUser returns the user injected by Authenticate, or nil.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(UserKey).(*domain.User)
	return user
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
