package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/fuhrahmann/travel-app-backend/internal/api/middleware"
	"github.com/fuhrahmann/travel-app-backend/internal/core/domain"
)

// currentUser returns the user injected by middleware.Authenticate. A nil
// result is not an error here; operations map it to domain.ErrUnauthenticated.
func currentUser(c echo.Context) *domain.User {
	return middleware.CurrentUser(c)
}
