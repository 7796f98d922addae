package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"taskboard/internal/errors"
)

// UserIDFromContext returns the user id that the request gate attached to
// the context. Handlers take identity from here and nowhere else.
func UserIDFromContext(c echo.Context) (uint, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return 0, unauthenticated()
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == 0 {
		return 0, unauthenticated()
	}
	return claims.UserID, nil
}

func unauthenticated() error {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: "missing or invalid token",
		Code:  "UNAUTHENTICATED",
	})
}
