package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"taskboard/internal/errors"
)

// validationError turns validator failures into the standard envelope with
// one message per failed field.
func validationError(err error) error {
	fields := map[string]string{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			name := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				fields[name] = name + " is required"
			case "email":
				fields[name] = "valid email is required"
			case "min":
				fields[name] = fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
			default:
				fields[name] = name + " is invalid"
			}
		}
	}
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error:  "validation failed",
		Code:   "VALIDATION_ERROR",
		Fields: fields,
	})
}

// domainError maps a service error to the standard envelope. Store failures
// are logged with full detail here and surfaced as a generic 500.
func domainError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		c.Logger().Errorf("internal error: %v", err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
