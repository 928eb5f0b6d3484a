package handler

import (
	"errors"

	"valentine-pages/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// bindAndValidate binds the JSON body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperr.Wrap(apperr.InvalidBody, "Invalid JSON body.", err)
	}
	if err := c.Validate(req); err != nil {
		appErr := apperr.Wrap(apperr.InvalidBody, "Invalid request.", err)
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make(map[string]any, len(validationErrors))
			for _, ve := range validationErrors {
				fields[ve.Field()] = ve.Tag()
			}
			appErr.WithDetails(fields)
		}
		return appErr
	}
	return nil
}
