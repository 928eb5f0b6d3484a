package server

import (
	"errors"
	"net/http"

	"valentine-pages/internal/apperr"
	"valentine-pages/internal/dto"
	"valentine-pages/internal/logger"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// errorHandler renders every failure as dto.ErrorResponse.
func errorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		appErr := toAppError(err)
		if appErr.Kind == apperr.Internal {
			logger.LogError(log, "server", "errorHandler", c.Request().Method+" "+c.Path(), nil, err)
		}

		resp := &dto.ErrorResponse{
			ErrorKind: string(appErr.Kind),
			Message:   appErr.Message,
			Details:   appErr.Details,
			Retryable: appErr.Kind.Retryable(),
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(appErr.Kind.Status())
		} else {
			writeErr = c.JSON(appErr.Kind.Status(), resp)
		}
		if writeErr != nil {
			logger.LogError(log, "server", "errorHandler", "write error response", nil, writeErr)
		}
	}
}

func toAppError(err error) *apperr.Error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if appErr.Message == "" {
			appErr.Message = http.StatusText(appErr.Kind.Status())
		}
		return appErr
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok && m != "" {
			message = m
		}
		switch httpErr.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			return apperr.New(apperr.NotFound, message)
		case http.StatusTooManyRequests:
			return apperr.New(apperr.RateLimited, "Too many requests, slow down.")
		case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
			return apperr.Wrap(apperr.InvalidBody, message, err)
		}
	}

	return apperr.Wrap(apperr.Internal, "Something went wrong.", err)
}
