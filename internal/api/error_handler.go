package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rryowa/taskmanager/internal/service"
	"github.com/rryowa/taskmanager/internal/util"
)

type errorResponse struct {
	Reason string `json:"reason"`
}

func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := errorStatus(err)
		if status == http.StatusNotFound && errors.Is(err, service.ErrNotFound) {
			if err := c.NoContent(http.StatusNotFound); err != nil {
				log.Errorw("failed to write response", "error", err)
			}
			return
		}

		reason := errorReason(err)
		if status == http.StatusInternalServerError {
			log.Errorw("unhandled error", "error", err, "uri", c.Request().RequestURI)
			reason = "internal server error"
		}

		if err := c.JSON(status, errorResponse{Reason: reason}); err != nil {
			log.Errorw("failed to write json response", "error", err)
		}
	}
}

// errorStatus maps an error returned by a handler or middleware to its HTTP status.
func errorStatus(err error) int {
	var responseErr util.ResponseError
	var he *echo.HTTPError

	switch {
	case isUnauthorizedError(err):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case isBadRequestError(err):
		return http.StatusBadRequest
	case errors.As(err, &responseErr):
		return responseErr.Status
	case errors.As(err, &he):
		return he.Code
	default:
		return http.StatusInternalServerError
	}
}

func errorReason(err error) string {
	var responseErr util.ResponseError
	if errors.As(err, &responseErr) {
		return responseErr.Msg
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return msg
		}
		return fmt.Sprint(he.Message)
	}

	return err.Error()
}

func isUnauthorizedError(err error) bool {
	return errors.Is(err, service.ErrTokenExpired) ||
		errors.Is(err, service.ErrTokenInvalid) ||
		errors.Is(err, service.ErrTokenMalformed) ||
		errors.Is(err, service.ErrTokenMissing) ||
		errors.Is(err, service.ErrTokenRevoked) ||
		errors.Is(err, service.ErrUserNotFound) ||
		errors.Is(err, service.ErrSessionExpired)
}

func isBadRequestError(err error) bool {
	return errors.Is(err, service.ErrInvalidArgument) ||
		errors.Is(err, service.ErrInvalidCredentials) ||
		errors.Is(err, service.ErrEmailTaken)
}
