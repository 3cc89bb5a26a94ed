package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/rryowa/taskmanager/internal/metrics"
	"github.com/rryowa/taskmanager/internal/models"
	"github.com/rryowa/taskmanager/internal/service"
)

// AccessGate admits requests carrying a valid x-access-token and stores the caller id in the context.
// Expired tokens are rejected outright; clients refresh through the session routes.
func AccessGate(tokens *service.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			accessToken := c.Request().Header.Get(models.HeaderAccessToken)

			userID, err := tokens.ValidateAccessToken(c.Request().Context(), accessToken)
			if err != nil {
				return err
			}

			c.Set(models.MwUserIDKey, userID)
			c.Set(models.MwAccessTokenKey, accessToken)

			return next(c)
		}
	}
}

// SessionGate admits requests whose x-refresh-token is a live session of the user named by _id.
func SessionGate(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			refreshToken := c.Request().Header.Get(models.HeaderRefreshToken)
			userID := c.Request().Header.Get(models.HeaderUserID)

			user, err := auth.VerifySession(c.Request().Context(), userID, refreshToken)
			if err != nil {
				return err
			}

			c.Set(models.MwUserIDKey, user.ID)
			c.Set(models.MwUserKey, user)
			c.Set(models.MwRefreshTokenKey, refreshToken)

			return next(c)
		}
	}
}

func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = errorStatus(err)
			}
			m.ObserveRequest(c.Request().Method, c.Path(), status, time.Since(start))

			return err
		}
	}
}

func CORSConfig() echomiddleware.CORSConfig {
	headers := []string{models.HeaderAccessToken, models.HeaderRefreshToken, models.HeaderUserID}

	return echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodHead, http.MethodOptions,
			http.MethodPut, http.MethodPatch, http.MethodDelete,
		},
		AllowHeaders: append([]string{
			echo.HeaderOrigin, "X-Requested-With", echo.HeaderContentType, echo.HeaderAccept,
		}, headers...),
		ExposeHeaders: headers,
	}
}

func GetLoggerMiddlewareConfig(a *API) echomiddleware.RequestLoggerConfig {
	return echomiddleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogError:    true,
		LogLatency:  true,
		HandleError: true,

		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", c.Request().Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				a.log.Errorw("Request", fields...)
			} else {
				a.log.Infow("Request", fields...)
			}
			return nil
		},
	}
}
