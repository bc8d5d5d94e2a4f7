package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/newsapi/internal/errs"
	"github.com/deppfellow/newsapi/internal/server"
	"github.com/deppfellow/newsapi/internal/sqlerr"
)

// GlobalMiddlewares groups global middleware and the global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger writes one "API" line per request. The level follows the
// final status: error for 5xx, warn for 4xx, info otherwise.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			// The error handler has not written the response yet, so derive
			// the status from the error.
			// Reference: https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			statusCode := v.Status
			if v.Error != nil {
				statusCode = ResponseStatus(c, v.Error)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// ResponseStatus is the status the error handler will answer with for err.
// With a nil err it is the status already written.
func ResponseStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	_, httpErr := classify(err)
	return httpErr.Status
}

// classify maps any error to the client-facing HTTPError. routeMiss is true
// for requests that matched no route or method; those get an empty 404.
func classify(err error) (routeMiss bool, httpErr *errs.HTTPError) {
	var domainErr *errs.HTTPError
	if errors.As(err, &domainErr) {
		return false, domainErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		switch {
		case echoErr.Code == http.StatusNotFound || echoErr.Code == http.StatusMethodNotAllowed:
			return true, errs.NewNotFoundError(errs.MsgResourceNotFound)
		case echoErr.Code >= http.StatusBadRequest && echoErr.Code < http.StatusInternalServerError:
			// Unsupported media type, oversized body and the like are all
			// malformed input.
			return false, errs.NewBadRequestError(errs.MsgBadRequest)
		default:
			return false, errs.NewInternalServerError()
		}
	}

	return false, sqlerr.HandleError(err)
}

// GlobalErrorHandler is the single place where a failed request gets its
// status. The body is always {"msg": ...}, except for unmatched routes
// which answer 404 with no body. The original error is logged with the
// request logger.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	routeMiss, httpErr := classify(err)

	logger := GetLogger(c)

	var e *zerolog.Event
	if httpErr.Status >= http.StatusInternalServerError {
		e = logger.Error().Stack()
	} else {
		e = logger.Debug()
	}

	e = e.Err(err).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code)
	if code, detail := sqlerr.Describe(err); code != "" {
		e = e.Str("sql_error_code", code).Str("sql_error_detail", detail)
	}
	e.Msg(httpErr.Message)

	if c.Response().Committed {
		return
	}

	if routeMiss {
		_ = c.NoContent(http.StatusNotFound)
		return
	}

	_ = c.JSON(httpErr.Status, httpErr)
}
