// Package http exposes the mailroom use cases over a JSON API served by echo.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"mailroom/internal/core/ports"
	"mailroom/internal/generated/servers"
	"mailroom/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

var registerDocOnce sync.Once

type apiDoc struct {
	json string
}

func (d apiDoc) ReadDoc() string {
	return d.json
}

// NewRouter assembles the echo instance: health, metrics and API docs are
// public, everything under servers.BasePath requires a staff bearer token
// and a request that matches the OpenAPI document.
func NewRouter(
	server servers.ServerInterface,
	sessions ports.SessionValidator,
	staff ports.StaffDirectory,
	logger *slog.Logger,
) (*echo.Echo, error) {
	doc, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}
	docJSON, err := servers.SwaggerJSON()
	if err != nil {
		return nil, err
	}
	registerDocOnce.Do(func() {
		swag.Register(swag.Name, apiDoc{json: string(docJSON)})
	})

	validator, err := OpenAPIRequestValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(metrics.PrometheusMiddleware())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(servers.BasePath, AuthMiddleware(sessions, staff), validator)
	servers.RegisterHandlers(api, server)

	return e, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	})
}
