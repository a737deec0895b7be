// Package webserver hosts the echo HTTP server the admin API registers its
// routes on.
package webserver

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/karanhb-pixel/grocery-inventory-app/config"
)

type WebServer struct {
	cfg  config.WebConfig
	root *echo.Echo
}

func New(cfg config.WebConfig) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Info("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	return &WebServer{cfg: cfg, root: e}
}

// Echo exposes the router for route registration.
func (ws *WebServer) Echo() *echo.Echo {
	return ws.root
}

func (ws *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", ws.cfg.Host, ws.cfg.Port)
	zap.S().Infof("web server listening on %s", addr)
	return ws.root.Start(addr)
}

func (ws *WebServer) Shutdown(ctx context.Context) error {
	return ws.root.Shutdown(ctx)
}
