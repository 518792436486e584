// Package api implements the HTTP/JSON RPC surface over echo, exposing
// /deposit, /withdraw, /orders, /cancel, and /status. Handlers delegate
// to the engine and convert results to the wire DTOs; no business logic
// lives here.
package api

import (
	"context"

	"github.com/anomi-labs/clob/api/middleware"
	"github.com/anomi-labs/clob/core/engine"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Server wraps the echo instance bound to a single *engine.Engine.
type Server struct {
	echo *echo.Echo
}

func NewServer(e *engine.Engine, logger *zap.Logger) *Server {
	ec := echo.New()
	ec.HideBanner = true
	ec.HidePort = true
	ec.Logger.SetOutput(&zapWriter{logger: logger})

	ec.Use(middleware.RequestID())
	ec.Use(middleware.Logging())
	ec.Use(middleware.PostOnlyJSON())

	h := newHandlers(e)
	ec.POST("/deposit", h.deposit)
	ec.POST("/withdraw", h.withdraw)
	ec.POST("/orders", h.placeOrder)
	ec.POST("/cancel", h.cancel)
	ec.POST("/status", h.status)

	return &Server{echo: ec}
}

// Start binds and serves, blocking until the listener fails or Shutdown
// is called.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// zapWriter adapts echo's internal logger onto zap. The access-log lines
// from middleware.Logging are written through it too, since that
// middleware sets no output of its own.
type zapWriter struct {
	logger *zap.Logger
}

func (w *zapWriter) Write(p []byte) (int, error) {
	w.logger.Info(string(p))
	return len(p), nil
}
