package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sandevgo/lingbot/internal/service/chat"
	"github.com/sandevgo/lingbot/pkg/log"
)

// Server exposes the chat pipeline over HTTP.
type Server struct {
	echo *echo.Echo
	addr string
	chat *chat.Service
}

func NewServer(ctx context.Context, addr string, chatSvc *chat.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	// Propagate the base context logger into every request context.
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqCtx := log.FromCtx(ctx).WithContext(c.Request().Context())
			c.SetRequest(c.Request().WithContext(reqCtx))
			return next(c)
		}
	})

	s := &Server{
		echo: e,
		addr: addr,
		chat: chatSvc,
	}

	e.POST("/api/chat", s.handleChatPost)
	e.GET("/api/chat", s.handleChatGet)
	e.GET("/api/chat/history/:sessionId", s.handleHistory)
	e.GET("/api/health", s.handleHealth)

	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.addr).Msg("starting http server")
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
