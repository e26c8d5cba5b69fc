package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sandevgo/lingbot/internal/core"
	"github.com/sandevgo/lingbot/internal/service/chat"
	"github.com/sandevgo/lingbot/pkg/log"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type historyResponse struct {
	SessionID string      `json:"sessionId"`
	History   []core.Turn `json:"history"`
}

func (s *Server) handleChatPost(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "請求格式錯誤"})
	}
	return s.respond(c, req.SessionID, req.Message)
}

func (s *Server) handleChatGet(c echo.Context) error {
	return s.respond(c, c.QueryParam("sessionId"), c.QueryParam("message"))
}

// respond runs one chat turn and maps the outcome onto HTTP. GET and POST go
// through here identically.
func (s *Server) respond(c echo.Context, sessionID, message string) error {
	ctx := c.Request().Context()

	reply, err := s.chat.Chat(ctx, sessionID, message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "請提供訊息"})
		}
		log.FromCtx(ctx).Error().Err(err).Msg("chat turn failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "處理請求時發生錯誤"})
	}

	return c.JSON(http.StatusOK, reply)
}

func (s *Server) handleHistory(c echo.Context) error {
	sessionID := c.Param("sessionId")

	history, ok := s.chat.Sessions().History(sessionID)
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "找不到該會話"})
	}

	return c.JSON(http.StatusOK, historyResponse{
		SessionID: sessionID,
		History:   history,
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "聊天機器人服務正常運行中",
	})
}
