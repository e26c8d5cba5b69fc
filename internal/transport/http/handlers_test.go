package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/lingbot/internal/catalog"
	"github.com/sandevgo/lingbot/internal/core"
	"github.com/sandevgo/lingbot/internal/service/chat"
	"github.com/sandevgo/lingbot/internal/service/session"
)

type chatConfig struct{}

func (chatConfig) GetScoreThreshold() float64 { return 0.6 }

type sessionConfig struct{}

func (sessionConfig) GetHistoryCap() int              { return 20 }
func (sessionConfig) GetIdleTimeout() time.Duration   { return 30 * time.Minute }
func (sessionConfig) GetSweepInterval() time.Duration { return 10 * time.Minute }

type stubClassifier struct {
	result core.Classification
	err    error
}

func (s *stubClassifier) Classify(context.Context, string, map[string]string) (core.Classification, error) {
	return s.result, s.err
}

func newTestServer(classifier core.Classifier) *Server {
	cat := &catalog.Catalog{
		Language:  "zh",
		Fallbacks: []string{"請繼續輸入您的問題，我在聆聽..."},
		Intents: map[string]catalog.Intent{
			"greetings": {Answers: []string{"你好！有什麼我可以幫助你的嗎？"}},
		},
	}
	svc := chat.NewService(chatConfig{}, cat, classifier, session.NewStore(sessionConfig{}), nil, chat.NewFirstPicker())
	return NewServer(context.Background(), ":0", svc)
}

func TestHandleChatPost(t *testing.T) {
	srv := newTestServer(&stubClassifier{result: core.Classification{Intent: "greetings", Score: 0.95}})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"你好","sessionId":"s1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var reply chat.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "你好！有什麼我可以幫助你的嗎？", reply.Answer)
	assert.Equal(t, "greetings", reply.Intent)
	assert.Equal(t, "s1", reply.SessionID)
}

func TestHandleChatGet(t *testing.T) {
	srv := newTestServer(&stubClassifier{result: core.Classification{Intent: "greetings", Score: 0.95}})

	req := httptest.NewRequest(http.MethodGet, "/api/chat?message=%E4%BD%A0%E5%A5%BD", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var reply chat.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, chat.DefaultSessionID, reply.SessionID)
}

func TestHandleChat_MissingMessage(t *testing.T) {
	srv := newTestServer(&stubClassifier{})

	for _, tc := range []struct {
		name string
		req  *http.Request
	}{
		{"post", func() *http.Request {
			r := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"sessionId":"s1"}`))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			return r
		}()},
		{"get", httptest.NewRequest(http.MethodGet, "/api/chat", nil)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.echo.ServeHTTP(rec, tc.req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestHandleChatPost_MalformedBody(t *testing.T) {
	srv := newTestServer(&stubClassifier{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// A parse failure is not the same fault as an empty message.
	assert.Contains(t, rec.Body.String(), "請求格式錯誤")
}

func TestHandleChat_EngineFailure(t *testing.T) {
	srv := newTestServer(&stubClassifier{err: assert.AnError})

	req := httptest.NewRequest(http.MethodGet, "/api/chat?message=%E4%BD%A0%E5%A5%BD", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestHandleHistory(t *testing.T) {
	srv := newTestServer(&stubClassifier{result: core.Classification{Intent: "greetings", Score: 0.95}})

	// Seed a turn.
	req := httptest.NewRequest(http.MethodGet, "/api/chat?message=%E4%BD%A0%E5%A5%BD&sessionId=s1", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/chat/history/s1", nil)
	rec = httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp historyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "s1", resp.SessionID)
	require.Len(t, resp.History, 2)
	assert.Equal(t, core.RoleUser, resp.History[0].Role)
	assert.Equal(t, core.RoleBot, resp.History[1].Role)
}

func TestHandleHistory_UnknownSession(t *testing.T) {
	srv := newTestServer(&stubClassifier{})

	req := httptest.NewRequest(http.MethodGet, "/api/chat/history/missing", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&stubClassifier{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
