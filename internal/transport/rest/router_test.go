package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ascendant/internal/cache"
	"ascendant/internal/repository"
	"ascendant/internal/service"
	"ascendant/internal/static"
	"ascendant/internal/transport/ws"
	"ascendant/internal/wizard"
)

type testServer struct {
	handler http.Handler
	hub     *ws.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	layout, err := static.DefaultLayout()
	require.NoError(t, err)

	svc := service.NewSessionService(
		cache.NewMemorySessionCache(time.Hour),
		repository.DefaultQuestionSet(),
		layout,
		service.NewTokenService("secret", time.Hour),
		zap.NewNop(),
	)
	hub := ws.NewHub(zap.NewNop())
	t.Cleanup(hub.Close)
	svc.SetBroadcaster(hub)

	return &testServer{
		handler: NewRouter(&Container{
			SessionService: svc,
			WSHub:          hub,
			Assets:         static.FS,
			AllowedOrigins: "https://example.test",
			Logger:         zap.NewNop(),
		}),
		hub: hub,
	}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestRouter_ServesPage(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "GET", "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `id="assessment-form"`)

	rec = s.do(t, "GET", "/ascendant-protocol.js", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/v1/sessions")

	rec = s.do(t, "GET", "/ascendant-protocol.css", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, "GET", "/missing.png", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, "GET", "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_SessionFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "POST", "/v1/sessions", "", `{"debug":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "https://example.test", rec.Header().Get("Access-Control-Allow-Origin"))

	var snap service.Snapshot
	decode(t, rec, &snap)
	require.NotEmpty(t, snap.Token)
	assert.NotEmpty(t, snap.Effects)

	first := repository.DefaultQuestionSet().Questions[0].ID
	body := `{"type":"select","target":"` + wizard.OptionID(wizard.ScaleID(first), 9) + `"}`
	rec = s.do(t, "POST", "/v1/session/events", snap.Token, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var res service.Result
	decode(t, rec, &res)
	assert.True(t, res.Handled)
	assert.NotEmpty(t, res.Effects)

	rec = s.do(t, "GET", "/v1/session?token="+snap.Token, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var boot service.Snapshot
	decode(t, rec, &boot)
	assert.Equal(t, snap.SessionID, boot.SessionID)
	assert.Empty(t, boot.Token)
}

func TestRouter_EmptyStartBody(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, "POST", "/v1/sessions?debug", "", "")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_SessionErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "POST", "/v1/session/events", "", `{"type":"submit"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, "GET", "/v1/session", "forged", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var snap service.Snapshot
	decode(t, s.do(t, "POST", "/v1/sessions", "", `{}`), &snap)

	rec = s.do(t, "POST", "/v1/session/events", snap.Token, `{"type":"dance"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, "POST", "/v1/session/events", snap.Token, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, "POST", "/v1/sessions", "", `{"debug":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Preflight(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, "OPTIONS", "/v1/session/events", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}
