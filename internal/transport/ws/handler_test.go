package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"ascendant/internal/cache"
	"ascendant/internal/model"
	"ascendant/internal/render"
	"ascendant/internal/service"
	"ascendant/internal/static"
	"ascendant/internal/wizard"
)

type noTimers struct{}

func (noTimers) AfterFunc(time.Duration, func()) {}

func newService(t *testing.T) *service.SessionService {
	t.Helper()
	layout, err := static.DefaultLayout()
	require.NoError(t, err)
	set := &model.QuestionSet{Questions: []model.Question{
		{ID: "a", Section: "S", Statement: "A"},
		{ID: "b", Section: "S", Statement: "B"},
	}}
	svc := service.NewSessionService(cache.NewMemorySessionCache(time.Hour), set, layout,
		service.NewTokenService("secret", time.Hour), zap.NewNop())
	svc.SetScheduler(noTimers{})
	return svc
}

func dial(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + url.QueryEscape(token)
	return websocket.DefaultDialer.Dial(u, nil)
}

func readFrame(t *testing.T, c *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, c.ReadJSON(&msg))
	return msg
}

func TestSessionWS_RoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	svc := newService(t)
	hub := NewHub(zap.NewNop())
	svc.SetBroadcaster(hub)
	h := NewHandler(hub, svc, zap.NewNop())

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.SessionWS)
	srv := httptest.NewServer(mux)

	snap, err := svc.Start(context.Background(), false)
	require.NoError(t, err)

	c, _, err := dial(t, srv, snap.Token)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Connected(snap.SessionID) }, time.Second, time.Millisecond)

	require.NoError(t, c.WriteJSON(service.Event{
		Type:   service.EventSelect,
		Target: wizard.OptionID(wizard.ScaleID("a"), 8),
	}))
	msg := readFrame(t, c)
	require.Equal(t, MsgEffects, msg.Type)

	var effects []render.Effect
	require.NoError(t, json.Unmarshal(msg.Payload, &effects))
	assert.Contains(t, effects, render.Value(wizard.FieldID("a"), "8"))
	assert.Contains(t, effects, render.Class(wizard.StepID("b"), "active", true))

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, MsgError, readFrame(t, c).Type)

	require.NoError(t, c.WriteJSON(service.Event{Type: "bogus"}))
	assert.Equal(t, MsgError, readFrame(t, c).Type)

	// pushes from the service reach the socket
	hub.SendToSession(snap.SessionID, service.MsgEffects, []render.Effect{render.Class("qual-1", "x", true)})
	assert.Equal(t, MsgEffects, readFrame(t, c).Type)

	require.NoError(t, c.Close())
	require.Eventually(t, func() bool { return !hub.Connected(snap.SessionID) }, 2*time.Second, 5*time.Millisecond)

	hub.Close()
	srv.Close()
}

func TestSessionWS_RejectsBadToken(t *testing.T) {
	svc := newService(t)
	hub := NewHub(zap.NewNop())
	defer hub.Close()
	h := NewHandler(hub, svc, zap.NewNop())

	srv := httptest.NewServer(http.HandlerFunc(h.SessionWS))
	defer srv.Close()

	for _, token := range []string{"", "garbage"} {
		u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?token=" + url.QueryEscape(token)
		_, resp, err := websocket.DefaultDialer.Dial(u, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	}
}
