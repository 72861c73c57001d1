package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func newConn(session string) *Connection {
	return &Connection{SessionID: session, Send: make(chan []byte, 8)}
}

func receive(t *testing.T, conn *Connection) *Message {
	t.Helper()
	select {
	case data, ok := <-conn.Send:
		require.True(t, ok, "send channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return &msg
	case <-time.After(time.Second):
		t.Fatal("no message")
		return nil
	}
}

func waitConnected(t *testing.T, h *Hub, session string) {
	t.Helper()
	require.Eventually(t, func() bool { return h.Connected(session) }, time.Second, time.Millisecond)
}

func TestHub_DeliversToSession(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := NewHub(zap.NewNop())
	defer h.Close()

	a, b := newConn("a"), newConn("b")
	h.Register(a)
	h.Register(b)
	waitConnected(t, h, "b")

	h.SendToSession("b", "effects", []string{"x"})
	msg := receive(t, b)
	assert.Equal(t, MsgEffects, msg.Type)
	assert.JSONEq(t, `["x"]`, string(msg.Payload))
	assert.Empty(t, a.Send)
}

func TestHub_NewConnectionTakesOver(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := NewHub(zap.NewNop())
	defer h.Close()

	old, fresh := newConn("s"), newConn("s")
	h.Register(old)
	h.Register(fresh)

	_, ok := <-old.Send
	assert.False(t, ok, "replaced connection is closed")

	// replies to the stale connection are dropped, the fresh one still works
	h.Reply(old, MsgEffects, "stale")
	h.Reply(fresh, MsgEffects, "fresh")
	msg := receive(t, fresh)
	assert.JSONEq(t, `"fresh"`, string(msg.Payload))

	// unregistering the stale connection must not drop the fresh one
	h.Unregister(old)
	assert.True(t, h.Connected("s"))

	h.Unregister(fresh)
	require.Eventually(t, func() bool { return !h.Connected("s") }, time.Second, time.Millisecond)
	_, ok = <-fresh.Send
	assert.False(t, ok)
}

func TestHub_CloseStopsEverything(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := NewHub(zap.NewNop())

	conn := newConn("s")
	h.Register(conn)
	h.Close()
	h.Close()

	_, ok := <-conn.Send
	assert.False(t, ok)

	// calls after Close return instead of blocking
	late := newConn("late")
	h.Register(late)
	_, ok = <-late.Send
	assert.False(t, ok)
	h.SendToSession("s", "effects", nil)
	h.Unregister(conn)
}
