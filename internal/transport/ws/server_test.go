package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"voxelsignal.ai/internal/protocol"
	"voxelsignal.ai/internal/sim/catalogs"
	"voxelsignal.ai/internal/sim/world"
)

func startWorld(t *testing.T) *world.World {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	require.NoError(t, err)
	w, err := world.New(world.WorldConfig{
		ID:            "ws-test",
		TickRateHz:    100,
		TimePerTick:   1,
		Height:        16,
		PreloadRadius: 1,
		LampOffDelay:  100,
	}, cats)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return w
}

func dial(t *testing.T, w *world.World) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(NewServer(w, nil).Handler())
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

// readAck skips TICK frames until the ACK for actID arrives.
func readAck(t *testing.T, conn *websocket.Conn, actID string) protocol.AckMsg {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, b, err := conn.ReadMessage()
		require.NoError(t, err)
		base, err := protocol.DecodeBase(b)
		require.NoError(t, err)
		if base.Type != protocol.TypeAck {
			continue
		}
		var ack protocol.AckMsg
		require.NoError(t, json.Unmarshal(b, &ack))
		if ack.AckFor == actID {
			return ack
		}
	}
}

func hello(t *testing.T, conn *websocket.Conn) protocol.WelcomeMsg {
	t.Helper()
	send(t, conn, protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      "tester",
		MaxQueue:        32,
	})
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var welcome protocol.WelcomeMsg
	require.NoError(t, conn.ReadJSON(&welcome))
	return welcome
}

func TestHandshakeAndPlace(t *testing.T) {
	w := startWorld(t)
	conn := dial(t, w)

	welcome := hello(t, conn)
	require.Equal(t, protocol.TypeWelcome, welcome.Type)
	require.Equal(t, "ws-test", welcome.WorldID)
	require.NotEmpty(t, welcome.ClientID)
	require.Equal(t, int64(1), welcome.WorldParams.TimePerTick)

	send(t, conn, protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		ActID:           "p1",
		Action:          protocol.ActionPlace,
		Pos:             [3]int{1, 1, 0},
		Block:           "REPEATER_OFF",
		Facing:          "EAST",
	})
	ack := readAck(t, conn, "p1")
	require.True(t, ack.Accepted, "%s %s", ack.Code, ack.Message)

	send(t, conn, protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		ActID:           "p2",
		Action:          protocol.ActionPlace,
		Pos:             [3]int{1, 1, 0},
		Block:           "LAMP",
	})
	ack = readAck(t, conn, "p2")
	require.False(t, ack.Accepted)
	require.Equal(t, protocol.ErrConflict, ack.Code)
}

func TestMalformedActIsRejectedWithoutReachingWorld(t *testing.T) {
	w := startWorld(t)
	conn := dial(t, w)
	hello(t, conn)

	// PLACE without a block fails schema validation.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"ACT","protocol_version":"1.0","act_id":"bad1","action":"PLACE","pos":[0,1,0]}`)))
	ack := readAck(t, conn, "bad1")
	require.False(t, ack.Accepted)
	require.Equal(t, protocol.ErrProtoBadRequest, ack.Code)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"ACT","protocol_version":"0.9","act_id":"bad2","action":"BREAK","pos":[0,1,0]}`)))
	ack = readAck(t, conn, "bad2")
	require.Equal(t, protocol.ErrProtoBadRequest, ack.Code)
}

func TestHandshakeRequiresHello(t *testing.T) {
	w := startWorld(t)
	conn := dial(t, w)

	send(t, conn, protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: protocol.Version, Action: protocol.ActionBreak})
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), "err = %v", err)
}

func TestClampQueue(t *testing.T) {
	require.Equal(t, minQueue, clampQueue(0))
	require.Equal(t, minQueue, clampQueue(3))
	require.Equal(t, 20, clampQueue(20))
	require.Equal(t, maxQueue, clampQueue(1000))
}
