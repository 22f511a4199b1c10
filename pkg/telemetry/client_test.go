package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveFrames(t *testing.T, frames []Frame, extra ...[]byte) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, f := range frames {
			if err := conn.WriteJSON(f); err != nil {
				return
			}
		}
		for _, raw := range extra {
			conn.WriteMessage(websocket.TextMessage, raw)
		}
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
		conn.ReadMessage()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClient_ReceivesFrames(t *testing.T) {
	want := []Frame{
		{SessionID: "s", Tick: 1, SpeedKmh: 3.2, MovingForward: true},
		{SessionID: "s", Tick: 2, SpeedKmh: 4.1, MovingForward: true, DriveMode: "forward"},
	}
	srv := serveFrames(t, want)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, wsURL(srv))
	require.NoError(t, err)
	defer c.Close()

	for _, w := range want {
		got, err := c.Next()
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}
	_, err = c.Next()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestClient_BadFrame(t *testing.T) {
	srv := serveFrames(t, nil, []byte("{not json"))

	c, err := Dial(context.Background(), wsURL(srv))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode frame")
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	srv := serveFrames(t, nil)
	c, err := Dial(context.Background(), wsURL(srv))
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	_, err = c.Next()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDial_NotWebsocket(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Dial(context.Background(), wsURL(srv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestClient_CloseWhileNextBlocked(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// Never send a frame; wait for the client to go away.
		conn.ReadMessage()
	}))
	t.Cleanup(srv.Close)

	c, err := Dial(context.Background(), wsURL(srv))
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() {
		_, err := c.Next()
		errc <- err
	}()

	time.Sleep(50 * time.Millisecond)
	closed := make(chan struct{})
	go func() {
		c.Close()
		close(closed)
	}()
	require.NoError(t, c.Close(), "concurrent Close calls are safe")

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("Next did not return after Close")
	}
	<-closed
	_, err = c.Next()
	assert.ErrorIs(t, err, ErrClosed)
}
