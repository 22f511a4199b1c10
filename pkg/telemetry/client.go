package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned by Next after Close.
var ErrClosed = errors.New("telemetry: client closed")

const (
	readWait  = 30 * time.Second
	writeWait = 5 * time.Second
)

// Client subscribes to a dashboard's telemetry websocket.
type Client struct {
	conn   *websocket.Conn
	closed atomic.Bool
}

// Dial connects to a ws:// or wss:// telemetry endpoint.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, http.Header{})
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("telemetry: dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("telemetry: dial %s: %w", url, err)
	}
	conn.SetPingHandler(func(data string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
	})
	return &Client{conn: conn}, nil
}

// Next blocks until the next frame arrives.
func (c *Client) Next() (Frame, error) {
	if c.closed.Load() {
		return Frame{}, ErrClosed
	}
	var f Frame
	c.conn.SetReadDeadline(time.Now().Add(readWait))
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		if c.closed.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return Frame{}, ErrClosed
		}
		return Frame{}, fmt.Errorf("telemetry: read: %w", err)
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("telemetry: decode frame: %w", err)
	}
	return f, nil
}

// Close sends a close frame and closes the connection. It may be called from
// another goroutine while Next is blocked; Next then returns ErrClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	return c.conn.Close()
}
