package peer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
	sendBufSize    = 64
)

// ErrArenaFull is returned by Dial when the relay already seats two peers
var ErrArenaFull = errors.New("arena full")

// Transport is the session's outbound link to the relay. Sends never
// block; they report false when the frame was dropped.
type Transport interface {
	SendText(data []byte) bool
	SendBinary(data []byte) bool
}

// Inbound is a frame received from the relay
type Inbound struct {
	Data   []byte
	Binary bool
}

// Disconnected is delivered when the relay connection is gone
type Disconnected struct {
	Err error
}

type outFrame struct {
	data   []byte
	binary bool
}

// WSConn is a gorilla websocket connection to the relay with a write pump
type WSConn struct {
	conn      *websocket.Conn
	send      chan outFrame
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the relay and starts the write pump
func Dial(ctx context.Context, url string) (*WSConn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusServiceUnavailable {
			return nil, fmt.Errorf("dial %s: %w", url, ErrArenaFull)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c := &WSConn{
		conn: conn,
		send: make(chan outFrame, sendBufSize),
		done: make(chan struct{}),
	}
	go c.writePump()
	return c, nil
}

// SendText queues a JSON frame, dropping it if the pump is backed up
func (c *WSConn) SendText(data []byte) bool {
	return c.queue(outFrame{data: data})
}

// SendBinary queues a msgpack frame
func (c *WSConn) SendBinary(data []byte) bool {
	return c.queue(outFrame{data: data, binary: true})
}

func (c *WSConn) queue(f outFrame) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- f:
		return true
	default:
		return false
	}
}

// ReadLoop delivers frames to inbox until the connection fails, then
// delivers a Disconnected. It stops early if ctx ends.
func (c *WSConn) ReadLoop(ctx context.Context, inbox chan<- any) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			select {
			case inbox <- Disconnected{Err: err}:
			case <-ctx.Done():
			}
			return
		}
		select {
		case inbox <- Inbound{Data: message, Binary: msgType == websocket.BinaryMessage}:
		case <-ctx.Done():
			return
		}
	}
}

func (c *WSConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case f := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			msgType := websocket.TextMessage
			if f.binary {
				msgType = websocket.BinaryMessage
			}
			if err := c.conn.WriteMessage(msgType, f.data); err != nil {
				log.Printf("ws write: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// Close sends a close frame and tears the connection down
func (c *WSConn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}
