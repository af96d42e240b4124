package relay

import (
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nguyenphuquang1234567/diep-new/game"
	"github.com/nguyenphuquang1234567/diep-new/protocol"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 512 * 1024 // snapshots carry every bullet trail
	sendBufSize       = 256
	maxMessagesPerSec = 150
)

// Client is one peer's WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	id         string
	color      game.Color // set by the hub on join
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a Client with a fresh peer ID
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		id:         newPeerID(),
		remoteAddr: remoteAddr,
	}
}

// ID returns the peer identity sent in assign-color
func (c *Client) ID() string {
	return c.id
}

// ReadPump reads frames from the connection and hands them to the hub
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stop:
		}
		c.conn.Close()
	}()

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
			break
		}

		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		f, ok := c.decode(msgType, message)
		if !ok {
			continue
		}
		select {
		case c.hub.inbound <- f:
		case <-c.hub.stop:
			return
		}
	}
}

// decode reads just enough of a frame to route it. Binary frames are
// always snapshots.
func (c *Client) decode(msgType int, message []byte) (frame, bool) {
	f := frame{from: c, raw: message}
	if msgType == websocket.BinaryMessage {
		f.t = protocol.MsgGameState
		f.binary = true
		return f, true
	}
	env, err := protocol.DecodeEnvelope(message)
	if err != nil {
		log.Printf("unmarshal error from %s: %v", c.id, err)
		return f, false
	}
	f.t = env.T
	if env.T == protocol.MsgPlayerInput {
		in, err := protocol.DecodeInput(env)
		if err != nil {
			log.Printf("bad input from %s: %v", c.id, err)
			return f, false
		}
		f.input = in
	}
	return f, true
}

// WritePump writes queued messages to the connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// 0xFF prefix from SendBinary; JSON text never starts with it
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMsg encodes and queues a message
func (c *Client) SendMsg(t string, payload any) {
	data, err := protocol.Encode(t, payload)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw queues pre-marshaled bytes as a text message
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary queues bytes as a binary message, prefixed with the 0xFF marker
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}
