package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"manygolf/internal/protocol"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 10 * time.Second
	maxFrameSize = 4096
	sendQueue    = 64
)

// Client is one websocket connection. Outbound frames go through a bounded
// queue drained by writePump; a full queue drops the frame.
type Client struct {
	id        string
	name      string
	conn      *websocket.Conn
	frameType int
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	log       *zap.Logger
}

func newClient(id, name string, conn *websocket.Conn, codec protocol.Codec, log *zap.Logger) *Client {
	frameType := websocket.TextMessage
	if codec.Name() == protocol.CodecMsgpack {
		frameType = websocket.BinaryMessage
	}
	return &Client{
		id:        id,
		name:      name,
		conn:      conn,
		frameType: frameType,
		send:      make(chan []byte, sendQueue),
		done:      make(chan struct{}),
		log:       log.With(zap.String("player_id", id)),
	}
}

func (c *Client) Send(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// readPump decodes inbound frames until the connection fails, then leaves the room.
func (c *Client) readPump(room *Room, codec protocol.Codec) {
	defer func() {
		room.Leave(c.id)
		c.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("connection lost", zap.Error(err))
			}
			return
		}

		in, err := codec.Decode(frame)
		if err != nil {
			c.log.Debug("bad frame", zap.Error(err))
			continue
		}
		switch in.Type {
		case protocol.TypeSwing:
			var req protocol.SwingRequest
			if err := in.Into(&req); err != nil {
				c.log.Debug("bad swing", zap.Error(err))
				continue
			}
			room.Swing(c.id, vecFromWire(req.Vec))
		default:
			c.log.Debug("unknown message type", zap.String("type", string(in.Type)))
		}
	}
}

// writePump drains the send queue and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(c.frameType, frame); err != nil {
				c.log.Debug("write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Debug("ping failed", zap.Error(err))
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
