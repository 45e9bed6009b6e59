package websocket

import (
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

var (
	errSendBufferFull = errors.New("буфер отправки заполнен")
	errClientGone     = errors.New("клиент не зарегистрирован")
)

// Client — одно websocket-соединение, подписанное на события задачи.
type Client struct {
	Hub   *Hub
	Conn  *websocket.Conn
	Send  chan []byte
	JobID string

	registered chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, jobID string) *Client {
	return &Client{
		Hub:   hub,
		Conn:  conn,
		Send:  make(chan []byte, sendBuffer),
		JobID: jobID,

		registered: make(chan struct{}),
	}
}

// Enqueue кладёт сообщение в очередь клиента до регистрации в хабе.
func (c *Client) Enqueue(payload interface{}, messageType string) error {
	messageBytes, err := encode(payload, messageType)
	if err != nil {
		return err
	}
	select {
	case c.Send <- messageBytes:
		return nil
	default:
		return errSendBufferFull
	}
}

// ReadPump читает только служебные кадры; входящие сообщения игнорируются.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { _ = c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("WebSocket: соединение прервано", zap.String("jobID", c.JobID), zap.Error(err))
			}
			break
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
