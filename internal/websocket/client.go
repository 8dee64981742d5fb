package websocket

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultPingInterval = 30 * time.Second
	defaultReadLimit    = 512 * 1024
	writeWait           = 10 * time.Second
)

type ClientConfig struct {
	PingInterval time.Duration
	ReadLimit    int64
}

func (cfg ClientConfig) withDefaults() ClientConfig {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaultPingInterval
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = defaultReadLimit
	}
	return cfg
}

// WSClient pumps frames between one gorilla connection and the hub.
type WSClient struct {
	ws       *websocket.Conn
	conn     *Connection
	hub      *Hub
	cfg      ClientConfig
	mu       sync.Mutex // serializes writes and Close on ws
	isClosed bool
}

func newWSClient(ws *websocket.Conn, conn *Connection, hub *Hub, cfg ClientConfig) *WSClient {
	return &WSClient{
		ws:   ws,
		conn: conn,
		hub:  hub,
		cfg:  cfg.withDefaults(),
	}
}

func deadline() time.Time {
	return time.Now().Add(writeWait)
}

// pongWait is how long a peer may stay silent. Two ping intervals allow one
// missed pong.
func (cl *WSClient) pongWait() time.Duration {
	return 2 * cl.cfg.PingInterval
}

func (cl *WSClient) extendReadDeadline() error {
	return cl.ws.SetReadDeadline(time.Now().Add(cl.pongWait()))
}

func (cl *WSClient) start() {
	go cl.keepAlive()
	go cl.writeMessage()
	go cl.readMessage()
}

func (cl *WSClient) closeSocket() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.isClosed {
		return
	}
	cl.isClosed = true
	_ = cl.ws.Close()
}

func (cl *WSClient) write(messageType int, data []byte) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.isClosed {
		return websocket.ErrCloseSent
	}
	_ = cl.ws.SetWriteDeadline(deadline())
	return cl.ws.WriteMessage(messageType, data)
}

func (cl *WSClient) keepAlive() {
	ticker := time.NewTicker(cl.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cl.conn.Done():
			return
		case <-ticker.C:
			if err := cl.write(websocket.PingMessage, nil); err != nil {
				log.Printf("[WEBSOCKET]: ping error for client %s: %v", cl.conn.ID(), err)
				cl.closeSocket()
				return
			}
		}
	}
}

func (cl *WSClient) writeMessage() {
	defer cl.closeSocket()

	for {
		select {
		case <-cl.conn.Done():
			return
		case ev := <-cl.conn.Outbound():
			// a teardown may race the receive; never write past it
			select {
			case <-cl.conn.Done():
				return
			default:
			}

			data, err := EncodeOutbound(ev)
			if err != nil {
				log.Printf("[WEBSOCKET]: dropping event for client %s: %v", cl.conn.ID(), err)
				continue
			}
			if err := cl.write(websocket.TextMessage, data); err != nil {
				log.Printf("[WEBSOCKET]: error sending to client %s: %v", cl.conn.ID(), err)
				return
			}
		}
	}
}

func (cl *WSClient) readMessage() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WEBSOCKET]: recovered from panic in readMessage: %v", r)
		}
		cl.hub.Disconnect(cl.conn)
		cl.closeSocket()
	}()

	cl.ws.SetReadLimit(cl.cfg.ReadLimit)
	_ = cl.extendReadDeadline()
	cl.ws.SetPongHandler(func(string) error {
		return cl.extendReadDeadline()
	})

	for {
		_, raw, err := cl.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				log.Printf("[WEBSOCKET]: read error for client %s: %v", cl.conn.ID(), err)
			}
			return
		}

		ev, err := DecodeInbound(raw)
		if err != nil {
			log.Printf("[WEBSOCKET]: ignoring frame from client %s: %v", cl.conn.ID(), err)
			continue
		}

		if err := cl.hub.Submit(context.Background(), cl.conn, ev); err != nil {
			if !errors.Is(err, ErrHubStopped) {
				log.Printf("[WEBSOCKET]: submit failed for client %s: %v", cl.conn.ID(), err)
			}
			return
		}
	}
}
