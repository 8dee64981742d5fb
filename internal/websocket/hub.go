package websocket

import (
	"context"
	"errors"
	"log"
	"strings"
)

var (
	ErrHubStopped   = errors.New("websocket: hub stopped")
	ErrRoomNotFound = errors.New("websocket: room not found")
	ErrEmptyNotice  = errors.New("websocket: notice text required")
)

type inboundMsg struct {
	conn  *Connection
	event InboundEvent
}

type query struct {
	fn   func(*Coordinator)
	done chan struct{}
}

// Hub runs the Coordinator on a single goroutine. Every membership change,
// message and query is processed one at a time in arrival order, which gives
// each room one consistent delivery order.
type Hub struct {
	coord      *Coordinator
	register   chan chan *Connection
	inbound    chan inboundMsg
	unregister chan *Connection
	notices    chan Notice
	queries    chan query
	stopped    chan struct{}
}

func NewHub(cfg Config) *Hub {
	return &Hub{
		coord:      NewCoordinator(cfg),
		register:   make(chan chan *Connection),
		inbound:    make(chan inboundMsg),
		unregister: make(chan *Connection),
		notices:    make(chan Notice),
		queries:    make(chan query),
		stopped:    make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	log.Printf("[WEBSOCKET]: hub started")

	for {
		select {
		case <-ctx.Done():
			h.coord.Shutdown()
			log.Printf("[WEBSOCKET]: hub stopped")
			return

		case reply := <-h.register:
			reply <- h.coord.OnConnect()

		case msg := <-h.inbound:
			h.coord.Dispatch(msg.conn, msg.event)

		case conn := <-h.unregister:
			h.coord.OnDisconnect(conn)

		case n := <-h.notices:
			h.coord.Notify(n)

		case q := <-h.queries:
			q.fn(h.coord)
			close(q.done)
		}
	}
}

// Stopped is closed once Run has returned.
func (h *Hub) Stopped() <-chan struct{} {
	return h.stopped
}

func (h *Hub) Connect(ctx context.Context) (*Connection, error) {
	reply := make(chan *Connection, 1)
	select {
	case h.register <- reply:
	case <-h.stopped:
		return nil, ErrHubStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return <-reply, nil
}

func (h *Hub) Submit(ctx context.Context, conn *Connection, ev InboundEvent) error {
	select {
	case h.inbound <- inboundMsg{conn: conn, event: ev}:
		return nil
	case <-h.stopped:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Disconnect is safe to call repeatedly and after the hub has stopped.
func (h *Hub) Disconnect(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.stopped:
	}
}

// PublishNotice injects n straight into the hub.
func (h *Hub) PublishNotice(ctx context.Context, n Notice) error {
	if strings.TrimSpace(n.Text) == "" {
		return ErrEmptyNotice
	}
	select {
	case h.notices <- n:
		return nil
	case <-h.stopped:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) exec(ctx context.Context, fn func(*Coordinator)) error {
	q := query{fn: fn, done: make(chan struct{})}
	select {
	case h.queries <- q:
	case <-h.stopped:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-q.done:
		return nil
	case <-h.stopped:
		return ErrHubStopped
	}
}

func (h *Hub) Rooms(ctx context.Context) ([]string, error) {
	var rooms []string
	if err := h.exec(ctx, func(c *Coordinator) { rooms = c.Rooms() }); err != nil {
		return nil, err
	}
	return rooms, nil
}

// Roster returns ErrRoomNotFound for rooms with no members.
func (h *Hub) Roster(ctx context.Context, room string) ([]string, error) {
	var (
		names []string
		ok    bool
	)
	if err := h.exec(ctx, func(c *Coordinator) { names, ok = c.Roster(room) }); err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRoomNotFound
	}
	return names, nil
}

func (h *Hub) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := h.exec(ctx, func(c *Coordinator) { stats = c.Stats() }); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
