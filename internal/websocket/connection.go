package websocket

// Connection is one client session as seen by the Coordinator. Its name and
// room are only read or written on the hub goroutine.
type Connection struct {
	id       string
	name     string
	room     string
	send     chan OutboundEvent
	done     chan struct{}
	closed   bool
	evicting bool
}

func newConnection(id string, buffer int) *Connection {
	return &Connection{
		id:   id,
		send: make(chan OutboundEvent, buffer),
		done: make(chan struct{}),
	}
}

func (c *Connection) ID() string {
	return c.id
}

// Outbound yields the events queued for this client in delivery order.
func (c *Connection) Outbound() <-chan OutboundEvent {
	return c.send
}

// Done is closed once the connection has been torn down. Anything still
// buffered in Outbound must be discarded after that.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// offer queues ev without blocking. A false return means the client's buffer
// is full.
func (c *Connection) offer(ev OutboundEvent) bool {
	select {
	case c.send <- ev:
		return true
	default:
		return false
	}
}

func (c *Connection) close() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}
