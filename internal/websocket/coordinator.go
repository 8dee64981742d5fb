package websocket

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultSystemName = "Admin"
	DefaultSendBuffer = 32
	DefaultTimeLayout = "3:04:05 PM"
)

type Config struct {
	// SystemName is the reserved sender of welcome, join, leave and notice messages.
	SystemName string
	// SendBuffer bounds each connection's outbound queue.
	SendBuffer int
	TimeLayout string
	Now        func() time.Time
}

func (cfg Config) withDefaults() Config {
	if strings.TrimSpace(cfg.SystemName) == "" {
		cfg.SystemName = DefaultSystemName
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = DefaultSendBuffer
	}
	if cfg.TimeLayout == "" {
		cfg.TimeLayout = DefaultTimeLayout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return cfg
}

// Coordinator owns the connection set and the room directory. It is not safe
// for concurrent use; Hub serializes every call onto one goroutine.
type Coordinator struct {
	cfg     Config
	conns   map[string]*Connection
	dir     *Directory
	evicted []*Connection
}

func NewCoordinator(cfg Config) *Coordinator {
	return &Coordinator{
		cfg:   cfg.withDefaults(),
		conns: make(map[string]*Connection),
		dir:   NewDirectory(),
	}
}

// OnConnect registers a new connection with no name and no room.
func (c *Coordinator) OnConnect() *Connection {
	conn := newConnection(uuid.NewString(), c.cfg.SendBuffer)
	c.conns[conn.id] = conn
	incConnections()
	return conn
}

// Dispatch routes a decoded inbound event to its handler.
func (c *Coordinator) Dispatch(conn *Connection, ev InboundEvent) {
	switch e := ev.(type) {
	case EnterRoom:
		c.OnJoin(conn, e.Name, e.Room)
	case SendMessage:
		c.OnMessage(conn, e.Text)
	case Activity:
		c.OnActivity(conn)
	default:
		return
	}
	incInbound(ev.inboundEvent())
}

// OnJoin binds conn to room under name, leaving any previous room first.
// Empty names or rooms are dropped.
func (c *Coordinator) OnJoin(conn *Connection, name, room string) {
	name = strings.TrimSpace(name)
	room = strings.TrimSpace(room)
	if name == "" || room == "" || !c.registered(conn) {
		return
	}
	if conn.room != "" {
		c.leave(conn)
	}

	conn.name = name
	conn.room = room
	c.dir.Join(room, conn)
	log.Printf("[WEBSOCKET]: client %s joined room %q as %q", conn.id, room, name)

	c.announceJoin(conn)
	c.publishRoster(room)
	c.publishRoomList()
	c.drainEvicted()
}

// OnMessage echoes text to every member of conn's room, conn included.
func (c *Coordinator) OnMessage(conn *Connection, text string) {
	if !c.registered(conn) || conn.room == "" || strings.TrimSpace(text) == "" {
		return
	}
	c.routeMessage(conn, text)
	c.drainEvicted()
}

func (c *Coordinator) OnActivity(conn *Connection) {
	if !c.registered(conn) || conn.room == "" {
		return
	}
	c.relayActivity(conn)
	c.drainEvicted()
}

// OnDisconnect tears conn down. Calling it again, or for a connection that
// was already evicted, does nothing.
func (c *Coordinator) OnDisconnect(conn *Connection) {
	c.disconnect(conn)
	c.drainEvicted()
}

// Notify delivers an external system notice.
func (c *Coordinator) Notify(n Notice) {
	c.routeNotice(n)
	c.drainEvicted()
}

func (c *Coordinator) Rooms() []string {
	return c.dir.ListRooms()
}

// Roster returns the display names in room and whether the room exists.
func (c *Coordinator) Roster(room string) ([]string, bool) {
	if !c.dir.Has(room) {
		return []string{}, false
	}
	return c.dir.ListMembers(room), true
}

func (c *Coordinator) Stats() Stats {
	return Stats{Connections: len(c.conns), Rooms: c.dir.Len()}
}

// Shutdown closes every connection without emitting leave notices.
func (c *Coordinator) Shutdown() {
	for id, conn := range c.conns {
		delete(c.conns, id)
		conn.close()
		decConnections()
	}
	c.dir = NewDirectory()
	c.evicted = nil
	setRooms(0)
}

func (c *Coordinator) registered(conn *Connection) bool {
	if conn == nil {
		return false
	}
	current, ok := c.conns[conn.id]
	return ok && current == conn
}

func (c *Coordinator) connections() []*Connection {
	out := make([]*Connection, 0, len(c.conns))
	for _, conn := range c.conns {
		out = append(out, conn)
	}
	return out
}

func (c *Coordinator) disconnect(conn *Connection) {
	if !c.registered(conn) {
		return
	}
	delete(c.conns, conn.id)
	conn.close()
	decConnections()
	log.Printf("[WEBSOCKET]: client %s disconnected", conn.id)

	if conn.room != "" {
		c.leave(conn)
	}
}

// leave removes conn from its room and notifies the remaining members and
// every connected client. The room is dropped before the room list is rebuilt.
func (c *Coordinator) leave(conn *Connection) {
	room := conn.room
	conn.room = ""
	if !c.dir.Leave(room, conn) {
		return
	}
	log.Printf("[WEBSOCKET]: client %s left room %q", conn.id, room)

	c.announceLeave(room, conn.name)
	c.publishRoster(room)
	c.publishRoomList()
}

func (c *Coordinator) drainEvicted() {
	for len(c.evicted) > 0 {
		conn := c.evicted[0]
		c.evicted = c.evicted[1:]
		log.Printf("[WEBSOCKET]: evicting client %s, outbound buffer full", conn.id)
		c.disconnect(conn)
	}
}
