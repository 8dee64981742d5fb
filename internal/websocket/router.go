package websocket

import (
	"fmt"
	"strings"
)

// deliver queues ev on every target independently. A target whose buffer is
// full is marked for eviction and skipped for the rest of the current event;
// the remaining targets are unaffected.
func (c *Coordinator) deliver(targets []*Connection, ev OutboundEvent) int {
	delivered := 0
	for _, t := range targets {
		if t.closed || t.evicting {
			continue
		}
		if t.offer(ev) {
			delivered++
			continue
		}
		t.evicting = true
		c.evicted = append(c.evicted, t)
		incDeliveryFailures()
	}
	if delivered > 0 {
		addDelivered(delivered)
	}
	return delivered
}

func (c *Coordinator) systemMessage(text string) ChatMessage {
	return c.chatMessage(c.cfg.SystemName, text)
}

func (c *Coordinator) chatMessage(sender, text string) ChatMessage {
	return ChatMessage{
		Name: sender,
		Text: text,
		Time: c.cfg.Now().Format(c.cfg.TimeLayout),
	}
}

// routeMessage echoes a member's message to the whole room, sender included.
func (c *Coordinator) routeMessage(from *Connection, text string) {
	c.deliver(c.dir.Members(from.room), c.chatMessage(from.name, text))
}

func (c *Coordinator) announceJoin(conn *Connection) {
	c.deliver([]*Connection{conn}, c.systemMessage(fmt.Sprintf("You have joined the %s chat room", conn.room)))
	c.deliver(c.others(conn.room, conn), c.systemMessage(fmt.Sprintf("%s has joined the room", conn.name)))
}

func (c *Coordinator) announceLeave(room, name string) {
	c.deliver(c.dir.Members(room), c.systemMessage(fmt.Sprintf("%s has left the room", name)))
}

// routeNotice delivers an external notice to one room, or to everyone when
// the notice names no room.
func (c *Coordinator) routeNotice(n Notice) {
	text := strings.TrimSpace(n.Text)
	if text == "" {
		return
	}
	room := strings.TrimSpace(n.Room)
	if room == "" {
		c.deliver(c.connections(), c.systemMessage(text))
		return
	}
	if !c.dir.Has(room) {
		return
	}
	c.deliver(c.dir.Members(room), c.systemMessage(text))
}

func (c *Coordinator) others(room string, except *Connection) []*Connection {
	members := c.dir.Members(room)
	out := members[:0]
	for _, m := range members {
		if m != except {
			out = append(out, m)
		}
	}
	return out
}
