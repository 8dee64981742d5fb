package websocket

import "sort"

type room struct {
	name    string
	members []*Connection
}

func (r *room) index(c *Connection) int {
	for i, m := range r.members {
		if m == c {
			return i
		}
	}
	return -1
}

// Directory maps room names to their members. Rooms exist only while they
// have at least one member.
type Directory struct {
	rooms map[string]*room
}

func NewDirectory() *Directory {
	return &Directory{rooms: make(map[string]*room)}
}

// Join adds c to the named room, creating it if needed. Joining twice is a no-op.
func (d *Directory) Join(name string, c *Connection) {
	r, ok := d.rooms[name]
	if !ok {
		r = &room{name: name}
		d.rooms[name] = r
	}
	if r.index(c) >= 0 {
		return
	}
	r.members = append(r.members, c)
}

// Leave removes c from the named room and drops the room once it is empty.
// It reports whether c was a member.
func (d *Directory) Leave(name string, c *Connection) bool {
	r, ok := d.rooms[name]
	if !ok {
		return false
	}
	i := r.index(c)
	if i < 0 {
		return false
	}
	r.members = append(r.members[:i], r.members[i+1:]...)
	if len(r.members) == 0 {
		delete(d.rooms, name)
	}
	return true
}

func (d *Directory) Has(name string) bool {
	_, ok := d.rooms[name]
	return ok
}

func (d *Directory) Len() int {
	return len(d.rooms)
}

// ListRooms returns the active room names in lexical order.
func (d *Directory) ListRooms() []string {
	names := make([]string, 0, len(d.rooms))
	for name := range d.rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Members returns a copy of the room's connections in join order.
func (d *Directory) Members(name string) []*Connection {
	r, ok := d.rooms[name]
	if !ok {
		return nil
	}
	out := make([]*Connection, len(r.members))
	copy(out, r.members)
	return out
}

// ListMembers reads each member's current display name.
func (d *Directory) ListMembers(name string) []string {
	r, ok := d.rooms[name]
	if !ok {
		return []string{}
	}
	names := make([]string, 0, len(r.members))
	for _, m := range r.members {
		names = append(names, m.name)
	}
	return names
}
