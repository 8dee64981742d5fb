package websocket

// roomRoster and allRoomNames are recomputed from the directory on every
// membership change; nothing is patched incrementally.

func roomRoster(d *Directory, room string) UserList {
	names := d.ListMembers(room)
	users := make([]RosterEntry, 0, len(names))
	for _, name := range names {
		users = append(users, RosterEntry{Name: name})
	}
	return UserList{Users: users}
}

func allRoomNames(d *Directory) RoomList {
	return RoomList{Rooms: d.ListRooms()}
}

// publishRoster pushes the current roster to every member of room.
func (c *Coordinator) publishRoster(room string) {
	members := c.dir.Members(room)
	if len(members) == 0 {
		return
	}
	c.deliver(members, roomRoster(c.dir, room))
}

// publishRoomList pushes the global room list to every connected client.
func (c *Coordinator) publishRoomList() {
	setRooms(c.dir.Len())
	c.deliver(c.connections(), allRoomNames(c.dir))
}
