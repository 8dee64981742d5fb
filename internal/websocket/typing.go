package websocket

// relayActivity tells the other members of from's room that from is typing.
// There is no follow-up clear; receivers expire the indicator themselves.
func (c *Coordinator) relayActivity(from *Connection) {
	c.deliver(c.others(from.room, from), ActivityNotice(from.name))
}
