package websocket

const (
	EventEnterRoom = "enterRoom"
	EventMessage   = "message"
	EventActivity  = "activity"
	EventUserList  = "userList"
	EventRoomList  = "roomList"
)

// InboundEvent is one of EnterRoom, SendMessage or Activity.
type InboundEvent interface {
	inboundEvent() string
}

type EnterRoom struct {
	Name string `json:"name"`
	Room string `json:"room"`
}

type SendMessage struct {
	Text string `json:"text"`
}

// Activity carries no payload; the sender is the connection it arrived on.
type Activity struct{}

func (EnterRoom) inboundEvent() string   { return EventEnterRoom }
func (SendMessage) inboundEvent() string { return EventMessage }
func (Activity) inboundEvent() string    { return EventActivity }

// OutboundEvent is one of ChatMessage, ActivityNotice, UserList or RoomList.
type OutboundEvent interface {
	EventName() string
}

type ChatMessage struct {
	Name string `json:"name"`
	Text string `json:"text"`
	Time string `json:"time"`
}

// ActivityNotice is the display name of the member who is typing.
type ActivityNotice string

type RosterEntry struct {
	Name string `json:"name"`
}

type UserList struct {
	Users []RosterEntry `json:"users"`
}

type RoomList struct {
	Rooms []string `json:"rooms"`
}

func (ChatMessage) EventName() string    { return EventMessage }
func (ActivityNotice) EventName() string { return EventActivity }
func (UserList) EventName() string       { return EventUserList }
func (RoomList) EventName() string       { return EventRoomList }

// Notice is a system announcement injected from outside the chat surface.
// An empty Room addresses every connected client.
type Notice struct {
	Room string `json:"room"`
	Text string `json:"text"`
}

type Stats struct {
	Connections int `json:"connections"`
	Rooms       int `json:"rooms"`
}
