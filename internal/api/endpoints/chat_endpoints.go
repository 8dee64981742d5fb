package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"barn-chat-backend/internal/websocket"
)

// PresenceReader answers read-only questions about live rooms.
type PresenceReader interface {
	Rooms(ctx context.Context) ([]string, error)
	Roster(ctx context.Context, room string) ([]string, error)
}

// ChatUpgrader turns an HTTP request into a live chat connection.
type ChatUpgrader interface {
	ServeChat(w http.ResponseWriter, r *http.Request) error
}

type ChatEndpoints interface {
	Chat(http.ResponseWriter, *http.Request) error
	Rooms(http.ResponseWriter, *http.Request) error
	RoomUsers(http.ResponseWriter, *http.Request) error
	Notices(http.ResponseWriter, *http.Request) error
}

type RoomsResponse struct {
	Rooms []string `json:"rooms"`
}

type RoomUser struct {
	Name string `json:"name"`
}

type RoomUsersResponse struct {
	Room  string     `json:"room"`
	Users []RoomUser `json:"users"`
}

type chatEndpoints struct {
	upgrader   ChatUpgrader
	presence   PresenceReader
	publisher  websocket.NoticePublisher
	roomPrefix string
}

// NewChatEndpoints serves room lookups under roomPrefix, e.g. "/api/ws/v1/rooms/".
func NewChatEndpoints(upgrader ChatUpgrader, presence PresenceReader, publisher websocket.NoticePublisher, roomPrefix string) ChatEndpoints {
	return &chatEndpoints{
		upgrader:   upgrader,
		presence:   presence,
		publisher:  publisher,
		roomPrefix: strings.TrimRight(roomPrefix, "/") + "/",
	}
}

func (h *chatEndpoints) Chat(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleChat,
	})
}

func (h *chatEndpoints) Rooms(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleRooms,
	})
}

func (h *chatEndpoints) RoomUsers(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleRoomUsers,
	})
}

func (h *chatEndpoints) Notices(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleNotice,
	})
}

func (h *chatEndpoints) handleChat(w http.ResponseWriter, r *http.Request) error {
	if h.upgrader == nil {
		return &HTTPError{
			StatusCode: http.StatusServiceUnavailable,
			Message:    "Websocket not available",
			ErrorLog:   fmt.Errorf("chat websocket handler missing"),
		}
	}
	return h.upgrader.ServeChat(w, r)
}

func (h *chatEndpoints) handleRooms(w http.ResponseWriter, r *http.Request) error {
	rooms, err := h.presence.Rooms(r.Context())
	if err != nil {
		return hubError(err)
	}
	return WriteJSON(w, http.StatusOK, RoomsResponse{Rooms: rooms})
}

func (h *chatEndpoints) handleRoomUsers(w http.ResponseWriter, r *http.Request) error {
	room, err := h.roomFromPath(r.URL.Path)
	if err != nil {
		return err
	}

	names, err := h.presence.Roster(r.Context(), room)
	if err != nil {
		return hubError(err)
	}

	users := make([]RoomUser, 0, len(names))
	for _, name := range names {
		users = append(users, RoomUser{Name: name})
	}
	return WriteJSON(w, http.StatusOK, RoomUsersResponse{Room: room, Users: users})
}

func (h *chatEndpoints) handleNotice(w http.ResponseWriter, r *http.Request) error {
	var notice websocket.Notice
	if err := json.NewDecoder(r.Body).Decode(&notice); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode notice: %w", err),
		}
	}

	if err := h.publisher.PublishNotice(r.Context(), notice); err != nil {
		return hubError(err)
	}

	return WriteJSON(w, http.StatusAccepted, ApiMessageResponse{Message: "Notice accepted"})
}

// roomFromPath extracts {room} from <prefix>{room}/users.
func (h *chatEndpoints) roomFromPath(path string) (string, error) {
	trimmed := strings.TrimPrefix(path, h.roomPrefix)
	if trimmed == path {
		return "", &HTTPError{StatusCode: http.StatusNotFound, Message: "Room not found", ErrorLog: fmt.Errorf("path mismatch: %s", path)}
	}

	room, rest, found := strings.Cut(strings.TrimRight(trimmed, "/"), "/")
	room = strings.TrimSpace(room)
	if !found || rest != "users" || room == "" {
		return "", &HTTPError{StatusCode: http.StatusNotFound, Message: "Room not found", ErrorLog: fmt.Errorf("invalid room path: %s", path)}
	}
	return room, nil
}

func hubError(err error) error {
	switch {
	case errors.Is(err, websocket.ErrRoomNotFound):
		return &HTTPError{StatusCode: http.StatusNotFound, Message: "Room not found", ErrorLog: err}
	case errors.Is(err, websocket.ErrEmptyNotice):
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: "Notice text required", ErrorLog: err}
	case errors.Is(err, websocket.ErrHubStopped):
		return &HTTPError{StatusCode: http.StatusServiceUnavailable, Message: "Chat unavailable", ErrorLog: err}
	default:
		return &HTTPError{StatusCode: http.StatusInternalServerError, Message: "Internal server error", ErrorLog: fmt.Errorf("chat hub: %w", err)}
	}
}
