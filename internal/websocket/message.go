package websocket

import (
	"encoding/json"
	"time"

	"github.com/arjun/party-games-website/internal/domain"
)

type MessageType string

const (
	// Client to Server
	MessageTypeJoinRoom  MessageType = "JOIN_ROOM"
	MessageTypeLeaveRoom MessageType = "LEAVE_ROOM"
	MessageTypeSyncState MessageType = "SYNC_STATE"

	// Server to Client
	MessageTypeStateSync  MessageType = "STATE_SYNC"
	MessageTypeRoomUpdate MessageType = "ROOM_UPDATE"
	MessageTypeRoomClosed MessageType = "ROOM_CLOSED"
	MessageTypeError      MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
	Seq       int             `json:"seq,omitempty"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type JoinRoomPayload struct {
	RoomCode string `json:"roomCode"`
}

// Server to Client payloads

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RoomSnapshot is the immutable room-state view pushed to subscribers on
// every committed change. Presentation is a pure function of the latest
// snapshot; no game logic happens on the receiving side.
type RoomSnapshot struct {
	ID           string             `json:"id"`
	ShortCode    string             `json:"shortCode"`
	HostID       string             `json:"hostId"`
	GameMode     domain.GameMode    `json:"gameMode"`
	State        domain.RoomState   `json:"state"`
	Phase        domain.Phase       `json:"phase"`
	Round        int                `json:"round"`
	Roles        map[string]string  `json:"roles"`
	AccusedID    *string            `json:"accusedId"`
	ScoreUpdated bool               `json:"scoreUpdated"`
	LastResult   *domain.RoundResult `json:"lastResult"`
	Players      []PlayerSnapshot   `json:"players"`
}

type PlayerSnapshot struct {
	UserID      string      `json:"userId"`
	DisplayName string      `json:"displayName"`
	Score       int         `json:"score"`
	Role        domain.Role `json:"role"`
	Alive       bool        `json:"alive"`
	JoinOrder   int         `json:"joinOrder"`
}

// NewRoomSnapshot projects a room document into the wire view.
func NewRoomSnapshot(room *domain.Room) *RoomSnapshot {
	snap := &RoomSnapshot{
		ID:           room.ID.String(),
		ShortCode:    room.ShortCode,
		HostID:       room.HostID.String(),
		GameMode:     room.GameMode,
		State:        room.State,
		Phase:        room.Phase,
		Round:        room.Round,
		Roles:        make(map[string]string),
		ScoreUpdated: room.ScoreUpdated,
		LastResult:   room.LastResult,
		Players:      make([]PlayerSnapshot, 0, len(room.Players)),
	}

	if room.AccusedID != nil {
		accused := room.AccusedID.String()
		snap.AccusedID = &accused
	}

	if roles, err := room.RoleMap(); err == nil {
		for role, id := range roles {
			snap.Roles[string(role)] = id.String()
		}
	}

	for _, p := range room.Players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			UserID:      p.UserID.String(),
			DisplayName: p.DisplayName,
			Score:       p.Score,
			Role:        p.Role,
			Alive:       p.Alive,
			JoinOrder:   p.JoinOrder,
		})
	}

	return snap
}
