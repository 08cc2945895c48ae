package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GameMode string

const (
	GameModeClassic     GameMode = "classic"
	GameModeElimination GameMode = "elimination"
)

type RoomState string

const (
	RoomStateLobby   RoomState = "lobby"
	RoomStatePlaying RoomState = "playing"
)

// Phase is the sub-state of an active round.
type Phase string

const (
	PhaseNone          Phase = ""
	PhaseRolesAssigned Phase = "roles_assigned"
	PhaseGuessing      Phase = "guessing"
	// PhaseActing is the elimination-mode action loop: there is no fixed
	// turn order, any living killer/detective may act.
	PhaseActing      Phase = "acting"
	PhaseRoundResult Phase = "round_result"
)

// RoundResult identifies how a resolved round ended.
type RoundResult string

const (
	ResultChorCaught       RoundResult = "chor_caught"
	ResultChorEscaped      RoundResult = "chor_escaped"
	ResultKillerWin        RoundResult = "killer_win"
	ResultInvestigationWin RoundResult = "investigation_win"
)

type Room struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ShortCode string    `json:"shortCode" gorm:"uniqueIndex;size:10;not null"`
	HostID    uuid.UUID `json:"hostId" gorm:"type:uuid;not null"`
	GameMode  GameMode  `json:"gameMode" gorm:"type:varchar(20);not null;default:'classic'"`
	State     RoomState `json:"state" gorm:"type:varchar(20);not null;default:'lobby'"`
	Phase     Phase     `json:"phase" gorm:"type:varchar(20)"`
	Round     int       `json:"round" gorm:"not null;default:0"`

	// Roles holds the current round's assignment as a JSON object mapping
	// role name to player user ID. Cleared and repopulated at round start.
	Roles datatypes.JSON `json:"roles"`

	// AccusedID is the player named by the current round's accusation, if any.
	AccusedID *uuid.UUID `json:"accusedId" gorm:"type:uuid"`

	// ScoreUpdated guards round resolution: a round is scored at most once.
	ScoreUpdated bool         `json:"scoreUpdated" gorm:"not null;default:false"`
	LastResult   *RoundResult `json:"lastResult" gorm:"type:varchar(30)"`

	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`

	// Relations
	Host    *User        `json:"host,omitempty" gorm:"foreignKey:HostID"`
	Players []RoomPlayer `json:"players,omitempty" gorm:"foreignKey:RoomID"`
}

func (Room) TableName() string {
	return "rooms"
}

// RoleMap decodes the Roles column. An unset column decodes to an empty map.
func (r *Room) RoleMap() (map[Role]uuid.UUID, error) {
	roles := make(map[Role]uuid.UUID)
	if len(r.Roles) == 0 {
		return roles, nil
	}
	raw := make(map[Role]string)
	if err := json.Unmarshal(r.Roles, &raw); err != nil {
		return nil, err
	}
	for role, idStr := range raw {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, err
		}
		roles[role] = id
	}
	return roles, nil
}

// SetRoleMap encodes the assignment into the Roles column.
func (r *Room) SetRoleMap(roles map[Role]uuid.UUID) error {
	raw := make(map[Role]string, len(roles))
	for role, id := range roles {
		raw[role] = id.String()
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	r.Roles = datatypes.JSON(data)
	return nil
}

// PlayerByUserID returns the member with the given user ID, or nil.
func (r *Room) PlayerByUserID(userID uuid.UUID) *RoomPlayer {
	for i := range r.Players {
		if r.Players[i].UserID == userID {
			return &r.Players[i]
		}
	}
	return nil
}
