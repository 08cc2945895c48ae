package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a hidden per-round label drawn from a fixed set.
type Role string

const (
	// Classic mode
	RoleRaja   Role = "raja"
	RoleMantri Role = "mantri"
	RoleChor   Role = "chor"
	RoleSipahi Role = "sipahi"

	// Elimination mode
	RoleKiller    Role = "killer"
	RoleDetective Role = "detective"
	RoleCitizen   Role = "citizen"

	// RoleSpectator marks members beyond the four classic roles.
	RoleSpectator Role = "spectator"
)

// RoomPlayer is a member of a room. The (RoomID, UserID) pair is unique, so
// joining is naturally idempotent and leaving is a keyed delete rather than a
// value match against a possibly stale snapshot.
type RoomPlayer struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RoomID      uuid.UUID `json:"roomId" gorm:"type:uuid;not null;uniqueIndex:idx_room_user"`
	UserID      uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_room_user"`
	DisplayName string    `json:"displayName" gorm:"not null"`
	Score       int       `json:"score" gorm:"not null;default:0"`
	Role        Role      `json:"role" gorm:"type:varchar(20)"`
	Alive       bool      `json:"alive" gorm:"not null;default:true"`
	JoinOrder   int       `json:"joinOrder" gorm:"not null;default:0"`
	JoinedAt    time.Time `json:"joinedAt"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Room *Room `json:"-" gorm:"foreignKey:RoomID"`
}

func (RoomPlayer) TableName() string {
	return "room_players"
}
