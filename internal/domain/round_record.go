package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RoundRecord is an append-only audit entry for one resolved round.
// Records are never edited after creation.
type RoundRecord struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RoomID     uuid.UUID      `json:"roomId" gorm:"type:uuid;not null;index"`
	Round      int            `json:"round" gorm:"not null"`
	Roles      datatypes.JSON `json:"roles"`
	Points     datatypes.JSON `json:"points"`
	Result     RoundResult    `json:"result" gorm:"type:varchar(30);not null"`
	RecordedAt time.Time      `json:"recordedAt" gorm:"not null"`
}

func (RoundRecord) TableName() string {
	return "round_records"
}
