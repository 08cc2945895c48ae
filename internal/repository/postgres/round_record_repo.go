package postgres

import (
	"context"

	"github.com/arjun/party-games-website/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type roundRecordRepository struct {
	db *gorm.DB
}

func NewRoundRecordRepository(db *gorm.DB) *roundRecordRepository {
	return &roundRecordRepository{db: db}
}

func (r *roundRecordRepository) Create(ctx context.Context, record *domain.RoundRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *roundRecordRepository) GetByRoomID(ctx context.Context, roomID uuid.UUID) ([]*domain.RoundRecord, error) {
	var records []*domain.RoundRecord
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("round ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
