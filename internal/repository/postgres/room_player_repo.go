package postgres

import (
	"context"

	"github.com/arjun/party-games-website/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type roomPlayerRepository struct {
	db *gorm.DB
}

func NewRoomPlayerRepository(db *gorm.DB) *roomPlayerRepository {
	return &roomPlayerRepository{db: db}
}

func (r *roomPlayerRepository) Create(ctx context.Context, player *domain.RoomPlayer) error {
	return r.db.WithContext(ctx).Create(player).Error
}

func (r *roomPlayerRepository) GetByRoomID(ctx context.Context, roomID uuid.UUID) ([]*domain.RoomPlayer, error) {
	var players []*domain.RoomPlayer
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("join_order ASC").
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (r *roomPlayerRepository) GetByRoomAndUser(ctx context.Context, roomID, userID uuid.UUID) (*domain.RoomPlayer, error) {
	var player domain.RoomPlayer
	err := r.db.WithContext(ctx).
		First(&player, "room_id = ? AND user_id = ?", roomID, userID).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *roomPlayerRepository) CountByRoomID(ctx context.Context, roomID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.RoomPlayer{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return count, err
}

func (r *roomPlayerRepository) Update(ctx context.Context, player *domain.RoomPlayer) error {
	return r.db.WithContext(ctx).Save(player).Error
}

func (r *roomPlayerRepository) Delete(ctx context.Context, roomID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&domain.RoomPlayer{}).Error
}

// AddScores folds point deltas into cumulative totals with relative updates,
// so concurrent writes to other member fields are never clobbered.
func (r *roomPlayerRepository) AddScores(ctx context.Context, roomID uuid.UUID, deltas map[uuid.UUID]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for userID, delta := range deltas {
			if delta == 0 {
				continue
			}
			err := tx.Model(&domain.RoomPlayer{}).
				Where("room_id = ? AND user_id = ?", roomID, userID).
				Update("score", gorm.Expr("score + ?", delta)).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
