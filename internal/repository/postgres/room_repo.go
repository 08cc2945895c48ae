package postgres

import (
	"context"

	"github.com/arjun/party-games-website/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *roomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).
		Preload("Host").
		Preload("Players", func(db *gorm.DB) *gorm.DB {
			return db.Order("room_players.join_order ASC")
		}).
		First(&room, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByIDForUpdate takes a row lock on the room. Players are loaded in a
// second query after the lock is held, so membership reads are consistent
// with the locked room for the rest of the transaction.
func (r *roomRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Where("room_id = ?", id).
		Order("join_order ASC").
		Find(&room.Players).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) GetByShortCode(ctx context.Context, code string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).
		Preload("Host").
		Preload("Players", func(db *gorm.DB) *gorm.DB {
			return db.Order("room_players.join_order ASC")
		}).
		First(&room, "short_code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) Update(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Omit("Players", "Host").Save(room).Error
}

func (r *roomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Room{}, "id = ?", id).Error
}

func (r *roomRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Room, error) {
	var rooms []*domain.Room
	err := r.db.WithContext(ctx).
		Joins("JOIN room_players ON room_players.room_id = rooms.id").
		Where("room_players.user_id = ?", userID).
		Order("rooms.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}
