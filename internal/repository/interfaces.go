package repository

import (
	"context"

	"github.com/arjun/party-games-website/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByDisplayName(ctx context.Context, displayName string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	// GetByIDForUpdate locks the room row for the duration of the enclosing
	// transaction. Every guard-then-mutate operation must read through this.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	GetByShortCode(ctx context.Context, code string) (*domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Room, error)
}

type RoomPlayerRepository interface {
	Create(ctx context.Context, player *domain.RoomPlayer) error
	GetByRoomID(ctx context.Context, roomID uuid.UUID) ([]*domain.RoomPlayer, error)
	GetByRoomAndUser(ctx context.Context, roomID, userID uuid.UUID) (*domain.RoomPlayer, error)
	CountByRoomID(ctx context.Context, roomID uuid.UUID) (int64, error)
	Update(ctx context.Context, player *domain.RoomPlayer) error
	// Delete removes a member keyed by (roomID, userID) only, never by value
	// equality against a snapshot.
	Delete(ctx context.Context, roomID, userID uuid.UUID) error
	AddScores(ctx context.Context, roomID uuid.UUID, deltas map[uuid.UUID]int) error
}

type RoundRecordRepository interface {
	Create(ctx context.Context, record *domain.RoundRecord) error
	GetByRoomID(ctx context.Context, roomID uuid.UUID) ([]*domain.RoundRecord, error)
}

// Atomic runs fn against a transaction-bound copy of the repositories. The
// store retries or aborts on conflict; callers treat fn as the unit of
// atomicity for all multi-row guard-then-mutate room updates.
type Atomic interface {
	RunInTx(ctx context.Context, fn func(r *Repositories) error) error
}

type Repositories struct {
	User        UserRepository
	Session     SessionRepository
	Room        RoomRepository
	RoomPlayer  RoomPlayerRepository
	RoundRecord RoundRecordRepository
	Atomic      Atomic
}
