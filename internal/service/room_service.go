package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/arjun/party-games-website/internal/config"
	"github.com/arjun/party-games-website/internal/domain"
	"github.com/arjun/party-games-website/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	shortCodeLength   = 5
	shortCodeCharset  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	shortCodeAttempts = 5
)

type RoomService struct {
	repos *repository.Repositories
	cfg   *config.Config
}

func NewRoomService(repos *repository.Repositories, cfg *config.Config) *RoomService {
	return &RoomService{repos: repos, cfg: cfg}
}

type CreateRoomInput struct {
	HostID   uuid.UUID
	GameMode domain.GameMode
}

// CreateRoom makes a new lobby with the host as its first member. Short-code
// collisions are retried with a fresh code.
func (s *RoomService) CreateRoom(ctx context.Context, input CreateRoomInput) (*domain.Room, error) {
	host, err := s.repos.User.GetByID(ctx, input.HostID)
	if err != nil {
		return nil, err
	}

	mode := input.GameMode
	if mode == "" {
		mode = domain.GameModeClassic
	}

	var room *domain.Room
	for attempt := 0; attempt < shortCodeAttempts; attempt++ {
		room = &domain.Room{
			ID:        uuid.New(),
			ShortCode: generateShortCode(),
			HostID:    input.HostID,
			GameMode:  mode,
			State:     domain.RoomStateLobby,
			Round:     0,
			CreatedAt: time.Now(),
		}

		err = s.repos.Room.Create(ctx, room)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	player := &domain.RoomPlayer{
		ID:          uuid.New(),
		RoomID:      room.ID,
		UserID:      input.HostID,
		DisplayName: host.DisplayName,
		Alive:       true,
		JoinOrder:   0,
		JoinedAt:    time.Now(),
	}

	if err := s.repos.RoomPlayer.Create(ctx, player); err != nil {
		return nil, err
	}

	return s.repos.Room.GetByID(ctx, room.ID)
}

func (s *RoomService) GetRoom(ctx context.Context, idOrCode string) (*domain.Room, error) {
	var (
		room *domain.Room
		err  error
	)
	if id, parseErr := uuid.Parse(idOrCode); parseErr == nil {
		room, err = s.repos.Room.GetByID(ctx, id)
	} else {
		room, err = s.repos.Room.GetByShortCode(ctx, strings.ToUpper(idOrCode))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// JoinRoom adds a member. The add is idempotent by user ID: rejoining members
// pass every guard, so a reconnect is always allowed even mid-game.
func (s *RoomService) JoinRoom(ctx context.Context, roomID, userID uuid.UUID) (*domain.Room, error) {
	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.repos.Atomic.RunInTx(ctx, func(r *repository.Repositories) error {
		room, err := r.Room.GetByIDForUpdate(ctx, roomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRoomNotFound
			}
			return err
		}

		// Existing member: no-op, score and join order untouched.
		if room.PlayerByUserID(userID) != nil {
			return nil
		}

		if room.State != domain.RoomStateLobby {
			return domain.ErrGameInProgress
		}
		if len(room.Players) >= s.cfg.RoomCapacity {
			return domain.ErrRoomFull
		}

		// Orders are never reused after a leave, so host promotion by
		// earliest order stays deterministic.
		order := 0
		for i := range room.Players {
			if room.Players[i].JoinOrder >= order {
				order = room.Players[i].JoinOrder + 1
			}
		}

		return r.RoomPlayer.Create(ctx, &domain.RoomPlayer{
			ID:          uuid.New(),
			RoomID:      roomID,
			UserID:      userID,
			DisplayName: user.DisplayName,
			Alive:       true,
			JoinOrder:   order,
			JoinedAt:    time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.repos.Room.GetByID(ctx, roomID)
}

// LeaveRoom removes a member keyed by user ID. If the host leaves, the
// earliest remaining member by join order is promoted; an emptied room is
// deleted outright.
func (s *RoomService) LeaveRoom(ctx context.Context, roomID, userID uuid.UUID) error {
	return s.repos.Atomic.RunInTx(ctx, func(r *repository.Repositories) error {
		room, err := r.Room.GetByIDForUpdate(ctx, roomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRoomNotFound
			}
			return err
		}

		if room.PlayerByUserID(userID) == nil {
			return domain.ErrNotInRoom
		}

		if err := r.RoomPlayer.Delete(ctx, roomID, userID); err != nil {
			return err
		}

		remaining := make([]*domain.RoomPlayer, 0, len(room.Players)-1)
		for i := range room.Players {
			if room.Players[i].UserID != userID {
				remaining = append(remaining, &room.Players[i])
			}
		}

		if len(remaining) == 0 {
			return r.Room.Delete(ctx, roomID)
		}

		if room.HostID == userID {
			room.HostID = remaining[0].UserID
			return r.Room.Update(ctx, room)
		}

		return nil
	})
}

func (s *RoomService) GetUserRooms(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Room, error) {
	return s.repos.Room.GetByUserID(ctx, userID, limit, offset)
}

func generateShortCode() string {
	code := make([]byte, shortCodeLength)
	max := big.NewInt(int64(len(shortCodeCharset)))
	for i := range code {
		n, _ := rand.Int(rand.Reader, max)
		code[i] = shortCodeCharset[n.Int64()]
	}
	return string(code)
}
