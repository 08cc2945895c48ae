package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/arjun/party-games-website/internal/config"
	"github.com/arjun/party-games-website/internal/domain"
	"github.com/arjun/party-games-website/internal/game"
	"github.com/arjun/party-games-website/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GameService drives the round state machine and the score ledger. Every
// operation that checks a guard and conditionally mutates the room runs
// inside a transaction that re-reads the room under a row lock, so racing
// commands (two accusations, a resolve retried by the client) serialize and
// the loser sees the already-updated state.
type GameService struct {
	repos *repository.Repositories
	cfg   *config.Config
}

func NewGameService(repos *repository.Repositories, cfg *config.Config) *GameService {
	return &GameService{repos: repos, cfg: cfg}
}

// StartGame begins the first round. Host-only, lobby-only.
func (s *GameService) StartGame(ctx context.Context, roomID, callerID uuid.UUID) (*domain.Room, error) {
	err := s.repos.Atomic.RunInTx(ctx, func(r *repository.Repositories) error {
		room, err := lockRoom(ctx, r, roomID)
		if err != nil {
			return err
		}
		if room.HostID != callerID {
			return domain.ErrNotHost
		}
		if room.State != domain.RoomStateLobby {
			return domain.ErrGameInProgress
		}
		return s.startRound(ctx, r, room)
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Room.GetByID(ctx, roomID)
}

// NextRound reassigns roles and advances the round counter. Host-only, only
// from a resolved round.
func (s *GameService) NextRound(ctx context.Context, roomID, callerID uuid.UUID) (*domain.Room, error) {
	err := s.repos.Atomic.RunInTx(ctx, func(r *repository.Repositories) error {
		room, err := lockRoom(ctx, r, roomID)
		if err != nil {
			return err
		}
		if room.HostID != callerID {
			return domain.ErrNotHost
		}
		if room.Phase != domain.PhaseRoundResult {
			return domain.ErrInvalidPhase
		}
		if s.cfg.MaxRounds > 0 && room.Round >= s.cfg.MaxRounds {
			return domain.ErrRoundLimitReached
		}
		return s.startRound(ctx, r, room)
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Room.GetByID(ctx, roomID)
}

// CancelGame returns the room to the lobby. Host-only. Cumulative scores and
// history survive; round state does not.
func (s *GameService) CancelGame(ctx context.Context, roomID, callerID uuid.UUID) (*domain.Room, error) {
	err := s.repos.Atomic.RunInTx(ctx, func(r *repository.Repositories) error {
		room, err := lockRoom(ctx, r, roomID)
		if err != nil {
			return err
		}
		if room.HostID != callerID {
			return domain.ErrNotHost
		}

		now := time.Now()
		room.State = domain.RoomStateLobby
		room.Phase = domain.PhaseNone
		room.Round = 0
		room.Roles = datatypes.JSON("{}")
		room.AccusedID = nil
		room.ScoreUpdated = false
		room.LastResult = nil
		room.CompletedAt = &now
		if err := r.Room.Update(ctx, room); err != nil {
			return err
		}

		for i := range room.Players {
			p := &room.Players[i]
			p.Role = ""
			p.Alive = true
			if err := r.RoomPlayer.Update(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Room.GetByID(ctx, roomID)
}

// ClaimRole is the mantri announcing themselves, which opens the guessing
// phase. Classic mode only.
func (s *GameService) ClaimRole(ctx context.Context, roomID, callerID uuid.UUID) (*domain.Room, error) {
	err := s.repos.Atomic.RunInTx(ctx, func(r *repository.Repositories) error {
		room, err := lockRoom(ctx, r, roomID)
		if err != nil {
			return err
		}
		if room.GameMode != domain.GameModeClassic || !game.CanTransition(room.Phase, domain.PhaseGuessing) {
			return domain.ErrInvalidPhase
		}

		roles, err := room.RoleMap()
		if err != nil {
			return err
		}
		if roles[domain.RoleMantri] != callerID {
			return domain.ErrNotYourRole
		}

		room.Phase = domain.PhaseGuessing
		return r.Room.Update(ctx, room)
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Room.GetByID(ctx, roomID)
}

// Accuse is the sipahi naming a suspected chor. Resolves the round.
func (s *GameService) Accuse(ctx context.Context, roomID, callerID, accusedID uuid.UUID) (*domain.Room, error) {
	err := s.repos.Atomic.RunInTx(ctx, func(r *repository.Repositories) error {
		room, err := lockRoom(ctx, r, roomID)
		if err != nil {
			return err
		}
		if room.GameMode != domain.GameModeClassic {
			return domain.ErrInvalidPhase
		}
		// The resolved check must come before the phase check: a duplicate
		// accusation arrives after the round moved to round_result, and it
		// must no-op rather than surface a phase error.
		if room.ScoreUpdated {
			return domain.ErrAlreadyResolved
		}
		if !game.CanTransition(room.Phase, domain.PhaseRoundResult) {
			return domain.ErrInvalidPhase
		}

		roles, err := room.RoleMap()
		if err != nil {
			return err
		}
		if roles[domain.RoleSipahi] != callerID {
			return domain.ErrNotYourRole
		}
		if room.PlayerByUserID(accusedID) == nil {
			return domain.ErrInvalidTarget
		}

		room.AccusedID = &accusedID
		return s.resolveClassic(ctx, r, room, roles, accusedID == roles[domain.RoleChor])
	})
	if err != nil && !errors.Is(err, domain.ErrAlreadyResolved) {
		return nil, err
	}
	return s.repos.Room.GetByID(ctx, roomID)
}

// UpdateScores is the server-mediated resolution command: any authenticated
// caller may fire it with the accusation outcome. Idempotent per round; a
// missing room or an already-scored round is a silent no-op.
func (s *GameService) UpdateScores(ctx context.Context, roomID uuid.UUID, isCorrect bool) error {
	return s.repos.Atomic.RunInTx(ctx, func(r *repository.Repositories) error {
		room, err := lockRoom(ctx, r, roomID)
		if err != nil {
			if errors.Is(err, domain.ErrRoomNotFound) {
				return nil
			}
			return err
		}
		if room.GameMode != domain.GameModeClassic || room.ScoreUpdated {
			return nil
		}
		if !game.CanTransition(room.Phase, domain.PhaseRoundResult) {
			return nil
		}

		roles, err := room.RoleMap()
		if err != nil {
			return err
		}
		return s.resolveClassic(ctx, r, room, roles, isCorrect)
	})
}

// Kill is the killer eliminating a living player. Eliminating the detective
// ends the round in a kill-side win; otherwise the survivor threshold is
// checked before play continues.
func (s *GameService) Kill(ctx context.Context, roomID, callerID, targetID uuid.UUID) (*domain.Room, error) {
	err := s.repos.Atomic.RunInTx(ctx, func(r *repository.Repositories) error {
		room, err := lockRoom(ctx, r, roomID)
		if err != nil {
			return err
		}
		roles, err := s.eliminationActor(room, callerID, domain.RoleKiller)
		if err != nil {
			return err
		}

		target := room.PlayerByUserID(targetID)
		if target == nil || !target.Alive || targetID == callerID {
			return domain.ErrInvalidTarget
		}

		if err := s.eliminate(ctx, r, target); err != nil {
			return err
		}

		if targetID == roles[domain.RoleDetective] {
			return s.resolveKillerWin(ctx, r, room, roles)
		}
		if game.LastChance(aliveCount(room)) {
			return s.resolveKillerWin(ctx, r, room, roles)
		}
		return nil
	})
	if err != nil && !errors.Is(err, domain.ErrAlreadyResolved) {
		return nil, err
	}
	return s.repos.Room.GetByID(ctx, roomID)
}

// Arrest is the detective accusing a living player of being the killer. A
// correct arrest ends the round for the investigation side; a wrong one
// eliminates the accused, penalizes the detective, and may trigger the
// last-chance kill-side win.
func (s *GameService) Arrest(ctx context.Context, roomID, callerID, targetID uuid.UUID) (*domain.Room, error) {
	err := s.repos.Atomic.RunInTx(ctx, func(r *repository.Repositories) error {
		room, err := lockRoom(ctx, r, roomID)
		if err != nil {
			return err
		}
		roles, err := s.eliminationActor(room, callerID, domain.RoleDetective)
		if err != nil {
			return err
		}

		target := room.PlayerByUserID(targetID)
		if target == nil || !target.Alive || targetID == callerID {
			return domain.ErrInvalidTarget
		}

		room.AccusedID = &targetID

		if targetID == roles[domain.RoleKiller] {
			return s.resolveInvestigationWin(ctx, r, room, roles)
		}

		// Wrong arrest: the accused is out and the detective pays for it.
		if err := s.eliminate(ctx, r, target); err != nil {
			return err
		}
		err = r.RoomPlayer.AddScores(ctx, room.ID, map[uuid.UUID]int{
			callerID: game.PenaltyDetectiveMiss,
		})
		if err != nil {
			return err
		}

		if game.LastChance(aliveCount(room)) {
			return s.resolveKillerWin(ctx, r, room, roles)
		}
		return r.Room.Update(ctx, room)
	})
	if err != nil && !errors.Is(err, domain.ErrAlreadyResolved) {
		return nil, err
	}
	return s.repos.Room.GetByID(ctx, roomID)
}

func (s *GameService) GetHistory(ctx context.Context, roomID uuid.UUID) ([]*domain.RoundRecord, error) {
	return s.repos.RoundRecord.GetByRoomID(ctx, roomID)
}

// startRound assigns fresh roles and resets per-round state. Caller holds the
// room lock and has already checked host identity and coarse state.
func (s *GameService) startRound(ctx context.Context, r *repository.Repositories, room *domain.Room) error {
	if len(room.Players) < s.cfg.MinPlayers {
		return domain.ErrInsufficientPlayers
	}

	playerIDs := make([]uuid.UUID, len(room.Players))
	for i := range room.Players {
		playerIDs[i] = room.Players[i].UserID
	}

	var (
		roles map[domain.Role]uuid.UUID
		err   error
	)
	switch room.GameMode {
	case domain.GameModeElimination:
		roles, err = game.AssignElimination(playerIDs)
	default:
		roles, err = game.AssignClassic(playerIDs)
	}
	if err != nil {
		return err
	}

	if err := room.SetRoleMap(roles); err != nil {
		return err
	}

	now := time.Now()
	room.State = domain.RoomStatePlaying
	room.Phase = game.OpeningPhase(room.GameMode)
	room.Round++
	room.AccusedID = nil
	room.ScoreUpdated = false
	room.LastResult = nil
	if room.StartedAt == nil {
		room.StartedAt = &now
	}
	if err := r.Room.Update(ctx, room); err != nil {
		return err
	}

	for i := range room.Players {
		p := &room.Players[i]
		p.Role = game.RoleFor(room.GameMode, roles, p.UserID)
		p.Alive = true
		if err := r.RoomPlayer.Update(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// resolveClassic scores a classic round from the accusation outcome.
func (s *GameService) resolveClassic(ctx context.Context, r *repository.Repositories, room *domain.Room, roles map[domain.Role]uuid.UUID, correct bool) error {
	deltas := game.ClassicDeltas(roles, correct)
	result := domain.ResultChorEscaped
	if correct {
		result = domain.ResultChorCaught
	}
	return s.commitResolution(ctx, r, room, deltas, result)
}

func (s *GameService) resolveInvestigationWin(ctx context.Context, r *repository.Repositories, room *domain.Room, roles map[domain.Role]uuid.UUID) error {
	survivors := make([]uuid.UUID, 0, len(room.Players))
	for i := range room.Players {
		if room.Players[i].Alive {
			survivors = append(survivors, room.Players[i].UserID)
		}
	}
	deltas := game.InvestigationWinDeltas(roles, survivors)
	return s.commitResolution(ctx, r, room, deltas, domain.ResultInvestigationWin)
}

func (s *GameService) resolveKillerWin(ctx context.Context, r *repository.Repositories, room *domain.Room, roles map[domain.Role]uuid.UUID) error {
	deltas := game.KillerWinDeltas(roles)
	return s.commitResolution(ctx, r, room, deltas, domain.ResultKillerWin)
}

// commitResolution applies score deltas, appends the immutable round record,
// and flips the resolution guard, all within the caller's transaction. A
// round resolves at most once.
func (s *GameService) commitResolution(ctx context.Context, r *repository.Repositories, room *domain.Room, deltas map[uuid.UUID]int, result domain.RoundResult) error {
	if room.ScoreUpdated {
		return domain.ErrAlreadyResolved
	}
	if err := r.RoomPlayer.AddScores(ctx, room.ID, deltas); err != nil {
		return err
	}

	points := make(map[string]int, len(deltas))
	for id, delta := range deltas {
		points[id.String()] = delta
	}
	pointsJSON, err := json.Marshal(points)
	if err != nil {
		return err
	}

	record := &domain.RoundRecord{
		ID:         uuid.New(),
		RoomID:     room.ID,
		Round:      room.Round,
		Roles:      room.Roles,
		Points:     datatypes.JSON(pointsJSON),
		Result:     result,
		RecordedAt: time.Now(),
	}
	if err := r.RoundRecord.Create(ctx, record); err != nil {
		return err
	}

	room.ScoreUpdated = true
	room.Phase = domain.PhaseRoundResult
	room.LastResult = &result
	return r.Room.Update(ctx, room)
}

// eliminationActor validates an action-loop actor: mode, phase, membership,
// role, and aliveness. Returns the current role assignment.
func (s *GameService) eliminationActor(room *domain.Room, callerID uuid.UUID, role domain.Role) (map[domain.Role]uuid.UUID, error) {
	if room.GameMode != domain.GameModeElimination || !game.CanTransition(room.Phase, domain.PhaseRoundResult) {
		return nil, domain.ErrInvalidPhase
	}
	roles, err := room.RoleMap()
	if err != nil {
		return nil, err
	}
	if roles[role] != callerID {
		return nil, domain.ErrNotYourRole
	}
	actor := room.PlayerByUserID(callerID)
	if actor == nil {
		return nil, domain.ErrNotInRoom
	}
	if !actor.Alive {
		return nil, domain.ErrPlayerDead
	}
	return roles, nil
}

func (s *GameService) eliminate(ctx context.Context, r *repository.Repositories, target *domain.RoomPlayer) error {
	target.Alive = false
	return r.RoomPlayer.Update(ctx, target)
}

func aliveCount(room *domain.Room) int {
	n := 0
	for i := range room.Players {
		if room.Players[i].Alive {
			n++
		}
	}
	return n
}

func lockRoom(ctx context.Context, r *repository.Repositories, roomID uuid.UUID) (*domain.Room, error) {
	room, err := r.Room.GetByIDForUpdate(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}
