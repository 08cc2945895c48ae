package game

import (
	"math/rand"

	"github.com/arjun/party-games-website/internal/domain"
	"github.com/google/uuid"
)

// MinPlayers is the minimum number of members required to assign roles.
const MinPlayers = 4

// classicRoles is the fixed set handed out in classic mode. Exactly these
// four are assigned regardless of room size; extra members spectate.
var classicRoles = []domain.Role{
	domain.RoleRaja,
	domain.RoleMantri,
	domain.RoleChor,
	domain.RoleSipahi,
}

// AssignClassic deals the four classic roles to a uniformly random subset of
// the given players. Uses rand.Shuffle (Fisher-Yates) for an unbiased
// permutation.
func AssignClassic(playerIDs []uuid.UUID) (map[domain.Role]uuid.UUID, error) {
	if len(playerIDs) < MinPlayers {
		return nil, domain.ErrInsufficientPlayers
	}

	shuffled := make([]uuid.UUID, len(playerIDs))
	copy(shuffled, playerIDs)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	roles := make(map[domain.Role]uuid.UUID, len(classicRoles))
	for i, role := range classicRoles {
		roles[role] = shuffled[i]
	}
	return roles, nil
}

// AssignElimination picks a killer and a detective at random; every other
// member is a citizen. The returned map carries only the two special roles,
// citizens are derived from room membership.
func AssignElimination(playerIDs []uuid.UUID) (map[domain.Role]uuid.UUID, error) {
	if len(playerIDs) < MinPlayers {
		return nil, domain.ErrInsufficientPlayers
	}

	shuffled := make([]uuid.UUID, len(playerIDs))
	copy(shuffled, playerIDs)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return map[domain.Role]uuid.UUID{
		domain.RoleKiller:    shuffled[0],
		domain.RoleDetective: shuffled[1],
	}, nil
}

// RoleFor returns the role the assignment gives to userID. Members without
// an entry are citizens in elimination mode and spectators in classic mode.
func RoleFor(mode domain.GameMode, roles map[domain.Role]uuid.UUID, userID uuid.UUID) domain.Role {
	for role, id := range roles {
		if id == userID {
			return role
		}
	}
	if mode == domain.GameModeElimination {
		return domain.RoleCitizen
	}
	return domain.RoleSpectator
}
