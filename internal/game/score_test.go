package game_test

import (
	"testing"

	"github.com/arjun/party-games-website/internal/domain"
	"github.com/arjun/party-games-website/internal/game"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func classicRoles(t *testing.T) (map[domain.Role]uuid.UUID, []uuid.UUID) {
	t.Helper()
	ids := makePlayerIDs(4)
	return map[domain.Role]uuid.UUID{
		domain.RoleRaja:   ids[0],
		domain.RoleMantri: ids[1],
		domain.RoleSipahi: ids[2],
		domain.RoleChor:   ids[3],
	}, ids
}

func TestClassicDeltas(t *testing.T) {
	t.Run("correct accusation", func(t *testing.T) {
		roles, ids := classicRoles(t)
		deltas := game.ClassicDeltas(roles, true)

		assert.Equal(t, map[uuid.UUID]int{
			ids[0]: 1000,
			ids[1]: 500,
			ids[2]: 250,
			ids[3]: 0,
		}, deltas)
	})

	t.Run("wrong accusation lets the chor escape", func(t *testing.T) {
		roles, ids := classicRoles(t)
		deltas := game.ClassicDeltas(roles, false)

		assert.Equal(t, map[uuid.UUID]int{
			ids[0]: 1000,
			ids[1]: 500,
			ids[2]: 0,
			ids[3]: 250,
		}, deltas)
	})
}

func TestInvestigationWinDeltas(t *testing.T) {
	ids := makePlayerIDs(5)
	roles := map[domain.Role]uuid.UUID{
		domain.RoleKiller:    ids[0],
		domain.RoleDetective: ids[1],
	}

	// ids[2] and ids[3] survived, ids[4] was killed earlier.
	deltas := game.InvestigationWinDeltas(roles, []uuid.UUID{ids[0], ids[1], ids[2], ids[3]})

	assert.Equal(t, map[uuid.UUID]int{
		ids[1]: game.PointsDetectiveArrest,
		ids[2]: game.PointsCitizenSurvive,
		ids[3]: game.PointsCitizenSurvive,
	}, deltas)
}

func TestKillerWinDeltas(t *testing.T) {
	ids := makePlayerIDs(4)
	roles := map[domain.Role]uuid.UUID{
		domain.RoleKiller:    ids[0],
		domain.RoleDetective: ids[1],
	}

	deltas := game.KillerWinDeltas(roles)
	assert.Equal(t, map[uuid.UUID]int{ids[0]: game.PointsKillerWin}, deltas)
}

func TestLastChance(t *testing.T) {
	assert.False(t, game.LastChance(4))
	assert.False(t, game.LastChance(3))
	assert.True(t, game.LastChance(2))
	assert.True(t, game.LastChance(1))
}
