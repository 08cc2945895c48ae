package game_test

import (
	"testing"

	"github.com/arjun/party-games-website/internal/domain"
	"github.com/arjun/party-games-website/internal/game"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePlayerIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestAssignClassic(t *testing.T) {
	tests := []struct {
		name    string
		players int
		wantErr error
	}{
		{name: "four players", players: 4},
		{name: "seven players with spectators", players: 7},
		{name: "three players rejected", players: 3, wantErr: domain.ErrInsufficientPlayers},
		{name: "empty room rejected", players: 0, wantErr: domain.ErrInsufficientPlayers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := makePlayerIDs(tt.players)
			roles, err := game.AssignClassic(ids)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, roles)
				return
			}

			require.NoError(t, err)
			require.Len(t, roles, 4)

			member := make(map[uuid.UUID]bool, len(ids))
			for _, id := range ids {
				member[id] = true
			}

			seen := make(map[uuid.UUID]domain.Role)
			for _, role := range []domain.Role{domain.RoleRaja, domain.RoleMantri, domain.RoleChor, domain.RoleSipahi} {
				id, ok := roles[role]
				require.True(t, ok, "role %s not assigned", role)
				assert.True(t, member[id], "role %s assigned to non-member", role)
				_, dup := seen[id]
				assert.False(t, dup, "player %s holds two roles", id)
				seen[id] = role
			}
		})
	}
}

// Every member must be reachable for every role: run enough assignments over
// a fixed player set and check each player has held each role at least once.
func TestAssignClassic_Coverage(t *testing.T) {
	ids := makePlayerIDs(4)

	held := make(map[uuid.UUID]map[domain.Role]bool)
	for _, id := range ids {
		held[id] = make(map[domain.Role]bool)
	}

	for i := 0; i < 2000; i++ {
		roles, err := game.AssignClassic(ids)
		require.NoError(t, err)
		for role, id := range roles {
			held[id][role] = true
		}
	}

	for _, id := range ids {
		assert.Len(t, held[id], 4, "player %s never held all four roles", id)
	}
}

func TestAssignElimination(t *testing.T) {
	t.Run("picks distinct killer and detective", func(t *testing.T) {
		ids := makePlayerIDs(6)
		roles, err := game.AssignElimination(ids)
		require.NoError(t, err)
		require.Len(t, roles, 2)

		killer := roles[domain.RoleKiller]
		detective := roles[domain.RoleDetective]
		assert.NotEqual(t, killer, detective)
		assert.Contains(t, ids, killer)
		assert.Contains(t, ids, detective)
	})

	t.Run("rejects fewer than four players", func(t *testing.T) {
		_, err := game.AssignElimination(makePlayerIDs(3))
		assert.ErrorIs(t, err, domain.ErrInsufficientPlayers)
	})
}

func TestRoleFor(t *testing.T) {
	ids := makePlayerIDs(5)
	roles := map[domain.Role]uuid.UUID{
		domain.RoleKiller:    ids[0],
		domain.RoleDetective: ids[1],
	}

	assert.Equal(t, domain.RoleKiller, game.RoleFor(domain.GameModeElimination, roles, ids[0]))
	assert.Equal(t, domain.RoleDetective, game.RoleFor(domain.GameModeElimination, roles, ids[1]))
	assert.Equal(t, domain.RoleCitizen, game.RoleFor(domain.GameModeElimination, roles, ids[2]))

	classic := map[domain.Role]uuid.UUID{
		domain.RoleRaja:   ids[0],
		domain.RoleMantri: ids[1],
		domain.RoleChor:   ids[2],
		domain.RoleSipahi: ids[3],
	}
	assert.Equal(t, domain.RoleSpectator, game.RoleFor(domain.GameModeClassic, classic, ids[4]))
}
