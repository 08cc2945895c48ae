package game

import (
	"github.com/arjun/party-games-website/internal/domain"
	"github.com/google/uuid"
)

// Classic point table.
const (
	PointsRaja       = 1000
	PointsMantri     = 500
	PointsSipahi     = 250
	PointsChorEscape = 250
)

// Elimination point table.
const (
	PointsDetectiveArrest = 800
	PointsCitizenSurvive  = 500
	PointsKillerWin       = 1000
	PenaltyDetectiveMiss  = -200
)

// ClassicDeltas computes per-player point deltas for a classic round.
// Raja and Mantri always score; the Sipahi scores only on a correct
// accusation, otherwise the Chor scores for escaping.
func ClassicDeltas(roles map[domain.Role]uuid.UUID, correct bool) map[uuid.UUID]int {
	deltas := map[uuid.UUID]int{
		roles[domain.RoleRaja]:   PointsRaja,
		roles[domain.RoleMantri]: PointsMantri,
	}
	if correct {
		deltas[roles[domain.RoleSipahi]] = PointsSipahi
		deltas[roles[domain.RoleChor]] = 0
	} else {
		deltas[roles[domain.RoleSipahi]] = 0
		deltas[roles[domain.RoleChor]] = PointsChorEscape
	}
	return deltas
}

// InvestigationWinDeltas scores a correct arrest: the detective takes the
// arrest bonus and every surviving citizen shares in the win.
func InvestigationWinDeltas(roles map[domain.Role]uuid.UUID, survivors []uuid.UUID) map[uuid.UUID]int {
	deltas := map[uuid.UUID]int{
		roles[domain.RoleDetective]: PointsDetectiveArrest,
	}
	for _, id := range survivors {
		if id == roles[domain.RoleKiller] || id == roles[domain.RoleDetective] {
			continue
		}
		deltas[id] = PointsCitizenSurvive
	}
	return deltas
}

// KillerWinDeltas scores a kill-side win, reached either by eliminating the
// detective or by outlasting the room down to the survival threshold.
func KillerWinDeltas(roles map[domain.Role]uuid.UUID) map[uuid.UUID]int {
	return map[uuid.UUID]int{
		roles[domain.RoleKiller]: PointsKillerWin,
	}
}

// LastChance reports whether an elimination has forced the round to end in a
// kill-side win. Checked every time a player is eliminated, not only at the
// top of the action loop.
func LastChance(survivors int) bool {
	return survivors <= 2
}
