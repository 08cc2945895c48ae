package game

import "github.com/arjun/party-games-website/internal/domain"

// phaseTransitions lists the legal phase changes within a playing room.
// Classic rounds run roles_assigned -> guessing -> round_result; elimination
// rounds run acting -> round_result. round_result loops back to the start of
// the next round or falls out to the lobby.
var phaseTransitions = map[domain.Phase][]domain.Phase{
	domain.PhaseNone:          {domain.PhaseRolesAssigned, domain.PhaseActing},
	domain.PhaseRolesAssigned: {domain.PhaseGuessing, domain.PhaseNone},
	domain.PhaseGuessing:      {domain.PhaseRoundResult, domain.PhaseNone},
	domain.PhaseActing:        {domain.PhaseRoundResult, domain.PhaseNone},
	domain.PhaseRoundResult:   {domain.PhaseRolesAssigned, domain.PhaseActing, domain.PhaseNone},
}

// CanTransition reports whether a phase change is legal.
func CanTransition(from, to domain.Phase) bool {
	for _, next := range phaseTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OpeningPhase is the phase a freshly assigned round starts in.
func OpeningPhase(mode domain.GameMode) domain.Phase {
	if mode == domain.GameModeElimination {
		return domain.PhaseActing
	}
	return domain.PhaseRolesAssigned
}
