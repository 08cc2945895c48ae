package game_test

import (
	"testing"

	"github.com/arjun/party-games-website/internal/domain"
	"github.com/arjun/party-games-website/internal/game"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from domain.Phase
		to   domain.Phase
		want bool
	}{
		{"round start classic", domain.PhaseNone, domain.PhaseRolesAssigned, true},
		{"round start elimination", domain.PhaseNone, domain.PhaseActing, true},
		{"mantri claim", domain.PhaseRolesAssigned, domain.PhaseGuessing, true},
		{"accusation resolves", domain.PhaseGuessing, domain.PhaseRoundResult, true},
		{"action loop resolves", domain.PhaseActing, domain.PhaseRoundResult, true},
		{"next round classic", domain.PhaseRoundResult, domain.PhaseRolesAssigned, true},
		{"next round elimination", domain.PhaseRoundResult, domain.PhaseActing, true},
		{"cancel mid-guess", domain.PhaseGuessing, domain.PhaseNone, true},
		{"cannot skip guessing", domain.PhaseRolesAssigned, domain.PhaseRoundResult, false},
		{"cannot resolve from lobby", domain.PhaseNone, domain.PhaseRoundResult, false},
		{"cannot rewind", domain.PhaseRoundResult, domain.PhaseGuessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, game.CanTransition(tt.from, tt.to))
		})
	}
}

func TestOpeningPhase(t *testing.T) {
	assert.Equal(t, domain.PhaseRolesAssigned, game.OpeningPhase(domain.GameModeClassic))
	assert.Equal(t, domain.PhaseActing, game.OpeningPhase(domain.GameModeElimination))
}
