package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bloops-games/spelldown/internal/spelldown/match"
	"github.com/bloops-games/spelldown/internal/spelldown/resource"
	"github.com/bloops-games/spelldown/internal/spelldown/speech"
	"github.com/bloops-games/spelldown/internal/spelldown/turn"
)

func TestDescribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("session start: start: %w: need 2 to 4 players, got 1", match.ErrValidation), "need 2 to 4 players, got 1"},
		{speech.ErrCaptureDenied, resource.TextCaptureDisabledMsg},
		{turn.ErrCaptureInProgress, "Already listening"},
		{turn.ErrCountdownActive, "Next turn is coming up"},
		{ErrNoTurn, "No game in progress"},
		{ErrSessionClosed, "This game is over"},
		{errors.New("boom"), "boom"},
	}
	for _, tc := range tests {
		if got := Describe(tc.err); got != tc.want {
			t.Errorf("Describe(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
