package game

import (
	"errors"
	"strings"

	"github.com/bloops-games/spelldown/internal/spelldown/match"
	"github.com/bloops-games/spelldown/internal/spelldown/resource"
	"github.com/bloops-games/spelldown/internal/spelldown/speech"
	"github.com/bloops-games/spelldown/internal/spelldown/turn"
)

// Describe renders a command error as a short message for players.
func Describe(err error) string {
	switch {
	case errors.Is(err, match.ErrValidation):
		msg := err.Error()
		prefix := match.ErrValidation.Error() + ": "
		if i := strings.Index(msg, prefix); i >= 0 {
			return msg[i+len(prefix):]
		}
		return msg
	case speech.IsPermanent(err):
		return resource.TextCaptureDisabledMsg
	case errors.Is(err, turn.ErrCaptureInProgress):
		return "Already listening"
	case errors.Is(err, turn.ErrCountdownActive):
		return "Next turn is coming up"
	case errors.Is(err, ErrNoTurn), errors.Is(err, match.ErrPhase):
		return "No game in progress"
	case errors.Is(err, ErrSessionClosed):
		return "This game is over"
	default:
		return err.Error()
	}
}
