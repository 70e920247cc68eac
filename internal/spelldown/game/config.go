package game

import (
	"github.com/bloops-games/spelldown/internal/spelldown/clock"
	"github.com/bloops-games/spelldown/internal/spelldown/speech"
	"github.com/bloops-games/spelldown/internal/spelldown/turn"
	"github.com/bloops-games/spelldown/internal/spelldown/wordpool"
)

type Config struct {
	Timing turn.Timing

	Speaker  speech.Speaker
	Listener speech.Listener
	Clock    clock.Clock
	Policy   wordpool.Policy

	// OnView receives the projection after every state change, on the session goroutine.
	OnView func(View)
}
