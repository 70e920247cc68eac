package match

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bloops-games/spelldown/internal/spelldown/wordpool"
)

const (
	MinPlayers    = 2
	MaxPlayers    = 4
	MaxNameLength = 20
)

// StartInput is the setup a match starts from. PlayerWords is parallel to Names and may be
// shorter, missing entries mean an empty personal pool.
type StartInput struct {
	GlobalWords []string
	Names       []string
	PlayerWords [][]string
}

// Validate rejects malformed setups before any state changes.
func (in StartInput) Validate() error {
	if n := len(in.Names); n < MinPlayers || n > MaxPlayers {
		return fmt.Errorf("%w: need %d to %d players, got %d", ErrValidation, MinPlayers, MaxPlayers, n)
	}

	for i, name := range in.Names {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("%w: player %d has no name", ErrValidation, i+1)
		}
		if utf8.RuneCountInString(name) > MaxNameLength {
			return fmt.Errorf("%w: player name %q is longer than %d characters", ErrValidation, name, MaxNameLength)
		}
	}

	if len(in.PlayerWords) > len(in.Names) {
		return fmt.Errorf("%w: %d personal word lists for %d players", ErrValidation, len(in.PlayerWords), len(in.Names))
	}

	spellable := 0
	for _, w := range in.GlobalWords {
		if wordpool.Key(w) != "" {
			spellable++
		}
	}
	if spellable == 0 {
		return fmt.Errorf("%w: at least one word is required", ErrValidation)
	}

	return nil
}

func (in StartInput) wordsFor(i int) []string {
	if i < len(in.PlayerWords) {
		return in.PlayerWords[i]
	}
	return nil
}
