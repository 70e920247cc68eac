package match

import (
	"github.com/bloops-games/spelldown/internal/spelldown/wordpool"
	"github.com/google/uuid"
)

type Player struct {
	ID     uuid.UUID
	Name   string
	Score  int
	Active bool
	Words  []string
	Used   wordpool.Set
}

func newPlayer(name string, words []string) *Player {
	return &Player{
		ID:     uuid.New(),
		Name:   name,
		Active: true,
		Words:  append([]string(nil), words...),
		Used:   wordpool.NewSet(),
	}
}

// Standing is the read-only part of a player that frontends render.
type Standing struct {
	ID     uuid.UUID
	Name   string
	Score  int
	Active bool
}

func (p *Player) Standing() Standing {
	return Standing{ID: p.ID, Name: p.Name, Score: p.Score, Active: p.Active}
}
