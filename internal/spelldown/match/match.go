// Package match owns a spelling match: the phase, the players in rotation order, the
// shared word pool and the words already drawn.
package match

import (
	"fmt"
	"strings"

	"github.com/bloops-games/spelldown/internal/spelldown/wordpool"
)

type Phase uint8

const (
	PhaseSetup Phase = iota
	PhasePlaying
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhasePlaying:
		return "playing"
	case PhaseEnd:
		return "end"
	default:
		return "unknown"
	}
}

// EndReason tells how a match finished.
type EndReason uint8

const (
	EndNone EndReason = iota
	EndWinner
	EndWordsExhausted
	EndNoActivePlayers
)

func (r EndReason) String() string {
	switch r {
	case EndWinner:
		return "winner"
	case EndWordsExhausted:
		return "words_exhausted"
	case EndNoActivePlayers:
		return "no_active_players"
	default:
		return "none"
	}
}

// Resolution describes what a finished turn changed.
type Resolution struct {
	Player     Standing
	KnockedOut bool
	Phase      Phase
	// Word is the newly drawn word when the match continues.
	Word string
}

type Match struct {
	policy wordpool.Policy

	phase      Phase
	players    []*Player
	current    int
	global     []string
	globalUsed wordpool.Set
	word       string
	drawn      int
	winner     string
	reason     EndReason
}

func New(policy wordpool.Policy) *Match {
	if policy == nil {
		policy = wordpool.NewPersonalFirst(nil)
	}
	m := &Match{policy: policy}
	m.Reset()
	return m
}

// Start validates the setup, creates the players and draws the first word for player one.
func (m *Match) Start(in StartInput) error {
	if m.phase != PhaseSetup {
		return fmt.Errorf("start: %w", ErrPhase)
	}
	if err := in.Validate(); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	m.players = make([]*Player, 0, len(in.Names))
	for i, name := range in.Names {
		m.players = append(m.players, newPlayer(strings.TrimSpace(name), in.wordsFor(i)))
	}
	m.global = append([]string(nil), in.GlobalWords...)
	m.globalUsed = wordpool.NewSet()
	m.current = 0
	m.phase = PhasePlaying

	m.draw()
	return nil
}

// Resolve applies the outcome of the current player's turn, then either ends the match or
// moves to the next active player and draws their word.
func (m *Match) Resolve(correct bool) (Resolution, error) {
	if m.phase != PhasePlaying {
		return Resolution{}, fmt.Errorf("resolve: %w", ErrPhase)
	}

	p := m.players[m.current]
	if correct {
		p.Score++
	} else {
		p.Active = false
	}
	res := Resolution{Player: p.Standing(), KnockedOut: !correct}

	switch activeCount(m.players) {
	case 0:
		m.end(EndNoActivePlayers, "")
	case 1:
		idx, _ := NextActive(m.players, m.current)
		m.current = idx
		m.end(EndWinner, m.players[idx].Name)
	default:
		idx, _ := NextActive(m.players, m.current)
		m.current = idx
		m.draw()
	}

	res.Phase = m.phase
	if m.phase == PhasePlaying {
		res.Word = m.word
	}
	return res, nil
}

func (m *Match) draw() {
	p := m.players[m.current]
	w, ok := m.policy.Next(wordpool.Request{
		Personal:     p.Words,
		PersonalUsed: p.Used,
		Global:       m.global,
		GlobalUsed:   m.globalUsed,
	})
	if !ok {
		m.end(EndWordsExhausted, "")
		return
	}

	p.Used.Add(w)
	m.globalUsed.Add(w)
	m.word = w
	m.drawn++
}

func (m *Match) end(reason EndReason, winner string) {
	m.phase = PhaseEnd
	m.reason = reason
	m.winner = winner
	m.word = ""
}

// Reset drops every player, pool and used word and returns to setup. Allowed in any phase.
func (m *Match) Reset() {
	m.phase = PhaseSetup
	m.players = nil
	m.current = 0
	m.global = nil
	m.globalUsed = wordpool.NewSet()
	m.word = ""
	m.drawn = 0
	m.winner = ""
	m.reason = EndNone
}

func (m *Match) Phase() Phase { return m.phase }

// Word is the word drawn for the current player, empty outside of play.
func (m *Match) Word() string { return m.word }

// Drawn counts the words presented so far.
func (m *Match) Drawn() int { return m.drawn }

func (m *Match) EndReason() EndReason { return m.reason }

func (m *Match) Winner() (string, bool) {
	return m.winner, m.reason == EndWinner
}

func (m *Match) Current() (Standing, bool) {
	if m.phase != PhasePlaying || len(m.players) == 0 {
		return Standing{}, false
	}
	return m.players[m.current].Standing(), true
}

func (m *Match) CurrentIndex() int { return m.current }

// Standings lists every player in rotation order, knocked out players included.
func (m *Match) Standings() []Standing {
	out := make([]Standing, 0, len(m.players))
	for _, p := range m.players {
		out = append(out, p.Standing())
	}
	return out
}

// Used reports whether a word has been presented in this match.
func (m *Match) Used(word string) bool { return m.globalUsed.Has(word) }
