package match

import (
	"testing"

	"github.com/bloops-games/spelldown/internal/spelldown/wordpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// first always picks the first eligible word.
func first(int) int { return 0 }

func newMatch(t *testing.T, in StartInput) *Match {
	t.Helper()
	m := New(wordpool.NewPersonalFirst(first))
	require.NoError(t, m.Start(in))
	return m
}

func TestMatch_Start(t *testing.T) {
	t.Parallel()

	m := newMatch(t, StartInput{
		GlobalWords: []string{"cat", "dog"},
		Names:       []string{" Ann ", "Bob"},
		PlayerWords: [][]string{nil, {"owl"}},
	})

	assert.Equal(t, PhasePlaying, m.Phase())
	assert.Equal(t, "cat", m.Word())
	assert.Equal(t, 1, m.Drawn())

	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "Ann", cur.Name)

	for _, s := range m.Standings() {
		assert.True(t, s.Active)
		assert.Zero(t, s.Score)
	}

	assert.ErrorIs(t, m.Start(StartInput{}), ErrPhase)
}

func TestMatch_StartRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	m := New(nil)
	err := m.Start(StartInput{GlobalWords: []string{"cat"}, Names: []string{"solo"}})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, PhaseSetup, m.Phase())
}

// A misspells cat twice, B is the only one left and wins. dog is never drawn.
func TestMatch_KnockoutLeavesWinner(t *testing.T) {
	t.Parallel()

	m := newMatch(t, StartInput{GlobalWords: []string{"cat", "dog"}, Names: []string{"A", "B"}})
	require.Equal(t, "cat", m.Word())

	res, err := m.Resolve(false)
	require.NoError(t, err)
	assert.True(t, res.KnockedOut)
	assert.Equal(t, "A", res.Player.Name)
	assert.Equal(t, PhaseEnd, res.Phase)
	assert.Empty(t, res.Word)

	winner, ok := m.Winner()
	require.True(t, ok)
	assert.Equal(t, "B", winner)
	assert.Equal(t, EndWinner, m.EndReason())
	assert.False(t, m.Used("dog"))
	assert.Equal(t, 1, m.Drawn())

	_, err = m.Resolve(true)
	assert.ErrorIs(t, err, ErrPhase)
}

// Three players all spell correctly until two words run out. Nobody wins.
func TestMatch_SupplyExhaustedNoWinner(t *testing.T) {
	t.Parallel()

	m := newMatch(t, StartInput{GlobalWords: []string{"cat", "dog"}, Names: []string{"A", "B", "C"}})

	res, err := m.Resolve(true)
	require.NoError(t, err)
	assert.Equal(t, PhasePlaying, res.Phase)
	assert.Equal(t, "dog", res.Word)

	cur, _ := m.Current()
	assert.Equal(t, "B", cur.Name)

	res, err = m.Resolve(true)
	require.NoError(t, err)
	assert.Equal(t, PhaseEnd, res.Phase)

	_, ok := m.Winner()
	assert.False(t, ok)
	assert.Equal(t, EndWordsExhausted, m.EndReason())

	standings := m.Standings()
	assert.Equal(t, 1, standings[0].Score)
	assert.Equal(t, 1, standings[1].Score)
	assert.Equal(t, 0, standings[2].Score)
}

func TestMatch_RotationSkipsKnockedOut(t *testing.T) {
	t.Parallel()

	m := newMatch(t, StartInput{
		GlobalWords: []string{"a", "b", "c", "d", "e", "f"},
		Names:       []string{"A", "B", "C"},
	})

	var order []string
	for _, correct := range []bool{true, false, true, true} {
		cur, _ := m.Current()
		order = append(order, cur.Name)
		_, err := m.Resolve(correct)
		require.NoError(t, err)
	}
	cur, _ := m.Current()
	order = append(order, cur.Name)

	// B is knocked out on their first turn and never comes up again
	assert.Equal(t, []string{"A", "B", "C", "A", "C"}, order)
	assert.Equal(t, PhasePlaying, m.Phase())
}

func TestMatch_NoWordRepeats(t *testing.T) {
	t.Parallel()

	words := []string{"cat", "Cat", "dog", "owl", "bee"}
	m := New(nil)
	require.NoError(t, m.Start(StartInput{
		GlobalWords: words,
		Names:       []string{"A", "B"},
		PlayerWords: [][]string{{"owl", "emu"}, {"emu"}},
	}))

	seen := map[string]bool{}
	for m.Phase() == PhasePlaying {
		key := wordpool.Key(m.Word())
		assert.False(t, seen[key], "word %q drawn twice", m.Word())
		seen[key] = true
		_, err := m.Resolve(true)
		require.NoError(t, err)
	}

	assert.Len(t, seen, 5)
	assert.Equal(t, EndWordsExhausted, m.EndReason())
}

func TestMatch_Reset(t *testing.T) {
	t.Parallel()

	m := newMatch(t, StartInput{GlobalWords: []string{"cat"}, Names: []string{"A", "B"}})
	_, err := m.Resolve(false)
	require.NoError(t, err)

	m.Reset()
	assert.Equal(t, PhaseSetup, m.Phase())
	assert.Empty(t, m.Standings())
	assert.Empty(t, m.Word())
	assert.False(t, m.Used("cat"))
	_, ok := m.Winner()
	assert.False(t, ok)

	require.NoError(t, m.Start(StartInput{GlobalWords: []string{"cat"}, Names: []string{"C", "D"}}))
	assert.Equal(t, "cat", m.Word())
}
