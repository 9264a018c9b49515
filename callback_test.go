package onshutdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlock_RunsStatementsInOrder(t *testing.T) {
	t.Parallel()

	var seq []string
	cb := Block(
		func() { seq = append(seq, "shut") },
		nil,
		func() { seq = append(seq, "down") },
	)
	assert.Empty(t, seq)

	cb()
	assert.Equal(t, []string{"shut", "down"}, seq)
}

func TestMove_NilFunc(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { Move[int](1, nil)() })
}

func TestRegistrationForms(t *testing.T) {
	t.Parallel()

	var seq []string
	record := func(s string) func() { return func() { seq = append(seq, s) } }

	named := record("named")
	Run(func(s *Scope) {
		s.OnShutdown(record("expression"))
		s.OnShutdown(Block(record("block 1"), record("block 2")))
		s.OnShutdown(func() { seq = append(seq, "closure") })
		OnShutdownMove(s, "move", func(v string) { seq = append(seq, v) })
		s.OnShutdown(named)
	}, quiet())

	assert.Equal(t, []string{"named", "move", "closure", "block 1", "block 2", "expression"}, seq)
}
