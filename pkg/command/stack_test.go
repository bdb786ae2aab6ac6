package command

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probe is a test command that appends its moves to a shared journal so
// ordering can be asserted.
type probe struct {
	id      string
	journal *[]string
	execErr error
	undoErr error
	stack   *Stack // set to provoke reentrancy
	reenter func(*Stack) error
}

func (p *probe) Name() string { return p.id }

func (p *probe) Execute() error {
	*p.journal = append(*p.journal, "exec:"+p.id)
	if p.stack != nil && p.reenter != nil {
		return p.reenter(p.stack)
	}
	return p.execErr
}

func (p *probe) Undo() error {
	*p.journal = append(*p.journal, "undo:"+p.id)
	return p.undoErr
}

func newProbe(id string, journal *[]string) *probe {
	return &probe{id: id, journal: journal}
}

func TestStack_DoUndoRedo(t *testing.T) {
	var journal []string
	s := NewStack()

	require.NoError(t, s.Do(newProbe("a", &journal)))
	require.NoError(t, s.Do(newProbe("b", &journal)))
	assert.Equal(t, 2, s.UndoDepth())
	assert.True(t, s.CanUndo())
	assert.False(t, s.CanRedo())

	// LIFO: b reverts before a.
	cmd, err := s.Undo()
	require.NoError(t, err)
	assert.Equal(t, "b", cmd.Name())
	cmd, err = s.Undo()
	require.NoError(t, err)
	assert.Equal(t, "a", cmd.Name())

	// Redo replays in reverse.
	cmd, err = s.Redo()
	require.NoError(t, err)
	assert.Equal(t, "a", cmd.Name())

	assert.Equal(t, []string{"exec:a", "exec:b", "undo:b", "undo:a", "exec:a"}, journal)
}

func TestStack_EmptyNoOps(t *testing.T) {
	s := NewStack()

	// Undo/redo on empty stacks are silent no-ops, never errors.
	cmd, err := s.Undo()
	assert.NoError(t, err)
	assert.Nil(t, cmd)

	cmd, err = s.Redo()
	assert.NoError(t, err)
	assert.Nil(t, cmd)
}

func TestStack_DoClearsRedo(t *testing.T) {
	var journal []string
	s := NewStack()

	require.NoError(t, s.Do(newProbe("a", &journal)))
	_, err := s.Undo()
	require.NoError(t, err)
	require.True(t, s.CanRedo())

	// Any new action invalidates the redo timeline.
	require.NoError(t, s.Do(newProbe("b", &journal)))
	assert.False(t, s.CanRedo())
	assert.Equal(t, 0, s.RedoDepth())
}

func TestStack_UndoThenRedoReproducesState(t *testing.T) {
	var journal []string
	s := NewStack()
	require.NoError(t, s.Do(newProbe("a", &journal)))

	_, err := s.Undo()
	require.NoError(t, err)
	_, err = s.Redo()
	require.NoError(t, err)

	assert.Equal(t, []string{"exec:a", "undo:a", "exec:a"}, journal)
	assert.Equal(t, 1, s.UndoDepth())
	assert.Equal(t, 0, s.RedoDepth())
}

func TestStack_BoundedEviction(t *testing.T) {
	var journal []string
	var evicted []string
	s := NewStack(WithLimit(3), WithOnEvict(func(c Command) {
		evicted = append(evicted, c.Name())
	}))

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Do(newProbe(fmt.Sprintf("c%d", i), &journal)))
	}

	// Oldest entries fall off, nothing is undone or disposed.
	assert.Equal(t, 3, s.UndoDepth())
	assert.Equal(t, []string{"c0", "c1"}, evicted)
	for _, move := range journal {
		assert.NotContains(t, move, "undo:")
	}

	// The survivors unwind newest-first.
	for _, want := range []string{"c4", "c3", "c2"} {
		cmd, err := s.Undo()
		require.NoError(t, err)
		assert.Equal(t, want, cmd.Name())
	}
	cmd, err := s.Undo()
	assert.NoError(t, err)
	assert.Nil(t, cmd, "evicted commands are gone for good")
}

func TestStack_DefaultLimit(t *testing.T) {
	var journal []string
	s := NewStack()
	for i := 0; i < DefaultLimit+10; i++ {
		require.NoError(t, s.Do(newProbe(fmt.Sprintf("c%d", i), &journal)))
	}
	assert.Equal(t, DefaultLimit, s.UndoDepth())
}

func TestStack_ExecuteFailureRecordsNothing(t *testing.T) {
	var journal []string
	s := NewStack()
	boom := errors.New("boom")

	p := newProbe("bad", &journal)
	p.execErr = boom

	err := s.Do(p)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, s.UndoDepth())
	assert.Equal(t, 0, s.RedoDepth())
}

func TestStack_UndoFailureStillMovesCommand(t *testing.T) {
	var journal []string
	s := NewStack()
	boom := errors.New("boom")

	p := newProbe("bad", &journal)
	p.undoErr = boom
	require.NoError(t, s.Do(p))

	cmd, err := s.Undo()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "bad", cmd.Name())
	assert.True(t, s.CanRedo(), "a failed undo still lands on redo so the user can resynchronize")
	assert.False(t, s.CanUndo())
}

func TestStack_ReentrancyForbidden(t *testing.T) {
	var journal []string
	s := NewStack()

	tests := []struct {
		name    string
		reenter func(*Stack) error
	}{
		{"Do from Execute", func(st *Stack) error {
			return st.Do(newProbe("inner", &journal))
		}},
		{"Undo from Execute", func(st *Stack) error {
			_, err := st.Undo()
			return err
		}},
		{"Redo from Execute", func(st *Stack) error {
			_, err := st.Redo()
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProbe("outer", &journal)
			p.stack = s
			p.reenter = tt.reenter

			err := s.Do(p)
			require.ErrorIs(t, err, ErrReentrantCommand)
		})
	}
}

func TestStack_PeekAndClear(t *testing.T) {
	var journal []string
	s := NewStack()
	require.NoError(t, s.Do(newProbe("a", &journal)))
	require.NoError(t, s.Do(newProbe("b", &journal)))
	_, err := s.Undo()
	require.NoError(t, err)

	top, ok := s.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, "a", top.Name())
	top, ok = s.PeekRedo()
	require.True(t, ok)
	assert.Equal(t, "b", top.Name())

	s.Clear()
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
	_, ok = s.PeekUndo()
	assert.False(t, ok)
}
