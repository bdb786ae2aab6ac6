package command

import "fmt"

// DefaultLimit is the undo depth used when no WithLimit option is given.
const DefaultLimit = 50

// Option configures a Stack.
type Option func(*Stack)

// WithLimit sets the maximum undo depth. Values below 1 fall back to
// DefaultLimit.
func WithLimit(n int) Option {
	return func(s *Stack) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithOnEvict registers a callback invoked when the oldest command falls
// off the bounded undo stack. The stack itself never disposes an evicted
// command's resources; eviction only forgets the ability to undo it.
// Embedders that want reclamation hook it here.
func WithOnEvict(fn func(Command)) Option {
	return func(s *Stack) {
		s.onEvict = fn
	}
}

// Stack is a bounded undo/redo stack. Commands execute and undo strictly
// in LIFO order; adjacent commands are never coalesced. The zero limit
// semantics and eviction behavior follow the editor's interaction model:
// any new action invalidates the redo timeline, and histories deeper than
// the limit silently lose their oldest step.
//
// A Stack is not safe for concurrent use; the editor serializes access.
type Stack struct {
	undo      []Command
	redo      []Command
	limit     int
	onEvict   func(Command)
	executing bool
}

// NewStack builds an empty stack with the default limit.
func NewStack(opts ...Option) *Stack {
	s := &Stack{limit: DefaultLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Do executes cmd and records it for undo. The redo stack is cleared
// entirely: there is no branching timeline. If the undo stack would exceed
// its bound, the oldest entry is evicted. A failing Execute leaves both
// stacks untouched and returns the command's error.
func (s *Stack) Do(cmd Command) error {
	if s.executing {
		return ErrReentrantCommand
	}

	// 1. Execute outside the bookkeeping so a failure records nothing.
	s.executing = true
	err := cmd.Execute()
	s.executing = false
	if err != nil {
		return fmt.Errorf("execute %s: %w", cmd.Name(), err)
	}

	// 2. Record for undo and invalidate redo.
	s.undo = append(s.undo, cmd)
	s.redo = s.redo[:0]

	// 3. Evict the oldest entry past the bound.
	if len(s.undo) > s.limit {
		evicted := s.undo[0]
		copy(s.undo, s.undo[1:])
		s.undo = s.undo[:len(s.undo)-1]
		if s.onEvict != nil {
			s.onEvict(evicted)
		}
	}
	return nil
}

// Undo reverts the most recent command and moves it to the redo stack.
// On an empty undo stack it is a silent no-op returning (nil, nil). A
// failing Undo still moves the command to the redo stack, so the user can
// redo to resynchronize; the error is reported to the caller.
func (s *Stack) Undo() (Command, error) {
	if s.executing {
		return nil, ErrReentrantCommand
	}
	if len(s.undo) == 0 {
		return nil, nil
	}

	cmd := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	s.executing = true
	err := cmd.Undo()
	s.executing = false

	s.redo = append(s.redo, cmd)
	if err != nil {
		return cmd, fmt.Errorf("undo %s: %w", cmd.Name(), err)
	}
	return cmd, nil
}

// Redo re-applies the most recently undone command and moves it back to
// the undo stack. On an empty redo stack it is a silent no-op returning
// (nil, nil).
func (s *Stack) Redo() (Command, error) {
	if s.executing {
		return nil, ErrReentrantCommand
	}
	if len(s.redo) == 0 {
		return nil, nil
	}

	cmd := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]

	s.executing = true
	err := cmd.Execute()
	s.executing = false

	s.undo = append(s.undo, cmd)
	if err != nil {
		return cmd, fmt.Errorf("redo %s: %w", cmd.Name(), err)
	}
	return cmd, nil
}

// CanUndo reports whether an undo step is available.
func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether a redo step is available.
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// UndoDepth returns the number of commands available to undo.
func (s *Stack) UndoDepth() int { return len(s.undo) }

// RedoDepth returns the number of commands available to redo.
func (s *Stack) RedoDepth() int { return len(s.redo) }

// PeekUndo returns the command the next Undo would revert.
func (s *Stack) PeekUndo() (Command, bool) {
	if len(s.undo) == 0 {
		return nil, false
	}
	return s.undo[len(s.undo)-1], true
}

// PeekRedo returns the command the next Redo would re-apply.
func (s *Stack) PeekRedo() (Command, bool) {
	if len(s.redo) == 0 {
		return nil, false
	}
	return s.redo[len(s.redo)-1], true
}

// Clear drops both stacks without running or disposing anything. Loading a
// project does this: a restored scene has no undo history.
func (s *Stack) Clear() {
	s.undo = s.undo[:0]
	s.redo = s.redo[:0]
}
