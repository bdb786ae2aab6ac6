// Package command implements a bounded, generic execute/undo/redo stack.
// It has no knowledge of the editor domain; anything implementing Command
// can be driven through it.
package command

import "errors"

// ErrReentrantCommand is returned when Do, Undo or Redo is called from
// inside a command's own Execute or Undo.
var ErrReentrantCommand = errors.New("reentrant command execution")

// Command is a reversible unit of direct-manipulation state change.
// Execute and Undo must be idempotent-safe: running either twice in a row
// must not corrupt state, even though the stack never does so in practice.
type Command interface {
	// Name identifies the command for display and observability.
	Name() string

	// Execute applies the command's effect.
	Execute() error

	// Undo reverts the command's effect, restoring the observable state
	// that held immediately before Execute.
	Undo() error
}
