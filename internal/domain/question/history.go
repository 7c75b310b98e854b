package question

import (
	"errors"
	"fmt"
)

// ErrInvalidState marks a history whose invariants are broken: empty answer
// list or an out-of-bounds pointer. It indicates corrupted persisted data,
// not a normal boundary condition.
var ErrInvalidState = errors.New("invalid version history state")

// History is the per-question answer version log. Answers is append-only
// except for the documented truncation on revise; Current always points at
// the answer shown to the user.
//
// Invariant: len(Answers) >= 1 and 0 <= Current < len(Answers).
type History struct {
	Answers []string
	Current int
}

// NewHistory starts a history from the first generated draft.
func NewHistory(firstAnswer string) History {
	return History{Answers: []string{firstAnswer}, Current: 0}
}

func (h History) Validate() error {
	if len(h.Answers) == 0 {
		return fmt.Errorf("%w: empty history", ErrInvalidState)
	}
	if h.Current < 0 || h.Current >= len(h.Answers) {
		return fmt.Errorf("%w: index %d out of range [0,%d)", ErrInvalidState, h.Current, len(h.Answers))
	}
	return nil
}

// Undo moves the pointer one version back. At the lower bound it is a no-op,
// not an error.
func (h History) Undo() (History, error) {
	if err := h.Validate(); err != nil {
		return h, err
	}
	if h.Current > 0 {
		h.Current--
	}
	return h, nil
}

// Redo moves the pointer one version forward. At the upper bound it is a
// no-op, not an error.
func (h History) Redo() (History, error) {
	if err := h.Validate(); err != nil {
		return h, err
	}
	if h.Current < len(h.Answers)-1 {
		h.Current++
	}
	return h, nil
}

// AfterRevision commits a newly generated answer: versions past the current
// pointer are discarded (a revise after undo abandons the undone branch),
// the new answer is appended, and the pointer moves to it. Callers invoke
// this only after generation fully succeeded, so a failed generation never
// touches the history.
func (h History) AfterRevision(newAnswer string) (History, error) {
	if err := h.Validate(); err != nil {
		return h, err
	}
	kept := make([]string, h.Current+1, h.Current+2)
	copy(kept, h.Answers[:h.Current+1])
	h.Answers = append(kept, newAnswer)
	h.Current = len(h.Answers) - 1
	return h, nil
}

func (h History) CanUndo() bool {
	return h.Current > 0
}

func (h History) CanRedo() bool {
	return h.Current < len(h.Answers)-1
}
