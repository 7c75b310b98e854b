package question

import (
	"errors"
	"testing"
)

func TestNewHistory(t *testing.T) {
	h := NewHistory("v0")
	if err := h.Validate(); err != nil {
		t.Fatalf("new history invalid: %v", err)
	}
	if len(h.Answers) != 1 || h.Current != 0 {
		t.Fatalf("unexpected initial state: %+v", h)
	}
	if h.CanUndo() || h.CanRedo() {
		t.Fatalf("fresh history should have no undo/redo")
	}
}

func TestUndoRedoBoundariesAreNoOps(t *testing.T) {
	h := NewHistory("v0")

	got, err := h.Undo()
	if err != nil {
		t.Fatalf("undo at lower bound errored: %v", err)
	}
	if got.Current != 0 {
		t.Fatalf("undo at lower bound moved pointer: %d", got.Current)
	}

	got, err = h.Redo()
	if err != nil {
		t.Fatalf("redo at upper bound errored: %v", err)
	}
	if got.Current != 0 {
		t.Fatalf("redo at upper bound moved pointer: %d", got.Current)
	}
}

func TestUndoRedoWalk(t *testing.T) {
	h := History{Answers: []string{"v0", "v1", "v2"}, Current: 2}

	h, _ = h.Undo()
	if h.Current != 1 {
		t.Fatalf("undo: want 1, got %d", h.Current)
	}
	h, _ = h.Undo()
	if h.Current != 0 {
		t.Fatalf("undo: want 0, got %d", h.Current)
	}
	h, _ = h.Redo()
	if h.Current != 1 {
		t.Fatalf("redo: want 1, got %d", h.Current)
	}
	if !h.CanUndo() || !h.CanRedo() {
		t.Fatalf("mid-history should allow both undo and redo")
	}
}

func TestAfterRevisionTruncatesFuture(t *testing.T) {
	// Pointer in the middle: entries past it must be unrecoverable.
	h := History{Answers: []string{"v0", "v1", "v2", "v3"}, Current: 1}

	got, err := h.AfterRevision("v1b")
	if err != nil {
		t.Fatalf("revision: %v", err)
	}
	if len(got.Answers) != 3 {
		t.Fatalf("want 3 entries, got %d: %v", len(got.Answers), got.Answers)
	}
	if got.Answers[0] != "v0" || got.Answers[1] != "v1" || got.Answers[2] != "v1b" {
		t.Fatalf("unexpected history: %v", got.Answers)
	}
	if got.Current != 2 {
		t.Fatalf("pointer should follow new version, got %d", got.Current)
	}
	if got.CanRedo() {
		t.Fatalf("discarded branch must not be redoable")
	}
}

func TestReviseAfterUndoDiscardsBranch(t *testing.T) {
	// The sequence from the session API: generate, revise, undo, revise again.
	h := NewHistory("v0")

	h, _ = h.Undo() // no-op
	if h.Current != 0 {
		t.Fatalf("undo on single entry moved pointer")
	}

	h, err := h.AfterRevision("v1")
	if err != nil {
		t.Fatalf("revision: %v", err)
	}
	if len(h.Answers) != 2 || h.Current != 1 {
		t.Fatalf("after first revise: %+v", h)
	}

	h, _ = h.Undo()
	if h.Current != 0 {
		t.Fatalf("undo after revise: want 0, got %d", h.Current)
	}

	h, err = h.AfterRevision("v1_new")
	if err != nil {
		t.Fatalf("revision: %v", err)
	}
	if len(h.Answers) != 2 || h.Answers[1] != "v1_new" || h.Current != 1 {
		t.Fatalf("old v1 should be discarded: %+v", h)
	}
}

func TestInvariantHeldAcrossOperations(t *testing.T) {
	h := NewHistory("v0")
	ops := []func(History) (History, error){
		func(h History) (History, error) { return h.AfterRevision("a") },
		History.Undo,
		func(h History) (History, error) { return h.AfterRevision("b") },
		History.Redo,
		History.Undo,
		History.Undo,
		func(h History) (History, error) { return h.AfterRevision("c") },
	}
	for i, op := range ops {
		var err error
		h, err = op(h)
		if err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
		if err := h.Validate(); err != nil {
			t.Fatalf("op %d broke invariant: %v (%+v)", i, err, h)
		}
	}
}

func TestCorruptedStateIsLoud(t *testing.T) {
	cases := []History{
		{Answers: nil, Current: 0},
		{Answers: []string{"v0"}, Current: 1},
		{Answers: []string{"v0"}, Current: -1},
	}
	for i, h := range cases {
		if _, err := h.Undo(); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("case %d: undo should surface ErrInvalidState, got %v", i, err)
		}
		if _, err := h.Redo(); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("case %d: redo should surface ErrInvalidState, got %v", i, err)
		}
		if _, err := h.AfterRevision("x"); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("case %d: revise should surface ErrInvalidState, got %v", i, err)
		}
	}
}

func TestParseAnswerHistoryRepairsControlCharacters(t *testing.T) {
	raw := "[\"첫 번째\n답변\"]"
	got := ParseAnswerHistory(raw)
	if len(got) != 1 {
		t.Fatalf("want 1 entry, got %v", got)
	}

	if got := ParseAnswerHistory("not json at all {"); got != nil {
		t.Fatalf("unparseable history should return nil, got %v", got)
	}
	if got := ParseAnswerHistory(""); got != nil {
		t.Fatalf("empty history should return nil, got %v", got)
	}
}
