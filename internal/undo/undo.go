// Package undo groups line edits into atomic undo and redo steps.
package undo

import (
	"errors"
	"sync"

	pkgerrors "github.com/pkg/errors"

	"github.com/san-kum/ridersim/internal/track"
)

var (
	ErrNothingToUndo = errors.New("undo: nothing to undo")
	ErrNothingToRedo = errors.New("undo: nothing to redo")
	ErrActionOpen    = errors.New("undo: action still open")

	// ErrNoAction and ErrUnbalanced are raised as panics.
	ErrNoAction   = errors.New("undo: change recorded outside an action")
	ErrUnbalanced = errors.New("undo: EndAction without BeginAction")
)

const DefaultMaxEntries = 500

// Change is one recorded line edit. A nil Before is an add, a nil After a
// removal.
type Change = track.Change

// Action is a committed group of changes.
type Action struct {
	Changes []Change
}

// Applier is the write access needed to replay an action. Implementations
// must apply every call of one Undo or Redo atomically with respect to
// readers.
type Applier interface {
	AddLine(l track.Line) (track.Line, error)
	ReplaceLine(l track.Line) (track.Line, error)
	RemoveLine(id track.LineID) (track.Line, error)
	DisableUndo()
}

type Manager struct {
	mu sync.Mutex

	depth   int
	pending []Change

	undoStack []Action
	redoStack []Action
	changed   bool

	maxEntries int
}

func NewManager(maxEntries int) *Manager {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Manager{maxEntries: maxEntries}
}

// BeginAction opens a group. Nested calls only deepen the group; the
// outermost EndAction commits it.
func (m *Manager) BeginAction() {
	m.mu.Lock()
	m.depth++
	m.mu.Unlock()
}

// EndAction closes one level. Closing the outermost level commits the
// pending changes as one action, or discards the group when empty.
func (m *Manager) EndAction() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.depth == 0 {
		panic(ErrUnbalanced)
	}
	m.depth--
	if m.depth > 0 {
		return
	}

	pending := m.pending
	m.pending = nil
	if len(pending) == 0 {
		return
	}
	m.undoStack = append(m.undoStack, Action{Changes: pending})
	m.redoStack = nil
	m.changed = true
	if excess := len(m.undoStack) - m.maxEntries; excess > 0 {
		m.undoStack = m.undoStack[excess:]
	}
}

// InAction reports whether a group is open.
func (m *Manager) InAction() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.depth > 0
}

// AddChange records one line edit in the open group. Repeated edits of the
// same line within a group collapse into one change that keeps the first
// Before and the last After.
func (m *Manager) AddChange(before, after *track.Line) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.depth == 0 {
		panic(ErrNoAction)
	}
	if before == nil && after == nil {
		return
	}
	c := Change{Before: cloneLine(before), After: cloneLine(after)}

	id := c.LineID()
	for i := range m.pending {
		if m.pending[i].LineID() != id {
			continue
		}
		m.pending[i].After = c.After
		p := m.pending[i]
		if (p.Before == nil && p.After == nil) || (p.Before != nil && p.After != nil && *p.Before == *p.After) {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
		}
		return
	}
	m.pending = append(m.pending, c)
}

func cloneLine(l *track.Line) *track.Line {
	if l == nil {
		return nil
	}
	cp := *l
	return &cp
}

// Undo reverts the most recent action through w, last change first.
func (m *Manager) Undo(w Applier) error {
	m.mu.Lock()
	if m.depth > 0 {
		m.mu.Unlock()
		return ErrActionOpen
	}
	if len(m.undoStack) == 0 {
		m.mu.Unlock()
		return ErrNothingToUndo
	}
	a := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.mu.Unlock()

	w.DisableUndo()
	for i := len(a.Changes) - 1; i >= 0; i-- {
		c := a.Changes[i]
		if err := apply(w, c.After, c.Before); err != nil {
			m.mu.Lock()
			m.undoStack = append(m.undoStack, a)
			m.mu.Unlock()
			return pkgerrors.Wrap(err, "undo")
		}
	}

	m.mu.Lock()
	m.redoStack = append(m.redoStack, a)
	m.mu.Unlock()
	return nil
}

// Redo reapplies the most recently undone action through w.
func (m *Manager) Redo(w Applier) error {
	m.mu.Lock()
	if m.depth > 0 {
		m.mu.Unlock()
		return ErrActionOpen
	}
	if len(m.redoStack) == 0 {
		m.mu.Unlock()
		return ErrNothingToRedo
	}
	a := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.mu.Unlock()

	w.DisableUndo()
	for _, c := range a.Changes {
		if err := apply(w, c.Before, c.After); err != nil {
			m.mu.Lock()
			m.redoStack = append(m.redoStack, a)
			m.mu.Unlock()
			return pkgerrors.Wrap(err, "redo")
		}
	}

	m.mu.Lock()
	m.undoStack = append(m.undoStack, a)
	m.mu.Unlock()
	return nil
}

// apply moves one line from state from to state to.
func apply(w Applier, from, to *track.Line) error {
	var err error
	switch {
	case from == nil:
		_, err = w.AddLine(*to)
	case to == nil:
		_, err = w.RemoveLine(from.ID)
	default:
		_, err = w.ReplaceLine(*to)
	}
	return err
}

// HasChanges is true once an action has been committed since construction
// or the last Reset.
func (m *Manager) HasChanges() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.changed
}

func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undoStack) > 0
}

func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redoStack) > 0
}

func (m *Manager) UndoCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undoStack)
}

// Reset drops both stacks and clears the changed flag.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undoStack = nil
	m.redoStack = nil
	m.pending = nil
	m.depth = 0
	m.changed = false
}
