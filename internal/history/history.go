package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultMaxDepth caps the undo stack; the oldest entries are evicted
// first on overflow.
const DefaultMaxDepth = 1000

var ErrBadDocument = errors.New("history document missing undo/redo stacks")

// Log is the two-stack command log. Pushed actions are immutable and are
// moved, never copied, between the stacks.
type Log struct {
	undo   []Action
	redo   []Action
	nextID int
	max    int
	now    func() time.Time
}

func NewLog(maxDepth int) *Log {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Log{nextID: 1, max: maxDepth, now: time.Now}
}

// Push records a new action on the undo stack and clears the redo stack:
// a fresh edit invalidates any redo chain.
func (l *Log) Push(t ActionType, data any, description, target string) Action {
	if target == "" {
		target = TargetMain
	}
	a := Action{
		ID:           fmt.Sprintf("a%d", l.nextID),
		Type:         t,
		Timestamp:    l.now().UTC().Format(time.RFC3339),
		Description:  description,
		Data:         data,
		TargetObject: target,
	}
	l.nextID++
	l.redo = l.redo[:0]
	if len(l.undo) >= l.max {
		over := len(l.undo) - l.max + 1
		l.undo = append(l.undo[:0], l.undo[over:]...)
	}
	l.undo = append(l.undo, a)
	return a
}

// Undo moves the top undo action to the redo stack and returns it, or
// nil when there is nothing to undo. The caller applies the inverse.
func (l *Log) Undo() *Action {
	if len(l.undo) == 0 {
		return nil
	}
	a := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, a)
	return &a
}

// Redo moves the top redo action back to the undo stack and returns it,
// or nil when there is nothing to redo. The caller re-applies it.
func (l *Log) Redo() *Action {
	if len(l.redo) == 0 {
		return nil
	}
	a := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, a)
	return &a
}

// PeekUndo returns a copy of the top undo action without moving it.
func (l *Log) PeekUndo() *Action {
	if len(l.undo) == 0 {
		return nil
	}
	a := l.undo[len(l.undo)-1]
	return &a
}

// PeekRedo returns a copy of the top redo action without moving it.
func (l *Log) PeekRedo() *Action {
	if len(l.redo) == 0 {
		return nil
	}
	a := l.redo[len(l.redo)-1]
	return &a
}

func (l *Log) CanUndo() bool { return len(l.undo) > 0 }
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

func (l *Log) UndoCount() int { return len(l.undo) }
func (l *Log) RedoCount() int { return len(l.redo) }

// UndoStack returns a copy of the undo stack, oldest first. Used when
// building a project document.
func (l *Log) UndoStack() []Action {
	out := make([]Action, len(l.undo))
	copy(out, l.undo)
	return out
}

// Clear empties both stacks and resets the id counter.
func (l *Log) Clear() {
	l.undo = nil
	l.redo = nil
	l.nextID = 1
}

// RestoreAction re-inserts a previously serialized action onto the undo
// stack without minting a new id or timestamp and without clearing the
// redo stack.
func (l *Log) RestoreAction(a Action) error {
	if a.ID == "" || a.Type == "" || a.Timestamp == "" {
		return fmt.Errorf("restore action: missing id/type/timestamp")
	}
	l.undo = append(l.undo, a)
	return nil
}

// RestoreHistory replays a saved undo stack, oldest first.
func (l *Log) RestoreHistory(actions []Action) error {
	for _, a := range actions {
		if err := l.RestoreAction(a); err != nil {
			return err
		}
	}
	return nil
}

// AdvanceID raises the id counter to at least next, so actions pushed
// after a restore cannot collide with restored ids. The counter is
// persisted explicitly rather than re-derived from id strings.
func (l *Log) AdvanceID(next int) {
	if next > l.nextID {
		l.nextID = next
	}
}

// NextID reports the counter to persist alongside the stacks.
func (l *Log) NextID() int { return l.nextID }

// document is the serialized form of both stacks.
type document struct {
	UndoStack []Action `json:"undoStack"`
	RedoStack []Action `json:"redoStack"`
	NextID    int      `json:"nextId"`
}

type documentProbe struct {
	UndoStack json.RawMessage `json:"undoStack"`
	RedoStack json.RawMessage `json:"redoStack"`
	NextID    int             `json:"nextId"`
}

// Serialize round-trips both stacks plus the id counter as one document.
func (l *Log) Serialize() ([]byte, error) {
	doc := document{
		UndoStack: append([]Action{}, l.undo...),
		RedoStack: append([]Action{}, l.redo...),
		NextID:    l.nextID,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Deserialize replaces both stacks from a serialized document. It
// rejects documents where either stack is missing or not array-typed,
// leaving the existing state untouched.
func (l *Log) Deserialize(b []byte) error {
	var probe documentProbe
	if err := json.Unmarshal(b, &probe); err != nil {
		return fmt.Errorf("history document: %w", err)
	}
	if !isJSONArray(probe.UndoStack) || !isJSONArray(probe.RedoStack) {
		return ErrBadDocument
	}
	var undo, redo []Action
	if err := json.Unmarshal(probe.UndoStack, &undo); err != nil {
		return fmt.Errorf("undo stack: %w", err)
	}
	if err := json.Unmarshal(probe.RedoStack, &redo); err != nil {
		return fmt.Errorf("redo stack: %w", err)
	}
	l.undo = undo
	l.redo = redo
	l.nextID = 1
	l.AdvanceID(probe.NextID)
	return nil
}

func isJSONArray(raw json.RawMessage) bool {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

// Validate checks that every action across both stacks carries a
// non-empty id, type and timestamp and that no two actions share an id.
func (l *Log) Validate() bool {
	seen := make(map[string]bool, len(l.undo)+len(l.redo))
	check := func(actions []Action) bool {
		for _, a := range actions {
			if a.ID == "" || a.Type == "" || a.Timestamp == "" {
				return false
			}
			if seen[a.ID] {
				return false
			}
			seen[a.ID] = true
		}
		return true
	}
	return check(l.undo) && check(l.redo)
}
