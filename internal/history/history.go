// Package history implements a command-based undo/redo log over an
// annotation list. Mutations are recorded as explicit value objects with
// before/after payloads rather than closures, and can be grouped so one
// user-visible action undoes as a single step.
package history

import "github.com/example/markshot/internal/annotation"

// OpKind identifies a primitive mutation.
type OpKind int

const (
	OpInsert OpKind = iota
	OpRemove
	OpReplace
)

// Op is one reversible primitive mutation of the annotation list.
// Insert carries After, Remove carries Before, Replace carries both.
type Op struct {
	Kind   OpKind
	Index  int
	Before annotation.Annotation
	After  annotation.Annotation
}

// Insert records an insertion of a at index i.
func Insert(i int, a annotation.Annotation) Op {
	return Op{Kind: OpInsert, Index: i, After: a}
}

// Remove records a removal of a from index i.
func Remove(i int, a annotation.Annotation) Op {
	return Op{Kind: OpRemove, Index: i, Before: a}
}

// Replace records a swap at index i.
func Replace(i int, before, after annotation.Annotation) Op {
	return Op{Kind: OpReplace, Index: i, Before: before, After: after}
}

// Entry is the unit of undo: one or more ops applied atomically.
type Entry []Op

// Log is a LIFO undo/redo history. The zero value is ready to use.
type Log struct {
	undo     []Entry
	redo     []Entry
	group    Entry
	grouping bool
}

// Begin opens a group. Ops recorded until End form one entry.
func (l *Log) Begin() {
	l.grouping = true
	l.group = nil
}

// End closes the current group and pushes it as a single entry. An empty
// group records nothing.
func (l *Log) End() {
	l.grouping = false
	if len(l.group) > 0 {
		l.push(l.group)
	}
	l.group = nil
}

// Record adds an op that has already been applied to the list. Any pending
// redo entries are discarded: history is strictly linear.
func (l *Log) Record(op Op) {
	if l.grouping {
		l.group = append(l.group, op)
		l.redo = nil
		return
	}
	l.push(Entry{op})
}

func (l *Log) push(e Entry) {
	l.undo = append(l.undo, e)
	l.redo = nil
}

// CanUndo reports whether an entry is available to undo.
func (l *Log) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo reports whether an entry is available to redo.
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// Undo reverts the most recent entry and returns the updated list. It
// reports false when the undo stack is empty.
func (l *Log) Undo(list []annotation.Annotation) ([]annotation.Annotation, bool) {
	if len(l.undo) == 0 {
		return list, false
	}
	e := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	// Ops within an entry revert in reverse application order.
	for i := len(e) - 1; i >= 0; i-- {
		list = apply(list, invert(e[i]))
	}
	l.redo = append(l.redo, e)
	return list, true
}

// Redo re-applies the most recently undone entry.
func (l *Log) Redo(list []annotation.Annotation) ([]annotation.Annotation, bool) {
	if len(l.redo) == 0 {
		return list, false
	}
	e := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	for _, op := range e {
		list = apply(list, op)
	}
	l.undo = append(l.undo, e)
	return list, true
}

func invert(op Op) Op {
	switch op.Kind {
	case OpInsert:
		return Op{Kind: OpRemove, Index: op.Index, Before: op.After}
	case OpRemove:
		return Op{Kind: OpInsert, Index: op.Index, After: op.Before}
	default:
		return Op{Kind: OpReplace, Index: op.Index, Before: op.After, After: op.Before}
	}
}

// apply performs op on list. Indices are bounds-guarded: an op referring to
// a position that no longer exists is a no-op rather than a panic.
func apply(list []annotation.Annotation, op Op) []annotation.Annotation {
	switch op.Kind {
	case OpInsert:
		i := op.Index
		if i < 0 {
			i = 0
		}
		if i > len(list) {
			i = len(list)
		}
		list = append(list, nil)
		copy(list[i+1:], list[i:])
		list[i] = op.After
	case OpRemove:
		if op.Index < 0 || op.Index >= len(list) {
			return list
		}
		list = append(list[:op.Index], list[op.Index+1:]...)
	case OpReplace:
		if op.Index < 0 || op.Index >= len(list) {
			return list
		}
		list[op.Index] = op.After
	}
	return list
}
