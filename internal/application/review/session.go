// Package review tracks user overrides of default duplicate removals.
//
// Every removed row starts removed; the user may restore rows or whole
// groups. Each change is undoable, with history capped at MaxUndo steps.
package review

import (
	"errors"
	"sort"
	"sync"

	"github.com/eshaffer321/ledgerclean/internal/adapters/export"
	"github.com/eshaffer321/ledgerclean/internal/application/clean"
	"github.com/eshaffer321/ledgerclean/internal/domain/dedupe"
	"github.com/eshaffer321/ledgerclean/internal/domain/ledger"
)

// MaxUndo is the number of undo snapshots retained.
const MaxUndo = 50

var (
	// ErrUnknownRow is returned when toggling a row that no group removed.
	ErrUnknownRow = errors.New("row is not a removed duplicate")
	// ErrUnknownGroup is returned when toggling a group id not in the run.
	ErrUnknownGroup = errors.New("duplicate group not found")
)

// Session is the review state for one clean result. Safe for concurrent use.
type Session struct {
	mu sync.Mutex

	kept    []ledger.Row
	groups  []dedupe.Group
	removed map[int]ledger.Row
	info    clean.Info

	restored map[int]bool
	undo     []map[int]bool
	redo     []map[int]bool
}

// NewSession starts a review with every duplicate removed.
func NewSession(result *clean.Result) *Session {
	s := &Session{
		kept:     result.Rows,
		groups:   result.Groups,
		removed:  make(map[int]ledger.Row),
		info:     result.Info,
		restored: make(map[int]bool),
	}
	for _, g := range result.Groups {
		for _, r := range g.Removed {
			s.removed[r.SourceIndex] = r
		}
	}
	return s
}

// pushUndo snapshots the restored set before a change. Callers hold mu.
func (s *Session) pushUndo() {
	s.undo = append(s.undo, cloneSet(s.restored))
	if len(s.undo) > MaxUndo {
		s.undo = s.undo[1:]
	}
	s.redo = nil
}

// ToggleRow flips one removed row between removed and restored.
func (s *Session) ToggleRow(sourceIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.removed[sourceIndex]; !ok {
		return ErrUnknownRow
	}
	s.pushUndo()
	if s.restored[sourceIndex] {
		delete(s.restored, sourceIndex)
	} else {
		s.restored[sourceIndex] = true
	}
	return nil
}

// ToggleGroup restores every removed row of a group when all are removed,
// otherwise removes them all again.
func (s *Session) ToggleGroup(groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var group *dedupe.Group
	for i := range s.groups {
		if s.groups[i].GroupID == groupID {
			group = &s.groups[i]
			break
		}
	}
	if group == nil {
		return ErrUnknownGroup
	}

	allRemoved := true
	for _, r := range group.Removed {
		if s.restored[r.SourceIndex] {
			allRemoved = false
			break
		}
	}

	s.pushUndo()
	for _, r := range group.Removed {
		if allRemoved {
			s.restored[r.SourceIndex] = true
		} else {
			delete(s.restored, r.SourceIndex)
		}
	}
	return nil
}

// RemoveAll returns every duplicate to its default removed state.
func (s *Session) RemoveAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushUndo()
	s.restored = make(map[int]bool)
}

// RestoreAll keeps every row.
func (s *Session) RestoreAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushUndo()
	s.restored = make(map[int]bool, len(s.removed))
	for idx := range s.removed {
		s.restored[idx] = true
	}
}

// Undo reverts the last change. It reports false when there is nothing to undo.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.undo) == 0 {
		return false
	}
	s.redo = append(s.redo, cloneSet(s.restored))
	s.restored = s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	return true
}

// Redo reapplies the last undone change.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.redo) == 0 {
		return false
	}
	s.undo = append(s.undo, cloneSet(s.restored))
	s.restored = s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	return true
}

// CanUndo reports whether Undo has a step to revert.
func (s *Session) CanUndo() bool {
	undo, _ := s.History()
	return undo > 0
}

// CanRedo reports whether Redo has a step to reapply.
func (s *Session) CanRedo() bool {
	_, redo := s.History()
	return redo > 0
}

// History reports how many undo and redo steps are available.
func (s *Session) History() (undo, redo int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo), len(s.redo)
}

// Restored returns the restored row indices in ascending order.
func (s *Session) Restored() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]int, 0, len(s.restored))
	for idx := range s.restored {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// CleanedRows returns kept rows plus restored rows in output order.
func (s *Session) CleanedRows() []ledger.Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]ledger.Row, 0, len(s.kept)+len(s.restored))
	rows = append(rows, s.kept...)
	for idx := range s.restored {
		rows = append(rows, s.removed[idx])
	}
	export.SortRows(rows)
	return rows
}

// Info returns the run info adjusted for restored rows.
func (s *Session) Info() clean.Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := s.info
	info.OutputRows += len(s.restored)
	info.DuplicateRemovedRows = len(s.removed) - len(s.restored)
	return info
}

// Groups returns the run's duplicate groups.
func (s *Session) Groups() []dedupe.Group {
	return s.groups
}

// FilterGroups applies f against the current restored set.
func (s *Session) FilterGroups(f GroupFilter) FilteredGroups {
	s.mu.Lock()
	restored := cloneSet(s.restored)
	s.mu.Unlock()

	return FilterGroups(s.groups, restored, f)
}

func cloneSet(m map[int]bool) map[int]bool {
	out := make(map[int]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
