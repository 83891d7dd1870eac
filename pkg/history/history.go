// Package history keeps per-POU undo and redo stacks of workspace
// snapshots.
//
// A snapshot is a deep copy of the state an editor tab can change: the
// POU's variables and body, its ladder flow, a data type definition, or
// the shared resource configuration. Snapshots are keyed by editor name,
// which is a POU name, a data type name, or [ResourceName].
//
// Recording a new snapshot discards the redo stack. Each past stack holds
// at most Limit entries; the oldest entry is evicted first.
package history

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/ladderflow/pkg/config"
	"github.com/matzehuels/ladderflow/pkg/ladder"
	"github.com/matzehuels/ladderflow/pkg/observability"
	"github.com/matzehuels/ladderflow/pkg/plc"
	"github.com/matzehuels/ladderflow/pkg/store"
)

// ResourceName is the editor name of the shared resource configuration.
const ResourceName = "Resource"

// POUState is the textual part of a POU a snapshot restores.
type POUState struct {
	Variables []plc.Variable
	Body      string
}

// Snapshot is a deep copy of one editor's state. Nil fields were not
// captured.
type Snapshot struct {
	POU      *POUState
	DataType *plc.DataType
	Resource *plc.Resource
	Flow     *ladder.Flow
}

// Empty reports whether the snapshot holds nothing.
func (s Snapshot) Empty() bool {
	return s.POU == nil && s.DataType == nil && s.Resource == nil && s.Flow == nil
}

// Workspace is the state history reads from and restores into.
type Workspace struct {
	Project *plc.Project
	Flows   *store.Store
}

type stacks struct {
	past   []Snapshot
	future []Snapshot
}

// Manager records and restores snapshots. It is not safe for concurrent
// use.
type Manager struct {
	Limit  int
	Logger *log.Logger

	ws     Workspace
	stacks map[string]*stacks
}

// New creates a manager over ws. A non-positive limit means
// config.DefaultHistoryLimit; a nil logger means log.Default().
func New(ws Workspace, limit int, logger *log.Logger) *Manager {
	if limit <= 0 {
		limit = config.DefaultHistoryLimit
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		Limit:  limit,
		Logger: logger,
		ws:     ws,
		stacks: make(map[string]*stacks),
	}
}

// AddSnapshot records the current state of editor name. It does nothing
// and reports false when there is nothing to record under that name.
func (m *Manager) AddSnapshot(name string) bool {
	snap := m.Capture(name)
	if snap.Empty() {
		m.Logger.Debug("snapshot skipped", "pou", name)
		return false
	}
	st := m.bucket(name)
	st.future = nil
	m.push(name, st, snap)
	m.Logger.Debug("snapshot", "pou", name, "depth", len(st.past))
	observability.History().OnSnapshot(name, len(st.past))
	return true
}

// Undo restores the most recent snapshot of name and moves the current
// state onto the redo stack. It reports false when there is nothing to
// undo.
func (m *Manager) Undo(name string) bool {
	st := m.bucket(name)
	if len(st.past) == 0 {
		observability.History().OnUndo(name, false)
		return false
	}
	if cur := m.Capture(name); !cur.Empty() {
		st.future = append(st.future, cur)
	}
	snap := st.past[len(st.past)-1]
	st.past = st.past[:len(st.past)-1]
	m.apply(name, snap)

	m.Logger.Debug("undo", "pou", name, "past", len(st.past), "future", len(st.future))
	observability.History().OnUndo(name, true)
	return true
}

// Redo re-applies the most recently undone state of name. It reports
// false when there is nothing to redo.
func (m *Manager) Redo(name string) bool {
	st := m.bucket(name)
	if len(st.future) == 0 {
		observability.History().OnRedo(name, false)
		return false
	}
	if cur := m.Capture(name); !cur.Empty() {
		m.push(name, st, cur)
	}
	snap := st.future[len(st.future)-1]
	st.future = st.future[:len(st.future)-1]
	m.apply(name, snap)

	m.Logger.Debug("redo", "pou", name, "past", len(st.past), "future", len(st.future))
	observability.History().OnRedo(name, true)
	return true
}

// Depth returns the sizes of the undo and redo stacks of name.
func (m *Manager) Depth(name string) (past, future int) {
	if st, ok := m.stacks[name]; ok {
		return len(st.past), len(st.future)
	}
	return 0, 0
}

// Clear drops every stack.
func (m *Manager) Clear() {
	clear(m.stacks)
}

// Capture returns a deep copy of everything history tracks for name.
func (m *Manager) Capture(name string) Snapshot {
	var snap Snapshot
	if p := m.ws.Project; p != nil {
		if pou, ok := p.POU(name); ok {
			cp := pou.Clone()
			snap.POU = &POUState{Variables: cp.Variables, Body: cp.Body}
		} else if dt, ok := p.DataType(name); ok {
			cp := dt.Clone()
			snap.DataType = &cp
		} else if name == ResourceName && !p.Resource.IsEmpty() {
			cp := p.Resource.Clone()
			snap.Resource = &cp
		}
	}
	if m.ws.Flows != nil {
		if f, ok := m.ws.Flows.Flow(name); ok {
			snap.Flow = ladder.CloneFlow(f)
		}
	}
	return snap
}

// apply writes snap back into the workspace. The resource, POU, and data
// type parts are exclusive; the flow is restored independently.
func (m *Manager) apply(name string, snap Snapshot) {
	if p := m.ws.Project; p != nil {
		switch {
		case snap.Resource != nil:
			p.Resource = snap.Resource.Clone()
		case snap.POU != nil:
			if pou, ok := p.POU(name); ok {
				cp := pou.Clone()
				cp.Variables = plc.POU{Variables: snap.POU.Variables}.Clone().Variables
				cp.Body = snap.POU.Body
				p.SetPOU(cp)
			}
		case snap.DataType != nil:
			p.SetDataType(snap.DataType.Clone())
		}
	}
	if snap.Flow != nil && m.ws.Flows != nil {
		m.ws.Flows.AddFlow(ladder.CloneFlow(snap.Flow))
	}
}

func (m *Manager) bucket(name string) *stacks {
	st, ok := m.stacks[name]
	if !ok {
		st = &stacks{}
		m.stacks[name] = st
	}
	return st
}

func (m *Manager) push(name string, st *stacks, snap Snapshot) {
	st.past = append(st.past, snap)
	if len(st.past) > m.Limit {
		st.past = st.past[1:]
		m.Logger.Debug("snapshot evicted", "pou", name)
		observability.History().OnEvict(name)
	}
}
