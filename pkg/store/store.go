package store

import (
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/ladderflow/pkg/config"
	"github.com/matzehuels/ladderflow/pkg/ladder"
	"github.com/matzehuels/ladderflow/pkg/observability"
)

// Store owns the ladder flows of one project.
type Store struct {
	Bounds ladder.Bounds
	Styles ladder.Styles
	Logger *log.Logger

	// NewID returns a fresh random identifier. Tests replace it to get
	// predictable IDs.
	NewID func() string

	flows []*ladder.Flow
}

// New creates an empty store using the bounds and styles of cfg. A nil
// cfg means config.Default(); a nil logger means log.Default().
func New(cfg *config.Config, logger *log.Logger) *Store {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		Bounds: cfg.Bounds(),
		Styles: cfg.Styles(),
		Logger: logger,
		NewID:  uuid.NewString,
	}
}

// Flows returns the current flows. The slice and its elements must not be
// modified.
func (s *Store) Flows() []*ladder.Flow {
	return s.flows
}

// Flow returns the flow of the named POU.
func (s *Store) Flow(name string) (*ladder.Flow, bool) {
	if i := s.flowIndex(name); i >= 0 {
		return s.flows[i], true
	}
	return nil, false
}

// Rung returns one rung of the named flow.
func (s *Store) Rung(editor, rungID string) (*ladder.Rung, bool) {
	f, ok := s.Flow(editor)
	if !ok {
		return nil, false
	}
	return ladder.FindRung(f, rungID)
}

// ClearFlows drops every flow.
func (s *Store) ClearFlows() {
	s.flows = nil
	s.Logger.Debug("flows cleared")
}

// AddFlow registers f, replacing any flow with the same name. Selection
// state carried by f is dropped.
func (s *Store) AddFlow(f *ladder.Flow) {
	if f == nil {
		return
	}
	next := *f
	next.Rungs = make([]*ladder.Rung, len(f.Rungs))
	for i, r := range f.Rungs {
		if len(r.Selected) == 0 {
			next.Rungs[i] = r
			continue
		}
		cp := *r
		cp.Selected = nil
		next.Rungs[i] = &cp
	}

	flows := slices.Clone(s.flows)
	if i := s.flowIndex(f.Name); i >= 0 {
		flows[i] = &next
	} else {
		flows = append(flows, &next)
	}
	s.flows = flows
	s.Logger.Debug("flow added", "flow", f.Name, "rungs", len(f.Rungs))
}

// RemoveFlow drops the flow of the named POU.
func (s *Store) RemoveFlow(name string) {
	i := s.flowIndex(name)
	if i < 0 {
		s.noop(name, "", "removeFlow")
		return
	}
	s.flows = slices.Delete(slices.Clone(s.flows), i, i+1)
	s.Logger.Debug("flow removed", "flow", name)
}

// SetFlowUpdated sets the dirty flag of a flow.
func (s *Store) SetFlowUpdated(editor string, updated bool) {
	s.updateFlow(editor, "", "setFlowUpdated", func(f *ladder.Flow) (*ladder.Flow, bool) {
		if f.Updated == updated {
			return nil, false
		}
		out := *f
		out.Updated = updated
		return &out, true
	})
}

// StartRung appends an empty rung to a flow, creating the flow when it
// does not exist yet. A zero bounds value means the store's bounds.
// Starting a rung whose ID is already taken is a no-op.
func (s *Store) StartRung(editor, rungID string, bounds, viewport ladder.Bounds) {
	if bounds == (ladder.Bounds{}) {
		bounds = s.Bounds
	}
	if s.flowIndex(editor) < 0 {
		s.flows = append(slices.Clone(s.flows), &ladder.Flow{Name: editor})
		s.Logger.Debug("flow created", "flow", editor)
	}
	s.updateFlow(editor, rungID, "startRung", func(f *ladder.Flow) (*ladder.Flow, bool) {
		if ladder.RungIndex(f, rungID) >= 0 {
			return nil, false
		}
		out := *f
		out.Rungs = append(slices.Clone(f.Rungs), ladder.NewRung(rungID, bounds, viewport))
		out.Updated = true
		return &out, true
	})
}

// SetRungs replaces every rung of a flow. The batch is rejected as a whole
// when one rung lacks an ID or a rail.
func (s *Store) SetRungs(editor string, rungs []*ladder.Rung) {
	for _, r := range rungs {
		if err := ladder.ValidateShape(r); err != nil {
			s.Logger.Debug("rungs rejected", "flow", editor, "err", err)
			observability.Edit().OnNoop(editor, "setRungs")
			return
		}
	}
	s.updateFlow(editor, "", "setRungs", func(f *ladder.Flow) (*ladder.Flow, bool) {
		out := *f
		out.Rungs = slices.Clone(rungs)
		out.Updated = true
		return &out, true
	})
}

// RemoveRung drops one rung of a flow.
func (s *Store) RemoveRung(editor, rungID string) {
	s.updateFlow(editor, rungID, "removeRung", func(f *ladder.Flow) (*ladder.Flow, bool) {
		i := ladder.RungIndex(f, rungID)
		if i < 0 {
			return nil, false
		}
		out := *f
		out.Rungs = slices.Delete(slices.Clone(f.Rungs), i, i+1)
		out.Updated = true
		return &out, true
	})
}

// DuplicateRung inserts a copy of a rung right after it and returns the
// copy's ID. Nodes of the copy get fresh IDs.
func (s *Store) DuplicateRung(editor, rungID string) (string, bool) {
	newRungID := "rung_" + editor + "_" + s.NewID()
	ok := s.updateFlow(editor, rungID, "duplicateRung", func(f *ladder.Flow) (*ladder.Flow, bool) {
		i := ladder.RungIndex(f, rungID)
		if i < 0 {
			return nil, false
		}
		dup := ladder.DuplicateRung(f.Rungs[i], newRungID, func(k ladder.Kind) string {
			return strings.ToUpper(k.String()) + "_" + s.NewID()
		})
		out := *f
		out.Rungs = slices.Insert(slices.Clone(f.Rungs), i+1, dup)
		out.Updated = true
		return &out, true
	})
	if !ok {
		return "", false
	}
	return newRungID, true
}

// AddComment sets the comment of a rung.
func (s *Store) AddComment(editor, rungID, comment string) {
	s.updateRung(editor, rungID, "addComment", true, func(r *ladder.Rung) (*ladder.Rung, bool) {
		if r.Comment == comment {
			return nil, false
		}
		out := *r
		out.Comment = comment
		return &out, true
	})
}

// UpdateFlowViewport sets the viewport of a rung. The viewport is view
// state and does not mark the flow updated.
func (s *Store) UpdateFlowViewport(editor, rungID string, viewport ladder.Bounds) {
	s.updateRung(editor, rungID, "updateFlowViewport", false, func(r *ladder.Rung) (*ladder.Rung, bool) {
		if r.FlowViewport == viewport {
			return nil, false
		}
		out := *r
		out.FlowViewport = viewport
		return &out, true
	})
}

// SetSelectedNodes replaces the selection of a rung. A non-empty selection
// clears the selection of every other rung of the flow.
func (s *Store) SetSelectedNodes(editor, rungID string, ids []string) {
	s.updateFlow(editor, rungID, "setSelectedNodes", func(f *ladder.Flow) (*ladder.Flow, bool) {
		i := ladder.RungIndex(f, rungID)
		if i < 0 {
			return nil, false
		}
		out := *f
		out.Rungs = slices.Clone(f.Rungs)
		for j, r := range out.Rungs {
			switch {
			case j == i:
				cp := *r
				cp.Selected = slices.Clone(ids)
				out.Rungs[j] = &cp
			case len(ids) > 0 && len(r.Selected) > 0:
				cp := *r
				cp.Selected = nil
				out.Rungs[j] = &cp
			}
		}
		return &out, true
	})
}

func (s *Store) flowIndex(name string) int {
	return slices.IndexFunc(s.flows, func(f *ladder.Flow) bool { return f.Name == name })
}

// updateFlow replaces the named flow with the result of fn. fn reports
// false when the edit does not apply.
func (s *Store) updateFlow(editor, rungID, op string, fn func(*ladder.Flow) (*ladder.Flow, bool)) bool {
	i := s.flowIndex(editor)
	if i < 0 {
		s.noop(editor, rungID, op)
		return false
	}
	next, ok := fn(s.flows[i])
	if !ok {
		s.noop(editor, rungID, op)
		return false
	}
	flows := slices.Clone(s.flows)
	flows[i] = next
	s.flows = flows

	s.Logger.Debug("edit", "flow", editor, "rung", rungID, "op", op)
	observability.Edit().OnEdit(editor, op, rungID)
	return true
}

// updateRung replaces one rung of a flow with the result of fn. When mark
// is set the flow is flagged updated.
func (s *Store) updateRung(editor, rungID, op string, mark bool, fn func(*ladder.Rung) (*ladder.Rung, bool)) bool {
	return s.updateFlow(editor, rungID, op, func(f *ladder.Flow) (*ladder.Flow, bool) {
		i := ladder.RungIndex(f, rungID)
		if i < 0 {
			return nil, false
		}
		next, ok := fn(f.Rungs[i])
		if !ok {
			return nil, false
		}
		out := *f
		out.Rungs = slices.Clone(f.Rungs)
		out.Rungs[i] = next
		if mark {
			out.Updated = true
		}
		return &out, true
	})
}

func (s *Store) noop(editor, rungID, op string) {
	s.Logger.Debug("edit skipped", "flow", editor, "rung", rungID, "op", op)
	observability.Edit().OnNoop(editor, op)
}
