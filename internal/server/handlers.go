package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ladderflow/pkg/binding"
	"github.com/matzehuels/ladderflow/pkg/buildinfo"
	"github.com/matzehuels/ladderflow/pkg/cache"
	"github.com/matzehuels/ladderflow/pkg/errors"
	"github.com/matzehuels/ladderflow/pkg/ladder"
	"github.com/matzehuels/ladderflow/pkg/plc"
	"github.com/matzehuels/ladderflow/pkg/render/dot"
)

type pouSummary struct {
	Name      string       `json:"name"`
	Type      plc.PouType  `json:"type"`
	Language  plc.Language `json:"language"`
	Variables int          `json:"variables"`
	Rungs     int          `json:"rungs"`
}

type blockSummary struct {
	Library string      `json:"library"`
	Name    string      `json:"name"`
	Type    plc.PouType `json:"type"`
}

type typeCheck struct {
	SelectedType string `json:"selectedType"`
	ExpectedType string `json:"expectedType"`
}

type addNodeRequest struct {
	Kind string `json:"kind"`
}

type bindRequest struct {
	NodeID   string `json:"nodeId"`
	Variable string `json:"variable"`
}

type historyResponse struct {
	Applied bool `json:"applied"`
	Past    int  `json:"past"`
	Future  int  `json:"future"`
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) listPOUs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]pouSummary, 0, len(s.ws.Project.POUs))
	for _, p := range s.ws.Project.POUs {
		sum := pouSummary{Name: p.Name, Type: p.Type, Language: p.Language, Variables: len(p.Variables)}
		if f, ok := s.ws.Flows.Flow(p.Name); ok {
			sum.Rungs = len(f.Rungs)
		}
		out = append(out, sum)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listLibrary(w http.ResponseWriter, r *http.Request) {
	var out []blockSummary
	for _, lib := range s.catalog.Libraries() {
		for _, b := range lib.Blocks {
			out = append(out, blockSummary{Library: lib.Name, Name: b.Name, Type: b.Type})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /validate-type checks a type name against a connector type without
// touching the workspace.
func (s *Server) validateType(w http.ResponseWriter, r *http.Request) {
	var req typeCheck
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.ExpectedType == "" {
		writeProblem(w, errors.New(errors.ErrCodeInvalidInput, "expectedType is required"))
		return
	}
	writeJSON(w, http.StatusOK, binding.ValidateVariableType(req.SelectedType, req.ExpectedType))
}

func (s *Server) getFlow(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pou := chi.URLParam(r, "pou")
	f, ok := s.ws.Flows.Flow(pou)
	if !ok {
		writeProblem(w, errors.New(errors.ErrCodeNotFound, "flow %s", pou))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// rung looks up the rung named by the path. It writes a 404 and reports
// false when there is none. Callers hold s.mu.
func (s *Server) rung(w http.ResponseWriter, r *http.Request) (*ladder.Rung, bool) {
	pou, id := chi.URLParam(r, "pou"), chi.URLParam(r, "rung")
	rung, ok := s.ws.Flows.Rung(pou, id)
	if !ok {
		writeProblem(w, errors.New(errors.ErrCodeNotFound, "rung %s/%s", pou, id))
	}
	return rung, ok
}

func (s *Server) getRung(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rung, ok := s.rung(w, r); ok {
		writeJSON(w, http.StatusOK, rung)
	}
}

func (s *Server) dotOf(w http.ResponseWriter, r *http.Request) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rung, ok := s.rung(w, r)
	if !ok {
		return "", false
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	return dot.ToDOT(rung, dot.Options{Detailed: detailed}), true
}

func (s *Server) getRungDOT(w http.ResponseWriter, r *http.Request) {
	src, ok := s.dotOf(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(src))
}

// Rendering runs outside the lock: the DOT text is a snapshot.
func (s *Server) getRungSVG(w http.ResponseWriter, r *http.Request) {
	src, ok := s.dotOf(w, r)
	if !ok {
		return
	}
	svg, err := cache.Fetch(r.Context(), s.Renders, cache.RenderKey("svg", src), 0, func() ([]byte, error) {
		return dot.RenderSVG(r.Context(), src)
	})
	if err != nil {
		writeProblem(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) addNode(w http.ResponseWriter, r *http.Request) {
	var req addNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	k, ok := ladder.ParseKind(req.Kind)
	if !ok {
		writeProblem(w, errors.New(errors.ErrCodeInvalidInput, "unknown node kind %q", req.Kind))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rung(w, r); !ok {
		return
	}
	pou, rungID := chi.URLParam(r, "pou"), chi.URLParam(r, "rung")
	s.history.AddSnapshot(pou)
	id, ok := s.ws.Flows.AddNewNode(pou, rungID, k)
	if !ok {
		writeProblem(w, errors.New(errors.ErrCodeInvalidRung, "rung %s has no power rails", rungID))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) removeLastNode(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rung(w, r); !ok {
		return
	}
	pou, rungID := chi.URLParam(r, "pou"), chi.URLParam(r, "rung")
	s.history.AddSnapshot(pou)
	if !s.ws.Flows.RemoveLastNode(pou, rungID) {
		writeProblem(w, errors.New(errors.ErrCodeNotFound, "rung %s has no elements", rungID))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) bind(w http.ResponseWriter, r *http.Request) {
	var req bindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rung, ok := s.rung(w, r)
	if !ok {
		return
	}
	if _, ok := ladder.FindNode(rung, req.NodeID); !ok {
		writeProblem(w, errors.New(errors.ErrCodeNotFound, "node %s", req.NodeID))
		return
	}
	pou := chi.URLParam(r, "pou")
	var vars []plc.Variable
	if p, ok := s.ws.Project.POU(pou); ok {
		vars = p.Variables
	}
	s.history.AddSnapshot(pou)
	v, _ := s.ws.Flows.BindVariable(pou, rung.ID, req.NodeID, req.Variable, vars)
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	s.restore(w, r, s.history.Undo)
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	s.restore(w, r, s.history.Redo)
}

func (s *Server) restore(w http.ResponseWriter, r *http.Request, fn func(string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pou := chi.URLParam(r, "pou")
	applied := fn(pou)
	past, future := s.history.Depth(pou)
	writeJSON(w, http.StatusOK, historyResponse{Applied: applied, Past: past, Future: future})
}
