package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/ladderflow/pkg/binding"
	"github.com/matzehuels/ladderflow/pkg/cache"
	"github.com/matzehuels/ladderflow/pkg/history"
	"github.com/matzehuels/ladderflow/pkg/ladder"
	"github.com/matzehuels/ladderflow/pkg/observability"
	"github.com/matzehuels/ladderflow/pkg/plc"
	"github.com/matzehuels/ladderflow/pkg/store"
)

type fixture struct {
	srv     *httptest.Server
	ws      history.Workspace
	renders *cache.MemoryCache
	contact string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	project := &plc.Project{
		Name: "plant",
		POUs: []plc.POU{{
			Type: plc.PouProgram, Name: "main", Language: plc.LangLD,
			Variables: []plc.Variable{
				{Name: "Start", Class: plc.ClassInput, Type: plc.VariableType{Definition: plc.DefBaseType, Value: "bool"}},
			},
		}},
	}
	flows := store.New(nil, log.New(io.Discard))
	flows.StartRung("main", "r1", ladder.Bounds{}, ladder.Bounds{})
	contact, ok := flows.AddNewNode("main", "r1", ladder.KindContact)
	if !ok {
		t.Fatal("AddNewNode() = false")
	}

	ws := history.Workspace{Project: project, Flows: flows}
	s := New(ws, 0, log.New(io.Discard))
	reg := prometheus.NewRegistry()
	observability.SetHTTPHooks(observability.NewPrometheusHooks(reg))
	t.Cleanup(observability.Reset)
	s.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	renders := cache.NewMemoryCache(0)
	s.Renders = renders

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, ws: ws, renders: renders, contact: contact}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func (f *fixture) nodeCount(t *testing.T) int {
	t.Helper()
	r, ok := f.ws.Flows.Rung("main", "r1")
	if !ok {
		t.Fatal("rung missing")
	}
	return len(r.Nodes)
}

func TestReadRoutes(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		path   string
		status int
		want   string
	}{
		{"health", "/healthz", http.StatusOK, `"ok"`},
		{"version", "/version", http.StatusOK, `"version"`},
		{"pous", "/pous", http.StatusOK, `"rungs":1`},
		{"library", "/library", http.StatusOK, `"TON"`},
		{"flow", "/flows/main", http.StatusOK, `"name":"main"`},
		{"unknown flow", "/flows/ghost", http.StatusNotFound, `"NOT_FOUND"`},
		{"rung", "/flows/main/rungs/r1", http.StatusOK, `"id":"r1"`},
		{"unknown rung", "/flows/main/rungs/r9", http.StatusNotFound, `rung main/r9`},
		{"dot", "/flows/main/rungs/r1/dot", http.StatusOK, `digraph "r1"`},
		{"detailed dot", "/flows/main/rungs/r1/dot?detailed=true", http.StatusOK, "→"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := f.do(t, http.MethodGet, tt.path, "")
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			if !strings.Contains(string(body), tt.want) {
				t.Errorf("body = %s, want it to contain %s", body, tt.want)
			}
		})
	}
}

func TestValidateType(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		body   string
		status int
		valid  bool
		err    string
	}{
		{"match", `{"selectedType":"bool","expectedType":"BOOL"}`, http.StatusOK, true, ""},
		{"mismatch", `{"selectedType":"INT","expectedType":"BOOL"}`, http.StatusOK, false, "Expected: BOOL, Got: INT"},
		{"family", `{"selectedType":"int","expectedType":"ANY_NUM"}`, http.StatusOK, true, ""},
		{"missing expected", `{"selectedType":"INT"}`, http.StatusBadRequest, false, ""},
		{"malformed", `{`, http.StatusBadRequest, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := f.do(t, http.MethodPost, "/validate-type", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			if tt.status != http.StatusOK {
				return
			}
			var v binding.Validation
			if err := json.Unmarshal(body, &v); err != nil {
				t.Fatal(err)
			}
			if v.Valid != tt.valid || v.Error != tt.err {
				t.Errorf("got %+v", v)
			}
		})
	}
}

func TestEditAndUndo(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPost, "/flows/main/rungs/r1/nodes", `{"kind":"coil"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add status = %d: %s", resp.StatusCode, body)
	}
	if got := f.nodeCount(t); got != 4 {
		t.Fatalf("nodes after add = %d, want 4", got)
	}

	resp, body = f.do(t, http.MethodPost, "/flows/main/undo", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"applied":true`) {
		t.Fatalf("undo = %d %s", resp.StatusCode, body)
	}
	if got := f.nodeCount(t); got != 3 {
		t.Errorf("nodes after undo = %d, want 3", got)
	}

	f.do(t, http.MethodPost, "/flows/main/redo", "")
	if got := f.nodeCount(t); got != 4 {
		t.Errorf("nodes after redo = %d, want 4", got)
	}

	resp, _ = f.do(t, http.MethodDelete, "/flows/main/rungs/r1/nodes/last", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("remove status = %d", resp.StatusCode)
	}
	if got := f.nodeCount(t); got != 3 {
		t.Errorf("nodes after remove = %d, want 3", got)
	}
}

func TestAddNodeRejectsUnknownKind(t *testing.T) {
	f := newFixture(t)
	resp, _ := f.do(t, http.MethodPost, "/flows/main/rungs/r1/nodes", `{"kind":"lamp"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if got := f.nodeCount(t); got != 3 {
		t.Errorf("nodes = %d, want 3", got)
	}
}

func TestBind(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		variable string
		valid    bool
	}{
		{"declared bool", "Start", true},
		{"undeclared", "Nope", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"nodeId":"` + f.contact + `","variable":"` + tt.variable + `"}`
			resp, data := f.do(t, http.MethodPost, "/flows/main/rungs/r1/bind", body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, data)
			}
			var v binding.Validation
			if err := json.Unmarshal(data, &v); err != nil {
				t.Fatal(err)
			}
			if v.Valid != tt.valid {
				t.Errorf("valid = %v, want %v (%s)", v.Valid, tt.valid, v.Error)
			}
		})
	}

	resp, _ := f.do(t, http.MethodPost, "/flows/main/rungs/r1/bind", `{"nodeId":"ghost","variable":"Start"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown node status = %d, want 404", resp.StatusCode)
	}
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/flows/main", "")

	resp, body := f.do(t, http.MethodGet, "/metrics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "ladderflow_http_requests_total") {
		t.Errorf("metrics missing request counter:\n%s", body)
	}
}

func TestSVGIsCachedBySource(t *testing.T) {
	f := newFixture(t)

	for range 2 {
		resp, body := f.do(t, http.MethodGet, "/flows/main/rungs/r1/svg", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d: %s", resp.StatusCode, body)
		}
		if !strings.Contains(string(body), "<svg") {
			t.Fatalf("body is not SVG: %.80s", body)
		}
	}
	if got := f.renders.Len(); got != 1 {
		t.Fatalf("cached renders = %d, want 1", got)
	}

	if resp, _ := f.do(t, http.MethodPost, "/flows/main/rungs/r1/nodes", `{"kind":"coil"}`); resp.StatusCode != http.StatusCreated {
		t.Fatalf("add node status = %d", resp.StatusCode)
	}
	f.do(t, http.MethodGet, "/flows/main/rungs/r1/svg", "")
	if got := f.renders.Len(); got != 2 {
		t.Errorf("cached renders after edit = %d, want 2", got)
	}
}
