package binding

import (
	"slices"
	"testing"

	"github.com/matzehuels/ladderflow/pkg/ladder"
	"github.com/matzehuels/ladderflow/pkg/plc"
)

func base(name, typ string) plc.Variable {
	return plc.Variable{ID: "id-" + name, Name: name, Class: plc.ClassLocal, Type: plc.VariableType{Definition: plc.DefBaseType, Value: typ}}
}

func derived(name, typ string) plc.Variable {
	return plc.Variable{ID: "id-" + name, Name: name, Class: plc.ClassLocal, Type: plc.VariableType{Definition: plc.DefDerived, Value: typ}}
}

func table() []plc.Variable {
	return []plc.Variable{
		base("Start", "BOOL"),
		base("Count", "INT"),
		derived("Timer0", "TON"),
		derived("Start2", "BOOL"),
		{ID: "id-Lamps", Name: "Lamps", Class: plc.ClassLocal, Type: plc.VariableType{
			Definition: plc.DefArray,
			Value:      "ARRAY[0..3] OF BOOL",
			Array:      &plc.ArrayType{BaseType: "bool", Dimensions: []string{"0..3"}},
		}},
	}
}

func tonVariant() ladder.BlockVariant {
	return ladder.BlockVariant{
		Name: "TON",
		Type: plc.PouFunctionBlock,
		Variables: []ladder.BlockVariable{
			{Name: "IN", Class: plc.ClassInput, Type: plc.VariableType{Definition: plc.DefBaseType, Value: "BOOL"}},
			{Name: "PT", Class: plc.ClassInput, Type: plc.VariableType{Definition: plc.DefBaseType, Value: "TIME"}},
			{Name: "Q", Class: plc.ClassOutput, Type: plc.VariableType{Definition: plc.DefBaseType, Value: "BOOL"}},
			{Name: "ET", Class: plc.ClassOutput, Type: plc.VariableType{Definition: plc.DefBaseType, Value: "TIME"}},
		},
	}
}

// testRung holds a contact, a TON block with a PT variable node, and a coil.
func testRung() *ladder.Rung {
	r := ladder.NewRung("r1", ladder.Bounds{1530, 200}, ladder.Bounds{})
	left, right := r.Nodes[0], r.Nodes[1]
	ton := tonVariant()
	pt, _ := ton.Connector("PT")
	c := ladder.BuildContact("c1", ladder.Point{X: 26, Y: 88}, ladder.Point{X: 26, Y: 100}, "")
	b := ladder.BuildBlock("b1", ladder.Point{X: 100, Y: 64}, ladder.Point{X: 100, Y: 100}, ton, false)
	v := ladder.BuildVariable("v1", ladder.Point{X: 0, Y: 124}, ladder.Point{X: 20, Y: 140}, ladder.VariableInput,
		ladder.BlockRef{ID: "b1", HandleID: "PT", VariableType: pt})
	o := ladder.BuildCoil("o1", ladder.Point{X: 300, Y: 88}, ladder.Point{X: 300, Y: 100}, "")
	r.Nodes = []*ladder.Node{left, c, b, v, o, right}
	r.Edges = nil
	for _, pair := range [][2]string{{ladder.LeftRailID, "c1"}, {"c1", "b1"}, {"b1", "o1"}, {"o1", ladder.RightRailID}} {
		r.Edges = append(r.Edges, &ladder.Edge{ID: ladder.EdgeID(pair[0], pair[1]), Source: pair[0], Target: pair[1]})
	}
	return r
}

func TestValidateVariableType(t *testing.T) {
	tests := []struct {
		selected, expected string
		want               Validation
	}{
		{"BOOL", "ANY_BIT", Validation{Valid: true}},
		{"INT", "BOOL", Validation{Error: "Expected: BOOL, Got: INT"}},
		{"bool", "BOOL", Validation{Valid: true}},
		{"MyStruct", "ANY", Validation{Valid: true}},
		{"lreal", "any_num", Validation{Valid: true}},
		{"TIME", "ANY_MAGNITUDE", Validation{Valid: true}},
		{"STRING", "ANY_INT", Validation{Error: "Expected one of: sint, int, dint, lint, usint, uint, udint, ulint"}},
		{"INT", "ANY_REAL", Validation{Error: "Expected one of: real, lreal"}},
		{"ton", "TON", Validation{Valid: true}},
	}
	for _, tt := range tests {
		t.Run(tt.selected+"/"+tt.expected, func(t *testing.T) {
			if got := ValidateVariableType(tt.selected, tt.expected); got != tt.want {
				t.Errorf("ValidateVariableType(%q, %q) = %+v, want %+v", tt.selected, tt.expected, got, tt.want)
			}
		})
	}
}

func TestExpectedType(t *testing.T) {
	r := testRung()
	tests := []struct {
		node string
		want string
		ok   bool
	}{
		{"c1", "BOOL", true},
		{"o1", "BOOL", true},
		{"b1", "TON", true},
		{"v1", "TIME", true},
		{ladder.LeftRailID, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.node, func(t *testing.T) {
			n, _ := ladder.FindNode(r, tt.node)
			got, ok := ExpectedType(n)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ExpectedType(%s) = %q, %v; want %q, %v", tt.node, got, ok, tt.want, tt.ok)
			}
		})
	}

	fn := ladder.BuildBlock("f", ladder.Point{}, ladder.Point{}, ladder.DefaultBlockVariant(), false)
	if _, ok := ExpectedType(fn); ok {
		t.Error("plain function blocks have no instance type")
	}
}

func TestResolve(t *testing.T) {
	project := &plc.Project{POUs: []plc.POU{{Name: "main", Type: plc.PouProgram, Variables: table()}}}
	flows := []*ladder.Flow{{Name: "main", Rungs: []*ladder.Rung{testRung()}}}

	res := Resolve("main", project, flows, Query{NodeID: "b1", VariableName: "Timer0"})
	if res.POU == nil || res.Rung == nil || res.Node == nil {
		t.Fatalf("Resolve() = %+v", res)
	}
	if res.Selected == nil || res.Selected.Name != "Timer0" {
		t.Errorf("selected = %+v, want Timer0", res.Selected)
	}
	if len(res.Sources) != 1 || len(res.Targets) != 1 {
		t.Errorf("edges = %d out, %d in; want 1, 1", len(res.Sources), len(res.Targets))
	}
	if len(res.Variables) != len(table()) {
		t.Errorf("variables = %d", len(res.Variables))
	}

	t.Run("missing node", func(t *testing.T) {
		res := Resolve("main", project, flows, Query{NodeID: "nope"})
		if res.POU == nil || res.Node != nil || res.Selected != nil {
			t.Errorf("Resolve() = %+v", res)
		}
	})
	t.Run("missing pou", func(t *testing.T) {
		res := Resolve("other", project, flows, Query{NodeID: "c1"})
		if res.POU != nil || res.Rung != nil {
			t.Errorf("Resolve() = %+v", res)
		}
	})
	t.Run("nil project", func(t *testing.T) {
		res := Resolve("main", nil, flows, Query{NodeID: "c1", VariableName: "Start"})
		if res.Node == nil || res.Selected != nil {
			t.Errorf("Resolve() = %+v", res)
		}
	})
}

func TestSelect(t *testing.T) {
	r := testRung()
	vars := table()
	node := func(id string) *ladder.Node {
		n, _ := ladder.FindNode(r, id)
		return n
	}

	tests := []struct {
		name   string
		node   *ladder.Node
		input  string
		want   string
		wantOK bool
	}{
		{"contact by name", node("c1"), "start", "Start", true},
		{"contact skips derived", node("c1"), "Start2", "", false},
		{"contact array element", node("c1"), "Lamps[2]", "Lamps[2]", true},
		{"contact element out of range", node("c1"), "Lamps[4]", "", false},
		{"block takes derived", node("b1"), "Timer0", "Timer0", true},
		{"variable takes anything", node("v1"), "Start2", "Start2", true},
		{"empty", node("c1"), "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(tt.node, tt.input, vars)
			if got.Name != tt.want || ok != tt.wantOK {
				t.Errorf("Select(%q) = %q, %v; want %q, %v", tt.input, got.Name, ok, tt.want, tt.wantOK)
			}
		})
	}

	t.Run("stored id wins", func(t *testing.T) {
		n := ladder.CloneNode(node("c1"))
		n.Data.Variable = ladder.Binding{ID: "id-Start", Name: "Count"}
		got, ok := Select(n, "Count", vars)
		if !ok || got.Name != "Start" {
			t.Errorf("Select() = %q, %v; want Start", got.Name, ok)
		}
	})
	t.Run("stored name wins over typed text", func(t *testing.T) {
		n := ladder.CloneNode(node("c1"))
		n.Data.Variable = ladder.Binding{Name: "Start"}
		got, _ := Select(n, "Count", vars)
		if got.Name != "Start" {
			t.Errorf("Select() = %q, want Start", got.Name)
		}
	})
}

func TestBind(t *testing.T) {
	tests := []struct {
		name      string
		node      string
		variable  string
		wantName  string
		wantID    string
		wantWrong bool
		wantError string
	}{
		{"contact bool", "c1", "start", "Start", "id-Start", false, ""},
		{"contact int", "c1", "Count", "Count", "id-Count", true, "Expected: BOOL, Got: INT"},
		{"contact unknown", "c1", "Ghost", "Ghost", "", true, "Variable not found: Ghost"},
		{"contact element", "c1", "Lamps[1]", "Lamps[1]", "", false, ""},
		{"coil derived rejected", "o1", "Start2", "Start2", "", true, "Variable not found: Start2"},
		{"block instance", "b1", "Timer0", "Timer0", "id-Timer0", false, ""},
		{"block wrong type", "b1", "Count", "Count", "id-Count", true, "Expected: TON, Got: INT"},
		{"variable time", "v1", "Count", "Count", "id-Count", true, "Expected: TIME, Got: INT"},
		{"unbind", "c1", "", "", "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRung()
			before, _ := ladder.FindNode(r, tt.node)

			out, v := Bind(r, tt.node, tt.variable, table())
			if v.Valid == tt.wantWrong || v.Error != tt.wantError {
				t.Errorf("validation = %+v, want error %q", v, tt.wantError)
			}

			n, _ := ladder.FindNode(out, tt.node)
			if n.Data.Variable.Name != tt.wantName || n.Data.Variable.ID != tt.wantID {
				t.Errorf("binding = %+v, want %s/%s", n.Data.Variable, tt.wantName, tt.wantID)
			}
			if n.Data.WrongVariable != tt.wantWrong {
				t.Errorf("wrongVariable = %v, want %v", n.Data.WrongVariable, tt.wantWrong)
			}
			if before.Data.Variable.Name != "" || before.Data.WrongVariable {
				t.Error("Bind mutated the published node")
			}
		})
	}
}

func TestBindCopyOnWrite(t *testing.T) {
	r := testRung()
	out, _ := Bind(r, "c1", "Start", table())
	if out == r {
		t.Fatal("Bind returned the same rung after a change")
	}
	for i, n := range r.Nodes {
		if n.ID == "c1" {
			if out.Nodes[i] == n {
				t.Error("changed node reused")
			}
			continue
		}
		if out.Nodes[i] != n {
			t.Errorf("unchanged node %s was copied", n.ID)
		}
	}

	again, _ := Bind(out, "c1", "Start", table())
	if again != out {
		t.Error("re-binding the same variable should return the rung unchanged")
	}
	if missing, _ := Bind(r, "nope", "Start", table()); missing != r {
		t.Error("Bind on a missing node should be a no-op")
	}
}

func TestRevalidate(t *testing.T) {
	r := testRung()
	r, _ = Bind(r, "c1", "Start", table())
	r, _ = Bind(r, "b1", "Timer0", table())

	if got := Revalidate(r, table()); got != r {
		t.Error("Revalidate without changes should return the same rung")
	}

	t.Run("type change", func(t *testing.T) {
		vars := table()
		vars[0].Type.Value = "INT"
		out := Revalidate(r, vars)
		n, _ := ladder.FindNode(out, "c1")
		if !n.Data.WrongVariable {
			t.Error("contact should be flagged after its variable became INT")
		}
		b, _ := ladder.FindNode(out, "b1")
		orig, _ := ladder.FindNode(r, "b1")
		if b != orig {
			t.Error("unaffected block should keep its pointer")
		}
	})

	t.Run("rename follows id", func(t *testing.T) {
		vars := table()
		vars[0].Name = "Run"
		out := Revalidate(r, vars)
		n, _ := ladder.FindNode(out, "c1")
		if n.Data.Variable.Name != "Run" || n.Data.WrongVariable {
			t.Errorf("binding = %+v wrong=%v; want Run, valid", n.Data.Variable, n.Data.WrongVariable)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		vars := slices.DeleteFunc(table(), func(v plc.Variable) bool { return v.Name == "Timer0" })
		out := Revalidate(r, vars)
		n, _ := ladder.FindNode(out, "b1")
		if !n.Data.WrongVariable {
			t.Error("block should be flagged after its instance was deleted")
		}
	})
}

func TestFunctionBlockCleanup(t *testing.T) {
	r := testRung()
	r, _ = Bind(r, "b1", "Timer0", table())
	block, _ := ladder.FindNode(r, "b1")

	if !IsFunctionBlockVariableInUse("timer0", []*ladder.Rung{r}) {
		t.Error("Timer0 should be in use")
	}

	remaining := r.WithNodes(slices.DeleteFunc(slices.Clone(r.Nodes), func(n *ladder.Node) bool { return n.ID == "b1" }))
	if IsFunctionBlockVariableInUse("Timer0", []*ladder.Rung{remaining}) {
		t.Error("Timer0 should no longer be in use")
	}

	got := FunctionBlockVariablesToCleanup([]*ladder.Node{block, block}, []*ladder.Rung{remaining}, table())
	if !slices.Equal(got, []string{"Timer0"}) {
		t.Errorf("cleanup = %v, want [Timer0]", got)
	}
	if got := FunctionBlockVariablesToCleanup([]*ladder.Node{block}, []*ladder.Rung{r}, table()); len(got) != 0 {
		t.Errorf("cleanup while in use = %v", got)
	}
	contact, _ := ladder.FindNode(r, "c1")
	if got := FunctionBlockVariablesToCleanup([]*ladder.Node{contact}, nil, table()); len(got) != 0 {
		t.Errorf("contacts never yield cleanup candidates: %v", got)
	}

	flows := []*ladder.Flow{{Name: "a", Rungs: []*ladder.Rung{r}}, {Name: "b", Rungs: []*ladder.Rung{remaining, remaining}}}
	if got := len(AllRungs(flows)); got != 3 {
		t.Errorf("AllRungs = %d, want 3", got)
	}
}
