package ladder

import (
	"reflect"
	"testing"

	"github.com/matzehuels/ladderflow/pkg/plc"
)

func bv(name string, class plc.Class, typ string) BlockVariable {
	return BlockVariable{Name: name, Class: class, Type: plc.VariableType{Definition: plc.DefBaseType, Value: typ}}
}

func tonVariant() BlockVariant {
	return BlockVariant{
		Name: "TON",
		Type: plc.PouFunctionBlock,
		Variables: []BlockVariable{
			bv("IN", plc.ClassInput, "BOOL"),
			bv("PT", plc.ClassInput, "TIME"),
			bv("Q", plc.ClassOutput, "BOOL"),
			bv("ET", plc.ClassOutput, "TIME"),
		},
	}
}

func addVariant() BlockVariant {
	g := func(name string, class plc.Class) BlockVariable {
		return BlockVariable{Name: name, Class: class, Type: plc.VariableType{Definition: plc.DefGenericType, Value: "ANY_NUM"}}
	}
	return BlockVariant{
		Name:      "ADD",
		Type:      plc.PouFunction,
		Variables: []BlockVariable{g("IN1", plc.ClassInput), g("IN2", plc.ClassInput), g("OUT", plc.ClassOutput)},
	}
}

func TestBuildContactGeometry(t *testing.T) {
	n := BuildContact("c1", Point{X: 26, Y: 88}, Point{X: 26, Y: 100}, ContactNegated)

	if n.Kind != KindContact || n.Width != ContactWidth || n.Height != ContactHeight {
		t.Fatalf("contact = %+v", n)
	}
	if !n.Draggable || !n.Selectable || !n.Deletable() {
		t.Error("contact should be user-manipulable")
	}
	if n.Data.Variant != ContactNegated {
		t.Errorf("Variant = %q, want %q", n.Data.Variant, ContactNegated)
	}

	in, ok := n.Handle("input")
	if !ok || in.Role != RoleTarget || in.Side != SideLeft {
		t.Fatalf("input handle = %+v, %v", in, ok)
	}
	if in.Global != (Point{X: 26, Y: 100}) || in.Relative != (Point{X: 0, Y: 12}) {
		t.Errorf("input handle positions = %+v / %+v", in.Global, in.Relative)
	}
	out, ok := n.Handle("output")
	if !ok || out.Role != RoleSource {
		t.Fatalf("output handle = %+v, %v", out, ok)
	}
	if out.Global != (Point{X: 50, Y: 100}) || out.Relative != (Point{X: 24, Y: 12}) {
		t.Errorf("output handle positions = %+v / %+v", out.Global, out.Relative)
	}

	if n.Data.InputConnector == nil || n.Data.InputConnector.ID != "input" {
		t.Errorf("InputConnector = %+v", n.Data.InputConnector)
	}
	if n.Data.OutputConnector == nil || n.Data.OutputConnector.ID != "output" {
		t.Errorf("OutputConnector = %+v", n.Data.OutputConnector)
	}
	if len(n.Data.InputHandles) != 1 || len(n.Data.OutputHandles) != 1 {
		t.Errorf("handle partitions = %d/%d", len(n.Data.InputHandles), len(n.Data.OutputHandles))
	}
	if n.Data.NumericID == "" || n.Data.NumericID != NumericID("c1") {
		t.Errorf("NumericID = %q", n.Data.NumericID)
	}
}

func TestHandleStyleFollowsRelativePosition(t *testing.T) {
	tests := []struct {
		name   string
		node   *Node
		handle string
		want   map[string]any
	}{
		{"contact input", BuildContact("c", Point{}, Point{}, ""), "input", map[string]any{"top": 12.0, "left": 0.0}},
		{"coil output", BuildCoil("k", Point{}, Point{}, ""), "output", map[string]any{"top": 12.0, "right": 0.0}},
		{"block second input", BuildBlock("b", Point{}, Point{}, tonVariant(), false), "PT", map[string]any{"top": BlockConnectorY + BlockConnectorSpacing, "left": 0.0}},
		{"parallel branch", BuildParallel("p", Point{}, Point{}, ParallelOpen, ""), "output-down", map[string]any{"left": ParallelWidth / 2, "bottom": 0.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := tt.node.Handle(tt.handle)
			if !ok {
				t.Fatalf("handle %s missing", tt.handle)
			}
			if !reflect.DeepEqual(h.Style, tt.want) {
				t.Errorf("Style = %v, want %v", h.Style, tt.want)
			}
		})
	}
}

func TestBuildersArePure(t *testing.T) {
	pos, h := Point{X: 10, Y: 20}, Point{X: 10, Y: 32}
	tests := []struct {
		name  string
		build func() *Node
	}{
		{"contact", func() *Node { return BuildContact("a", pos, h, ContactRisingEdge) }},
		{"coil", func() *Node { return BuildCoil("a", pos, h, CoilSet) }},
		{"block", func() *Node { return BuildBlock("a", pos, h, tonVariant(), false) }},
		{"parallel", func() *Node { return BuildParallel("a", pos, h, ParallelOpen, "b") }},
		{"variable", func() *Node {
			return BuildVariable("a", pos, h, VariableInput, BlockRef{ID: "blk", HandleID: "IN"})
		}},
		{"rail", func() *Node { return BuildPowerRail("a", pos, RailRight) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if a, b := tt.build(), tt.build(); !reflect.DeepEqual(a, b) {
				t.Errorf("builder not deterministic:\n%+v\n%+v", a, b)
			}
		})
	}

	if NumericID("a") == NumericID("b") {
		t.Error("NumericID should differ for different IDs")
	}
}

func TestBuildCoilVariants(t *testing.T) {
	if got := BuildCoil("c", Point{}, Point{}, CoilReset).Data.Variant; got != CoilReset {
		t.Errorf("variant = %q, want %q", got, CoilReset)
	}
	if got := BuildCoil("c", Point{}, Point{}, "bogus").Data.Variant; got != CoilDefault {
		t.Errorf("unknown variant = %q, want %q", got, CoilDefault)
	}
	if got := BuildContact("c", Point{}, Point{}, CoilSet).Data.Variant; got != ContactDefault {
		t.Errorf("contact with coil variant = %q, want %q", got, ContactDefault)
	}
	if w := BuildCoil("c", Point{}, Point{}, "").Width; w != CoilWidth {
		t.Errorf("coil width = %v, want %v", w, CoilWidth)
	}
}

func TestBuildBlockGeometry(t *testing.T) {
	n := BuildBlock("b1", Point{X: 100, Y: 64}, Point{X: 100, Y: 100}, tonVariant(), false)

	if n.Height != 100 {
		t.Errorf("Height = %v, want 100", n.Height)
	}
	if n.Width != 66 {
		t.Errorf("Width = %v, want 66", n.Width)
	}
	if n.Data.ExecutionControl || n.Data.LockExecutionControl {
		t.Error("TON should not force execution control")
	}
	if len(n.Data.Handles) != 4 {
		t.Fatalf("handles = %d, want 4", len(n.Data.Handles))
	}

	pt, _ := n.Handle("PT")
	if pt.Global != (Point{X: 100, Y: 140}) || pt.Relative != (Point{X: 0, Y: 76}) {
		t.Errorf("PT handle = %+v / %+v", pt.Global, pt.Relative)
	}
	q, _ := n.Handle("Q")
	if q.Global != (Point{X: 166, Y: 100}) || q.Role != RoleSource {
		t.Errorf("Q handle = %+v", q)
	}
	if n.Data.InputConnector.ID != "IN" || n.Data.OutputConnector.ID != "Q" {
		t.Errorf("connectors = %s / %s", n.Data.InputConnector.ID, n.Data.OutputConnector.ID)
	}
}

func TestBuildBlockExecutionControl(t *testing.T) {
	t.Run("forced for non-bool connectors", func(t *testing.T) {
		n := BuildBlock("add", Point{}, Point{}, addVariant(), false)
		if !n.Data.ExecutionControl || !n.Data.LockExecutionControl {
			t.Fatal("ADD should have locked execution control")
		}
		v := n.Data.BlockVariant
		if v.Variables[0].Name != ConnectorEN || v.Variables[1].Name != ConnectorENO {
			t.Errorf("first variables = %s, %s", v.Variables[0].Name, v.Variables[1].Name)
		}
		if n.Height != 140 || n.Width != 90 {
			t.Errorf("size = %vx%v, want 90x140", n.Width, n.Height)
		}
		if n.Data.InputConnector.ID != ConnectorEN {
			t.Errorf("InputConnector = %s, want EN", n.Data.InputConnector.ID)
		}
	})

	t.Run("requested", func(t *testing.T) {
		n := BuildBlock("ton", Point{}, Point{}, tonVariant(), true)
		if !n.Data.ExecutionControl || n.Data.LockExecutionControl {
			t.Errorf("execution control = %v, lock = %v", n.Data.ExecutionControl, n.Data.LockExecutionControl)
		}
		if len(n.Data.BlockVariant.Variables) != 6 {
			t.Errorf("variables = %d, want 6", len(n.Data.BlockVariant.Variables))
		}
	})

	t.Run("stripped when not requested", func(t *testing.T) {
		with := BuildBlock("ton", Point{}, Point{}, tonVariant(), true)
		n := BuildBlock("ton", Point{}, Point{}, *with.Data.BlockVariant, false)
		if n.Data.ExecutionControl {
			t.Error("execution control should be off")
		}
		if _, ok := n.Data.BlockVariant.Connector(ConnectorEN); ok {
			t.Error("EN should have been stripped")
		}
	})

	t.Run("input variant untouched", func(t *testing.T) {
		v := tonVariant()
		BuildBlock("ton", Point{}, Point{}, v, true)
		if len(v.Variables) != 4 {
			t.Errorf("caller variant mutated: %d variables", len(v.Variables))
		}
	})
}

func TestBlockSizeClamp(t *testing.T) {
	v := BlockVariant{
		Name: "VERY_LONG_BLOCK_NAME_THAT_OVERFLOWS",
		Variables: []BlockVariable{
			bv("AN_EXTREMELY_LONG_INPUT", plc.ClassInput, "BOOL"),
			bv("OUT", plc.ClassOutput, "BOOL"),
		},
	}
	w, h := BlockSize(v)
	if w != BlockMaxWidth {
		t.Errorf("width = %v, want %v", w, BlockMaxWidth)
	}
	if h != BlockConnectorY+24 {
		t.Errorf("height = %v, want %v", h, BlockConnectorY+24)
	}

	def := BuildBlock("d", Point{}, Point{}, DefaultBlockVariant(), false)
	if def.Data.ExecutionControl {
		t.Error("default block should not force execution control")
	}
	if len(def.Data.Handles) != 2 {
		t.Errorf("default block handles = %d, want 2", len(def.Data.Handles))
	}
}

func TestBlockVariantFromPOU(t *testing.T) {
	pou := plc.POU{
		Type:       plc.PouFunction,
		Name:       "Scale",
		ReturnType: "REAL",
		Variables: []plc.Variable{
			{Name: "Raw", Class: plc.ClassInput, Type: plc.VariableType{Definition: plc.DefBaseType, Value: "int"}},
			{Name: "tmp", Class: plc.ClassLocal, Type: plc.VariableType{Definition: plc.DefBaseType, Value: "real"}},
		},
	}
	v := BlockVariantFromPOU(pou)
	if len(v.Variables) != 2 {
		t.Fatalf("variables = %+v", v.Variables)
	}
	if v.Variables[1].Name != "OUT" || v.Variables[1].Type.Value != "REAL" {
		t.Errorf("return connector = %+v", v.Variables[1])
	}
}

func TestBuildParallel(t *testing.T) {
	open := BuildParallel("p1", Point{X: 40, Y: 99}, Point{X: 40, Y: 100}, ParallelOpen, "p2")
	closeNode := BuildParallel("p2", Point{X: 140, Y: 99}, Point{X: 140, Y: 100}, ParallelClose, "p1")

	if open.Draggable || open.Selectable || open.Deletable() {
		t.Error("parallel markers must not be user-manipulable")
	}
	if open.Data.ParallelCloseReference != "p2" || closeNode.Data.ParallelOpenReference != "p1" {
		t.Error("partner references not set")
	}
	if h, ok := open.Handle("output-down"); !ok || h.Role != RoleSource || h.Side != SideBottom {
		t.Errorf("open down handle = %+v, %v", h, ok)
	}
	if h, ok := closeNode.Handle("input-down"); !ok || h.Role != RoleTarget {
		t.Errorf("close down handle = %+v, %v", h, ok)
	}
	if h, _ := open.Handle("output-up"); h.Global.X != 70 {
		t.Errorf("output-up x = %v, want 70", h.Global.X)
	}
}

func TestBuildPlaceholderAndVariable(t *testing.T) {
	c := BuildContact("c", Point{X: 100, Y: 88}, Point{X: 100, Y: 100}, "")
	ph := BuildPlaceholder("ph", c, SideRight, false)
	if ph.Kind != KindPlaceholder || ph.Data.RelatedNode != "c" {
		t.Errorf("placeholder = %+v", ph)
	}
	if ph.Position.X != c.Right()+PlaceholderGap {
		t.Errorf("placeholder x = %v", ph.Position.X)
	}
	if ph.Draggable || ph.Deletable() {
		t.Error("placeholders must not be user-manipulable")
	}
	if BuildPlaceholder("pp", c, SideBottom, true).Kind != KindParallelPlaceholder {
		t.Error("parallel placeholder kind")
	}

	in := BuildVariable("v", Point{}, Point{X: 20, Y: 50}, VariableInput, BlockRef{ID: "blk", HandleID: "PT"})
	if h, ok := in.SourceHandle(); !ok || h.Global.X != 100 {
		t.Errorf("input variable source handle = %+v, %v", h, ok)
	}
	out := BuildVariable("v", Point{}, Point{X: 20, Y: 50}, VariableOutput, BlockRef{ID: "blk", HandleID: "ET"})
	if _, ok := out.TargetHandle(); !ok {
		t.Error("output variable should expose a target handle")
	}
	if out.Data.Block.HandleID != "ET" {
		t.Errorf("block ref = %+v", out.Data.Block)
	}
}

func TestKindRegistry(t *testing.T) {
	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			n, ok := Build(k, BuildParams{ID: "x", Variant: defaultVariant(k), BlockRef: &BlockRef{ID: "b"}})
			if !ok || n.Kind != k {
				t.Fatalf("Build(%v) = %+v, %v", k, n, ok)
			}
			if err := registry[k].validate(n); err != nil {
				t.Errorf("freshly built %v fails its own check: %v", k, err)
			}

			text, err := k.MarshalText()
			if err != nil {
				t.Fatal(err)
			}
			var back Kind
			if err := back.UnmarshalText(text); err != nil || back != k {
				t.Errorf("round trip %q = %v, %v", text, back, err)
			}
		})
	}

	if _, ok := Build(Kind(99), BuildParams{}); ok {
		t.Error("Build accepted undeclared kind")
	}
	var k Kind
	if err := k.UnmarshalText([]byte("relay")); err == nil {
		t.Error("UnmarshalText accepted unknown kind")
	}
}
