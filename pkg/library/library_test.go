package library

import (
	"strings"
	"testing"

	"github.com/matzehuels/ladderflow/pkg/errors"
	"github.com/matzehuels/ladderflow/pkg/ladder"
	"github.com/matzehuels/ladderflow/pkg/plc"
)

func TestStandardCatalog(t *testing.T) {
	c := Standard()

	libs := c.Libraries()
	if len(libs) != 6 {
		t.Fatalf("libraries = %d, want 6", len(libs))
	}
	if libs[0].Name != "Standard Function Blocks" {
		t.Errorf("first library = %q", libs[0].Name)
	}

	tests := []struct {
		name    string
		typ     plc.PouType
		inputs  int
		outputs int
	}{
		{"TON", plc.PouFunctionBlock, 2, 2},
		{"ctud", plc.PouFunctionBlock, 5, 3},
		{"Add", plc.PouFunction, 2, 1},
		{"SEL", plc.PouFunction, 3, 1},
		{"INT_TO_REAL", plc.PouFunction, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := c.Lookup(tt.name)
			if !ok {
				t.Fatalf("Lookup(%q) missing", tt.name)
			}
			if b.Type != tt.typ {
				t.Errorf("type = %q, want %q", b.Type, tt.typ)
			}
			if got := len(b.Inputs()); got != tt.inputs {
				t.Errorf("inputs = %d, want %d", got, tt.inputs)
			}
			if got := len(b.Outputs()); got != tt.outputs {
				t.Errorf("outputs = %d, want %d", got, tt.outputs)
			}
		})
	}

	if _, ok := c.Lookup("NOPE"); ok {
		t.Error("Lookup(NOPE) should fail")
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	c := Standard()
	b, _ := c.Lookup("TON")
	b.Variables[0].Name = "MUTATED"

	again, _ := c.Lookup("TON")
	if again.Variables[0].Name != "IN" {
		t.Errorf("catalog entry mutated: %q", again.Variables[0].Name)
	}
}

func TestStandardBlocksBuild(t *testing.T) {
	for _, name := range Standard().Names() {
		b, _ := Standard().Lookup(name)
		n := ladder.BuildBlock("b", ladder.Point{}, ladder.Point{}, b, false)
		if n.Width <= 0 || n.Width > ladder.BlockMaxWidth {
			t.Errorf("%s: width %v out of range", name, n.Width)
		}
		if len(n.Data.Handles) == 0 {
			t.Errorf("%s: no handles", name)
		}
	}
}

func TestExecutionControlLockedForNonBoolBlocks(t *testing.T) {
	tests := []struct {
		name   string
		locked bool
	}{
		{"TON", false},
		{"AND", false},
		{"ADD", true},
		{"MOVE", false},
		{"INT_TO_REAL", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := Standard().Lookup(tt.name)
			_, enabled, locked := ladder.WithExecutionControl(b, false)
			if locked != tt.locked {
				t.Errorf("locked = %v, want %v", locked, tt.locked)
			}
			if locked && !enabled {
				t.Error("locked execution control must be enabled")
			}
		})
	}
}

func TestWithProject(t *testing.T) {
	p := &plc.Project{POUs: []plc.POU{
		{Name: "main", Type: plc.PouProgram},
		{Name: "Scale", Type: plc.PouFunction, ReturnType: "REAL", Variables: []plc.Variable{
			{Name: "raw", Class: plc.ClassInput, Type: plc.VariableType{Definition: plc.DefBaseType, Value: "INT"}},
			{Name: "tmp", Class: plc.ClassLocal, Type: plc.VariableType{Definition: plc.DefBaseType, Value: "INT"}},
		}},
	}}
	c := Standard().WithProject(p)

	if _, ok := c.Lookup("main"); ok {
		t.Error("programs must not be offered as blocks")
	}
	b, ok := c.Lookup("scale")
	if !ok {
		t.Fatal("user function missing")
	}
	if len(b.Inputs()) != 1 || len(b.Outputs()) != 1 || b.Outputs()[0].Name != "OUT" {
		t.Errorf("unexpected connectors: %+v", b.Variables)
	}
	libs := c.Libraries()
	if libs[len(libs)-1].Name != ProjectLibrary {
		t.Errorf("last library = %q", libs[len(libs)-1].Name)
	}
	if _, ok := Standard().Lookup("scale"); ok {
		t.Error("WithProject mutated the standard catalog")
	}
	if Standard().WithProject(nil) != Standard() {
		t.Error("WithProject(nil) should return the receiver")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"syntax", "[[library]\n"},
		{"bad type", "[[library]]\nname='x'\n[[library.pou]]\nname='P'\ntype='program'\n"},
		{"bad name", "[[library]]\nname='x'\n[[library.pou]]\nname='1P'\ntype='function'\n"},
		{"bad class", "[[library]]\nname='x'\n[[library.pou]]\nname='P'\ntype='function'\nvariables=[{name='A', class='local', type={definition='base-type', value='INT'}}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.in))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("Load() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestDocumentation(t *testing.T) {
	b, _ := Standard().Lookup("TON")
	got := Documentation(b)
	want := "INPUT:\n  IN : BOOL\n  PT : TIME\nOUTPUT:\n  Q : BOOL\n  ET : TIME\n\n" + b.Documentation + "\n"
	if got != want {
		t.Errorf("Documentation() =\n%s\nwant\n%s", got, want)
	}
}
