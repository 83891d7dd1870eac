package plc

import (
	"slices"
	"testing"
)

func TestExpandFamily(t *testing.T) {
	tests := []struct {
		family string
		want   []string
	}{
		{"ANY_BIT", []string{"bool", "byte", "word", "dword", "lword"}},
		{"any_bit", []string{"bool", "byte", "word", "dword", "lword"}},
		{"ANY_REAL", []string{"real", "lreal"}},
		{"ANY_NUM", []string{"real", "lreal", "sint", "int", "dint", "lint", "usint", "uint", "udint", "ulint"}},
		{"ANY_DATE", []string{"date", "tod", "dt"}},
		{"ANY_DERIVED", nil},
		{"NOT_A_FAMILY", nil},
	}

	for _, tt := range tests {
		t.Run(tt.family, func(t *testing.T) {
			got := ExpandFamily(tt.family)
			if !slices.Equal(got, tt.want) {
				t.Errorf("ExpandFamily(%q) = %v, want %v", tt.family, got, tt.want)
			}
		})
	}
}

func TestExpandFamilyNested(t *testing.T) {
	got := ExpandFamily("ANY_MAGNITUDE")
	for _, want := range []string{"time", "real", "int", "ulint"} {
		if !slices.Contains(got, want) {
			t.Errorf("ANY_MAGNITUDE missing %q: %v", want, got)
		}
	}
	if slices.Contains(got, "bool") {
		t.Errorf("ANY_MAGNITUDE must not contain bool: %v", got)
	}

	all := ExpandFamily("ANY")
	for _, bt := range []string{"bool", "string", "lreal", "dt"} {
		if !slices.Contains(all, bt) {
			t.Errorf("ANY missing %q", bt)
		}
	}
}

func TestIsBaseTypeAndGeneric(t *testing.T) {
	if !IsBaseType("BOOL") || !IsBaseType("lreal") {
		t.Error("IsBaseType should accept elementary types case-insensitively")
	}
	if IsBaseType("TON") || IsBaseType("ANY_INT") {
		t.Error("IsBaseType should reject non-elementary names")
	}
	if !IsGeneric("any_int") || !IsGeneric("ANY") {
		t.Error("IsGeneric should accept families case-insensitively")
	}
	if IsGeneric("INT") {
		t.Error("IsGeneric(INT) = true, want false")
	}
	if fams := Families(); !slices.IsSorted(fams) || len(fams) != 10 {
		t.Errorf("Families() = %v", fams)
	}
}
