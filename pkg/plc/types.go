package plc

import (
	"slices"
	"strings"
)

// Elementary type names, lowercase as they are persisted.
const (
	TypeBool     = "bool"
	TypeSint     = "sint"
	TypeInt      = "int"
	TypeDint     = "dint"
	TypeLint     = "lint"
	TypeUsint    = "usint"
	TypeUint     = "uint"
	TypeUdint    = "udint"
	TypeUlint    = "ulint"
	TypeReal     = "real"
	TypeLreal    = "lreal"
	TypeTime     = "time"
	TypeDate     = "date"
	TypeTod      = "tod"
	TypeDt       = "dt"
	TypeString   = "string"
	TypeByte     = "byte"
	TypeWord     = "word"
	TypeDword    = "dword"
	TypeLword    = "lword"
	TypeLogLevel = "loglevel"
)

// BaseTypes lists every elementary type in declaration order.
var BaseTypes = []string{
	TypeBool, TypeSint, TypeInt, TypeDint, TypeLint,
	TypeUsint, TypeUint, TypeUdint, TypeUlint,
	TypeReal, TypeLreal, TypeTime, TypeDate, TypeTod, TypeDt,
	TypeString, TypeByte, TypeWord, TypeDword, TypeLword, TypeLogLevel,
}

// Wildcard matches every type.
const Wildcard = "ANY"

// families maps each generic family to its direct members. Members are
// either elementary types or other families.
var families = map[string][]string{
	"ANY":            {"ANY_DERIVED", "ANY_ELEMENTARY"},
	"ANY_DERIVED":    {},
	"ANY_ELEMENTARY": {"ANY_MAGNITUDE", "ANY_BIT", "ANY_STRING", "ANY_DATE"},
	"ANY_MAGNITUDE":  {"ANY_NUM", "TIME"},
	"ANY_NUM":        {"ANY_REAL", "ANY_INT"},
	"ANY_REAL":       {"REAL", "LREAL"},
	"ANY_INT":        {"SINT", "INT", "DINT", "LINT", "USINT", "UINT", "UDINT", "ULINT"},
	"ANY_BIT":        {"BOOL", "BYTE", "WORD", "DWORD", "LWORD"},
	"ANY_STRING":     {"STRING"},
	"ANY_DATE":       {"DATE", "TOD", "DT"},
}

// IsBaseType reports whether name is an elementary type (case-insensitive).
func IsBaseType(name string) bool {
	return slices.Contains(BaseTypes, strings.ToLower(name))
}

// IsGeneric reports whether name is a generic family, including the
// wildcard (case-insensitive).
func IsGeneric(name string) bool {
	_, ok := families[strings.ToUpper(name)]
	return ok
}

// Families returns the names of all generic families, sorted.
func Families() []string {
	out := make([]string, 0, len(families))
	for name := range families {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// ExpandFamily flattens a generic family into its concrete member types,
// lowercase, in declaration order and without duplicates. Nested families
// are expanded recursively. Unknown names yield nil.
func ExpandFamily(name string) []string {
	members, ok := families[strings.ToUpper(name)]
	if !ok {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	var walk func([]string)
	walk = func(ms []string) {
		for _, m := range ms {
			if sub, isFamily := families[m]; isFamily {
				walk(sub)
				continue
			}
			lower := strings.ToLower(m)
			if !seen[lower] {
				seen[lower] = true
				out = append(out, lower)
			}
		}
	}
	walk(members)
	return out
}
