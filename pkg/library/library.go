package library

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ladderflow/pkg/errors"
	"github.com/matzehuels/ladderflow/pkg/ladder"
	"github.com/matzehuels/ladderflow/pkg/plc"
)

//go:embed standard.toml
var standardTOML []byte

// ProjectLibrary names the library holding the open project's own POUs.
const ProjectLibrary = "Project"

// Library is a named group of block types.
type Library struct {
	Name    string
	Version string
	Blocks  []ladder.BlockVariant
}

// Catalog is an ordered set of libraries with case-insensitive lookup.
// A Catalog is immutable once built.
type Catalog struct {
	libraries []Library
	index     map[string]ladder.BlockVariant
}

type catalogFile struct {
	Library []libraryFile `toml:"library"`
}

type libraryFile struct {
	Name    string    `toml:"name"`
	Version string    `toml:"version"`
	POU     []pouFile `toml:"pou"`
}

type pouFile struct {
	Name          string         `toml:"name"`
	Type          string         `toml:"type"`
	Documentation string         `toml:"documentation"`
	Extensible    bool           `toml:"extensible"`
	Variables     []variableFile `toml:"variables"`
}

type variableFile struct {
	Name  string `toml:"name"`
	Class string `toml:"class"`
	Type  struct {
		Definition string `toml:"definition"`
		Value      string `toml:"value"`
	} `toml:"type"`
}

var standard = sync.OnceValues(func() (*Catalog, error) {
	return Load(bytes.NewReader(standardTOML))
})

// Standard returns the built-in catalog. It panics if the embedded file
// is malformed, which the package tests rule out.
func Standard() *Catalog {
	c, err := standard()
	if err != nil {
		panic(err)
	}
	return c
}

// Load decodes a catalog from TOML.
func Load(r io.Reader) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode block library")
	}

	libs := make([]Library, 0, len(f.Library))
	for _, lf := range f.Library {
		lib := Library{Name: lf.Name, Version: lf.Version}
		for _, p := range lf.POU {
			bv, err := p.variant()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "library %q", lf.Name)
			}
			lib.Blocks = append(lib.Blocks, bv)
		}
		libs = append(libs, lib)
	}
	return newCatalog(libs), nil
}

func (p pouFile) variant() (ladder.BlockVariant, error) {
	typ := plc.PouType(p.Type)
	if typ != plc.PouFunction && typ != plc.PouFunctionBlock {
		return ladder.BlockVariant{}, fmt.Errorf("block %q: unsupported type %q", p.Name, p.Type)
	}
	if err := errors.ValidateIdentifier(p.Name); err != nil {
		return ladder.BlockVariant{}, err
	}
	bv := ladder.BlockVariant{
		Name:          p.Name,
		Type:          typ,
		Documentation: p.Documentation,
		Extensible:    p.Extensible,
	}
	for _, v := range p.Variables {
		class := plc.Class(v.Class)
		if class != plc.ClassInput && class != plc.ClassOutput && class != plc.ClassInOut {
			return ladder.BlockVariant{}, fmt.Errorf("block %q: connector %q has class %q", p.Name, v.Name, v.Class)
		}
		bv.Variables = append(bv.Variables, ladder.BlockVariable{
			Name:  v.Name,
			Class: class,
			Type:  plc.VariableType{Definition: plc.Definition(v.Type.Definition), Value: v.Type.Value},
		})
	}
	return bv, nil
}

func newCatalog(libs []Library) *Catalog {
	c := &Catalog{libraries: libs, index: make(map[string]ladder.BlockVariant)}
	for _, lib := range libs {
		for _, b := range lib.Blocks {
			c.index[strings.ToLower(b.Name)] = b
		}
	}
	return c
}

// WithProject returns a catalog extending c with the project's functions
// and function blocks. Programs are not offered as blocks.
func (c *Catalog) WithProject(p *plc.Project) *Catalog {
	if p == nil {
		return c
	}
	user := Library{Name: ProjectLibrary}
	for _, pou := range p.POUs {
		if pou.Type == plc.PouProgram {
			continue
		}
		user.Blocks = append(user.Blocks, ladder.BlockVariantFromPOU(pou))
	}
	if len(user.Blocks) == 0 {
		return c
	}
	return newCatalog(append(slices.Clone(c.libraries), user))
}

// Lookup finds a block type by name, ignoring case.
func (c *Catalog) Lookup(name string) (ladder.BlockVariant, bool) {
	b, ok := c.index[strings.ToLower(name)]
	if !ok {
		return ladder.BlockVariant{}, false
	}
	b.Variables = slices.Clone(b.Variables)
	return b, true
}

// Libraries returns the catalog's libraries in declaration order.
func (c *Catalog) Libraries() []Library {
	return slices.Clone(c.libraries)
}

// Names returns every block name, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.index))
	for _, b := range c.index {
		names = append(names, b.Name)
	}
	slices.Sort(names)
	return names
}

// Documentation formats a block's interface for display: its inputs, its
// outputs, and its free-text documentation.
func Documentation(b ladder.BlockVariant) string {
	var sb strings.Builder
	write := func(label string, vars []ladder.BlockVariable) {
		sb.WriteString(label)
		sb.WriteString(":\n")
		for _, v := range vars {
			fmt.Fprintf(&sb, "  %s : %s\n", v.Name, strings.ToUpper(v.Type.Value))
		}
	}
	write("INPUT", b.Inputs())
	write("OUTPUT", b.Outputs())
	if b.Documentation != "" {
		sb.WriteString("\n")
		sb.WriteString(b.Documentation)
		sb.WriteString("\n")
	}
	return sb.String()
}
