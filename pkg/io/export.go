package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/ladderflow/pkg/ladder"
)

// WriteRung encodes r as indented JSON.
func WriteRung(r *ladder.Rung, w io.Writer) error {
	return encode(r, w)
}

// WriteFlow encodes f as indented JSON.
func WriteFlow(f *ladder.Flow, w io.Writer) error {
	return encode(f, w)
}

// WriteProject encodes doc as indented JSON. The output can be read back
// with [ReadProject].
func WriteProject(doc *Document, w io.Writer) error {
	return encode(doc, w)
}

// ExportProject writes doc to a file at path.
func ExportProject(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteProject(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encode(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
