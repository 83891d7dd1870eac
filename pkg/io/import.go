package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/ladderflow/pkg/errors"
	"github.com/matzehuels/ladderflow/pkg/ladder"
	"github.com/matzehuels/ladderflow/pkg/plc"
)

// ReadRung decodes and validates a single rung. ReadRung does not close r.
func ReadRung(r io.Reader) (*ladder.Rung, error) {
	var rung ladder.Rung
	if err := json.NewDecoder(r).Decode(&rung); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode rung")
	}
	if err := ladder.Validate(&rung); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRung, err, "rung %s", rung.ID)
	}
	return &rung, nil
}

// ReadFlow decodes a flow and validates each of its rungs.
func ReadFlow(r io.Reader) (*ladder.Flow, error) {
	var f ladder.Flow
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode flow")
	}
	if err := validateFlow(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFlow, err, "flow %s", f.Name)
	}
	return &f, nil
}

// ReadProject decodes a project document and validates it: POU names must
// be unique identifiers, every flow must belong to a ladder POU, and every
// rung must be well formed.
func ReadProject(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode project")
	}
	if err := ValidateProject(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "project %s", doc.Name)
	}
	return &doc, nil
}

// ImportProject reads a project document from the file at path.
func ImportProject(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadProject(f)
}

// ValidateProject reports every structural problem of doc, joined.
func ValidateProject(doc *Document) error {
	var errs []error
	seen := make(map[string]bool, len(doc.POUs))
	for _, p := range doc.POUs {
		if err := errors.ValidateIdentifier(p.Name); err != nil {
			errs = append(errs, fmt.Errorf("pou %q: %w", p.Name, err))
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("pou %q: duplicate name", p.Name))
		}
		seen[p.Name] = true
	}

	flows := make(map[string]bool, len(doc.LadderFlows))
	for i, f := range doc.LadderFlows {
		if f == nil {
			errs = append(errs, fmt.Errorf("flow %d is null", i))
			continue
		}
		if flows[f.Name] {
			errs = append(errs, fmt.Errorf("flow %q: duplicate flow", f.Name))
		}
		flows[f.Name] = true

		p, ok := doc.POU(f.Name)
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("flow %q: no such pou", f.Name))
		case p.Language != plc.LangLD:
			errs = append(errs, fmt.Errorf("flow %q: pou language is %s, not ld", f.Name, p.Language))
		}
		if err := validateFlow(f); err != nil {
			errs = append(errs, fmt.Errorf("flow %q: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

func validateFlow(f *ladder.Flow) error {
	var errs []error
	ids := make(map[string]bool, len(f.Rungs))
	for _, r := range f.Rungs {
		if r == nil {
			errs = append(errs, fmt.Errorf("null rung"))
			continue
		}
		if ids[r.ID] {
			errs = append(errs, fmt.Errorf("rung %s: duplicate rung ID", r.ID))
		}
		ids[r.ID] = true
		if err := ladder.Validate(r); err != nil {
			errs = append(errs, fmt.Errorf("rung %s: %w", r.ID, err))
		}
	}
	return errors.Join(errs...)
}
