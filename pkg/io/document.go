package io

import (
	"github.com/matzehuels/ladderflow/pkg/ladder"
	"github.com/matzehuels/ladderflow/pkg/plc"
	"github.com/matzehuels/ladderflow/pkg/store"
)

// Document is a project together with its ladder flows.
type Document struct {
	plc.Project
	LadderFlows []*ladder.Flow `json:"ladderFlows"`
}

// NewDocument assembles a document from p and the flows held by s, in
// store order. A nil store yields a document without flows.
func NewDocument(p plc.Project, s *store.Store) *Document {
	doc := &Document{Project: p}
	if s != nil {
		doc.LadderFlows = s.Flows()
	}
	return doc
}

// Flow returns the ladder flow of the named POU.
func (d *Document) Flow(name string) (*ladder.Flow, bool) {
	for _, f := range d.LadderFlows {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// LoadInto replaces the flows of s with the flows of d.
func (d *Document) LoadInto(s *store.Store) {
	s.ClearFlows()
	for _, f := range d.LadderFlows {
		s.AddFlow(f)
	}
}
