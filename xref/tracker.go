// Package xref accumulates the cross-reference edges the decompile
// renderers discover while walking direct call instructions,
// per spec.md §4.6. It is a thin, append-ordered collaborator: neither
// renderer needs to look an edge back up mid-render, so Tracker never
// indexes by function, only records in the order instructions are seen.
package xref

import "github.com/vertexdlt/wasmdec/disasm"

// Edge is one recorded cross-reference, tagged with the caller that
// produced it.
type Edge struct {
	Caller uint32
	disasm.CrossReference
}

// Tracker is an in-memory, append-ordered list of call edges.
type Tracker struct {
	edges []Edge
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Record appends one edge.
func (t *Tracker) Record(caller uint32, ref disasm.CrossReference) {
	t.edges = append(t.edges, Edge{Caller: caller, CrossReference: ref})
}

// Edges returns every recorded edge, in recording order.
func (t *Tracker) Edges() []Edge {
	return t.edges
}

// CalleesOf returns every edge whose caller is fn, in recording order.
func (t *Tracker) CalleesOf(fn uint32) []Edge {
	var out []Edge
	for _, e := range t.edges {
		if e.Caller == fn {
			out = append(out, e)
		}
	}
	return out
}

// CallersOf returns every edge whose target is fn, in recording order.
func (t *Tracker) CallersOf(fn uint32) []Edge {
	var out []Edge
	for _, e := range t.edges {
		if e.Target.Index == fn {
			out = append(out, e)
		}
	}
	return out
}
