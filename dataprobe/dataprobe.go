// Package dataprobe exposes the data-image lookups spec.md §2 names as a
// separate external collaborator from the Disassembler, even though the
// merged image itself lives on disasm.Program. Kept as its own boundary so
// callers that only need "what's the string at this offset" don't have to
// depend on the full disassembly surface.
package dataprobe

import "github.com/vertexdlt/wasmdec/disasm"

// Probe answers data-image questions about one already-disassembled
// Program.
type Probe struct {
	program *disasm.Program
}

// New wraps p. CreateDataStream must already have been called on p.
func New(p *disasm.Program) *Probe {
	return &Probe{program: p}
}

// StringAt returns the most plausible textual rendering of the data image
// at offset (ANSI string, then UTF-16, then a raw hex integer).
func (pr *Probe) StringAt(offset uint32) (string, error) {
	return pr.program.ReadableDataInfo(offset)
}

// RangeFor reports which Data segment, if any, contains offset.
func (pr *Probe) RangeFor(offset uint32) (disasm.AddressRange, bool) {
	return pr.program.RangeForOffset(offset)
}

// Bytes returns the raw merged-image bytes in [start, end).
func (pr *Probe) Bytes(start, end uint32) ([]byte, error) {
	return pr.program.DataAt(start, end)
}

// Guess is the package-level form of StringAt, for callers that already
// hold a *disasm.Program and don't want to wrap it in a Probe first.
func Guess(program *disasm.Program, offset uint32) (string, error) {
	return program.ReadableDataInfo(offset)
}
