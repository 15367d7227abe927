// Package disasm lowers a wasmfmt.Module's raw sections into named, typed
// entities: functions with imports prepended, globals with decoded
// initializers, a single merged data image, and the table built from the
// first Element segment. This is spec.md's stage (b), consumed by the two
// decompile renderers.
package disasm

import "github.com/vertexdlt/wasmdec/wasmfmt"

// Local is one parameter or true local of a lifted Function.
type Local struct {
	Name        string
	Type        wasmfmt.ValueType
	IsParameter bool
}

// Function is the lifted form of a Wasm function: either an import (no
// Body) or a code-section function, addressed by its global index (which
// already accounts for imported functions preceding it).
type Function struct {
	Name         string
	ReturnType   wasmfmt.ValueType
	HasReturn    bool
	Index        uint32
	Params       []Local
	Locals       []Local // true locals only; Params holds the parameters
	Body         []byte  // nil for imports
	ExportedName string  // "" if not exported
	Xrefs        []CrossReference
}

// AllLocals returns parameters followed by true locals, in declaration
// order — the numbering callers see in get_local/set_local/tee_local.
func (f *Function) AllLocals() []Local {
	all := make([]Local, 0, len(f.Params)+len(f.Locals))
	all = append(all, f.Params...)
	all = append(all, f.Locals...)
	return all
}

// IsImport reports whether this function has no body (i.e. came from the
// Import section rather than the Code section).
func (f *Function) IsImport() bool {
	return f.Body == nil
}

// Global is the lifted form of a Wasm global: a rendered decimal value (the
// raw bit pattern, per spec.md §4.3 — floats are not converted to their
// float value for display), a type name, and whether it's immutable.
type Global struct {
	Name    string
	Value   string
	Type    wasmfmt.ValueType
	IsConst bool
}

// AddressRange is a half-open [Start, End) byte range within the merged
// data image, one per Data segment.
type AddressRange struct {
	Start uint32
	End   uint32
}

// Contains reports whether offset falls within this range.
func (a AddressRange) Contains(offset uint32) bool {
	return offset >= a.Start && offset < a.End
}

// FunctionRef names a call target by its global function index.
type FunctionRef struct {
	Index uint32
}

// CrossReference is a directed edge between two functions recording a call
// relation, per spec.md's glossary.
type CrossReference struct {
	DirectionDown bool
	IsDestination bool
	Offset        uint32
	Target        FunctionRef
}

// Program is the complete lifted form of a Wasm module: every Function
// (imports first), every Global, copied Types, the single-segment Table
// image, and (once CreateDataStream has run) the merged data image.
type Program struct {
	Types     []wasmfmt.FuncType
	Functions []Function
	Globals   []Global
	Table     []uint32

	realFuncOffset uint32 // count of Function-kind imports

	dataImage  []byte
	dataRanges []AddressRange
	hasStream  bool
}

// RealFuncOffset is the count of imported functions — the boundary between
// imported and code-section function indices.
func (p *Program) RealFuncOffset() uint32 {
	return p.realFuncOffset
}

// GetFunction returns the function at the given global index, or nil.
func (p *Program) GetFunction(i uint32) *Function {
	if i >= uint32(len(p.Functions)) {
		return nil
	}
	return &p.Functions[i]
}
