// Package wasmfmt parses a WebAssembly MVP binary module into the raw,
// section-shaped form spec.md §3 calls the Module: magic/version checked,
// every section decoded into typed Go structures, nothing lifted or
// resolved yet. That lifting is the disasm package's job.
package wasmfmt

// Magic is the 4-byte Wasm magic number ('\0asm'), read little-endian.
const Magic uint32 = 0x6d736100

// Version is the only Wasm binary format version this parser accepts.
const Version uint32 = 0x1

// ValueType is a tagged Wasm value type. Void has no wire representation —
// it is synthetic, used to mark a function or block with no result.
type ValueType int8

// Wire byte values for ValueType, per spec.md §3.
const (
	ValueTypeF64        ValueType = 0x7C
	ValueTypeF32        ValueType = 0x7D
	ValueTypeI64        ValueType = 0x7E
	ValueTypeI32        ValueType = 0x7F
	ValueTypeAnyFunc    ValueType = 0x70
	ValueTypeFunc       ValueType = 0x60
	ValueTypeEmptyBlock ValueType = 0x40
	// ValueTypeVoid is synthetic; it never appears on the wire.
	ValueTypeVoid ValueType = 0
)

func (vt ValueType) String() string {
	switch vt {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	case ValueTypeAnyFunc:
		return "anyfunc"
	case ValueTypeFunc:
		return "func"
	case ValueTypeEmptyBlock:
		return "emptyblock"
	case ValueTypeVoid:
		return "void"
	default:
		return "unknown"
	}
}

// SectionID identifies one of the twelve Wasm MVP sections by its standard
// numeric id.
type SectionID byte

// Section ids, per spec.md §3.
const (
	SectionCustom SectionID = iota
	SectionType
	SectionImport
	SectionFunction
	SectionTable
	SectionMemory
	SectionGlobal
	SectionExport
	SectionStart
	SectionElement
	SectionCode
	SectionData
)

// Import kinds, per spec.md §3 / §4.2.
const (
	ImportKindFunction byte = 0x00
	ImportKindTable    byte = 0x01
	ImportKindMemory   byte = 0x02
	ImportKindGlobal   byte = 0x03
)

// Export kinds mirror the Import kinds.
const (
	ExportKindFunction byte = 0x00
	ExportKindTable    byte = 0x01
	ExportKindMemory   byte = 0x02
	ExportKindGlobal   byte = 0x03
)

// FuncType is a function signature: zero or more parameters, optionally one
// return value.
type FuncType struct {
	Params     []ValueType
	HasReturn  bool
	ReturnType ValueType
}

// ResizableLimits bounds a Table or Memory. Maximum is only valid when
// HasMax is set.
type ResizableLimits struct {
	HasMax  bool
	Initial uint32
	Maximum uint32
}

// TableType describes an imported or declared table (funcref-only in MVP).
type TableType struct {
	ElemType byte
	Limits   ResizableLimits
}

// MemType describes an imported or declared linear memory.
type MemType struct {
	Limits ResizableLimits
}

// GlobalType describes a global's value type and mutability.
type GlobalType struct {
	ValueType ValueType
	Mutable   bool
}

// Import is one entry of the Import section: a module/field pair naming an
// external dependency of exactly one kind.
type Import struct {
	Module     string
	Field      string
	Kind       byte
	TypeIndex  uint32
	Table      *TableType
	Mem        *MemType
	GlobalType *GlobalType
}

// GlobalInit is a Global section entry: its declared type plus the raw
// bytes of its init expression (terminated by 0x0B).
type GlobalInit struct {
	Type GlobalType
	Init []byte
}

// LocalEntry groups a run of locals of the same type, as the Code section
// encodes them.
type LocalEntry struct {
	Count     uint32
	ValueType ValueType
}

// Function is a raw Code section entry, paired with the type index that
// names its signature in the Function section.
type Function struct {
	TypeIndex uint32
	Locals    []LocalEntry
	Body      []byte
}

// Export is one entry of the Export section.
type Export struct {
	Name  string
	Kind  byte
	Index uint32
}

// ElementSegment is one entry of the Element section — spec.md's Non-goals
// and §9 restrict this parser to honoring the first one only, downstream in
// disasm.
type ElementSegment struct {
	TableIndex uint32
	OffsetExpr []byte
	Elems      []uint32
}

// Data is one entry of the Data section.
type Data struct {
	MemIndex   uint32
	OffsetExpr []byte
	Payload    []byte
}

// Module is the complete set of raw, section-shaped Wasm module contents.
type Module struct {
	Version uint32

	Types    []FuncType
	Imports  []Import
	FuncSec  []uint32 // type indices, one per code-section function
	Tables   []TableType
	Mems     []MemType
	Globals  []GlobalInit
	Exports  []Export
	HasStart bool
	Start    uint32
	Elements []ElementSegment
	Codes    []Function
	Datas    []Data
}
