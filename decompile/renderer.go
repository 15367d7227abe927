// Package decompile turns a disassembled Program into source-like text.
// Two renderers share the opcode table in opcode.go: FlatRenderer emits
// one line per instruction with an explicit program counter, the way a
// traditional disassembly listing does; StructuredRenderer folds the
// operand stack into nested expressions and real block/loop/if control
// flow, the way a decompiler's pseudocode output does. Both record direct
// `call` edges into an *xref.Tracker when one is supplied; call_indirect
// edges are not recorded.
package decompile

import "github.com/vertexdlt/wasmdec/disasm"

// Renderer produces one rendering of an entire disassembled Program.
type Renderer interface {
	Render(p *disasm.Program) (string, error)
}

var (
	_ Renderer = (*FlatRenderer)(nil)
	_ Renderer = (*StructuredRenderer)(nil)
)
