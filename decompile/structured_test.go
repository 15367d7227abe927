package decompile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertexdlt/wasmdec/wasmfmt"
	"github.com/vertexdlt/wasmdec/xref"
)

func TestStructuredExportedAdd(t *testing.T) {
	m := &wasmfmt.Module{
		Types:   []wasmfmt.FuncType{i32Type(true, 2)},
		FuncSec: []uint32{0},
		Exports: []wasmfmt.Export{{Name: "add", Kind: wasmfmt.ExportKindFunction, Index: 0}},
		Codes: []wasmfmt.Function{
			{TypeIndex: 0, Body: []byte{0x20, 0x00, 0x20, 0x01, 0x6A, 0x0B}},
		},
	}
	p := mustDisassemble(t, m)

	out, err := NewStructuredRenderer(nil).Render(p)
	require.NoError(t, err)
	require.Contains(t, out, "return (par0 + par1);")
}

func TestStructuredLoopBrIf(t *testing.T) {
	m := &wasmfmt.Module{
		Types:   []wasmfmt.FuncType{{HasReturn: false, Params: []wasmfmt.ValueType{wasmfmt.ValueTypeI32}}},
		FuncSec: []uint32{0},
		Codes: []wasmfmt.Function{
			{TypeIndex: 0, Body: []byte{0x03, 0x40, 0x20, 0x00, 0x0D, 0x00, 0x0B, 0x0B}},
		},
	}
	p := mustDisassemble(t, m)

	out, err := NewStructuredRenderer(nil).Render(p)
	require.NoError(t, err)
	require.Contains(t, out, "while (true) {")
	require.Contains(t, out, "if (par0) continue loop_0;")
	require.Contains(t, out, "break loop_0;")
}

func TestStructuredSelect(t *testing.T) {
	m := &wasmfmt.Module{
		Types:   []wasmfmt.FuncType{i32Type(true, 0)},
		FuncSec: []uint32{0},
		Codes: []wasmfmt.Function{
			{TypeIndex: 0, Body: []byte{0x41, 0x01, 0x41, 0x02, 0x41, 0x00, 0x1B, 0x0B}},
		},
	}
	p := mustDisassemble(t, m)

	out, err := NewStructuredRenderer(nil).Render(p)
	require.NoError(t, err)
	// Push order is 1, 2, 0 (cond on top); select's order artifact renders
	// cond ? val2 : val1.
	require.Contains(t, out, "return (0 ? 2 : 1);")
}

func TestStructuredInvalidOpcode(t *testing.T) {
	m := &wasmfmt.Module{
		Types:   []wasmfmt.FuncType{i32Type(false, 0)},
		FuncSec: []uint32{0},
		Codes: []wasmfmt.Function{
			{TypeIndex: 0, Body: []byte{0xFF, 0x0B}},
		},
	}
	p := mustDisassemble(t, m)

	_, err := NewStructuredRenderer(nil).Render(p)
	require.ErrorIs(t, err, ErrInvalidOpcode)
}

func TestStructuredCallRecordsXref(t *testing.T) {
	m := &wasmfmt.Module{
		Types:   []wasmfmt.FuncType{i32Type(false, 0), i32Type(true, 0)},
		FuncSec: []uint32{0, 1},
		Codes: []wasmfmt.Function{
			{TypeIndex: 0, Body: []byte{0x10, 0x01, 0x1A, 0x0B}},
			{TypeIndex: 1, Body: []byte{0x41, 0x2A, 0x0B}},
		},
	}
	p := mustDisassemble(t, m)

	tr := xref.NewTracker()
	out, err := NewStructuredRenderer(tr).Render(p)
	require.NoError(t, err)
	require.Contains(t, out, "fun_00000001();")
	require.Len(t, tr.Edges(), 1)
}
