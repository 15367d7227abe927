package decompile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertexdlt/wasmdec/disasm"
	"github.com/vertexdlt/wasmdec/wasmfmt"
)

func mustDisassemble(t *testing.T, m *wasmfmt.Module) *disasm.Program {
	t.Helper()
	p, err := disasm.DisassembleAll(m)
	require.NoError(t, err)
	return p
}

func i32Type(hasReturn bool, nParams int) wasmfmt.FuncType {
	ft := wasmfmt.FuncType{ReturnType: wasmfmt.ValueTypeI32, HasReturn: hasReturn}
	for i := 0; i < nParams; i++ {
		ft.Params = append(ft.Params, wasmfmt.ValueTypeI32)
	}
	return ft
}

func TestFlatExportedAdd(t *testing.T) {
	m := &wasmfmt.Module{
		Types:   []wasmfmt.FuncType{i32Type(true, 2)},
		FuncSec: []uint32{0},
		Exports: []wasmfmt.Export{{Name: "add", Kind: wasmfmt.ExportKindFunction, Index: 0}},
		Codes: []wasmfmt.Function{
			{TypeIndex: 0, Body: []byte{0x20, 0x00, 0x20, 0x01, 0x6A, 0x0B}},
		},
	}
	p := mustDisassemble(t, m)

	out, err := NewFlatRenderer(nil).Render(p)
	require.NoError(t, err)

	require.Contains(t, out, "get_local par0")
	require.Contains(t, out, "get_local par1")
	require.Contains(t, out, "i32.add")
	require.NotContains(t, out, "\tend")
}

func TestFlatGlobalLoad(t *testing.T) {
	m := &wasmfmt.Module{
		Types:   []wasmfmt.FuncType{i32Type(true, 0)},
		FuncSec: []uint32{0},
		Globals: []wasmfmt.GlobalInit{
			{Type: wasmfmt.GlobalType{ValueType: wasmfmt.ValueTypeI32, Mutable: false}, Init: []byte{0x41, 0x80, 0x08, 0x0B}},
		},
		Codes: []wasmfmt.Function{
			{TypeIndex: 0, Body: []byte{0x23, 0x00, 0x28, 0x02, 0x00, 0x0B}},
		},
	}
	p := mustDisassemble(t, m)

	out, err := NewFlatRenderer(nil).Render(p)
	require.NoError(t, err)
	require.Contains(t, out, "const int global_0 = 1024")
	require.Contains(t, out, "get_global global_0")
	require.Contains(t, out, "i32.load 00000000h [align=2]")
}

func TestFlatLoopBrIf(t *testing.T) {
	m := &wasmfmt.Module{
		Types:   []wasmfmt.FuncType{{HasReturn: false, Params: []wasmfmt.ValueType{wasmfmt.ValueTypeI32}}},
		FuncSec: []uint32{0},
		Codes: []wasmfmt.Function{
			{TypeIndex: 0, Body: []byte{0x03, 0x40, 0x20, 0x00, 0x0D, 0x00, 0x0B, 0x0B}},
		},
	}
	p := mustDisassemble(t, m)

	out, err := NewFlatRenderer(nil).Render(p)
	require.NoError(t, err)
	require.Contains(t, out, "loop")
	require.Contains(t, out, "br_if label_")
	require.Contains(t, out, "label_")
}

func TestFlatSelect(t *testing.T) {
	m := &wasmfmt.Module{
		Types:   []wasmfmt.FuncType{i32Type(true, 0)},
		FuncSec: []uint32{0},
		Codes: []wasmfmt.Function{
			{TypeIndex: 0, Body: []byte{0x41, 0x01, 0x41, 0x02, 0x41, 0x00, 0x1B, 0x0B}},
		},
	}
	p := mustDisassemble(t, m)

	out, err := NewFlatRenderer(nil).Render(p)
	require.NoError(t, err)
	require.Contains(t, out, "i32.const 1")
	require.Contains(t, out, "i32.const 2")
	require.Contains(t, out, "i32.const 0")
	require.Contains(t, out, "select")
}

func TestFlatInvalidOpcode(t *testing.T) {
	m := &wasmfmt.Module{
		Types:   []wasmfmt.FuncType{i32Type(false, 0)},
		FuncSec: []uint32{0},
		Codes: []wasmfmt.Function{
			{TypeIndex: 0, Body: []byte{0xFF, 0x0B}},
		},
	}
	p := mustDisassemble(t, m)

	_, err := NewFlatRenderer(nil).Render(p)
	require.ErrorIs(t, err, ErrInvalidOpcode)
}
