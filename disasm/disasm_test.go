package disasm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertexdlt/wasmdec/wasmfmt"
)

func addModule() *wasmfmt.Module {
	return &wasmfmt.Module{
		Types: []wasmfmt.FuncType{
			{Params: []wasmfmt.ValueType{wasmfmt.ValueTypeI32, wasmfmt.ValueTypeI32}, HasReturn: true, ReturnType: wasmfmt.ValueTypeI32},
		},
		FuncSec: []uint32{0},
		Exports: []wasmfmt.Export{{Name: "add", Kind: wasmfmt.ExportKindFunction, Index: 0}},
		Codes: []wasmfmt.Function{
			{TypeIndex: 0, Body: []byte{0x20, 0x00, 0x20, 0x01, 0x6A}},
		},
	}
}

func TestDisassembleAllBasic(t *testing.T) {
	p, err := DisassembleAll(addModule())
	require.NoError(t, err)
	require.Len(t, p.Functions, 1)
	fn := p.Functions[0]
	require.Equal(t, "fun_00000000", fn.Name)
	require.Equal(t, "add", fn.ExportedName)
	require.Len(t, fn.Params, 2)
	require.Equal(t, "par0", fn.Params[0].Name)
	require.Equal(t, "par1", fn.Params[1].Name)
	require.Equal(t, uint32(0), p.RealFuncOffset())
}

func TestImportedFunctionOffset(t *testing.T) {
	m := addModule()
	m.Imports = []wasmfmt.Import{
		{Module: "env", Field: "log", Kind: wasmfmt.ImportKindFunction, TypeIndex: 0},
	}
	p, err := DisassembleAll(m)
	require.NoError(t, err)
	require.Len(t, p.Functions, 2)
	require.Equal(t, uint32(1), p.RealFuncOffset())
	require.Equal(t, "$imp_env.log", p.Functions[0].Name)
	require.True(t, p.Functions[0].IsImport())
	require.Equal(t, "fun_00000001", p.Functions[1].Name)
	require.Equal(t, uint32(1), p.Functions[1].Index)
}

func TestGlobalDecode(t *testing.T) {
	m := &wasmfmt.Module{
		Globals: []wasmfmt.GlobalInit{
			{
				Type: wasmfmt.GlobalType{ValueType: wasmfmt.ValueTypeI32, Mutable: true},
				Init: []byte{0x41, 0x80, 0x08, 0x0B}, // i32.const 1024, end
			},
		},
	}
	p, err := Disassemble(m)
	require.NoError(t, err)
	require.Len(t, p.Globals, 1)
	require.Equal(t, "global_0", p.Globals[0].Name)
	require.Equal(t, "1024", p.Globals[0].Value)
	require.False(t, p.Globals[0].IsConst)
}

func TestDataStreamRoundTrip(t *testing.T) {
	m := &wasmfmt.Module{
		Datas: []wasmfmt.Data{
			{OffsetExpr: []byte{0x41, 0x00, 0x0B}, Payload: []byte("hello\x00")},
		},
	}
	p := &Program{}
	ranges, err := p.CreateDataStream(m)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	got, err := p.DataAt(ranges[0].Start, ranges[0].End)
	require.NoError(t, err)
	require.Equal(t, []byte("hello\x00"), got)
}

func TestReadableDataInfoAnsi(t *testing.T) {
	m := &wasmfmt.Module{
		Datas: []wasmfmt.Data{
			{OffsetExpr: []byte{0x41, 0x00, 0x0B}, Payload: []byte("hello\x00")},
		},
	}
	p := &Program{}
	_, err := p.CreateDataStream(m)
	require.NoError(t, err)
	s, err := p.ReadableDataInfo(0)
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}

func TestReadableDataInfoHex(t *testing.T) {
	m := &wasmfmt.Module{
		Datas: []wasmfmt.Data{
			{OffsetExpr: []byte{0x41, 0x00, 0x0B}, Payload: []byte{0x01, 0x02, 0x00, 0x00}},
		},
	}
	p := &Program{}
	_, err := p.CreateDataStream(m)
	require.NoError(t, err)
	s, err := p.ReadableDataInfo(0)
	require.NoError(t, err)
	require.Regexp(t, "h$", s)
}

func TestReadableDataInfoRequiresStream(t *testing.T) {
	p := &Program{}
	_, err := p.ReadableDataInfo(0)
	require.ErrorIs(t, err, ErrNoDataStream)
}
