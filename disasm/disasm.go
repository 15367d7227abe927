package disasm

import (
	"fmt"

	"github.com/vertexdlt/wasmdec/reader"
	"github.com/vertexdlt/wasmdec/wasmfmt"
)

const (
	opI32Const  byte = 0x41
	opI64Const  byte = 0x42
	opF32Const  byte = 0x43
	opF64Const  byte = 0x44
	opGetGlobal byte = 0x23
	opEnd       byte = 0x0B
)

// Disassemble lowers a raw wasmfmt.Module into a Program, per spec.md §4.3:
// imported functions first (assigning indices 0..K-1), globals decoded,
// types copied, and the first Element segment collapsed into the table
// image. Code-section functions are not yet attached — use DisassembleAll,
// which does both in one step.
func Disassemble(m *wasmfmt.Module) (*Program, error) {
	p := &Program{Types: append([]wasmfmt.FuncType(nil), m.Types...)}

	if err := p.liftImportedFunctions(m); err != nil {
		return nil, err
	}
	if err := p.liftGlobals(m); err != nil {
		return nil, err
	}
	p.liftTable(m)

	return p, nil
}

// DisassembleAll clears any previously lifted code-section functions, then
// lifts the whole module (imports + code) in one call.
func DisassembleAll(m *wasmfmt.Module) (*Program, error) {
	p, err := Disassemble(m)
	if err != nil {
		return nil, err
	}
	if err := p.attachCodeFunctions(m); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Program) liftImportedFunctions(m *wasmfmt.Module) error {
	var funcImports []wasmfmt.Import
	for _, imp := range m.Imports {
		if imp.Kind == wasmfmt.ImportKindFunction {
			funcImports = append(funcImports, imp)
		}
	}
	p.realFuncOffset = uint32(len(funcImports))

	for i, imp := range funcImports {
		if int(imp.TypeIndex) >= len(p.Types) {
			return ErrInvalidTypeIndex
		}
		ft := p.Types[imp.TypeIndex]
		fn := Function{
			Name:       fmt.Sprintf("$imp_%s.%s", imp.Module, imp.Field),
			ReturnType: ft.ReturnType,
			HasReturn:  ft.HasReturn,
			Index:      uint32(i),
			Params:     paramsOf(ft),
		}
		p.Functions = append(p.Functions, fn)
	}
	return nil
}

func paramsOf(ft wasmfmt.FuncType) []Local {
	params := make([]Local, len(ft.Params))
	for i, t := range ft.Params {
		params[i] = Local{Name: fmt.Sprintf("par%d", i), Type: t, IsParameter: true}
	}
	return params
}

// attachCodeFunctions lifts every Code section entry into a Function at
// global index RealFuncOffset+n, computing its locals and export name.
func (p *Program) attachCodeFunctions(m *wasmfmt.Module) error {
	p.Functions = p.Functions[:p.realFuncOffset]

	exportedNames := make(map[uint32]string)
	for _, exp := range m.Exports {
		if exp.Kind == wasmfmt.ExportKindFunction {
			if _, ok := exportedNames[exp.Index]; !ok {
				exportedNames[exp.Index] = exp.Name
			}
		}
	}

	for n, code := range m.Codes {
		globalIdx := p.realFuncOffset + uint32(n)
		if int(code.TypeIndex) >= len(p.Types) {
			return ErrInvalidTypeIndex
		}
		ft := p.Types[code.TypeIndex]

		locals := make([]Local, 0)
		counter := 0
		for _, group := range code.Locals {
			for c := uint32(0); c < group.Count; c++ {
				locals = append(locals, Local{
					Name: fmt.Sprintf("local%d", counter),
					Type: group.ValueType,
				})
				counter++
			}
		}

		fn := Function{
			Name:       fmt.Sprintf("fun_%08X", globalIdx),
			ReturnType: ft.ReturnType,
			HasReturn:  ft.HasReturn,
			Index:      globalIdx,
			Params:     paramsOf(ft),
			Locals:     locals,
			Body:       code.Body,
		}
		if name, ok := exportedNames[globalIdx]; ok {
			fn.ExportedName = name
		}
		p.Functions = append(p.Functions, fn)
	}
	return nil
}

func (p *Program) liftGlobals(m *wasmfmt.Module) error {
	p.Globals = make([]Global, 0, len(m.Globals))
	for i, g := range m.Globals {
		value, err := decodeGlobalInit(g.Init, g.Type.ValueType)
		if err != nil {
			return err
		}
		p.Globals = append(p.Globals, Global{
			Name:    fmt.Sprintf("global_%d", i),
			Value:   value,
			Type:    g.Type.ValueType,
			IsConst: !g.Type.Mutable,
		})
	}
	return nil
}

// decodeGlobalInit reads a single `<type>.const <imm>` followed by `end`,
// per spec.md §4.3 step 2: integers are unsigned LEB, floats are raw bytes
// reinterpreted as an integer for display (not converted to a float value).
func decodeGlobalInit(init []byte, vt wasmfmt.ValueType) (string, error) {
	if len(init) == 0 {
		return "", ErrEmptyInitExpr
	}
	r := reader.New(init)
	op, err := r.ReadU8()
	if err != nil {
		return "", err
	}

	var bits uint64
	switch op {
	case opI32Const:
		v, err := r.ReadULEB32()
		if err != nil {
			return "", err
		}
		bits = uint64(v)
	case opI64Const:
		v, err := r.ReadULEB64()
		if err != nil {
			return "", err
		}
		bits = v
	case opF32Const:
		v, err := r.ReadU32()
		if err != nil {
			return "", err
		}
		bits = uint64(v)
	case opF64Const:
		v, err := r.ReadU64()
		if err != nil {
			return "", err
		}
		bits = v
	default:
		return "", ErrInvalidInitExprOp
	}
	_ = vt
	return fmt.Sprintf("%d", bits), nil
}

func (p *Program) liftTable(m *wasmfmt.Module) {
	if len(m.Elements) == 0 {
		return
	}
	// Only the first Element segment is honored; see spec.md §9.
	p.Table = append([]uint32(nil), m.Elements[0].Elems...)
}

// TypeName renders a ValueType the way the Flat/Structured renderers do.
func TypeName(vt wasmfmt.ValueType) string {
	switch vt {
	case wasmfmt.ValueTypeI32:
		return "int"
	case wasmfmt.ValueTypeI64:
		return "long long"
	case wasmfmt.ValueTypeF32:
		return "float"
	case wasmfmt.ValueTypeF64:
		return "double"
	default:
		return "void"
	}
}

// NumericClass is the host-language numeric class a ValueType maps to,
// used by the renderers to decide how to fold and format constants.
type NumericClass int

const (
	NumericInt32 NumericClass = iota
	NumericInt64
	NumericFloat32
	NumericFloat64
	NumericNone
)

// TypeEquivalent maps a ValueType to its NumericClass.
func TypeEquivalent(vt wasmfmt.ValueType) NumericClass {
	switch vt {
	case wasmfmt.ValueTypeI32:
		return NumericInt32
	case wasmfmt.ValueTypeI64:
		return NumericInt64
	case wasmfmt.ValueTypeF32:
		return NumericFloat32
	case wasmfmt.ValueTypeF64:
		return NumericFloat64
	default:
		return NumericNone
	}
}
