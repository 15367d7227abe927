package wasmfmt

import (
	"unicode/utf8"

	"github.com/vertexdlt/wasmdec/reader"
)

// ParseModule reads the magic number, version, and every section of a Wasm
// MVP binary, returning the raw Module. It fails fast on a bad magic number,
// an unknown section id, an unknown import kind, or a truncated payload —
// matching spec.md §4.2.
func ParseModule(b []byte) (*Module, error) {
	r := reader.New(b)

	magic, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, ErrInvalidModule
	}

	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, ErrInvalidModule
	}

	m := &Module{Version: version}
	var lastID SectionID
	seenNonCustom := false
	for r.Remaining() > 0 {
		idByte, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		id := SectionID(idByte)

		if id != SectionCustom {
			if seenNonCustom && lastID >= id {
				return nil, ErrSectionOutOfOrder
			}
			lastID = id
			seenNonCustom = true
		}

		payloadLen, err := r.ReadULEB32()
		if err != nil {
			return nil, err
		}
		payloadStart := r.Pos()
		if err := parseSection(m, r, id); err != nil {
			return nil, err
		}
		// Whatever wasn't consumed (e.g. a Custom section's contents, which
		// we never inspect) is skipped here by seeking to the declared end.
		end := payloadStart + uint64(payloadLen)
		if err := r.Seek(int64(end), reader.SeekBegin); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func parseSection(m *Module, r *reader.Reader, id SectionID) error {
	switch id {
	case SectionCustom:
		return nil // payload skipped by the caller's seek-to-end
	case SectionType:
		return parseTypeSection(m, r)
	case SectionImport:
		return parseImportSection(m, r)
	case SectionFunction:
		return parseFunctionSection(m, r)
	case SectionTable:
		return parseTableSection(m, r)
	case SectionMemory:
		return parseMemorySection(m, r)
	case SectionGlobal:
		return parseGlobalSection(m, r)
	case SectionExport:
		return parseExportSection(m, r)
	case SectionStart:
		return parseStartSection(m, r)
	case SectionElement:
		return parseElementSection(m, r)
	case SectionCode:
		return parseCodeSection(m, r)
	case SectionData:
		return parseDataSection(m, r)
	default:
		return ErrInvalidSectionID
	}
}

func readValueType(r *reader.Reader) (ValueType, error) {
	b, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	switch ValueType(b) {
	case ValueTypeI32, ValueTypeI64, ValueTypeF32, ValueTypeF64:
		return ValueType(b), nil
	default:
		return 0, ErrInvalidValueType
	}
}

func readBlockType(r *reader.Reader) (ValueType, error) {
	b, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	if ValueType(b) == ValueTypeEmptyBlock {
		return ValueTypeEmptyBlock, nil
	}
	switch ValueType(b) {
	case ValueTypeI32, ValueTypeI64, ValueTypeF32, ValueTypeF64:
		return ValueType(b), nil
	default:
		return 0, ErrInvalidValueType
	}
}

func readName(r *reader.Reader) (string, error) {
	n, err := r.ReadULEB32()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(uint64(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8Name
	}
	return string(b), nil
}

func readLimits(r *reader.Reader) (ResizableLimits, error) {
	var l ResizableLimits
	flag, err := r.ReadU8()
	if err != nil {
		return l, err
	}
	switch flag {
	case 0x00:
		l.HasMax = false
		l.Initial, err = r.ReadULEB32()
	case 0x01:
		l.HasMax = true
		if l.Initial, err = r.ReadULEB32(); err != nil {
			return l, err
		}
		l.Maximum, err = r.ReadULEB32()
	default:
		return l, ErrInvalidLimitsFlag
	}
	return l, err
}

func readElemType(r *reader.Reader) (byte, error) {
	b, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	// MVP only supports funcref.
	if b != ValueTypeAnyFunc.wireByte() {
		return 0, ErrInvalidElemType
	}
	return b, nil
}

func (vt ValueType) wireByte() byte { return byte(vt) }

func readGlobalType(r *reader.Reader) (GlobalType, error) {
	var gt GlobalType
	vt, err := readValueType(r)
	if err != nil {
		return gt, err
	}
	mutByte, err := r.ReadU8()
	if err != nil {
		return gt, err
	}
	if mutByte != 0x00 && mutByte != 0x01 {
		return gt, ErrInvalidMutFlag
	}
	gt.ValueType = vt
	gt.Mutable = mutByte == 0x01
	return gt, nil
}

// readExprs reads raw init-expression bytes up to and including the
// terminating 0x0B (`end`).
func readExprs(r *reader.Reader) ([]byte, error) {
	var exprs []byte
	for {
		b, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, b)
		if b == 0x0B {
			break
		}
	}
	return exprs, nil
}

func parseTypeSection(m *Module, r *reader.Reader) error {
	count, err := r.ReadULEB32()
	if err != nil {
		return err
	}
	m.Types = make([]FuncType, count)
	for i := uint32(0); i < count; i++ {
		form, err := r.ReadU8()
		if err != nil {
			return err
		}
		if form != byte(ValueTypeFunc) {
			return ErrInvalidFuncForm
		}

		paramCount, err := r.ReadULEB32()
		if err != nil {
			return err
		}
		params := make([]ValueType, paramCount)
		for j := uint32(0); j < paramCount; j++ {
			if params[j], err = readValueType(r); err != nil {
				return err
			}
		}

		retCount, err := r.ReadULEB32()
		if err != nil {
			return err
		}
		var hasReturn bool
		var retType ValueType
		if retCount == 1 {
			hasReturn = true
			if retType, err = readValueType(r); err != nil {
				return err
			}
		}

		m.Types[i] = FuncType{Params: params, HasReturn: hasReturn, ReturnType: retType}
	}
	return nil
}

func parseImportSection(m *Module, r *reader.Reader) error {
	count, err := r.ReadULEB32()
	if err != nil {
		return err
	}
	m.Imports = make([]Import, count)
	for i := uint32(0); i < count; i++ {
		var imp Import
		if imp.Module, err = readName(r); err != nil {
			return err
		}
		if imp.Field, err = readName(r); err != nil {
			return err
		}
		kind, err := r.ReadU8()
		if err != nil {
			return err
		}
		imp.Kind = kind
		switch kind {
		case ImportKindFunction:
			imp.TypeIndex, err = r.ReadULEB32()
		case ImportKindTable:
			var t TableType
			if t.ElemType, err = readElemType(r); err != nil {
				break
			}
			t.Limits, err = readLimits(r)
			imp.Table = &t
		case ImportKindMemory:
			var mem MemType
			mem.Limits, err = readLimits(r)
			imp.Mem = &mem
		case ImportKindGlobal:
			var gt GlobalType
			gt, err = readGlobalType(r)
			imp.GlobalType = &gt
		default:
			return ErrInvalidImportKind
		}
		if err != nil {
			return err
		}
		m.Imports[i] = imp
	}
	return nil
}

func parseFunctionSection(m *Module, r *reader.Reader) error {
	count, err := r.ReadULEB32()
	if err != nil {
		return err
	}
	m.FuncSec = make([]uint32, count)
	for i := uint32(0); i < count; i++ {
		if m.FuncSec[i], err = r.ReadULEB32(); err != nil {
			return err
		}
	}
	return nil
}

func parseTableSection(m *Module, r *reader.Reader) error {
	count, err := r.ReadULEB32()
	if err != nil {
		return err
	}
	m.Tables = make([]TableType, count)
	for i := uint32(0); i < count; i++ {
		if m.Tables[i].ElemType, err = readElemType(r); err != nil {
			return err
		}
		if m.Tables[i].Limits, err = readLimits(r); err != nil {
			return err
		}
	}
	return nil
}

func parseMemorySection(m *Module, r *reader.Reader) error {
	count, err := r.ReadULEB32()
	if err != nil {
		return err
	}
	m.Mems = make([]MemType, count)
	for i := uint32(0); i < count; i++ {
		if m.Mems[i].Limits, err = readLimits(r); err != nil {
			return err
		}
	}
	return nil
}

func parseGlobalSection(m *Module, r *reader.Reader) error {
	count, err := r.ReadULEB32()
	if err != nil {
		return err
	}
	m.Globals = make([]GlobalInit, count)
	for i := uint32(0); i < count; i++ {
		if m.Globals[i].Type, err = readGlobalType(r); err != nil {
			return err
		}
		if m.Globals[i].Init, err = readExprs(r); err != nil {
			return err
		}
	}
	return nil
}

func parseExportSection(m *Module, r *reader.Reader) error {
	count, err := r.ReadULEB32()
	if err != nil {
		return err
	}
	m.Exports = make([]Export, count)
	for i := uint32(0); i < count; i++ {
		var e Export
		if e.Name, err = readName(r); err != nil {
			return err
		}
		kind, err := r.ReadU8()
		if err != nil {
			return err
		}
		switch kind {
		case ExportKindFunction, ExportKindTable, ExportKindMemory, ExportKindGlobal:
		default:
			return ErrInvalidExportKind
		}
		e.Kind = kind
		if e.Index, err = r.ReadULEB32(); err != nil {
			return err
		}
		m.Exports[i] = e
	}
	return nil
}

func parseStartSection(m *Module, r *reader.Reader) error {
	idx, err := r.ReadULEB32()
	if err != nil {
		return err
	}
	m.HasStart = true
	m.Start = idx
	return nil
}

func parseElementSection(m *Module, r *reader.Reader) error {
	count, err := r.ReadULEB32()
	if err != nil {
		return err
	}
	m.Elements = make([]ElementSegment, count)
	for i := uint32(0); i < count; i++ {
		var seg ElementSegment
		if seg.TableIndex, err = r.ReadULEB32(); err != nil {
			return err
		}
		if seg.OffsetExpr, err = readExprs(r); err != nil {
			return err
		}
		elemCount, err := r.ReadULEB32()
		if err != nil {
			return err
		}
		seg.Elems = make([]uint32, elemCount)
		for j := uint32(0); j < elemCount; j++ {
			if seg.Elems[j], err = r.ReadULEB32(); err != nil {
				return err
			}
		}
		m.Elements[i] = seg
	}
	return nil
}

func parseCodeSection(m *Module, r *reader.Reader) error {
	count, err := r.ReadULEB32()
	if err != nil {
		return err
	}
	m.Codes = make([]Function, count)
	for i := uint32(0); i < count; i++ {
		bodySize, err := r.ReadULEB32()
		if err != nil {
			return err
		}
		bodyEnd := r.Pos() + uint64(bodySize)

		cursorBeforeLocals := r.Pos()
		localCount, err := r.ReadULEB32()
		if err != nil {
			return err
		}
		locals := make([]LocalEntry, localCount)
		for j := uint32(0); j < localCount; j++ {
			if locals[j].Count, err = r.ReadULEB32(); err != nil {
				return err
			}
			if locals[j].ValueType, err = readValueType(r); err != nil {
				return err
			}
		}
		cursorAfterLocals := r.Pos()
		codeLen := uint64(bodySize) - (cursorAfterLocals - cursorBeforeLocals)
		body, err := r.ReadBytes(codeLen)
		if err != nil {
			return err
		}
		// The trailing 0x0B `end` closing the function's implicit outer
		// block stays in Body: decompile tracks block nesting itself, and
		// needs that byte to tell the function's true terminal end apart
		// from an inner block's own end.
		var typeIdx uint32
		if int(i) < len(m.FuncSec) {
			typeIdx = m.FuncSec[i]
		}
		m.Codes[i] = Function{TypeIndex: typeIdx, Locals: locals, Body: body}
		if err := r.Seek(int64(bodyEnd), reader.SeekBegin); err != nil {
			return err
		}
	}
	return nil
}

func parseDataSection(m *Module, r *reader.Reader) error {
	count, err := r.ReadULEB32()
	if err != nil {
		return err
	}
	m.Datas = make([]Data, count)
	for i := uint32(0); i < count; i++ {
		var d Data
		if d.MemIndex, err = r.ReadULEB32(); err != nil {
			return err
		}
		if d.OffsetExpr, err = readExprs(r); err != nil {
			return err
		}
		size, err := r.ReadULEB32()
		if err != nil {
			return err
		}
		if d.Payload, err = r.ReadBytes(uint64(size)); err != nil {
			return err
		}
		m.Datas[i] = d
	}
	return nil
}
