package decompile

import (
	"fmt"
	"math"
	"strings"

	"github.com/chewxy/math32"

	"github.com/vertexdlt/wasmdec/disasm"
	"github.com/vertexdlt/wasmdec/reader"
	"github.com/vertexdlt/wasmdec/xref"
)

// StructuredRenderer lifts each function's flat opcode stream into
// symbolic-stack pseudocode, per spec.md §4.5: block/loop/if become real
// control statements, br/br_if targeting a loop frame render as
// `continue`, targeting a block frame as `break`, and every arithmetic
// opcode folds its operands into a parenthesized expression instead of a
// line of its own.
type StructuredRenderer struct {
	tracker *xref.Tracker
	cache   *renderCache
}

// NewStructuredRenderer returns a StructuredRenderer that records call
// edges into tracker (nil to skip cross-reference tracking).
func NewStructuredRenderer(tracker *xref.Tracker) *StructuredRenderer {
	return &StructuredRenderer{tracker: tracker, cache: newRenderCache()}
}

type frameKind int

const (
	frameBlock frameKind = iota
	frameLoop
	frameIf
)

type blockFrame struct {
	kind  frameKind
	label string
}

type funcState struct {
	stack  []Operand
	frames []*blockFrame
	lines  []string
	depth  int
	serial int
}

func (s *funcState) push(o Operand) { s.stack = append(s.stack, o) }

func (s *funcState) pop() (Operand, error) {
	if len(s.stack) == 0 {
		return Operand{}, ErrStackUnderflow
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return top, nil
}

func (s *funcState) popN(n int) ([]Operand, error) {
	out := make([]Operand, n)
	for i := n - 1; i >= 0; i-- {
		v, err := s.pop()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *funcState) emit(text string) {
	s.lines = append(s.lines, strings.Repeat("  ", s.depth)+text)
}

func (s *funcState) emitAt(depth int, text string) {
	s.lines = append(s.lines, strings.Repeat("  ", depth)+text)
}

func (s *funcState) newLabel(prefix string) string {
	s.serial++
	return fmt.Sprintf("%s%d", prefix, s.serial-1)
}

// Render walks every function of p and returns the full pseudocode
// listing.
func (r *StructuredRenderer) Render(p *disasm.Program) (string, error) {
	var buf strings.Builder

	for _, g := range p.Globals {
		mut := "mutable"
		if g.IsConst {
			mut = "const"
		}
		fmt.Fprintf(&buf, "%s %s %s = %s\n", mut, disasm.TypeName(g.Type), g.Name, g.Value)
	}
	if len(p.Globals) > 0 {
		buf.WriteString("\n")
	}

	for i := range p.Functions {
		fn := &p.Functions[i]
		if fn.IsImport() {
			fmt.Fprintf(&buf, "import %s %s(%s)\n", disasm.TypeName(fn.ReturnType), fn.Name, paramList(fn))
			continue
		}

		var fbuf strings.Builder
		fmt.Fprintf(&fbuf, "%s %s(%s) {\n", disasm.TypeName(fn.ReturnType), fn.Name, paramList(fn))
		for _, l := range fn.Locals {
			fmt.Fprintf(&fbuf, "  %s %s = 0;\n", disasm.TypeName(l.Type), l.Name)
		}

		// Caching would skip the walk that records call edges, so it only
		// kicks in when nothing is tracking cross-references. The cached
		// text is the instruction body alone: locals are named
		// positionally and the control-flow labels restart at zero per
		// function, so the body's text is identical across two functions
		// sharing a body even though their signatures differ. Whether the
		// function returns a value does change how `return`/`end` render,
		// so that goes into the salt.
		salt := uint64(0)
		if fn.HasReturn {
			salt = 1
		}
		if r.tracker == nil {
			if cached, ok := r.cache.get(fn.Body, salt); ok {
				fbuf.WriteString(cached)
				fbuf.WriteString("}\n\n")
				buf.WriteString(fbuf.String())
				continue
			}
		}

		var body strings.Builder
		if err := r.renderFunction(p, fn, &body); err != nil {
			return "", err
		}
		if r.tracker == nil {
			r.cache.put(fn.Body, salt, body.String())
		}
		fbuf.WriteString(body.String())
		fbuf.WriteString("}\n\n")

		buf.WriteString(fbuf.String())
	}

	return buf.String(), nil
}

func (r *StructuredRenderer) renderFunction(p *disasm.Program, fn *disasm.Function, buf *strings.Builder) error {
	st := &funcState{depth: 1}
	rd := reader.New(fn.Body)
	locals := fn.AllLocals()

	for rd.Remaining() > 0 {
		opByte, err := rd.ReadU8()
		if err != nil {
			return err
		}
		op := Op(opByte)

		if op == End && len(st.frames) == 0 && rd.Remaining() == 0 {
			if fn.HasReturn && len(st.stack) > 0 {
				v, _ := st.pop()
				st.emit(fmt.Sprintf("return %s;", v.Render()))
			}
			break
		}

		if err := r.step(p, fn, rd, op, locals, st); err != nil {
			return err
		}
	}

	for _, l := range st.lines {
		buf.WriteString(l)
		buf.WriteString("\n")
	}
	return nil
}

func (r *StructuredRenderer) step(p *disasm.Program, fn *disasm.Function, rd *reader.Reader, op Op, locals []disasm.Local, st *funcState) error {
	switch op {
	case Unreachable:
		st.emit("unreachable;")
	case Nop:
		// no statement

	case Block, Loop, If:
		if _, err := rd.ReadU8(); err != nil { // block type
			return err
		}
		switch op {
		case Block:
			label := st.newLabel("block_")
			st.emit(fmt.Sprintf("%s: {", label))
			st.frames = append(st.frames, &blockFrame{kind: frameBlock, label: label})
			st.depth++
		case Loop:
			label := st.newLabel("loop_")
			st.emit(fmt.Sprintf("%s: while (true) {", label))
			st.frames = append(st.frames, &blockFrame{kind: frameLoop, label: label})
			st.depth++
		case If:
			cond, err := st.pop()
			if err != nil {
				return err
			}
			label := st.newLabel("if_")
			st.emit(fmt.Sprintf("if (%s) { // %s", cond.Render(), label))
			st.frames = append(st.frames, &blockFrame{kind: frameIf, label: label})
			st.depth++
		}

	case Else:
		if len(st.frames) == 0 {
			return ErrUnexpectedEnd
		}
		st.depth--
		st.emit("} else {")
		st.depth++

	case End:
		if len(st.frames) == 0 {
			return ErrUnexpectedEnd
		}
		f := st.frames[len(st.frames)-1]
		st.frames = st.frames[:len(st.frames)-1]
		if f.kind == frameLoop {
			// A loop only exits via br/br_if targeting it (continue) or
			// falling off its end; the fall-through path is itself an
			// exit, so it needs its own explicit break.
			st.emit(fmt.Sprintf("break %s;", f.label))
		}
		st.depth--
		st.emit("}")

	case Br, BrIf:
		depth, err := rd.ReadULEB32()
		if err != nil {
			return err
		}
		var cond *Operand
		if op == BrIf {
			c, err := st.pop()
			if err != nil {
				return err
			}
			cond = &c
		}
		f, err := frameForDepth(st.frames, depth)
		if err != nil {
			return err
		}
		stmt := jumpStatement(f)
		if cond != nil {
			stmt = fmt.Sprintf("if (%s) %s", cond.Render(), stmt)
		}
		st.emit(stmt)

	case BrTable:
		count, err := rd.ReadULEB32()
		if err != nil {
			return err
		}
		targets := make([]uint32, count)
		for i := range targets {
			d, err := rd.ReadULEB32()
			if err != nil {
				return err
			}
			targets[i] = d
		}
		def, err := rd.ReadULEB32()
		if err != nil {
			return err
		}
		idx, err := st.pop()
		if err != nil {
			return err
		}
		st.emit(fmt.Sprintf("switch (%s) {", idx.Render()))
		st.depth++
		for i, d := range targets {
			f, err := frameForDepth(st.frames, d)
			if err != nil {
				return err
			}
			st.emit(fmt.Sprintf("case %d: %s", i, jumpStatement(f)))
		}
		defFrame, err := frameForDepth(st.frames, def)
		if err != nil {
			return err
		}
		st.emit(fmt.Sprintf("default: %s", jumpStatement(defFrame)))
		st.depth--
		st.emit("}")

	case Return:
		if fn.HasReturn {
			v, err := st.pop()
			if err != nil {
				return err
			}
			st.emit(fmt.Sprintf("return %s;", v.Render()))
		} else {
			st.emit("return;")
		}

	case Call:
		idx, err := rd.ReadULEB32()
		if err != nil {
			return err
		}
		callee := p.GetFunction(idx)
		if callee == nil {
			return ErrInvalidFuncIndex
		}
		args, err := st.popN(len(callee.Params))
		if err != nil {
			return err
		}
		if r.tracker != nil {
			if ref, err := p.FindCallRef(fn, idx, uint32(rd.Pos())); err == nil {
				r.tracker.Record(fn.Index, ref)
			}
		}
		expr := &Expression{Kind: KindCall, Op: callee.Name, Args: args, CallRef: true}
		if callee.HasReturn {
			st.push(exprOperand(expr))
		} else {
			st.emit(expr.Render() + ";")
		}

	case CallIndirect:
		typeIdx, err := rd.ReadULEB32()
		if err != nil {
			return err
		}
		if _, err := rd.ReadU8(); err != nil { // reserved byte
			return err
		}
		if int(typeIdx) >= len(p.Types) {
			return ErrInvalidTypeIndex
		}
		ft := p.Types[typeIdx]
		tableIdx, err := st.pop()
		if err != nil {
			return err
		}
		args, err := st.popN(len(ft.Params))
		if err != nil {
			return err
		}
		expr := &Expression{Kind: KindCall, Op: fmt.Sprintf("table[%s]", tableIdx.Render()), Args: args, CallRef: true}
		if ft.HasReturn {
			st.push(exprOperand(expr))
		} else {
			st.emit(expr.Render() + ";")
		}

	case Drop:
		v, err := st.pop()
		if err != nil {
			return err
		}
		if v.expr != nil && v.expr.CallRef {
			st.emit(v.Render() + ";")
		}

	case Select:
		// Stack order is val1, val2, cond (cond on top). select's documented
		// order artifact swaps the branch operands relative to push order:
		// the rendered ternary reads cond ? val2 : val1.
		vals, err := st.popN(3)
		if err != nil {
			return err
		}
		expr := &Expression{Kind: KindTernary, Args: []Operand{vals[2], vals[1], vals[0]}}
		st.push(exprOperand(expr))

	case GetLocal:
		idx, err := rd.ReadULEB32()
		if err != nil {
			return err
		}
		if int(idx) >= len(locals) {
			return ErrInvalidLocalIndex
		}
		st.push(namedOperand(locals[idx].Name))

	case SetLocal, TeeLocal:
		idx, err := rd.ReadULEB32()
		if err != nil {
			return err
		}
		if int(idx) >= len(locals) {
			return ErrInvalidLocalIndex
		}
		v, err := st.pop()
		if err != nil {
			return err
		}
		st.emit(fmt.Sprintf("%s = %s;", locals[idx].Name, v.Render()))
		if op == TeeLocal {
			st.push(namedOperand(locals[idx].Name))
		}

	case GetGlobal:
		idx, err := rd.ReadULEB32()
		if err != nil {
			return err
		}
		if int(idx) >= len(p.Globals) {
			return ErrInvalidGlobalIndex
		}
		st.push(namedOperand(p.Globals[idx].Name))

	case SetGlobal:
		idx, err := rd.ReadULEB32()
		if err != nil {
			return err
		}
		if int(idx) >= len(p.Globals) {
			return ErrInvalidGlobalIndex
		}
		v, err := st.pop()
		if err != nil {
			return err
		}
		st.emit(fmt.Sprintf("%s = %s;", p.Globals[idx].Name, v.Render()))

	case I32Const:
		v, err := rd.ReadSLEB32()
		if err != nil {
			return err
		}
		st.push(literalOperand(fmt.Sprintf("%d", v)))

	case I64Const:
		v, err := rd.ReadSLEB64()
		if err != nil {
			return err
		}
		st.push(literalOperand(fmt.Sprintf("%dll", v)))

	case F32Const:
		bits, err := rd.ReadU32()
		if err != nil {
			return err
		}
		st.push(literalOperand(formatF32(math32.Float32frombits(bits))))

	case F64Const:
		bits, err := rd.ReadU64()
		if err != nil {
			return err
		}
		st.push(literalOperand(formatF64(math.Float64frombits(bits))))

	case CurrentMemory:
		if _, err := rd.ReadU8(); err != nil {
			return err
		}
		st.push(exprOperand(&Expression{Kind: KindCall, Op: "current_memory"}))

	case GrowMemory:
		if _, err := rd.ReadU8(); err != nil {
			return err
		}
		pages, err := st.pop()
		if err != nil {
			return err
		}
		st.push(exprOperand(&Expression{Kind: KindCall, Op: "grow_memory", Args: []Operand{pages}}))

	case TruncSatPrefix:
		sel, err := rd.ReadU8()
		if err != nil {
			return err
		}
		name, ok := truncSatMnemonics[sel]
		if !ok {
			return ErrInvalidOpcode
		}
		v, err := st.pop()
		if err != nil {
			return err
		}
		if rng := truncSatRange(sel); rng != "" {
			v = literalOperand(v.Render() + " /* clamps to " + rng + " */")
		}
		st.push(exprOperand(&Expression{Kind: KindUnary, Op: name, Args: []Operand{v}}))

	default:
		return r.stepNumeric(rd, op, st)
	}
	return nil
}

func (r *StructuredRenderer) stepNumeric(rd *reader.Reader, op Op, st *funcState) error {
	if isLoad(op) {
		addr, err := st.pop()
		if err != nil {
			return err
		}
		_, offset, err := readMemArg(rd)
		if err != nil {
			return err
		}
		st.push(exprOperand(&Expression{Kind: KindCall, Op: op.String(), Args: []Operand{addr, literalOperand(fmt.Sprintf("offset=%d", offset))}}))
		return nil
	}
	if isStore(op) {
		val, err := st.pop()
		if err != nil {
			return err
		}
		addr, err := st.pop()
		if err != nil {
			return err
		}
		_, offset, err := readMemArg(rd)
		if err != nil {
			return err
		}
		st.emit(fmt.Sprintf("%s(%s, %s, offset=%d);", op.String(), addr.Render(), val.Render(), offset))
		return nil
	}

	switch {
	case isUnary32(op), isUnary64(op), isFloatUnary32(op), isFloatUnary64(op), isConversion(op), op == I32Eqz, op == I64Eqz:
		v, err := st.pop()
		if err != nil {
			return err
		}
		st.push(exprOperand(&Expression{Kind: KindUnary, Op: op.String(), Args: []Operand{v}}))
		return nil

	case isNumeric32Binary(op), isNumeric64Binary(op), isFloatBinary32(op), isFloatBinary64(op),
		isCompare32(op), isCompare64(op), isCompareF32(op), isCompareF64(op):
		vals, err := st.popN(2)
		if err != nil {
			return err
		}
		st.push(exprOperand(&Expression{Kind: KindBinary, Op: binarySymbol(op), Args: vals}))
		return nil
	}

	return ErrInvalidOpcode
}

func readMemArg(rd *reader.Reader) (align, offset uint32, err error) {
	align, err = rd.ReadULEB32()
	if err != nil {
		return 0, 0, err
	}
	offset, err = rd.ReadULEB32()
	if err != nil {
		return 0, 0, err
	}
	return align, offset, nil
}

func jumpStatement(f *blockFrame) string {
	if f.kind == frameLoop {
		return fmt.Sprintf("continue %s;", f.label)
	}
	return fmt.Sprintf("break %s;", f.label)
}

func frameForDepth(frames []*blockFrame, depth uint32) (*blockFrame, error) {
	if int(depth) >= len(frames) {
		return nil, ErrBranchOutOfRange
	}
	return frames[len(frames)-1-int(depth)], nil
}

// binarySymbol renders the operator text for a binary/compare opcode,
// falling back to the dotted mnemonic for operators with no natural
// infix spelling (rotates, copysign, min/max).
func binarySymbol(op Op) string {
	switch op {
	case I32Add, I64Add, F32Add, F64Add:
		return "+"
	case I32Sub, I64Sub, F32Sub, F64Sub:
		return "-"
	case I32Mul, I64Mul, F32Mul, F64Mul:
		return "*"
	case I32DivS, I32DivU, I64DivS, I64DivU, F32Div, F64Div:
		return "/"
	case I32RemS, I32RemU, I64RemS, I64RemU:
		return "%"
	case I32And, I64And:
		return "&"
	case I32Or, I64Or:
		return "|"
	case I32Xor, I64Xor:
		return "^"
	case I32Shl, I64Shl:
		return "<<"
	case I32ShrS, I64ShrS, I32ShrU, I64ShrU:
		return ">>"
	case I32Eq, I64Eq, F32Eq, F64Eq:
		return "=="
	case I32Ne, I64Ne, F32Ne, F64Ne:
		return "!="
	case I32LtS, I32LtU, I64LtS, I64LtU, F32Lt, F64Lt:
		return "<"
	case I32GtS, I32GtU, I64GtS, I64GtU, F32Gt, F64Gt:
		return ">"
	case I32LeS, I32LeU, I64LeS, I64LeU, F32Le, F64Le:
		return "<="
	case I32GeS, I32GeU, I64GeS, I64GeU, F32Ge, F64Ge:
		return ">="
	default:
		return op.String()
	}
}

// formatF32 renders a float32 the way the Structured renderer's pseudocode
// shows literals, using math32 so the value never promotes to float64
// before NaN/Inf is decided (matching the type the bytes actually encode).
func formatF32(v float32) string {
	switch {
	case math32.IsNaN(v):
		return "nan"
	case math32.IsInf(v, 1):
		return "inf"
	case math32.IsInf(v, -1):
		return "-inf"
	default:
		return fmt.Sprintf("%gf", v)
	}
}

func formatF64(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return fmt.Sprintf("%g", v)
	}
}
