package decompile

import (
	"fmt"
	"strings"

	"github.com/vertexdlt/wasmdec/disasm"
	"github.com/vertexdlt/wasmdec/reader"
	"github.com/vertexdlt/wasmdec/xref"
)

// FlatRenderer produces the PC-prefixed, opcode-per-line listing of
// spec.md §4.4: one line per instruction, block/loop/if anchored with a
// label line, the function's closing `end` suppressed, and every direct
// `call` recorded into the attached Tracker (call_indirect is not
// recorded, since its callee is not known statically).
type FlatRenderer struct {
	tracker *xref.Tracker
	cache   *renderCache
}

// NewFlatRenderer returns a FlatRenderer that records call edges into
// tracker (may be nil to skip cross-reference tracking).
func NewFlatRenderer(tracker *xref.Tracker) *FlatRenderer {
	return &FlatRenderer{tracker: tracker, cache: newRenderCache()}
}

type flatLabel struct {
	addr uint32
}

// Render walks every function of p and returns the full flat listing.
func (r *FlatRenderer) Render(p *disasm.Program) (string, error) {
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

	pcBase := uint32(0)
	for i := range p.Functions {
		fn := &p.Functions[i]
		if fn.IsImport() {
			fmt.Fprintf(&buf, "import %s %s(%s)\n", disasm.TypeName(fn.ReturnType), fn.Name, paramList(fn))
			continue
		}

		var fbuf strings.Builder
		fmt.Fprintf(&fbuf, "%s %s(%s)", disasm.TypeName(fn.ReturnType), fn.Name, paramList(fn))
		if fn.ExportedName != "" {
			fmt.Fprintf(&fbuf, " // exported as %q", fn.ExportedName)
		}
		fbuf.WriteString("\n")
		for _, l := range fn.Locals {
			fmt.Fprintf(&fbuf, "  local %s %s\n", disasm.TypeName(l.Type), l.Name)
		}

		// Caching would skip the walk that records call edges, so it only
		// kicks in when nothing is tracking cross-references.
		if r.tracker == nil {
			if cached, ok := r.cache.get(fn.Body, uint64(pcBase)); ok {
				fbuf.WriteString(cached)
				fbuf.WriteString("\n")
				buf.WriteString(fbuf.String())
				pcBase += uint32(len(fn.Body))
				continue
			}
		}

		var body strings.Builder
		if err := r.renderFunction(p, fn, pcBase, &body); err != nil {
			return "", err
		}
		if r.tracker == nil {
			r.cache.put(fn.Body, uint64(pcBase), body.String())
		}
		fbuf.WriteString(body.String())
		fbuf.WriteString("\n")

		buf.WriteString(fbuf.String())
		pcBase += uint32(len(fn.Body))
	}

	return buf.String(), nil
}

func paramList(fn *disasm.Function) string {
	parts := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		parts[i] = fmt.Sprintf("%s %s", disasm.TypeName(p.Type), p.Name)
	}
	return strings.Join(parts, ", ")
}

func (r *FlatRenderer) renderFunction(p *disasm.Program, fn *disasm.Function, pcBase uint32, buf *strings.Builder) error {
	body := fn.Body
	rd := reader.New(body)
	locals := fn.AllLocals()
	var blocks []flatLabel

	for rd.Remaining() > 0 {
		ip := uint32(rd.Pos())
		opByte, err := rd.ReadU8()
		if err != nil {
			return err
		}
		op := Op(opByte)

		if op == End && len(blocks) == 0 && rd.Remaining() == 0 {
			break // terminal end of the function body is implicit
		}

		line, err := r.renderInstruction(p, fn, rd, op, pcBase+ip, locals, &blocks)
		if err != nil {
			return err
		}
		if line != "" {
			fmt.Fprintf(buf, "  %08X:\t%s\n", pcBase+ip, line)
		}
		if label, ok := pendingLabel(op, blocks); ok {
			fmt.Fprintf(buf, "label_%08X:\n", label)
		}
	}
	return nil
}

// pendingLabel reports the label just pushed by a Block/Loop/If opcode,
// so renderFunction can print its anchor line right after the opcode
// line itself.
func pendingLabel(op Op, blocks []flatLabel) (uint32, bool) {
	if op != Block && op != Loop && op != If {
		return 0, false
	}
	if len(blocks) == 0 {
		return 0, false
	}
	return blocks[len(blocks)-1].addr, true
}

func (r *FlatRenderer) renderInstruction(p *disasm.Program, fn *disasm.Function, rd *reader.Reader, op Op, pc uint32, locals []disasm.Local, blocks *[]flatLabel) (string, error) {
	switch op {
	case Unreachable, Nop, Drop, Select, Return, Else:
		return op.String(), nil

	case Block, Loop, If:
		if _, err := rd.ReadU8(); err != nil { // block type
			return "", err
		}
		labelAddr := pc + uint32(2) // opcode byte + blocktype byte
		*blocks = append(*blocks, flatLabel{addr: labelAddr})
		return op.String(), nil

	case End:
		if len(*blocks) > 0 {
			*blocks = (*blocks)[:len(*blocks)-1]
		}
		return "end", nil

	case Br, BrIf:
		depth, err := rd.ReadULEB32()
		if err != nil {
			return "", err
		}
		target, err := labelForDepth(*blocks, depth)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s label_%08X", op.String(), target), nil

	case BrTable:
		count, err := rd.ReadULEB32()
		if err != nil {
			return "", err
		}
		labels := make([]string, 0, count)
		for i := uint32(0); i < count; i++ {
			d, err := rd.ReadULEB32()
			if err != nil {
				return "", err
			}
			target, err := labelForDepth(*blocks, d)
			if err != nil {
				return "", err
			}
			labels = append(labels, fmt.Sprintf("label_%08X", target))
		}
		def, err := rd.ReadULEB32()
		if err != nil {
			return "", err
		}
		defTarget, err := labelForDepth(*blocks, def)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("br_table [%s] default=label_%08X", strings.Join(labels, ", "), defTarget), nil

	case Call:
		idx, err := rd.ReadULEB32()
		if err != nil {
			return "", err
		}
		callee := p.GetFunction(idx)
		if callee == nil {
			return "", ErrInvalidFuncIndex
		}
		if r.tracker != nil {
			ref, err := p.FindCallRef(fn, idx, pc)
			if err == nil {
				r.tracker.Record(fn.Index, ref)
			}
		}
		return fmt.Sprintf("call %s", callee.Name), nil

	case CallIndirect:
		typeIdx, err := rd.ReadULEB32()
		if err != nil {
			return "", err
		}
		if _, err := rd.ReadU8(); err != nil { // reserved byte
			return "", err
		}
		return fmt.Sprintf("call_indirect (type %d)", typeIdx), nil

	case GetLocal, SetLocal, TeeLocal:
		idx, err := rd.ReadULEB32()
		if err != nil {
			return "", err
		}
		if int(idx) >= len(locals) {
			return "", ErrInvalidLocalIndex
		}
		return fmt.Sprintf("%s %s", op.String(), locals[idx].Name), nil

	case GetGlobal, SetGlobal:
		idx, err := rd.ReadULEB32()
		if err != nil {
			return "", err
		}
		if int(idx) >= len(p.Globals) {
			return "", ErrInvalidGlobalIndex
		}
		return fmt.Sprintf("%s %s", op.String(), p.Globals[idx].Name), nil

	case I32Const:
		v, err := rd.ReadSLEB32()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("i32.const %d", v), nil

	case I64Const:
		v, err := rd.ReadSLEB64()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("i64.const %d", v), nil

	case F32Const:
		bits, err := rd.ReadU32()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("f32.const %08Xh", bits), nil

	case F64Const:
		bits, err := rd.ReadU64()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("f64.const %016Xh", bits), nil

	case CurrentMemory, GrowMemory:
		if _, err := rd.ReadU8(); err != nil { // reserved byte
			return "", err
		}
		return op.String(), nil

	case TruncSatPrefix:
		sel, err := rd.ReadU8()
		if err != nil {
			return "", err
		}
		name, ok := truncSatMnemonics[sel]
		if !ok {
			return "", ErrInvalidOpcode
		}
		return name, nil

	default:
		if isLoad(op) || isStore(op) {
			align, err := rd.ReadULEB32()
			if err != nil {
				return "", err
			}
			offset, err := rd.ReadULEB32()
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s %08Xh [align=%d]", op.String(), offset, align), nil
		}
		if name, ok := mnemonics[op]; ok {
			return name, nil
		}
		return "", ErrInvalidOpcode
	}
}

func labelForDepth(blocks []flatLabel, depth uint32) (uint32, error) {
	if int(depth) >= len(blocks) {
		return 0, ErrBranchOutOfRange
	}
	return blocks[len(blocks)-1-int(depth)].addr, nil
}
