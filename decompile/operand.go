package decompile

import "fmt"

// Operand is a symbolic value living on the Structured renderer's
// expression stack: either something already named (a local, a global, a
// literal) or a compound Expression built from values popped earlier.
type Operand struct {
	text string // pre-rendered text for Literal/LocalRef/GlobalRef
	expr *Expression
}

func literalOperand(text string) Operand { return Operand{text: text} }
func namedOperand(name string) Operand    { return Operand{text: name} }
func exprOperand(e *Expression) Operand   { return Operand{expr: e} }

// Render returns the operand's source-like text. A binary or ternary
// expression always wraps itself in parentheses wherever it appears,
// including at the top level of a statement and as a call argument.
func (o Operand) Render() string {
	if o.expr != nil {
		return o.expr.Render()
	}
	return o.text
}

// ExpressionKind distinguishes the shapes an Expression's Render needs.
type ExpressionKind int

const (
	KindUnary ExpressionKind = iota
	KindBinary
	KindTernary
	KindCall
)

// Expression is a compound value built from a reconstructed operator and
// its operands, per spec.md §4.5.
type Expression struct {
	Kind    ExpressionKind
	Op      string // operator text ("+", "-", function name, ...)
	Args    []Operand
	CallRef bool // true for call/call_indirect: Op holds the callee name
}

func (e *Expression) Render() string {
	switch e.Kind {
	case KindUnary:
		return fmt.Sprintf("%s(%s)", e.Op, e.Args[0].Render())
	case KindBinary:
		return fmt.Sprintf("(%s %s %s)", e.Args[0].Render(), e.Op, e.Args[1].Render())
	case KindTernary:
		return fmt.Sprintf("(%s ? %s : %s)", e.Args[0].Render(), e.Args[1].Render(), e.Args[2].Render())
	case KindCall:
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			parts[i] = a.Render()
		}
		return fmt.Sprintf("%s(%s)", e.Op, joinComma(parts))
	default:
		return "<?>"
	}
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
