package decompile

// Op is a Wasm MVP opcode byte (plus the 0xFC saturating-truncation
// prefix family spec.md §1 brings in from post-MVP). Named the way the
// teacher names its opcode constants (vm/vm.go's opcode.I32Add etc.), just
// owned locally since neither renderer executes anything.
type Op byte

const (
	Unreachable Op = 0x00
	Nop         Op = 0x01
	Block       Op = 0x02
	Loop        Op = 0x03
	If          Op = 0x04
	Else        Op = 0x05
	End         Op = 0x0B
	Br          Op = 0x0C
	BrIf        Op = 0x0D
	BrTable     Op = 0x0E
	Return      Op = 0x0F
	Call        Op = 0x10
	CallIndirect Op = 0x11

	Drop   Op = 0x1A
	Select Op = 0x1B

	GetLocal  Op = 0x20
	SetLocal  Op = 0x21
	TeeLocal  Op = 0x22
	GetGlobal Op = 0x23
	SetGlobal Op = 0x24

	I32Load    Op = 0x28
	I64Load    Op = 0x29
	F32Load    Op = 0x2A
	F64Load    Op = 0x2B
	I32Load8S  Op = 0x2C
	I32Load8U  Op = 0x2D
	I32Load16S Op = 0x2E
	I32Load16U Op = 0x2F
	I64Load8S  Op = 0x30
	I64Load8U  Op = 0x31
	I64Load16S Op = 0x32
	I64Load16U Op = 0x33
	I64Load32S Op = 0x34
	I64Load32U Op = 0x35

	I32Store   Op = 0x36
	I64Store   Op = 0x37
	F32Store   Op = 0x38
	F64Store   Op = 0x39
	I32Store8  Op = 0x3A
	I32Store16 Op = 0x3B
	I64Store8  Op = 0x3C
	I64Store16 Op = 0x3D
	I64Store32 Op = 0x3E

	CurrentMemory Op = 0x3F
	GrowMemory    Op = 0x40

	I32Const Op = 0x41
	I64Const Op = 0x42
	F32Const Op = 0x43
	F64Const Op = 0x44

	I32Eqz  Op = 0x45
	I32Eq   Op = 0x46
	I32Ne   Op = 0x47
	I32LtS  Op = 0x48
	I32LtU  Op = 0x49
	I32GtS  Op = 0x4A
	I32GtU  Op = 0x4B
	I32LeS  Op = 0x4C
	I32LeU  Op = 0x4D
	I32GeS  Op = 0x4E
	I32GeU  Op = 0x4F

	I64Eqz Op = 0x50
	I64Eq  Op = 0x51
	I64Ne  Op = 0x52
	I64LtS Op = 0x53
	I64LtU Op = 0x54
	I64GtS Op = 0x55
	I64GtU Op = 0x56
	I64LeS Op = 0x57
	I64LeU Op = 0x58
	I64GeS Op = 0x59
	I64GeU Op = 0x5A

	F32Eq Op = 0x5B
	F32Ne Op = 0x5C
	F32Lt Op = 0x5D
	F32Gt Op = 0x5E
	F32Le Op = 0x5F
	F32Ge Op = 0x60

	F64Eq Op = 0x61
	F64Ne Op = 0x62
	F64Lt Op = 0x63
	F64Gt Op = 0x64
	F64Le Op = 0x65
	F64Ge Op = 0x66

	I32Clz    Op = 0x67
	I32Ctz    Op = 0x68
	I32Popcnt Op = 0x69
	I32Add    Op = 0x6A
	I32Sub    Op = 0x6B
	I32Mul    Op = 0x6C
	I32DivS   Op = 0x6D
	I32DivU   Op = 0x6E
	I32RemS   Op = 0x6F
	I32RemU   Op = 0x70
	I32And    Op = 0x71
	I32Or     Op = 0x72
	I32Xor    Op = 0x73
	I32Shl    Op = 0x74
	I32ShrS   Op = 0x75
	I32ShrU   Op = 0x76
	I32Rotl   Op = 0x77
	I32Rotr   Op = 0x78

	I64Clz    Op = 0x79
	I64Ctz    Op = 0x7A
	I64Popcnt Op = 0x7B
	I64Add    Op = 0x7C
	I64Sub    Op = 0x7D
	I64Mul    Op = 0x7E
	I64DivS   Op = 0x7F
	I64DivU   Op = 0x80
	I64RemS   Op = 0x81
	I64RemU   Op = 0x82
	I64And    Op = 0x83
	I64Or     Op = 0x84
	I64Xor    Op = 0x85
	I64Shl    Op = 0x86
	I64ShrS   Op = 0x87
	I64ShrU   Op = 0x88
	I64Rotl   Op = 0x89
	I64Rotr   Op = 0x8A

	F32Abs      Op = 0x8B
	F32Neg      Op = 0x8C
	F32Ceil     Op = 0x8D
	F32Floor    Op = 0x8E
	F32Trunc    Op = 0x8F
	F32Nearest  Op = 0x90
	F32Sqrt     Op = 0x91
	F32Add      Op = 0x92
	F32Sub      Op = 0x93
	F32Mul      Op = 0x94
	F32Div      Op = 0x95
	F32Min      Op = 0x96
	F32Max      Op = 0x97
	F32Copysign Op = 0x98

	F64Abs      Op = 0x99
	F64Neg      Op = 0x9A
	F64Ceil     Op = 0x9B
	F64Floor    Op = 0x9C
	F64Trunc    Op = 0x9D
	F64Nearest  Op = 0x9E
	F64Sqrt     Op = 0x9F
	F64Add      Op = 0xA0
	F64Sub      Op = 0xA1
	F64Mul      Op = 0xA2
	F64Div      Op = 0xA3
	F64Min      Op = 0xA4
	F64Max      Op = 0xA5
	F64Copysign Op = 0xA6

	I32WrapI64       Op = 0xA7
	I32TruncF32S     Op = 0xA8
	I32TruncF32U     Op = 0xA9
	I32TruncF64S     Op = 0xAA
	I32TruncF64U     Op = 0xAB
	I64ExtendI32S    Op = 0xAC
	I64ExtendI32U    Op = 0xAD
	I64TruncF32S     Op = 0xAE
	I64TruncF32U     Op = 0xAF
	I64TruncF64S     Op = 0xB0
	I64TruncF64U     Op = 0xB1
	F32ConvertI32S   Op = 0xB2
	F32ConvertI32U   Op = 0xB3
	F32ConvertI64S   Op = 0xB4
	F32ConvertI64U   Op = 0xB5
	F32DemoteF64     Op = 0xB6
	F64ConvertI32S   Op = 0xB7
	F64ConvertI32U   Op = 0xB8
	F64ConvertI64S   Op = 0xB9
	F64ConvertI64U   Op = 0xBA
	F64PromoteF32    Op = 0xBB
	I32ReinterpretF32 Op = 0xBC
	I64ReinterpretF64 Op = 0xBD
	F32ReinterpretI32 Op = 0xBE
	F64ReinterpretI64 Op = 0xBF

	// TruncSatPrefix (0xFC) introduces the saturating-truncation family;
	// the secondary selector byte (0-7) picks among the eight variants.
	TruncSatPrefix Op = 0xFC
)

// Saturating truncation secondary selectors (read after the 0xFC prefix).
const (
	TruncSatI32F32S byte = iota
	TruncSatI32F32U
	TruncSatI32F64S
	TruncSatI32F64U
	TruncSatI64F32S
	TruncSatI64F32U
	TruncSatI64F64S
	TruncSatI64F64U
)

var mnemonics = map[Op]string{
	Unreachable: "unreachable", Nop: "nop", Block: "block", Loop: "loop",
	If: "if", Else: "else", End: "end", Br: "br", BrIf: "br_if",
	BrTable: "br_table", Return: "return", Call: "call", CallIndirect: "call_indirect",
	Drop: "drop", Select: "select",
	GetLocal: "get_local", SetLocal: "set_local", TeeLocal: "tee_local",
	GetGlobal: "get_global", SetGlobal: "set_global",

	I32Load: "i32.load", I64Load: "i64.load", F32Load: "f32.load", F64Load: "f64.load",
	I32Load8S: "i32.load8_s", I32Load8U: "i32.load8_u",
	I32Load16S: "i32.load16_s", I32Load16U: "i32.load16_u",
	I64Load8S: "i64.load8_s", I64Load8U: "i64.load8_u",
	I64Load16S: "i64.load16_s", I64Load16U: "i64.load16_u",
	I64Load32S: "i64.load32_s", I64Load32U: "i64.load32_u",

	I32Store: "i32.store", I64Store: "i64.store", F32Store: "f32.store", F64Store: "f64.store",
	I32Store8: "i32.store8", I32Store16: "i32.store16",
	I64Store8: "i64.store8", I64Store16: "i64.store16", I64Store32: "i64.store32",

	CurrentMemory: "current_memory", GrowMemory: "grow_memory",

	I32Const: "i32.const", I64Const: "i64.const", F32Const: "f32.const", F64Const: "f64.const",

	I32Eqz: "i32.eqz", I32Eq: "i32.eq", I32Ne: "i32.ne",
	I32LtS: "i32.lt_s", I32LtU: "i32.lt_u", I32GtS: "i32.gt_s", I32GtU: "i32.gt_u",
	I32LeS: "i32.le_s", I32LeU: "i32.le_u", I32GeS: "i32.ge_s", I32GeU: "i32.ge_u",

	I64Eqz: "i64.eqz", I64Eq: "i64.eq", I64Ne: "i64.ne",
	I64LtS: "i64.lt_s", I64LtU: "i64.lt_u", I64GtS: "i64.gt_s", I64GtU: "i64.gt_u",
	I64LeS: "i64.le_s", I64LeU: "i64.le_u", I64GeS: "i64.ge_s", I64GeU: "i64.ge_u",

	F32Eq: "f32.eq", F32Ne: "f32.ne", F32Lt: "f32.lt", F32Gt: "f32.gt", F32Le: "f32.le", F32Ge: "f32.ge",
	F64Eq: "f64.eq", F64Ne: "f64.ne", F64Lt: "f64.lt", F64Gt: "f64.gt", F64Le: "f64.le", F64Ge: "f64.ge",

	I32Clz: "i32.clz", I32Ctz: "i32.ctz", I32Popcnt: "i32.popcnt",
	I32Add: "i32.add", I32Sub: "i32.sub", I32Mul: "i32.mul",
	I32DivS: "i32.div_s", I32DivU: "i32.div_u", I32RemS: "i32.rem_s", I32RemU: "i32.rem_u",
	I32And: "i32.and", I32Or: "i32.or", I32Xor: "i32.xor",
	I32Shl: "i32.shl", I32ShrS: "i32.shr_s", I32ShrU: "i32.shr_u",
	I32Rotl: "i32.rotl", I32Rotr: "i32.rotr",

	I64Clz: "i64.clz", I64Ctz: "i64.ctz", I64Popcnt: "i64.popcnt",
	I64Add: "i64.add", I64Sub: "i64.sub", I64Mul: "i64.mul",
	I64DivS: "i64.div_s", I64DivU: "i64.div_u", I64RemS: "i64.rem_s", I64RemU: "i64.rem_u",
	I64And: "i64.and", I64Or: "i64.or", I64Xor: "i64.xor",
	I64Shl: "i64.shl", I64ShrS: "i64.shr_s", I64ShrU: "i64.shr_u",
	I64Rotl: "i64.rotl", I64Rotr: "i64.rotr",

	F32Abs: "f32.abs", F32Neg: "f32.neg", F32Ceil: "f32.ceil", F32Floor: "f32.floor",
	F32Trunc: "f32.trunc", F32Nearest: "f32.nearest", F32Sqrt: "f32.sqrt",
	F32Add: "f32.add", F32Sub: "f32.sub", F32Mul: "f32.mul", F32Div: "f32.div",
	F32Min: "f32.min", F32Max: "f32.max", F32Copysign: "f32.copysign",

	F64Abs: "f64.abs", F64Neg: "f64.neg", F64Ceil: "f64.ceil", F64Floor: "f64.floor",
	F64Trunc: "f64.trunc", F64Nearest: "f64.nearest", F64Sqrt: "f64.sqrt",
	F64Add: "f64.add", F64Sub: "f64.sub", F64Mul: "f64.mul", F64Div: "f64.div",
	F64Min: "f64.min", F64Max: "f64.max", F64Copysign: "f64.copysign",

	I32WrapI64: "i32.wrap_i64",
	I32TruncF32S: "i32.trunc_f32_s", I32TruncF32U: "i32.trunc_f32_u",
	I32TruncF64S: "i32.trunc_f64_s", I32TruncF64U: "i32.trunc_f64_u",
	I64ExtendI32S: "i64.extend_i32_s", I64ExtendI32U: "i64.extend_i32_u",
	I64TruncF32S: "i64.trunc_f32_s", I64TruncF32U: "i64.trunc_f32_u",
	I64TruncF64S: "i64.trunc_f64_s", I64TruncF64U: "i64.trunc_f64_u",
	F32ConvertI32S: "f32.convert_i32_s", F32ConvertI32U: "f32.convert_i32_u",
	F32ConvertI64S: "f32.convert_i64_s", F32ConvertI64U: "f32.convert_i64_u",
	F32DemoteF64: "f32.demote_f64",
	F64ConvertI32S: "f64.convert_i32_s", F64ConvertI32U: "f64.convert_i32_u",
	F64ConvertI64S: "f64.convert_i64_s", F64ConvertI64U: "f64.convert_i64_u",
	F64PromoteF32: "f64.promote_f32",
	I32ReinterpretF32: "i32.reinterpret_f32", I64ReinterpretF64: "i64.reinterpret_f64",
	F32ReinterpretI32: "f32.reinterpret_i32", F64ReinterpretI64: "f64.reinterpret_i64",
}

var truncSatMnemonics = map[byte]string{
	TruncSatI32F32S: "i32.trunc_sat_f32_s", TruncSatI32F32U: "i32.trunc_sat_f32_u",
	TruncSatI32F64S: "i32.trunc_sat_f64_s", TruncSatI32F64U: "i32.trunc_sat_f64_u",
	TruncSatI64F32S: "i64.trunc_sat_f32_s", TruncSatI64F32U: "i64.trunc_sat_f32_u",
	TruncSatI64F64S: "i64.trunc_sat_f64_s", TruncSatI64F64U: "i64.trunc_sat_f64_u",
}

func (op Op) String() string {
	if name, ok := mnemonics[op]; ok {
		return name
	}
	return "unknown"
}

func isNumeric32Binary(op Op) bool { return op >= I32Add && op <= I32Rotr }
func isNumeric64Binary(op Op) bool { return op >= I64Add && op <= I64Rotr }
func isUnary32(op Op) bool         { return op == I32Clz || op == I32Ctz || op == I32Popcnt }
func isUnary64(op Op) bool         { return op == I64Clz || op == I64Ctz || op == I64Popcnt }

func isCompare32(op Op) bool { return op >= I32Eq && op <= I32GeU }
func isCompare64(op Op) bool { return op >= I64Eq && op <= I64GeU }
func isCompareF32(op Op) bool { return op >= F32Eq && op <= F32Ge }
func isCompareF64(op Op) bool { return op >= F64Eq && op <= F64Ge }

func isFloatUnary32(op Op) bool {
	switch op {
	case F32Abs, F32Neg, F32Ceil, F32Floor, F32Trunc, F32Nearest, F32Sqrt:
		return true
	}
	return false
}
func isFloatUnary64(op Op) bool {
	switch op {
	case F64Abs, F64Neg, F64Ceil, F64Floor, F64Trunc, F64Nearest, F64Sqrt:
		return true
	}
	return false
}
func isFloatBinary32(op Op) bool {
	switch op {
	case F32Add, F32Sub, F32Mul, F32Div, F32Min, F32Max, F32Copysign:
		return true
	}
	return false
}
func isFloatBinary64(op Op) bool {
	switch op {
	case F64Add, F64Sub, F64Mul, F64Div, F64Min, F64Max, F64Copysign:
		return true
	}
	return false
}

func isConversion(op Op) bool {
	return op >= I32WrapI64 && op <= F64ReinterpretI64
}

func isLoad(op Op) bool { return op >= I32Load && op <= I64Load32U }
func isStore(op Op) bool { return op >= I32Store && op <= I64Store32 }
