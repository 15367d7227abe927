package decompile

import "fmt"

// truncSatRange renders the destination integer type's [min, max] bound
// for a saturating-truncation selector byte, the same bounds the teacher's
// number.CanTruncate/number.Min/number.Max used to decide whether a
// non-saturating truncation should trap. The Structured renderer never
// traps (that's the point of the "sat" family), so these bounds only ever
// show up as an explanatory trailing comment on the clamp.
func truncSatRange(sel byte) string {
	switch sel {
	case TruncSatI32F32S, TruncSatI32F64S:
		return fmt.Sprintf("[%d, %d]", int32(minI32), int32(maxI32))
	case TruncSatI32F32U, TruncSatI32F64U:
		return fmt.Sprintf("[0, %d]", maxU32)
	case TruncSatI64F32S, TruncSatI64F64S:
		return fmt.Sprintf("[%d, %d]", minI64, maxI64)
	case TruncSatI64F32U, TruncSatI64F64U:
		return fmt.Sprintf("[0, %d]", uint64(maxU64))
	default:
		return ""
	}
}

const (
	minI32 = -2147483648
	maxI32 = 2147483647
	maxU32 = 4294967295
	minI64 = -9223372036854775808
	maxI64 = 9223372036854775807
	maxU64 = uint64(18446744073709551615)
)
