package disasm

import (
	"fmt"

	"github.com/vertexdlt/wasmdec/reader"
	"github.com/vertexdlt/wasmdec/wasmfmt"
)

// CreateDataStream builds the merged data image from every Data segment of
// m, growing a buffer as needed (zero-filling any sparse gap) and recording
// one AddressRange per segment. It is idempotent: each call replaces the
// previous image.
func (p *Program) CreateDataStream(m *wasmfmt.Module) ([]AddressRange, error) {
	var image []byte
	var ranges []AddressRange

	for _, d := range m.Datas {
		offset, err := decodeDataOffset(d.OffsetExpr)
		if err != nil {
			return nil, err
		}
		end := offset + uint32(len(d.Payload))
		if uint64(end) > uint64(len(image)) {
			grown := make([]byte, end)
			copy(grown, image)
			image = grown
		}
		copy(image[offset:end], d.Payload)
		ranges = append(ranges, AddressRange{Start: offset, End: end})
	}

	p.dataImage = image
	p.dataRanges = ranges
	p.hasStream = true
	return ranges, nil
}

// decodeDataOffset skips the leading i32.const opcode byte of a Data
// segment's offset expression and reads the unsigned LEB128 offset.
func decodeDataOffset(offsetExpr []byte) (uint32, error) {
	if len(offsetExpr) < 2 {
		return 0, ErrEmptyInitExpr
	}
	r := reader.New(offsetExpr[1:])
	return r.ReadULEB32()
}

// DataRanges returns the AddressRanges recorded by the last CreateDataStream
// call.
func (p *Program) DataRanges() []AddressRange {
	return p.dataRanges
}

// DataAt returns the merged image's bytes in [start, end).
func (p *Program) DataAt(start, end uint32) ([]byte, error) {
	if !p.hasStream {
		return nil, ErrNoDataStream
	}
	if uint64(end) > uint64(len(p.dataImage)) || start > end {
		return nil, ErrNoDataStream
	}
	return p.dataImage[start:end], nil
}

// RangeForOffset reports the AddressRange (if any) containing offset.
func (p *Program) RangeForOffset(offset uint32) (AddressRange, bool) {
	for _, r := range p.dataRanges {
		if r.Contains(offset) {
			return r, true
		}
	}
	return AddressRange{}, false
}

const (
	printableLow  = 32
	printableHigh = 126
)

// ReadableDataInfo guesses the most plausible textual rendering of the data
// image at offset, per spec.md §4.3: an ANSI C string, else a UTF-16
// string, else a raw 32-bit hex integer. Requires CreateDataStream to have
// been called.
func (p *Program) ReadableDataInfo(offset uint32) (string, error) {
	if !p.hasStream {
		return "", ErrNoDataStream
	}

	if s, ok := p.tryAnsiString(offset); ok {
		return s, nil
	}
	if s, ok := p.tryWideString(offset); ok {
		return s, nil
	}
	return p.tryHexInt(offset)
}

func (p *Program) tryAnsiString(offset uint32) (string, bool) {
	var sb []byte
	i := offset
	for {
		if uint64(i) >= uint64(len(p.dataImage)) {
			return "", false
		}
		b := p.dataImage[i]
		if b == 0 {
			return string(sb), true
		}
		if b < printableLow || b > printableHigh {
			return "", false
		}
		sb = append(sb, b)
		i++
	}
}

func (p *Program) tryWideString(offset uint32) (string, bool) {
	var runes []rune
	i := uint64(offset)
	for {
		if i+2 > uint64(len(p.dataImage)) {
			return "", false
		}
		hi, lo := p.dataImage[i], p.dataImage[i+1]
		unit := uint16(hi)<<8 | uint16(lo)
		if unit == 0 {
			return string(runes), true
		}
		if unit < printableLow || unit > printableHigh {
			return "", false
		}
		runes = append(runes, rune(unit))
		i += 2
	}
}

// tryHexInt is the last-resort guess: the 32-bit little-endian integer at
// offset. Unlike the ANSI/UTF-16 probes, which give up when they run off
// the end of the image, it treats any missing trailing bytes as zero
// instead of failing outright.
func (p *Program) tryHexInt(offset uint32) (string, error) {
	if uint64(offset) >= uint64(len(p.dataImage)) {
		return "", ErrNoDataStream
	}
	var word [4]byte
	avail := uint64(len(p.dataImage)) - uint64(offset)
	if avail > 4 {
		avail = 4
	}
	copy(word[:avail], p.dataImage[offset:uint64(offset)+avail])
	v := uint32(word[0]) | uint32(word[1])<<8 | uint32(word[2])<<16 | uint32(word[3])<<24
	return fmt.Sprintf("%Xh", v), nil
}

// FindCallRef describes the directed edge a `call` instruction at offset in
// caller creates toward calleeIndex, per spec.md §4.3
// (find_refs_from_call_fn). direction_down is true when the callee's index
// is greater than the caller's.
func (p *Program) FindCallRef(caller *Function, calleeIndex uint32, offset uint32) (CrossReference, error) {
	if calleeIndex >= uint32(len(p.Functions)) {
		return CrossReference{}, ErrCalleeOutOfRange
	}
	return CrossReference{
		DirectionDown: calleeIndex > caller.Index,
		IsDestination: false,
		Offset:        offset,
		Target:        FunctionRef{Index: calleeIndex},
	}, nil
}
