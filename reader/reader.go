// Package reader implements the byte-addressable binary cursor the rest of
// the decompilation pipeline reads Wasm bytes through: little/big-endian
// scalar reads, LEB128 signed/unsigned integers, and null-terminated
// (optionally 4-byte aligned) strings.
package reader

import (
	"encoding/binary"
	"math"
)

// SeekOrigin selects the reference point for Seek.
type SeekOrigin int

const (
	// SeekBegin seeks relative to the start of the stream.
	SeekBegin SeekOrigin = iota
	// SeekCurrent seeks relative to the current position.
	SeekCurrent
	// SeekEnd seeks relative to the end of the stream.
	SeekEnd
)

// Reader is a byte-backed cursor over a Wasm module's bytes.
type Reader struct {
	b            []byte
	pos          uint64
	littleEndian bool
}

// New constructs a Reader over b, positioned at the start, little-endian.
func New(b []byte) *Reader {
	return &Reader{b: b, pos: 0, littleEndian: true}
}

// SetEndian toggles the byte order used by the multi-byte scalar reads.
func (r *Reader) SetEndian(littleEndian bool) {
	r.littleEndian = littleEndian
}

// Pos returns the current cursor position.
func (r *Reader) Pos() uint64 { return r.pos }

// Len returns the total stream length.
func (r *Reader) Len() uint64 { return uint64(len(r.b)) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() uint64 { return r.Len() - r.pos }

func (r *Reader) take(n uint64) ([]byte, error) {
	if r.pos+n > r.Len() {
		return nil, ErrUnexpectedEOF
	}
	b := r.b[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU8 reads a single unsigned byte.
func (r *Reader) ReadU8() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI8 reads a single signed byte.
func (r *Reader) ReadI8() (int8, error) {
	b, err := r.ReadU8()
	return int8(b), err
}

// ReadChar reads a single byte, interpreted as a character.
func (r *Reader) ReadChar() (byte, error) {
	return r.ReadU8()
}

func (r *Reader) order() binary.ByteOrder {
	if r.littleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// ReadU16 reads an unsigned 16-bit scalar per the current endianness.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return r.order().Uint16(b), nil
}

// ReadI16 reads a signed 16-bit scalar per the current endianness.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU32 reads an unsigned 32-bit scalar per the current endianness.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return r.order().Uint32(b), nil
}

// ReadI32 reads a signed 32-bit scalar per the current endianness.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadU64 reads an unsigned 64-bit scalar per the current endianness.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return r.order().Uint64(b), nil
}

// ReadI64 reads a signed 64-bit scalar per the current endianness.
func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadF32 bitwise-reinterprets a ReadU32 as an IEEE-754 single.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadF64 bitwise-reinterprets a ReadU64 as an IEEE-754 double.
func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// readLEB128 accumulates 7 low bits per byte until the high bit clears.
// n is the target integer width in bits; it bounds how many continuation
// bytes are legal before the encoding is rejected as malformed.
func (r *Reader) readLEB128(n uint32, signed bool) (int64, error) {
	var (
		shift   uint32
		bytecnt uint32
		result  int64
		sign    int64 = -1
		last    byte
	)
	maxBytes := (n + 6) / 7
	for {
		b, err := r.ReadU8()
		if err != nil {
			return 0, err
		}
		last = b
		result |= (int64(b) & 0x7f) << shift
		shift += 7
		sign <<= 7
		bytecnt++
		if b&0x80 == 0 {
			break
		}
		if bytecnt >= maxBytes {
			return 0, ErrInvalidLEB128
		}
	}
	if signed && shift < 64 && last&0x40 != 0 {
		result |= sign
	}
	return result, nil
}

// ReadULEB32 reads an unsigned 32-bit LEB128 integer.
func (r *Reader) ReadULEB32() (uint32, error) {
	v, err := r.readLEB128(32, false)
	return uint32(v), err
}

// ReadSLEB32 reads a signed 32-bit LEB128 integer, sign-extended.
func (r *Reader) ReadSLEB32() (int32, error) {
	v, err := r.readLEB128(32, true)
	return int32(v), err
}

// ReadULEB64 reads an unsigned 64-bit LEB128 integer.
func (r *Reader) ReadULEB64() (uint64, error) {
	v, err := r.readLEB128(64, false)
	return uint64(v), err
}

// ReadSLEB64 reads a signed 64-bit LEB128 integer, sign-extended.
func (r *Reader) ReadSLEB64() (int64, error) {
	return r.readLEB128(64, true)
}

// ReadCString reads bytes until a NUL terminator. When aligned, the cursor
// advances to the next multiple of 4 afterward.
func (r *Reader) ReadCString(aligned bool) (string, error) {
	start := r.pos
	for {
		b, err := r.ReadU8()
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
	}
	s := string(r.b[start : r.pos-1])
	if aligned {
		if err := r.alignTo4(); err != nil {
			return "", err
		}
	}
	return s, nil
}

// ReadCWString reads 16-bit units until a zero unit. When aligned, the
// cursor advances to the next multiple of 4 afterward.
func (r *Reader) ReadCWString(aligned bool) (string, error) {
	var units []uint16
	for {
		u, err := r.ReadI16()
		if err != nil {
			return "", err
		}
		if u == 0 {
			break
		}
		units = append(units, uint16(u))
	}
	runes := make([]rune, len(units))
	for i, u := range units {
		runes[i] = rune(u)
	}
	s := string(runes)
	if aligned {
		if err := r.alignTo4(); err != nil {
			return "", err
		}
	}
	return s, nil
}

func (r *Reader) alignTo4() error {
	rem := r.pos % 4
	if rem == 0 {
		return nil
	}
	pad := 4 - rem
	if r.pos+pad > r.Len() {
		return ErrUnalignedTail
	}
	r.pos += pad
	return nil
}

// Seek repositions the cursor relative to origin, failing if the result
// would fall outside [0, Len()].
func (r *Reader) Seek(offset int64, origin SeekOrigin) error {
	var base int64
	switch origin {
	case SeekBegin:
		base = 0
	case SeekCurrent:
		base = int64(r.pos)
	case SeekEnd:
		base = int64(r.Len())
	}
	target := base + offset
	if target < 0 || target > int64(r.Len()) {
		return ErrInvalidSeek
	}
	r.pos = uint64(target)
	return nil
}

// ReadBytes reads exactly n raw bytes.
func (r *Reader) ReadBytes(n uint64) ([]byte, error) {
	return r.take(n)
}

// Rest returns every unread byte without advancing the cursor.
func (r *Reader) Rest() []byte {
	return r.b[r.pos:]
}
