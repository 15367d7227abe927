package reader

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeULEB(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			break
		}
	}
	return out
}

func encodeSLEB(v int64) []byte {
	var out []byte
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

func TestULEB32RoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 300, math.MaxUint32}
	for _, v := range values {
		r := New(encodeULEB(uint64(v)))
		got, err := r.ReadULEB32()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestSLEB32RoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 63, -64, 127, -128, math.MinInt32, math.MaxInt32}
	for _, v := range values {
		r := New(encodeSLEB(int64(v)))
		got, err := r.ReadSLEB32()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestSLEB64RoundTrip(t *testing.T) {
	values := []int64{0, -1, math.MinInt64, math.MaxInt64, 1 << 40, -(1 << 40)}
	for _, v := range values {
		r := New(encodeSLEB(v))
		got, err := r.ReadSLEB64()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestReadU32LittleEndian(t *testing.T) {
	r := New([]byte{0x00, 0x61, 0x73, 0x6d})
	v, err := r.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x6d736100), v)
}

func TestUnexpectedEOF(t *testing.T) {
	r := New([]byte{0x01})
	_, err := r.ReadU32()
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestReadCStringAligned(t *testing.T) {
	r := New([]byte{'h', 'i', 0, 0, 0xAA})
	s, err := r.ReadCString(true)
	require.NoError(t, err)
	require.Equal(t, "hi", s)
	require.Equal(t, uint64(4), r.Pos())
}

func TestReadCStringUnaligned(t *testing.T) {
	r := New([]byte{'h', 'i', 0, 0xAA})
	s, err := r.ReadCString(false)
	require.NoError(t, err)
	require.Equal(t, "hi", s)
	require.Equal(t, uint64(3), r.Pos())
}

func TestSeekBounds(t *testing.T) {
	r := New([]byte{1, 2, 3})
	require.NoError(t, r.Seek(2, SeekBegin))
	require.Equal(t, uint64(2), r.Pos())
	require.Error(t, r.Seek(2, SeekCurrent))
	require.NoError(t, r.Seek(0, SeekEnd))
	require.Equal(t, uint64(3), r.Pos())
}

func TestReadF32F64(t *testing.T) {
	r := New([]byte{0, 0, 128, 63, 0, 0, 0, 0, 0, 0, 240, 63})
	f32, err := r.ReadF32()
	require.NoError(t, err)
	require.Equal(t, float32(1), f32)
	f64, err := r.ReadF64()
	require.NoError(t, err)
	require.Equal(t, float64(1), f64)
}
