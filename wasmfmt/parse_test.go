package wasmfmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEmptyModule(t *testing.T) {
	b := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	m, err := ParseModule(b)
	require.NoError(t, err)
	require.Empty(t, m.Codes)
	require.Empty(t, m.Globals)
}

func TestParseBadMagicFails(t *testing.T) {
	b := []byte{0x00, 0x61, 0x73, 0x6E, 0x01, 0x00, 0x00, 0x00}
	_, err := ParseModule(b)
	require.ErrorIs(t, err, ErrInvalidModule)
}

func TestParseBadVersionFails(t *testing.T) {
	b := []byte{0x00, 0x61, 0x73, 0x6D, 0x02, 0x00, 0x00, 0x00}
	_, err := ParseModule(b)
	require.ErrorIs(t, err, ErrInvalidModule)
}

// buildAddModule constructs the one-exported-add scenario from spec.md §8:
// type (i32,i32)->i32; one function get_local 0, get_local 1, i32.add, end;
// exported as "add".
func buildAddModule(t *testing.T) []byte {
	t.Helper()
	b := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

	// Type section: id=1
	typeSec := []byte{
		0x01,             // count
		0x60,             // func form
		0x02, 0x7F, 0x7F, // 2 params, i32 i32
		0x01, 0x7F, // 1 return, i32
	}
	b = append(b, section(1, typeSec)...)

	// Function section: id=3
	funcSec := []byte{0x01, 0x00}
	b = append(b, section(3, funcSec)...)

	// Export section: id=7
	exportSec := []byte{
		0x01,                           // count
		0x03, 'a', 'd', 'd', 0x00, 0x00, // name "add", kind func, idx 0
	}
	b = append(b, section(7, exportSec)...)

	// Code section: id=10
	body := []byte{0x20, 0x00, 0x20, 0x01, 0x6A, 0x0B}
	code := append([]byte{0x00}, body...) // 0 local groups, then body
	codeEntry := append(uleb(uint32(len(code))), code...)
	codeSec := append(uleb(1), codeEntry...)
	b = append(b, section(10, codeSec)...)

	return b
}

func section(id byte, payload []byte) []byte {
	out := []byte{id}
	out = append(out, uleb(uint32(len(payload)))...)
	out = append(out, payload...)
	return out
}

func uleb(v uint32) []byte {
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

func TestParseOneExportedAdd(t *testing.T) {
	b := buildAddModule(t)
	m, err := ParseModule(b)
	require.NoError(t, err)
	require.Len(t, m.Types, 1)
	require.Equal(t, []ValueType{ValueTypeI32, ValueTypeI32}, m.Types[0].Params)
	require.True(t, m.Types[0].HasReturn)
	require.Equal(t, ValueTypeI32, m.Types[0].ReturnType)
	require.Len(t, m.Codes, 1)
	require.Equal(t, []byte{0x20, 0x00, 0x20, 0x01, 0x6A, 0x0B}, m.Codes[0].Body)
	require.Len(t, m.Exports, 1)
	require.Equal(t, "add", m.Exports[0].Name)
	require.Equal(t, uint32(0), m.Exports[0].Index)
}
