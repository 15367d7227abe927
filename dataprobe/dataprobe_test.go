package dataprobe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertexdlt/wasmdec/disasm"
	"github.com/vertexdlt/wasmdec/wasmfmt"
)

func TestProbeStringAt(t *testing.T) {
	m := &wasmfmt.Module{
		Datas: []wasmfmt.Data{
			{OffsetExpr: []byte{0x41, 0x00, 0x0B}, Payload: []byte("hi\x00")},
		},
	}
	p := &disasm.Program{}
	_, err := p.CreateDataStream(m)
	require.NoError(t, err)

	probe := New(p)
	s, err := probe.StringAt(0)
	require.NoError(t, err)
	require.Equal(t, "hi", s)

	rng, ok := probe.RangeFor(1)
	require.True(t, ok)
	require.Equal(t, uint32(0), rng.Start)
}

func TestProbeHexIntShortTail(t *testing.T) {
	m := &wasmfmt.Module{
		Datas: []wasmfmt.Data{
			{OffsetExpr: []byte{0x41, 0x00, 0x0B}, Payload: []byte{0x01, 0x02}},
		},
	}
	p := &disasm.Program{}
	_, err := p.CreateDataStream(m)
	require.NoError(t, err)

	probe := New(p)
	s, err := probe.StringAt(0)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(s, "h"))
}
