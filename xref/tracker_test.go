package xref

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertexdlt/wasmdec/disasm"
)

func TestTrackerRecordsInOrder(t *testing.T) {
	tr := NewTracker()
	tr.Record(0, disasm.CrossReference{Offset: 4, Target: disasm.FunctionRef{Index: 1}, DirectionDown: true})
	tr.Record(0, disasm.CrossReference{Offset: 9, Target: disasm.FunctionRef{Index: 2}, DirectionDown: true})
	tr.Record(1, disasm.CrossReference{Offset: 2, Target: disasm.FunctionRef{Index: 0}, DirectionDown: false})

	require.Len(t, tr.Edges(), 3)
	require.Len(t, tr.CalleesOf(0), 2)
	require.Len(t, tr.CallersOf(0), 1)
	require.Equal(t, uint32(2), tr.CalleesOf(0)[1].Target.Index)
}
