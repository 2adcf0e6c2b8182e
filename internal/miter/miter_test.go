package miter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btorlabs/btoropt/internal/ir"
	"github.com/btorlabs/btoropt/internal/parser"
	"github.com/btorlabs/btoropt/internal/types"
)

func parse(t *testing.T, lines ...string) []*ir.Instruction {
	t.Helper()
	p, err := parser.Parse(lines)
	require.NoError(t, err)
	return p
}

// Two implementations of the same doubling circuit: one shifts, one adds.
func doublers(t *testing.T) (p1, p2 []*ir.Instruction) {
	t.Helper()
	p1 = parse(t,
		"1 sort bitvector 8",
		"2 input 1 a",
		"3 constd 1 1",
		"4 sll 1 2 3",
		"5 output 4",
	)
	p2 = parse(t,
		"1 sort bitvector 8",
		"2 input 1 a",
		"3 add 1 2 2",
		"4 output 3",
	)
	return p1, p2
}

func TestMerge(t *testing.T) {
	t.Parallel()
	p1, p2 := doublers(t)
	merged, err := Merge(p1, p2)
	require.NoError(t, err)

	// p1 minus its output, p2 minus its output and shared inputs, plus
	// the 1-bit sort, the disagreement neq and the bad marker.
	require.Len(t, merged, (len(p1)-1)+(len(p2)-2)+3)

	n := len(merged)
	sort, neq, bad := merged[n-3], merged[n-2], merged[n-1]
	require.Equal(t, ir.Sort, sort.Op)
	assert.Equal(t, 1, sort.Width)
	require.Equal(t, ir.Neq, neq.Op)
	require.Equal(t, ir.Bad, bad.Op)
	assert.Same(t, neq, bad.Operands[0])

	// The neq compares the two former output values.
	assert.Same(t, p1[3], neq.Operands[1])
	assert.Same(t, p2[2], neq.Operands[2])

	// p2's body reads p1's input after the merge.
	add := p2[2]
	assert.Same(t, p1[1], add.Operands[1])
	assert.Same(t, p1[1], add.Operands[2])

	// Lids stay unique and ordered past p1's range.
	seen := make(map[int]bool)
	for _, inst := range merged {
		assert.False(t, seen[inst.LID], "duplicate lid %d", inst.LID)
		seen[inst.LID] = true
	}

	// No output instruction survives.
	for _, inst := range merged {
		assert.NotEqual(t, ir.Output, inst.Op)
	}
}

func TestMergeSerializes(t *testing.T) {
	t.Parallel()
	p1, p2 := doublers(t)
	merged, err := Merge(p1, p2)
	require.NoError(t, err)

	// The miter must itself be a valid flat program.
	reparsed, err := parser.Parse(strings.Split(ir.Serialize(merged), "\n"))
	require.NoError(t, err)
	assert.Len(t, reparsed, len(merged))
}

func TestMergeErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing output", func(t *testing.T) {
		p1 := parse(t, "1 sort bitvector 8", "2 input 1 a")
		_, p2 := doublers(t)
		_, err := Merge(p1, p2)
		var structErr *types.StructuralError
		require.ErrorAs(t, err, &structErr)
		assert.Contains(t, err.Error(), "first program")
	})

	t.Run("empty program", func(t *testing.T) {
		_, p2 := doublers(t)
		_, err := Merge(nil, p2)
		var structErr *types.StructuralError
		require.ErrorAs(t, err, &structErr)
	})

	t.Run("input name mismatch", func(t *testing.T) {
		p1, _ := doublers(t)
		p2 := parse(t,
			"1 sort bitvector 8",
			"2 input 1 b",
			"3 add 1 2 2",
			"4 output 3",
		)
		_, err := Merge(p1, p2)
		var structErr *types.StructuralError
		require.ErrorAs(t, err, &structErr)
		assert.Contains(t, err.Error(), "b")
	})

	t.Run("input width mismatch", func(t *testing.T) {
		p1, _ := doublers(t)
		p2 := parse(t,
			"1 sort bitvector 16",
			"2 input 1 a",
			"3 add 1 2 2",
			"4 output 3",
		)
		_, err := Merge(p1, p2)
		var structErr *types.StructuralError
		require.ErrorAs(t, err, &structErr)
	})
}
