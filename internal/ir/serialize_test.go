package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringRoundTrip(t *testing.T) {
	t.Parallel()
	lines := []string{
		"1 sort bitvector 8",
		"2 input 1 a",
		"3 constd 1 200",
		"4 consth 1 ff",
		"5 const 1 1011",
		"6 state 1 acc",
		"7 init 1 6 3",
		"8 add 1 6 2",
		"9 next 1 6 8",
		"10 slice 1 8 7 4",
		"11 uext 1 10 4 widened",
		"12 sort bitvector 1",
		"13 eq 12 8 3",
		"14 constraint 13",
		"15 bad 13",
		"16 output 8",
	}

	var p []*Instruction
	for _, line := range lines {
		inst, err := Build(line)
		require.NoError(t, err)
		require.NoError(t, inst.Resolve(func(id int) *Instruction { return Find(p, id) }))
		p = append(p, inst)
	}

	assert.Equal(t, strings.Join(lines, "\n"), Serialize(p))
}

func TestStringRendersCurrentOperandLids(t *testing.T) {
	t.Parallel()
	sort := NewSort(1, 4)
	inst, err := Build("2 input 1 x")
	require.NoError(t, err)
	require.NoError(t, inst.Resolve(func(int) *Instruction { return sort }))

	sort.LID = 7
	assert.Equal(t, "2 input 7 x", inst.String())
}

func TestStringRef(t *testing.T) {
	t.Parallel()
	ref, err := Build("3 ref counter 5")
	require.NoError(t, err)

	assert.Equal(t, "3 ref counter 5", ref.String())

	ref.Target = &Instruction{LID: 9, Op: Output}
	assert.Equal(t, "3 ref counter 9", ref.String())
}
