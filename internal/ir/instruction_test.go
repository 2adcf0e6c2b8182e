package ir

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btorlabs/btoropt/internal/types"
)

func TestBuild(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		line string
		check func(t *testing.T, inst *Instruction)
	}{
		{
			name: "sort",
			line: "1 sort bitvector 32",
			check: func(t *testing.T, inst *Instruction) {
				assert.Equal(t, 1, inst.LID)
				assert.Equal(t, Sort, inst.Op)
				assert.Equal(t, "bitvector", inst.SortType)
				assert.Equal(t, 32, inst.Width)
				assert.Empty(t, inst.Unresolved)
			},
		},
		{
			name: "named input",
			line: "2 input 1 clk",
			check: func(t *testing.T, inst *Instruction) {
				assert.Equal(t, Input, inst.Op)
				assert.Equal(t, "clk", inst.Name)
				assert.Equal(t, []int{1}, inst.Unresolved)
			},
		},
		{
			name: "unnamed input gets synthesized name",
			line: "2 input 1",
			check: func(t *testing.T, inst *Instruction) {
				assert.Equal(t, "input_2", inst.Name)
			},
		},
		{
			name: "decimal constant",
			line: "3 constd 1 42",
			check: func(t *testing.T, inst *Instruction) {
				assert.Equal(t, Constd, inst.Op)
				assert.Zero(t, inst.Value.Cmp(big.NewInt(42)))
			},
		},
		{
			name: "hex constant",
			line: "3 consth 1 ff",
			check: func(t *testing.T, inst *Instruction) {
				assert.Zero(t, inst.Value.Cmp(big.NewInt(255)))
			},
		},
		{
			name: "binary constant",
			line: "3 const 1 1010",
			check: func(t *testing.T, inst *Instruction) {
				assert.Zero(t, inst.Value.Cmp(big.NewInt(10)))
			},
		},
		{
			name: "slice records bit bounds",
			line: "4 slice 1 2 7 3",
			check: func(t *testing.T, inst *Instruction) {
				assert.Equal(t, []int{1, 2}, inst.Unresolved)
				assert.Equal(t, 7, inst.High)
				assert.Equal(t, 3, inst.Low)
				assert.Equal(t, 5, inst.SliceWidth())
			},
		},
		{
			name: "binary op records three operands",
			line: "5 add 1 2 3",
			check: func(t *testing.T, inst *Instruction) {
				assert.Equal(t, Add, inst.Op)
				assert.Equal(t, []int{1, 2, 3}, inst.Unresolved)
			},
		},
		{
			name: "unary op records two operands",
			line: "5 not 1 2",
			check: func(t *testing.T, inst *Instruction) {
				assert.Equal(t, Not, inst.Op)
				assert.Equal(t, []int{1, 2}, inst.Unresolved)
			},
		},
		{
			name: "ite records four operands",
			line: "6 ite 1 2 3 4",
			check: func(t *testing.T, inst *Instruction) {
				assert.Equal(t, []int{1, 2, 3, 4}, inst.Unresolved)
			},
		},
		{
			name: "uext with extension width and name",
			line: "7 uext 1 2 0 alias",
			check: func(t *testing.T, inst *Instruction) {
				assert.Equal(t, 0, inst.Ext)
				assert.Equal(t, "alias", inst.Name)
				assert.True(t, inst.Renaming())
			},
		},
		{
			name: "sext widening is not a renaming",
			line: "7 sext 1 2 8",
			check: func(t *testing.T, inst *Instruction) {
				assert.Equal(t, 8, inst.Ext)
				assert.False(t, inst.Renaming())
			},
		},
		{
			name: "inst names a module",
			line: "8 inst counter",
			check: func(t *testing.T, inst *Instruction) {
				assert.Equal(t, Inst, inst.Op)
				assert.Equal(t, "counter", inst.ModName)
				assert.False(t, inst.Standard())
			},
		},
		{
			name: "ref names a module and target lid",
			line: "9 ref counter 3",
			check: func(t *testing.T, inst *Instruction) {
				assert.Equal(t, Ref, inst.Op)
				assert.Equal(t, "counter", inst.ModName)
				assert.Equal(t, 3, inst.TargetLID)
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			inst, err := Build(tt.line)
			require.NoError(t, err)
			tt.check(t, inst)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		line string
	}{
		{"empty line", ""},
		{"single field", "1"},
		{"zero lid", "0 sort bitvector 1"},
		{"negative lid", "-3 sort bitvector 1"},
		{"non-numeric lid", "x sort bitvector 1"},
		{"unknown opcode", "1 frobnicate 2 3"},
		{"sort with bad type", "1 sort matrix 4"},
		{"too few fields", "1 add 2 3"},
		{"non-numeric operand", "2 input one"},
		{"constant in wrong base", "3 constd 1 ff"},
		{"slice bounds inverted", "4 slice 1 2 3 7"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Build(tt.line)
			require.Error(t, err)
			var syntaxErr *types.SyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	sort := NewSort(1, 8)
	input, err := Build("2 input 1 x")
	require.NoError(t, err)

	t.Run("rewrites placeholders into operands", func(t *testing.T) {
		require.NoError(t, input.Resolve(func(id int) *Instruction {
			if id == 1 {
				return sort
			}
			return nil
		}))
		require.Len(t, input.Operands, 1)
		assert.Same(t, sort, input.Operands[0])
		assert.Empty(t, input.Unresolved)
	})

	t.Run("unknown lid", func(t *testing.T) {
		add, err := Build("3 add 1 2 9")
		require.NoError(t, err)
		err = add.Resolve(func(id int) *Instruction {
			switch id {
			case 1:
				return sort
			case 2:
				return input
			}
			return nil
		})
		var refErr *types.UnresolvedReferenceError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, 9, refErr.LID)
	})

	t.Run("non-sort in sort position", func(t *testing.T) {
		bad, err := Build("3 not 2 2")
		require.NoError(t, err)
		err = bad.Resolve(func(int) *Instruction { return input })
		var refErr *types.UnresolvedReferenceError
		require.ErrorAs(t, err, &refErr)
	})
}

func TestEqual(t *testing.T) {
	t.Parallel()

	build := func(lines ...string) []*Instruction {
		p := make([]*Instruction, 0, len(lines))
		for _, line := range lines {
			inst, err := Build(line)
			require.NoError(t, err)
			require.NoError(t, inst.Resolve(func(id int) *Instruction { return Find(p, id) }))
			p = append(p, inst)
		}
		return p
	}

	a := build("1 sort bitvector 4", "2 input 1 x", "3 constd 1 7", "4 add 1 2 3")
	b := build("10 sort bitvector 4", "20 input 10 x", "30 constd 10 7", "40 add 10 20 30")

	t.Run("lids are ignored", func(t *testing.T) {
		for i := range a {
			assert.True(t, a[i].Equal(b[i]), "instruction %d", i)
		}
	})

	t.Run("membership by structure", func(t *testing.T) {
		assert.True(t, b[3].In(a))
	})

	t.Run("differing names are unequal", func(t *testing.T) {
		c := build("1 sort bitvector 4", "2 input 1 y")
		assert.False(t, a[1].Equal(c[1]))
	})

	t.Run("differing widths are unequal", func(t *testing.T) {
		c := build("1 sort bitvector 8", "2 input 1 x")
		assert.False(t, a[0].Equal(c[0]))
		assert.False(t, a[1].Equal(c[1]))
	})

	t.Run("differing constants are unequal", func(t *testing.T) {
		c := build("1 sort bitvector 4", "3 constd 1 8")
		assert.False(t, a[2].Equal(c[1]))
	})
}
