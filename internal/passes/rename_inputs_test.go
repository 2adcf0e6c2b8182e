package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btorlabs/btoropt/internal/ir"
)

func TestRenameInputs(t *testing.T) {
	t.Parallel()
	p := parse(t,
		"1 sort bitvector 4",
		"2 input 1 a",
		"3 input 1 b",
		"4 add 1 2 3",
		"5 input 1 c",
	)

	out, err := (&RenameInputs{}).Run(p)
	require.NoError(t, err)
	require.Len(t, out, 5)

	assert.Equal(t, "inp_0", out[1].Name)
	assert.Equal(t, "inp_1", out[2].Name)
	assert.Equal(t, "inp_2", out[4].Name)

	// The originals stay untouched; consumers keep pointing at them.
	assert.Equal(t, "a", p[1].Name)
	assert.Same(t, p[1], out[3].Operands[1])
	assert.Equal(t, 2, out[1].LID)
}

func TestRenameInputsOnProgram(t *testing.T) {
	t.Parallel()
	m1 := &ir.Module{Name: "a", Body: parse(t, "1 sort bitvector 1", "2 input 1 x")}
	m2 := &ir.Module{Name: "b", Body: parse(t, "1 sort bitvector 1", "2 input 1 y")}
	prog, err := ir.NewProgram([]*ir.Module{m1, m2}, nil)
	require.NoError(t, err)

	out, err := (&RenameInputs{}).RunOnProgram(prog)
	require.NoError(t, err)
	require.Len(t, out.Modules, 2)

	// Numbering restarts per module.
	assert.Equal(t, "inp_0", out.Modules[0].Body[1].Name)
	assert.Equal(t, "inp_0", out.Modules[1].Body[1].Name)
	assert.Equal(t, "a", out.Modules[0].Name)
	assert.Equal(t, "b", out.Modules[1].Name)
}
