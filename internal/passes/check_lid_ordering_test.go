package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLidOrdering(t *testing.T) {
	t.Parallel()
	p := parse(t,
		"10 sort bitvector 4",
		"20 input 10 a",
		"30 not 10 20",
	)

	out, err := (&CheckLidOrdering{}).Run(p)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, inst := range out {
		assert.Equal(t, i, inst.LID)
	}
	// Operand wiring survives the renumbering.
	assert.Same(t, out[1], out[2].Operands[1])
}
