package passes

import (
	"fmt"

	"github.com/btorlabs/btoropt/internal/ir"
)

// RenameInputs renames the i-th input in file order to inp_<i>.
type RenameInputs struct{}

func (*RenameInputs) ID() string { return "rename-inputs" }

// Run rebuilds the sequence non-destructively: inputs are replaced with
// renamed copies, every other instruction passes through unchanged.
// Lids are untouched, so consumers referring to an input by lid are
// unaffected.
func (*RenameInputs) Run(p []*ir.Instruction) ([]*ir.Instruction, error) {
	res := make([]*ir.Instruction, 0, len(p))
	i := 0
	for _, inst := range p {
		if inst.Op == ir.Input {
			renamed := *inst
			renamed.Name = fmt.Sprintf("inp_%d", i)
			res = append(res, &renamed)
			i++
		} else {
			res = append(res, inst)
		}
	}
	return res, nil
}

func (r *RenameInputs) RunOnProgram(prog *ir.Program) (*ir.Program, error) {
	return mapModules(prog, r.Run)
}
