package passes

import (
	"github.com/btorlabs/btoropt/internal/ir"
)

// InitAllStates gives every uninitialized state a zero initialization.
type InitAllStates struct{}

func (*InitAllStates) ID() string { return "init-all-states" }

// Run appends, immediately after each state lacking an init, a zero
// constant of the state's sort and an init wiring the two together. The
// whole output sequence is renumbered contiguously from 1.
func (*InitAllStates) Run(p []*ir.Instruction) ([]*ir.Instruction, error) {
	initialized := func(state *ir.Instruction) bool {
		for _, inst := range p {
			if inst.Op != ir.Init {
				continue
			}
			for _, op := range inst.Operands {
				if op == state || op.Equal(state) {
					return true
				}
			}
		}
		return false
	}

	res := make([]*ir.Instruction, 0, len(p))
	for _, inst := range p {
		res = append(res, inst)
		if inst.Op == ir.State && !initialized(inst) {
			sort := inst.Operands[0]
			zero := ir.NewConstd(0, sort, 0)
			res = append(res, zero, ir.NewInit(0, sort, inst, zero))
		}
	}
	renumber(res)
	return res, nil
}

func (pass *InitAllStates) RunOnProgram(prog *ir.Program) (*ir.Program, error) {
	return mapModules(prog, pass.Run)
}
