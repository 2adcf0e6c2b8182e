package passes

import (
	"github.com/btorlabs/btoropt/internal/ir"
)

// CheckLidOrdering normalizes lids to instruction order: after the pass
// every instruction's lid equals its zero-based position.
type CheckLidOrdering struct{}

func (*CheckLidOrdering) ID() string { return "check-lid-ordering" }

func (*CheckLidOrdering) Run(p []*ir.Instruction) ([]*ir.Instruction, error) {
	for i, inst := range p {
		inst.LID = i
	}
	return p, nil
}

func (pass *CheckLidOrdering) RunOnProgram(prog *ir.Program) (*ir.Program, error) {
	return mapModules(prog, pass.Run)
}
