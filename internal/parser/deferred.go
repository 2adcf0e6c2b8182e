package parser

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/btorlabs/btoropt/internal/ir"
	"github.com/btorlabs/btoropt/internal/types"
)

// ParseDeferred reads a flat btor2 program with deferred two-phase
// resolution. Phase 1 builds every instruction independently, recording
// operand lids as placeholders; phase 2 assembles the complete
// lid lookup table; phase 3 rewrites every operand list from the table.
// Lines may therefore appear in any order, including forward references.
// Phases 1 and 3 run data-parallel: each instruction's transformation
// only depends on the immutable table built between them.
func ParseDeferred(lines []string) ([]*ir.Instruction, error) {
	var kept []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !skippable(line) {
			kept = append(kept, line)
		}
	}

	// Phase 1: independent per-line construction.
	p := make([]*ir.Instruction, len(kept))
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i, line := range kept {
		i, line := i, line
		g.Go(func() error {
			inst, err := buildStandard(line)
			if err != nil {
				return err
			}
			p[i] = inst
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Phase 2: complete lid table. Must finish before any resolution
	// starts; phase 3 relies on it being immutable.
	table := make(map[int]*ir.Instruction, len(p))
	for _, inst := range p {
		if table[inst.LID] != nil {
			return nil, &types.SyntaxError{Line: inst.String(), Msg: fmt.Sprintf("duplicate lid %d", inst.LID)}
		}
		table[inst.LID] = inst
	}

	// Phase 3: rewrite placeholders, independently per instruction.
	g = new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for _, inst := range p {
		inst := inst
		g.Go(func() error {
			return inst.Resolve(func(id int) *ir.Instruction { return table[id] })
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}
