// Package parser converts btor2 line sequences into instruction
// sequences. Two strategies exist for flat programs: Parse resolves
// operands eagerly in file order, ParseDeferred builds first and
// resolves in a second phase so forward references are tolerated.
// ParseProgram handles the modular block extension.
package parser

import (
	"fmt"
	"strings"

	"github.com/btorlabs/btoropt/internal/ir"
	"github.com/btorlabs/btoropt/internal/types"
)

// Parse reads a flat btor2 program with eager sequential resolution:
// every operand is looked up among the already-constructed instructions,
// so lines must appear in an order consistent with a topological sort of
// the operand graph. A forward reference fails with an
// UnresolvedReferenceError.
func Parse(lines []string) ([]*ir.Instruction, error) {
	var p []*ir.Instruction
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if skippable(line) {
			continue
		}
		inst, err := buildStandard(line)
		if err != nil {
			return nil, err
		}
		if ir.Find(p, inst.LID) != nil {
			return nil, &types.SyntaxError{Line: line, Msg: fmt.Sprintf("duplicate lid %d", inst.LID)}
		}
		if err := inst.Resolve(func(id int) *ir.Instruction { return ir.Find(p, id) }); err != nil {
			return nil, err
		}
		p = append(p, inst)
	}
	return p, nil
}

// buildStandard builds one line and rejects the custom modular tags,
// which are only legal inside module/contract blocks.
func buildStandard(line string) (*ir.Instruction, error) {
	inst, err := ir.Build(line)
	if err != nil {
		return nil, err
	}
	if !inst.Standard() {
		return nil, &types.SyntaxError{Line: line, Msg: "unsupported operation type: " + inst.Op.String()}
	}
	return inst, nil
}

// skippable reports whether the line carries no instruction: blank lines
// and full-line comments introduced by ';'.
func skippable(trimmed string) bool {
	return trimmed == "" || strings.HasPrefix(trimmed, ";")
}
