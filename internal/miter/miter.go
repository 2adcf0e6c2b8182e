// Package miter combines two flat btor2 programs implementing the same
// interface into one program whose single bad-state property is
// reachable exactly when the two designs disagree on their monitored
// output. The result is the input to a logical equivalence check run by
// an external model checker.
package miter

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/btorlabs/btoropt/internal/ir"
	"github.com/btorlabs/btoropt/internal/types"
)

// Merge builds the miter of p1 and p2. Both programs must be fully
// resolved, declare matching inputs and end in a single output
// instruction. The merged program keeps p1's body, appends p2's body
// renumbered past p1's highest lid with p2's inputs redirected onto
// p1's, drops both outputs, and closes with a 1-bit sort, a neq over
// the two output values and a bad keyed on it.
func Merge(p1, p2 []*ir.Instruction) ([]*ir.Instruction, error) {
	out1, err := takeOutput(p1)
	if err != nil {
		return nil, errors.Wrap(err, "first program")
	}
	out2, err := takeOutput(p2)
	if err != nil {
		return nil, errors.Wrap(err, "second program")
	}

	var inputs []*ir.Instruction
	for _, inst := range p1 {
		if inst.Op == ir.Input {
			inputs = append(inputs, inst)
		}
	}

	body1 := p1[:len(p1)-1]
	lid := 0
	for _, inst := range body1 {
		if inst.LID > lid {
			lid = inst.LID
		}
	}
	lid++

	// Every input of p2 must correspond to an input already declared by
	// p1; the match is explicit, by name and sort, never positional.
	redirect := make(map[*ir.Instruction]*ir.Instruction)
	for _, inst := range p2 {
		if inst.Op != ir.Input {
			continue
		}
		match := matchInput(inputs, inst)
		if match == nil {
			return nil, errors.Wrapf(
				&types.StructuralError{Msg: fmt.Sprintf("input %s of the second program has no matching input in the first", inst.Name)},
				"merging programs")
		}
		redirect[inst] = match
	}

	var body2 []*ir.Instruction
	for _, inst := range p2[:len(p2)-1] {
		if inst.Op == ir.Input {
			continue
		}
		for i, op := range inst.Operands {
			if match := redirect[op]; match != nil {
				inst.Operands[i] = match
			}
		}
		inst.LID = lid
		lid++
		body2 = append(body2, inst)
	}

	val1 := out1.Operands[0]
	val2 := out2.Operands[0]
	if match := redirect[val2]; match != nil {
		val2 = match
	}

	sort := ir.NewSort(lid, 1)
	neq := ir.NewNeq(lid+1, sort, val1, val2)
	bad := ir.NewBad(lid+2, neq)

	merged := make([]*ir.Instruction, 0, len(body1)+len(body2)+3)
	merged = append(merged, body1...)
	merged = append(merged, body2...)
	merged = append(merged, sort, neq, bad)
	return merged, nil
}

// takeOutput validates that the program's designated output is its last
// instruction and returns it.
func takeOutput(p []*ir.Instruction) (*ir.Instruction, error) {
	if len(p) == 0 {
		return nil, &types.StructuralError{Msg: "program is empty"}
	}
	out := p[len(p)-1]
	if out.Op != ir.Output {
		return nil, &types.StructuralError{Msg: fmt.Sprintf("program must end in an output, found %s", out.Op)}
	}
	return out, nil
}

// matchInput finds the input structurally equal to inp by name and sort
// (kind and width); lids play no part in the match.
func matchInput(inputs []*ir.Instruction, inp *ir.Instruction) *ir.Instruction {
	for _, candidate := range inputs {
		if candidate.Name == inp.Name && sortEqual(candidate.Operands[0], inp.Operands[0]) {
			return candidate
		}
	}
	return nil
}

func sortEqual(a, b *ir.Instruction) bool {
	return (a.SortType == "array") == (b.SortType == "array") && a.Width == b.Width
}
