package ir

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/btorlabs/btoropt/internal/types"
)

// Legal sort type tokens.
var sortTypes = map[string]bool{
	"bitvector": true,
	"bitvec":    true,
	"array":     true,
}

// Instruction is a single btor2 instruction. One tagged struct covers
// every opcode; the fields past Operands are specialization fields and
// only a subset is meaningful for any given opcode.
type Instruction struct {
	LID      int
	Op       Opcode
	Operands []*Instruction

	// Unresolved holds operand lids recorded at construction time, in
	// operand order. Resolve rewrites them into Operands; between Build
	// and Resolve the instruction is a placeholder-carrying value.
	Unresolved []int

	SortType string   // sort: bitvector | bitvec | array
	Width    int      // sort: width in bits
	Name     string   // input, state, uext, sext
	Value    *big.Int // constd, consth, const
	High     int      // slice
	Low      int      // slice
	Ext      int      // uext, sext: extension width

	ModName   string       // inst, ref: referenced module name
	TargetLID int          // ref: lid of the target inside ModName
	Target    *Instruction // ref: resolved target
}

// Standard reports whether the instruction is part of the btor2 spec.
func (inst *Instruction) Standard() bool {
	return inst.Op.Standard()
}

// Renaming reports whether the instruction is a zero-width uext/sext,
// which aliases its operand under a new name instead of widening it.
func (inst *Instruction) Renaming() bool {
	return (inst.Op == Uext || inst.Op == Sext) && inst.Ext == 0
}

// Build constructs an instruction from a single non-comment line. Operand
// references are recorded as lids in Unresolved; no lookup is performed,
// so lines can be built in any order. The opcode and field count are
// validated against the static opcode table.
func Build(line string) (*Instruction, error) {
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return nil, &types.SyntaxError{Line: line, Msg: "instruction must be of the form: <lid> <tag> <field>..."}
	}
	lid, err := strconv.Atoi(tokens[0])
	if err != nil || lid <= 0 {
		return nil, &types.SyntaxError{Line: line, Msg: fmt.Sprintf("instruction lid must be a positive integer, found %q", tokens[0])}
	}
	op, ok := opcodeByName[tokens[1]]
	if !ok {
		return nil, &types.SyntaxError{Line: line, Msg: "unsupported operation type: " + tokens[1]}
	}
	if len(tokens) < minFields[op] {
		return nil, &types.SyntaxError{Line: line, Msg: fmt.Sprintf("%s instruction expects at least %d fields", op, minFields[op]-1)}
	}

	inst := &Instruction{LID: lid, Op: op}

	num := func(tok string) (int, error) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return 0, &types.SyntaxError{Line: line, Msg: fmt.Sprintf("expected an integer field, found %q", tok)}
		}
		return n, nil
	}
	ids := func(toks ...string) error {
		for _, tok := range toks {
			id, err := num(tok)
			if err != nil {
				return err
			}
			inst.Unresolved = append(inst.Unresolved, id)
		}
		return nil
	}

	switch {
	case op == Sort:
		if !sortTypes[tokens[2]] {
			return nil, &types.SyntaxError{Line: line, Msg: "sort must be of type bitvector or array, found " + tokens[2]}
		}
		inst.SortType = tokens[2]
		if inst.Width, err = num(tokens[3]); err != nil {
			return nil, err
		}

	case op == Input || op == State:
		if err = ids(tokens[2]); err != nil {
			return nil, err
		}
		if len(tokens) >= 4 {
			inst.Name = tokens[3]
		} else {
			inst.Name = fmt.Sprintf("%s_%d", op, lid)
		}

	case op == Output || op == Bad || op == Constraint:
		if err = ids(tokens[2]); err != nil {
			return nil, err
		}

	case op == Zero || op == One || op == Ones:
		if err = ids(tokens[2]); err != nil {
			return nil, err
		}

	case op.IsConst():
		if err = ids(tokens[2]); err != nil {
			return nil, err
		}
		v, ok := new(big.Int).SetString(tokens[3], op.constBase())
		if !ok {
			return nil, &types.SyntaxError{Line: line, Msg: fmt.Sprintf("invalid base-%d constant %q", op.constBase(), tokens[3])}
		}
		inst.Value = v

	case op == Init || op == Next:
		if err = ids(tokens[2], tokens[3], tokens[4]); err != nil {
			return nil, err
		}

	case op == Slice:
		if err = ids(tokens[2], tokens[3]); err != nil {
			return nil, err
		}
		if inst.High, err = num(tokens[4]); err != nil {
			return nil, err
		}
		if inst.Low, err = num(tokens[5]); err != nil {
			return nil, err
		}
		if inst.High < inst.Low {
			return nil, &types.SyntaxError{Line: line, Msg: fmt.Sprintf("slice highbit %d below lowbit %d", inst.High, inst.Low)}
		}

	case op == Ite:
		if err = ids(tokens[2], tokens[3], tokens[4], tokens[5]); err != nil {
			return nil, err
		}

	case op.IsBinary():
		if err = ids(tokens[2], tokens[3], tokens[4]); err != nil {
			return nil, err
		}

	case op.IsUnary():
		if err = ids(tokens[2], tokens[3]); err != nil {
			return nil, err
		}

	case op == Uext || op == Sext:
		if err = ids(tokens[2], tokens[3]); err != nil {
			return nil, err
		}
		if inst.Ext, err = num(tokens[4]); err != nil {
			return nil, err
		}
		if len(tokens) >= 6 {
			inst.Name = tokens[5]
		} else {
			inst.Name = fmt.Sprintf("%s_%d", op, lid)
		}

	case op == Inst:
		inst.ModName = tokens[2]

	case op == Ref:
		inst.ModName = tokens[2]
		if inst.TargetLID, err = num(tokens[3]); err != nil {
			return nil, err
		}

	case op == Set:
		if err = ids(tokens[2], tokens[3], tokens[4]); err != nil {
			return nil, err
		}

	case op == Prec || op == Post:
		if err = ids(tokens[2]); err != nil {
			return nil, err
		}
	}

	return inst, nil
}

// sortFirst reports whether the opcode's first operand position must hold
// a sort declaration.
func (op Opcode) sortFirst() bool {
	switch {
	case op == Input || op == State:
		return true
	case op == Zero || op == One || op == Ones:
		return true
	case op.IsConst():
		return true
	case op == Init || op == Next || op == Slice || op == Ite:
		return true
	case op.IsBinary() || op.IsUnary():
		return true
	case op == Uext || op == Sext:
		return true
	}
	return false
}

// Resolve rewrites the recorded operand lids into instruction references
// using find, validating that sort positions hold sorts. find returns nil
// for an unknown lid. Ref instructions resolve against a foreign module
// body and are the modular parser's responsibility, not Resolve's.
func (inst *Instruction) Resolve(find func(int) *Instruction) error {
	if len(inst.Unresolved) == 0 {
		return nil
	}
	ops := make([]*Instruction, len(inst.Unresolved))
	for i, id := range inst.Unresolved {
		target := find(id)
		if target == nil {
			return &types.UnresolvedReferenceError{LID: id}
		}
		if i == 0 && inst.Op.sortFirst() && target.Op != Sort {
			return &types.UnresolvedReferenceError{
				LID: id,
				Msg: fmt.Sprintf("%s expects a sort, found %s", inst.Op, target.Op),
			}
		}
		ops[i] = target
	}
	inst.Operands = ops
	inst.Unresolved = nil
	return nil
}

// Equal reports structural equality: same opcode, same specialization
// fields and pairwise equal operands. Lids are deliberately ignored, so
// instructions from independently parsed sequences compare equal when
// they describe the same entity.
func (inst *Instruction) Equal(other *Instruction) bool {
	if inst == other {
		return true
	}
	if inst == nil || other == nil {
		return false
	}
	if inst.Op != other.Op || len(inst.Operands) != len(other.Operands) {
		return false
	}
	switch {
	case inst.Op == Sort:
		if inst.SortType != other.SortType || inst.Width != other.Width {
			return false
		}
	case inst.Op == Input || inst.Op == State:
		if inst.Name != other.Name {
			return false
		}
	case inst.Op.IsConst():
		if inst.Value.Cmp(other.Value) != 0 {
			return false
		}
	case inst.Op == Slice:
		if inst.High != other.High || inst.Low != other.Low {
			return false
		}
	case inst.Op == Uext || inst.Op == Sext:
		if inst.Ext != other.Ext || inst.Name != other.Name {
			return false
		}
	case inst.Op == Inst:
		if inst.ModName != other.ModName {
			return false
		}
	case inst.Op == Ref:
		if inst.ModName != other.ModName || !inst.Target.Equal(other.Target) {
			return false
		}
	}
	for i := range inst.Operands {
		if inst.Operands[i] != other.Operands[i] && !inst.Operands[i].Equal(other.Operands[i]) {
			return false
		}
	}
	return true
}

// In reports whether a structurally equal instruction is present in p.
func (inst *Instruction) In(p []*Instruction) bool {
	for _, other := range p {
		if inst.Equal(other) {
			return true
		}
	}
	return false
}

// Find retrieves an instruction by lid through linear lookup, or nil.
func Find(p []*Instruction, lid int) *Instruction {
	for _, inst := range p {
		if inst.LID == lid {
			return inst
		}
	}
	return nil
}

// SliceWidth derives the width of a slice from its bit bounds.
func (inst *Instruction) SliceWidth() int {
	return inst.High - inst.Low + 1
}
