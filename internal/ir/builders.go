package ir

import "math/big"

// Constructors for instructions synthesized by passes and the miter
// merge. Parsed instructions always go through Build/Resolve instead.

// NewSort declares a bitvector sort of the given width.
func NewSort(lid, width int) *Instruction {
	return &Instruction{LID: lid, Op: Sort, SortType: "bitvector", Width: width}
}

// NewConstd builds a decimal constant of the given sort.
func NewConstd(lid int, sort *Instruction, value int64) *Instruction {
	return &Instruction{LID: lid, Op: Constd, Operands: []*Instruction{sort}, Value: big.NewInt(value)}
}

// NewInit initializes state to value.
func NewInit(lid int, sort, state, value *Instruction) *Instruction {
	return &Instruction{LID: lid, Op: Init, Operands: []*Instruction{sort, state, value}}
}

// NewNot negates cond under the given sort.
func NewNot(lid int, sort, cond *Instruction) *Instruction {
	return &Instruction{LID: lid, Op: Not, Operands: []*Instruction{sort, cond}}
}

// NewNeq compares two values for disequality under the given sort.
func NewNeq(lid int, sort, op1, op2 *Instruction) *Instruction {
	return &Instruction{LID: lid, Op: Neq, Operands: []*Instruction{sort, op1, op2}}
}

// NewBad marks cond as a bad-state property.
func NewBad(lid int, cond *Instruction) *Instruction {
	return &Instruction{LID: lid, Op: Bad, Operands: []*Instruction{cond}}
}

// NewConstraint assumes cond globally.
func NewConstraint(lid int, cond *Instruction) *Instruction {
	return &Instruction{LID: lid, Op: Constraint, Operands: []*Instruction{cond}}
}
