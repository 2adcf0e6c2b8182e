package ir

// Opcode identifies a btor2 instruction tag. The set is closed: every
// supported standard tag plus the five custom modular-extension tags.
type Opcode int

const (
	Sort Opcode = iota
	Input
	Output
	Bad
	Constraint
	Zero
	One
	Ones
	Constd
	Consth
	Const
	State
	Init
	Next
	Slice
	Ite
	Implies
	Iff
	Add
	Sub
	Mul
	Sdiv
	Udiv
	Smod
	Srem
	Urem
	Sll
	Srl
	Sra
	And
	Or
	Xor
	Concat
	Not
	Inc
	Dec
	Neg
	Redor
	Redand
	Redxor
	Eq
	Neq
	Ugt
	Sgt
	Ugte
	Sgte
	Ult
	Slt
	Ulte
	Slte
	Uext
	Sext

	// Custom extension tags, not part of the btor2 spec.
	Inst
	Ref
	Set
	Prec
	Post
)

var opcodeNames = map[Opcode]string{
	Sort: "sort", Input: "input", Output: "output", Bad: "bad",
	Constraint: "constraint", Zero: "zero", One: "one", Ones: "ones",
	Constd: "constd", Consth: "consth", Const: "const", State: "state",
	Init: "init", Next: "next", Slice: "slice", Ite: "ite",
	Implies: "implies", Iff: "iff", Add: "add", Sub: "sub", Mul: "mul",
	Sdiv: "sdiv", Udiv: "udiv", Smod: "smod", Srem: "srem", Urem: "urem",
	Sll: "sll", Srl: "srl", Sra: "sra", And: "and", Or: "or", Xor: "xor",
	Concat: "concat", Not: "not", Inc: "inc", Dec: "dec", Neg: "neg",
	Redor: "redor", Redand: "redand", Redxor: "redxor", Eq: "eq",
	Neq: "neq", Ugt: "ugt", Sgt: "sgt", Ugte: "ugte", Sgte: "sgte",
	Ult: "ult", Slt: "slt", Ulte: "ulte", Slte: "slte", Uext: "uext",
	Sext: "sext",
	Inst: "inst", Ref: "ref", Set: "set", Prec: "prec", Post: "post",
}

var opcodeByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		m[name] = op
	}
	return m
}()

// minFields maps each opcode to the minimum number of whitespace-separated
// tokens its line must carry, counting the lid and the tag themselves.
// Optional trailing fields (names) are not counted.
var minFields = map[Opcode]int{
	Sort: 4,
	Input: 3, State: 3,
	Output: 3, Bad: 3, Constraint: 3,
	Zero: 3, One: 3, Ones: 3,
	Constd: 4, Consth: 4, Const: 4,
	Init: 5, Next: 5,
	Slice: 6, Ite: 6,
	Implies: 5, Iff: 5,
	Add: 5, Sub: 5, Mul: 5, Sdiv: 5, Udiv: 5, Smod: 5, Srem: 5, Urem: 5,
	Sll: 5, Srl: 5, Sra: 5, And: 5, Or: 5, Xor: 5, Concat: 5,
	Not: 4, Inc: 4, Dec: 4, Neg: 4, Redor: 4, Redand: 4, Redxor: 4,
	Eq: 5, Neq: 5, Ugt: 5, Sgt: 5, Ugte: 5, Sgte: 5, Ult: 5, Slt: 5,
	Ulte: 5, Slte: 5,
	Uext: 5, Sext: 5,
	Inst: 3, Ref: 4, Set: 5, Prec: 3, Post: 3,
}

func (op Opcode) String() string {
	return opcodeNames[op]
}

// Standard reports whether the opcode is part of the btor2 spec, as
// opposed to a custom extension tag.
func (op Opcode) Standard() bool {
	return op < Inst
}

// IsBinary reports whether the opcode takes a sort and two value operands.
func (op Opcode) IsBinary() bool {
	switch op {
	case Implies, Iff, Add, Sub, Mul, Sdiv, Udiv, Smod, Srem, Urem,
		Sll, Srl, Sra, And, Or, Xor, Concat,
		Eq, Neq, Ugt, Sgt, Ugte, Sgte, Ult, Slt, Ulte, Slte:
		return true
	}
	return false
}

// IsUnary reports whether the opcode takes a sort and one value operand.
func (op Opcode) IsUnary() bool {
	switch op {
	case Not, Inc, Dec, Neg, Redor, Redand, Redxor:
		return true
	}
	return false
}

// IsConst reports whether the opcode declares a literal constant.
func (op Opcode) IsConst() bool {
	return op == Constd || op == Consth || op == Const
}

// constBase returns the integer base the constant's value field is
// written in: 10 for constd, 16 for consth, 2 for const.
func (op Opcode) constBase() int {
	switch op {
	case Constd:
		return 10
	case Consth:
		return 16
	default:
		return 2
	}
}
