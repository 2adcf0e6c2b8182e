package types

import "fmt"

// SyntaxError reports an instruction line that cannot be constructed:
// an unknown opcode tag or a line with too few fields.
type SyntaxError struct {
	Line string
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Line == "" {
		return "syntax error: " + e.Msg
	}
	return fmt.Sprintf("syntax error: %s. Found: %s", e.Msg, e.Line)
}

// UnresolvedReferenceError reports an operand lid that is not declared at
// the point of use, or that is declared with the wrong entity kind
// (e.g. a non-sort where a sort is required).
type UnresolvedReferenceError struct {
	LID int
	Msg string
}

func (e *UnresolvedReferenceError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("undeclared instruction used with id: %d", e.LID)
	}
	return fmt.Sprintf("unresolved reference %d: %s", e.LID, e.Msg)
}

// StructuralError reports a violation of block or program structure:
// nested blocks, missing terminators, or a module/contract invariant.
type StructuralError struct {
	Msg string
}

func (e *StructuralError) Error() string {
	return "structural error: " + e.Msg
}

// UnsupportedPassError reports a pass id that is not in the registry.
type UnsupportedPassError struct {
	ID string
}

func (e *UnsupportedPassError) Error() string {
	return fmt.Sprintf("unsupported pass: %q", e.ID)
}
