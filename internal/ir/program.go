package ir

import (
	"fmt"
	"strings"

	"github.com/btorlabs/btoropt/internal/types"
)

// Module is a named region of instructions. Bodies may contain the
// custom inst/ref/set instructions in addition to standard btor2.
type Module struct {
	Name string
	Body []*Instruction
}

// Instruction retrieves a body instruction by lid, or nil.
func (m *Module) Instruction(lid int) *Instruction {
	return Find(m.Body, lid)
}

// Contract is a named region of preconditions and postconditions for the
// module of the same name. Bodies are restricted to prec/post/ref plus
// the standard instructions the conditions are built from.
type Contract struct {
	Name           string
	Body           []*Instruction
	Preconditions  []*Instruction
	Postconditions []*Instruction
}

// NewContract validates that the body carries at least one precondition
// or postcondition.
func NewContract(name string, body []*Instruction) (*Contract, error) {
	c := &Contract{Name: name, Body: body}
	for _, inst := range body {
		switch inst.Op {
		case Prec:
			c.Preconditions = append(c.Preconditions, inst)
		case Post:
			c.Postconditions = append(c.Postconditions, inst)
		}
	}
	if len(c.Preconditions) == 0 && len(c.Postconditions) == 0 {
		return nil, &types.StructuralError{Msg: fmt.Sprintf("contract %s must contain either a precondition or a postcondition", name)}
	}
	return c, nil
}

// Program is a set of modules plus the contracts attached to them.
type Program struct {
	Modules   []*Module
	Contracts []*Contract
}

// NewProgram checks the program invariants eagerly: no more contracts
// than modules, at most one contract per module, and every contract
// naming exactly one existing module.
func NewProgram(modules []*Module, contracts []*Contract) (*Program, error) {
	if len(contracts) > len(modules) {
		return nil, &types.StructuralError{Msg: "there should be at least as many modules as there are contracts"}
	}
	for _, m := range modules {
		n := 0
		for _, c := range contracts {
			if c.Name == m.Name {
				n++
			}
		}
		if n > 1 {
			return nil, &types.StructuralError{Msg: fmt.Sprintf("module %s has more than one contract", m.Name)}
		}
	}
	for _, c := range contracts {
		n := 0
		for _, m := range modules {
			if c.Name == m.Name {
				n++
			}
		}
		if n != 1 {
			return nil, &types.StructuralError{Msg: fmt.Sprintf("contract %s references %d modules instead of 1", c.Name, n)}
		}
	}
	return &Program{Modules: modules, Contracts: contracts}, nil
}

// Module retrieves a module by name, or nil.
func (p *Program) Module(name string) *Module {
	for _, m := range p.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Contract retrieves the contract attached to the named module, or nil
// when the module is uncontracted.
func (p *Program) Contract(name string) *Contract {
	for _, c := range p.Contracts {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Serialize renders the program in block syntax, modules first, then any
// remaining contracts, in original order.
func (p *Program) Serialize() string {
	var b strings.Builder
	for i, m := range p.Modules {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "module %s {\n", m.Name)
		writeBody(&b, m.Body)
		b.WriteString("}\n")
	}
	for _, c := range p.Contracts {
		fmt.Fprintf(&b, "\ncontract %s {\n", c.Name)
		writeBody(&b, c.Body)
		b.WriteString("}\n")
	}
	return b.String()
}

func writeBody(b *strings.Builder, body []*Instruction) {
	for _, inst := range body {
		b.WriteString(inst.String())
		b.WriteString("\n")
	}
}
