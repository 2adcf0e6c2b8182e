package passes

import (
	"fmt"

	"github.com/btorlabs/btoropt/internal/ir"
	"github.com/btorlabs/btoropt/internal/types"
)

// ApplyContracts desugars the modular extension following the Hoare
// triple discipline:
//
//   - an instance of an uncontracted module is fully inlined, with every
//     use of a set-bound input rewritten to the bound value;
//   - an instance of a contracted module is replaced by an assertion of
//     the contract's preconditions on the bound values and an assumption
//     of its postconditions, without inlining;
//   - a contracted module's own body assumes its preconditions on entry
//     and asserts its postconditions at the end.
//
// No contracts remain in the resulting program.
type ApplyContracts struct{}

func (*ApplyContracts) ID() string { return "apply-contracts" }

// Run is the identity on flat sequences: instances only occur inside
// module bodies.
func (*ApplyContracts) Run(p []*ir.Instruction) ([]*ir.Instruction, error) {
	return p, nil
}

func (pass *ApplyContracts) RunOnProgram(prog *ir.Program) (*ir.Program, error) {
	// Modules are processed in definition order; an instance always
	// names an earlier module, so inlining draws from already-desugared
	// bodies.
	desugared := make(map[string]*ir.Module, len(prog.Modules))
	modules := make([]*ir.Module, 0, len(prog.Modules))
	for _, m := range prog.Modules {
		d := &desugarer{prog: prog, done: desugared}
		body, err := d.module(m)
		if err != nil {
			return nil, err
		}
		if c := prog.Contract(m.Name); c != nil {
			if err := d.lowerContract(c, nil, false, &body); err != nil {
				return nil, err
			}
		}
		renumber(body)
		out := &ir.Module{Name: m.Name, Body: body}
		desugared[m.Name] = out
		modules = append(modules, out)
	}
	return ir.NewProgram(modules, nil)
}

type desugarer struct {
	prog *ir.Program
	done map[string]*ir.Module

	// rewrites maps instructions that no longer exist in the output
	// body (refs into inlined modules, the inlined module's own
	// instructions) to the instruction now carrying their value.
	rewrites map[*ir.Instruction]*ir.Instruction
}

func (d *desugarer) lookup(name string) *ir.Module {
	if m := d.done[name]; m != nil {
		return m
	}
	return d.prog.Module(name)
}

func (d *desugarer) module(m *ir.Module) ([]*ir.Instruction, error) {
	d.rewrites = make(map[*ir.Instruction]*ir.Instruction)

	// Refs that only exist to be bound by a set are consumed together
	// with their set and never reach the output body.
	bindingRefs := make(map[*ir.Instruction]bool)
	for _, inst := range m.Body {
		if inst.Op == ir.Set {
			bindingRefs[inst.Operands[1]] = true
		}
	}

	var res []*ir.Instruction
	for _, inst := range m.Body {
		switch inst.Op {
		case ir.Inst:
			if err := d.instance(m, inst, &res); err != nil {
				return nil, err
			}

		case ir.Set:
			// Consumed together with the instance it drives.

		case ir.Ref:
			if bindingRefs[inst] {
				continue
			}
			if t := d.rewrites[inst.Target]; t != nil {
				// The target was inlined into this body; uses of the
				// ref flow directly to the inlined copy.
				d.rewrites[inst] = t
				continue
			}
			res = append(res, inst)

		default:
			for i, op := range inst.Operands {
				if t := d.rewrites[op]; t != nil {
					inst.Operands[i] = t
				}
			}
			res = append(res, inst)
		}
	}
	return res, nil
}

// instance replaces one instantiation, either by inlining or by
// applying the instantiated module's contract at the call site.
func (d *desugarer) instance(host *ir.Module, inst *ir.Instruction, res *[]*ir.Instruction) error {
	target := d.lookup(inst.ModName)
	if target == nil {
		return &types.StructuralError{Msg: fmt.Sprintf("named module %s is undefined", inst.ModName)}
	}
	bind, err := d.bindings(host, inst)
	if err != nil {
		return err
	}

	if c := d.prog.Contract(target.Name); c != nil {
		return d.lowerContract(c, bind, true, res)
	}

	// Inline a fresh copy of the module body. Set-bound inputs are not
	// emitted; their uses are rewired to the bound values. Output
	// declarations stay local to the module and are dropped, the host
	// observes values through refs.
	clones := make(map[*ir.Instruction]*ir.Instruction, len(target.Body))
	for _, mi := range target.Body {
		switch mi.Op {
		case ir.Input:
			alias, ok := bind[mi]
			if !ok {
				return &types.StructuralError{Msg: fmt.Sprintf("input %s of module %s is not set by the instance in %s", mi.Name, target.Name, host.Name)}
			}
			clones[mi] = alias
			d.rewrites[mi] = alias

		case ir.Output:
			// dropped

		default:
			clone := *mi
			clone.Operands = make([]*ir.Instruction, len(mi.Operands))
			for i, op := range mi.Operands {
				if t := clones[op]; t != nil {
					clone.Operands[i] = t
				} else {
					clone.Operands[i] = op
				}
			}
			clones[mi] = &clone
			d.rewrites[mi] = &clone
			*res = append(*res, &clone)
		}
	}
	return nil
}

// bindings collects the set instructions driving one instance and maps
// each bound module input to the local value it is set to.
func (d *desugarer) bindings(host *ir.Module, inst *ir.Instruction) (map[*ir.Instruction]*ir.Instruction, error) {
	bind := make(map[*ir.Instruction]*ir.Instruction)
	for _, s := range host.Body {
		if s.Op != ir.Set || s.Operands[0] != inst {
			continue
		}
		ref, alias := s.Operands[1], s.Operands[2]
		if ref.Target == nil || ref.Target.Op != ir.Input {
			return nil, &types.StructuralError{Msg: fmt.Sprintf("only inputs can be set, not %s", ref.Target.Op)}
		}
		if t := d.rewrites[alias]; t != nil {
			alias = t
		}
		bind[ref.Target] = alias
	}
	return bind, nil
}

// lowerContract clones a contract body into res. At a call site
// (atCallSite true) refs to set-bound inputs resolve to the bound
// values, preconditions become bad-state assertions and postconditions
// become assumptions. On the definition side refs resolve to the
// module's own instructions and the polarity flips: preconditions are
// assumed, postconditions asserted.
func (d *desugarer) lowerContract(c *ir.Contract, bind map[*ir.Instruction]*ir.Instruction, atCallSite bool, res *[]*ir.Instruction) error {
	cmap := make(map[*ir.Instruction]*ir.Instruction, len(c.Body))
	cond := func(marker *ir.Instruction) *ir.Instruction {
		op := marker.Operands[0]
		if t := cmap[op]; t != nil {
			return t
		}
		return op
	}

	for _, ci := range c.Body {
		switch ci.Op {
		case ir.Ref:
			if !atCallSite {
				cmap[ci] = ci.Target
				continue
			}
			if alias := bind[ci.Target]; alias != nil {
				cmap[ci] = alias
				continue
			}
			// A reference to a module-internal value stays a
			// cross-module ref in the host body.
			clone := *ci
			cmap[ci] = &clone
			*res = append(*res, &clone)

		case ir.Prec:
			if atCallSite {
				d.assert(cond(ci), res)
			} else {
				*res = append(*res, ir.NewConstraint(0, cond(ci)))
			}

		case ir.Post:
			if atCallSite {
				*res = append(*res, ir.NewConstraint(0, cond(ci)))
			} else {
				d.assert(cond(ci), res)
			}

		default:
			clone := *ci
			clone.Operands = make([]*ir.Instruction, len(ci.Operands))
			for i, op := range ci.Operands {
				if t := cmap[op]; t != nil {
					clone.Operands[i] = t
				} else {
					clone.Operands[i] = op
				}
			}
			cmap[ci] = &clone
			*res = append(*res, &clone)
		}
	}
	return nil
}

// assert emits `x = not cond; bad x`, declaring a 1-bit sort first if
// the body does not already carry one.
func (d *desugarer) assert(cond *ir.Instruction, res *[]*ir.Instruction) {
	not := ir.NewNot(0, d.boolSort(res), cond)
	*res = append(*res, not, ir.NewBad(0, not))
}

func (d *desugarer) boolSort(res *[]*ir.Instruction) *ir.Instruction {
	for _, inst := range *res {
		if inst.Op == ir.Sort && inst.SortType != "array" && inst.Width == 1 {
			return inst
		}
	}
	sort := ir.NewSort(0, 1)
	*res = append(*res, sort)
	return sort
}
