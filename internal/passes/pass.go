// Package passes implements the transformation pipeline run over parsed
// btor2 programs. Each pass has a unique string id and can transform
// either a flat instruction sequence or a whole multi-module program.
package passes

import (
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/btorlabs/btoropt/internal/ir"
	"github.com/btorlabs/btoropt/internal/types"
)

// Pass is a named transformation over an instruction sequence or a
// program. Passes may replace, renumber and rewire instructions but
// never change an instruction's opcode identity.
type Pass interface {
	// ID returns the unique registry name of the pass.
	ID() string

	// Run transforms a flat instruction sequence.
	Run(p []*ir.Instruction) ([]*ir.Instruction, error)

	// RunOnProgram transforms a multi-module program. Most passes apply
	// Run to each module body independently via mapModules.
	RunOnProgram(prog *ir.Program) (*ir.Program, error)
}

// mapModules applies run to every module body on parallel workers.
// Module bodies share no mutable state, and results are gathered by
// original module index, so the output program is deterministic
// regardless of scheduling.
func mapModules(prog *ir.Program, run func([]*ir.Instruction) ([]*ir.Instruction, error)) (*ir.Program, error) {
	modules := make([]*ir.Module, len(prog.Modules))
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i, m := range prog.Modules {
		i, m := i, m
		g.Go(func() error {
			body, err := run(m.Body)
			if err != nil {
				return err
			}
			modules[i] = &ir.Module{Name: m.Name, Body: body}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ir.NewProgram(modules, prog.Contracts)
}

// renumber rewrites lids to a contiguous, order-preserving range
// starting at 1.
func renumber(p []*ir.Instruction) {
	for i, inst := range p {
		inst.LID = i + 1
	}
}

// Registry maps pass ids to passes. It is an explicit value handed to
// the pipeline runner, not a process-wide singleton.
type Registry struct {
	passes map[string]Pass
}

// NewRegistry builds a registry over the given passes.
func NewRegistry(passes ...Pass) *Registry {
	r := &Registry{passes: make(map[string]Pass, len(passes))}
	for _, p := range passes {
		r.Register(p)
	}
	return r
}

// Default returns the registry holding every built-in pass.
func Default() *Registry {
	return NewRegistry(
		&RenameInputs{},
		&InitAllStates{},
		&CheckLidOrdering{},
		&ApplyContracts{},
	)
}

// Register adds a pass, replacing any pass with the same id.
func (r *Registry) Register(p Pass) {
	r.passes[p.ID()] = p
}

// IDs lists the registered pass ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.passes))
	for id := range r.passes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve validates every requested id against the registry and returns
// the pipeline in request order. An unknown id fails with an
// UnsupportedPassError before any pass executes.
func (r *Registry) Resolve(ids []string) (Pipeline, error) {
	pipeline := make(Pipeline, 0, len(ids))
	for _, id := range ids {
		p, ok := r.passes[id]
		if !ok {
			return nil, &types.UnsupportedPassError{ID: id}
		}
		pipeline = append(pipeline, p)
	}
	return pipeline, nil
}

// Pipeline is an ordered list of resolved passes.
type Pipeline []Pass

// Run applies every pass in order to a flat instruction sequence,
// aborting on the first failure.
func (pl Pipeline) Run(p []*ir.Instruction) ([]*ir.Instruction, error) {
	var err error
	for _, pass := range pl {
		if p, err = pass.Run(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// RunOnProgram applies every pass in order to a program.
func (pl Pipeline) RunOnProgram(prog *ir.Program) (*ir.Program, error) {
	var err error
	for _, pass := range pl {
		if prog, err = pass.RunOnProgram(prog); err != nil {
			return nil, err
		}
	}
	return prog, nil
}
