package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/btorlabs/btoropt/internal/ir"
	"github.com/btorlabs/btoropt/internal/types"
)

// modParser scans the block-structured modular extension:
// `module <name> { ... }` and `contract <name> { ... }` regions whose
// bodies are plain instruction lines. Definitions are processed
// top-to-bottom, so a module must be declared before it is instantiated
// or referenced.
type modParser struct {
	lines     []string
	modules   []*ir.Module
	contracts []*ir.Contract
}

// ParseProgram reads a modular btor2 file into a Program. The Program
// invariants are checked eagerly once every block has been scanned.
func ParseProgram(lines []string) (*ir.Program, error) {
	mp := &modParser{lines: lines}
	return mp.parseFile()
}

func (mp *modParser) parseFile() (*ir.Program, error) {
	i := 0
	for i < len(mp.lines) {
		line := strings.TrimSpace(mp.lines[i])
		if skippable(line) {
			i++
			continue
		}
		tokens := strings.Fields(line)
		switch tokens[0] {
		case "module":
			if len(tokens) < 2 || tokens[1] == "{" {
				return nil, &types.StructuralError{Msg: "module declaration is missing a name"}
			}
			body, next, err := mp.scanBody(i)
			if err != nil {
				return nil, err
			}
			parsed, err := mp.parseModuleBody(body)
			if err != nil {
				return nil, err
			}
			mp.modules = append(mp.modules, &ir.Module{Name: tokens[1], Body: parsed})
			i = next

		case "contract":
			if len(tokens) < 2 || tokens[1] == "{" {
				return nil, &types.StructuralError{Msg: "contract declaration is missing a name"}
			}
			name := tokens[1]
			if mp.module(name) == nil {
				return nil, &types.StructuralError{Msg: fmt.Sprintf("contract name %s is not defined", name)}
			}
			body, next, err := mp.scanBody(i)
			if err != nil {
				return nil, err
			}
			parsed, err := mp.parseContractBody(body)
			if err != nil {
				return nil, err
			}
			c, err := ir.NewContract(name, parsed)
			if err != nil {
				return nil, err
			}
			mp.contracts = append(mp.contracts, c)
			i = next

		default:
			return nil, &types.StructuralError{Msg: fmt.Sprintf("unsupported structure: %s is not module | contract", tokens[0])}
		}
	}
	return ir.NewProgram(mp.modules, mp.contracts)
}

// scanBody collects the raw body lines of the block whose header is at
// index i. The header must end with '{'; scanning advances until a line
// equal to '}'. Every body line must begin with a numeric lid, which
// rules out nested blocks. Returns the index just past the terminator.
func (mp *modParser) scanBody(i int) ([]string, int, error) {
	header := strings.Fields(mp.lines[i])
	if header[len(header)-1] != "{" {
		return nil, 0, &types.StructuralError{Msg: "invalid body start: " + header[len(header)-1]}
	}
	var body []string
	for i++; i < len(mp.lines); i++ {
		line := strings.TrimSpace(mp.lines[i])
		if line == "}" {
			return body, i + 1, nil
		}
		if line == "" {
			continue
		}
		if !numericStart(line) && !strings.HasPrefix(line, ";") {
			return nil, 0, &types.StructuralError{Msg: "all body lines must be instructions, found: " + strings.Fields(line)[0]}
		}
		body = append(body, line)
	}
	return nil, 0, &types.StructuralError{Msg: "missing closing } for block"}
}

func numericStart(line string) bool {
	return len(line) > 0 && unicode.IsDigit(rune(line[0]))
}

func (mp *modParser) module(name string) *ir.Module {
	for _, m := range mp.modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// resolveRef binds a ref instruction to its target inside an already
// parsed module: `<lid> ref <module-name> <target-lid>`.
func (mp *modParser) resolveRef(inst *ir.Instruction) error {
	m := mp.module(inst.ModName)
	if m == nil {
		return &types.StructuralError{Msg: fmt.Sprintf("named module %s is undefined", inst.ModName)}
	}
	target := m.Instruction(inst.TargetLID)
	if target == nil {
		return &types.UnresolvedReferenceError{
			LID: inst.TargetLID,
			Msg: fmt.Sprintf("no such instruction in module %s", inst.ModName),
		}
	}
	inst.Target = target
	return nil
}

// parseModuleBody parses a module body with eager resolution. Besides
// the standard instructions it accepts inst, ref and set.
func (mp *modParser) parseModuleBody(body []string) ([]*ir.Instruction, error) {
	var p []*ir.Instruction
	find := func(id int) *ir.Instruction { return ir.Find(p, id) }
	for _, line := range body {
		if skippable(line) {
			continue
		}
		inst, err := ir.Build(line)
		if err != nil {
			return nil, err
		}
		if ir.Find(p, inst.LID) != nil {
			return nil, &types.SyntaxError{Line: line, Msg: fmt.Sprintf("duplicate lid %d", inst.LID)}
		}
		switch inst.Op {
		case ir.Inst:
			if mp.module(inst.ModName) == nil {
				return nil, &types.StructuralError{Msg: fmt.Sprintf("named module %s is undefined", inst.ModName)}
			}

		case ir.Ref:
			if err := mp.resolveRef(inst); err != nil {
				return nil, err
			}

		case ir.Set:
			if err := inst.Resolve(find); err != nil {
				return nil, err
			}
			instance, ref := inst.Operands[0], inst.Operands[1]
			if instance.Op != ir.Inst {
				return nil, &types.StructuralError{Msg: fmt.Sprintf("set expects an instance as first operand, found %s", instance.Op)}
			}
			if ref.Op != ir.Ref {
				return nil, &types.StructuralError{Msg: fmt.Sprintf("set expects a ref as second operand, found %s", ref.Op)}
			}
			if ref.ModName != instance.ModName {
				return nil, &types.StructuralError{Msg: "set can only set a reference to an instance input"}
			}

		case ir.Prec, ir.Post:
			return nil, &types.StructuralError{Msg: inst.Op.String() + " is only allowed inside a contract"}

		default:
			if err := inst.Resolve(find); err != nil {
				return nil, err
			}
		}
		p = append(p, inst)
	}
	return p, nil
}

// parseContractBody parses a contract body: prec, post and ref plus the
// standard instructions the conditions are built from. inst and set are
// rejected.
func (mp *modParser) parseContractBody(body []string) ([]*ir.Instruction, error) {
	var p []*ir.Instruction
	find := func(id int) *ir.Instruction { return ir.Find(p, id) }
	for _, line := range body {
		if skippable(line) {
			continue
		}
		inst, err := ir.Build(line)
		if err != nil {
			return nil, err
		}
		if ir.Find(p, inst.LID) != nil {
			return nil, &types.SyntaxError{Line: line, Msg: fmt.Sprintf("duplicate lid %d", inst.LID)}
		}
		switch inst.Op {
		case ir.Prec, ir.Post:
			if err := inst.Resolve(find); err != nil {
				return nil, err
			}

		case ir.Ref:
			if err := mp.resolveRef(inst); err != nil {
				return nil, err
			}

		case ir.Inst, ir.Set:
			return nil, &types.StructuralError{Msg: inst.Op.String() + " is not allowed inside a contract"}

		default:
			if err := inst.Resolve(find); err != nil {
				return nil, err
			}
		}
		p = append(p, inst)
	}
	return p, nil
}
