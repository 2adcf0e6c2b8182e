package ir

import (
	"strconv"
	"strings"
)

// String renders the instruction as one canonical btor2 line:
// <lid> <opcode> <operand-lids> <extra-fields>. Operands are rendered by
// their current lid, so renumbering passes serialize consistently without
// rewriting operand lists.
func (inst *Instruction) String() string {
	fields := []string{strconv.Itoa(inst.LID), inst.Op.String()}
	for _, op := range inst.Operands {
		fields = append(fields, strconv.Itoa(op.LID))
	}
	switch {
	case inst.Op == Sort:
		fields = append(fields, inst.SortType, strconv.Itoa(inst.Width))
	case inst.Op == Input || inst.Op == State:
		if inst.Name != "" {
			fields = append(fields, inst.Name)
		}
	case inst.Op.IsConst():
		fields = append(fields, inst.Value.Text(inst.Op.constBase()))
	case inst.Op == Slice:
		fields = append(fields, strconv.Itoa(inst.High), strconv.Itoa(inst.Low))
	case inst.Op == Uext || inst.Op == Sext:
		fields = append(fields, strconv.Itoa(inst.Ext))
		if inst.Name != "" {
			fields = append(fields, inst.Name)
		}
	case inst.Op == Inst:
		fields = append(fields, inst.ModName)
	case inst.Op == Ref:
		lid := inst.TargetLID
		if inst.Target != nil {
			lid = inst.Target.LID
		}
		fields = append(fields, inst.ModName, strconv.Itoa(lid))
	}
	return strings.Join(fields, " ")
}

// Serialize renders a flat instruction sequence, one line per
// instruction, newline-joined.
func Serialize(p []*Instruction) string {
	lines := make([]string, len(p))
	for i, inst := range p {
		lines[i] = inst.String()
	}
	return strings.Join(lines, "\n")
}
