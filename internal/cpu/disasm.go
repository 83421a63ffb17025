package cpu

import (
	"fmt"
	"strings"
)

// String renders the instruction with operand placeholders (d8, a16, ...).
func (in *Instruction) String() string {
	return in.render(0, 0, false)
}

// Disassemble decodes the instruction at pc and returns its text and length
// in bytes. It only reads through b.
func Disassemble(b Bus, pc uint16) (string, int) {
	in := Decode(b.Read(pc))
	if in.Op == OpPrefix {
		in = DecodePrefixed(b.Read(pc + 1))
		return in.render(0, pc, true), 2
	}
	var imm uint16
	switch in.Mode.immediateBytes() {
	case 1:
		imm = uint16(b.Read(pc + 1))
	case 2:
		imm = uint16(b.Read(pc+1)) | uint16(b.Read(pc+2))<<8
	}
	return in.render(imm, pc, true), in.Len()
}

func (in *Instruction) render(imm, pc uint16, have bool) string {
	d8 := func() string {
		if !have {
			return "d8"
		}
		return fmt.Sprintf("$%02X", byte(imm))
	}
	a16 := func(ph string) string {
		if !have {
			return ph
		}
		return fmt.Sprintf("$%04X", imm)
	}
	e8 := func() string {
		if !have {
			return "e8"
		}
		return fmt.Sprintf("%+d", int8(imm))
	}
	ind := func(r Reg) string {
		if r == RegC {
			return "($FF00+C)"
		}
		return "(" + r.String() + ")"
	}

	name := in.Op.String()
	var ops []string
	if in.Cond != CondNone {
		ops = append(ops, in.Cond.String())
	}
	switch in.Op {
	case OpBit, OpRes, OpSet:
		ops = append(ops, fmt.Sprintf("%d", in.Param))
	case OpRst:
		return fmt.Sprintf("RST $%02X", in.Param)
	case OpPop:
		return "POP " + in.R1.String()
	case OpStop, OpIllegal, OpPrefix:
		return name
	}

	switch in.Mode {
	case ModeReg:
		ops = append(ops, in.R1.String())
	case ModeRegReg:
		ops = append(ops, in.R1.String(), in.R2.String())
	case ModeImm8:
		ops = append(ops, in.R1.String(), d8())
	case ModeImm16:
		if in.R1 != RegNone {
			ops = append(ops, in.R1.String())
		}
		ops = append(ops, a16("a16"))
		if in.Op == OpLd {
			ops[len(ops)-1] = a16("d16")
		}
	case ModeRel8:
		switch {
		case in.Op == OpJr && have:
			ops = append(ops, fmt.Sprintf("$%04X", pc+2+uint16(int16(int8(imm)))))
		case in.Op == OpJr:
			ops = append(ops, "e8")
		case in.Op == OpLd && have:
			ops = append(ops, in.R1.String(), "SP"+e8())
		case in.Op == OpLd:
			ops = append(ops, in.R1.String(), "SP+e8")
		default:
			ops = append(ops, in.R1.String(), e8())
		}
	case ModeInd:
		ops = append(ops, ind(in.R1))
	case ModeRegToInd:
		ops = append(ops, ind(in.R1), in.R2.String())
	case ModeIndToReg:
		ops = append(ops, in.R1.String(), ind(in.R2))
	case ModeImm8ToInd:
		ops = append(ops, ind(in.R1), d8())
	case ModeRegToHigh:
		name = "LDH"
		ops = append(ops, "("+strings.Replace(d8(), "d8", "a8", 1)+")", in.R2.String())
	case ModeHighToReg:
		name = "LDH"
		ops = append(ops, in.R1.String(), "("+strings.Replace(d8(), "d8", "a8", 1)+")")
	case ModeRegToAbs:
		ops = append(ops, "("+a16("a16")+")", in.R2.String())
	case ModeAbsToReg:
		ops = append(ops, in.R1.String(), "("+a16("a16")+")")
	}
	// ALU ops on A print without the implicit A operand, like SUB B.
	switch in.Op {
	case OpSub, OpAnd, OpXor, OpOr, OpCp:
		if len(ops) == 2 && ops[0] == "A" {
			ops = ops[1:]
		}
	}
	if len(ops) == 0 {
		return name
	}
	return name + " " + strings.Join(ops, ",")
}
