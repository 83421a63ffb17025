package cpu

// handlers maps each Op to the function that executes it. A handler reports
// whether a conditional branch was taken; everything else returns false.
var handlers = [opCount]func(c *CPU, in *Instruction) bool{
	OpIllegal: execUnreachable,
	OpPrefix:  execUnreachable,
	OpNop:     func(*CPU, *Instruction) bool { return false },
	OpHalt:    execHalt,
	OpStop:    execStop,
	OpDi:      execDi,
	OpEi:      execEi,

	OpLd:  execLd,
	OpInc: execInc,
	OpDec: execDec,
	OpAdd: execAdd,
	OpAdc: execAdc,
	OpSub: execSub,
	OpSbc: execSbc,
	OpAnd: execAnd,
	OpXor: execXor,
	OpOr:  execOr,
	OpCp:  execCp,

	OpRlca: execRlca,
	OpRrca: execRrca,
	OpRla:  execRla,
	OpRra:  execRra,
	OpDaa:  execDaa,
	OpCpl:  execCpl,
	OpScf:  execScf,
	OpCcf:  execCcf,

	OpJr:   execJr,
	OpJp:   execJp,
	OpCall: execCall,
	OpRet:  execRet,
	OpReti: execReti,
	OpRst:  execRst,
	OpPush: execPush,
	OpPop:  execPop,

	OpRlc:  execShift,
	OpRrc:  execShift,
	OpRl:   execShift,
	OpRr:   execShift,
	OpSla:  execShift,
	OpSra:  execShift,
	OpSwap: execShift,
	OpSrl:  execShift,
	OpBit:  execBit,
	OpRes:  execRes,
	OpSet:  execSet,
}

// Step resolves PREFIX and ILLEGAL before dispatch.
func execUnreachable(c *CPU, in *Instruction) bool {
	c.faultf("%v dispatched", in.Op)
	return false
}

func execHalt(c *CPU, _ *Instruction) bool {
	c.state = Halted
	return false
}

// STOP's padding byte was consumed as an Imm8 operand.
func execStop(c *CPU, _ *Instruction) bool {
	c.state = Stopped
	return false
}

func execDi(c *CPU, _ *Instruction) bool {
	c.IME = false
	c.eiDelay = 0
	return false
}

func execEi(c *CPU, _ *Instruction) bool {
	if !c.IME {
		c.eiDelay = 2
	}
	return false
}

func execLd(c *CPU, in *Instruction) bool {
	if in.Mode == ModeRel8 { // LD HL,SP+e8
		res, h, cy := addSPe8(c.SP, c.data)
		c.SetHL(res)
		c.SetFlags(false, false, h, cy)
		return false
	}
	c.store(in, c.data)
	return false
}

func execInc(c *CPU, in *Instruction) bool {
	if !c.toMem && in.R1.wide() {
		c.setReg(in.R1, c.data+1)
		return false
	}
	res, h := inc8(byte(c.data))
	c.store(in, uint16(res))
	c.SetFlags(res == 0, false, h, c.Carry())
	return false
}

func execDec(c *CPU, in *Instruction) bool {
	if !c.toMem && in.R1.wide() {
		c.setReg(in.R1, c.data-1)
		return false
	}
	res, h := dec8(byte(c.data))
	c.store(in, uint16(res))
	c.SetFlags(res == 0, true, h, c.Carry())
	return false
}

func execAdd(c *CPU, in *Instruction) bool {
	switch {
	case in.Mode == ModeRel8: // ADD SP,e8
		res, h, cy := addSPe8(c.SP, c.data)
		c.SP = res
		c.SetFlags(false, false, h, cy)
	case in.R1 == RegHL:
		res, h, cy := add16(c.HL(), c.data)
		c.SetHL(res)
		c.SetFlags(c.Zero(), false, h, cy)
	default:
		res, z, n, h, cy := add8(c.A, byte(c.data))
		c.A = res
		c.SetFlags(z, n, h, cy)
	}
	return false
}

func execAdc(c *CPU, _ *Instruction) bool {
	res, z, n, h, cy := adc8(c.A, byte(c.data), c.Carry())
	c.A = res
	c.SetFlags(z, n, h, cy)
	return false
}

func execSub(c *CPU, _ *Instruction) bool {
	res, z, n, h, cy := sub8(c.A, byte(c.data))
	c.A = res
	c.SetFlags(z, n, h, cy)
	return false
}

func execSbc(c *CPU, _ *Instruction) bool {
	res, z, n, h, cy := sbc8(c.A, byte(c.data), c.Carry())
	c.A = res
	c.SetFlags(z, n, h, cy)
	return false
}

func execAnd(c *CPU, _ *Instruction) bool {
	res, z, n, h, cy := and8(c.A, byte(c.data))
	c.A = res
	c.SetFlags(z, n, h, cy)
	return false
}

func execXor(c *CPU, _ *Instruction) bool {
	res, z, n, h, cy := xor8(c.A, byte(c.data))
	c.A = res
	c.SetFlags(z, n, h, cy)
	return false
}

func execOr(c *CPU, _ *Instruction) bool {
	res, z, n, h, cy := or8(c.A, byte(c.data))
	c.A = res
	c.SetFlags(z, n, h, cy)
	return false
}

func execCp(c *CPU, _ *Instruction) bool {
	c.SetFlags(cp8(c.A, byte(c.data)))
	return false
}

// Accumulator rotates always clear Z.
func execRlca(c *CPU, _ *Instruction) bool {
	var cy bool
	c.A, cy = rlc(c.A)
	c.SetFlags(false, false, false, cy)
	return false
}

func execRrca(c *CPU, _ *Instruction) bool {
	var cy bool
	c.A, cy = rrc(c.A)
	c.SetFlags(false, false, false, cy)
	return false
}

func execRla(c *CPU, _ *Instruction) bool {
	var cy bool
	c.A, cy = rl(c.A, c.Carry())
	c.SetFlags(false, false, false, cy)
	return false
}

func execRra(c *CPU, _ *Instruction) bool {
	var cy bool
	c.A, cy = rr(c.A, c.Carry())
	c.SetFlags(false, false, false, cy)
	return false
}

func execDaa(c *CPU, _ *Instruction) bool {
	res, cy := daa(c.A, c.Subtract(), c.HalfCarry(), c.Carry())
	c.A = res
	c.SetFlags(res == 0, c.Subtract(), false, cy)
	return false
}

func execCpl(c *CPU, _ *Instruction) bool {
	c.A = ^c.A
	c.SetFlag(FlagN|FlagH, true)
	return false
}

func execScf(c *CPU, _ *Instruction) bool {
	c.SetFlags(c.Zero(), false, false, true)
	return false
}

func execCcf(c *CPU, _ *Instruction) bool {
	c.SetFlags(c.Zero(), false, false, !c.Carry())
	return false
}

func (c *CPU) cond(cc Cond) bool {
	switch cc {
	case CondNZ:
		return !c.Zero()
	case CondZ:
		return c.Zero()
	case CondNC:
		return !c.Carry()
	case CondC:
		return c.Carry()
	}
	return true
}

func execJr(c *CPU, in *Instruction) bool {
	if !c.cond(in.Cond) {
		return false
	}
	c.PC += c.data
	return true
}

func execJp(c *CPU, in *Instruction) bool {
	if !c.cond(in.Cond) {
		return false
	}
	c.PC = c.data
	return true
}

func execCall(c *CPU, in *Instruction) bool {
	if !c.cond(in.Cond) {
		return false
	}
	c.push16(c.PC)
	c.PC = c.data
	return true
}

func execRet(c *CPU, in *Instruction) bool {
	if !c.cond(in.Cond) {
		return false
	}
	c.PC = c.pop16()
	return true
}

func execReti(c *CPU, _ *Instruction) bool {
	c.PC = c.pop16()
	c.IME = true
	c.eiDelay = 0
	return false
}

func execRst(c *CPU, in *Instruction) bool {
	c.push16(c.PC)
	c.PC = uint16(in.Param)
	return false
}

func execPush(c *CPU, _ *Instruction) bool {
	c.push16(c.data)
	return false
}

func execPop(c *CPU, in *Instruction) bool {
	c.setReg(in.R1, c.pop16())
	return false
}

// execShift covers the CB rotates and shifts. Unlike RLCA and friends they
// set Z from the result.
func execShift(c *CPU, in *Instruction) bool {
	v := byte(c.data)
	var res byte
	var cy bool
	switch in.Op {
	case OpRlc:
		res, cy = rlc(v)
	case OpRrc:
		res, cy = rrc(v)
	case OpRl:
		res, cy = rl(v, c.Carry())
	case OpRr:
		res, cy = rr(v, c.Carry())
	case OpSla:
		res, cy = sla(v)
	case OpSra:
		res, cy = sra(v)
	case OpSwap:
		res, cy = swap(v)
	case OpSrl:
		res, cy = srl(v)
	}
	c.store(in, uint16(res))
	c.SetFlags(res == 0, false, false, cy)
	return false
}

func execBit(c *CPU, in *Instruction) bool {
	c.SetFlags(byte(c.data)&(1<<in.Param) == 0, false, true, c.Carry())
	return false
}

func execRes(c *CPU, in *Instruction) bool {
	c.store(in, uint16(byte(c.data)&^(1<<in.Param)))
	return false
}

func execSet(c *CPU, in *Instruction) bool {
	c.store(in, uint16(byte(c.data)|1<<in.Param))
	return false
}
