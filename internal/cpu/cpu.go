// Package cpu implements the SM83 core: register file, decode tables and a
// step engine that reports the clock ticks each instruction consumes.
package cpu

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Bus is the CPU's view of memory. Unmapped reads return 0xFF.
type Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, v byte)
}

// State is the CPU run state.
type State uint8

const (
	Running State = iota
	Halted
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Stopped:
		return "stopped"
	}
	return "?"
}

// CPU is an SM83 core attached to a Bus.
type CPU struct {
	Registers

	IME bool
	// EI enables IME after the following instruction; 2 right after EI,
	// 1 while the next instruction runs.
	eiDelay uint8

	state State
	bus   Bus

	// operand latch for the instruction being executed
	data  uint16
	addr  uint16
	toMem bool

	lastIRQ    Interrupt
	dispatched bool

	fault  error
	locked error
}

// New creates a CPU in the post-boot DMG state.
func New(b Bus) *CPU {
	c := &CPU{bus: b}
	c.Reset(DMG, true)
	return c
}

// Reset reloads the registers for model and clears interrupt and error
// state. Without skipBoot execution starts at 0x0000 in the boot ROM.
func (c *CPU) Reset(model Model, skipBoot bool) {
	c.Registers.Reset(model, skipBoot)
	c.IME = false
	c.eiDelay = 0
	c.state = Running
	c.dispatched = false
	c.fault = nil
	c.locked = nil
}

// SetPC allows tests or a boot stub to set the program counter.
func (c *CPU) SetPC(pc uint16) { c.PC = pc }

// Bus exposes the underlying bus for tests/tools.
func (c *CPU) Bus() Bus { return c.bus }

func (c *CPU) State() State { return c.state }

// Err returns the error the CPU is locked on, if any.
func (c *CPU) Err() error { return c.locked }

// Step executes one instruction, one interrupt dispatch or one idle step and
// returns the clock ticks it took.
func (c *CPU) Step() (cycles int, err error) {
	if c.locked != nil {
		return 0, c.locked
	}
	c.dispatched = false
	if c.state != Running {
		return c.stepIdle(), nil
	}
	if n := c.serviceInterrupt(); n > 0 {
		return n, nil
	}

	pc := c.PC
	opcode := c.fetch8()
	in := Decode(opcode)
	prefixed := false
	if in.Op == OpPrefix {
		opcode = c.fetch8()
		in = DecodePrefixed(opcode)
		prefixed = true
	}
	if in.Op == OpIllegal {
		c.locked = &OpcodeError{PC: pc, Opcode: opcode, Err: ErrIllegalOpcode}
		return in.Cost(false), c.locked
	}

	c.fault = nil
	c.loadOperands(in)
	taken := false
	if c.fault == nil {
		if h := handlers[in.Op]; h != nil {
			taken = h(c, in)
		} else {
			c.faultf("no handler for %v", in.Op)
		}
	}
	if c.fault != nil {
		c.locked = &OpcodeError{PC: pc, Opcode: opcode, Prefixed: prefixed, Err: c.fault}
		return in.Cost(false), c.locked
	}
	c.tickEI()
	return in.Cost(taken), nil
}

func (c *CPU) faultf(format string, args ...interface{}) {
	if c.fault == nil {
		c.fault = fmt.Errorf("%w: "+format, append([]interface{}{ErrInternal}, args...)...)
	}
}

func (c *CPU) read8(addr uint16) byte     { return c.bus.Read(addr) }
func (c *CPU) write8(addr uint16, v byte) { c.bus.Write(addr, v) }

func (c *CPU) fetch8() byte {
	v := c.read8(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return hi<<8 | lo
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read8(addr))
	hi := uint16(c.read8(addr + 1))
	return hi<<8 | lo
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.write8(addr, byte(v))
	c.write8(addr+1, byte(v>>8))
}

// push16 stores the high byte first, at SP-1, then the low byte at SP-2.
func (c *CPU) push16(v uint16) {
	c.SP--
	c.write8(c.SP, byte(v>>8))
	c.SP--
	c.write8(c.SP, byte(v))
}

func (c *CPU) pop16() uint16 {
	v := c.read16(c.SP)
	c.SP += 2
	return v
}

func (c *CPU) reg(r Reg) uint16 {
	if r.wide() {
		v, ok := c.Get16(r)
		if !ok {
			c.faultf("read of %v", r)
		}
		return v
	}
	v, ok := c.Get8(r)
	if !ok {
		c.faultf("read of %v", r)
	}
	return uint16(v)
}

func (c *CPU) setReg(r Reg, v uint16) {
	var ok bool
	if r.wide() {
		ok = c.Set16(r, v)
	} else {
		ok = c.Set8(r, byte(v))
	}
	if !ok {
		c.faultf("write of %v", r)
	}
}

// addrOf resolves an indirect operand. HL+ and HL- step HL after use and C
// addresses the high page.
func (c *CPU) addrOf(r Reg) uint16 {
	switch r {
	case RegHLI:
		return c.IncrementHL()
	case RegHLD:
		return c.DecrementHL()
	case RegC:
		return 0xFF00 | uint16(c.C)
	case RegBC, RegDE, RegHL:
		v, _ := c.Get16(r)
		return v
	}
	c.faultf("indirect through %v", r)
	return 0
}

// loadOperands reads immediates and source data for in into the latch.
func (c *CPU) loadOperands(in *Instruction) {
	c.data, c.addr, c.toMem = 0, 0, false
	switch in.Mode {
	case ModeImplied:
	case ModeReg:
		c.data = c.reg(in.R1)
	case ModeRegReg:
		c.data = c.reg(in.R2)
	case ModeImm8:
		c.data = uint16(c.fetch8())
	case ModeImm16:
		c.data = c.fetch16()
	case ModeRel8:
		c.data = uint16(int16(int8(c.fetch8())))
	case ModeInd:
		c.addr, c.toMem = c.addrOf(in.R1), true
		c.data = uint16(c.read8(c.addr))
	case ModeRegToInd:
		c.addr, c.toMem = c.addrOf(in.R1), true
		c.data = c.reg(in.R2)
	case ModeIndToReg:
		c.data = uint16(c.read8(c.addrOf(in.R2)))
	case ModeImm8ToInd:
		c.data = uint16(c.fetch8())
		c.addr, c.toMem = c.addrOf(in.R1), true
	case ModeRegToHigh:
		c.addr, c.toMem = 0xFF00|uint16(c.fetch8()), true
		c.data = c.reg(in.R2)
	case ModeHighToReg:
		c.data = uint16(c.read8(0xFF00 | uint16(c.fetch8())))
	case ModeRegToAbs:
		c.addr, c.toMem = c.fetch16(), true
		c.data = c.reg(in.R2)
	case ModeAbsToReg:
		c.data = uint16(c.read8(c.fetch16()))
	default:
		c.faultf("addressing mode %d", in.Mode)
	}
}

// store writes a result to wherever in's mode says results go.
func (c *CPU) store(in *Instruction, v uint16) {
	if !c.toMem {
		c.setReg(in.R1, v)
		return
	}
	if in.Mode == ModeRegToAbs && in.R2 == RegSP {
		c.write16(c.addr, v)
		return
	}
	c.write8(c.addr, byte(v))
}

// --- Save/Load state ---

type cpuState struct {
	Regs    Registers
	IME     bool
	EIDelay uint8
	State   State
}

func (c *CPU) SaveState() []byte {
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(cpuState{Regs: c.Registers, IME: c.IME, EIDelay: c.eiDelay, State: c.state})
	return buf.Bytes()
}

func (c *CPU) LoadState(data []byte) error {
	var s cpuState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	c.Registers = s.Regs
	c.F &= 0xF0
	c.IME = s.IME
	c.eiDelay = s.EIDelay
	c.state = s.State
	c.locked = nil
	c.fault = nil
	return nil
}
