package cpu

import "math/bits"

// Interrupt is one of the five interrupt lines, numbered by IF/IE bit.
type Interrupt uint8

const (
	VBlank Interrupt = iota
	LCDStat
	Timer
	Serial
	Joypad
)

const (
	AddrIF uint16 = 0xFF0F
	AddrIE uint16 = 0xFFFF

	// DispatchCycles is the cost of entering a handler.
	DispatchCycles = 20
	// IdleCycles is what a halted or stopped step costs.
	IdleCycles = 4
)

func (i Interrupt) Mask() byte     { return 1 << i }
func (i Interrupt) Vector() uint16 { return 0x40 + 8*uint16(i) }

func (i Interrupt) String() string {
	switch i {
	case VBlank:
		return "VBlank"
	case LCDStat:
		return "LCDStat"
	case Timer:
		return "Timer"
	case Serial:
		return "Serial"
	case Joypad:
		return "Joypad"
	}
	return "?"
}

// Pending returns the interrupts that are both requested and enabled.
func Pending(b Bus) byte {
	return b.Read(AddrIE) & b.Read(AddrIF) & 0x1F
}

// highest picks the lowest set bit; VBlank wins over everything.
func highest(pending byte) (Interrupt, bool) {
	if pending&0x1F == 0 {
		return 0, false
	}
	return Interrupt(bits.TrailingZeros8(pending)), true
}

// serviceInterrupt enters the highest priority pending handler if IME allows
// it. It returns the cycles spent, 0 if nothing was dispatched.
func (c *CPU) serviceInterrupt() int {
	if !c.IME {
		return 0
	}
	irq, ok := highest(Pending(c.bus))
	if !ok {
		return 0
	}
	c.bus.Write(AddrIF, c.bus.Read(AddrIF)&^irq.Mask())
	c.IME = false
	c.eiDelay = 0
	c.push16(c.PC)
	c.PC = irq.Vector()
	c.lastIRQ, c.dispatched = irq, true
	return DispatchCycles
}

// stepIdle runs one step while halted or stopped. Any pending interrupt
// wakes the CPU; with IME clear the handler is not entered and IF stays as
// it is.
func (c *CPU) stepIdle() int {
	if Pending(c.bus) == 0 {
		return IdleCycles
	}
	c.state = Running
	if n := c.serviceInterrupt(); n > 0 {
		return n
	}
	return IdleCycles
}

// tickEI advances a staged EI. IME turns on once the instruction after EI
// has completed.
func (c *CPU) tickEI() {
	if c.eiDelay == 0 {
		return
	}
	c.eiDelay--
	if c.eiDelay == 0 {
		c.IME = true
	}
}

// Dispatching reports whether the last Step entered an interrupt handler,
// and which one.
func (c *CPU) Dispatching() (Interrupt, bool) { return c.lastIRQ, c.dispatched }
