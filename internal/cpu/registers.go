package cpu

// Flags helpers
const (
	FlagZ byte = 1 << 7
	FlagN byte = 1 << 6
	FlagH byte = 1 << 5
	FlagC byte = 1 << 4
)

// Model selects the post-boot register values.
type Model int

const (
	DMG Model = iota
	CGB
	// CGBCompat is a colour unit running a monochrome cartridge.
	CGBCompat
)

func (m Model) String() string {
	switch m {
	case DMG:
		return "DMG"
	case CGB:
		return "CGB"
	case CGBCompat:
		return "CGB-DMG"
	}
	return "unknown"
}

// Registers is the SM83 register file. The low nibble of F always reads 0;
// write F through SetF or SetAF to keep it that way.
type Registers struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte

	SP uint16
	PC uint16
}

func (r *Registers) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F&0xF0) }
func (r *Registers) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

func (r *Registers) SetAF(v uint16) { r.A = byte(v >> 8); r.F = byte(v) & 0xF0 }
func (r *Registers) SetBC(v uint16) { r.B = byte(v >> 8); r.C = byte(v) }
func (r *Registers) SetDE(v uint16) { r.D = byte(v >> 8); r.E = byte(v) }
func (r *Registers) SetHL(v uint16) { r.H = byte(v >> 8); r.L = byte(v) }
func (r *Registers) SetF(v byte)    { r.F = v & 0xF0 }

// IncrementHL bumps HL and returns the value it had before.
func (r *Registers) IncrementHL() uint16 {
	hl := r.HL()
	r.SetHL(hl + 1)
	return hl
}

// DecrementHL lowers HL and returns the value it had before.
func (r *Registers) DecrementHL() uint16 {
	hl := r.HL()
	r.SetHL(hl - 1)
	return hl
}

func (r *Registers) Zero() bool      { return r.F&FlagZ != 0 }
func (r *Registers) Subtract() bool  { return r.F&FlagN != 0 }
func (r *Registers) HalfCarry() bool { return r.F&FlagH != 0 }
func (r *Registers) Carry() bool     { return r.F&FlagC != 0 }

// SetFlag sets or clears the flag bits in mask.
func (r *Registers) SetFlag(mask byte, on bool) {
	if on {
		r.F = (r.F | mask) & 0xF0
	} else {
		r.F &^= mask
	}
}

// SetFlags overwrites all four flags.
func (r *Registers) SetFlags(z, n, h, carry bool) {
	var f byte
	if z {
		f |= FlagZ
	}
	if n {
		f |= FlagN
	}
	if h {
		f |= FlagH
	}
	if carry {
		f |= FlagC
	}
	r.F = f
}

// Get8 reads an 8-bit register by tag.
func (r *Registers) Get8(reg Reg) (byte, bool) {
	switch reg {
	case RegA:
		return r.A, true
	case RegF:
		return r.F & 0xF0, true
	case RegB:
		return r.B, true
	case RegC:
		return r.C, true
	case RegD:
		return r.D, true
	case RegE:
		return r.E, true
	case RegH:
		return r.H, true
	case RegL:
		return r.L, true
	}
	return 0, false
}

// Set8 writes an 8-bit register by tag.
func (r *Registers) Set8(reg Reg, v byte) bool {
	switch reg {
	case RegA:
		r.A = v
	case RegF:
		r.SetF(v)
	case RegB:
		r.B = v
	case RegC:
		r.C = v
	case RegD:
		r.D = v
	case RegE:
		r.E = v
	case RegH:
		r.H = v
	case RegL:
		r.L = v
	default:
		return false
	}
	return true
}

// Get16 reads a register pair or SP by tag.
func (r *Registers) Get16(reg Reg) (uint16, bool) {
	switch reg {
	case RegAF:
		return r.AF(), true
	case RegBC:
		return r.BC(), true
	case RegDE:
		return r.DE(), true
	case RegHL, RegHLI, RegHLD:
		return r.HL(), true
	case RegSP:
		return r.SP, true
	}
	return 0, false
}

// Set16 writes a register pair or SP by tag.
func (r *Registers) Set16(reg Reg, v uint16) bool {
	switch reg {
	case RegAF:
		r.SetAF(v)
	case RegBC:
		r.SetBC(v)
	case RegDE:
		r.SetDE(v)
	case RegHL:
		r.SetHL(v)
	case RegSP:
		r.SP = v
	default:
		return false
	}
	return true
}

// Reset loads the register values the machine has at power on. With skipBoot
// the values are the ones the boot ROM leaves behind for model; otherwise
// everything starts at zero with PC at the boot ROM entry.
func (r *Registers) Reset(model Model, skipBoot bool) {
	*r = Registers{}
	if !skipBoot {
		r.F = 0xB0
		return
	}
	r.SP = 0xFFFE
	r.PC = 0x0100
	switch model {
	case CGB:
		r.A, r.F = 0x11, 0x80
		r.B, r.C = 0x00, 0x00
		r.D, r.E = 0xFF, 0x56
		r.H, r.L = 0x00, 0x0D
	case CGBCompat:
		r.A, r.F = 0x11, 0x80
		r.B, r.C = 0x00, 0x00
		r.D, r.E = 0x00, 0x08
		r.H, r.L = 0x00, 0x7C
	default:
		r.A, r.F = 0x01, 0xB0
		r.B, r.C = 0x00, 0x13
		r.D, r.E = 0x00, 0xD8
		r.H, r.L = 0x01, 0x4D
	}
}
