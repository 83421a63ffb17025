package cpu

import (
	"errors"
	"testing"
)

// flatBus is 64 KiB of plain RAM; nothing is memory mapped.
type flatBus struct {
	mem [0x10000]byte
}

func (b *flatBus) Read(addr uint16) byte     { return b.mem[addr] }
func (b *flatBus) Write(addr uint16, v byte) { b.mem[addr] = v }

func newCPUWithROM(code []byte) (*CPU, *flatBus) {
	b := &flatBus{}
	copy(b.mem[:], code)
	c := New(b)
	c.SetPC(0x0000)
	return c, b
}

func step(t *testing.T, c *CPU) int {
	t.Helper()
	cyc, err := c.Step()
	if err != nil {
		t.Fatalf("step at %04X: %v", c.PC, err)
	}
	return cyc
}

func TestCPU_NopAndPC(t *testing.T) {
	c, _ := newCPUWithROM([]byte{0x00}) // NOP
	if cycles := step(t, c); cycles != 4 {
		t.Fatalf("NOP cycles got %d want 4", cycles)
	}
	if c.PC != 1 {
		t.Fatalf("PC after NOP got %#04x want 0x0001", c.PC)
	}
}

func TestCPU_LD_A_d8_And_XOR_A(t *testing.T) {
	c, _ := newCPUWithROM([]byte{0x3E, 0x12, 0xAF}) // LD A,0x12; XOR A
	step(t, c)
	if c.A != 0x12 {
		t.Fatalf("A after LD got %02x want 12", c.A)
	}
	step(t, c)
	if c.A != 0x00 {
		t.Fatalf("A after XOR got %02x want 00", c.A)
	}
	if !c.Zero() {
		t.Fatalf("Z flag not set after XOR A")
	}
}

func TestCPU_LD_a16_A_and_LD_A_a16(t *testing.T) {
	// LD A,0x77; LD (0xC000),A; LD A,0x00; LD A,(0xC000)
	c, b := newCPUWithROM([]byte{0x3E, 0x77, 0xEA, 0x00, 0xC0, 0x3E, 0x00, 0xFA, 0x00, 0xC0})
	step(t, c)
	if cyc := step(t, c); cyc != 16 {
		t.Fatalf("LD (a16),A cycles got %d want 16", cyc)
	}
	if a := b.Read(0xC000); a != 0x77 {
		t.Fatalf("RAM at C000 got %02x want 77", a)
	}
	step(t, c)
	step(t, c)
	if c.A != 0x77 {
		t.Fatalf("A after LD A,(C000) got %02x want 77", c.A)
	}
}

func TestCPU_JP_and_JR(t *testing.T) {
	c, b := newCPUWithROM([]byte{0xC3, 0x10, 0x00}) // JP 0x0010
	b.mem[0x0010] = 0x18                             // JR -2
	b.mem[0x0011] = 0xFE
	if cycles := step(t, c); cycles != 16 || c.PC != 0x0010 {
		t.Fatalf("JP cycles=%d PC=%#04x want cycles=16 PC=0x0010", cycles, c.PC)
	}
	if cycles := step(t, c); cycles != 12 || c.PC != 0x0010 {
		t.Fatalf("JR -2 cycles=%d PC=%#04x want 12 and 0x0010", cycles, c.PC)
	}
}

func TestCPU_JP_HL(t *testing.T) {
	c, _ := newCPUWithROM([]byte{0xE9})
	c.SetHL(0x4321)
	if cyc := step(t, c); cyc != 4 || c.PC != 0x4321 {
		t.Fatalf("JP HL cyc=%d PC=%04X", cyc, c.PC)
	}
}

func TestCPU_INC_B_Flags(t *testing.T) {
	c, _ := newCPUWithROM([]byte{0x04, 0x04}) // INC B twice
	c.B = 0x0F
	c.F = FlagC
	step(t, c)
	if c.B != 0x10 {
		t.Fatalf("INC B result got %02x want 10", c.B)
	}
	if !c.HalfCarry() {
		t.Fatalf("INC B should set H flag")
	}
	if !c.Carry() {
		t.Fatalf("INC B should preserve C flag")
	}
	c.B = 0xFF
	step(t, c)
	if c.B != 0x00 || !c.Zero() {
		t.Fatalf("INC B to 0 should set Z flag, B=%02x, F=%02x", c.B, c.F)
	}
}

func TestCPU_INC_DEC_RoundTripAllValues(t *testing.T) {
	for x := 0; x < 256; x++ {
		for _, carry := range []bool{false, true} {
			c, _ := newCPUWithROM([]byte{0x04, 0x05}) // INC B; DEC B
			c.B = byte(x)
			c.SetFlags(false, false, false, carry)
			if cyc := step(t, c); cyc != 4 {
				t.Fatalf("INC B cycles got %d want 4", cyc)
			}
			if c.B != byte(x+1) || c.Zero() != (byte(x+1) == 0) || c.Subtract() || c.HalfCarry() != (x&0x0F == 0x0F) {
				t.Fatalf("INC B from %02X: B=%02X F=%02X", x, c.B, c.F)
			}
			step(t, c)
			if c.B != byte(x) {
				t.Fatalf("INC/DEC round trip from %02X got %02X", x, c.B)
			}
			if c.Zero() != (x == 0) || !c.Subtract() || c.HalfCarry() != (byte(x+1)&0x0F == 0) {
				t.Fatalf("DEC B back to %02X: F=%02X", x, c.F)
			}
			if c.Carry() != carry {
				t.Fatalf("INC/DEC touched carry at %02X", x)
			}
			if c.F&0x0F != 0 {
				t.Fatalf("F low nibble set: %02X", c.F)
			}
		}
	}
}

func TestCPU_INC_DEC_IndirectHL(t *testing.T) {
	c, b := newCPUWithROM([]byte{0x34, 0x35, 0x35}) // INC (HL); DEC (HL); DEC (HL)
	c.SetHL(0xC000)
	b.mem[0xC000] = 0x0F
	if cyc := step(t, c); cyc != 12 || b.mem[0xC000] != 0x10 || !c.HalfCarry() {
		t.Fatalf("INC (HL) cyc=%d mem=%02X F=%02X", cyc, b.mem[0xC000], c.F)
	}
	step(t, c)
	if cyc := step(t, c); cyc != 12 || b.mem[0xC000] != 0x0E || !c.Subtract() {
		t.Fatalf("DEC (HL) cyc=%d mem=%02X F=%02X", cyc, b.mem[0xC000], c.F)
	}
}

func TestCPU_ADD_A_A_Overflow(t *testing.T) {
	c, _ := newCPUWithROM([]byte{0x87}) // ADD A,A
	c.A = 0x80
	step(t, c)
	if c.A != 0x00 || !c.Zero() || c.Subtract() || c.HalfCarry() || !c.Carry() {
		t.Fatalf("ADD A,A with 80: A=%02X F=%02X want A=00 Z=1 N=0 H=0 C=1", c.A, c.F)
	}
}

func TestCPU_LD_16bit_and_LDH(t *testing.T) {
	c, b := newCPUWithROM([]byte{
		0x21, 0x00, 0xC0, // LD HL, C000
		0x36, 0x5A, // LD (HL), 5A
		0x3E, 0x00, // LD A, 00
		0xF0, 0x80, // LD A, (FF00+80)
		0xE0, 0x81, // LD (FF00+81), A
	})
	b.mem[0xFF80] = 0xA7

	if cyc := step(t, c); cyc != 12 {
		t.Fatalf("LD HL,d16 cycles got %d want 12", cyc)
	}
	if cyc := step(t, c); cyc != 12 {
		t.Fatalf("LD (HL),d8 cycles got %d want 12", cyc)
	}
	step(t, c)
	if cyc := step(t, c); cyc != 12 || c.A != 0xA7 {
		t.Fatalf("LDH A,(a8) cyc=%d A=%02X", cyc, c.A)
	}
	step(t, c)
	if v := b.mem[0xC000]; v != 0x5A {
		t.Fatalf("RAM C000 got %02x want 5A", v)
	}
	if v := b.mem[0xFF81]; v != 0xA7 {
		t.Fatalf("LDH (FF00+81),A wrote %02x want A7", v)
	}
}

func TestCPU_LD_HighPageThroughC(t *testing.T) {
	c, b := newCPUWithROM([]byte{0xE2, 0xF2}) // LD (C),A; LD A,(C)
	c.C = 0x90
	c.A = 0x3C
	if cyc := step(t, c); cyc != 8 || b.mem[0xFF90] != 0x3C {
		t.Fatalf("LD (C),A cyc=%d mem=%02X", cyc, b.mem[0xFF90])
	}
	b.mem[0xFF90] = 0x99
	step(t, c)
	if c.A != 0x99 {
		t.Fatalf("LD A,(C) got %02X want 99", c.A)
	}
}

func TestCPU_LD_HLI_HLD(t *testing.T) {
	c, b := newCPUWithROM([]byte{0x22, 0x32, 0x2A, 0x3A}) // LD (HL+),A; LD (HL-),A; LD A,(HL+); LD A,(HL-)
	c.SetHL(0xC000)
	c.A = 0x11
	step(t, c)
	if b.mem[0xC000] != 0x11 || c.HL() != 0xC001 {
		t.Fatalf("LD (HL+),A mem=%02X HL=%04X", b.mem[0xC000], c.HL())
	}
	c.A = 0x22
	step(t, c)
	if b.mem[0xC001] != 0x22 || c.HL() != 0xC000 {
		t.Fatalf("LD (HL-),A mem=%02X HL=%04X", b.mem[0xC001], c.HL())
	}
	step(t, c)
	if c.A != 0x11 || c.HL() != 0xC001 {
		t.Fatalf("LD A,(HL+) A=%02X HL=%04X", c.A, c.HL())
	}
	step(t, c)
	if c.A != 0x22 || c.HL() != 0xC000 {
		t.Fatalf("LD A,(HL-) A=%02X HL=%04X", c.A, c.HL())
	}
}

func TestCPU_LD_a16_SP(t *testing.T) {
	c, b := newCPUWithROM([]byte{0x08, 0x00, 0xC1}) // LD (C100),SP
	c.SP = 0xBEEF
	if cyc := step(t, c); cyc != 20 {
		t.Fatalf("LD (a16),SP cycles got %d want 20", cyc)
	}
	if b.mem[0xC100] != 0xEF || b.mem[0xC101] != 0xBE {
		t.Fatalf("LD (a16),SP wrote %02X %02X want EF BE", b.mem[0xC100], b.mem[0xC101])
	}
}

func TestCPU_CALL_RET(t *testing.T) {
	c, b := newCPUWithROM([]byte{0xCD, 0x05, 0x00}) // CALL 0005
	b.mem[0x0005] = 0xC9                             // RET
	if cyc := step(t, c); cyc != 24 || c.PC != 0x0005 {
		t.Fatalf("CALL cyc=%d PC=%04x want 24 and 0005", cyc, c.PC)
	}
	if b.mem[0xFFFD] != 0x00 || b.mem[0xFFFC] != 0x03 || c.SP != 0xFFFC {
		t.Fatalf("CALL pushed %02X%02X SP=%04X", b.mem[0xFFFD], b.mem[0xFFFC], c.SP)
	}
	retCycles := step(t, c)
	if c.PC != 0x0003 || retCycles != 16 {
		t.Fatalf("RET did not return to 0003; PC=%04x cyc=%d", c.PC, retCycles)
	}
}

func TestCPU_RST(t *testing.T) {
	c, b := newCPUWithROM(nil)
	c.SetPC(0x1234)
	b.mem[0x1234] = 0xEF // RST 28
	if cyc := step(t, c); cyc != 16 || c.PC != 0x0028 {
		t.Fatalf("RST 28 cyc=%d PC=%04X", cyc, c.PC)
	}
	if got := c.read16(c.SP); got != 0x1235 {
		t.Fatalf("RST pushed %04X want 1235", got)
	}
}

func TestCPU_DAA_AddAndSub(t *testing.T) {
	// LD A,0x45; ADD A,0x38; DAA
	c, b := newCPUWithROM([]byte{0x3E, 0x45, 0xC6, 0x38, 0x27})
	step(t, c)
	step(t, c)
	step(t, c)
	if c.A != 0x83 {
		t.Fatalf("DAA after add got A=%02X want 83", c.A)
	}
	if c.F != 0 {
		t.Fatalf("DAA flags unexpected F=%02X", c.F)
	}

	// 0x45 - 0x06 = 0x3F; DAA subtracts 6 because of H
	copy(b.mem[0x0010:], []byte{0x3E, 0x45, 0xD6, 0x06, 0x27})
	c.PC = 0x0010
	step(t, c)
	step(t, c)
	step(t, c)
	if c.A != 0x39 || !c.Subtract() {
		t.Fatalf("DAA after sub got A=%02X F=%02X", c.A, c.F)
	}
}

func TestCPU_DAA_Table(t *testing.T) {
	tests := []struct {
		name    string
		a, f    byte
		wantA   byte
		wantCy  bool
		wantZer bool
	}{
		{"no adjust", 0x42, 0x00, 0x42, false, false},
		{"low nibble", 0x0A, 0x00, 0x10, false, false},
		{"high digit", 0xA0, 0x00, 0x00, true, true},
		{"both", 0x9A, 0x00, 0x00, true, true},
		{"half carry", 0x12, FlagH, 0x18, false, false},
		{"carry in", 0x12, FlagC, 0x72, true, false},
		{"sub half", 0x0F, FlagN | FlagH, 0x09, false, false},
		{"sub carry", 0x90, FlagN | FlagC, 0x30, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newCPUWithROM([]byte{0x27})
			c.A = tt.a
			c.F = tt.f
			step(t, c)
			if c.A != tt.wantA || c.Carry() != tt.wantCy || c.Zero() != tt.wantZer || c.HalfCarry() {
				t.Fatalf("DAA %02X F=%02X got A=%02X F=%02X", tt.a, tt.f, c.A, c.F)
			}
		})
	}
}

func TestCPU_STOP_ConsumesPadding(t *testing.T) {
	c, b := newCPUWithROM([]byte{0x10, 0x00, 0x00}) // STOP 00; NOP
	if cycles := step(t, c); cycles != 4 {
		t.Fatalf("STOP cycles got %d want 4", cycles)
	}
	if c.PC != 0x0002 || c.State() != Stopped {
		t.Fatalf("PC after STOP got %04X state %v", c.PC, c.State())
	}
	if cyc := step(t, c); cyc != 4 || c.PC != 0x0002 {
		t.Fatalf("stopped step cyc=%d PC=%04X", cyc, c.PC)
	}
	b.mem[AddrIE] = 0x10
	b.mem[AddrIF] = 0x10
	step(t, c) // wakes without IME
	step(t, c) // NOP
	if c.PC != 0x0003 || c.State() != Running {
		t.Fatalf("PC after wake+NOP got %04X state %v", c.PC, c.State())
	}
}

func TestCPU_CB_Prefix_CyclesAndBehavior(t *testing.T) {
	c, b := newCPUWithROM([]byte{
		0x21, 0x00, 0xC0, // LD HL,C000
		0x36, 0x80, // LD (HL),80
		0xCB, 0x7E, // BIT 7,(HL)
		0xCB, 0xBE, // RES 7,(HL)
		0xCB, 0xC6, // SET 0,(HL)
		0xCB, 0x00, // RLC B
		0xCB, 0x37, // SWAP A
		0xCB, 0x3F, // SRL A
		0xCB, 0x2F, // SRA A
	})
	step(t, c)
	step(t, c)
	cyc := step(t, c)
	if cyc != 12 || c.Zero() || !c.HalfCarry() {
		t.Fatalf("BIT 7,(HL) cycles/Z got cyc=%d F=%02X", cyc, c.F)
	}
	cyc = step(t, c)
	if cyc != 16 || b.mem[0xC000] != 0x00 {
		t.Fatalf("RES 7,(HL) got cyc=%d mem=%02X", cyc, b.mem[0xC000])
	}
	cyc = step(t, c)
	if cyc != 16 || b.mem[0xC000] != 0x01 {
		t.Fatalf("SET 0,(HL) got cyc=%d mem=%02X", cyc, b.mem[0xC000])
	}
	c.B = 0x80
	cyc = step(t, c)
	if cyc != 8 || c.B != 0x01 || !c.Carry() || c.Zero() {
		t.Fatalf("RLC B got cyc=%d B=%02X F=%02X", cyc, c.B, c.F)
	}
	c.A = 0xF1
	step(t, c)
	if c.A != 0x1F || c.F != 0 {
		t.Fatalf("SWAP A got A=%02X F=%02X", c.A, c.F)
	}
	c.A = 0x01
	step(t, c)
	if c.A != 0x00 || !c.Zero() || !c.Carry() {
		t.Fatalf("SRL A got A=%02X F=%02X want Z and C", c.A, c.F)
	}
	c.A = 0x81
	step(t, c)
	if c.A != 0xC0 || !c.Carry() {
		t.Fatalf("SRA A got A=%02X F=%02X", c.A, c.F)
	}
}

func TestCPU_CB_RotateSetsZ(t *testing.T) {
	c, _ := newCPUWithROM([]byte{0xCB, 0x11}) // RL C
	c.C = 0x80
	c.F = 0
	step(t, c)
	if c.C != 0 || !c.Zero() || !c.Carry() {
		t.Fatalf("RL C got C=%02X F=%02X want Z and C", c.C, c.F)
	}
}

func TestCPU_BIT_PreservesCarry(t *testing.T) {
	c, _ := newCPUWithROM([]byte{0xCB, 0x40, 0xCB, 0x40}) // BIT 0,B twice
	c.B = 0x00
	c.F = FlagC | FlagN
	step(t, c)
	if !c.Zero() || c.Subtract() || !c.HalfCarry() || !c.Carry() {
		t.Fatalf("BIT 0,B on 0 F=%02X want Z=1 N=0 H=1 C=1", c.F)
	}
	c.B = 0x01
	c.F = 0
	step(t, c)
	if c.Zero() || c.Carry() {
		t.Fatalf("BIT 0,B on 1 F=%02X", c.F)
	}
}

func TestCPU_ADD_HL_FlagsAndCarry(t *testing.T) {
	c, _ := newCPUWithROM([]byte{
		0x21, 0xFF, 0x0F, // LD HL,0x0FFF
		0x01, 0x01, 0x00, // LD BC,0x0001
		0x09,             // ADD HL,BC
		0x21, 0xFF, 0xFF, // LD HL,0xFFFF
		0x01, 0x01, 0x00, // LD BC,0x0001
		0x09, // ADD HL,BC
	})
	step(t, c)
	step(t, c)
	c.F = FlagZ
	if cyc := step(t, c); cyc != 8 {
		t.Fatalf("ADD HL,BC cycles got %d want 8", cyc)
	}
	if c.HL() != 0x1000 || !c.Zero() || c.Subtract() || !c.HalfCarry() || c.Carry() {
		t.Fatalf("ADD HL,BC #1 HL=%04X F=%02X (expect Z=1 N=0 H=1 C=0)", c.HL(), c.F)
	}
	step(t, c)
	step(t, c)
	c.F = 0x00
	step(t, c)
	if c.HL() != 0x0000 || c.Zero() || c.Subtract() || !c.HalfCarry() || !c.Carry() {
		t.Fatalf("ADD HL,BC #2 HL=%04X F=%02X (expect Z=0 N=0 H=1 C=1)", c.HL(), c.F)
	}
}

func TestCPU_16bit_INC_DEC_DoNotAffectFlags(t *testing.T) {
	rom := []byte{
		0x03, // INC BC
		0x0B, // DEC BC
		0x23, // INC HL
		0x2B, // DEC HL
		0x13, // INC DE
		0x1B, // DEC DE
		0x33, // INC SP
		0x3B, // DEC SP
	}
	c, _ := newCPUWithROM(rom)
	c.F = 0xF0
	for range rom {
		if cyc := step(t, c); cyc != 8 {
			t.Fatalf("16-bit INC/DEC cycles got %d want 8", cyc)
		}
		if c.F != 0xF0 {
			t.Fatalf("16-bit INC/DEC should not change flags; F=%02X", c.F)
		}
	}
}

func TestCPU_Conditional_Cycles(t *testing.T) {
	c, b := newCPUWithROM([]byte{0x20, 0x02, 0x00, 0x00}) // JR NZ,+2; NOP; NOP
	c.F = 0x00
	if cyc := step(t, c); cyc != 12 || c.PC != 0x0004 {
		t.Fatalf("JR NZ taken cycles/PC: cyc=%d PC=%04X", cyc, c.PC)
	}
	c.PC = 0x0000
	c.F = FlagZ
	if cyc := step(t, c); cyc != 8 || c.PC != 0x0002 {
		t.Fatalf("JR NZ not-taken cycles/PC: cyc=%d PC=%04X", cyc, c.PC)
	}

	copy(b.mem[0x0010:], []byte{0xD2, 0x34, 0x12}) // JP NC,1234
	c.PC = 0x0010
	c.F = 0x00
	if cyc := step(t, c); cyc != 16 || c.PC != 0x1234 {
		t.Fatalf("JP NC taken cycles/PC: cyc=%d PC=%04X", cyc, c.PC)
	}
	c.PC = 0x0010
	c.F = FlagC
	if cyc := step(t, c); cyc != 12 || c.PC != 0x0013 {
		t.Fatalf("JP NC not-taken cycles/PC: cyc=%d PC=%04X", cyc, c.PC)
	}

	copy(b.mem[0x0020:], []byte{0xC4, 0x00, 0x40}) // CALL NZ,4000
	c.PC = 0x0020
	c.F = FlagZ
	if cyc := step(t, c); cyc != 12 || c.PC != 0x0023 {
		t.Fatalf("CALL NZ not-taken cycles/PC: cyc=%d PC=%04X", cyc, c.PC)
	}
	c.PC = 0x0020
	c.F = 0x00
	if cyc := step(t, c); cyc != 24 || c.PC != 0x4000 {
		t.Fatalf("CALL NZ taken cycles/PC: cyc=%d PC=%04X", cyc, c.PC)
	}

	b.mem[0x4000] = 0xD8 // RET C
	c.F = 0x00
	if cyc := step(t, c); cyc != 8 || c.PC != 0x4001 {
		t.Fatalf("RET C not-taken cycles=%d PC=%04X", cyc, c.PC)
	}
	c.PC = 0x4000
	c.F = FlagC
	if cyc := step(t, c); cyc != 20 || c.PC != 0x0023 {
		t.Fatalf("RET C taken cycles=%d PC=%04X", cyc, c.PC)
	}
}

func TestCPU_ADC_SBC_HalfCarry(t *testing.T) {
	c, _ := newCPUWithROM([]byte{0x3E, 0x0F, 0xCE, 0x00}) // LD A,0F; ADC A,00
	c.F = FlagC
	step(t, c)
	step(t, c)
	if c.A != 0x10 || !c.HalfCarry() || c.Carry() {
		t.Fatalf("ADC half-carry failed: A=%02X F=%02X", c.A, c.F)
	}

	c2, _ := newCPUWithROM([]byte{0x3E, 0x10, 0xDE, 0x01}) // LD A,10; SBC A,01
	c2.F = 0x00
	step(t, c2)
	step(t, c2)
	if c2.A != 0x0F || !c2.HalfCarry() || c2.Carry() {
		t.Fatalf("SBC half-borrow failed: A=%02X F=%02X", c2.A, c2.F)
	}

	c3, _ := newCPUWithROM([]byte{0x3E, 0x00, 0xDE, 0x01})
	c3.F = 0x00
	step(t, c3)
	step(t, c3)
	if c3.A != 0xFF || !c3.HalfCarry() || !c3.Carry() {
		t.Fatalf("SBC borrow flags failed: A=%02X F=%02X", c3.A, c3.F)
	}
}

func TestCPU_SUB_CP_Flags(t *testing.T) {
	c, _ := newCPUWithROM([]byte{0x90, 0xB8}) // SUB B; CP B
	c.A, c.B = 0x3E, 0x3E
	step(t, c)
	if c.A != 0 || !c.Zero() || !c.Subtract() || c.HalfCarry() || c.Carry() {
		t.Fatalf("SUB B A=%02X F=%02X", c.A, c.F)
	}
	c.A, c.B = 0x10, 0x20
	step(t, c)
	if c.A != 0x10 || c.Zero() || !c.Carry() {
		t.Fatalf("CP B must leave A and set carry: A=%02X F=%02X", c.A, c.F)
	}
}

func TestCPU_Logic_Flags(t *testing.T) {
	c, _ := newCPUWithROM([]byte{0xA0, 0xB0, 0xA8}) // AND B; OR B; XOR B
	c.A, c.B = 0xF0, 0x0F
	c.F = FlagC
	step(t, c)
	if c.A != 0 || c.F != FlagZ|FlagH {
		t.Fatalf("AND B A=%02X F=%02X want 00 and Z|H", c.A, c.F)
	}
	step(t, c)
	if c.A != 0x0F || c.F != 0 {
		t.Fatalf("OR B A=%02X F=%02X", c.A, c.F)
	}
	step(t, c)
	if c.A != 0 || c.F != FlagZ {
		t.Fatalf("XOR B A=%02X F=%02X", c.A, c.F)
	}
}

func TestCPU_LD_HL_SP_plus_r8_and_ADD_SP_r8_Flags(t *testing.T) {
	c, _ := newCPUWithROM([]byte{
		0x31, 0x0F, 0xFF, // LD SP,FF0F
		0xF8, 0xFF, // LD HL,SP-1
		0xE8, 0x01, // ADD SP,+1
		0xE8, 0xFE, // ADD SP,-2
	})
	step(t, c)
	if cyc := step(t, c); cyc != 12 {
		t.Fatalf("LD HL,SP+e8 cycles got %d want 12", cyc)
	}
	if c.HL() != 0xFF0E || !c.HalfCarry() || !c.Carry() || c.Zero() {
		t.Fatalf("LD HL,SP-1 flags/HL wrong: HL=%04X F=%02X", c.HL(), c.F)
	}
	if cyc := step(t, c); cyc != 16 {
		t.Fatalf("ADD SP,e8 cycles got %d want 16", cyc)
	}
	if c.SP != 0xFF10 || !c.HalfCarry() || c.Carry() {
		t.Fatalf("ADD SP,+1 flags/SP wrong: SP=%04X F=%02X", c.SP, c.F)
	}
	step(t, c)
	if c.SP != 0xFF0E || c.HalfCarry() || !c.Carry() {
		t.Fatalf("ADD SP,-2 flags/SP wrong: SP=%04X F=%02X", c.SP, c.F)
	}
}

func TestCPU_POP_AF_MasksFlagsLowNibble(t *testing.T) {
	c, b := newCPUWithROM([]byte{0xF5, 0xF1, 0x00}) // PUSH AF; POP AF
	c.A = 0x12
	c.F = 0xF0
	if cyc := step(t, c); cyc != 16 {
		t.Fatalf("PUSH cycles got %d want 16", cyc)
	}
	b.mem[c.SP] = 0x3F
	if cyc := step(t, c); cyc != 12 {
		t.Fatalf("POP cycles got %d want 12", cyc)
	}
	if c.A != 0x12 {
		t.Fatalf("POP AF A got %02X want 12", c.A)
	}
	if c.F != 0x30 {
		t.Fatalf("POP AF should clear low nibble of F, got F=%02X", c.F)
	}
}

func TestCPU_PUSH_POP_Pairs(t *testing.T) {
	c, _ := newCPUWithROM([]byte{0xC5, 0xD5, 0xE1, 0xC1}) // PUSH BC; PUSH DE; POP HL; POP BC
	c.SetBC(0x1234)
	c.SetDE(0xABCD)
	for i := 0; i < 4; i++ {
		step(t, c)
	}
	if c.HL() != 0xABCD || c.BC() != 0x1234 || c.SP != 0xFFFE {
		t.Fatalf("HL=%04X BC=%04X SP=%04X", c.HL(), c.BC(), c.SP)
	}
}

func TestCPU_UnprefixedRotates_ClearZ(t *testing.T) {
	c, _ := newCPUWithROM([]byte{0x07, 0x0F, 0x17, 0x1F}) // RLCA RRCA RLA RRA
	c.A = 0x00
	c.F = FlagZ
	step(t, c)
	if c.Zero() {
		t.Fatalf("RLCA should clear Z, F=%02X", c.F)
	}
	c.F = FlagZ
	step(t, c)
	if c.Zero() {
		t.Fatalf("RRCA should clear Z, F=%02X", c.F)
	}
	c.F = FlagZ | FlagC
	step(t, c)
	if c.Zero() || c.A != 0x01 {
		t.Fatalf("RLA should clear Z and rotate carry in, A=%02X F=%02X", c.A, c.F)
	}
	c.F = FlagC
	step(t, c)
	if c.Zero() || c.A != 0x80 || !c.Carry() {
		t.Fatalf("RRA A=%02X F=%02X", c.A, c.F)
	}
}

func TestCPU_CCF_SCF_CPL_Flags(t *testing.T) {
	c, _ := newCPUWithROM([]byte{
		0x3E, 0x00, // LD A,00
		0x37, // SCF
		0x3F, // CCF
		0x2F, // CPL
	})
	c.F = FlagZ
	step(t, c)
	step(t, c)
	if !c.Carry() || !c.Zero() || c.F&(FlagN|FlagH) != 0 {
		t.Fatalf("SCF flags unexpected F=%02X", c.F)
	}
	step(t, c)
	if c.Carry() || !c.Zero() || c.F&(FlagN|FlagH) != 0 {
		t.Fatalf("CCF flags unexpected F=%02X", c.F)
	}
	prev := c.F
	step(t, c)
	if c.A != 0xFF {
		t.Fatalf("CPL A got %02X want FF", c.A)
	}
	if c.F != prev|FlagN|FlagH {
		t.Fatalf("CPL flags unexpected F=%02X", c.F)
	}
}

func TestCPU_LD_r_from_HL_CyclesAndBehavior(t *testing.T) {
	regs := []struct {
		op  byte
		get func(*CPU) byte
	}{
		{0x46, func(c *CPU) byte { return c.B }},
		{0x4E, func(c *CPU) byte { return c.C }},
		{0x56, func(c *CPU) byte { return c.D }},
		{0x5E, func(c *CPU) byte { return c.E }},
		{0x66, func(c *CPU) byte { return c.H }},
		{0x6E, func(c *CPU) byte { return c.L }},
		{0x7E, func(c *CPU) byte { return c.A }},
	}
	for _, r := range regs {
		c, b := newCPUWithROM([]byte{0x21, 0x00, 0xC0, r.op}) // LD HL,C000; LD r,(HL)
		b.mem[0xC000] = 0x5A
		if cyc := step(t, c); cyc != 12 || c.HL() != 0xC000 {
			t.Fatalf("LD HL,d16 failed: cyc=%d HL=%04X", cyc, c.HL())
		}
		if cyc := step(t, c); cyc != 8 || r.get(c) != 0x5A {
			t.Fatalf("LD r,(HL) %02X cyc=%d got=%02X", r.op, cyc, r.get(c))
		}
	}
}

func TestCPU_IllegalOpcodeLocks(t *testing.T) {
	for _, op := range []byte{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		c, _ := newCPUWithROM([]byte{0x00, op, 0x00})
		step(t, c)
		_, err := c.Step()
		if !errors.Is(err, ErrIllegalOpcode) {
			t.Fatalf("opcode %02X: err=%v want ErrIllegalOpcode", op, err)
		}
		var oe *OpcodeError
		if !errors.As(err, &oe) || oe.PC != 0x0001 || oe.Opcode != op {
			t.Fatalf("opcode %02X: error detail %+v", op, oe)
		}
		pc := c.PC
		if cyc, again := c.Step(); again != err || cyc != 0 || c.PC != pc {
			t.Fatalf("opcode %02X: locked step cyc=%d err=%v PC=%04X", op, cyc, again, c.PC)
		}
		c.Reset(DMG, true)
		if c.Err() != nil {
			t.Fatalf("Reset did not clear the lock")
		}
	}
}

func TestCPU_InternalFaultIsAnError(t *testing.T) {
	saved := primary[0x00]
	defer func() { primary[0x00] = saved }()
	primary[0x00] = Instruction{Op: OpLd, Mode: ModeRegReg, R1: RegB, R2: RegNone, Cycles: 1}

	c, _ := newCPUWithROM([]byte{0x00})
	_, err := c.Step()
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("err=%v want ErrInternal", err)
	}
}

func TestCPU_SaveLoadState(t *testing.T) {
	c, b := newCPUWithROM([]byte{0xFB, 0x00}) // EI; NOP
	c.SetBC(0x1122)
	step(t, c)
	data := c.SaveState()

	r := New(b)
	if err := r.LoadState(data); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if r.BC() != 0x1122 || r.PC != 0x0001 || r.IME {
		t.Fatalf("restored BC=%04X PC=%04X IME=%t", r.BC(), r.PC, r.IME)
	}
	step(t, r)
	if !r.IME {
		t.Fatalf("staged EI lost across save state")
	}
}
