// Package debug renders machine state as text panels. The windowed debugger
// and the terminal stepper draw the same lines.
package debug

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/scheduler"
)

// Registers lists the register file, IME, run state and the interrupt
// registers.
func Registers(c *cpu.CPU, b cpu.Bus) []string {
	flags := []byte("----")
	for i, f := range []struct {
		mask byte
		ch   byte
	}{{cpu.FlagZ, 'Z'}, {cpu.FlagN, 'N'}, {cpu.FlagH, 'H'}, {cpu.FlagC, 'C'}} {
		if c.F&f.mask != 0 {
			flags[i] = f.ch
		}
	}
	return []string{
		fmt.Sprintf("AF %04X  %s", c.AF(), flags),
		fmt.Sprintf("BC %04X  DE %04X", c.BC(), c.DE()),
		fmt.Sprintf("HL %04X  SP %04X", c.HL(), c.SP),
		fmt.Sprintf("PC %04X  %s", c.PC, c.State()),
		fmt.Sprintf("IME %-5t IE %02X IF %02X", c.IME, b.Read(0xFFFF), b.Read(0xFF0F)),
	}
}

// Disassembly decodes n instructions starting at pc. The first line is
// marked as the next to execute.
func Disassembly(b cpu.Bus, pc uint16, n int) []string {
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		text, size := cpu.Disassemble(b, pc)
		mark := "  "
		if i == 0 {
			mark = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%04X  %s", mark, pc, text))
		pc += uint16(size)
	}
	return lines
}

// Queue lists pending events in firing order with their distance from now.
func Queue(s *scheduler.Scheduler, max int) []string {
	evs := s.Events()
	lines := make([]string, 0, len(evs)+1)
	lines = append(lines, fmt.Sprintf("t=%d  %d queued", s.Now(), len(evs)))
	for i, ev := range evs {
		if i == max {
			lines = append(lines, fmt.Sprintf("  ... %d more", len(evs)-max))
			break
		}
		lines = append(lines, fmt.Sprintf("  +%-6d %s", ev.Time-s.Now(), ev.Kind))
	}
	return lines
}

// Video summarises the LCD and APU.
func Video(m *emu.Machine) []string {
	l := m.LCD()
	a := m.APU()
	return []string{
		fmt.Sprintf("LCD on=%t mode=%s LY=%d frames=%d", l.Enabled(), l.Mode(), l.LY(), l.Frames()),
		fmt.Sprintf("APU on=%t fs=%d samples=%d", a.Powered(), a.FrameSeqStep(), a.Samples()),
	}
}

// Panel is every section for m, separated by blank lines.
func Panel(m *emu.Machine, disasm, queue int) []string {
	var out []string
	out = append(out, Registers(m.CPU(), m.Bus())...)
	out = append(out, "")
	out = append(out, Disassembly(m.Bus(), m.CPU().PC, disasm)...)
	out = append(out, "")
	out = append(out, Queue(m.Scheduler(), queue)...)
	out = append(out, "")
	out = append(out, Video(m)...)
	return out
}
