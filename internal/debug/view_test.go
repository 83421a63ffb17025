package debug

import (
	"strings"
	"testing"

	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/scheduler"
)

func newMachine(t *testing.T, code ...byte) *emu.Machine {
	t.Helper()
	rom := make([]byte, 0x8000)
	copy(rom[0x0100:], code)
	m := emu.New(emu.Defaults())
	if err := m.LoadCartridge(rom, nil); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	return m
}

func TestRegisters(t *testing.T) {
	m := newMachine(t)
	lines := Registers(m.CPU(), m.Bus())
	if lines[0] != "AF 01B0  Z-HC" {
		t.Fatalf("AF line %q", lines[0])
	}
	if lines[3] != "PC 0100  running" {
		t.Fatalf("PC line %q", lines[3])
	}
	if !strings.Contains(lines[4], "IE 00") {
		t.Fatalf("interrupt line %q", lines[4])
	}
}

func TestDisassembly(t *testing.T) {
	m := newMachine(t, 0x00, 0xCD, 0x34, 0x12, 0x18, 0xFE)
	lines := Disassembly(m.Bus(), 0x0100, 3)
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "> 0100") {
		t.Fatalf("first line %q not marked", lines[0])
	}
	if lines[1] != "  0101  CALL $1234" {
		t.Fatalf("second line %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "  0104  JR") {
		t.Fatalf("third line %q", lines[2])
	}
}

func TestQueue(t *testing.T) {
	s := scheduler.New()
	s.Schedule("b.late", 20)
	s.Schedule("a.soon", 5)
	s.Schedule("c.last", 30)
	s.Advance(2)
	lines := Queue(s, 2)
	want := []string{"t=2  3 queued", "  +3      a.soon", "  +18     b.late", "  ... 1 more"}
	if len(lines) != len(want) {
		t.Fatalf("got %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d got %q want %q", i, lines[i], want[i])
		}
	}
}

func TestPanelAfterFrame(t *testing.T) {
	m := newMachine(t, 0x18, 0xFE)
	if err := m.RunFrame(); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
	text := strings.Join(Panel(m, 4, 8), "\n")
	for _, want := range []string{"frames=1", "APU on=true", "lcd.", "timer.div"} {
		if !strings.Contains(text, want) {
			t.Fatalf("panel missing %q:\n%s", want, text)
		}
	}
}
