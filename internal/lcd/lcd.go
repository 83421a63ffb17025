// Package lcd models the display controller's timing: mode phases, LY/LYC,
// STAT interrupt sources and the VRAM/OAM it guards. It does not draw pixels.
package lcd

import (
	"bytes"
	"encoding/gob"

	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/scheduler"
)

// Each kind fires when the phase it names ends.
const (
	OamScan scheduler.Kind = "lcd.oamscan"
	Drawing scheduler.Kind = "lcd.drawing"
	HBlank  scheduler.Kind = "lcd.hblank"
	VBlank  scheduler.Kind = "lcd.vblank"
)

const (
	OamScanCycles = 80
	DrawingCycles = 172
	HBlankCycles  = 204
	LineCycles    = 456 // one VBlank line

	VisibleLines = 144
	Lines        = 154
	FrameCycles  = Lines * LineCycles
)

// Mode is the value of STAT bits 0-1.
type Mode byte

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOamScan
	ModeDrawing
)

func (m Mode) String() string {
	switch m {
	case ModeHBlank:
		return "HBlank"
	case ModeVBlank:
		return "VBlank"
	case ModeOamScan:
		return "OAM"
	case ModeDrawing:
		return "Drawing"
	}
	return "?"
}

// STAT interrupt enables
const (
	statHBlank = 1 << 3
	statVBlank = 1 << 4
	statOAM    = 1 << 5
	statLYC    = 1 << 6
	statCoinc  = 1 << 2
)

// LCD owns VRAM, OAM and FF40-FF4B except DMA.
type LCD struct {
	sched *scheduler.Scheduler
	irq   func(cpu.Interrupt)

	vram [0x2000]byte // 0x8000–0x9FFF
	oam  [0xA0]byte   // 0xFE00–0xFE9F

	lcdc byte // FF40
	stat byte // FF41 (mode bits 0-1, coincidence bit 2, enables bits 3-6)
	scy  byte // FF42
	scx  byte // FF43
	ly   byte // FF44
	lyc  byte // FF45
	bgp  byte // FF47
	obp0 byte // FF48
	obp1 byte // FF49
	wy   byte // FF4A
	wx   byte // FF4B

	frames uint64
}

func New(s *scheduler.Scheduler, irq func(cpu.Interrupt)) *LCD {
	return &LCD{sched: s, irq: irq}
}

func (l *LCD) Kinds() []scheduler.Kind {
	return []scheduler.Kind{OamScan, Drawing, HBlank, VBlank}
}

func (l *LCD) HandleEvent(ev scheduler.Event) (scheduler.Kind, uint64, bool) {
	if !l.Enabled() {
		return "", 0, false
	}
	switch ev.Kind {
	case OamScan:
		l.setMode(ModeDrawing)
		return Drawing, DrawingCycles, true
	case Drawing:
		l.setMode(ModeHBlank)
		return HBlank, HBlankCycles, true
	case HBlank:
		l.setLY(l.ly + 1)
		if l.ly == VisibleLines {
			l.frames++
			l.irq(cpu.VBlank)
			l.setMode(ModeVBlank)
			return VBlank, LineCycles, true
		}
		l.setMode(ModeOamScan)
		return OamScan, OamScanCycles, true
	case VBlank:
		if l.ly+1 >= Lines {
			l.setLY(0)
			l.setMode(ModeOamScan)
			return OamScan, OamScanCycles, true
		}
		l.setLY(l.ly + 1)
		return VBlank, LineCycles, true
	}
	return "", 0, false
}

func (l *LCD) Enabled() bool { return l.lcdc&0x80 != 0 }
func (l *LCD) Mode() Mode    { return Mode(l.stat & 0x03) }
func (l *LCD) LY() byte      { return l.ly }

// Frames counts VBlank entries since power-on.
func (l *LCD) Frames() uint64 { return l.frames }

func (l *LCD) Read(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		// VRAM is inaccessible to CPU during mode 3 (return 0xFF)
		if l.Mode() == ModeDrawing {
			return 0xFF
		}
		return l.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		// OAM is inaccessible during modes 2 and 3
		if m := l.Mode(); m == ModeOamScan || m == ModeDrawing {
			return 0xFF
		}
		return l.oam[addr-0xFE00]
	}
	switch addr {
	case 0xFF40:
		return l.lcdc
	case 0xFF41:
		// bit 7 reads as 1
		return 0x80 | (l.stat & 0x7F)
	case 0xFF42:
		return l.scy
	case 0xFF43:
		return l.scx
	case 0xFF44:
		return l.ly
	case 0xFF45:
		return l.lyc
	case 0xFF47:
		return l.bgp
	case 0xFF48:
		return l.obp0
	case 0xFF49:
		return l.obp1
	case 0xFF4A:
		return l.wy
	case 0xFF4B:
		return l.wx
	}
	return 0xFF
}

func (l *LCD) Write(addr uint16, value byte) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if l.Mode() == ModeDrawing {
			return
		}
		l.vram[addr-0x8000] = value
		return
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if m := l.Mode(); m == ModeOamScan || m == ModeDrawing {
			return
		}
		l.oam[addr-0xFE00] = value
		return
	}
	switch addr {
	case 0xFF40:
		l.setLCDC(value)
	case 0xFF41:
		l.stat = (l.stat & 0x07) | (value & 0x78)
	case 0xFF42:
		l.scy = value
	case 0xFF43:
		l.scx = value
	case 0xFF44: // read-only
	case 0xFF45:
		l.lyc = value
		l.compareLine()
	case 0xFF47:
		l.bgp = value
	case 0xFF48:
		l.obp0 = value
	case 0xFF49:
		l.obp1 = value
	case 0xFF4A:
		l.wy = value
	case 0xFF4B:
		l.wx = value
	}
}

// WriteOAM stores a DMA byte regardless of the current mode.
func (l *LCD) WriteOAM(index int, v byte) {
	if index >= 0 && index < len(l.oam) {
		l.oam[index] = v
	}
}

// RawVRAM reads VRAM without the mode 3 restriction, for the debugger.
func (l *LCD) RawVRAM(addr uint16) byte {
	if addr >= 0x8000 && addr <= 0x9FFF {
		return l.vram[addr-0x8000]
	}
	return 0xFF
}

func (l *LCD) setLCDC(value byte) {
	was := l.Enabled()
	l.lcdc = value
	switch {
	case was && !l.Enabled():
		for _, k := range l.Kinds() {
			l.sched.Cancel(k)
		}
		l.stat &^= 0x03
		l.setLY(0)
	case !was && l.Enabled():
		// Turning LCD on: start at LY=0, mode 2 (OAM)
		l.setLY(0)
		l.setMode(ModeOamScan)
		l.sched.Schedule(OamScan, OamScanCycles)
	}
}

func (l *LCD) setMode(m Mode) {
	l.stat = (l.stat &^ 0x03) | byte(m)
	var src byte
	switch m {
	case ModeHBlank:
		src = statHBlank
	case ModeVBlank:
		src = statVBlank
	case ModeOamScan:
		src = statOAM
	}
	if l.stat&src != 0 {
		l.irq(cpu.LCDStat)
	}
}

func (l *LCD) setLY(v byte) {
	l.ly = v
	l.compareLine()
}

func (l *LCD) compareLine() {
	if l.ly != l.lyc {
		l.stat &^= statCoinc
		return
	}
	l.stat |= statCoinc
	if l.stat&statLYC != 0 {
		l.irq(cpu.LCDStat)
	}
}

// --- Save/Load state ---

type lcdState struct {
	VRAM   [0x2000]byte
	OAM    [0xA0]byte
	LCDC   byte
	STAT   byte
	SCY    byte
	SCX    byte
	LY     byte
	LYC    byte
	BGP    byte
	OBP0   byte
	OBP1   byte
	WY     byte
	WX     byte
	Frames uint64
}

func (l *LCD) SaveState() []byte {
	var buf bytes.Buffer
	s := lcdState{
		VRAM: l.vram, OAM: l.oam,
		LCDC: l.lcdc, STAT: l.stat, SCY: l.scy, SCX: l.scx, LY: l.ly, LYC: l.lyc,
		BGP: l.bgp, OBP0: l.obp0, OBP1: l.obp1, WY: l.wy, WX: l.wx,
		Frames: l.frames,
	}
	_ = gob.NewEncoder(&buf).Encode(s)
	return buf.Bytes()
}

// LoadState restores registers and memory. The phase events themselves are
// part of the scheduler's state.
func (l *LCD) LoadState(data []byte) error {
	var s lcdState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	l.vram, l.oam = s.VRAM, s.OAM
	l.lcdc, l.stat, l.scy, l.scx, l.ly, l.lyc = s.LCDC, s.STAT, s.SCY, s.SCX, s.LY, s.LYC
	l.bgp, l.obp0, l.obp1, l.wy, l.wx = s.BGP, s.OBP0, s.OBP1, s.WY, s.WX
	l.frames = s.Frames
	return nil
}
