// Package emu wires the CPU, bus and scheduler-driven hardware into one
// machine and runs it frame by frame.
package emu

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/apu"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/bus"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/lcd"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/scheduler"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/timer"
)

// FrameComplete ends RunFrame. It has no handler.
const FrameComplete scheduler.Kind = "emu.frame"

// FrameCycles is one display refresh in clock ticks.
const FrameCycles = lcd.FrameCycles

type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

type Machine struct {
	cfg Config
	log *log.Logger

	sched *scheduler.Scheduler
	disp  *scheduler.Dispatcher
	bus   *bus.Bus
	cpu   *cpu.CPU
	timer *timer.Timer
	lcd   *lcd.LCD
	apu   *apu.APU

	cart    cart.Cartridge
	header  *cart.Header
	romPath string
	bootROM []byte
	serial  io.Writer

	overshoot uint64
	frameDone bool
}

// New builds a powered-on machine with no cartridge inserted.
func New(cfg Config) *Machine {
	m := &Machine{cfg: cfg}
	m.Reset()
	return m
}

// SetLogger routes machine logs (cartridge warnings, trace lines). nil
// silences them.
func (m *Machine) SetLogger(l *log.Logger) { m.log = l }

func (m *Machine) logf(format string, args ...interface{}) {
	if m.log != nil {
		m.log.Printf(format, args...)
	}
}

// LoadCartridge inserts rom and resets. boot, if at least 256 bytes, is
// mapped at 0x0000 unless the config skips it. A cartridge that needs bank
// switching is still loaded; only its first 32 KiB are visible.
func (m *Machine) LoadCartridge(rom []byte, boot []byte) error {
	c, err := cart.NewCartridge(rom)
	switch {
	case errors.Is(err, cart.ErrBanked):
		m.logf("cart: %v; running unbanked", err)
	case err != nil:
		return fmt.Errorf("load cartridge: %w", err)
	}
	m.cart = c
	m.header, _ = cart.ParseHeader(rom)
	if m.header != nil {
		m.logf("ROM: %q type=%s banks=%d ram=%dB checksum_ok=%t",
			m.header.Title, m.header.CartTypeStr, m.header.ROMBanks, m.header.RAMSizeBytes, cart.HeaderChecksumOK(rom))
	}
	m.SetBootROM(boot)
	m.Reset()
	return nil
}

// LoadROMFromFile replaces the current cartridge with a ROM from disk, preserving boot ROM setting.
func (m *Machine) LoadROMFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := m.LoadCartridge(data, m.bootROM); err != nil {
		return err
	}
	m.romPath = path
	return nil
}

func (m *Machine) ROMPath() string { return m.romPath }

// Header is the parsed header of the inserted ROM, or nil.
func (m *Machine) Header() *cart.Header { return m.header }

// SetBootROM sets the DMG boot ROM used on the next Reset.
func (m *Machine) SetBootROM(data []byte) {
	if len(data) >= 0x100 {
		m.bootROM = make([]byte, 0x100)
		copy(m.bootROM, data[:0x100])
	} else {
		m.bootROM = nil
	}
}

func (m *Machine) HasBootROM() bool { return len(m.bootROM) >= 0x100 }

// Reset rebuilds the hardware around the inserted cartridge. With a boot
// ROM (and SkipBoot unset) execution starts at 0x0000; otherwise registers
// and IO start in the post-boot state at 0x0100.
func (m *Machine) Reset() {
	m.sched = scheduler.New()
	m.disp = scheduler.NewDispatcher(m.sched)
	m.bus = bus.New(m.cart)
	m.timer = timer.New(m.sched, m.bus.RequestInterrupt)
	m.lcd = lcd.New(m.sched, m.bus.RequestInterrupt)
	m.apu = apu.New(m.sched, m.cfg.SampleRate)
	m.bus.Attach(bus.Devices{LCD: m.lcd, Timer: m.timer, APU: m.apu})
	m.disp.Register(m.timer)
	m.disp.Register(m.lcd)
	m.disp.Register(m.apu)
	m.bus.SetSerialWriter(m.serial)
	m.cpu = cpu.New(m.bus)
	m.overshoot = 0
	m.frameDone = false

	model := m.model()
	if m.HasBootROM() && !m.cfg.SkipBoot {
		m.bus.SetBootROM(m.bootROM)
		m.cpu.Reset(model, false)
		m.timer.Start()
		return
	}
	m.cpu.Reset(model, true)
	m.timer.Start()
	m.applyPostBootIO()
}

// model picks compatibility mode for a monochrome cartridge on a CGB.
func (m *Machine) model() cpu.Model {
	if m.cfg.Model == cpu.CGB && m.header != nil && !m.header.CGBAware() {
		return cpu.CGBCompat
	}
	return m.cfg.Model
}

// applyPostBootIO sets the IO registers the boot ROM leaves behind, so ROMs
// can start from PC=0x0100 and still have LCD enabled.
func (m *Machine) applyPostBootIO() {
	b := m.bus
	b.Write(0xFF00, 0xCF)
	b.Write(0xFF05, 0x00) // TIMA
	b.Write(0xFF06, 0x00) // TMA
	b.Write(0xFF07, 0x00) // TAC (disabled)
	b.Write(0xFF26, 0x80) // NR52 power
	b.Write(0xFF24, 0x77) // NR50
	b.Write(0xFF25, 0xF3) // NR51
	b.Write(0xFF40, 0x91) // LCDC: LCD on, BG on, tile data 8000
	b.Write(0xFF42, 0x00) // SCY
	b.Write(0xFF43, 0x00) // SCX
	b.Write(0xFF45, 0x00) // LYC
	b.Write(0xFF47, 0xFC) // BGP
	b.Write(0xFF48, 0xFF) // OBP0
	b.Write(0xFF49, 0xFF) // OBP1
	b.Write(0xFF4A, 0x00) // WY
	b.Write(0xFF4B, 0x00) // WX
	b.Write(0xFF0F, 0x01) // IF: VBlank left pending by the boot ROM
	b.Write(0xFFFF, 0x00) // IE
}

// Step runs one instruction (or one idle/dispatch step), advances the clock
// by its cost and dispatches every event that became due.
func (m *Machine) Step() (int, error) {
	pc := m.cpu.PC
	cycles, err := m.cpu.Step()
	if err != nil {
		return 0, err
	}
	if m.cfg.Trace && m.log != nil {
		m.trace(pc, cycles)
	}
	m.sched.Advance(uint64(cycles))
	m.dispatch()
	return cycles, nil
}

func (m *Machine) trace(pc uint16, cycles int) {
	if irq, ok := m.cpu.Dispatching(); ok {
		m.logf("t=%d irq=%s vector=%04X", m.sched.Now(), irq, irq.Vector())
		return
	}
	text, _ := cpu.Disassemble(m.bus, pc)
	c := m.cpu
	m.logf("t=%d pc=%04X op=%-14s cyc=%d A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X IME=%t",
		m.sched.Now(), pc, text, cycles, c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L, c.SP, c.IME)
}

func isFrame(ev scheduler.Event) bool { return ev.Kind == FrameComplete }

// dispatch drains due events. FrameComplete marks the frame done and the
// remaining due events are still delivered.
func (m *Machine) dispatch() {
	for {
		if _, hit := m.disp.Drain(isFrame); !hit {
			return
		}
		m.frameDone = true
	}
}

// RunFrame runs until the FrameComplete event. The event is placed one frame
// after the start, less the previous frame's overshoot, so frames keep an
// exact average length even though instructions straddle the boundary.
func (m *Machine) RunFrame() error {
	start := m.sched.Now()
	end := start + FrameCycles - m.overshoot
	m.frameDone = false
	m.sched.Cancel(FrameComplete)
	m.sched.ScheduleAt(FrameComplete, end)
	for !m.frameDone {
		if _, err := m.Step(); err != nil {
			m.sched.Cancel(FrameComplete)
			return err
		}
	}
	m.overshoot = m.sched.Now() - end
	return nil
}

func (m *Machine) CPU() *cpu.CPU                   { return m.cpu }
func (m *Machine) Bus() *bus.Bus                   { return m.bus }
func (m *Machine) LCD() *lcd.LCD                   { return m.lcd }
func (m *Machine) APU() *apu.APU                   { return m.apu }
func (m *Machine) Scheduler() *scheduler.Scheduler { return m.sched }
func (m *Machine) Config() Config                  { return m.cfg }

// Now is the machine clock in ticks since reset.
func (m *Machine) Now() uint64 { return m.sched.Now() }

// Peek reads memory as the CPU would.
func (m *Machine) Peek(addr uint16) byte { return m.bus.Read(addr) }

// SetSerialWriter connects an io.Writer to receive bytes written to the serial port (FF01/FF02).
// Useful for running test ROMs that report via serial.
func (m *Machine) SetSerialWriter(w io.Writer) {
	m.serial = w
	m.bus.SetSerialWriter(w)
}

// SaveBattery returns external cartridge RAM when the cartridge has a battery.
// The actual file IO is managed by the caller.
func (m *Machine) SaveBattery() ([]byte, bool) {
	bb, ok := m.cart.(cart.BatteryBacked)
	if !ok {
		return nil, false
	}
	data := bb.SaveRAM()
	return data, len(data) > 0
}

func (m *Machine) LoadBattery(data []byte) bool {
	bb, ok := m.cart.(cart.BatteryBacked)
	if !ok {
		return false
	}
	bb.LoadRAM(data)
	return true
}

func (m *Machine) SetButtons(b Buttons) {
	var mask byte
	if b.Right {
		mask |= bus.JoypRight
	}
	if b.Left {
		mask |= bus.JoypLeft
	}
	if b.Up {
		mask |= bus.JoypUp
	}
	if b.Down {
		mask |= bus.JoypDown
	}
	if b.A {
		mask |= bus.JoypA
	}
	if b.B {
		mask |= bus.JoypB
	}
	if b.Select {
		mask |= bus.JoypSelect
	}
	if b.Start {
		mask |= bus.JoypStart
	}
	m.bus.SetJoypadState(mask)
}

// --- Save/Load state ---

type machineState struct {
	Scheduler []byte
	CPU       []byte
	Bus       []byte
	Timer     []byte
	LCD       []byte
	APU       []byte
	Overshoot uint64
}

func (m *Machine) SaveState() []byte {
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(machineState{
		Scheduler: m.sched.SaveState(),
		CPU:       m.cpu.SaveState(),
		Bus:       m.bus.SaveState(),
		Timer:     m.timer.SaveState(),
		LCD:       m.lcd.SaveState(),
		APU:       m.apu.SaveState(),
		Overshoot: m.overshoot,
	})
	return buf.Bytes()
}

func (m *Machine) LoadState(data []byte) error {
	var s machineState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("decode state: %w", err)
	}
	parts := []struct {
		name string
		load func([]byte) error
		data []byte
	}{
		{"scheduler", m.sched.LoadState, s.Scheduler},
		{"cpu", m.cpu.LoadState, s.CPU},
		{"bus", m.bus.LoadState, s.Bus},
		{"timer", m.timer.LoadState, s.Timer},
		{"lcd", m.lcd.LoadState, s.LCD},
		{"apu", m.apu.LoadState, s.APU},
	}
	for _, p := range parts {
		if err := p.load(p.data); err != nil {
			return fmt.Errorf("load %s state: %w", p.name, err)
		}
	}
	m.overshoot = s.Overshoot
	return nil
}

func (m *Machine) SaveStateToFile(path string) error {
	return os.WriteFile(path, m.SaveState(), 0644)
}

func (m *Machine) LoadStateFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.LoadState(data)
}
