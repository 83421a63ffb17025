// Package bus implements the 16-bit memory map the CPU sees.
package bus

import (
	"bytes"
	"encoding/gob"
	"io"

	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/cpu"
)

// Device is a hardware block that owns part of the address space.
type Device interface {
	Read(addr uint16) byte
	Write(addr uint16, v byte)
}

// OAMWriter lets DMA fill sprite memory regardless of the display mode.
type OAMWriter interface {
	WriteOAM(index int, v byte)
}

// Devices are the blocks the bus forwards to. A nil device reads as open bus.
type Devices struct {
	LCD   Device // 8000-9FFF, FE00-FE9F, FF40-FF4B
	Timer Device // FF04-FF07
	APU   Device // FF10-FF3F
}

// Joypad button bits for SetJoypadState. The low nibble is the d-pad, the
// high nibble the buttons, in JOYP bit order.
const (
	JoypRight byte = 1 << iota
	JoypLeft
	JoypUp
	JoypDown
	JoypA
	JoypB
	JoypSelect
	JoypStart
)

type Bus struct {
	cart cart.Cartridge

	boot        []byte
	bootEnabled bool

	wram [0x2000]byte // 8KB internal RAM
	hram [0x7F]byte
	ie   byte
	ifr  byte

	dev Devices
	dma byte

	// serial
	sb, sc    byte
	serialOut io.Writer

	// joypad
	joypSelect byte // bits 4-5 as last written
	joypad     byte // pressed, Joyp* bits
}

func New(c cart.Cartridge) *Bus {
	return &Bus{cart: c, joypSelect: 0x30}
}

// Attach connects the memory-mapped hardware blocks.
func (b *Bus) Attach(d Devices) { b.dev = d }

// SetCartridge swaps the inserted cartridge.
func (b *Bus) SetCartridge(c cart.Cartridge) { b.cart = c }

// SetBootROM overlays data at 0x0000 until the program writes FF50.
func (b *Bus) SetBootROM(data []byte) {
	b.boot = data
	b.bootEnabled = len(data) > 0
}

func (b *Bus) BootROMEnabled() bool { return b.bootEnabled }

// SetSerialWriter receives every byte the program shifts out.
func (b *Bus) SetSerialWriter(w io.Writer) { b.serialOut = w }

// RequestInterrupt raises a line in IF.
func (b *Bus) RequestInterrupt(i cpu.Interrupt) { b.ifr |= i.Mask() }

// SetJoypadState sets the pressed buttons. A newly pressed button requests
// the joypad interrupt.
func (b *Bus) SetJoypadState(pressed byte) {
	if pressed&^b.joypad != 0 {
		b.RequestInterrupt(cpu.Joypad)
	}
	b.joypad = pressed
}

func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr < 0x0100 && b.bootEnabled && int(addr) < len(b.boot):
		return b.boot[addr]
	case addr < 0x8000, addr >= 0xA000 && addr < 0xC000:
		if b.cart == nil {
			return 0xFF
		}
		return b.cart.Read(addr)
	case addr < 0xA000:
		return readDev(b.dev.LCD, addr)
	case addr < 0xE000:
		return b.wram[addr-0xC000]
	case addr < 0xFE00: // echo of C000-DDFF
		return b.wram[addr-0xE000]
	case addr < 0xFEA0:
		return readDev(b.dev.LCD, addr)
	case addr < 0xFF00:
		return 0xFF
	case addr >= 0xFF80 && addr < 0xFFFF:
		return b.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return b.ie
	}
	return b.readIO(addr)
}

func (b *Bus) readIO(addr uint16) byte {
	switch {
	case addr == 0xFF00:
		return b.readJoyp()
	case addr == 0xFF01:
		return b.sb
	case addr == 0xFF02:
		return b.sc | 0x7E
	case addr >= 0xFF04 && addr <= 0xFF07:
		return readDev(b.dev.Timer, addr)
	case addr == 0xFF0F:
		return 0xE0 | b.ifr
	case addr >= 0xFF10 && addr <= 0xFF3F:
		return readDev(b.dev.APU, addr)
	case addr == 0xFF46:
		return b.dma
	case addr >= 0xFF40 && addr <= 0xFF4B:
		return readDev(b.dev.LCD, addr)
	}
	return 0xFF
}

func (b *Bus) Write(addr uint16, value byte) {
	switch {
	case addr < 0x8000, addr >= 0xA000 && addr < 0xC000:
		if b.cart != nil {
			b.cart.Write(addr, value)
		}
	case addr < 0xA000:
		writeDev(b.dev.LCD, addr, value)
	case addr < 0xE000:
		b.wram[addr-0xC000] = value
	case addr < 0xFE00:
		b.wram[addr-0xE000] = value
	case addr < 0xFEA0:
		writeDev(b.dev.LCD, addr, value)
	case addr < 0xFF00:
	case addr >= 0xFF80 && addr < 0xFFFF:
		b.hram[addr-0xFF80] = value
	case addr == 0xFFFF:
		b.ie = value
	default:
		b.writeIO(addr, value)
	}
}

func (b *Bus) writeIO(addr uint16, value byte) {
	switch {
	case addr == 0xFF00:
		b.joypSelect = value & 0x30
	case addr == 0xFF01:
		b.sb = value
	case addr == 0xFF02:
		b.sc = value & 0x81
		if value&0x81 == 0x81 {
			b.serialTransfer()
		}
	case addr >= 0xFF04 && addr <= 0xFF07:
		writeDev(b.dev.Timer, addr, value)
	case addr == 0xFF0F:
		b.ifr = value & 0x1F
	case addr >= 0xFF10 && addr <= 0xFF3F:
		writeDev(b.dev.APU, addr, value)
	case addr == 0xFF46:
		b.dma = value
		b.oamDMA(value)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		writeDev(b.dev.LCD, addr, value)
	case addr == 0xFF50:
		if value != 0 {
			b.bootEnabled = false
		}
	}
}

// serialTransfer completes an internally clocked transfer at once: there is
// no link partner, so the byte goes to the serial writer and 0xFF comes back.
func (b *Bus) serialTransfer() {
	if b.serialOut != nil {
		_, _ = b.serialOut.Write([]byte{b.sb})
	}
	b.sb = 0xFF
	b.sc &^= 0x80
	b.RequestInterrupt(cpu.Serial)
}

func (b *Bus) readJoyp() byte {
	v := 0xC0 | b.joypSelect | 0x0F
	if b.joypSelect&0x10 == 0 {
		v &^= b.joypad & 0x0F
	}
	if b.joypSelect&0x20 == 0 {
		v &^= b.joypad >> 4
	}
	return v
}

// oamDMA copies 160 bytes from src<<8 into sprite memory in one go.
func (b *Bus) oamDMA(src byte) {
	w, ok := b.dev.LCD.(OAMWriter)
	if !ok {
		return
	}
	base := uint16(src) << 8
	for i := 0; i < 0xA0; i++ {
		w.WriteOAM(i, b.Read(base+uint16(i)))
	}
}

func readDev(d Device, addr uint16) byte {
	if d == nil {
		return 0xFF
	}
	return d.Read(addr)
}

func writeDev(d Device, addr uint16, v byte) {
	if d != nil {
		d.Write(addr, v)
	}
}

// --- Save/Load state ---

type busState struct {
	WRAM        []byte
	HRAM        []byte
	IE, IF      byte
	SB, SC      byte
	JoypSelect  byte
	Joypad      byte
	DMA         byte
	BootEnabled bool
	Cart        []byte
}

func (b *Bus) SaveState() []byte {
	s := busState{
		WRAM:        b.wram[:],
		HRAM:        b.hram[:],
		IE:          b.ie,
		IF:          b.ifr,
		SB:          b.sb,
		SC:          b.sc,
		JoypSelect:  b.joypSelect,
		Joypad:      b.joypad,
		DMA:         b.dma,
		BootEnabled: b.bootEnabled,
	}
	if b.cart != nil {
		s.Cart = b.cart.SaveState()
	}
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(s)
	return buf.Bytes()
}

func (b *Bus) LoadState(data []byte) error {
	var s busState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	copy(b.wram[:], s.WRAM)
	copy(b.hram[:], s.HRAM)
	b.ie, b.ifr = s.IE, s.IF&0x1F
	b.sb, b.sc = s.SB, s.SC
	b.joypSelect, b.joypad = s.JoypSelect, s.Joypad
	b.dma = s.DMA
	b.bootEnabled = s.BootEnabled && len(b.boot) > 0
	if b.cart != nil && len(s.Cart) > 0 {
		return b.cart.LoadState(s.Cart)
	}
	return nil
}
