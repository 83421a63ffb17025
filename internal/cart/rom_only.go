package cart

import (
	"bytes"
	"encoding/gob"
)

// ROMOnly implements a cartridge without a bank controller: 32 KiB of fixed
// ROM and up to 8 KiB of external RAM at A000-BFFF.
type ROMOnly struct {
	rom     []byte
	ram     []byte
	battery bool
}

// NewROMOnly maps rom. ramSize bytes of external RAM are attached (capped at
// 8 KiB, the size of the window).
func NewROMOnly(rom []byte, ramSize int, battery bool) *ROMOnly {
	if ramSize > 0x2000 {
		ramSize = 0x2000
	}
	return &ROMOnly{rom: rom, ram: make([]byte, ramSize), battery: battery}
}

func (c *ROMOnly) Read(addr uint16) byte {
	switch {
	case addr < 0x8000: // ROM fixed area
		if int(addr) < len(c.rom) {
			return c.rom[addr]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if off := int(addr - 0xA000); off < len(c.ram) {
			return c.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

// Write ignores ROM-area writes; there is no controller to receive them.
func (c *ROMOnly) Write(addr uint16, value byte) {
	if addr >= 0xA000 && addr <= 0xBFFF {
		if off := int(addr - 0xA000); off < len(c.ram) {
			c.ram[off] = value
		}
	}
}

type romOnlyState struct {
	RAM []byte
}

func (c *ROMOnly) SaveState() []byte {
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(romOnlyState{RAM: c.ram})
	return buf.Bytes()
}

func (c *ROMOnly) LoadState(data []byte) error {
	var s romOnlyState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	copy(c.ram, s.RAM)
	return nil
}

// SaveRAM returns a copy of external RAM when the cartridge has a battery.
func (c *ROMOnly) SaveRAM() []byte {
	if !c.battery {
		return nil
	}
	out := make([]byte, len(c.ram))
	copy(out, c.ram)
	return out
}

func (c *ROMOnly) LoadRAM(data []byte) {
	if c.battery {
		copy(c.ram, data)
	}
}
