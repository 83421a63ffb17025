// Package cart holds the cartridge side of the memory map: ROM, optional
// external RAM and the header that describes them.
package cart

import (
	"errors"
	"fmt"
)

// Cartridge is what the Bus needs from a cartridge. Addresses are CPU
// addresses (0x0000-0x7FFF and 0xA000-0xBFFF).
type Cartridge interface {
	Read(addr uint16) byte
	// Write handles control writes (0x0000-0x7FFF) and external RAM writes.
	Write(addr uint16, value byte)
	// SaveState/LoadState serialize external RAM for save states.
	SaveState() []byte
	LoadState(data []byte) error
}

// BatteryBacked is an optional interface for cartridges with external RAM to be persisted.
// Implementations return a copy of RAM bytes (may be empty if no RAM), and accept data to load.
type BatteryBacked interface {
	SaveRAM() []byte
	LoadRAM(data []byte)
}

// ErrBanked reports a cartridge that needs a memory bank controller. Only
// the first 32 KiB of such a ROM are visible.
var ErrBanked = errors.New("cartridge requires bank switching")

// NewCartridge builds the cartridge described by the ROM header. A ROM
// without a readable header (test programs) is mapped as plain ROM. For a
// banked cartridge the returned Cartridge is still usable and the error
// wraps ErrBanked.
func NewCartridge(rom []byte) (Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return NewROMOnly(rom, 0, false), nil
	}
	switch h.CartType {
	case 0x00:
		return NewROMOnly(rom, 0, false), nil
	case 0x08:
		return NewROMOnly(rom, h.RAMSizeBytes, false), nil
	case 0x09:
		return NewROMOnly(rom, h.RAMSizeBytes, true), nil
	}
	return NewROMOnly(rom, 0, false), fmt.Errorf("%s (type %#02x): %w", h.CartTypeStr, h.CartType, ErrBanked)
}
