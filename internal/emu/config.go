package emu

import (
	"fmt"
	"strings"

	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/cpu"
)

// Config contains settings that affect emulation behavior.
type Config struct {
	Model      cpu.Model
	SkipBoot   bool // start at $0100 with post-boot registers even if a boot ROM is set
	Trace      bool // log every instruction through the machine's logger
	LimitFPS   bool // throttle RunFrame callers to ~60 Hz
	SampleRate int  // APU sample event rate in Hz
}

// Defaults returns a DMG that skips the boot ROM.
func Defaults() Config {
	return Config{Model: cpu.DMG, SkipBoot: true, SampleRate: 48000}
}

// ParseModel maps a flag value to a model.
func ParseModel(s string) (cpu.Model, error) {
	switch strings.ToLower(s) {
	case "", "dmg":
		return cpu.DMG, nil
	case "cgb":
		return cpu.CGB, nil
	case "cgb-dmg", "compat":
		return cpu.CGBCompat, nil
	}
	return cpu.DMG, fmt.Errorf("unknown model %q", s)
}
