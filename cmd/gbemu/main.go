package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/debug"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/ui"
)

type CLIFlags struct {
	ROMPath string
	BootROM string
	Model   string
	Scale   int
	Title   string
	Trace   bool
	SaveRAM bool // persist battery RAM next to ROM (.sav)
	Paused  bool

	// headless
	Headless bool
	Frames   int
	Serial   bool
	Limit    bool
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.gb)")
	flag.StringVar(&f.BootROM, "bootrom", "", "optional DMG boot ROM")
	flag.StringVar(&f.Model, "model", "dmg", "hardware model: dmg, cgb or cgb-dmg")
	flag.IntVar(&f.Scale, "scale", 2, "window scale")
	flag.StringVar(&f.Title, "title", "gbcore", "window title")
	flag.BoolVar(&f.Trace, "trace", false, "CPU trace log")
	flag.BoolVar(&f.SaveRAM, "save", true, "persist battery RAM to ROM.sav on exit and load on start")
	flag.BoolVar(&f.Paused, "paused", false, "open the debugger paused")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.BoolVar(&f.Serial, "serial", false, "copy serial output to stdout")
	flag.BoolVar(&f.Limit, "limit", false, "throttle headless frames to hardware speed")
	flag.Parse()
	return f
}

// frameTime is one refresh at 4194304 Hz.
const frameTime = time.Second * emu.FrameCycles / 4194304

func runHeadless(m *emu.Machine, frames int) error {
	if frames <= 0 {
		frames = 1
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		if err := m.RunFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if m.Config().LimitFPS {
			if ahead := time.Duration(i+1)*frameTime - time.Since(start); ahead > 0 {
				time.Sleep(ahead)
			}
		}
	}
	dur := time.Since(start)
	fps := float64(frames) / dur.Seconds()

	log.Printf("headless: frames=%d cycles=%d elapsed=%s fps=%.2f",
		frames, m.Now(), dur.Truncate(time.Millisecond), fps)
	for _, s := range debug.Panel(m, 4, 8) {
		log.Print(s)
	}
	return nil
}

func mustRead(path string) []byte {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	return b
}

func savPath(rom string) string {
	return strings.TrimSuffix(rom, filepath.Ext(rom)) + ".sav"
}

func main() {
	f := parseFlags()
	if f.ROMPath == "" {
		log.Fatal("-rom is required")
	}
	model, err := emu.ParseModel(f.Model)
	if err != nil {
		log.Fatal(err)
	}
	boot := mustRead(f.BootROM)

	emuCfg := emu.Defaults()
	emuCfg.Model = model
	emuCfg.Trace = f.Trace
	emuCfg.LimitFPS = f.Limit
	emuCfg.SkipBoot = len(boot) < 0x100
	m := emu.New(emuCfg)
	m.SetLogger(log.Default())
	m.SetBootROM(boot)
	// prefer absolute path for state/save placement consistency
	romPath := f.ROMPath
	if abs, err := filepath.Abs(romPath); err == nil {
		romPath = abs
	}
	if err := m.LoadROMFromFile(romPath); err != nil {
		log.Fatalf("load cart: %v", err)
	}
	if f.Serial {
		m.SetSerialWriter(os.Stdout)
	}

	// Battery RAM: load .sav if present
	sav := ""
	if f.SaveRAM {
		sav = savPath(romPath)
		if data, err := os.ReadFile(sav); err == nil {
			if m.LoadBattery(data) {
				log.Printf("loaded save RAM: %s (%d bytes)", sav, len(data))
			}
		}
	}

	if f.Headless {
		err := runHeadless(m, f.Frames)
		writeBattery(m, sav)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	uiCfg := ui.Config{
		Title:     f.Title,
		Scale:     f.Scale,
		StatePath: strings.TrimSuffix(romPath, filepath.Ext(romPath)) + ".state",
		Paused:    f.Paused,
	}
	app := ui.NewApp(uiCfg, m)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
	writeBattery(m, sav)
}

func writeBattery(m *emu.Machine, path string) {
	if path == "" {
		return
	}
	data, ok := m.SaveBattery()
	if !ok {
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("write %s: %v", path, err)
		return
	}
	log.Printf("wrote %s", path)
}
