package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/debug"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/script"
)

const statsAddr = "localhost:12600"

// writerFunc adapts a function to io.Writer
type writerFunc func(p []byte) (n int, err error)

func (f writerFunc) Write(p []byte) (n int, err error) { return f(p) }

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	bootPath := flag.String("bootrom", "", "optional DMG boot ROM to run from 0x0000 until FF50 disables it")
	model := flag.String("model", "dmg", "hardware model: dmg, cgb or cgb-dmg")
	steps := flag.Int("steps", 5_000_000, "max CPU steps to run")
	startPC := flag.Int("pc", 0x0100, "initial PC value (ignored with -bootrom)")
	trace := flag.Bool("trace", false, "print every instruction with registers")
	until := flag.String("until", "Passed", "stop when serial output contains this substring (case-insensitive); empty to disable")
	auto := flag.Bool("auto", false, "auto-detect 'Passed' or 'Failed N tests' in serial output and exit with code 0/1")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	traceOnFail := flag.Bool("traceOnFail", false, "when -auto detects failure, print a recent trace window (slows down)")
	traceWindow := flag.Int("traceWindow", 200, "number of recent instructions to include in 'traceOnFail' dump")
	serialWindowFlag := flag.Int("serialWindow", 8192, "number of recent serial bytes to retain for diagnostics on fail")
	stepMode := flag.Bool("step", false, "start in the interactive single-step debugger")
	scriptPath := flag.String("script", "", "Lua file defining on_step(pc); a true return breaks")
	stats := flag.Bool("statsview", false, "serve runtime stats at "+statsAddr+"/debug/statsview")
	memvizOut := flag.String("memviz", "", "write a dot graph of the event scheduler to this path on exit")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	mdl, err := emu.ParseModel(*model)
	if err != nil {
		log.Fatal(err)
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("read rom: %v", err)
	}
	var boot []byte
	if *bootPath != "" {
		if b, err := os.ReadFile(*bootPath); err == nil {
			boot = b
		} else {
			log.Fatalf("read bootrom: %v", err)
		}
	}

	if *stats {
		go func() {
			viewer.SetConfiguration(viewer.WithAddr(statsAddr))
			statsview.New().Start()
		}()
		log.Printf("stats server available at %s/debug/statsview", statsAddr)
	}

	cfg := emu.Defaults()
	cfg.Model = mdl
	cfg.SkipBoot = len(boot) < 0x100
	m := emu.New(cfg)
	m.SetLogger(log.New(os.Stderr, "", 0))
	if err := m.LoadCartridge(rom, boot); err != nil {
		log.Fatalf("load cart: %v", err)
	}
	if cfg.SkipBoot {
		m.CPU().SetPC(uint16(*startPC))
	}

	var engine *script.Engine
	if *scriptPath != "" {
		engine, err = script.LoadFile(m, *scriptPath, os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
		defer engine.Close()
		if !engine.HasStepHook() {
			log.Printf("%s defines no on_step; it ran once", *scriptPath)
			engine = nil
		}
	}

	// Stream serial to stdout and capture in-memory for pattern detection
	var ser bytes.Buffer
	// Keep a compact serial ring for last N bytes to print on failure
	serialWindow := *serialWindowFlag
	if serialWindow < 256 {
		serialWindow = 256
	}
	serRing := make([]byte, serialWindow)
	serRingIdx := 0
	serRingFill := 0
	w := io.Writer(os.Stdout)
	if *until != "" || *auto {
		w = io.MultiWriter(os.Stdout, &ser, writerFunc(func(p []byte) (int, error) {
			for _, ch := range p {
				serRing[serRingIdx] = ch
				serRingIdx = (serRingIdx + 1) % serialWindow
				if serRingFill < serialWindow {
					serRingFill++
				}
			}
			return len(p), nil
		}))
	}
	m.SetSerialWriter(w)

	var st *stepper
	if *stepMode {
		st = newStepper(m)
	}

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}
	// Regex for failure summary: "Failed <n> tests"
	failRe := regexp.MustCompile(`(?i)failed\s+(\d+)\s+tests?`)
	// Regex to capture test markers like "11:01"
	stageRe := regexp.MustCompile(`\b(\d{2}:\d{2})\b`)
	lastStage := ""

	c := m.CPU()
	ring := newTraceRing(*traceWindow)
	done := func(i int) {
		fmt.Printf("\nDone: steps=%d cycles=%d elapsed=%s\n", i, m.Now(), time.Since(start).Truncate(time.Millisecond))
	}
	exit := func(code int) {
		if st != nil {
			st.close()
		}
		if *memvizOut != "" {
			dumpScheduler(m, *memvizOut)
		}
		os.Exit(code)
	}
	for i := 0; i < *steps; i++ {
		if st != nil && st.active() {
			if quit := st.prompt(); quit {
				done(i)
				exit(0)
			}
		}
		pc := c.PC
		var op byte
		if *trace || *traceOnFail {
			op = m.Peek(pc)
		}
		cyc, err := m.Step()
		if err != nil {
			fmt.Printf("\nCPU error: %v\n", err)
			printPanel(os.Stdout, m, "\n")
			done(i)
			exit(1)
		}
		if *trace || *traceOnFail {
			te := snapshot(m, pc, op, cyc)
			if *trace {
				fmt.Println(te)
			}
			if *traceOnFail {
				ring.add(te)
			}
		}
		if engine != nil {
			brk, err := engine.OnStep()
			if err != nil {
				fmt.Printf("\nscript: %v\n", err)
				exit(1)
			}
			if brk {
				fmt.Printf("\nscript break at PC=%04X t=%d\n", c.PC, m.Now())
				if st == nil {
					printPanel(os.Stdout, m, "\n")
					done(i + 1)
					exit(3)
				}
				st.pause()
			}
		}
		if *auto {
			s := ser.String()
			if mm := stageRe.FindAllString(s, -1); len(mm) > 0 {
				lastStage = mm[len(mm)-1]
			}
			if strings.Contains(strings.ToLower(s), "passed") {
				fmt.Printf("\nDetected PASS in serial output.\n")
				if lastStage != "" {
					fmt.Printf("Last stage seen: %s\n", lastStage)
				}
				done(i + 1)
				exit(0)
			}
			if fm := failRe.FindStringSubmatch(s); fm != nil {
				fmt.Printf("\nDetected %s in serial output.\n", fm[0])
				if lastStage != "" {
					fmt.Printf("Last stage seen: %s\n", lastStage)
				}
				if *traceOnFail && ring.fill > 0 {
					fmt.Printf("\n--- recent trace (last %d instructions) ---\n", ring.fill)
					ring.each(func(te traceEntry) { fmt.Println(te) })
					fmt.Printf("--- end trace ---\n")
				}
				if serRingFill > 0 {
					fmt.Printf("\n--- recent serial (last %d bytes) ---\n", serRingFill)
					start := (serRingIdx - serRingFill + serialWindow) % serialWindow
					for j := 0; j < serRingFill; j++ {
						fmt.Printf("%c", serRing[(start+j)%serialWindow])
					}
					fmt.Printf("\n--- end serial ---\n")
				}
				done(i + 1)
				exit(1)
			}
		} else if *until != "" {
			if strings.Contains(strings.ToLower(ser.String()), strings.ToLower(*until)) {
				fmt.Printf("\nDetected '%s' in serial output.\n", *until)
				done(i + 1)
				exit(0)
			}
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Printf("\nTimeout after %s.\n", time.Since(start).Truncate(time.Millisecond))
			done(i + 1)
			exit(2)
		}
	}
	done(*steps)
	exit(0)
}

func printPanel(w io.Writer, m *emu.Machine, eol string) {
	for _, s := range debug.Panel(m, 8, 10) {
		fmt.Fprint(w, s, eol)
	}
}

// dumpScheduler writes the scheduler's object graph in dot format.
func dumpScheduler(m *emu.Machine, path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Printf("memviz: %v", err)
		return
	}
	defer f.Close()
	memviz.Map(f, m.Scheduler())
	log.Printf("wrote %s", path)
}
