package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/debug"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/emu"
)

const (
	screenW = 480
	screenH = 420

	// tile data viewer: 384 tiles, 16 per row
	tilesW = 16 * 8
	tilesH = 24 * 8

	lineH = 16
)

var shades = [4][3]byte{{0xE0, 0xF8, 0xD0}, {0x88, 0xC0, 0x70}, {0x34, 0x68, 0x56}, {0x08, 0x18, 0x20}}

// App is a windowed debugger: it runs the machine a frame per update and
// shows registers, disassembly, the event queue and VRAM tile data.
type App struct {
	cfg    Config
	m      *emu.Machine
	tiles  *ebiten.Image
	pix    []byte
	paused bool
	fast   bool
	status string
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(screenW*cfg.Scale, screenH*cfg.Scale)
	return &App{cfg: cfg, m: m, paused: cfg.Paused, pix: make([]byte, tilesW*tilesH*4)}
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	a.m.SetButtons(readButtons())

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
		a.status = ""
	}
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.m.Reset()
		a.status = "reset"
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := a.m.SaveStateToFile(a.cfg.StatePath); err != nil {
			a.status = err.Error()
		} else {
			a.status = "saved " + a.cfg.StatePath
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		if err := a.m.LoadStateFromFile(a.cfg.StatePath); err != nil {
			a.status = err.Error()
		} else {
			a.status = "loaded " + a.cfg.StatePath
		}
	}

	if a.paused {
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			if _, err := a.m.Step(); err != nil {
				a.status = err.Error()
			}
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyF) {
			a.runFrames(1)
		}
		return nil
	}
	n := 1
	if a.fast {
		n = 5
	}
	a.runFrames(n)
	return nil
}

// runFrames stops and pauses on the first CPU error so the faulting state
// stays on screen.
func (a *App) runFrames(n int) {
	for i := 0; i < n; i++ {
		if err := a.m.RunFrame(); err != nil {
			a.paused = true
			a.status = err.Error()
			return
		}
	}
}

func readButtons() emu.Buttons {
	return emu.Buttons{
		Right:  ebiten.IsKeyPressed(ebiten.KeyRight),
		Left:   ebiten.IsKeyPressed(ebiten.KeyLeft),
		Up:     ebiten.IsKeyPressed(ebiten.KeyUp),
		Down:   ebiten.IsKeyPressed(ebiten.KeyDown),
		A:      ebiten.IsKeyPressed(ebiten.KeyZ),
		B:      ebiten.IsKeyPressed(ebiten.KeyX),
		Start:  ebiten.IsKeyPressed(ebiten.KeyEnter),
		Select: ebiten.IsKeyPressed(ebiten.KeyShiftRight),
	}
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x10, 0x10, 0x18, 0xFF})
	if a.tiles == nil {
		a.tiles = ebiten.NewImage(tilesW, tilesH)
	}
	a.renderTiles()
	a.tiles.WritePixels(a.pix)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(8, 8)
	screen.DrawImage(a.tiles, op)

	x := tilesW + 24
	for i, s := range debug.Panel(a.m, 6, 6) {
		ebitenutil.DebugPrintAt(screen, s, x, 4+i*lineH)
	}

	run := "running"
	if a.paused {
		run = "paused  N step  F frame"
	}
	ebitenutil.DebugPrintAt(screen, run, 8, tilesH+16)
	ebitenutil.DebugPrintAt(screen, "P pause R reset F5/F9 state", 8, tilesH+16+lineH)
	if a.status != "" {
		ebitenutil.DebugPrintAt(screen, a.status, 8, screenH-lineH-4)
	}
	if h := a.m.Header(); h != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s (%s)", h.Title, h.CartTypeStr), 8, tilesH+16+3*lineH)
	}
}

// renderTiles decodes the 2bpp tile data at 0x8000-0x97FF with a fixed
// grey ramp, ignoring palettes.
func (a *App) renderTiles() {
	l := a.m.LCD()
	for t := 0; t < 384; t++ {
		tx, ty := (t%16)*8, (t/16)*8
		for y := 0; y < 8; y++ {
			addr := uint16(0x8000 + t*16 + y*2)
			lo, hi := l.RawVRAM(addr), l.RawVRAM(addr+1)
			for x := 0; x < 8; x++ {
				bit := 7 - uint(x)
				ci := (hi>>bit&1)<<1 | lo>>bit&1
				o := ((ty+y)*tilesW + tx + x) * 4
				s := shades[ci]
				a.pix[o], a.pix[o+1], a.pix[o+2], a.pix[o+3] = s[0], s[1], s[2], 0xFF
			}
		}
	}
}

func (a *App) Layout(outW, outH int) (int, int) { return screenW, screenH }
