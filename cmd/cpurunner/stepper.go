package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/emu"
)

// stepper is the interactive single-step debugger. It puts the terminal in
// raw mode so single keys act without Enter.
type stepper struct {
	m        *emu.Machine
	fd       int
	oldState *term.State
	paused   bool
	// frame stepping runs until this clock value
	frameEnd uint64
}

func newStepper(m *emu.Machine) *stepper {
	s := &stepper{m: m, fd: int(os.Stdin.Fd()), paused: true}
	if !term.IsTerminal(s.fd) {
		return s
	}
	old, err := term.MakeRaw(s.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stepper: raw mode: %v\n", err)
		return s
	}
	s.oldState = old
	return s
}

func (s *stepper) close() {
	if s.oldState != nil {
		_ = term.Restore(s.fd, s.oldState)
		s.oldState = nil
	}
}

func (s *stepper) pause() { s.paused = true; s.frameEnd = 0 }

// active reports whether the next step should wait for a key.
func (s *stepper) active() bool {
	if s.frameEnd != 0 && s.m.Now() >= s.frameEnd {
		s.pause()
	}
	return s.paused
}

// prompt shows the panel and reads keys until one resumes execution.
// It returns true when the user quits.
func (s *stepper) prompt() bool {
	printPanel(os.Stdout, s.m, "\r\n")
	fmt.Print("[n/space] step  [f] frame  [c] continue  [q] quit\r\n")
	key := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(key); err != nil {
			return true
		}
		switch key[0] {
		case 'n', ' ', '\r':
			return false
		case 'f':
			s.paused = false
			s.frameEnd = s.m.Now() + emu.FrameCycles
			return false
		case 'c':
			s.paused = false
			return false
		case 'q', 3: // Ctrl-C arrives as a byte in raw mode
			return true
		}
	}
}
