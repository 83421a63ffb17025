package main

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/emu"
)

type traceEntry struct {
	pc                     uint16
	op                     byte
	cyc                    int
	a, f, b, c, d, e, h, l byte
	sp                     uint16
	ime                    bool
	ifreg                  byte
	ie                     byte
	now                    uint64
}

func snapshot(m *emu.Machine, pc uint16, op byte, cyc int) traceEntry {
	c := m.CPU()
	return traceEntry{
		pc:  pc,
		op:  op,
		cyc: cyc,
		a:   c.A, f: c.F, b: c.B, c: c.C, d: c.D, e: c.E, h: c.H, l: c.L,
		sp: c.SP, ime: c.IME, ifreg: m.Peek(0xFF0F), ie: m.Peek(0xFFFF),
		now: m.Now(),
	}
}

func (te traceEntry) String() string {
	return fmt.Sprintf("t=%d PC=%04X OP=%02X cyc=%d A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X IME=%t IF=%02X IE=%02X",
		te.now, te.pc, te.op, te.cyc, te.a, te.f, te.b, te.c, te.d, te.e, te.h, te.l, te.sp, te.ime, te.ifreg, te.ie)
}

// traceRing keeps the last n entries.
type traceRing struct {
	buf  []traceEntry
	idx  int
	fill int
}

func newTraceRing(n int) *traceRing {
	if n < 1 {
		n = 1
	}
	return &traceRing{buf: make([]traceEntry, n)}
}

func (r *traceRing) add(te traceEntry) {
	r.buf[r.idx] = te
	r.idx = (r.idx + 1) % len(r.buf)
	if r.fill < len(r.buf) {
		r.fill++
	}
}

// each visits the entries oldest first.
func (r *traceRing) each(fn func(traceEntry)) {
	start := (r.idx - r.fill + len(r.buf)) % len(r.buf)
	for j := 0; j < r.fill; j++ {
		fn(r.buf[(start+j)%len(r.buf)])
	}
}
