// Package apu holds the sound registers, NR52 power and the channel length
// counters. It is clocked by two scheduler events: the 512 Hz frame sequencer
// and a sample tick at the host sample rate. No waveforms are synthesised.
package apu

import (
	"bytes"
	"encoding/gob"

	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/scheduler"
)

// CPU frequency in Hz (DMG)
const cpuHz = 4194304

const (
	FrameSeq scheduler.Kind = "apu.frameseq"
	Sample   scheduler.Kind = "apu.sample"
)

// FrameSeqPeriod is the frame sequencer step length in ticks (512 Hz).
const FrameSeqPeriod = cpuHz / 512

const base = 0xFF10

// Read-back OR masks for FF10-FF2F; write-only and unused bits read as 1.
var readMask = [0x20]byte{
	0x80, 0x3F, 0x00, 0xFF, 0xBF, // NR10-NR14
	0xFF, 0x3F, 0x00, 0xFF, 0xBF, // -, NR21-NR24
	0x7F, 0xFF, 0x9F, 0xFF, 0xBF, // NR30-NR34
	0xFF, 0xFF, 0x00, 0x00, 0xBF, // -, NR41-NR44
	0x00, 0x00, 0x70, // NR50, NR51, NR52
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
}

type channel struct {
	enabled bool
	length  int
}

// APU is the DMG sound block minus the mixer.
type APU struct {
	sched *scheduler.Scheduler

	powered bool
	regs    [0x20]byte // FF10-FF2F as written
	wave    [16]byte   // FF30-FF3F
	ch      [4]channel

	fsStep          int // 0..7
	cyclesPerSample uint64
	samples         uint64
}

// New returns a powered-off APU. sampleRate sets the Sample event period;
// zero or less picks 48 kHz.
func New(s *scheduler.Scheduler, sampleRate int) *APU {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	return &APU{sched: s, cyclesPerSample: uint64(cpuHz / sampleRate)}
}

func (a *APU) Kinds() []scheduler.Kind {
	return []scheduler.Kind{FrameSeq, Sample}
}

func (a *APU) HandleEvent(ev scheduler.Event) (scheduler.Kind, uint64, bool) {
	if !a.powered {
		return "", 0, false
	}
	switch ev.Kind {
	case FrameSeq:
		a.stepFrameSequencer()
		return FrameSeq, FrameSeqPeriod, true
	case Sample:
		a.samples++
		return Sample, a.cyclesPerSample, true
	}
	return "", 0, false
}

// Length counters clock on even steps.
func (a *APU) stepFrameSequencer() {
	if a.fsStep%2 == 0 {
		a.clockLength()
	}
	a.fsStep = (a.fsStep + 1) & 7
}

func (a *APU) clockLength() {
	for i := range a.ch {
		c := &a.ch[i]
		if !a.lengthEnabled(i) || c.length == 0 {
			continue
		}
		c.length--
		if c.length == 0 {
			c.enabled = false
		}
	}
}

// NRx4 register offset per channel
var ctrlReg = [4]int{0x04, 0x09, 0x0E, 0x13}

func (a *APU) lengthEnabled(i int) bool { return a.regs[ctrlReg[i]]&0x40 != 0 }

func (a *APU) Powered() bool { return a.powered }

// Samples counts Sample events since power-on.
func (a *APU) Samples() uint64 { return a.samples }

// FrameSeqStep is the next frame sequencer step.
func (a *APU) FrameSeqStep() int { return a.fsStep }

// ChannelOn reports NR52's status bit for channel i (0..3).
func (a *APU) ChannelOn(i int) bool { return i >= 0 && i < 4 && a.ch[i].enabled }

func (a *APU) Read(addr uint16) byte {
	switch {
	case addr >= 0xFF30 && addr <= 0xFF3F:
		return a.wave[addr-0xFF30]
	case addr == 0xFF26:
		v := byte(0x70)
		if a.powered {
			v |= 0x80
		}
		for i, c := range a.ch {
			if c.enabled {
				v |= 1 << i
			}
		}
		return v
	case addr >= base && addr < 0xFF30:
		return a.regs[addr-base] | readMask[addr-base]
	}
	return 0xFF
}

func (a *APU) Write(addr uint16, v byte) {
	switch {
	case addr >= 0xFF30 && addr <= 0xFF3F:
		a.wave[addr-0xFF30] = v
		return
	case addr == 0xFF26:
		a.setPower(v&0x80 != 0)
		return
	case addr < base || addr >= 0xFF30:
		return
	}
	if !a.powered {
		return
	}
	off := int(addr - base)
	a.regs[off] = v
	switch off {
	case 0x01, 0x06, 0x10: // NR11, NR21, NR41
		a.ch[chanOf(off)].length = 64 - int(v&0x3F)
	case 0x0B: // NR31
		a.ch[2].length = 256 - int(v)
	case 0x02, 0x07, 0x11: // NRx2: DAC off disables
		if v&0xF8 == 0 {
			a.ch[chanOf(off)].enabled = false
		}
	case 0x0A: // NR30
		if v&0x80 == 0 {
			a.ch[2].enabled = false
		}
	case 0x04, 0x09, 0x0E, 0x13:
		if v&0x80 != 0 {
			a.trigger(chanOf(off))
		}
	}
}

func chanOf(off int) int {
	switch {
	case off < 0x05:
		return 0
	case off < 0x0A:
		return 1
	case off < 0x0F:
		return 2
	}
	return 3
}

func (a *APU) dacOn(i int) bool {
	if i == 2 {
		return a.regs[0x0A]&0x80 != 0
	}
	return a.regs[ctrlReg[i]-2]&0xF8 != 0
}

func (a *APU) trigger(i int) {
	c := &a.ch[i]
	if c.length == 0 {
		c.length = 64
		if i == 2 {
			c.length = 256
		}
	}
	c.enabled = a.dacOn(i)
}

func (a *APU) setPower(on bool) {
	switch {
	case on && !a.powered:
		a.powered = true
		a.fsStep = 0
		a.sched.Schedule(FrameSeq, FrameSeqPeriod)
		a.sched.Schedule(Sample, a.cyclesPerSample)
	case !on && a.powered:
		a.powered = false
		a.sched.Cancel(FrameSeq)
		a.sched.Cancel(Sample)
		a.regs = [0x20]byte{}
		a.ch = [4]channel{}
	}
}

// --- Save/Load state ---

type apuState struct {
	Powered bool
	Regs    [0x20]byte
	Wave    [16]byte
	Enabled [4]bool
	Length  [4]int
	FSStep  int
	Samples uint64
}

func (a *APU) SaveState() []byte {
	s := apuState{Powered: a.powered, Regs: a.regs, Wave: a.wave, FSStep: a.fsStep, Samples: a.samples}
	for i, c := range a.ch {
		s.Enabled[i], s.Length[i] = c.enabled, c.length
	}
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(s)
	return buf.Bytes()
}

func (a *APU) LoadState(data []byte) error {
	var s apuState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	a.powered, a.regs, a.wave = s.Powered, s.Regs, s.Wave
	a.fsStep, a.samples = s.FSStep&7, s.Samples
	for i := range a.ch {
		a.ch[i] = channel{enabled: s.Enabled[i], length: s.Length[i]}
	}
	return nil
}
