// Package timer implements DIV, TIMA, TMA and TAC on top of scheduler events.
package timer

import (
	"bytes"
	"encoding/gob"

	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/GameBoyCore/internal/scheduler"
)

const (
	DivTick  scheduler.Kind = "timer.div"
	TimaTick scheduler.Kind = "timer.tima"
	Reload   scheduler.Kind = "timer.reload"
)

const (
	divPeriod   = 256
	reloadDelay = 4
)

// TAC clock select -> ticks per TIMA increment
var periods = [4]uint64{1024, 16, 64, 256}

// Timer is the divider and programmable timer block.
type Timer struct {
	sched *scheduler.Scheduler
	irq   func(cpu.Interrupt)

	div, tima, tma, tac byte
	divBase             uint64 // clock value at the last divider reset
	reloading           bool
}

// New returns a timer that reads the clock from s and raises its interrupt
// through irq. Call Start once the scheduler is ready.
func New(s *scheduler.Scheduler, irq func(cpu.Interrupt)) *Timer {
	return &Timer{sched: s, irq: irq}
}

// Start queues the divider from the current time.
func (t *Timer) Start() {
	t.divBase = t.sched.Now()
	t.sched.Cancel(DivTick)
	t.sched.Schedule(DivTick, divPeriod)
	t.reschedule()
}

func (t *Timer) Kinds() []scheduler.Kind {
	return []scheduler.Kind{DivTick, TimaTick, Reload}
}

func (t *Timer) HandleEvent(ev scheduler.Event) (scheduler.Kind, uint64, bool) {
	switch ev.Kind {
	case DivTick:
		t.div++
		return DivTick, divPeriod, true
	case TimaTick:
		if !t.enabled() {
			return "", 0, false
		}
		t.increment(ev.Time)
		return TimaTick, t.period(), true
	case Reload:
		t.reloading = false
		t.tima = t.tma
		t.irq(cpu.Timer)
	}
	return "", 0, false
}

// increment bumps TIMA. On overflow TIMA reads 0 for four ticks before TMA
// is loaded and the interrupt is raised.
func (t *Timer) increment(at uint64) {
	if t.reloading {
		return
	}
	if t.tima == 0xFF {
		t.tima = 0
		t.reloading = true
		t.sched.ScheduleAt(Reload, at+reloadDelay)
		return
	}
	t.tima++
}

func (t *Timer) enabled() bool  { return t.tac&0x04 != 0 }
func (t *Timer) period() uint64 { return periods[t.tac&0x03] }

// reschedule lines the next TIMA tick up with the divider phase.
func (t *Timer) reschedule() {
	t.sched.Cancel(TimaTick)
	if !t.enabled() {
		return
	}
	p := t.period()
	elapsed := t.sched.Now() - t.divBase
	t.sched.ScheduleAt(TimaTick, t.divBase+(elapsed/p+1)*p)
}

func (t *Timer) Read(addr uint16) byte {
	switch addr {
	case 0xFF04:
		return t.div
	case 0xFF05:
		return t.tima
	case 0xFF06:
		return t.tma
	case 0xFF07:
		return 0xF8 | t.tac
	}
	return 0xFF
}

func (t *Timer) Write(addr uint16, v byte) {
	switch addr {
	case 0xFF04: // any write resets the divider
		t.div = 0
		t.Start()
	case 0xFF05:
		if t.reloading {
			t.sched.Cancel(Reload)
			t.reloading = false
		}
		t.tima = v
	case 0xFF06:
		t.tma = v
	case 0xFF07:
		t.tac = v & 0x07
		t.reschedule()
	}
}

// --- Save/Load state ---

type timerState struct {
	DIV, TIMA, TMA, TAC byte
	DivBase             uint64
	Reloading           bool
}

func (t *Timer) SaveState() []byte {
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(timerState{t.div, t.tima, t.tma, t.tac, t.divBase, t.reloading})
	return buf.Bytes()
}

// LoadState restores registers only; pending timer events come back with the
// scheduler's own state.
func (t *Timer) LoadState(data []byte) error {
	var s timerState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	t.div, t.tima, t.tma, t.tac = s.DIV, s.TIMA, s.TMA, s.TAC&0x07
	t.divBase, t.reloading = s.DivBase, s.Reloading
	return nil
}
