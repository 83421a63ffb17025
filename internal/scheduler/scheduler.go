// Package scheduler keeps the machine clock and a time-ordered queue of future
// hardware events. The CPU's consumed cycles are the only thing that moves the
// clock forward.
package scheduler

import (
	"bytes"
	"container/heap"
	"encoding/gob"
	"sort"
)

// Kind tags an event. The tag space is open: each hardware block declares its
// own kinds (by convention "<block>.<phase>").
type Kind string

// Event is a scheduled occurrence of Kind at the absolute cycle Time.
type Event struct {
	Kind Kind
	Time uint64

	seq uint64 // insertion order, breaks ties between equal Times
}

// queue is a min-heap ordered by (Time, seq). Equal timestamps pop in the
// order they were scheduled.
type queue []Event

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].Time != q[j].Time {
		return q[i].Time < q[j].Time
	}
	return q[i].seq < q[j].seq
}
func (q queue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x interface{}) { *q = append(*q, x.(Event)) }
func (q *queue) Pop() interface{} {
	old := *q
	n := len(old)
	ev := old[n-1]
	*q = old[:n-1]
	return ev
}

// Scheduler is the machine clock plus its pending events.
type Scheduler struct {
	now uint64
	seq uint64
	q   queue
}

func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the current absolute cycle count.
func (s *Scheduler) Now() uint64 { return s.now }

// Schedule enqueues kind at now+delay.
func (s *Scheduler) Schedule(kind Kind, delay uint64) {
	s.ScheduleAt(kind, s.now+delay)
}

// ScheduleAt enqueues kind at the absolute cycle t. A t in the past is due on
// the next PopDue.
func (s *Scheduler) ScheduleAt(kind Kind, t uint64) {
	heap.Push(&s.q, Event{Kind: kind, Time: t, seq: s.seq})
	s.seq++
}

// Advance moves the clock forward by cycles.
func (s *Scheduler) Advance(cycles uint64) { s.now += cycles }

// PopDue removes and returns the earliest event if its time has been reached.
func (s *Scheduler) PopDue() (Event, bool) {
	if len(s.q) == 0 || s.q[0].Time > s.now {
		return Event{}, false
	}
	return heap.Pop(&s.q).(Event), true
}

// NextTime reports the timestamp of the earliest pending event.
func (s *Scheduler) NextTime() (uint64, bool) {
	if len(s.q) == 0 {
		return 0, false
	}
	return s.q[0].Time, true
}

// Cancel drops every pending event of kind and returns how many were removed.
func (s *Scheduler) Cancel(kind Kind) int {
	kept := s.q[:0]
	removed := 0
	for _, ev := range s.q {
		if ev.Kind == kind {
			removed++
			continue
		}
		kept = append(kept, ev)
	}
	for i := len(kept); i < len(s.q); i++ {
		s.q[i] = Event{}
	}
	s.q = kept
	if removed > 0 {
		heap.Init(&s.q)
	}
	return removed
}

// Pending reports whether at least one event of kind is queued.
func (s *Scheduler) Pending(kind Kind) bool {
	for _, ev := range s.q {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

// Len returns the number of queued events.
func (s *Scheduler) Len() int { return len(s.q) }

// Events returns a snapshot of the queue in dispatch order.
func (s *Scheduler) Events() []Event {
	out := make([]Event, len(s.q))
	copy(out, s.q)
	sort.Slice(out, func(i, j int) bool { return queue(out).Less(i, j) })
	return out
}

// Reset empties the queue and rewinds the clock to zero.
func (s *Scheduler) Reset() {
	s.now = 0
	s.seq = 0
	s.q = s.q[:0]
}

// --- Save/Load state ---

type savedEvent struct {
	Kind Kind
	Time uint64
	Seq  uint64
}

type schedulerState struct {
	Now    uint64
	Seq    uint64
	Events []savedEvent
}

func (s *Scheduler) SaveState() []byte {
	st := schedulerState{Now: s.now, Seq: s.seq}
	for _, ev := range s.q {
		st.Events = append(st.Events, savedEvent{Kind: ev.Kind, Time: ev.Time, Seq: ev.seq})
	}
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(st)
	return buf.Bytes()
}

func (s *Scheduler) LoadState(data []byte) error {
	var st schedulerState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return err
	}
	s.now, s.seq = st.Now, st.Seq
	s.q = s.q[:0]
	for _, ev := range st.Events {
		s.q = append(s.q, Event{Kind: ev.Kind, Time: ev.Time, seq: ev.Seq})
	}
	heap.Init(&s.q)
	return nil
}
