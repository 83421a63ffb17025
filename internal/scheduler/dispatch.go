package scheduler

// Handler runs when an event of a registered kind becomes due. It may return a
// continuation (next, delay, true); the dispatcher re-enqueues it at
// ev.Time+delay so periodic hardware keeps its cadence even when the event was
// popped late.
type Handler func(ev Event) (next Kind, delay uint64, ok bool)

// Collaborator is a hardware block that owns a set of event kinds.
type Collaborator interface {
	Kinds() []Kind
	HandleEvent(ev Event) (next Kind, delay uint64, ok bool)
}

// Dispatcher routes due events to the handler registered for their kind.
type Dispatcher struct {
	s        *Scheduler
	handlers map[Kind]Handler
}

func NewDispatcher(s *Scheduler) *Dispatcher {
	return &Dispatcher{s: s, handlers: make(map[Kind]Handler)}
}

// On registers h for kind, replacing any previous handler.
func (d *Dispatcher) On(kind Kind, h Handler) { d.handlers[kind] = h }

// Register wires every kind a collaborator owns to its HandleEvent.
func (d *Dispatcher) Register(c Collaborator) {
	for _, k := range c.Kinds() {
		d.On(k, c.HandleEvent)
	}
}

// Drain dispatches due events in queue order. When stop reports true for an
// event, Drain returns it immediately without running a handler; later due
// events stay queued. Events with no handler are dropped.
func (d *Dispatcher) Drain(stop func(Event) bool) (Event, bool) {
	for {
		ev, ok := d.s.PopDue()
		if !ok {
			return Event{}, false
		}
		if stop != nil && stop(ev) {
			return ev, true
		}
		h := d.handlers[ev.Kind]
		if h == nil {
			continue
		}
		if next, delay, again := h(ev); again {
			d.s.ScheduleAt(next, ev.Time+delay)
		}
	}
}
