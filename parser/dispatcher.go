package parser

import (
	"fmt"

	"github.com/pkg/errors"
)

type route struct {
	module string
	sub    Subscription
}

// HandlerPanicError is returned by Run when a handler panics.
type HandlerPanicError struct {
	Module string
	Event  *Event
	Value  interface{}
}

func (e *HandlerPanicError) Error() string {
	return fmt.Sprintf("module %s panicked on %s @ %d: %v", e.Module, e.Event.Type, e.Event.Timestamp, e.Value)
}

// Dispatcher replays a log through the active modules. Modules receive an
// event in construction order, so a tracker sees it before its dependents.
type Dispatcher struct {
	ctx    *Context
	routes map[EventType][]route

	// called after each event with the number of events delivered so far
	Progress func(done, total int)
}

func NewDispatcher(ctx *Context, modules []Module) *Dispatcher {
	d := &Dispatcher{
		ctx:    ctx,
		routes: make(map[EventType][]route),
	}

	for _, m := range modules {
		if !m.Analyzer.Active() {
			continue
		}
		for _, sub := range m.Analyzer.Subscriptions() {
			d.routes[sub.Filter.Type] = append(d.routes[sub.Filter.Type], route{module: m.Name, sub: sub})
		}
	}

	return d
}

func (d *Dispatcher) Run(log *Log) error {
	selected := d.ctx.selected
	events := log.Events()

	for i, ev := range events {
		d.ctx.advance(ev.Timestamp)
		selected.apply(ev)

		for _, r := range d.routes[ev.Type] {
			if !r.sub.Filter.Match(ev, selected.ID()) {
				continue
			}
			if err := d.deliver(r, ev); err != nil {
				return err
			}
		}

		if d.Progress != nil {
			d.Progress(i+1, len(events))
		}
	}

	d.ctx.advance(d.ctx.Fight.End)

	return nil
}

func (d *Dispatcher) deliver(r route, ev *Event) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = errors.WithStack(&HandlerPanicError{Module: r.module, Event: ev, Value: v})
		}
	}()

	r.sub.Handler(d.ctx, ev)
	return nil
}
