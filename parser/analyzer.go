package parser

// Handler receives a matching event. ev must not be modified.
type Handler func(ctx *Context, ev *Event)

type Subscription struct {
	Filter  Filter
	Handler Handler
}

// Analyzer is one plugin of the replay. An inactive analyzer never
// receives events and never reports.
type Analyzer interface {
	Active() bool
	Subscriptions() []Subscription
}

// Reporter is implemented by analyzers that render a statistic box.
type Reporter interface {
	Statistic() *Statistic
}

// Suggester is implemented by analyzers that emit suggestions.
type Suggester interface {
	Suggestions() []Suggestion
}

// Base is embedded by analyzers to collect subscriptions in their constructor.
type Base struct {
	subs []Subscription
}

func (b *Base) Active() bool {
	return true
}

func (b *Base) AddEventListener(f Filter, h Handler) {
	b.subs = append(b.subs, Subscription{Filter: f, Handler: h})
}

func (b *Base) Subscriptions() []Subscription {
	return b.subs
}

type inert struct{}

func (inert) Active() bool                  { return false }
func (inert) Subscriptions() []Subscription { return nil }

// Inert is the stand-in for a module that is disabled for this combatant.
func Inert() Analyzer {
	return inert{}
}
