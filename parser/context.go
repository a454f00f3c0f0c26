package parser

type Fight struct {
	ID    int    `json:"id"`
	Name  string `json:"name,omitempty"`
	Start int64  `json:"startTime"`
	End   int64  `json:"endTime"`
	Kill  bool   `json:"kill,omitempty"`
}

func (f Fight) Duration() int64 {
	return f.End - f.Start
}

// Context is handed to every constructor and handler of one replay. It
// replaces the parent back-pointers modules would otherwise need.
type Context struct {
	Fight Fight

	selected *Combatant
	now      int64
}

func NewContext(fight Fight, selected *Combatant) *Context {
	return &Context{
		Fight:    fight,
		selected: selected,
		now:      fight.Start,
	}
}

func (c *Context) Selected() *Combatant {
	return c.selected
}

// Now is the timestamp of the event being dispatched.
func (c *Context) Now() int64 {
	return c.now
}

func (c *Context) FightDuration() int64 {
	return c.Fight.Duration()
}

func (c *Context) advance(ts int64) {
	if ts > c.now {
		c.now = ts
	}
	c.selected.advance(ts)
}
