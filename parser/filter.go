package parser

type ActorFilter int

const (
	AnyActor ActorFilter = iota
	SelectedPlayer
)

// Filter selects the events a handler is interested in.
//
//	parser.On(parser.EventCast).By(parser.SelectedPlayer).Spell(wow.Judgment)
type Filter struct {
	Type   EventType
	by     ActorFilter
	to     ActorFilter
	spells []int
}

func On(t EventType) Filter {
	return Filter{Type: t}
}

func (f Filter) By(a ActorFilter) Filter {
	f.by = a
	return f
}

func (f Filter) To(a ActorFilter) Filter {
	f.to = a
	return f
}

// Spell restricts the filter to the given ability ids, exact match.
func (f Filter) Spell(ids ...int) Filter {
	arr := make([]int, 0, len(f.spells)+len(ids))
	arr = append(arr, f.spells...)
	arr = append(arr, ids...)
	f.spells = arr
	return f
}

func (f Filter) Match(ev *Event, selectedID int) bool {
	if ev.Type != f.Type {
		return false
	}
	if f.by == SelectedPlayer && ev.SourceID != selectedID {
		return false
	}
	if f.to == SelectedPlayer && ev.TargetID != selectedID {
		return false
	}
	if len(f.spells) == 0 {
		return true
	}
	for _, id := range f.spells {
		if ev.AbilityID == id {
			return true
		}
	}
	return false
}
