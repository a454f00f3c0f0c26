package parser

// Match describes one side of a link rule.
type Match struct {
	Type          EventType
	Spells        []int // empty matches any ability
	ExcludeSpells []int
	BySelected    bool
}

func (m Match) match(ev *Event, selectedID int) bool {
	if ev.Type != m.Type {
		return false
	}
	if m.BySelected && ev.SourceID != selectedID {
		return false
	}
	for _, id := range m.ExcludeSpells {
		if ev.AbilityID == id {
			return false
		}
	}
	if len(m.Spells) == 0 {
		return true
	}
	for _, id := range m.Spells {
		if ev.AbilityID == id {
			return true
		}
	}
	return false
}

// LinkRule attaches every Reference event to the Linking events found
// within [ts-BackwardMs, ts+ForwardMs]. Both events receive the link.
type LinkRule struct {
	Relation   string
	Reference  Match
	Linking    Match
	BackwardMs int64
	ForwardMs  int64
	MaxLinks   int // 0 means no limit
}

type CastLinkNormalizer struct {
	selectedID int
	rules      []LinkRule
}

func NewCastLinkNormalizer(selectedID int, rules ...LinkRule) *CastLinkNormalizer {
	return &CastLinkNormalizer{
		selectedID: selectedID,
		rules:      rules,
	}
}

// Normalize expects events ordered by timestamp. Candidates before the
// reference event are tried first, nearest first, then those after it.
// Events sharing the reference timestamp that come earlier in the log count
// as before it.
func (n *CastLinkNormalizer) Normalize(events []*Event) []*Event {
	for _, rule := range n.rules {
		for i, ref := range events {
			if !rule.Reference.match(ref, n.selectedID) {
				continue
			}

			links := 0
			full := func() bool {
				return rule.MaxLinks > 0 && links >= rule.MaxLinks
			}

			for k := i - 1; k >= 0 && !full(); k-- {
				ev := events[k]
				if ref.Timestamp-ev.Timestamp > rule.BackwardMs {
					break
				}
				if rule.Linking.match(ev, n.selectedID) {
					link(rule.Relation, ref, ev)
					links++
				}
			}

			for k := i + 1; k < len(events) && !full(); k++ {
				ev := events[k]
				if ev.Timestamp-ref.Timestamp > rule.ForwardMs {
					break
				}
				if rule.Linking.match(ev, n.selectedID) {
					link(rule.Relation, ref, ev)
					links++
				}
			}
		}
	}

	return events
}

func link(relation string, ref, other *Event) {
	ref.addLink(relation, other)
	other.addLink(relation, ref)
}
