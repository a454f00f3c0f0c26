package parser

type EventType string

const (
	EventCast            EventType = "cast"
	EventBeginCast       EventType = "begincast"
	EventDamage          EventType = "damage"
	EventHeal            EventType = "heal"
	EventAbsorbed        EventType = "absorbed"
	EventApplyBuff       EventType = "applybuff"
	EventApplyBuffStack  EventType = "applybuffstack"
	EventRemoveBuffStack EventType = "removebuffstack"
	EventRefreshBuff     EventType = "refreshbuff"
	EventRemoveBuff      EventType = "removebuff"
	EventApplyDebuff     EventType = "applydebuff"
	EventRemoveDebuff    EventType = "removedebuff"
	EventEnergize        EventType = "energize"
	EventDeath           EventType = "death"
	EventCombatantInfo   EventType = "combatantinfo"
)

const hitTypeCrit = 2

type ClassResource struct {
	Type   int `json:"type"`
	Amount int `json:"amount"`
	Max    int `json:"max"`
}

// Event is one line of a combat log. Fields missing from the log decode as zero.
// Handlers receive events by pointer and must not modify them.
type Event struct {
	Timestamp int64     `json:"timestamp"`
	Type      EventType `json:"type"`
	SourceID  int       `json:"sourceID"`
	TargetID  int       `json:"targetID"`
	AbilityID int       `json:"abilityGameID"`
	Fight     int       `json:"fight"`

	Amount   int `json:"amount,omitempty"`
	Absorbed int `json:"absorbed,omitempty"`
	Overheal int `json:"overheal,omitempty"`
	HitType  int `json:"hitType,omitempty"`
	Stack    int `json:"stack,omitempty"`

	ResourceChange     int             `json:"resourceChange,omitempty"`
	ResourceChangeType int             `json:"resourceChangeType,omitempty"`
	Waste              int             `json:"waste,omitempty"`
	ClassResources     []ClassResource `json:"classResources,omitempty"`

	seq   int
	links map[string][]*Event
}

func (e *Event) Crit() bool {
	return e.HitType == hitTypeCrit
}

// Effective is the amount that landed, absorbed part included.
func (e *Event) Effective() int {
	return e.Amount + e.Absorbed
}

// ResourceAfter reports the actor's resource level carried by the event.
func (e *Event) ResourceAfter(resourceType int) (amount int, max int, ok bool) {
	for _, cr := range e.ClassResources {
		if cr.Type == resourceType {
			return cr.Amount, cr.Max, true
		}
	}
	return 0, 0, false
}

// Linked returns the events attached to e under relation by a normalizer.
func (e *Event) Linked(relation string) []*Event {
	if e.links == nil {
		return nil
	}
	return e.links[relation]
}

func (e *Event) addLink(relation string, other *Event) {
	if e.links == nil {
		e.links = make(map[string][]*Event, 1)
	}
	e.links[relation] = append(e.links[relation], other)
}

func (e *Event) isBuffEvent() bool {
	switch e.Type {
	case EventApplyBuff, EventApplyBuffStack, EventRemoveBuffStack, EventRefreshBuff, EventRemoveBuff:
		return true
	}
	return false
}
