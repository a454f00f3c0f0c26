package parser

type AuraInfo struct {
	AbilityID int `json:"ability"`
	Stacks    int `json:"stacks"`
}

// CombatantInfo is the static description of the analyzed player for one fight.
type CombatantInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Server string `json:"server"`
	Spec   string `json:"spec"`

	Talents   []int           `json:"talents"`
	Traits    []int           `json:"traits"`
	Auras     []AuraInfo      `json:"auras"`
	Haste     float64         `json:"haste"` // rating converted, 0.2 = 20 %
	Resources []ClassResource `json:"resources"`
}

type Buff struct {
	AbilityID int
	SourceID  int
	AppliedAt int64
	Stacks    int
}

// Combatant is the replayed state of the selected player. Analyzers only
// read it; the dispatcher applies events to it before delivering them.
type Combatant struct {
	info CombatantInfo

	talents map[int]bool
	traits  map[int]bool

	buffs     map[int]*Buff
	uptime    map[int]int64
	resources map[int]ClassResource

	start int64
	now   int64
}

func NewCombatant(info CombatantInfo, fightStart int64) *Combatant {
	c := &Combatant{
		info:      info,
		talents:   make(map[int]bool, len(info.Talents)),
		traits:    make(map[int]bool, len(info.Traits)),
		buffs:     make(map[int]*Buff),
		uptime:    make(map[int]int64),
		resources: make(map[int]ClassResource, len(info.Resources)),
		start:     fightStart,
		now:       fightStart,
	}

	for _, id := range info.Talents {
		c.talents[id] = true
	}
	for _, id := range info.Traits {
		c.traits[id] = true
	}
	for _, r := range info.Resources {
		c.resources[r.Type] = r
	}
	for _, aura := range info.Auras {
		stacks := aura.Stacks
		if stacks <= 0 {
			stacks = 1
		}
		c.buffs[aura.AbilityID] = &Buff{
			AbilityID: aura.AbilityID,
			SourceID:  info.ID,
			AppliedAt: fightStart,
			Stacks:    stacks,
		}
	}

	return c
}

func (c *Combatant) ID() int {
	return c.info.ID
}

func (c *Combatant) Name() string {
	return c.info.Name
}

func (c *Combatant) Spec() string {
	return c.info.Spec
}

func (c *Combatant) Info() CombatantInfo {
	return c.info
}

// BaseHaste is the rating haste from the gear snapshot, buffs excluded.
func (c *Combatant) BaseHaste() float64 {
	return c.info.Haste
}

func (c *Combatant) HasTalent(id int) bool {
	return c.talents[id]
}

func (c *Combatant) HasTrait(id int) bool {
	return c.traits[id]
}

func (c *Combatant) HasBuff(id int) bool {
	_, ok := c.buffs[id]
	return ok
}

func (c *Combatant) BuffStacks(id int) int {
	if b, ok := c.buffs[id]; ok {
		return b.Stacks
	}
	return 0
}

// GetBuffUptime is the time in ms the buff has been active so far.
func (c *Combatant) GetBuffUptime(id int) int64 {
	total := c.uptime[id]
	if b, ok := c.buffs[id]; ok {
		total += c.now - b.AppliedAt
	}
	return total
}

// Resource is the last known level of a class resource.
func (c *Combatant) Resource(resourceType int) (amount int, max int) {
	r := c.resources[resourceType]
	return r.Amount, r.Max
}

////////////////////////////////////////////////////////////////////////////////////////////////////

func (c *Combatant) advance(ts int64) {
	if ts > c.now {
		c.now = ts
	}
}

func (c *Combatant) apply(ev *Event) {
	for _, cr := range ev.ClassResources {
		if ev.SourceID == c.info.ID || (ev.Type == EventEnergize && ev.TargetID == c.info.ID) {
			c.resources[cr.Type] = cr
		}
	}

	if !ev.isBuffEvent() || ev.TargetID != c.info.ID {
		return
	}

	b, active := c.buffs[ev.AbilityID]

	switch ev.Type {
	case EventApplyBuff:
		if active {
			// applied twice without a remove in between
			c.closeBuff(b)
		}
		stacks := ev.Stack
		if stacks <= 0 {
			stacks = 1
		}
		c.buffs[ev.AbilityID] = &Buff{
			AbilityID: ev.AbilityID,
			SourceID:  ev.SourceID,
			AppliedAt: ev.Timestamp,
			Stacks:    stacks,
		}

	case EventApplyBuffStack, EventRemoveBuffStack:
		if !active {
			// logs can start mid-buff
			b = &Buff{
				AbilityID: ev.AbilityID,
				SourceID:  ev.SourceID,
				AppliedAt: ev.Timestamp,
			}
			c.buffs[ev.AbilityID] = b
		}
		b.Stacks = ev.Stack

	case EventRefreshBuff:
		if !active {
			c.buffs[ev.AbilityID] = &Buff{
				AbilityID: ev.AbilityID,
				SourceID:  ev.SourceID,
				AppliedAt: ev.Timestamp,
				Stacks:    1,
			}
		}

	case EventRemoveBuff:
		if active {
			c.closeBuff(b)
		} else {
			// active since before the log started
			c.uptime[ev.AbilityID] += ev.Timestamp - c.start
		}
	}
}

func (c *Combatant) closeBuff(b *Buff) {
	c.uptime[b.AbilityID] += c.now - b.AppliedAt
	delete(c.buffs, b.AbilityID)
}
