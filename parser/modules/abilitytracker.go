package modules

import (
	"sort"

	"github.com/bdfreeman1421/WoWAnalyzer/parser"
)

const AbilityTrackerName = "abilityTracker"

type AbilityStats struct {
	SpellID int

	Casts        int
	Hits         int
	Damage       int64
	Healing      int64
	Overhealing  int64
	CritHits     int
	DamageEvents int
	HealEvents   int
}

// AbilityTracker totals casts, damage and healing per ability of the selected player.
type AbilityTracker struct {
	parser.Base

	abilities map[int]*AbilityStats
}

func AbilityTrackerSpec() parser.Spec {
	return parser.Spec{
		Name: AbilityTrackerName,
		New: func(opts parser.Options, deps parser.Deps) (parser.Analyzer, error) {
			return NewAbilityTracker(), nil
		},
	}
}

func NewAbilityTracker() *AbilityTracker {
	a := &AbilityTracker{
		abilities: make(map[int]*AbilityStats),
	}

	a.AddEventListener(parser.On(parser.EventCast).By(parser.SelectedPlayer), a.onCast)
	a.AddEventListener(parser.On(parser.EventDamage).By(parser.SelectedPlayer), a.onDamage)
	a.AddEventListener(parser.On(parser.EventHeal).By(parser.SelectedPlayer), a.onHeal)

	return a
}

func (a *AbilityTracker) get(spellID int) *AbilityStats {
	st, ok := a.abilities[spellID]
	if !ok {
		st = &AbilityStats{SpellID: spellID}
		a.abilities[spellID] = st
	}
	return st
}

func (a *AbilityTracker) onCast(ctx *parser.Context, ev *parser.Event) {
	a.get(ev.AbilityID).Casts++
}

func (a *AbilityTracker) onDamage(ctx *parser.Context, ev *parser.Event) {
	st := a.get(ev.AbilityID)
	st.DamageEvents++
	st.Hits++
	st.Damage += int64(ev.Effective())
	if ev.Crit() {
		st.CritHits++
	}
}

func (a *AbilityTracker) onHeal(ctx *parser.Context, ev *parser.Event) {
	st := a.get(ev.AbilityID)
	st.HealEvents++
	st.Hits++
	st.Healing += int64(ev.Effective())
	st.Overhealing += int64(ev.Overheal)
	if ev.Crit() {
		st.CritHits++
	}
}

// Ability returns a copy of the totals for spellID, zero when never seen.
func (a *AbilityTracker) Ability(spellID int) AbilityStats {
	if st, ok := a.abilities[spellID]; ok {
		return *st
	}
	return AbilityStats{SpellID: spellID}
}

func (a *AbilityTracker) Casts(spellID int) int {
	return a.Ability(spellID).Casts
}

// All lists every ability seen, ordered by spell id.
func (a *AbilityTracker) All() []AbilityStats {
	r := make([]AbilityStats, 0, len(a.abilities))
	for _, st := range a.abilities {
		r = append(r, *st)
	}
	sort.Slice(r, func(i, k int) bool { return r[i].SpellID < r[k].SpellID })
	return r
}

// Core lists the trackers every preset starts from.
func Core() []parser.Spec {
	return []parser.Spec{
		HasteSpec(),
		SpellUsableSpec(),
		AbilityTrackerSpec(),
	}
}
