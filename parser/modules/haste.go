package modules

import (
	"sort"

	"github.com/bdfreeman1421/WoWAnalyzer/parser"
	"github.com/bdfreeman1421/WoWAnalyzer/wow"
)

const HasteName = "haste"

// Haste follows the selected player's haste as buffs come and go.
// Buffs stack multiplicatively on top of the rating haste.
type Haste struct {
	parser.Base

	buffs  map[int]float64
	active map[int]bool

	current float64
}

func HasteSpec() parser.Spec {
	return parser.Spec{
		Name: HasteName,
		New: func(opts parser.Options, deps parser.Deps) (parser.Analyzer, error) {
			return NewHaste(opts.Ctx, wow.HasteBuffs()), nil
		},
	}
}

func NewHaste(ctx *parser.Context, buffs map[int]float64) *Haste {
	h := &Haste{
		buffs:  buffs,
		active: make(map[int]bool),
	}

	selected := ctx.Selected()
	for id := range buffs {
		if selected.HasBuff(id) {
			h.active[id] = true
		}
	}
	h.recalc(selected.BaseHaste())

	// logs can start mid-buff, so a refresh or stack change may be the first sight of one
	for _, typ := range []parser.EventType{
		parser.EventApplyBuff,
		parser.EventApplyBuffStack,
		parser.EventRemoveBuffStack,
		parser.EventRefreshBuff,
		parser.EventRemoveBuff,
	} {
		h.AddEventListener(parser.On(typ).To(parser.SelectedPlayer), h.onBuffChange)
	}

	return h
}

// Current is the haste fraction at the event being dispatched, 0.25 = 25 %.
func (h *Haste) Current() float64 {
	return h.current
}

// onBuffChange follows the combatant's buff state, which is updated before
// any module sees the event.
func (h *Haste) onBuffChange(ctx *parser.Context, ev *parser.Event) {
	if _, ok := h.buffs[ev.AbilityID]; !ok {
		return
	}

	selected := ctx.Selected()
	has := selected.HasBuff(ev.AbilityID)
	if has == h.active[ev.AbilityID] {
		return
	}
	if has {
		h.active[ev.AbilityID] = true
	} else {
		delete(h.active, ev.AbilityID)
	}
	h.recalc(selected.BaseHaste())
}

// recalc multiplies in id order so the result does not depend on map order.
func (h *Haste) recalc(base float64) {
	ids := make([]int, 0, len(h.active))
	for id := range h.active {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	m := 1 + base
	for _, id := range ids {
		m *= 1 + h.buffs[id]
	}
	h.current = m - 1
}
