package shaman

import (
	"github.com/bdfreeman1421/WoWAnalyzer/parser"
	"github.com/bdfreeman1421/WoWAnalyzer/parser/modules"
	"github.com/bdfreeman1421/WoWAnalyzer/wow"

	"github.com/dustin/go-humanize"
)

const HotHandName = "hotHand"

const (
	hotHandIncrease = 1.0

	// 75 % of the 12 s Lava Lash cooldown
	hotHandReductionSeconds = 9
)

// HotHand: melee attacks can reduce the cooldown of Lava Lash by 75 % and
// double its damage for 8 sec.
type HotHand struct {
	parser.Base

	spellUsable *modules.SpellUsable
	haste       *modules.Haste

	buffedLavaLashDamage float64
	reducedMs            int64
}

func HotHandSpec() parser.Spec {
	return parser.Spec{
		Name:         HotHandName,
		Dependencies: []string{modules.SpellUsableName, modules.HasteName},
		Active: func(c *parser.Combatant) bool {
			return c.HasTalent(wow.HotHandTalent)
		},
		New: func(opts parser.Options, deps parser.Deps) (parser.Analyzer, error) {
			return NewHotHand(
				deps[modules.SpellUsableName].(*modules.SpellUsable),
				deps[modules.HasteName].(*modules.Haste),
			), nil
		},
	}
}

func NewHotHand(spellUsable *modules.SpellUsable, haste *modules.Haste) *HotHand {
	h := &HotHand{
		spellUsable: spellUsable,
		haste:       haste,
	}

	h.AddEventListener(parser.On(parser.EventApplyBuff).By(parser.SelectedPlayer).Spell(wow.HotHandBuff), h.onApplyBuff)
	h.AddEventListener(parser.On(parser.EventCast).By(parser.SelectedPlayer).Spell(wow.LavaLash), h.onLavaLashCast)
	h.AddEventListener(parser.On(parser.EventDamage).By(parser.SelectedPlayer).Spell(wow.LavaLash), h.onLavaLashDamage)

	return h
}

func (h *HotHand) reduction() int64 {
	return modules.HastedReduction(hotHandReductionSeconds, h.haste.Current())
}

func (h *HotHand) reduceLavaLash() {
	if h.spellUsable.IsOnCooldown(wow.LavaLash) {
		h.reducedMs += h.spellUsable.ReduceCooldown(wow.LavaLash, h.reduction())
	}
}

func (h *HotHand) onApplyBuff(ctx *parser.Context, ev *parser.Event) {
	h.reduceLavaLash()
}

// the cooldown started by this cast is already tracked
func (h *HotHand) onLavaLashCast(ctx *parser.Context, ev *parser.Event) {
	if ctx.Selected().HasBuff(wow.HotHandBuff) {
		h.reduceLavaLash()
	}
}

func (h *HotHand) onLavaLashDamage(ctx *parser.Context, ev *parser.Event) {
	if !ctx.Selected().HasBuff(wow.HotHandBuff) {
		return
	}
	h.buffedLavaLashDamage += parser.EffectiveDamage(ev, hotHandIncrease)
}

func (h *HotHand) BuffedLavaLashDamage() float64 {
	return h.buffedLavaLashDamage
}

// CooldownReduced is the total Lava Lash cooldown removed, in ms.
func (h *HotHand) CooldownReduced() int64 {
	return h.reducedMs
}

func (h *HotHand) Statistic() *parser.Statistic {
	return &parser.Statistic{
		Category: parser.CategoryTalents,
		Position: parser.Optional(0),
		SpellID:  wow.HotHandTalent,
		Label:    "Hot Hand",
		Value:    humanize.Comma(int64(h.buffedLavaLashDamage)) + " damage",
		Tooltip:  humanize.Comma(h.reducedMs/1000) + " seconds of Lava Lash cooldown reduced",
	}
}
