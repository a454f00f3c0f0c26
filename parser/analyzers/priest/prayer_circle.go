package priest

import (
	"fmt"

	"github.com/bdfreeman1421/WoWAnalyzer/parser"
	"github.com/bdfreeman1421/WoWAnalyzer/parser/modules"
	"github.com/bdfreeman1421/WoWAnalyzer/wow"
)

const PrayerCircleName = "prayerCircle"

// PrayerCircle: Circle of Healing reduces the cast time of the next
// Prayer of Healing casts for 8 sec. A cast counts as buffed when the buff
// was up as it began.
type PrayerCircle struct {
	parser.Base

	abilityTracker *modules.AbilityTracker

	lastCircleAt      int64
	lastStartBuffed   bool
	buffedPrayerCasts int
}

func PrayerCircleSpec() parser.Spec {
	return parser.Spec{
		Name:         PrayerCircleName,
		Dependencies: []string{modules.AbilityTrackerName},
		Active: func(c *parser.Combatant) bool {
			return c.HasTalent(wow.PrayerCircleTalent)
		},
		New: func(opts parser.Options, deps parser.Deps) (parser.Analyzer, error) {
			return NewPrayerCircle(deps[modules.AbilityTrackerName].(*modules.AbilityTracker)), nil
		},
	}
}

func NewPrayerCircle(at *modules.AbilityTracker) *PrayerCircle {
	p := &PrayerCircle{
		abilityTracker: at,
	}

	p.AddEventListener(parser.On(parser.EventCast).By(parser.SelectedPlayer).Spell(wow.CircleOfHealingTalent), p.onCircleCast)
	p.AddEventListener(parser.On(parser.EventBeginCast).By(parser.SelectedPlayer).Spell(wow.PrayerOfHealing), p.onPrayerStart)
	p.AddEventListener(parser.On(parser.EventCast).By(parser.SelectedPlayer).Spell(wow.PrayerOfHealing), p.onPrayerFinish)

	return p
}

func (p *PrayerCircle) onCircleCast(ctx *parser.Context, ev *parser.Event) {
	p.lastCircleAt = ev.Timestamp
}

func (p *PrayerCircle) onPrayerStart(ctx *parser.Context, ev *parser.Event) {
	p.lastStartBuffed = ctx.Selected().HasBuff(wow.PrayerCircleBuff)
}

func (p *PrayerCircle) onPrayerFinish(ctx *parser.Context, ev *parser.Event) {
	if p.lastStartBuffed {
		p.buffedPrayerCasts++
	}
}

func (p *PrayerCircle) BuffedCasts() int {
	return p.buffedPrayerCasts
}

func (p *PrayerCircle) UnbuffedCasts() int {
	return p.abilityTracker.Casts(wow.PrayerOfHealing) - p.buffedPrayerCasts
}

func (p *PrayerCircle) LastCircleOfHealingAt() int64 {
	return p.lastCircleAt
}

func (p *PrayerCircle) Statistic() *parser.Statistic {
	return &parser.Statistic{
		Category: parser.CategoryTalents,
		Position: parser.Optional(5),
		SpellID:  wow.PrayerCircleTalent,
		Label:    "Prayer Circle",
		Value:    fmt.Sprintf("%d Faster PoH's", p.buffedPrayerCasts),
		Tooltip:  fmt.Sprintf("%d casts with Prayer Circle active. %d casts without Prayer Circle active.", p.buffedPrayerCasts, p.UnbuffedCasts()),
	}
}
