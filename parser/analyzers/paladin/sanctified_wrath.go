package paladin

import (
	"fmt"

	"github.com/bdfreeman1421/WoWAnalyzer/parser"
	"github.com/bdfreeman1421/WoWAnalyzer/wow"

	"github.com/dustin/go-humanize"
)

const SanctifiedWrathName = "sanctifiedWrathProtJudgement"

// Judgment grants 2 holy power during Avenging Wrath, 3 with Holy Avenger,
// and twice that on a crit.
const (
	critChangeNoHolyAvenger   = 4
	critChangeHolyAvenger     = 6
	bonusHolyPowerPerJudgment = 2
)

// SanctifiedWrath counts the extra holy power Sanctified Wrath adds to
// Judgment and the part of it lost to overcapping.
type SanctifiedWrath struct {
	parser.Base

	buffedJudgments int
	wastes          []int
}

func SanctifiedWrathSpec() parser.Spec {
	return parser.Spec{
		Name: SanctifiedWrathName,
		Active: func(c *parser.Combatant) bool {
			return c.HasTalent(wow.SanctifiedWrathTalentProt)
		},
		New: func(opts parser.Options, deps parser.Deps) (parser.Analyzer, error) {
			return NewSanctifiedWrath(), nil
		},
	}
}

func NewSanctifiedWrath() *SanctifiedWrath {
	s := &SanctifiedWrath{}

	s.AddEventListener(parser.On(parser.EventCast).By(parser.SelectedPlayer).Spell(wow.JudgmentProtection), s.onJudgmentCast)
	s.AddEventListener(parser.On(parser.EventEnergize).By(parser.SelectedPlayer), s.onEnergize)

	return s
}

func (s *SanctifiedWrath) onJudgmentCast(ctx *parser.Context, ev *parser.Event) {
	if ctx.Selected().HasBuff(wow.AvengingWrath) {
		s.buffedJudgments++
	}
}

func (s *SanctifiedWrath) onEnergize(ctx *parser.Context, ev *parser.Event) {
	selected := ctx.Selected()
	if ev.AbilityID != wow.JudgmentHolyPowerEnergize || !selected.HasBuff(wow.AvengingWrath) {
		return
	}
	if ev.Waste <= 0 {
		return
	}

	// holy power was capped after the energize since some of it was wasted
	maxHP := wow.MaxHolyPower
	if _, m, ok := ev.ResourceAfter(wow.ResourceHolyPower); ok && m > 0 {
		maxHP = m
	}
	preCast := maxHP - (ev.ResourceChange - ev.Waste)

	waste := WasteDueToSanctifiedWrath(ev.ResourceChange, ev.Waste, preCast, selected.HasBuff(wow.HolyAvengerTalent))
	if waste != 0 {
		s.wastes = append(s.wastes, waste)
	}
}

// WasteDueToSanctifiedWrath decides how much of an energize's waste is blamed
// on Sanctified Wrath. A crit under Holy Avenger overcaps no matter what and a
// crit without it is random, so only casts made at a high enough holy power
// count: above 2 with Holy Avenger, above 3 without.
func WasteDueToSanctifiedWrath(resourceChange, waste, preCast int, holyAvenger bool) int {
	crit := resourceChange == critChangeNoHolyAvenger || resourceChange == critChangeHolyAvenger

	if (holyAvenger && !crit && preCast > 2) || (!holyAvenger && preCast > 3) {
		return waste
	}
	return 0
}

func (s *SanctifiedWrath) BuffedJudgments() int {
	return s.buffedJudgments
}

func (s *SanctifiedWrath) TotalWasted() int {
	total := 0
	for _, w := range s.wastes {
		total += w
	}
	return total
}

func (s *SanctifiedWrath) BonusHolyPower() int {
	return s.buffedJudgments*bonusHolyPowerPerJudgment - s.TotalWasted()
}

func (s *SanctifiedWrath) Statistic() *parser.Statistic {
	return &parser.Statistic{
		Category: parser.CategoryTalents,
		Position: parser.PositionDefault,
		SpellID:  wow.SanctifiedWrathTalentProt,
		Label:    "Extra Holy Power",
		Value:    humanize.Comma(int64(s.BonusHolyPower())),
		Tooltip: fmt.Sprintf(
			"%d total additional Holy Power generated by Sanctified Wrath. %d additional Holy Power wasted by overcapping.",
			s.buffedJudgments*bonusHolyPowerPerJudgment,
			s.TotalWasted(),
		),
	}
}
