package shaman

import (
	"fmt"

	"github.com/bdfreeman1421/WoWAnalyzer/parser"
	"github.com/bdfreeman1421/WoWAnalyzer/wow"
)

const FuryOfAirName = "furyOfAir"

// FuryOfAir is a channeled vortex around the shaman. It should never drop.
type FuryOfAir struct {
	parser.Base

	ctx *parser.Context
}

func FuryOfAirSpec() parser.Spec {
	return parser.Spec{
		Name: FuryOfAirName,
		Active: func(c *parser.Combatant) bool {
			return c.HasTalent(wow.FuryOfAirTalent)
		},
		New: func(opts parser.Options, deps parser.Deps) (parser.Analyzer, error) {
			return &FuryOfAir{ctx: opts.Ctx}, nil
		},
	}
}

func (f *FuryOfAir) Uptime() float64 {
	d := f.ctx.FightDuration()
	if d <= 0 {
		return 0
	}
	return float64(f.ctx.Selected().GetBuffUptime(wow.FuryOfAirTalent)) / float64(d)
}

func (f *FuryOfAir) Thresholds() parser.Threshold {
	return parser.Threshold{
		Actual: f.Uptime(),
		IsLessThan: &parser.Levels{
			Minor:   0.95,
			Average: 0.95,
			Major:   0.9,
		},
	}
}

func (f *FuryOfAir) Suggestions() []parser.Suggestion {
	th := f.Thresholds()

	importance := th.Importance()
	if importance == "" {
		return nil
	}

	return []parser.Suggestion{
		{
			SpellID:     wow.FuryOfAirTalent,
			Importance:  importance,
			Text:        "Try to make sure the Fury of Air is always up, when it drops you should refresh it as soon as possible",
			Actual:      fmt.Sprintf("%s uptime", parser.FormatPercentage(th.Actual)),
			Recommended: fmt.Sprintf("%.0f%% is recommended", th.Recommended()*100),
		},
	}
}

func (f *FuryOfAir) Statistic() *parser.Statistic {
	return &parser.Statistic{
		Category: parser.CategoryTalents,
		Position: parser.Optional(15),
		SpellID:  wow.FuryOfAirTalent,
		Label:    "Fury Of Air",
		Value:    fmt.Sprintf("%s uptime", parser.FormatPercentage(f.Uptime())),
	}
}
