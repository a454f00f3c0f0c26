package rogue

import (
	"github.com/bdfreeman1421/WoWAnalyzer/parser"
	"github.com/bdfreeman1421/WoWAnalyzer/wow"
)

const EnvenomUptimeName = "envenomUptime"

// EnvenomUptime reports how much of the fight Envenom was up. It needs no
// events of its own, the combatant keeps the buff intervals.
type EnvenomUptime struct {
	parser.Base

	ctx *parser.Context
}

func EnvenomUptimeSpec() parser.Spec {
	return parser.Spec{
		Name: EnvenomUptimeName,
		New: func(opts parser.Options, deps parser.Deps) (parser.Analyzer, error) {
			return &EnvenomUptime{ctx: opts.Ctx}, nil
		},
	}
}

func (e *EnvenomUptime) PercentUptime() float64 {
	d := e.ctx.FightDuration()
	if d <= 0 {
		return 0
	}
	return float64(e.ctx.Selected().GetBuffUptime(wow.Envenom)) / float64(d)
}

func (e *EnvenomUptime) Statistic() *parser.Statistic {
	return &parser.Statistic{
		Category: parser.CategoryGeneral,
		Position: parser.Core(12),
		SpellID:  wow.Envenom,
		Label:    "Envenom uptime",
		Value:    parser.FormatPercentage(e.PercentUptime()),
	}
}
