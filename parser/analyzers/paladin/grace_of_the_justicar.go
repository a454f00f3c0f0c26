package paladin

import (
	"fmt"

	"github.com/bdfreeman1421/WoWAnalyzer/parser"
	"github.com/bdfreeman1421/WoWAnalyzer/wow"

	"github.com/dustin/go-humanize"
)

const GraceOfTheJusticarName = "graceOfTheJusticar"

// GraceOfTheJusticar: judging a foe heals up to 10 allies near that enemy.
type GraceOfTheJusticar struct {
	parser.Base

	healing    int64
	targetsHit int
	casts      int
}

func GraceOfTheJusticarSpec() parser.Spec {
	return parser.Spec{
		Name: GraceOfTheJusticarName,
		Active: func(c *parser.Combatant) bool {
			return c.HasTrait(wow.GraceOfTheJusticarTrait)
		},
		New: func(opts parser.Options, deps parser.Deps) (parser.Analyzer, error) {
			return NewGraceOfTheJusticar(), nil
		},
	}
}

func NewGraceOfTheJusticar() *GraceOfTheJusticar {
	g := &GraceOfTheJusticar{}

	g.AddEventListener(parser.On(parser.EventCast).By(parser.SelectedPlayer).Spell(wow.Judgment), g.onCast)
	g.AddEventListener(parser.On(parser.EventHeal).By(parser.SelectedPlayer).Spell(wow.GraceOfTheJusticar), g.onHeal)

	return g
}

func (g *GraceOfTheJusticar) onCast(ctx *parser.Context, ev *parser.Event) {
	g.casts++
}

func (g *GraceOfTheJusticar) onHeal(ctx *parser.Context, ev *parser.Event) {
	g.healing += int64(ev.Effective())
	g.targetsHit++
}

func (g *GraceOfTheJusticar) Healing() int64 {
	return g.healing
}

func (g *GraceOfTheJusticar) PlayersHitPerCast() float64 {
	if g.casts == 0 {
		return 0
	}
	return float64(g.targetsHit) / float64(g.casts)
}

func (g *GraceOfTheJusticar) Statistic() *parser.Statistic {
	return &parser.Statistic{
		Category: parser.CategoryAzerite,
		Position: parser.Optional(0),
		SpellID:  wow.GraceOfTheJusticar,
		Label:    "Grace of the Justicar",
		Value:    fmt.Sprintf("%s healing, %.1f players hit per judgement", humanize.Comma(g.healing), g.PlayersHitPerCast()),
		Tooltip:  fmt.Sprintf("Total healing done: %s", humanize.Comma(g.healing)),
	}
}
