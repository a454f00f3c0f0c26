package analyzers

import (
	"github.com/bdfreeman1421/WoWAnalyzer/parser"
	"github.com/bdfreeman1421/WoWAnalyzer/parser/analyzers/evoker"
	"github.com/bdfreeman1421/WoWAnalyzer/parser/analyzers/paladin"
	"github.com/bdfreeman1421/WoWAnalyzer/parser/analyzers/priest"
	"github.com/bdfreeman1421/WoWAnalyzer/parser/analyzers/rogue"
	"github.com/bdfreeman1421/WoWAnalyzer/parser/analyzers/shaman"
	"github.com/bdfreeman1421/WoWAnalyzer/parser/modules"

	"github.com/pkg/errors"
)

// Preset is the module list of one specialization.
type Preset struct {
	Specs []func() parser.Spec
	Links []func() parser.LinkRule
}

var Presets = map[string]Preset{
	"Paladin-Protection": {
		Specs: []func() parser.Spec{paladin.SanctifiedWrathSpec, paladin.GraceOfTheJusticarSpec},
	},
	"Paladin-Holy": {
		Specs: []func() parser.Spec{paladin.GraceOfTheJusticarSpec},
	},
	"Rogue-Assassination": {
		Specs: []func() parser.Spec{rogue.EnvenomUptimeSpec},
	},
	"Priest-Holy": {
		Specs: []func() parser.Spec{priest.PrayerCircleSpec},
	},
	"Shaman-Enhancement": {
		Specs: []func() parser.Spec{shaman.FuryOfAirSpec, shaman.HotHandSpec},
	},
	"Evoker-Preservation": {
		Specs: []func() parser.Spec{evoker.LifebindSpec},
		Links: []func() parser.LinkRule{evoker.LifebindRule},
	},
}

var ErrUnsupportedSpec = errors.New("unsupported spec")

// Supported reports whether a preset exists for the spec name.
func Supported(spec string) bool {
	_, ok := Presets[spec]
	return ok
}

// Load prepares a replay of lf with the core trackers plus the preset of
// the combatant's spec.
func Load(lf *parser.LogFile) (*parser.Parser, *parser.Log, error) {
	preset, ok := Presets[lf.Combatant.Spec]
	if !ok {
		return nil, nil, errors.Wrap(ErrUnsupportedSpec, lf.Combatant.Spec)
	}

	specs := modules.Core()
	for _, fn := range preset.Specs {
		specs = append(specs, fn())
	}

	p, err := parser.New(lf.Fight, lf.Combatant, specs)
	if err != nil {
		return nil, nil, err
	}

	var normalizers []parser.Normalizer
	if len(preset.Links) > 0 {
		rules := make([]parser.LinkRule, 0, len(preset.Links))
		for _, fn := range preset.Links {
			rules = append(rules, fn())
		}
		normalizers = append(normalizers, parser.NewCastLinkNormalizer(lf.Combatant.ID, rules...))
	}

	return p, parser.NewLog(lf.Events, normalizers...), nil
}

// Parse replays lf through its preset.
func Parse(lf *parser.LogFile) (*parser.Parser, error) {
	p, log, err := Load(lf)
	if err != nil {
		return nil, err
	}
	if err := p.Run(log); err != nil {
		return nil, err
	}
	return p, nil
}
