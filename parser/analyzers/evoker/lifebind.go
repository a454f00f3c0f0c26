package evoker

import (
	"fmt"

	"github.com/bdfreeman1421/WoWAnalyzer/parser"
	"github.com/bdfreeman1421/WoWAnalyzer/wow"

	"github.com/dustin/go-humanize"
)

const LifebindName = "lifebind"

const (
	// LifebindRelation links a Lifebind heal to the heal that triggered it.
	LifebindRelation = "lifebind-trigger"

	linkBufferMs = 5
	otherBucket  = 0
)

// LifebindRule attaches every Lifebind heal to the player's heal that caused it.
func LifebindRule() parser.LinkRule {
	return parser.LinkRule{
		Relation: LifebindRelation,
		Reference: parser.Match{
			Type:       parser.EventHeal,
			Spells:     []int{wow.LifebindHeal},
			BySelected: true,
		},
		Linking: parser.Match{
			Type:          parser.EventHeal,
			ExcludeSpells: []int{wow.LifebindHeal},
			BySelected:    true,
		},
		BackwardMs: linkBufferMs,
		ForwardMs:  linkBufferMs,
		MaxLinks:   1,
	}
}

// HealForLifebindHeal returns the heal that triggered ev, nil when unknown.
func HealForLifebindHeal(ev *parser.Event) *parser.Event {
	linked := ev.Linked(LifebindRelation)
	if len(linked) == 0 {
		return nil
	}
	return linked[0]
}

// Lifebind splits the healing done by Lifebind by the spell that triggered it.
type Lifebind struct {
	parser.Base

	healingBySpell map[int]int64
}

func LifebindSpec() parser.Spec {
	return parser.Spec{
		Name: LifebindName,
		Active: func(c *parser.Combatant) bool {
			return c.HasTalent(wow.LifebindTalent)
		},
		New: func(opts parser.Options, deps parser.Deps) (parser.Analyzer, error) {
			return NewLifebind(), nil
		},
	}
}

func NewLifebind() *Lifebind {
	l := &Lifebind{
		healingBySpell: make(map[int]int64),
	}

	l.AddEventListener(parser.On(parser.EventHeal).By(parser.SelectedPlayer).Spell(wow.LifebindHeal), l.onHeal)

	return l
}

func (l *Lifebind) onHeal(ctx *parser.Context, ev *parser.Event) {
	spellID := otherBucket
	if trigger := HealForLifebindHeal(ev); trigger != nil {
		spellID = trigger.AbilityID
	}
	l.healingBySpell[spellID] += int64(ev.Effective())
}

func (l *Lifebind) HealingForSpell(spellID int) int64 {
	return l.healingBySpell[spellID]
}

type donutSlice struct {
	label   string
	color   string
	spellID int
	sources []int
}

var donut = []donutSlice{
	{"Dream Breath", "#50c878", wow.DreamBreath, []int{wow.DreamBreathEcho, wow.DreamBreath}},
	{"Spiritbloom", "#d2a8ff", wow.Spiritbloom, []int{wow.Spiritbloom, wow.SpiritbloomSplit}},
	{"Living Flame", "#ffa500", wow.LivingFlameHeal, []int{wow.LivingFlameHeal}},
	{"Reversion", "#e0c341", wow.Reversion, []int{wow.ReversionEcho, wow.Reversion}},
	{"Emerald Blossom", "#3cb371", wow.EmeraldBlossom, []int{wow.EmeraldBlossomEcho, wow.EmeraldBlossom}},
	{"Verdant Embrace", "#00ff7f", wow.VerdantEmbraceHeal, []int{wow.VerdantEmbraceHeal}},
	{"Renewing Blaze", "#ff4500", wow.RenewingBlazeHeal, []int{wow.RenewingBlazeHeal}},
	{"Emerald Communion", "#2e8b57", wow.EmeraldCommunion, []int{wow.EmeraldCommunionAlly, wow.EmeraldCommunionSelf}},
}

// Items is the donut breakdown. Slices without healing are left out. Heals
// with no known trigger, or triggered by a spell without a slice, go to Other.
func (l *Lifebind) Items() []parser.StatisticItem {
	items := make([]parser.StatisticItem, 0, len(donut)+1)
	listed := make(map[int]bool)

	for _, d := range donut {
		var value int64
		for _, id := range d.sources {
			value += l.HealingForSpell(id)
			listed[id] = true
		}
		if value <= 0 {
			continue
		}
		items = append(items, parser.StatisticItem{
			Label:   d.label,
			SpellID: d.spellID,
			Value:   value,
			Color:   d.color,
			Tooltip: humanize.Comma(value),
		})
	}

	var other int64
	for id, v := range l.healingBySpell {
		if !listed[id] {
			other += v
		}
	}
	if other > 0 {
		items = append(items, parser.StatisticItem{
			Label:   "Other",
			Value:   other,
			Color:   "#828282",
			Tooltip: fmt.Sprintf("%s (This includes items, trinkets, and other sources of non-spell healing)", humanize.Comma(other)),
		})
	}

	return items
}

func (l *Lifebind) Statistic() *parser.Statistic {
	return &parser.Statistic{
		Category: parser.CategoryTalents,
		Position: parser.Core(5),
		SpellID:  wow.LifebindTalent,
		Label:    "Lifebind healing breakdown by spell",
		Items:    l.Items(),
	}
}
