package paladin

import (
	"testing"

	"github.com/bdfreeman1421/WoWAnalyzer/parser"
	"github.com/bdfreeman1421/WoWAnalyzer/wow"
)

func TestWasteDueToSanctifiedWrath(t *testing.T) {
	tests := []struct {
		name           string
		resourceChange int
		waste          int
		preCast        int
		holyAvenger    bool
		want           int
	}{
		{"crit with holy avenger is never blamed", 6, 1, 5, true, 0},
		{"crit with holy avenger at low holy power", 6, 1, 0, true, 0},
		{"non-crit with holy avenger above threshold", 3, 2, 3, true, 2},
		{"non-crit with holy avenger at threshold", 3, 1, 2, true, 0},
		{"no holy avenger above threshold", 2, 1, 4, false, 1},
		{"no holy avenger at threshold", 2, 1, 3, false, 0},
		{"crit without holy avenger above threshold", 4, 2, 4, false, 2},
		{"crit without holy avenger at threshold", 4, 1, 3, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WasteDueToSanctifiedWrath(tt.resourceChange, tt.waste, tt.preCast, tt.holyAvenger)
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

const player = 1

func buff(ts int64, typ parser.EventType, id int) *parser.Event {
	return &parser.Event{Timestamp: ts, Type: typ, SourceID: player, TargetID: player, AbilityID: id}
}

func energize(ts int64, change, waste int) *parser.Event {
	return &parser.Event{
		Timestamp:      ts,
		Type:           parser.EventEnergize,
		SourceID:       player,
		TargetID:       player,
		AbilityID:      wow.JudgmentHolyPowerEnergize,
		ResourceChange: change,
		Waste:          waste,
		ClassResources: []parser.ClassResource{{Type: wow.ResourceHolyPower, Amount: 5, Max: 5}},
	}
}

func run(t *testing.T, info parser.CombatantInfo, specs []parser.Spec, events []*parser.Event) *parser.Parser {
	t.Helper()

	p, err := parser.New(parser.Fight{ID: 1, Start: 0, End: 100000}, info, specs)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Run(parser.NewLog(events)); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSanctifiedWrathReplay(t *testing.T) {
	info := parser.CombatantInfo{ID: player, Talents: []int{wow.SanctifiedWrathTalentProt}}

	events := []*parser.Event{
		{Timestamp: 500, Type: parser.EventCast, SourceID: player, AbilityID: wow.JudgmentProtection},
		buff(1000, parser.EventApplyBuff, wow.AvengingWrath),
		{Timestamp: 2000, Type: parser.EventCast, SourceID: player, AbilityID: wow.JudgmentProtection},
		// 5 - (2 - 1) = 4 before the cast, above 3
		energize(2001, 2, 1),
		{Timestamp: 8000, Type: parser.EventCast, SourceID: player, AbilityID: wow.JudgmentProtection},
		// 5 - (2 - 0) = 3 before, no waste anyway
		energize(8001, 2, 0),
		buff(9000, parser.EventApplyBuff, wow.HolyAvengerTalent),
		{Timestamp: 10000, Type: parser.EventCast, SourceID: player, AbilityID: wow.JudgmentProtection},
		// crit under holy avenger
		energize(10001, 6, 1),
		buff(20000, parser.EventRemoveBuff, wow.AvengingWrath),
		{Timestamp: 21000, Type: parser.EventCast, SourceID: player, AbilityID: wow.JudgmentProtection},
		energize(21001, 3, 3),
	}

	p := run(t, info, []parser.Spec{SanctifiedWrathSpec()}, events)

	a, _ := p.Module(SanctifiedWrathName)
	s := a.(*SanctifiedWrath)

	if s.BuffedJudgments() != 3 {
		t.Errorf("buffed judgments = %d, want 3", s.BuffedJudgments())
	}
	if s.TotalWasted() != 1 {
		t.Errorf("wasted = %d, want 1", s.TotalWasted())
	}
	if s.BonusHolyPower() != 5 {
		t.Errorf("bonus = %d, want 5", s.BonusHolyPower())
	}

	st := p.Statistics()
	if len(st) != 1 || st[0].Value != "5" || st[0].Module != SanctifiedWrathName {
		t.Errorf("statistics = %+v", st)
	}
}

func TestSanctifiedWrathInactiveWithoutTalent(t *testing.T) {
	p := run(t, parser.CombatantInfo{ID: player}, []parser.Spec{SanctifiedWrathSpec()}, []*parser.Event{
		buff(1000, parser.EventApplyBuff, wow.AvengingWrath),
		{Timestamp: 2000, Type: parser.EventCast, SourceID: player, AbilityID: wow.JudgmentProtection},
	})

	a, _ := p.Module(SanctifiedWrathName)
	if a.Active() {
		t.Error("should be inactive")
	}
	if len(p.Statistics()) != 0 {
		t.Error("inactive module reported a statistic")
	}
}

func TestGraceOfTheJusticar(t *testing.T) {
	info := parser.CombatantInfo{ID: player, Traits: []int{wow.GraceOfTheJusticarTrait}}

	events := []*parser.Event{
		{Timestamp: 100, Type: parser.EventCast, SourceID: player, AbilityID: wow.Judgment},
		{Timestamp: 110, Type: parser.EventHeal, SourceID: player, TargetID: 2, AbilityID: wow.GraceOfTheJusticar, Amount: 800, Absorbed: 100},
		{Timestamp: 110, Type: parser.EventHeal, SourceID: player, TargetID: 3, AbilityID: wow.GraceOfTheJusticar, Amount: 899},
		{Timestamp: 110, Type: parser.EventHeal, SourceID: 4, TargetID: 3, AbilityID: wow.GraceOfTheJusticar, Amount: 899},
		{Timestamp: 5000, Type: parser.EventCast, SourceID: player, AbilityID: wow.Judgment},
		{Timestamp: 5010, Type: parser.EventHeal, SourceID: player, TargetID: 2, AbilityID: wow.GraceOfTheJusticar, Amount: 899},
	}

	p := run(t, info, []parser.Spec{GraceOfTheJusticarSpec()}, events)

	a, _ := p.Module(GraceOfTheJusticarName)
	g := a.(*GraceOfTheJusticar)

	if g.Healing() != 2698 {
		t.Errorf("healing = %d, want 2698", g.Healing())
	}
	if g.PlayersHitPerCast() != 1.5 {
		t.Errorf("players per cast = %v, want 1.5", g.PlayersHitPerCast())
	}
}
