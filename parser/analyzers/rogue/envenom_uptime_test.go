package rogue

import (
	"testing"

	"github.com/bdfreeman1421/WoWAnalyzer/parser"
	"github.com/bdfreeman1421/WoWAnalyzer/wow"
)

func TestEnvenomUptime(t *testing.T) {
	p, err := parser.New(
		parser.Fight{ID: 1, Start: 10000, End: 30000},
		parser.CombatantInfo{ID: 1},
		[]parser.Spec{EnvenomUptimeSpec()},
	)
	if err != nil {
		t.Fatal(err)
	}

	events := []*parser.Event{
		{Timestamp: 12000, Type: parser.EventApplyBuff, SourceID: 1, TargetID: 1, AbilityID: wow.Envenom},
		{Timestamp: 15000, Type: parser.EventRemoveBuff, SourceID: 1, TargetID: 1, AbilityID: wow.Envenom},
		{Timestamp: 28000, Type: parser.EventApplyBuff, SourceID: 1, TargetID: 1, AbilityID: wow.Envenom},
	}
	if err := p.Run(parser.NewLog(events)); err != nil {
		t.Fatal(err)
	}

	a, _ := p.Module(EnvenomUptimeName)
	// 3 s closed + 2 s open until fight end, out of 20 s
	if got := a.(*EnvenomUptime).PercentUptime(); got != 0.25 {
		t.Errorf("uptime = %v, want 0.25", got)
	}

	st := p.Statistics()
	if len(st) != 1 || st[0].Value != "25.00%" {
		t.Errorf("statistics = %+v", st)
	}
}
