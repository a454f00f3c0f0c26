package modules

import (
	"math"
	"testing"

	"github.com/bdfreeman1421/WoWAnalyzer/parser"
)

const (
	testPlayer    = 1
	testSpell     = 100
	testHasted    = 101
	testHasteBuff = 900
)

func testCooldowns(id int) (int, bool) {
	switch id {
	case testSpell:
		return 10000, false
	case testHasted:
		return 12000, true
	}
	return 0, false
}

type harness struct {
	p     *parser.Parser
	haste *Haste
	su    *SpellUsable
	at    *AbilityTracker
}

func newHarness(t *testing.T, baseHaste float64, extra ...parser.Spec) *harness {
	t.Helper()

	h := &harness{}
	specs := []parser.Spec{
		{
			Name: HasteName,
			New: func(opts parser.Options, deps parser.Deps) (parser.Analyzer, error) {
				h.haste = NewHaste(opts.Ctx, map[int]float64{testHasteBuff: 0.25})
				return h.haste, nil
			},
		},
		{
			Name:         SpellUsableName,
			Dependencies: []string{HasteName},
			New: func(opts parser.Options, deps parser.Deps) (parser.Analyzer, error) {
				h.su = NewSpellUsable(opts.Ctx, deps[HasteName].(*Haste), testCooldowns)
				return h.su, nil
			},
		},
		{
			Name: AbilityTrackerName,
			New: func(opts parser.Options, deps parser.Deps) (parser.Analyzer, error) {
				h.at = NewAbilityTracker()
				return h.at, nil
			},
		},
	}
	specs = append(specs, extra...)

	p, err := parser.New(parser.Fight{ID: 1, Start: 0, End: 60000}, parser.CombatantInfo{ID: testPlayer, Haste: baseHaste}, specs)
	if err != nil {
		t.Fatal(err)
	}
	h.p = p
	return h
}

// onCast runs fn when the selected player casts spell 1, after the trackers saw the event.
func onCast(fn func(ctx *parser.Context)) parser.Spec {
	return parser.Spec{
		Name:         "oncast",
		Dependencies: []string{SpellUsableName},
		New: func(opts parser.Options, deps parser.Deps) (parser.Analyzer, error) {
			b := &parser.Base{}
			b.AddEventListener(parser.On(parser.EventCast).By(parser.SelectedPlayer).Spell(1), func(ctx *parser.Context, ev *parser.Event) {
				fn(ctx)
			})
			return b, nil
		},
	}
}

func cast(ts int64, spell int) *parser.Event {
	return &parser.Event{Timestamp: ts, Type: parser.EventCast, SourceID: testPlayer, AbilityID: spell}
}

func TestHastedReduction(t *testing.T) {
	if got := HastedReduction(9, 0.25); got != 7200 {
		t.Errorf("HastedReduction(9, 0.25) = %d, want 7200", got)
	}
	if got := HastedReduction(9, 0); got != 9000 {
		t.Errorf("HastedReduction(9, 0) = %d, want 9000", got)
	}
}

func TestReduceCooldownWhenReady(t *testing.T) {
	h := newHarness(t, 0)

	err := h.p.Run(parser.NewLog([]*parser.Event{cast(1000, 1)}))
	if err != nil {
		t.Fatal(err)
	}

	applied := h.su.ReduceCooldown(testSpell, 5000)

	if applied != 0 || h.su.IsOnCooldown(testSpell) {
		t.Errorf("ReduceCooldown on a ready spell: applied=%d onCooldown=%v", applied, h.su.IsOnCooldown(testSpell))
	}
	if e := h.su.Entry(testSpell); e != (CooldownEntry{}) {
		t.Errorf("entry changed: %+v", e)
	}
}

func TestSpellUsableCooldowns(t *testing.T) {
	var remaining []int64
	var reduced int64

	var h *harness
	h = newHarness(t, 0, onCast(func(ctx *parser.Context) {
		switch ctx.Now() {
		case 4000:
			remaining = append(remaining, h.su.CooldownRemaining(testSpell))
			reduced = h.su.ReduceCooldown(testSpell, 2000)
			remaining = append(remaining, h.su.CooldownRemaining(testSpell))
		case 12000:
			remaining = append(remaining, h.su.CooldownRemaining(testSpell))
		}
	}))

	events := []*parser.Event{
		cast(1000, testSpell),
		cast(4000, 1),
		cast(12000, 1),
	}
	if err := h.p.Run(parser.NewLog(events)); err != nil {
		t.Fatal(err)
	}

	want := []int64{7000, 5000, 0}
	if len(remaining) != len(want) {
		t.Fatalf("remaining = %v, want %v", remaining, want)
	}
	for i := range want {
		if remaining[i] != want[i] {
			t.Errorf("remaining = %v, want %v", remaining, want)
			break
		}
	}
	if reduced != 2000 {
		t.Errorf("reduced = %d, want 2000", reduced)
	}

	e := h.su.Entry(testSpell)
	if e.OnCooldown || e.Reductions != 2000 || e.Start != 1000 {
		t.Errorf("entry = %+v", e)
	}
}

func TestReduceCooldownClamps(t *testing.T) {
	var applied int64
	var after bool

	var h *harness
	h = newHarness(t, 0, onCast(func(ctx *parser.Context) {
		applied = h.su.ReduceCooldown(testSpell, 60000)
		after = h.su.IsOnCooldown(testSpell)
	}))

	err := h.p.Run(parser.NewLog([]*parser.Event{cast(0, testSpell), cast(3000, 1)}))
	if err != nil {
		t.Fatal(err)
	}

	if applied != 7000 {
		t.Errorf("applied = %d, want 7000", applied)
	}
	if after {
		t.Error("cooldown should be over")
	}
}

func TestHasteAndHastedCooldown(t *testing.T) {
	var remaining int64
	var haste float64

	var h *harness
	h = newHarness(t, 0.2, onCast(func(ctx *parser.Context) {
		haste = h.haste.Current()
		remaining = h.su.CooldownRemaining(testHasted)
	}))

	events := []*parser.Event{
		{Timestamp: 500, Type: parser.EventApplyBuff, SourceID: testPlayer, TargetID: testPlayer, AbilityID: testHasteBuff},
		cast(1000, testHasted),
		cast(1000, 1),
		{Timestamp: 2000, Type: parser.EventRemoveBuff, SourceID: testPlayer, TargetID: testPlayer, AbilityID: testHasteBuff},
	}
	if err := h.p.Run(parser.NewLog(events)); err != nil {
		t.Fatal(err)
	}

	if math.Abs(haste-0.5) > 1e-9 {
		t.Errorf("haste with buff = %v, want 0.5", haste)
	}
	if remaining != 8000 {
		t.Errorf("hasted cooldown = %d, want 8000", remaining)
	}
	if math.Abs(h.haste.Current()-0.2) > 1e-9 {
		t.Errorf("haste after removal = %v, want 0.2", h.haste.Current())
	}
}

func TestAbilityTracker(t *testing.T) {
	h := newHarness(t, 0)

	events := []*parser.Event{
		cast(100, testSpell),
		cast(200, testSpell),
		{Timestamp: 300, Type: parser.EventDamage, SourceID: testPlayer, AbilityID: testSpell, Amount: 100, Absorbed: 20, HitType: 2},
		{Timestamp: 400, Type: parser.EventHeal, SourceID: testPlayer, AbilityID: 55, Amount: 50, Overheal: 10},
		{Timestamp: 500, Type: parser.EventHeal, SourceID: 2, AbilityID: 55, Amount: 1000},
	}
	if err := h.p.Run(parser.NewLog(events)); err != nil {
		t.Fatal(err)
	}

	st := h.at.Ability(testSpell)
	if st.Casts != 2 || st.Damage != 120 || st.CritHits != 1 {
		t.Errorf("spell stats = %+v", st)
	}
	heal := h.at.Ability(55)
	if heal.Healing != 50 || heal.Overhealing != 10 || heal.HealEvents != 1 {
		t.Errorf("heal stats = %+v", heal)
	}
	if n := len(h.at.All()); n != 2 {
		t.Errorf("abilities = %d, want 2", n)
	}
}

func TestHasteBuffSeenMidFight(t *testing.T) {
	tests := []struct {
		name  string
		first parser.EventType
	}{
		{"refresh", parser.EventRefreshBuff},
		{"stack", parser.EventApplyBuffStack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var haste float64

			var h *harness
			h = newHarness(t, 0.2, onCast(func(ctx *parser.Context) {
				haste = h.haste.Current()
			}))

			events := []*parser.Event{
				{Timestamp: 500, Type: tt.first, SourceID: testPlayer, TargetID: testPlayer, AbilityID: testHasteBuff, Stack: 2},
				cast(1000, 1),
				{Timestamp: 2000, Type: parser.EventRemoveBuff, SourceID: testPlayer, TargetID: testPlayer, AbilityID: testHasteBuff},
			}
			if err := h.p.Run(parser.NewLog(events)); err != nil {
				t.Fatal(err)
			}

			if math.Abs(haste-0.5) > 1e-9 {
				t.Errorf("haste with buff = %v, want 0.5", haste)
			}
			if math.Abs(h.haste.Current()-0.2) > 1e-9 {
				t.Errorf("haste after removal = %v, want 0.2", h.haste.Current())
			}
		})
	}
}
