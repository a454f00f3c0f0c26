package parser

import (
	"testing"
)

func TestCombatantBuffs(t *testing.T) {
	c := NewCombatant(
		CombatantInfo{
			ID:      1,
			Talents: []int{100},
			Traits:  []int{200},
			Auras:   []AuraInfo{{AbilityID: 300}},
		},
		1000,
	)

	if !c.HasTalent(100) || c.HasTalent(101) {
		t.Error("talent lookup")
	}
	if !c.HasTrait(200) {
		t.Error("trait lookup")
	}
	if !c.HasBuff(300) || c.BuffStacks(300) != 1 {
		t.Error("pre-fight aura should be active with one stack")
	}

	steps := []struct {
		ev     Event
		buff   bool
		stacks int
	}{
		{Event{Timestamp: 2000, Type: EventApplyBuff, TargetID: 1, AbilityID: 5}, true, 1},
		{Event{Timestamp: 2500, Type: EventApplyBuffStack, TargetID: 1, AbilityID: 5, Stack: 3}, true, 3},
		{Event{Timestamp: 2600, Type: EventRemoveBuffStack, TargetID: 1, AbilityID: 5, Stack: 2}, true, 2},
		{Event{Timestamp: 2700, Type: EventApplyBuff, TargetID: 2, AbilityID: 6}, false, 0},
		{Event{Timestamp: 3000, Type: EventRemoveBuff, TargetID: 1, AbilityID: 5}, false, 0},
	}

	for _, s := range steps {
		ev := s.ev
		c.advance(ev.Timestamp)
		c.apply(&ev)

		id := ev.AbilityID
		if c.HasBuff(id) != s.buff || c.BuffStacks(id) != s.stacks {
			t.Errorf("after %s @ %d: buff=%v stacks=%d, want %v %d", ev.Type, ev.Timestamp, c.HasBuff(id), c.BuffStacks(id), s.buff, s.stacks)
		}
	}

	if up := c.GetBuffUptime(5); up != 1000 {
		t.Errorf("closed uptime = %d, want 1000", up)
	}

	c.advance(5000)
	if up := c.GetBuffUptime(300); up != 4000 {
		t.Errorf("open uptime = %d, want 4000", up)
	}
}

func TestCombatantRemoveWithoutApply(t *testing.T) {
	c := NewCombatant(CombatantInfo{ID: 1}, 0)

	c.advance(1500)
	c.apply(&Event{Timestamp: 1500, Type: EventRemoveBuff, TargetID: 1, AbilityID: 9})

	if up := c.GetBuffUptime(9); up != 1500 {
		t.Errorf("uptime = %d, want 1500", up)
	}
}

func TestCombatantResources(t *testing.T) {
	c := NewCombatant(CombatantInfo{ID: 1, Resources: []ClassResource{{Type: 9, Amount: 1, Max: 5}}}, 0)

	if amount, max := c.Resource(9); amount != 1 || max != 5 {
		t.Errorf("initial resource = %d/%d", amount, max)
	}

	c.apply(&Event{Type: EventEnergize, SourceID: 1, TargetID: 1, ClassResources: []ClassResource{{Type: 9, Amount: 4, Max: 5}}})
	if amount, _ := c.Resource(9); amount != 4 {
		t.Errorf("resource after energize = %d", amount)
	}

	c.apply(&Event{Type: EventCast, SourceID: 2, ClassResources: []ClassResource{{Type: 9, Amount: 0, Max: 5}}})
	if amount, _ := c.Resource(9); amount != 4 {
		t.Errorf("other actor's resources leaked: %d", amount)
	}
}
