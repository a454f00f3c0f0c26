package modules

import (
	"math"

	"github.com/bdfreeman1421/WoWAnalyzer/parser"
	"github.com/bdfreeman1421/WoWAnalyzer/wow"
)

const SpellUsableName = "spellUsable"

// CooldownFunc returns the base cooldown of a spell in ms and whether haste shortens it.
type CooldownFunc func(spellID int) (ms int, hasted bool)

type CooldownEntry struct {
	OnCooldown bool
	Start      int64
	Expiration int64

	// total ms removed by ReduceCooldown since the cooldown began
	Reductions int64
}

// SpellUsable tracks the cooldowns of the selected player's abilities.
type SpellUsable struct {
	parser.Base

	ctx      *parser.Context
	haste    *Haste
	cooldown CooldownFunc

	entries map[int]*CooldownEntry
}

func SpellUsableSpec() parser.Spec {
	return parser.Spec{
		Name:         SpellUsableName,
		Dependencies: []string{HasteName},
		New: func(opts parser.Options, deps parser.Deps) (parser.Analyzer, error) {
			return NewSpellUsable(opts.Ctx, deps[HasteName].(*Haste), wow.Cooldown), nil
		},
	}
}

func NewSpellUsable(ctx *parser.Context, haste *Haste, cooldown CooldownFunc) *SpellUsable {
	s := &SpellUsable{
		ctx:      ctx,
		haste:    haste,
		cooldown: cooldown,
		entries:  make(map[int]*CooldownEntry),
	}

	s.AddEventListener(parser.On(parser.EventCast).By(parser.SelectedPlayer), s.onCast)

	return s
}

func (s *SpellUsable) onCast(ctx *parser.Context, ev *parser.Event) {
	ms, hasted := s.cooldown(ev.AbilityID)
	if ms <= 0 {
		return
	}

	duration := int64(ms)
	if hasted {
		duration = int64(math.Round(float64(ms) / (1 + s.haste.Current())))
	}

	// a cast while on cooldown means a reset we did not see
	s.entries[ev.AbilityID] = &CooldownEntry{
		OnCooldown: true,
		Start:      ev.Timestamp,
		Expiration: ev.Timestamp + duration,
	}
}

func (s *SpellUsable) entry(spellID int) *CooldownEntry {
	e, ok := s.entries[spellID]
	if !ok || !e.OnCooldown {
		return nil
	}
	if e.Expiration <= s.ctx.Now() {
		e.OnCooldown = false
		return nil
	}
	return e
}

func (s *SpellUsable) IsOnCooldown(spellID int) bool {
	return s.entry(spellID) != nil
}

// CooldownRemaining is the time in ms until the spell is ready. It does not
// change any state beyond expiring an elapsed cooldown.
func (s *SpellUsable) CooldownRemaining(spellID int) int64 {
	e := s.entry(spellID)
	if e == nil {
		return 0
	}
	return e.Expiration - s.ctx.Now()
}

// ReduceCooldown shortens a running cooldown and returns the ms actually
// removed. It is a no-op for a spell that is ready.
func (s *SpellUsable) ReduceCooldown(spellID int, ms int64) int64 {
	e := s.entry(spellID)
	if e == nil || ms <= 0 {
		return 0
	}

	now := s.ctx.Now()
	if remaining := e.Expiration - now; ms >= remaining {
		ms = remaining
	}

	e.Expiration -= ms
	e.Reductions += ms
	if e.Expiration <= now {
		e.OnCooldown = false
	}
	return ms
}

func (s *SpellUsable) EndCooldown(spellID int) {
	e := s.entry(spellID)
	if e == nil {
		return
	}
	e.OnCooldown = false
	e.Expiration = s.ctx.Now()
}

// Entry returns a copy of the tracker state for spellID.
func (s *SpellUsable) Entry(spellID int) CooldownEntry {
	s.entry(spellID)
	if e, ok := s.entries[spellID]; ok {
		return *e
	}
	return CooldownEntry{}
}

// HastedReduction converts a base reduction in seconds to ms at the given haste.
func HastedReduction(baseSeconds float64, haste float64) int64 {
	return int64(math.Round(baseSeconds * 1000 / (1 + haste)))
}
