package parser

import (
	"fmt"
)

type Category string

const (
	CategoryGeneral   Category = "general"
	CategoryTalents   Category = "talents"
	CategoryItems     Category = "items"
	CategoryCovenant  Category = "covenant"
	CategoryAzerite   Category = "azerite"
	CategoryCooldowns Category = "cooldowns"
)

// Positions order statistic boxes. Lower comes first.
const (
	PositionDefault      = 100
	positionOptionalBase = 1000
)

func Core(n int) int {
	return n
}

func Optional(n int) int {
	return positionOptionalBase + n
}

// StatisticItem is one slice of a donut chart.
type StatisticItem struct {
	Label   string `json:"label"`
	SpellID int    `json:"spellId,omitempty"`
	Value   int64  `json:"value"`
	Color   string `json:"color,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
}

// Statistic is the render description of one result box.
type Statistic struct {
	Module   string          `json:"module"`
	Category Category        `json:"category"`
	Position int             `json:"position"`
	SpellID  int             `json:"spellId,omitempty"`
	Label    string          `json:"label"`
	Value    string          `json:"value"`
	Tooltip  string          `json:"tooltip,omitempty"`
	Items    []StatisticItem `json:"items,omitempty"`
}

type Importance string

const (
	ImportanceMinor   Importance = "minor"
	ImportanceAverage Importance = "average"
	ImportanceMajor   Importance = "major"
)

type Suggestion struct {
	Module      string     `json:"module"`
	SpellID     int        `json:"spellId,omitempty"`
	Importance  Importance `json:"importance"`
	Text        string     `json:"text"`
	Actual      string     `json:"actual"`
	Recommended string     `json:"recommended"`
}

type Levels struct {
	Minor   float64
	Average float64
	Major   float64
}

// Threshold grades an actual value against three levels. Only one of
// IsLessThan and IsGreaterThan is set.
type Threshold struct {
	Actual        float64
	IsLessThan    *Levels
	IsGreaterThan *Levels
}

// Importance returns "" when the actual value passes the minor level.
func (t Threshold) Importance() Importance {
	switch {
	case t.IsLessThan != nil:
		l := t.IsLessThan
		switch {
		case t.Actual < l.Major:
			return ImportanceMajor
		case t.Actual < l.Average:
			return ImportanceAverage
		case t.Actual < l.Minor:
			return ImportanceMinor
		}
	case t.IsGreaterThan != nil:
		l := t.IsGreaterThan
		switch {
		case t.Actual > l.Major:
			return ImportanceMajor
		case t.Actual > l.Average:
			return ImportanceAverage
		case t.Actual > l.Minor:
			return ImportanceMinor
		}
	}
	return ""
}

// Recommended is the minor level, the value the player should reach.
func (t Threshold) Recommended() float64 {
	if t.IsLessThan != nil {
		return t.IsLessThan.Minor
	}
	if t.IsGreaterThan != nil {
		return t.IsGreaterThan.Minor
	}
	return 0
}

// EffectiveDamage is the part of ev's effective amount contributed by a
// multiplicative increase, 1.0 = +100 %.
func EffectiveDamage(ev *Event, increase float64) float64 {
	eff := float64(ev.Effective())
	return eff - eff/(1+increase)
}

func FormatPercentage(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
