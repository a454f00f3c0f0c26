package analysis

import (
	"github.com/bdfreeman1421/WoWAnalyzer/parser"
	"github.com/bdfreeman1421/WoWAnalyzer/parser/analyzers"
)

type State int

const (
	StateInvalid State = iota
	StateNotFound
	StateUnsupported
	StateComplete
)

type FightResult struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Kill     bool   `json:"kill"`
	Duration int64  `json:"duration"`
	Events   int    `json:"events"`

	Statistics  []*parser.Statistic `json:"statistics"`
	Suggestions []parser.Suggestion `json:"suggestions"`
}

type Result struct {
	State     State  `json:"state"`
	UpdatedAt string `json:"updatedAt"`

	ReportCode   string `json:"report"`
	ReportTitle  string `json:"title"`
	PlayerName   string `json:"player"`
	PlayerServer string `json:"server"`
	Spec         string `json:"spec"`

	Fights []*FightResult `json:"fights"`
}

// Analyze replays one downloaded or uploaded fight through the preset of
// its spec.
func Analyze(lf *parser.LogFile) (*FightResult, error) {
	return AnalyzeWithProgress(lf, nil)
}

// AnalyzeWithProgress is Analyze reporting replay progress in events.
func AnalyzeWithProgress(lf *parser.LogFile, progress func(done, total int)) (*FightResult, error) {
	p, log, err := analyzers.Load(lf)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		p.SetProgress(progress)
	}

	err = p.Run(log)
	if err != nil {
		return nil, err
	}

	fr := &FightResult{
		ID:          lf.Fight.ID,
		Name:        lf.Fight.Name,
		Kill:        lf.Fight.Kill,
		Duration:    lf.Fight.Duration(),
		Events:      log.Len(),
		Statistics:  p.Statistics(),
		Suggestions: p.Suggestions(),
	}
	if fr.Statistics == nil {
		fr.Statistics = []*parser.Statistic{}
	}
	if fr.Suggestions == nil {
		fr.Suggestions = []parser.Suggestion{}
	}

	return fr, nil
}
