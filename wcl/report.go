package wcl

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/bdfreeman1421/WoWAnalyzer/parser"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

const (
	eventsPerPage = 10000

	// combat rating per 1 % haste at max level, before diminishing returns
	hasteRatingPerPercent = 170.0
)

var (
	ErrFightNotFound  = errors.New("fight not found in report")
	ErrPlayerNotFound = errors.New("player not found in fight")
)

type Fight struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
	Kill      bool   `json:"kill"`
}

type Player struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Server string `json:"server"`
	Class  string `json:"subType"`
	Spec   string `json:"-"`
}

type Report struct {
	Code    string
	Title   string
	Fights  []Fight
	Players []Player
}

type playerDetailsEntry struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Specs []struct {
		Spec string `json:"spec"`
	} `json:"specs"`
}

type respReport struct {
	ReportData struct {
		Report *struct {
			Title      string  `json:"title"`
			Fights     []Fight `json:"fights"`
			MasterData struct {
				Actors []Player `json:"actors"`
			} `json:"masterData"`
			PlayerDetails struct {
				Data struct {
					PlayerDetails struct {
						Tanks   []playerDetailsEntry `json:"tanks"`
						Healers []playerDetailsEntry `json:"healers"`
						DPS     []playerDetailsEntry `json:"dps"`
					} `json:"playerDetails"`
				} `json:"data"`
			} `json:"playerDetails"`
		} `json:"report"`
	} `json:"reportData"`
}

// Report fetches the fights and players of a report. Only players with a
// known specialization in fightIDs are returned.
func (c *Client) Report(ctx context.Context, code string, fightIDs []int) (*Report, error) {
	tmplData := struct {
		Code     string
		FightIDs []int
	}{
		Code:     code,
		FightIDs: fightIDs,
	}

	var resp respReport
	err := c.CallGraphQL(ctx, tmplReport, tmplData, &resp)
	if err != nil {
		return nil, err
	}
	if resp.ReportData.Report == nil {
		return nil, errors.Errorf("report %s not found", code)
	}
	r := resp.ReportData.Report

	specs := make(map[int]string)
	details := r.PlayerDetails.Data.PlayerDetails
	for _, list := range [][]playerDetailsEntry{details.Tanks, details.Healers, details.DPS} {
		for _, p := range list {
			if len(p.Specs) > 0 {
				specs[p.ID] = fmt.Sprintf("%s-%s", p.Type, p.Specs[0].Spec)
			}
		}
	}

	report := &Report{
		Code:   code,
		Title:  r.Title,
		Fights: r.Fights,
	}
	for _, p := range r.MasterData.Actors {
		spec, ok := specs[p.ID]
		if !ok {
			continue
		}
		p.Spec = spec
		report.Players = append(report.Players, p)
	}

	return report, nil
}

func (r *Report) Fight(id int) (Fight, bool) {
	for _, f := range r.Fights {
		if f.ID == id {
			return f, true
		}
	}
	return Fight{}, false
}

func (r *Report) Player(name string) (Player, bool) {
	for _, p := range r.Players {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Player{}, false
}

////////////////////////////////////////////////////////////////////////////////////////////////////

type eventPage struct {
	Data              []jsoniter.RawMessage `json:"data"`
	NextPageTimestamp *int64                `json:"nextPageTimestamp"`
}

type respEvents struct {
	ReportData struct {
		Report *struct {
			Events eventPage `json:"events"`
		} `json:"report"`
	} `json:"reportData"`
}

func pageKey(code string, fightID int, start, end int64) uint64 {
	h := fnv.New64()
	fmt.Fprintf(h, "%s_fid_%d___st_%d_et_%d", code, fightID, start, end)
	return h.Sum64()
}

func (c *Client) eventPage(ctx context.Context, code string, fightID int, start, end int64) (*eventPage, error) {
	key := pageKey(code, fightID, start, end)

	var page eventPage
	if c.pages != nil && c.pages.Load(key, &page) {
		return &page, nil
	}

	tmplData := struct {
		Code      string
		FightID   int
		StartTime int64
		EndTime   int64
		Limit     int
	}{
		Code:      code,
		FightID:   fightID,
		StartTime: start,
		EndTime:   end,
		Limit:     eventsPerPage,
	}

	var resp respEvents
	err := c.CallGraphQL(ctx, tmplEvents, tmplData, &resp)
	if err != nil {
		return nil, err
	}
	if resp.ReportData.Report == nil {
		return nil, errors.Errorf("report %s not found", code)
	}

	page = resp.ReportData.Report.Events
	if c.pages != nil {
		c.pages.Save(key, &page)
	}
	return &page, nil
}

type combatantInfoEvent struct {
	SourceID int `json:"sourceID"`
	Talents  []struct {
		ID int `json:"id"`
	} `json:"talents"`
	Artifact []struct {
		SpellID int `json:"spellID"`
	} `json:"artifact"`
	Auras []struct {
		Ability int `json:"ability"`
		Stacks  int `json:"stacks"`
	} `json:"auras"`
	HasteSpell int `json:"hasteSpell"`
}

func (e *combatantInfoEvent) apply(info *parser.CombatantInfo) {
	for _, t := range e.Talents {
		info.Talents = append(info.Talents, t.ID)
	}
	for _, a := range e.Artifact {
		info.Traits = append(info.Traits, a.SpellID)
	}
	for _, a := range e.Auras {
		info.Auras = append(info.Auras, parser.AuraInfo{AbilityID: a.Ability, Stacks: a.Stacks})
	}
	info.Haste = float64(e.HasteSpell) / hasteRatingPerPercent / 100
}

// LogFile downloads one fight of one player. Events neither from nor to the
// player are dropped. progress receives the fight time covered so far.
func (c *Client) LogFile(ctx context.Context, report *Report, fightID int, player Player, progress func(done, total int64)) (*parser.LogFile, error) {
	fight, ok := report.Fight(fightID)
	if !ok {
		return nil, errors.Wrapf(ErrFightNotFound, "%s#%d", report.Code, fightID)
	}

	lf := &parser.LogFile{
		Fight: parser.Fight{
			ID:    fight.ID,
			Name:  fight.Name,
			Start: fight.StartTime,
			End:   fight.EndTime,
			Kill:  fight.Kill,
		},
		Combatant: parser.CombatantInfo{
			ID:     player.ID,
			Name:   player.Name,
			Server: player.Server,
			Spec:   player.Spec,
		},
	}

	total := fight.EndTime - fight.StartTime
	start := fight.StartTime
	for {
		page, err := c.eventPage(ctx, report.Code, fight.ID, start, fight.EndTime)
		if err != nil {
			return nil, err
		}

		for _, raw := range page.Data {
			var ev parser.Event
			err = jsoniter.Unmarshal(raw, &ev)
			if err != nil {
				return nil, errors.WithStack(err)
			}

			if ev.Type == parser.EventCombatantInfo {
				if ev.SourceID == player.ID {
					var ci combatantInfoEvent
					err = jsoniter.Unmarshal(raw, &ci)
					if err != nil {
						return nil, errors.WithStack(err)
					}
					ci.apply(&lf.Combatant)
				}
				continue
			}

			if ev.SourceID != player.ID && ev.TargetID != player.ID {
				continue
			}
			lf.Events = append(lf.Events, &ev)
		}

		if page.NextPageTimestamp == nil || *page.NextPageTimestamp <= start {
			break
		}
		start = *page.NextPageTimestamp

		if progress != nil {
			progress(start-fight.StartTime, total)
		}
	}

	if progress != nil {
		progress(total, total)
	}

	return lf, nil
}
