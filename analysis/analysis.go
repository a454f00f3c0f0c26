package analysis

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bdfreeman1421/WoWAnalyzer/parser"
	"github.com/bdfreeman1421/WoWAnalyzer/parser/analyzers"
	"github.com/bdfreeman1421/WoWAnalyzer/share"
	"github.com/bdfreeman1421/WoWAnalyzer/wcl"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const maxParallelFights = 2

// Source is where fights are downloaded from.
type Source interface {
	Report(ctx context.Context, code string, fightIDs []int) (*wcl.Report, error)
	LogFile(ctx context.Context, report *wcl.Report, fightID int, player wcl.Player, progress func(done, total int64)) (*parser.LogFile, error)
}

type Service struct {
	source Source
}

func New(source Source) *Service {
	return &Service{
		source: source,
	}
}

// Do renders the result of reqData into buf. progress may be called from
// several goroutines. ok is false when nothing could be rendered; otherwise
// state tells which page buf holds.
func (s *Service) Do(ctx context.Context, reqData *RequestData, progress func(p string), buf *bytes.Buffer) (state State, ok bool) {
	res := Result{
		UpdatedAt: time.Now().Format("2006-01-02 15:04:05"),
		State:     StateInvalid,
	}

	if !s.doStat(ctx, reqData, progress, &res) {
		return res.State, false
	}

	err := tmplResult.Execute(buf, &res)
	if err != nil {
		sentry.CaptureException(err)
		fmt.Printf("%+v\n", errors.WithStack(err))
		return res.State, false
	}

	return res.State, true
}

func (s *Service) doStat(ctx context.Context, reqData *RequestData, progress func(p string), res *Result) bool {
	if progress == nil {
		progress = func(string) {}
	}

	if !reqData.CheckOptionValidation() {
		res.State = StateInvalid
		return true
	}
	res.ReportCode = reqData.ReportCode
	res.PlayerName = reqData.PlayerName

	progress("Loading report")
	report, err := s.source.Report(ctx, reqData.ReportCode, reqData.FightIDs)
	if err != nil {
		if _, ok := errors.Cause(err).(*wcl.GraphQLError); ok {
			res.State = StateNotFound
			return true
		}
		reportError(err)
		return false
	}
	res.ReportTitle = report.Title

	player, ok := report.Player(reqData.PlayerName)
	if !ok {
		res.State = StateNotFound
		return true
	}
	res.PlayerName = player.Name
	res.PlayerServer = player.Server
	res.Spec = player.Spec

	if !analyzers.Supported(player.Spec) {
		res.State = StateUnsupported
		return true
	}
	for _, id := range reqData.FightIDs {
		if _, ok := report.Fight(id); !ok {
			res.State = StateNotFound
			return true
		}
	}

	log.Printf("fetch %s#%v %s\n", reqData.ReportCode, reqData.FightIDs, player.Name)
	files, err := s.fetchFights(ctx, report, reqData.FightIDs, player, progress)
	if err != nil {
		reportError(err)
		return false
	}

	for _, lf := range files {
		progress(fmt.Sprintf("Analyzing fight %d", lf.Fight.ID))

		fr, err := Analyze(lf)
		if err != nil {
			reportError(err)
			return false
		}
		res.Fights = append(res.Fights, fr)
	}

	res.State = StateComplete
	return true
}

// fetchFights downloads the fights concurrently, keeping the request order.
func (s *Service) fetchFights(ctx context.Context, report *wcl.Report, fightIDs []int, player wcl.Player, progress func(p string)) ([]*parser.LogFile, error) {
	files := make([]*parser.LogFile, len(fightIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFights)

	for i, id := range fightIDs {
		i, id := i, id
		g.Go(func() error {
			lf, err := s.source.LogFile(ctx, report, id, player, func(done, total int64) {
				if total > 0 {
					progress(fmt.Sprintf("Downloading fight %d: %d%%", id, done*100/total))
				}
			})
			if err != nil {
				return err
			}
			files[i] = lf
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}
	return files, nil
}

func reportError(err error) {
	if share.IsContextClosedError(err) {
		return
	}
	sentry.CaptureException(err)
	fmt.Printf("%+v\n", errors.WithStack(err))
}
