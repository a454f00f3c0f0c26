package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/bdfreeman1421/WoWAnalyzer/analysis"
	"github.com/bdfreeman1421/WoWAnalyzer/config"
	"github.com/bdfreeman1421/WoWAnalyzer/parser"
	"github.com/bdfreeman1421/WoWAnalyzer/wcl"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	analyzeJSON   bool
	analyzeReport string
	analyzeFight  int
	analyzePlayer string
	analyzeSave   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [log-file]",
	Short: "Analyze one fight of one player",
	Long: `Analyze one fight of one player, either from a JSON log file
("-" reads stdin) or downloaded from Warcraft Logs.

Examples:
  wowanalyzer analyze fight.json
  wowanalyzer analyze --report aBcD1234eFgH5678 --fight 3 --player Drake
  wowanalyzer analyze --report aBcD1234eFgH5678 --fight 3 --player Drake --save fight.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the result as JSON")
	analyzeCmd.Flags().StringVarP(&analyzeReport, "report", "r", "", "Warcraft Logs report code")
	analyzeCmd.Flags().IntVarP(&analyzeFight, "fight", "f", 0, "Fight id in the report")
	analyzeCmd.Flags().StringVarP(&analyzePlayer, "player", "p", "", "Player name")
	analyzeCmd.Flags().StringVar(&analyzeSave, "save", "", "Write the downloaded log file to this path")

	rootCmd.AddCommand(analyzeCmd)
}

func newProgress(w io.Writer, total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
		}),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func readLogFile(path string, stdin io.Reader) (*parser.LogFile, error) {
	if path == "-" {
		return parser.ReadLogFile(stdin)
	}

	fs, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer fs.Close()

	return parser.ReadLogFile(fs)
}

func downloadLogFile(ctx context.Context, cmd *cobra.Command) (*parser.LogFile, error) {
	req := analysis.RequestData{
		ReportCode: analyzeReport,
		FightIDs:   []int{analyzeFight},
		PlayerName: analyzePlayer,
	}
	if !req.CheckOptionValidation() {
		return nil, errors.New("--report, --fight and --player do not describe a valid request")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	client, err := wcl.New(cfg.WCL, nil)
	if err != nil {
		return nil, err
	}

	report, err := client.Report(ctx, req.ReportCode, req.FightIDs)
	if err != nil {
		return nil, err
	}
	player, ok := report.Player(req.PlayerName)
	if !ok {
		return nil, errors.Wrap(wcl.ErrPlayerNotFound, req.PlayerName)
	}

	bar := newProgress(cmd.ErrOrStderr(), 100, "Downloading")
	defer bar.Finish()

	return client.LogFile(ctx, report, req.FightIDs[0], player, func(done, total int64) {
		if total > 0 {
			bar.Set64(done * 100 / total)
		}
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	var lf *parser.LogFile
	var err error

	switch {
	case analyzeReport != "":
		lf, err = downloadLogFile(cmd.Context(), cmd)
	case len(args) == 1:
		lf, err = readLogFile(args[0], cmd.InOrStdin())
	default:
		return errors.New("either a log file or --report is required")
	}
	if err != nil {
		return err
	}

	if analyzeSave != "" {
		fs, err := os.Create(analyzeSave)
		if err != nil {
			return errors.WithStack(err)
		}
		err = jsoniter.NewEncoder(fs).Encode(lf)
		fs.Close()
		if err != nil {
			return errors.WithStack(err)
		}
	}

	bar := newProgress(cmd.ErrOrStderr(), int64(len(lf.Events)), "Replaying")
	fr, err := analysis.AnalyzeWithProgress(lf, func(done, total int) {
		bar.Set(done)
	})
	bar.Finish()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		enc := jsoniter.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(fr)
	}

	renderFight(out, &lf.Combatant, fr)
	return nil
}
