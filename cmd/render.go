package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bdfreeman1421/WoWAnalyzer/analysis"
	"github.com/bdfreeman1421/WoWAnalyzer/parser"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	accent  = lipgloss.Color("#FAB700")
	muted   = lipgloss.Color("#666666")
	white   = lipgloss.Color("#FFFFFF")
	major   = lipgloss.Color("#FF5E5E")
	average = lipgloss.Color("#FFB75E")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(white)
	accentStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(muted)
	valueStyle  = lipgloss.NewStyle().Bold(true).Foreground(white).PaddingLeft(2)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1)

	importanceStyles = map[parser.Importance]lipgloss.Style{
		parser.ImportanceMajor:   lipgloss.NewStyle().Foreground(major).Bold(true),
		parser.ImportanceAverage: lipgloss.NewStyle().Foreground(average),
		parser.ImportanceMinor:   mutedStyle,
	}
)

func renderStatistic(st *parser.Statistic) string {
	var sb strings.Builder

	sb.WriteString(accentStyle.Render(st.Label))
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  %s", st.Category)))
	if st.Value != "" {
		sb.WriteString("\n")
		sb.WriteString(valueStyle.Render(st.Value))
	}
	for _, it := range st.Items {
		sb.WriteString("\n  ")
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(it.Color)).Render("■"))
		sb.WriteString(fmt.Sprintf(" %-20s %s", it.Label, humanize.Comma(it.Value)))
	}
	if st.Tooltip != "" {
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render("  " + st.Tooltip))
	}

	return boxStyle.Render(sb.String())
}

func renderFight(w io.Writer, info *parser.CombatantInfo, fr *analysis.FightResult) {
	duration := (time.Duration(fr.Duration) * time.Millisecond).Truncate(time.Second)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", titleStyle.Render(info.Name), mutedStyle.Render(info.Spec))
	fmt.Fprintf(w, "  %s\n", mutedStyle.Render(fmt.Sprintf("%s #%d · %s · %s events", fr.Name, fr.ID, duration, humanize.Comma(int64(fr.Events)))))
	fmt.Fprintln(w)

	if len(fr.Suggestions) > 0 {
		fmt.Fprintln(w, accentStyle.Render("▸ SUGGESTIONS"))
		for _, sg := range fr.Suggestions {
			style, ok := importanceStyles[sg.Importance]
			if !ok {
				style = mutedStyle
			}
			fmt.Fprintf(w, "  %s %s\n", style.Render("●"), sg.Text)
			fmt.Fprintf(w, "    %s\n", mutedStyle.Render(fmt.Sprintf("%s, %s", sg.Actual, sg.Recommended)))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, accentStyle.Render("▸ STATISTICS"))
	if len(fr.Statistics) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  Nothing to show for this fight."))
		return
	}
	for _, st := range fr.Statistics {
		fmt.Fprintln(w, renderStatistic(st))
	}
}
