package cmd

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nikogura/resume-refiner/pkg/completion"
)

//nolint:gochecknoglobals // shared styles
var (
	reportTitleStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	successStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// attemptReport renders one table row per backend attempt.
func attemptReport(attempts []completion.Attempt) (report string) {
	if len(attempts) == 0 {
		return report
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("BACKEND", "TRY", "OUTCOME", "ELAPSED", "ERROR")

	for _, a := range attempts {
		outcome := successStyle.Render(a.Outcome())
		if !a.Success {
			outcome = failureStyle.Render(a.Outcome())
		}

		errText := ""
		if a.Err != nil {
			errText = truncate(a.Err.Error(), 60)
		}

		t.Row(string(a.Backend), strconv.Itoa(a.Number), outcome, a.Elapsed.Round(time.Millisecond).String(), errText)
	}

	report = reportTitleStyle.Render("Completion attempts") + "\n" + t.String() + "\n"
	return report
}

func truncate(s string, limit int) (out string) {
	out = strings.ReplaceAll(s, "\n", " ")
	if len(out) > limit {
		out = out[:limit-3] + "..."
	}
	return out
}
