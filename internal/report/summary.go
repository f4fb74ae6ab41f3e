package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
)

// PrintSummary renders one table per strategy with the winning row
// highlighted, followed by a winner line.
func PrintSummary(w io.Writer, r *Report, noColor bool) {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	bestStyle := cellStyle
	if !noColor {
		headerStyle = headerStyle.Foreground(lipgloss.Color("12"))
		bestStyle = cellStyle.Foreground(lipgloss.Color("10")).Bold(true)
	}

	winner := color.New(color.FgGreen, color.Bold)
	muted := color.New(color.FgYellow)
	if noColor {
		winner.DisableColor()
		muted.DisableColor()
	}

	if r.Empty() {
		muted.Fprintln(w, "no search strategy completed")
		return
	}

	for _, res := range r.Results() {
		bestRow := -1
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("BLOCK SIZE", "OPT LEVEL", "MEAN (s)", "MIN (s)", "MAX (s)")
		for i, m := range res.Measurements {
			if res.HasBest() && m.Key() == res.Best.Key() {
				bestRow = i
			}
			t.Row(m.Params.BlockSize, m.Params.OptLevel, FormatSeconds(m.Mean), FormatSeconds(m.Min), FormatSeconds(m.Max))
		}
		t.StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == bestRow:
				return bestStyle
			default:
				return cellStyle
			}
		})

		fmt.Fprintf(w, "%s search (%d configurations, %d runs each)\n", res.Algorithm, res.Len(), res.Repeat)
		fmt.Fprintln(w, t.Render())
		if res.HasBest() {
			winner.Fprintf(w, "best parameter combination: %s (%s s)\n", res.Best.Key(), FormatSeconds(res.Best.Mean))
		} else {
			muted.Fprintln(w, "best parameter combination: none")
		}
		fmt.Fprintf(w, "algorithm run time: %s s\n\n", FormatSeconds(res.DurationSeconds()))
	}
}
