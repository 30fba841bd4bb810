package components

import (
	"fmt"
	"strings"

	"github.com/laccsec/growthbi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// HeatCellWidth is the width of one heatmap cell including its leading gap.
const HeatCellWidth = 7

// HeatColor shades a delta on the theme's gain or loss scale relative to
// the largest absolute delta in view.
func HeatColor(delta, maxAbs int64) lipgloss.Color {
	t := theme.Active
	if delta == 0 || maxAbs == 0 {
		return t.SurfaceBright
	}
	frac := float64(abs64(delta)) / float64(maxAbs)
	if delta > 0 {
		return t.GainShade(frac)
	}
	return t.LossShade(frac)
}

// heatText keeps cell numbers readable: light text on the dim half of the
// gain scale, dark text everywhere else.
func heatText(delta, maxAbs int64) lipgloss.Color {
	t := theme.Active
	if delta > 0 && maxAbs > 0 && float64(delta)/float64(maxAbs) <= 0.5 {
		return t.TextPrimary
	}
	if delta == 0 || maxAbs == 0 {
		return t.TextMuted
	}
	return t.Background
}

// Heatmap renders rows of month-over-month deltas as colored cells.
// months are column headers; rows and deltas are parallel.
func Heatmap(rows []string, months []string, deltas [][]int64, width int) string {
	if len(rows) == 0 || len(months) == 0 {
		return ""
	}
	t := theme.Active

	nameW := 0
	for _, r := range rows {
		if len(r) > nameW {
			nameW = len(r)
		}
	}

	// Show the most recent months that fit.
	fit := (width - nameW) / HeatCellWidth
	if fit < 1 {
		fit = 1
	}
	first := 0
	if len(months) > fit {
		first = len(months) - fit
	}

	var maxAbs int64
	for _, row := range deltas {
		for _, d := range row[min(first, len(row)):] {
			if a := abs64(d); a > maxAbs {
				maxAbs = a
			}
		}
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(headStyle.Render(strings.Repeat(" ", nameW)))
	for _, m := range months[first:] {
		b.WriteString(headStyle.Render(fmt.Sprintf(" %*s", HeatCellWidth-1, m)))
	}
	b.WriteString("\n")

	for i, name := range rows {
		b.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, name)))
		for j := first; j < len(months); j++ {
			var d int64
			if i < len(deltas) && j < len(deltas[i]) {
				d = deltas[i][j]
			}
			cell := lipgloss.NewStyle().
				Foreground(heatText(d, maxAbs)).
				Background(HeatColor(d, maxAbs)).
				Render(fmt.Sprintf("%*d", HeatCellWidth-2, d))
			b.WriteString(headStyle.Render(" "))
			b.WriteString(cell)
			b.WriteString(headStyle.Render(" "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
