package tui

import (
	"fmt"
	"strings"

	"github.com/laccsec/growthbi/internal/cli"
	"github.com/laccsec/growthbi/internal/tui/components"
	"github.com/laccsec/growthbi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderHeatmapTab(cw int) string {
	t := theme.Active
	d := a.dash

	names := make([]string, len(d.Deltas))
	deltas := make([][]int64, len(d.Deltas))
	for i, ds := range d.Deltas {
		names[i] = truncStr(ds.Name, 16)
		deltas[i] = ds.Deltas
	}
	months := make([]string, 0, d.Total.Len())
	for _, m := range d.Total.Dates() {
		months = append(months, m.Format("Jan06"))
	}

	innerW := components.CardInnerWidth(cw)
	grid := components.Heatmap(names, months, deltas, innerW)

	// Biggest monthly gain and loss across all channels
	var (
		bestName, worstName   string
		bestMonth, worstMonth string
		best, worst           int64
	)
	for _, ds := range d.Deltas {
		for j, v := range ds.Deltas {
			if v > best {
				best, bestName, bestMonth = v, ds.Name, cli.FormatMonth(ds.Dates[j])
			}
			if v < worst {
				worst, worstName, worstMonth = v, ds.Name, cli.FormatMonth(ds.Dates[j])
			}
		}
	}

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	var notes strings.Builder
	if bestName != "" {
		notes.WriteString(mutedStyle.Render(fmt.Sprintf("Best month:  %s %s in %s", bestName, cli.FormatDelta(best), bestMonth)))
		notes.WriteString("\n")
	}
	if worstName != "" {
		notes.WriteString(mutedStyle.Render(fmt.Sprintf("Worst month: %s %s in %s", worstName, cli.FormatDelta(worst), worstMonth)))
		notes.WriteString("\n")
	}
	notes.WriteString(mutedStyle.Render("First month is 0 by definition."))

	var out strings.Builder
	out.WriteString(components.ContentCard("Month-over-Month Change", grid, cw))
	out.WriteString("\n")
	out.WriteString(components.ContentCard("Extremes", notes.String(), cw))
	return out.String()
}
