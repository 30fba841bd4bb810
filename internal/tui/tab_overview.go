package tui

import (
	"fmt"
	"strings"

	"github.com/laccsec/growthbi/internal/cli"
	"github.com/laccsec/growthbi/internal/tui/components"
	"github.com/laccsec/growthbi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	d := a.dash
	st := d.Summary
	var b strings.Builder

	// Row 1: Metric cards
	projected := "fitting…"
	projectedDelta := ""
	if fs, ok := a.currentForecast(); ok {
		if fs.Available {
			projected = formatCount(fs.Headline)
			projectedDelta = "by " + cli.FormatMonth(fs.HeadlineMonth)
		} else {
			projected = "n/a"
			projectedDelta = "forecast unavailable"
		}
	}

	cards := []components.Metric{
		{Label: "Followers", Value: cli.FormatNumber(st.TotalNow), Delta: cli.FormatDelta(st.AbsoluteGain) + " since " + cli.FormatMonth(d.Start)},
		{Label: "CAGR", Value: cli.FormatSignedPercent(st.CAGRPercent), Delta: fmt.Sprintf("over %d months", st.Months)},
		{Label: "Leader", Value: st.LeaderChannel, Delta: leaderShare(a)},
		{Label: "Projected", Value: projected, Delta: projectedDelta},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: Total followers chart
	chartH := 10
	if a.isCompactLayout() {
		chartH = 7
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Total Followers (%d months)", d.Total.Len()),
		components.BarChart(d.Total.Values(), monthLabels(d.Total.Dates()), t.History, components.CardInnerWidth(cw), chartH),
		cw,
	))
	b.WriteString("\n")

	// Row 3: Goal + Milestones
	halves := components.LayoutRow(cw, 2)
	goalW := halves[0]
	if a.isCompactLayout() {
		goalW = cw
	}
	innerW := components.CardInnerWidth(goalW)
	barW := innerW - 6 - 20
	if barW < 10 {
		barW = 10
	}

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	var goalBody strings.Builder
	goalBody.WriteString(components.GoalBar("Goal", st.TotalNow, st.Goal, 5, barW))
	goalBody.WriteString("\n")
	remaining := st.Goal - st.TotalNow
	if remaining > 0 {
		goalBody.WriteString(mutedStyle.Render(fmt.Sprintf("%s followers to go", cli.FormatNumber(remaining))))
	} else {
		goalBody.WriteString(mutedStyle.Render("Goal reached"))
	}
	goalCard := components.ContentCard("Follower Goal", goalBody.String(), goalW)

	whenStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	whatStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	var msBody strings.Builder
	msInner := components.CardInnerWidth(halves[1])
	if a.isCompactLayout() {
		msInner = components.CardInnerWidth(cw)
	}
	for _, m := range d.Milestones {
		fmt.Fprintf(&msBody, "%s %s\n",
			whenStyle.Render(fmt.Sprintf("%-9s", m.When)),
			whatStyle.Render(truncStr(m.What, msInner-10)))
	}
	if len(d.Milestones) == 0 {
		msBody.WriteString(mutedStyle.Render("No milestones configured"))
	}

	if a.isCompactLayout() {
		b.WriteString(goalCard)
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Upcoming", msBody.String(), cw))
	} else {
		b.WriteString(components.CardRow([]string{
			goalCard,
			components.ContentCard("Upcoming", msBody.String(), halves[1]),
		}))
	}

	return b.String()
}

func leaderShare(a App) string {
	for _, sh := range a.dash.Summary.Shares {
		if sh.Channel == a.dash.Summary.LeaderChannel {
			return fmt.Sprintf("%.1f%% of total", sh.SharePercent)
		}
	}
	return ""
}
