package tui

import (
	"fmt"
	"strings"

	"github.com/laccsec/growthbi/internal/cli"
	"github.com/laccsec/growthbi/internal/tui/components"
	"github.com/laccsec/growthbi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderForecastTab(cw int) string {
	t := theme.Active
	d := a.dash

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	horizonStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	horizonLine := mutedStyle.Render("Horizon ") +
		horizonStyle.Render(fmt.Sprintf("%d months", a.horizon)) +
		mutedStyle.Render(fmt.Sprintf("   [-] %d … %d [+]", a.cfg.Forecast.MinHorizon, a.cfg.Forecast.MaxHorizon))

	fs, ok := a.currentForecast()
	switch {
	case a.forecastErr != nil:
		return components.ContentCard("Forecast", horizonLine+"\n\n"+
			lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(a.forecastErr.Error()), cw)
	case !ok:
		return components.ContentCard("Forecast", horizonLine+"\n\n"+
			a.spinner.View()+mutedStyle.Render(" Fitting trend model..."), cw)
	case !fs.Available:
		return components.ContentCard("Forecast", horizonLine+"\n\n"+
			lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Render("Forecast unavailable")+"\n"+
			mutedStyle.Render(fs.Reason), cw)
	}

	var b strings.Builder

	last := fs.Points[len(fs.Points)-1]
	cards := []components.Metric{
		{Label: "Projected " + cli.FormatMonth(fs.HeadlineMonth), Value: formatCount(fs.Headline),
			Delta: cli.FormatDelta(int64(fs.Headline) - d.Summary.TotalNow) + " vs now"},
		{Label: fmt.Sprintf("%.0f%% interval", a.cfg.Forecast.IntervalWidth*100), Value: formatCount(last.Lower) + " – " + formatCount(last.Upper)},
		{Label: "Fit error", Value: fmt.Sprintf("%.1f%% MAPE", fs.MAPE), Delta: "RMSE " + formatCount(fs.RMSE)},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	projected := make([]float64, len(fs.Points))
	upper := make([]float64, len(fs.Points))
	dates := d.Total.Dates()
	for i, p := range fs.Points {
		projected[i] = p.Value
		upper[i] = p.Upper
		dates = append(dates, p.Date)
	}

	chartH := 10
	if a.isCompactLayout() {
		chartH = 7
	}
	b.WriteString(components.ContentCard(
		horizonLine,
		components.ForecastChart(d.Total.Values(), projected, upper, monthLabels(dates), components.CardInnerWidth(cw), chartH),
		cw,
	))
	b.WriteString("\n")

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	var table strings.Builder
	table.WriteString(headerStyle.Render(fmt.Sprintf("%-9s %10s %10s %10s", "Month", "Projected", "Lower", "Upper")))
	table.WriteString("\n")
	for _, p := range fs.Points {
		table.WriteString(rowStyle.Render(fmt.Sprintf("%-9s %10s", cli.FormatMonth(p.Date), formatCount(p.Value))))
		table.WriteString(mutedStyle.Render(fmt.Sprintf(" %10s %10s", formatCount(p.Lower), formatCount(p.Upper))))
		table.WriteString("\n")
	}
	b.WriteString(components.ContentCard("Projection", table.String(), cw))

	return b.String()
}
