package tui

import (
	"fmt"
	"strings"

	"github.com/laccsec/growthbi/internal/cli"
	"github.com/laccsec/growthbi/internal/tui/components"
	"github.com/laccsec/growthbi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderChannelsTab(cw int) string {
	t := theme.Active
	d := a.dash

	innerW := components.CardInnerWidth(cw)
	fixedCols := 8 + 8 + 9 + 7 // Start, Now, Gain, Share
	sparkW := d.Total.Len()
	gaps := 5
	nameW := innerW - fixedCols - sparkW - gaps
	if nameW < 12 {
		nameW = 12
	}
	showSpark := !a.isCompactLayout()
	if !showSpark {
		nameW += sparkW + 1
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	gainStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	lossStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	shareStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface)


	var body strings.Builder
	head := fmt.Sprintf("%-*s %8s %8s %9s %7s", nameW, "Channel", "Start", "Now", "Gain", "Share")
	if showSpark {
		head += " " + "Trend"
	}
	body.WriteString(headerStyle.Render(head))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")

	for i, ch := range d.Channels {
		first := int64(ch.First().Value)
		last := int64(ch.Last().Value)
		gain := last - first
		gs := gainStyle
		if gain < 0 {
			gs = lossStyle
		}

		nameStyle := lipgloss.NewStyle().Foreground(t.SeriesColor(i)).Background(t.Surface)
		body.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(ch.Name, nameW))))
		body.WriteString(rowStyle.Render(fmt.Sprintf(" %8s %8s", cli.FormatNumber(first), cli.FormatNumber(last))))
		body.WriteString(gs.Render(fmt.Sprintf(" %9s", cli.FormatDelta(gain))))
		body.WriteString(shareStyle.Render(fmt.Sprintf(" %6.1f%%", d.Summary.Shares[i].SharePercent)))
		if showSpark {
			body.WriteString(rowStyle.Render(" "))
			body.WriteString(components.Sparkline(ch.Values(), t.SeriesColor(i)))
		}
		body.WriteString("\n")
	}

	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %8s %8s %9s %7s", nameW, d.Total.Name,
		cli.FormatNumber(d.Summary.TotalStart),
		cli.FormatNumber(d.Summary.TotalNow),
		cli.FormatDelta(d.Summary.AbsoluteGain),
		"100.0%")))

	var out strings.Builder
	out.WriteString(components.ContentCard("Channels", body.String(), cw))
	out.WriteString("\n")

	// Current followers per channel
	values := make([]float64, len(d.Channels))
	labels := make([]string, len(d.Channels))
	for i, ch := range d.Channels {
		values[i] = ch.Last().Value
		labels[i] = truncStr(ch.Name, 8)
	}
	out.WriteString(components.ContentCard(
		"Followers by Channel ("+cli.FormatMonth(d.End)+")",
		components.BarChart(values, labels, t.Accent, innerW, 8),
		cw,
	))
	return out.String()
}
