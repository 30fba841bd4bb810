package tui

import (
	"fmt"
	"strings"

	"github.com/laccsec/growthbi/internal/cli"
	"github.com/laccsec/growthbi/internal/tui/components"
	"github.com/laccsec/growthbi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderFunnelTab(cw int) string {
	t := theme.Active
	st := a.dash.Summary

	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	numStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	stageColors := []lipgloss.Color{t.History, t.Cyan, t.Accent, t.Green}

	// Funnel stages
	innerW := components.CardInnerWidth(halves[0])
	labelW := 0
	for _, s := range st.Funnel {
		if len(s.Stage) > labelW {
			labelW = len(s.Stage)
		}
	}
	numW := len(cli.FormatNumber(st.TotalNow))
	barMax := innerW - labelW - numW - 9
	if barMax < 1 {
		barMax = 1
	}

	var funnel strings.Builder
	for i, s := range st.Funnel {
		barLen := 0
		if st.TotalNow > 0 {
			barLen = int(float64(s.Count) / float64(st.TotalNow) * float64(barMax))
		}
		conv := ""
		if i > 0 && st.Funnel[i-1].Count > 0 {
			conv = fmt.Sprintf("%3.0f%%", float64(s.Count)/float64(st.Funnel[i-1].Count)*100)
		}
		fmt.Fprintf(&funnel, "%s %s %s %s\n",
			nameStyle.Render(fmt.Sprintf("%-*s", labelW, s.Stage)),
			numStyle.Render(fmt.Sprintf("%*s", numW, cli.FormatNumber(s.Count))),
			pctStyle.Render(fmt.Sprintf("%4s", conv)),
			lipgloss.NewStyle().Foreground(stageColors[i%len(stageColors)]).Background(t.Surface).Render(strings.Repeat("█", barLen)))
	}

	// Channel share
	shareInner := components.CardInnerWidth(halves[1])
	nameW := shareInner / 3
	if nameW < 12 {
		nameW = 12
	}
	shareMax := shareInner - nameW - 8
	if shareMax < 1 {
		shareMax = 1
	}
	maxShare := 0.0
	for _, sh := range st.Shares {
		if sh.SharePercent > maxShare {
			maxShare = sh.SharePercent
		}
	}
	barStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	var share strings.Builder
	for _, sh := range st.Shares {
		barLen := 0
		if maxShare > 0 {
			barLen = int(sh.SharePercent / maxShare * float64(shareMax))
		}
		fmt.Fprintf(&share, "%s %s %s\n",
			nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(sh.Channel, nameW))),
			barStyle.Render(strings.Repeat("█", barLen)),
			pctStyle.Render(fmt.Sprintf("%.1f%%", sh.SharePercent)))
	}

	funnelCard := components.ContentCard("Conversion Funnel", funnel.String(), halves[0])
	shareCard := components.ContentCard("Channel Share", share.String(), halves[1])
	if a.isCompactLayout() {
		return funnelCard + "\n" + shareCard
	}
	return components.CardRow([]string{funnelCard, shareCard})
}
