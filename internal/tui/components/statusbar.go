package components

import (
	"fmt"
	"strings"

	"github.com/laccsec/growthbi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar with the current horizon
// and how long the last build took.
func RenderStatusBar(width, horizon int, buildTime string, busy bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [-/+]horizon  [r]ebuild  [q]uit"
	right := fmt.Sprintf("Horizon: %dm ", horizon)
	if busy {
		right = "fitting… " + right
	}
	if buildTime != "" {
		right += fmt.Sprintf("│ Built in %s ", buildTime)
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
