// Package theme defines color themes for the growthbi dashboard.
//
// A theme has two halves: chrome roles for cards, tabs and text, and data
// roles for what the charts and heatmap plot.
package theme

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps the dashboard's color roles to concrete colors.
type Theme struct {
	Name string

	// Chrome
	Background    lipgloss.Color
	Surface       lipgloss.Color // card and panel fill
	SurfaceHover  lipgloss.Color // active tab
	SurfaceBright lipgloss.Color // empty heatmap cells
	Border        lipgloss.Color
	BorderAccent  lipgloss.Color // overlays
	TextDim       lipgloss.Color
	TextMuted     lipgloss.Color
	TextPrimary   lipgloss.Color
	Accent        lipgloss.Color
	AccentBright  lipgloss.Color

	// Status
	Green       lipgloss.Color
	GreenBright lipgloss.Color
	Orange      lipgloss.Color
	Red         lipgloss.Color
	Yellow      lipgloss.Color
	Cyan        lipgloss.Color

	// Data
	History    lipgloss.Color    // observed follower totals
	Projection lipgloss.Color    // forecast mean
	Interval   lipgloss.Color    // forecast band above the mean
	Gain       [4]lipgloss.Color // new followers, faint to strong
	Loss       [2]lipgloss.Color // lost followers, faint to strong
	Series     []lipgloss.Color  // one per channel, cycled
}

// GainShade returns the gain color for a month whose delta is frac of the
// largest absolute delta in view.
func (t Theme) GainShade(frac float64) lipgloss.Color {
	return t.Gain[scaleIndex(frac, len(t.Gain))]
}

// LossShade is GainShade for negative deltas.
func (t Theme) LossShade(frac float64) lipgloss.Color {
	return t.Loss[scaleIndex(frac, len(t.Loss))]
}

// SeriesColor returns the color for the i-th channel.
func (t Theme) SeriesColor(i int) lipgloss.Color {
	if len(t.Series) == 0 {
		return t.Accent
	}
	return t.Series[i%len(t.Series)]
}

// scaleIndex buckets frac in (0, 1] into n equal steps.
func scaleIndex(frac float64, n int) int {
	i := int(math.Ceil(frac*float64(n))) - 1
	return max(0, min(i, n-1))
}

// LaccNight is the default: a navy background with a cyan history line and
// a green scale for follower gains.
var LaccNight = Theme{
	Name:          "lacc-night",
	Background:    lipgloss.Color("#0F1123"),
	Surface:       lipgloss.Color("#1E2030"),
	SurfaceHover:  lipgloss.Color("#2A2D45"),
	SurfaceBright: lipgloss.Color("#363A56"),
	Border:        lipgloss.Color("#3B3F5C"),
	BorderAccent:  lipgloss.Color("#00E5FF"),
	TextDim:       lipgloss.Color("#5C6080"),
	TextMuted:     lipgloss.Color("#9A9DB8"),
	TextPrimary:   lipgloss.Color("#E8E8E8"),
	Accent:        lipgloss.Color("#00E5FF"),
	AccentBright:  lipgloss.Color("#80F2FF"),

	Green:       lipgloss.Color("#41AB5D"),
	GreenBright: lipgloss.Color("#74C476"),
	Orange:      lipgloss.Color("#FD8D3C"),
	Red:         lipgloss.Color("#EF3B2C"),
	Yellow:      lipgloss.Color("#FECB52"),
	Cyan:        lipgloss.Color("#19D3F3"),

	History:    lipgloss.Color("#00E5FF"),
	Projection: lipgloss.Color("#636EFA"),
	Interval:   lipgloss.Color("#3A3F7A"),
	Gain:       [4]lipgloss.Color{"#1B5E32", "#238B45", "#74C476", "#C7E9C0"},
	Loss:       [2]lipgloss.Color{"#A63A32", "#EF3B2C"},
	Series: []lipgloss.Color{
		"#00E5FF", "#636EFA", "#00CC96", "#AB63FA", "#FFA15A", "#FF6692", "#B6E880",
	},
}

// FlexokiDark is a warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:          "flexoki-dark",
	Background:    lipgloss.Color("#100F0F"),
	Surface:       lipgloss.Color("#1C1B1A"),
	SurfaceHover:  lipgloss.Color("#282726"),
	SurfaceBright: lipgloss.Color("#343331"),
	Border:        lipgloss.Color("#403E3C"),
	BorderAccent:  lipgloss.Color("#3AA99F"),
	TextDim:       lipgloss.Color("#575653"),
	TextMuted:     lipgloss.Color("#878580"),
	TextPrimary:   lipgloss.Color("#FFFCF0"),
	Accent:        lipgloss.Color("#3AA99F"),
	AccentBright:  lipgloss.Color("#5BC8BE"),

	Green:       lipgloss.Color("#879A39"),
	GreenBright: lipgloss.Color("#A3B859"),
	Orange:      lipgloss.Color("#DA702C"),
	Red:         lipgloss.Color("#D14D41"),
	Yellow:      lipgloss.Color("#D0A215"),
	Cyan:        lipgloss.Color("#24837B"),

	History:    lipgloss.Color("#4385BE"),
	Projection: lipgloss.Color("#CE5D97"),
	Interval:   lipgloss.Color("#4F3341"),
	Gain:       [4]lipgloss.Color{"#3D4420", "#66742B", "#879A39", "#A3B859"},
	Loss:       [2]lipgloss.Color{"#DA702C", "#D14D41"},
	Series: []lipgloss.Color{
		"#6BA3D6", "#24837B", "#CE5D97", "#D0A215", "#879A39", "#DA702C", "#5BC8BE",
	},
}

// Terminal sticks to the 16 ANSI colors.
var Terminal = Theme{
	Name:          "terminal",
	Background:    "0",
	Surface:       "0",
	SurfaceHover:  "8",
	SurfaceBright: "8",
	Border:        "8",
	BorderAccent:  "6",
	TextDim:       "8",
	TextMuted:     "7",
	TextPrimary:   "15",
	Accent:        "6",
	AccentBright:  "14",

	Green:       "2",
	GreenBright: "10",
	Orange:      "3",
	Red:         "1",
	Yellow:      "11",
	Cyan:        "6",

	History:    "14",
	Projection: "13",
	Interval:   "5",
	Gain:       [4]lipgloss.Color{"2", "2", "10", "10"},
	Loss:       [2]lipgloss.Color{"3", "1"},
	Series:     []lipgloss.Color{"12", "14", "13", "11", "10", "9", "6"},
}

// All available themes, default first.
var All = []Theme{LaccNight, FlexokiDark, Terminal}

// Active is the currently selected theme.
var Active = LaccNight

// ByName returns a theme by its name, defaulting to LaccNight.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return LaccNight
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}
