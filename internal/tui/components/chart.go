package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/laccsec/growthbi/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := values[0]
	for _, v := range values[1:] {
		peak = math.Max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	top := len(sparkBlocks) - 1
	for _, v := range values {
		idx := max(0, min(int(v/peak*float64(top)), top))
		buf.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// column is one bar of a chart. band, when above value, is drawn as a shaded
// extension in bandColor.
type column struct {
	value     float64
	band      float64
	color     lipgloss.Color
	bandColor lipgloss.Color
}

// BarChart renders values as bars in a single color.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	cols := make([]column, len(values))
	for i, v := range values {
		cols[i] = column{value: v, color: color}
	}
	return barChart(cols, labels, width, height)
}

// ForecastChart renders the follower history in the theme's history color,
// then the projected means in its projection color with the upper interval
// bound shaded above each projected bar.
func ForecastChart(history, projected, upper []float64, labels []string, width, height int) string {
	return barChart(forecastColumns(history, projected, upper), labels, width, height)
}

func forecastColumns(history, projected, upper []float64) []column {
	t := theme.Active
	cols := make([]column, 0, len(history)+len(projected))
	for _, v := range history {
		cols = append(cols, column{value: v, color: t.History})
	}
	for i, v := range projected {
		c := column{value: v, color: t.Projection, bandColor: t.Interval}
		if i < len(upper) {
			c.band = upper[i]
		}
		cols = append(cols, c)
	}
	return cols
}

// yScale maps chart rows to values on round tick steps.
type yScale struct {
	step        float64
	ceiling     float64
	rows        int
	rowsPerTick int
}

func newYScale(peak float64, height int) yScale {
	step := chartTickStep(peak)
	maxTicks := max(2, height/2)
	for math.Ceil(peak/step) > float64(maxTicks) {
		step *= 2
	}
	ticks := max(1, int(math.Ceil(peak/step)))
	perTick := max(2, height/ticks)
	return yScale{
		step:        step,
		ceiling:     step * float64(ticks),
		rows:        perTick * ticks,
		rowsPerTick: perTick,
	}
}

// bounds returns the value range covered by row, counted from 1 at the bottom.
func (s yScale) bounds(row int) (lo, hi float64) {
	return s.ceiling * float64(row-1) / float64(s.rows), s.ceiling * float64(row) / float64(s.rows)
}

// label returns the tick label for row, or "" between ticks.
func (s yScale) label(row int) string {
	if row%s.rowsPerTick != 0 {
		return ""
	}
	return formatChartLabel(s.step * float64(row/s.rowsPerTick))
}

// sampleColumns keeps at most n columns spread evenly across cols, always
// including the last one.
func sampleColumns(cols []column, labels []string, n int) ([]column, []string) {
	if len(cols) <= n {
		return cols, labels
	}
	outCols := make([]column, n)
	var outLabels []string
	if len(labels) == len(cols) {
		outLabels = make([]string, n)
	}
	for i := range outCols {
		src := i * (len(cols) - 1) / (n - 1)
		outCols[i] = cols[src]
		if outLabels != nil {
			outLabels[i] = labels[src]
		}
	}
	return outCols, outLabels
}

// cell returns the glyph and color for one column within [lo, hi).
func (c column) cell(lo, hi float64) (rune, lipgloss.Color, bool) {
	switch {
	case c.value >= hi:
		return '█', c.color, true
	case c.value > lo:
		eighths := max(1, min(int((c.value-lo)/(hi-lo)*8), 8))
		return sparkBlocks[eighths-1], c.color, true
	case c.band > lo:
		return '░', c.bandColor, true
	}
	return ' ', "", false
}

func barChart(cols []column, labels []string, width, height int) string {
	if len(cols) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		values := make([]float64, len(cols))
		for i, c := range cols {
			values[i] = c.value
		}
		return Sparkline(values, cols[len(cols)-1].color)
	}
	t := theme.Active

	peak := 0.0
	for _, c := range cols {
		peak = math.Max(peak, math.Max(c.value, c.band))
	}
	if peak == 0 {
		peak = 1
	}
	scale := newYScale(peak, height)

	labelW := max(4, len(formatChartLabel(scale.ceiling))+1)
	plotW := max(5, width-labelW-1)

	// Bars are 2..6 wide with a one-cell gap; too many columns get sampled.
	cols, labels = sampleColumns(cols, labels, max(2, (plotW+1)/3))
	n := len(cols)
	gap := 1
	if n == 1 {
		gap = 0
	}
	barW := max(2, min(6, (plotW-(n-1)*gap)/n))
	axisLen := n*barW + (n-1)*gap

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := scale.rows; row >= 1; row-- {
		lo, hi := scale.bounds(row)
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", labelW, scale.label(row))))
		for i, c := range cols {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(" "))
			}
			glyph, color, ok := c.cell(lo, hi)
			if !ok {
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(color).Background(t.Surface).
				Render(strings.Repeat(string(glyph), barW)))
		}
		b.WriteString("\n")
	}
	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", labelW, "0", strings.Repeat("─", axisLen))))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", labelW+1)))
		b.WriteString(axis.Render(xLabels(labels, barW+gap, axisLen)))
	}
	return b.String()
}

// xLabels lays out labels under columns pitch cells apart, skipping any
// that would collide and always trying to show the last one.
func xLabels(labels []string, pitch, axisLen int) string {
	buf := []byte(strings.Repeat(" ", axisLen))
	step := max(1, len(labels)*8/(axisLen+1))
	lastEnd := -1
	place := func(pos int, lbl string) {
		if pos <= lastEnd || pos >= axisLen {
			return
		}
		end := pos + len(lbl)
		if end > axisLen {
			if axisLen-pos < 3 {
				return
			}
			end = axisLen
		}
		copy(buf[pos:end], lbl[:end-pos])
		lastEnd = end
	}
	for i := 0; i < len(labels); i += step {
		place(i*pitch, labels[i])
	}
	if last := len(labels) - 1; last > 0 && last%step != 0 {
		lbl := labels[last]
		place(min(last*pitch, axisLen-len(lbl)), lbl)
	}
	return strings.TrimRight(string(buf), " ")
}

// chartTickStep picks a 1, 2 or 5 times power-of-ten step giving about five ticks.
func chartTickStep(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	rough := peak / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	}
	return 5 * base
}

func formatChartLabel(v float64) string {
	for _, u := range []struct {
		div    float64
		suffix string
	}{{1e9, "B"}, {1e6, "M"}, {1e3, "k"}} {
		if v < u.div {
			continue
		}
		if v == math.Trunc(v/u.div)*u.div {
			return fmt.Sprintf("%.0f%s", v/u.div, u.suffix)
		}
		return fmt.Sprintf("%.1f%s", v/u.div, u.suffix)
	}
	if v >= 1 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
