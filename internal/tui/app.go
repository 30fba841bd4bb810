// Package tui provides the interactive Bubble Tea dashboard for growthbi.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/laccsec/growthbi/internal/cli"
	"github.com/laccsec/growthbi/internal/config"
	"github.com/laccsec/growthbi/internal/model"
	"github.com/laccsec/growthbi/internal/pipeline"
	"github.com/laccsec/growthbi/internal/tui/components"
	"github.com/laccsec/growthbi/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// DataLoadedMsg is sent when the dashboard history has been built.
type DataLoadedMsg struct {
	Dashboard *pipeline.Dashboard
	Err       error
	LoadTime  time.Duration
	Gen       int
}

// ForecastMsg is sent when a forecast for some horizon finishes.
type ForecastMsg struct {
	Horizon int
	Stats   model.ForecastStats
	Err     error
	Gen     int
}

// App is the root Bubble Tea model.
type App struct {
	cfg     config.Config
	cfgPath string
	log     zerolog.Logger

	// Data
	dash     *pipeline.Dashboard
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// gen counts history reloads. Messages from an older build are dropped.
	gen int

	// Forecasts by horizon for the current build.
	horizon     int
	forecasts   map[int]model.ForecastStats
	pending     map[int]bool
	forecasting bool
	forecastErr error

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool
	setupErr  error

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5 // minimum content area height
)

// NewApp creates a new TUI app model. needSetup shows the setup form before
// the dashboard, typically when no config file exists yet.
func NewApp(cfg config.Config, horizon int, needSetup bool, log zerolog.Logger) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		cfg:       cfg,
		cfgPath:   config.Path(),
		log:       log,
		horizon:   horizon,
		forecasts: make(map[int]model.ForecastStats),
		pending:   make(map[int]bool),
		needSetup: needSetup,
		spinner:   sp,
	}
}

// WithConfigPath sets where the setup form saves its answers.
func (a App) WithConfigPath(path string) App {
	a.cfgPath = path
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.cfg, a.gen),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}

		// Setup form intercepts all keys
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "+", "=":
			return a.setHorizon(a.cfg.StepHorizon(a.horizon, 1))
		case "-", "_":
			return a.setHorizon(a.cfg.StepHorizon(a.horizon, -1))
		case "r":
			return a.reload()
		case "S":
			return a.startSetup()
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		}
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
		return a, nil

	case DataLoadedMsg:
		if msg.Gen != a.gen {
			return a, nil
		}
		a.loaded = true
		a.loadErr = msg.Err
		a.loadTime = msg.LoadTime
		a.dash = msg.Dashboard
		if msg.Err != nil {
			a.log.Error().Err(msg.Err).Msg("building dashboard")
			return a, nil
		}
		if a.needSetup {
			return a.startSetup()
		}
		return a.setHorizon(a.horizon)

	case ForecastMsg:
		if msg.Gen != a.gen {
			a.log.Debug().Int("horizon", msg.Horizon).Msg("dropping forecast from an old build")
			return a, nil
		}
		delete(a.pending, msg.Horizon)
		if msg.Err == nil {
			a.forecasts[msg.Horizon] = msg.Stats
		}
		if msg.Horizon == a.horizon {
			a.forecasting = false
			a.forecastErr = msg.Err
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.forecasting {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

// setHorizon switches the forecast horizon, fitting it in the background
// unless it has been fitted already.
func (a App) setHorizon(h int) (tea.Model, tea.Cmd) {
	a.horizon = h
	a.forecastErr = nil
	if _, ok := a.forecasts[h]; ok || a.dash == nil {
		a.forecasting = false
		return a, nil
	}
	a.forecasting = true
	if a.pending[h] {
		return a, nil
	}
	a.pending[h] = true
	return a, tea.Batch(forecastCmd(a.dash.Total, h, a.cfg, a.gen), a.spinner.Tick)
}

// reload rebuilds the history under a new generation so fits still in
// flight for the old one are ignored when they land.
func (a App) reload() (tea.Model, tea.Cmd) {
	a.gen++
	a.loaded = false
	a.dash = nil
	a.forecasts = make(map[int]model.ForecastStats)
	a.pending = make(map[int]bool)
	a.forecasting = false
	a.forecastErr = nil
	return a, tea.Batch(loadDataCmd(a.cfg, a.gen), a.spinner.Tick)
}

func (a App) startSetup() (tea.Model, tea.Cmd) {
	a.setupForm, a.setupVals = NewSetup(a.cfg)
	if a.width > 0 {
		a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.setupForm.Init()
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.needSetup = false
		a.setupForm = nil
		cfg, err := a.setupVals.Apply(a.cfg)
		if err == nil {
			err = config.SaveTo(a.cfgPath, cfg)
		}
		a.setupErr = err
		if err != nil {
			a.log.Warn().Err(err).Msg("setup not saved")
			return a.setHorizon(a.horizon)
		}
		a.cfg = cfg
		a.horizon = cfg.Forecast.Horizon
		theme.SetActive(cfg.Appearance.Theme)
		return a.reload()

	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a.setHorizon(a.horizon)
	}

	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.loadErr != nil {
		return a.viewError()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  growthbi needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ growthbi"))
	b.WriteString(subtitleStyle.Render(" · " + a.cfg.General.Title))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(fmt.Sprintf(" Synthesizing %d channels...", len(a.cfg.Channels))))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewError() string {
	t := theme.Active
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	body := errStyle.Render(a.loadErr.Error()) + "\n\n" +
		lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("Fix "+a.cfgPath+" or press S to run setup, q to quit.")
	card := components.ContentCard("Could not build dashboard", body, min(a.width, 90))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		name     string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o c h f n", "Jump to tab"},
			{"← →", "Previous / Next tab"},
		}},
		{"Forecast", []struct{ key, desc string }{
			{"+ -", fmt.Sprintf("Horizon ±%d months (%d-%d)", a.cfg.Forecast.Step, a.cfg.Forecast.MinHorizon, a.cfg.Forecast.MaxHorizon)},
		}},
		{"Actions", []struct{ key, desc string }{
			{"r", "Rebuild from config"},
			{"S", "Run setup"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.name))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.horizon, a.loadTime.Round(time.Millisecond).String(), a.forecasting)

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case 0:
		content = a.renderOverviewTab(cw)
	case 1:
		content = a.renderChannelsTab(cw)
	case 2:
		content = a.renderHeatmapTab(cw)
	case 3:
		content = a.renderForecastTab(cw)
	case 4:
		content = a.renderFunnelTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// currentForecast returns the forecast for the active horizon, if fitted.
func (a App) currentForecast() (model.ForecastStats, bool) {
	fs, ok := a.forecasts[a.horizon]
	return fs, ok
}

// ─── Commands ───────────────────────────────────────────────────

// loadDataCmd builds the history in the background.
func loadDataCmd(cfg config.Config, gen int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		d, err := pipeline.BuildHistory(cfg)
		return DataLoadedMsg{Dashboard: d, Err: err, LoadTime: time.Since(start), Gen: gen}
	}
}

// forecastCmd fits the total series for horizon in the background.
func forecastCmd(total model.MonthlySeries, horizon int, cfg config.Config, gen int) tea.Cmd {
	return func() tea.Msg {
		fs, err := pipeline.RunForecast(total, horizon, cfg.Forecast.Options)
		return ForecastMsg{Horizon: horizon, Stats: fs, Err: err, Gen: gen}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// monthLabels returns compact X-axis labels: month name with the year on January
// and on the first entry.
func monthLabels(dates []time.Time) []string {
	labels := make([]string, len(dates))
	for i, d := range dates {
		if i == 0 || d.Month() == time.January {
			labels[i] = d.Format("Jan06")
		} else {
			labels[i] = d.Format("Jan")
		}
	}
	return labels
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// formatCount is shorthand for the dashboard's follower number format.
func formatCount(v float64) string {
	return cli.FormatFloat(v)
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
