package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/laccsec/growthbi/internal/config"
	"github.com/laccsec/growthbi/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	Title     string
	Start     string
	End       string
	Followers []string // parallel to the config's channels
	Horizon   int
	Goal      string
	Theme     string
}

// NewSetup builds the setup form prefilled from cfg. The returned values are
// bound to the form fields and can be applied once the form completes.
func NewSetup(cfg config.Config) (*huh.Form, *SetupValues) {
	vals := &SetupValues{
		Title:     cfg.General.Title,
		Start:     cfg.General.Start,
		End:       cfg.General.End,
		Followers: make([]string, len(cfg.Channels)),
		Horizon:   cfg.Forecast.Horizon,
		Theme:     cfg.Appearance.Theme,
	}
	for i, ch := range cfg.Channels {
		vals.Followers[i] = strconv.FormatInt(ch.Followers, 10)
	}
	if cfg.Goal.Target != nil {
		vals.Goal = strconv.FormatInt(*cfg.Goal.Target, 10)
	}

	general := huh.NewGroup(
		huh.NewNote().
			Title("Welcome to growthbi").
			Description("Set the reporting window and current follower counts."),
		huh.NewInput().Title("Dashboard title").Value(&vals.Title),
		huh.NewInput().Title("First month (YYYY-MM)").Value(&vals.Start).Validate(validateMonth),
		huh.NewInput().Title("Last month (YYYY-MM)").Value(&vals.End).Validate(validateMonth),
	)

	channelFields := make([]huh.Field, 0, len(cfg.Channels))
	for i, ch := range cfg.Channels {
		channelFields = append(channelFields, huh.NewInput().
			Title(ch.Name+" followers").
			Value(&vals.Followers[i]).
			Validate(validateCount))
	}
	channels := huh.NewGroup(channelFields...)

	horizons := make([]huh.Option[int], 0)
	for h := cfg.Forecast.MinHorizon; h <= cfg.Forecast.MaxHorizon; h += cfg.Forecast.Step {
		horizons = append(horizons, huh.NewOption(fmt.Sprintf("%d months", h), h))
	}
	forecast := huh.NewGroup(
		huh.NewSelect[int]().Title("Default forecast horizon").Options(horizons...).Value(&vals.Horizon),
		huh.NewInput().
			Title("Follower goal").
			Description("Leave empty for 1.5x the current total").
			Value(&vals.Goal).
			Validate(validateGoal),
		huh.NewSelect[string]().Title("Color theme").Options(huh.NewOptions(theme.Names()...)...).Value(&vals.Theme),
	)

	form := huh.NewForm(general, channels, forecast).WithTheme(huh.ThemeCharm())
	return form, vals
}

// Apply copies the answers onto cfg and validates the result.
func (v *SetupValues) Apply(cfg config.Config) (config.Config, error) {
	cfg.General.Title = strings.TrimSpace(v.Title)
	cfg.General.Start = strings.TrimSpace(v.Start)
	cfg.General.End = strings.TrimSpace(v.End)

	channels := make([]config.ChannelConfig, len(cfg.Channels))
	copy(channels, cfg.Channels)
	for i := range channels {
		if i >= len(v.Followers) {
			break
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v.Followers[i]), 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s followers: %w", channels[i].Name, err)
		}
		channels[i].Followers = n
	}
	cfg.Channels = channels

	cfg.Forecast.Horizon = v.Horizon
	cfg.Goal.Target = nil
	if g := strings.TrimSpace(v.Goal); g != "" {
		n, err := strconv.ParseInt(g, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("goal: %w", err)
		}
		cfg.Goal.Target = &n
	}
	cfg.Appearance.Theme = v.Theme

	return cfg, config.Validate(cfg)
}

func validateMonth(s string) error {
	if _, err := time.Parse(config.MonthLayout, strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM")
	}
	return nil
}

func validateCount(s string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return errors.New("enter a whole number, 0 or more")
	}
	return nil
}

func validateGoal(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return errors.New("enter a positive whole number or leave empty")
	}
	return nil
}
