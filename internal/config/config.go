// Package config loads and saves growthbi settings as TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/laccsec/growthbi/internal/forecast"
	"github.com/laccsec/growthbi/internal/model"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// MonthLayout is the format of the start and end months.
const MonthLayout = "2006-01"

var validate = validator.New()

// Config holds all growthbi configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Channels   []ChannelConfig  `toml:"channels" validate:"required,min=1,unique=Name,dive"`
	Forecast   ForecastConfig   `toml:"forecast"`
	Goal       GoalConfig       `toml:"goal"`
	Funnel     FunnelConfig     `toml:"funnel"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
	Milestones []Milestone      `toml:"milestones,omitempty" validate:"omitempty,dive"`
}

// GeneralConfig holds the dashboard identity and historical range.
type GeneralConfig struct {
	Title string `toml:"title" default:"Latin America Cybersecurity Challenge"`
	Start string `toml:"start" default:"2024-01" validate:"required,datetime=2006-01"`
	End   string `toml:"end" default:"2025-06" validate:"required,datetime=2006-01"`
	Seed  uint64 `toml:"seed" default:"42"`
}

// ChannelConfig is one tracked social channel and its current follower count.
type ChannelConfig struct {
	Name      string `toml:"name" validate:"required"`
	Followers int64  `toml:"followers" validate:"gte=0"`
}

// ForecastConfig holds the horizon bounds and trend model settings.
type ForecastConfig struct {
	Horizon    int `toml:"horizon" default:"12" validate:"gtefield=MinHorizon,ltefield=MaxHorizon"`
	MinHorizon int `toml:"min_horizon" default:"3" validate:"gte=1"`
	MaxHorizon int `toml:"max_horizon" default:"24" validate:"gtefield=MinHorizon"`
	Step       int `toml:"step" default:"3" validate:"gte=1"`

	forecast.Options
}

// GoalConfig holds the follower target. Nil means 1.5x the current total.
type GoalConfig struct {
	Target *int64 `toml:"target,omitempty" validate:"omitempty,gt=0"`
}

// FunnelConfig holds conversion rates between funnel stages.
type FunnelConfig struct {
	NewsletterRate  float64 `toml:"newsletter_rate" default:"0.30" validate:"gte=0,lte=1"`
	ParticipantRate float64 `toml:"participant_rate" default:"0.40" validate:"gte=0,lte=1"`
	LeadRate        float64 `toml:"lead_rate" default:"0.10" validate:"gte=0,lte=1"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" default:"lacc-night" validate:"oneof=lacc-night flexoki-dark terminal"`
}

// ServerConfig holds the JSON API listener settings.
type ServerConfig struct {
	Addr string `toml:"addr" default:"127.0.0.1:8787" validate:"required,hostname_port"`
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level  string `toml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `toml:"format" default:"console" validate:"oneof=console json"`
}

// Milestone is an upcoming event shown under the dashboard.
type Milestone struct {
	When string `toml:"when" validate:"required"`
	What string `toml:"what" validate:"required"`
}

// DefaultChannels are the follower counts of the LACC accounts.
func DefaultChannels() []ChannelConfig {
	return []ChannelConfig{
		{Name: "LinkedIn ICC", Followers: 3386},
		{Name: "LinkedIn Latin", Followers: 307},
		{Name: "X Contacto", Followers: 3},
		{Name: "X LatamCaribe", Followers: 272},
		{Name: "Instagram", Followers: 126},
		{Name: "TikTok", Followers: 12},
		{Name: "YouTube", Followers: 103},
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		// Tags are static; a failure here is a programming error.
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	cfg.Channels = DefaultChannels()
	cfg.Milestones = DefaultMilestones()
	return cfg
}

// DefaultMilestones are the upcoming LACC events.
func DefaultMilestones() []Milestone {
	return []Milestone{
		{When: "Jul 2025", What: "In-person LACC event (500+ ethical hackers)"},
		{When: "Aug 2025", What: "Cybersecurity scholarship program"},
		{When: "Dec 2025", What: "Regional CSIRT operational"},
	}
}

// checkFollowersSet rejects a [[channels]] table without a followers key.
// A missing count would otherwise read as zero.
func checkFollowersSet(md toml.MetaData, channels []ChannelConfig) error {
	set := make([]bool, len(channels))
	idx := -1
	for _, k := range md.Keys() {
		switch k.String() {
		case "channels":
			idx++
		case "channels.followers":
			if idx >= 0 && idx < len(set) {
				set[idx] = true
			}
		}
	}
	// Inline arrays record a single "channels" key; leave those to validation.
	if idx+1 != len(channels) {
		return nil
	}
	for i, ok := range set {
		if !ok {
			return fmt.Errorf("%w: channel %q has no followers count",
				model.ErrInvalidInput, channels[i].Name)
		}
	}
	return nil
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "growthbi")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "growthbi")
}

// Path returns the config file path. GROWTHBI_CONFIG overrides the default location.
func Path() string {
	if p := os.Getenv("GROWTHBI_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads and validates the config at path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the local user
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	// Arrays in the file replace the defaults instead of decoding over them.
	cfg.Channels = nil
	cfg.Milestones = nil
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}
	if !md.IsDefined("channels") {
		cfg.Channels = DefaultChannels()
	}
	if !md.IsDefined("milestones") {
		cfg.Milestones = DefaultMilestones()
	}
	if err := checkFollowersSet(md, cfg.Channels); err != nil {
		return cfg, err
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo validates cfg and writes it to path.
func SaveTo(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is chosen by the local user
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	return ExistsAt(Path())
}

// ExistsAt reports whether a config file exists at path.
func ExistsAt(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Validate checks field constraints and the month range.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("%w: config field %s fails %q (value %v)",
				model.ErrInvalidInput, e.Namespace(), e.Tag(), e.Value())
		}
		return fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}

	start, end, err := cfg.Range()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end %s before start %s",
			model.ErrInvalidInput, cfg.General.End, cfg.General.Start)
	}
	return nil
}

// Range parses the configured start and end months.
func (c Config) Range() (start, end time.Time, err error) {
	start, err = time.Parse(MonthLayout, c.General.Start)
	if err != nil {
		return start, end, fmt.Errorf("%w: start month: %v", model.ErrInvalidInput, err)
	}
	end, err = time.Parse(MonthLayout, c.General.End)
	if err != nil {
		return start, end, fmt.Errorf("%w: end month: %v", model.ErrInvalidInput, err)
	}
	return start, end, nil
}

// Endpoints converts the channel table into ordered channel endpoints.
func (c Config) Endpoints() []model.ChannelEndpoint {
	eps := make([]model.ChannelEndpoint, len(c.Channels))
	for i, ch := range c.Channels {
		eps[i] = model.ChannelEndpoint{Name: ch.Name, Current: ch.Followers}
	}
	return eps
}

// CheckHorizon reports whether h lies within the configured horizon bounds.
func (c Config) CheckHorizon(h int) error {
	if h < c.Forecast.MinHorizon || h > c.Forecast.MaxHorizon {
		return fmt.Errorf("%w: horizon %d outside [%d, %d]",
			model.ErrInvalidInput, h, c.Forecast.MinHorizon, c.Forecast.MaxHorizon)
	}
	return nil
}

// StepHorizon moves h by dir steps, clamped to the configured bounds.
func (c Config) StepHorizon(h, dir int) int {
	h += dir * c.Forecast.Step
	if h < c.Forecast.MinHorizon {
		h = c.Forecast.MinHorizon
	}
	if h > c.Forecast.MaxHorizon {
		h = c.Forecast.MaxHorizon
	}
	return h
}
